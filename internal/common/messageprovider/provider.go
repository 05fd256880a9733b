// Package messageprovider 는 YAML 메시지 카탈로그에서 {param} 템플릿 문구를 조회한다.
package messageprovider

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider: YAML 트리를 점(.) 경로 키로 평탄화한 문구 테이블입니다.
type Provider struct {
	texts   map[string]string
	objects map[string]struct{}
}

// NewFromYAML: YAML 문서 전체를 로드합니다. 최상위는 객체여야 합니다.
func NewFromYAML(yamlContent string) (*Provider, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(yamlContent), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal yaml failed: %w", err)
	}

	p := &Provider{texts: make(map[string]string), objects: make(map[string]struct{})}
	if len(doc.Content) == 0 {
		return p, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml root must be an object (got kind %d)", root.Kind)
	}
	p.flatten("", root)
	return p, nil
}

// NewFromYAMLAtPath: rootKey 객체 아래의 문구만 사용합니다. 키는 rootKey 를 뺀 상대 경로입니다.
func NewFromYAMLAtPath(yamlContent string, rootKey string) (*Provider, error) {
	full, err := NewFromYAML(yamlContent)
	if err != nil {
		return nil, err
	}

	rootKey = strings.TrimSpace(rootKey)
	if rootKey == "" {
		return full, nil
	}
	if _, ok := full.objects[rootKey]; !ok {
		if _, scalar := full.texts[rootKey]; scalar {
			return nil, fmt.Errorf("yaml root key must be an object: %q", rootKey)
		}
		return nil, fmt.Errorf("yaml root key not found: %q", rootKey)
	}

	prefix := rootKey + "."
	sub := &Provider{texts: make(map[string]string), objects: make(map[string]struct{})}
	for key, text := range full.texts {
		if rel, ok := strings.CutPrefix(key, prefix); ok {
			sub.texts[rel] = text
		}
	}
	for key := range full.objects {
		if rel, ok := strings.CutPrefix(key, prefix); ok {
			sub.objects[rel] = struct{}{}
		}
	}
	return sub, nil
}

func (p *Provider) flatten(prefix string, node *yaml.Node) {
	switch node.Kind {
	case yaml.MappingNode:
		if prefix != "" {
			p.objects[prefix] = struct{}{}
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			p.flatten(key, node.Content[i+1])
		}
	case yaml.ScalarNode:
		p.texts[prefix] = node.Value
	case yaml.AliasNode:
		if node.Alias != nil {
			p.flatten(prefix, node.Alias)
		}
	}
}

// Lookup: 키에 해당하는 문구와 존재 여부를 반환합니다.
func (p *Provider) Lookup(key string, params ...Param) (string, bool) {
	if p == nil {
		return key, false
	}
	template, ok := p.texts[strings.TrimSpace(key)]
	if !ok || key == "" {
		return key, false
	}
	if len(params) == 0 {
		return template, true
	}

	pairs := make([]string, 0, len(params)*2)
	for _, param := range params {
		pairs = append(pairs, "{"+param.Key+"}", fmt.Sprint(param.Value))
	}
	return strings.NewReplacer(pairs...).Replace(template), true
}

// Get: 키에 해당하는 문구. 없는 키는 키 자체를 반환합니다.
func (p *Provider) Get(key string, params ...Param) string {
	out, _ := p.Lookup(key, params...)
	return out
}

// Param: 템플릿 치환 인자
type Param struct {
	Key   string
	Value any
}

// P: Param 생성 헬퍼
func P(key string, value any) Param {
	return Param{Key: key, Value: value}
}
