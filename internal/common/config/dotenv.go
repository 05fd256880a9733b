package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DotenvPathEnv: .env 파일 경로 목록(쉼표 구분)을 지정하는 환경 변수
const DotenvPathEnv = "DOTENV_PATH"

// LoadDotenvIfPresent: .env 파일을 읽어 아직 설정되지 않은 환경 변수만 채웁니다.
// paths 가 비어있으면 DOTENV_PATH, 그것도 없으면 ".env" 를 사용합니다. 없는 파일은 건너뜁니다.
// 실제로 읽은 파일 경로를 반환합니다.
func LoadDotenvIfPresent(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = splitList(os.Getenv(DotenvPathEnv))
	}
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	loaded := make([]string, 0, len(paths))
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("read dotenv file failed path=%s: %w", path, err)
		}
		for key, value := range values {
			if _, exists := os.LookupEnv(key); exists {
				continue
			}
			if err := os.Setenv(key, strings.TrimSpace(value)); err != nil {
				return loaded, fmt.Errorf("set env %s from %s failed: %w", key, path, err)
			}
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
