package secret

import (
	"os"
	"strings"
)

// EnvStore reads secrets from environment variables. A key like
// "github:token" maps to INKER_SECRET_GITHUB_TOKEN.
type EnvStore struct {
	prefix string
}

func NewEnvStore() *EnvStore {
	return &EnvStore{prefix: "INKER_SECRET_"}
}

func (s *EnvStore) envName(key string) string {
	name := strings.ToUpper(key)
	name = strings.NewReplacer(":", "_", "-", "_", "/", "_", ".", "_").Replace(name)
	return s.prefix + name
}

func (s *EnvStore) Set(key string, value []byte) error {
	return os.Setenv(s.envName(key), string(value))
}

func (s *EnvStore) Get(key string) ([]byte, error) {
	v, ok := os.LookupEnv(s.envName(key))
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (s *EnvStore) Delete(key string) error {
	return os.Unsetenv(s.envName(key))
}
