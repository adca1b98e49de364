package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

var (
	envFilePath string
	parseOnce   sync.Once

	exportMu sync.Mutex
	exported = map[string]bool{}
)

func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New exports the env file (from -env, or ./.env when present) into the
// process environment and parses T with the given envconfig prefix.
// Variables already set in the environment win over the file.
func New[T any](prefix string) (*T, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, fmt.Errorf("parse config prefix=%q: %w", prefix, err)
	}
	return &conf, nil
}

func loadEnvFile() error {
	path := resolveEnvPath()
	required := path != ""
	if !required {
		path = defaultEnvFile
	}

	exportMu.Lock()
	defer exportMu.Unlock()
	if exported[path] {
		return nil
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("env file %s is a directory", path)
	case errors.Is(err, os.ErrNotExist) && !required:
		exported[path] = true
		return nil
	case err != nil:
		return fmt.Errorf("failed to load env file: %w", err)
	}

	if err := exportEnvironment(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	exported[path] = true
	return nil
}

func resolveEnvPath() string {
	parseOnce.Do(func() {
		if flag.Lookup("env") == nil {
			flag.StringVar(&envFilePath, "env", "", "path to .env file")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	return strings.TrimSpace(envFilePath)
}

func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}
