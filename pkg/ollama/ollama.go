package ollama

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

type Config struct {
	Host    string        `split_words:"true" default:"http://localhost:11434"`
	Model   string        `split_words:"true" default:"phi4"`
	Timeout time.Duration `split_words:"true" default:"120s"`
}

func NewClient(cfg Config) (*api.Client, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "http://localhost:11434"
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host: %w", err)
	}

	httpClient := http.DefaultClient
	if cfg.Timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return api.NewClient(parsed, httpClient), nil
}
