// Package ci reads the environment provided by the CI runner.
package ci

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env is the subset of the GitHub Actions environment the gate uses.
type Env struct {
	Actions     bool   `env:"GITHUB_ACTIONS"`
	Output      string `env:"GITHUB_OUTPUT"`
	StepSummary string `env:"GITHUB_STEP_SUMMARY"`
	SHA         string `env:"GITHUB_SHA"`
	Workspace   string `env:"GITHUB_WORKSPACE"`
	Repository  string `env:"GITHUB_REPOSITORY"`
	Token       string `env:"GITHUB_TOKEN"`
	EventPath   string `env:"GITHUB_EVENT_PATH"`

	RawBaseURL string `env:"RELEASE_GATE_RAW_BASE_URL" envDefault:"https://raw.githubusercontent.com"`
	ConfigPath string `env:"RELEASE_GATE_CONFIG"`
	LogLevel   string `env:"RELEASE_GATE_LOG_LEVEL" envDefault:"info"`
}

// LoadEnv parses the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// LoadEnvFrom parses the given environment instead of the process one.
func LoadEnvFrom(environ map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// RepositoryRawURL returns the raw content base URL for the current
// repository, or "" when the repository is unknown.
func (e Env) RepositoryRawURL() string {
	if e.Repository == "" {
		return ""
	}
	return strings.TrimRight(e.RawBaseURL, "/") + "/" + e.Repository
}

// BeforeSHA returns the commit a push event moved the ref from, read from
// the event payload. It is "" when there is no payload, the event is not a
// push, or the ref was newly created.
func (e Env) BeforeSHA() (string, error) {
	if e.EventPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(e.EventPath)
	if err != nil {
		return "", fmt.Errorf("read event payload: %w", err)
	}
	var payload struct {
		Before string `json:"before"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("parse event payload %s: %w", e.EventPath, err)
	}
	if strings.Trim(payload.Before, "0") == "" {
		return "", nil
	}
	return payload.Before, nil
}
