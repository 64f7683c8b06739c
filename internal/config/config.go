// Package config loads and validates the YAML application configuration.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"docsight/internal/rag/errs"
)

// AppInfo holds basic application identity.
type AppInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// LoggerConfig configures the structured logger.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string `yaml:"address"`
	ShutdownTimeout string `yaml:"shutdownTimeout"`
}

// ShutdownDuration parses the graceful-shutdown window, defaulting to 10s.
func (s ServerConfig) ShutdownDuration() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ProviderConfig names one model provider and its credentials. BaseURL only
// applies to providers with a configurable endpoint.
type ProviderConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	BaseURL  string `yaml:"baseURL"`
}

// LLMConfig configures the generative model.
type LLMConfig struct {
	ProviderConfig `yaml:",inline"`
	Timeout        string `yaml:"timeout"`
}

// TimeoutDuration parses the per-call generation timeout; zero means the
// gateway default applies.
func (l LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(l.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// StorageConfig configures the document store.
type StorageConfig struct {
	// Backend is "sqlite" or "memory".
	Backend string `yaml:"backend"`
	// Path is the data directory for the sqlite backend.
	Path string `yaml:"path"`
}

// SplitterConfig bounds document chunking. Zero values fall back to the
// splitter defaults.
type SplitterConfig struct {
	ChunkSize    int `yaml:"chunkSize"`
	ChunkOverlap int `yaml:"chunkOverlap"`
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App       AppInfo        `yaml:"app"`
	Logger    LoggerConfig   `yaml:"logger"`
	Server    ServerConfig   `yaml:"server"`
	LLM       LLMConfig      `yaml:"llm"`
	Embedding ProviderConfig `yaml:"embedding"`
	Storage   StorageConfig  `yaml:"storage"`
	Splitter  SplitterConfig `yaml:"splitter"`
}

// Load reads, parses, and validates the configuration file. API keys may be
// supplied through the environment instead of the file: LLM_API_KEY and
// EMBEDDING_API_KEY override the corresponding fields, and GOOGLE_API_KEY
// fills either when the provider is gemini.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, errs.KindConfiguration, "reading config file %q", path)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errs.Wrap(err, errs.KindConfiguration, "parsing config file")
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) applyEnv() {
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("EMBEDDING_API_KEY"); key != "" {
		c.Embedding.APIKey = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		if c.LLM.Provider == "gemini" && c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
		if c.Embedding.Provider == "gemini" && c.Embedding.APIKey == "" {
			c.Embedding.APIKey = key
		}
	}
}

func (c *AppConfig) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "docsight"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8000"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data"
	}
}

func (c *AppConfig) validate() error {
	if c.LLM.Provider == "" {
		return errs.New(errs.KindConfiguration, "llm.provider is required")
	}
	if c.LLM.Model == "" {
		return errs.New(errs.KindConfiguration, "llm.model is required")
	}
	if c.Embedding.Provider == "" {
		return errs.New(errs.KindConfiguration, "embedding.provider is required")
	}
	if c.Embedding.Model == "" {
		return errs.New(errs.KindConfiguration, "embedding.model is required")
	}
	switch c.Storage.Backend {
	case "sqlite", "memory":
	default:
		return errs.Newf(errs.KindConfiguration, "unsupported storage backend: %s", c.Storage.Backend)
	}
	needsKey := map[string]bool{"gemini": true, "openai": true}
	if needsKey[c.LLM.Provider] && c.LLM.APIKey == "" {
		return errs.Newf(errs.KindConfiguration, "llm provider %s requires an api key", c.LLM.Provider)
	}
	if needsKey[c.Embedding.Provider] && c.Embedding.APIKey == "" {
		return errs.Newf(errs.KindConfiguration, "embedding provider %s requires an api key", c.Embedding.Provider)
	}
	return nil
}
