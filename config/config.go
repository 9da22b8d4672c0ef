package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// NLU pipeline
	NLU   NLUConfig
	Paths PathsConfig

	// Embedding provider
	Embedding EmbeddingConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// NLUConfig holds the recognition tunables.
type NLUConfig struct {
	ConfidenceThreshold float64       // gates the regex paths
	SimilarityThreshold float64       // gates the model paths (domain and intent)
	FallbackDomain      string        // returned when no domain can be resolved
	RecognizeTimeout    time.Duration // overall deadline for one recognize call
	CacheSize           int           // bound for prediction/embedding caches
}

// PathsConfig holds the configuration document locations.
type PathsConfig struct {
	Vocabulary     string // vocabulary_groups.json
	RegexDir       string // directory of per-domain rule files
	DomainExamples string // domain_examples.json
	IntentExamples string // intent_examples.json
}

// EmbeddingConfig holds the embedding provider settings.
type EmbeddingConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	RequestsPerSecond float64
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// NLU pipeline
	cfg.NLU.ConfidenceThreshold = viper.GetFloat64("nlu.confidence_threshold")
	cfg.NLU.SimilarityThreshold = viper.GetFloat64("nlu.similarity_threshold")
	cfg.NLU.FallbackDomain = viper.GetString("nlu.fallback_domain")
	cfg.NLU.RecognizeTimeout = viper.GetDuration("nlu.recognize_timeout")
	cfg.NLU.CacheSize = viper.GetInt("nlu.cache_size")

	cfg.Paths.Vocabulary = viper.GetString("paths.vocabulary")
	cfg.Paths.RegexDir = viper.GetString("paths.regex_dir")
	cfg.Paths.DomainExamples = viper.GetString("paths.domain_examples")
	cfg.Paths.IntentExamples = viper.GetString("paths.intent_examples")

	// Embedding provider
	cfg.Embedding.BaseURL = viper.GetString("embedding.base_url")
	cfg.Embedding.APIKey = viper.GetString("embedding.api_key")
	cfg.Embedding.Model = viper.GetString("embedding.model")
	cfg.Embedding.RequestsPerSecond = viper.GetFloat64("embedding.requests_per_second")
	if embedURL := viper.GetString("embedding_base_url"); embedURL != "" {
		cfg.Embedding.BaseURL = embedURL
	}
	if embedKey := viper.GetString("embedding_api_key"); embedKey != "" {
		cfg.Embedding.APIKey = embedKey
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.NLU.ConfidenceThreshold < 0 || cfg.NLU.ConfidenceThreshold > 1 {
		return fmt.Errorf("nlu.confidence_threshold must be in [0,1], got %v", cfg.NLU.ConfidenceThreshold)
	}
	if cfg.NLU.SimilarityThreshold < 0 || cfg.NLU.SimilarityThreshold > 1 {
		return fmt.Errorf("nlu.similarity_threshold must be in [0,1], got %v", cfg.NLU.SimilarityThreshold)
	}
	if cfg.NLU.FallbackDomain == "" {
		return fmt.Errorf("nlu.fallback_domain is required")
	}
	if cfg.NLU.CacheSize <= 0 {
		return fmt.Errorf("nlu.cache_size must be positive, got %d", cfg.NLU.CacheSize)
	}
	if cfg.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required - please set embedding.base_url in config.yaml")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8081)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// NLU defaults
	viper.SetDefault("nlu.confidence_threshold", 0.5)
	viper.SetDefault("nlu.similarity_threshold", 0.6)
	viper.SetDefault("nlu.fallback_domain", "通用")
	viper.SetDefault("nlu.recognize_timeout", "2s")
	viper.SetDefault("nlu.cache_size", 1000)

	viper.SetDefault("paths.vocabulary", "./configs/vocabulary_groups.json")
	viper.SetDefault("paths.regex_dir", "./configs/regex")
	viper.SetDefault("paths.domain_examples", "./configs/domain_examples.json")
	viper.SetDefault("paths.intent_examples", "./configs/intent_examples.json")

	viper.SetDefault("embedding.model", "paraphrase-multilingual-MiniLM-L12-v2")
	viper.SetDefault("embedding.requests_per_second", 50)
}
