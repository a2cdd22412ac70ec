package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// DataDir is the root of all durable stores: knowledge_base.jsonl,
	// user_targets.json and the per-user ledger directories live under it.
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	LLMTimeout    time.Duration `envconfig:"LLM_TIMEOUT" default:"45s"`

	LedgerCacheSize int `envconfig:"LEDGER_CACHE_SIZE" default:"256"`

	Retrieval RetrievalConfig
}

// RetrievalConfig tunes the knowledge-base ranker. The collapse thresholds
// are empirically tuned values, kept configurable rather than baked in.
type RetrievalConfig struct {
	TopK              int     `envconfig:"TOP_K" default:"3"`
	MinScore          int     `envconfig:"MIN_SCORE" default:"35"`
	CutoffRatio       float64 `envconfig:"CUTOFF_RATIO" default:"0.7"`
	CollapseScore     int     `envconfig:"COLLAPSE_SCORE" default:"90"`
	CollapseMaxTokens int     `envconfig:"COLLAPSE_MAX_TOKENS" default:"2"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("MACROLOG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
