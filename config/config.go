package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the RAG backend.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Vector    VectorConfig    `mapstructure:"vector"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Executor  ExecutorConfig  `mapstructure:"executor"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig points at an OpenAI-compatible endpoint (typically a LiteLLM proxy)
// used for both chat completions and embeddings.
type LLMConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	APIKey          string        `mapstructure:"api_key"`
	CompletionModel string        `mapstructure:"completion_model"`
	EmbeddingModel  string        `mapstructure:"embedding_model"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// VectorConfig describes the external vector store.
type VectorConfig struct {
	URL        string        `mapstructure:"url"`
	Collection string        `mapstructure:"collection"`
	DataPath   string        `mapstructure:"data_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// DocumentsConfig describes where uploaded documents live.
type DocumentsConfig struct {
	Path string `mapstructure:"path"`
}

// ChunkingConfig controls the text splitter.
type ChunkingConfig struct {
	Size    int `mapstructure:"size"`
	Overlap int `mapstructure:"overlap"`
}

// ExecutorConfig controls sandboxed script execution.
type ExecutorConfig struct {
	Interpreter string        `mapstructure:"interpreter"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LoadConfig reads configuration from the given file, or from the usual
// search paths when path is empty. Environment variables prefixed with
// QAFORGE_ override file values (QAFORGE_SERVER_ADDRESS, QAFORGE_LLM_ENDPOINT, ...).
// A missing config file is fine; defaults cover the documented baseline.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("llm.endpoint", "http://localhost:4000")
	viper.SetDefault("llm.completion_model", "gpt-3.5-turbo")
	viper.SetDefault("llm.embedding_model", "sentence-transformers/all-MiniLM-L6-v2")
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("vector.url", "http://localhost:8001")
	viper.SetDefault("vector.collection", "documents")
	viper.SetDefault("vector.data_path", "./chroma_db")
	viper.SetDefault("vector.timeout", 15*time.Second)
	viper.SetDefault("documents.path", "./documents")
	viper.SetDefault("chunking.size", 1000)
	viper.SetDefault("chunking.overlap", 200)
	viper.SetDefault("executor.interpreter", "python3")
	viper.SetDefault("executor.timeout", 30*time.Second)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("QAFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	return &config
}

// EnsureDirs creates the documents and vector-store data directories if absent.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Documents.Path, c.Vector.DataPath} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
