package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"esg-rag/internal/extract"
)

const (
	defaultChunkSize      = 1000
	defaultChunkOverlap   = 200
	defaultTopK           = 5
	defaultFallbackK      = 3
	defaultKeywordLimit   = 5
	defaultContextWindow  = 500
	defaultWorkers        = 4
	defaultCollectionName = "esg_reports"
	defaultDBPath         = "./chromemdb"
	defaultOutputDir      = "./output"
	defaultDimension      = 768

	VectorStoreChromem  = "chromem"
	VectorStorePostgres = "postgres"
)

type Config struct {
	LogLevel   string              `yaml:"log_level"`
	Database   DatabaseConfig      `yaml:"database"`
	EmbedLLM   LLMConfig           `yaml:"embed_llm"`
	QALLM      LLMConfig           `yaml:"qa_llm"`
	RAG        RAGConfig           `yaml:"rag"`
	Vocabulary *extract.Vocabulary `yaml:"vocabulary"`
}

type DatabaseConfig struct {
	Driver    string `yaml:"driver"`
	DSN       string `yaml:"dsn"`
	Password  string `yaml:"password"`
	Debug     bool   `yaml:"debug"`
	Dimension int    `yaml:"dimension"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
}

type RAGConfig struct {
	ChunkSize      int    `yaml:"chunk_size"`
	ChunkOverlap   int    `yaml:"chunk_overlap"`
	TopK           int    `yaml:"top_k"`
	FallbackK      int    `yaml:"fallback_k"`
	KeywordLimit   int    `yaml:"keyword_limit"`
	ContextWindow  int    `yaml:"context_window"`
	Workers        int    `yaml:"workers"`
	VectorStore    string `yaml:"vector_store"`
	DBPath         string `yaml:"db_path"`
	CollectionName string `yaml:"collection_name"`
	InMemory       bool   `yaml:"in_memory"`
	EncryptionKey  string `yaml:"encryption_key"`
	OutputDir      string `yaml:"output_dir"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every zero value with its default
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap <= 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		c.RAG.ChunkOverlap = min(defaultChunkOverlap, c.RAG.ChunkSize/2)
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.FallbackK <= 0 {
		c.RAG.FallbackK = defaultFallbackK
	}
	if c.RAG.KeywordLimit <= 0 {
		c.RAG.KeywordLimit = defaultKeywordLimit
	}
	if c.RAG.ContextWindow <= 0 {
		c.RAG.ContextWindow = defaultContextWindow
	}
	if c.RAG.Workers <= 0 {
		c.RAG.Workers = defaultWorkers
	}
	if c.RAG.VectorStore == "" {
		c.RAG.VectorStore = VectorStoreChromem
	}
	if c.RAG.DBPath == "" {
		c.RAG.DBPath = defaultDBPath
	}
	if c.RAG.CollectionName == "" {
		c.RAG.CollectionName = defaultCollectionName
	}
	if c.RAG.OutputDir == "" {
		c.RAG.OutputDir = defaultOutputDir
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "pgdriver"
	}
	if c.Database.Dimension <= 0 {
		c.Database.Dimension = defaultDimension
	}
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = "ollama"
	}
	if c.Vocabulary == nil {
		v := extract.DefaultVocabulary()
		c.Vocabulary = &v
	}
}
