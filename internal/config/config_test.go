package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Embedding: EmbeddingConfig{
			APIKey: "test-key",
			Model:  "text-embedding-3-small",
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestValidate_NegativeDimensions(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Dimensions = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative dimensions")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Corpus.CSVPath == "" {
		t.Error("expected default corpus csv path")
	}
	if cfg.Corpus.ArtifactPath == "" {
		t.Error("expected default artifact path")
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected default provider openai, got %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.BuildWorkers != 8 {
		t.Errorf("expected BuildWorkers=8, got %d", cfg.Embedding.BuildWorkers)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 5, WriteTimeoutSec: 60, ShutdownSec: 5},
		Corpus:    CorpusConfig{CSVPath: "custom.csv", ArtifactPath: "custom.bin"},
		Embedding: EmbeddingConfig{BuildWorkers: 2},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 5 {
		t.Errorf("expected ReadTimeoutSec=5, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Corpus.CSVPath != "custom.csv" {
		t.Errorf("expected custom csv path, got %q", cfg.Corpus.CSVPath)
	}
	if cfg.Embedding.BuildWorkers != 2 {
		t.Errorf("expected BuildWorkers=2, got %d", cfg.Embedding.BuildWorkers)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ASSESSREC_TEST_KEY", "secret")

	in := []byte("api_key: ${ASSESSREC_TEST_KEY}\nmodel: ${ASSESSREC_TEST_MODEL:-fallback-model}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nmodel: fallback-model\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
corpus:
  csv_path: data/test.csv
embedding:
  model: text-embedding-3-small
  dimensions: 384
`
	if err := os.WriteFile(filepath.Join(cfgDir, "test.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("expected dimensions 384, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Corpus.CSVPath != "data/test.csv" {
		t.Errorf("unexpected csv path %q", cfg.Corpus.CSVPath)
	}
}
