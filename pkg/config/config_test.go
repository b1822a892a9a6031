package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 300, cfg.Pipeline.MaxChunkSeconds)
	assert.Equal(t, 5, cfg.Pipeline.ChunkOverlapSeconds)
	assert.Equal(t, 3*time.Minute, cfg.Pipeline.ChunkTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Pipeline.AnalysisCacheTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PIPELINE_MAX_CHUNK_SECONDS", "120")
	t.Setenv("PIPELINE_CHUNK_TIMEOUT", "45s")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Pipeline.MaxChunkSeconds)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.ChunkTimeout)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
}

func TestValidate_RejectsBadOverlap(t *testing.T) {
	cfg := &Config{}
	cfg.Pipeline.MaxChunkSeconds = 60
	cfg.Pipeline.ChunkOverlapSeconds = 60
	assert.Error(t, cfg.Validate())

	cfg.Pipeline.ChunkOverlapSeconds = 5
	assert.NoError(t, cfg.Validate())
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "records", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=records sslmode=disable", cfg.GetDatabaseDSN())
}
