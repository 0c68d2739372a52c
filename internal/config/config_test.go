package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DATABASE_URL", "study.db")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("UPLOAD_DIR", "/tmp/uploads")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "25")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "30")

	LoadConfig()

	assert.Equal(t, "test-key", AppConfig.GeminiAPIKey)
	assert.Equal(t, "study.db", AppConfig.DatabaseURL)
	assert.Equal(t, "9090", AppConfig.HTTPPort)
	assert.Equal(t, "/tmp/uploads", AppConfig.UploadDir)
	assert.Equal(t, 25, AppConfig.MaxUploadSizeMB)
	assert.Equal(t, 30, AppConfig.GenerationTimeout)
	assert.Equal(t, int64(25*1024*1024), AppConfig.MaxUploadSizeBytes())
}

func TestLoadConfigDefaultsOnBadInt(t *testing.T) {
	t.Setenv("MAX_UPLOAD_SIZE_MB", "not-a-number")

	LoadConfig()

	assert.Equal(t, 50, AppConfig.MaxUploadSizeMB)
	assert.Equal(t, int64(50*1024*1024), AppConfig.MaxUploadSizeBytes())
}
