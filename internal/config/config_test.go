package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"scan_report_srv/internal/domain/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp переключает рабочую директорию, чтобы не подхватить чужой config.yaml
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "sqlite:///scan_reports.db", cfg.DB.DSN)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "uploaded_scans", cfg.Storage.BasePath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "sqlite:///scan_reports.db", cfg.Database().DSN)
	assert.Equal(t, 15*time.Second, cfg.Server.StartTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_DATABASE_DSN", "postgres://user:pass@db:5432/scans?sslmode=disable")
	t.Setenv("APP_STORAGE_BASEPATH", "/data/scans")
	t.Setenv("APP_LOGGING_FORMAT", "json")
	t.Setenv("APP_SERVER_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "postgres://user:pass@db:5432/scans?sslmode=disable", cfg.DB.DSN)
	assert.Equal(t, "/data/scans", cfg.Storage.BasePath)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadLegacyVariables(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_URL", "sqlite:///legacy.db")
	t.Setenv("STORAGE_MODE", "s3")
	t.Setenv("APP_STORAGE_S3_BUCKET", "scans")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite:///legacy.db", cfg.DB.DSN)
	assert.Equal(t, "s3", cfg.Storage.Type)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown scheme", map[string]string{"APP_DATABASE_DSN": "mysql://localhost/scans"}},
		{"empty sqlite path", map[string]string{"APP_DATABASE_DSN": "sqlite:///"}},
		{"unknown storage", map[string]string{"APP_STORAGE_TYPE": "ftp"}},
		{"s3 without bucket", map[string]string{"APP_STORAGE_TYPE": "s3"}},
		{"bad log level", map[string]string{"APP_LOGGING_LEVEL": "loud"}},
		{"bad log format", map[string]string{"APP_LOGGING_FORMAT": "xml"}},
		{"zero shutdown timeout", map[string]string{"APP_SERVER_SHUTDOWN_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.True(t, report.Is(err, report.KindConfiguration))
		})
	}
}

func TestLoadFile(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  address: ":9090"
database:
  dsn: "sqlite:///data/scans.db"
storage:
  type: local
  basepath: "/srv/uploads"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "sqlite:///data/scans.db", cfg.DB.DSN)
	assert.Equal(t, "/srv/uploads", cfg.Storage.BasePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestStringHidesSecrets(t *testing.T) {
	cfg := Config{}
	cfg.DB.DSN = "postgres://user:secret@db/scans"
	cfg.Storage.S3.AccessKey = "AKIA"
	cfg.Storage.S3.SecretKey = "very-secret"

	s := cfg.String()
	assert.NotContains(t, s, "secret@db")
	assert.NotContains(t, s, "AKIA")
	assert.NotContains(t, s, "very-secret")
}
