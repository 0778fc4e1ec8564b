package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
env: production
database:
  host: db.internal
  user: faq
  password: secret
  name: faq_prod
jwt_secret: topsecret
admin:
  username: root
  password: hunter2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "topsecret", cfg.JWTSecret)
	assert.Equal(t, "root", cfg.Admin.Username)
	assert.Equal(t, "hunter2", cfg.Admin.Password)
	assert.Equal(t, "faq:secret@tcp(db.internal:3306)/faq_prod?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, defaultAdminUser, cfg.Admin.Username)
	assert.Contains(t, cfg.DSN, "faqbase")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("DATABASE_DSN", "u:p@tcp(h:3306)/d")
	t.Setenv("ADMIN_PASSWORD", "changed")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "u:p@tcp(h:3306)/d", cfg.DSN)
	assert.Equal(t, "changed", cfg.Admin.Password)
}
