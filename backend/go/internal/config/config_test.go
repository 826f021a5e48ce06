package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwtSecret: secret
databases:
  driver: postgres
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 100, cfg.Server.DefaultLimit)
	assert.Equal(t, "nef_service", cfg.App.Name)
	assert.Equal(t, "nef_service", cfg.Auth.Issuer)
	assert.Equal(t, 60*60*24*8, cfg.Auth.TokenTTL)
	assert.Equal(t, "nef_entity_events", cfg.Events.Kafka.Topic)
	assert.Equal(t, "audit_events", cfg.Databases.MongoDB.Collection)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwtSecret: from-file
databases:
  driver: mysql
`)
	t.Setenv("NEF_JWT_SECRET", "from-env")
	t.Setenv("NEF_DB_DRIVER", "postgres")
	t.Setenv("NEF_TOKEN_TTL", "120")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JwtSecret)
	assert.Equal(t, "postgres", cfg.Databases.Driver)
	assert.Equal(t, 120, cfg.Auth.TokenTTL)
}

func TestLoad_RejectsBadTokenTTL(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwtSecret: s\n")
	t.Setenv("NEF_TOKEN_TTL", "soon")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     AppConfig
		wantErr bool
	}{
		{"ok", AppConfig{Auth: AuthConfig{JwtSecret: "s"}, Databases: DatabaseConfigs{Driver: "mysql"}}, false},
		{"missing secret", AppConfig{Databases: DatabaseConfigs{Driver: "mysql"}}, true},
		{"unknown driver", AppConfig{Auth: AuthConfig{JwtSecret: "s"}, Databases: DatabaseConfigs{Driver: "oracle"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
