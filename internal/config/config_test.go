package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{
			name:        "Missing port",
			cfg:         Config{SecretKey: "x"},
			expectError: true,
		},
		{
			name:        "Missing secret",
			cfg:         Config{Port: "8080"},
			expectError: true,
		},
		{
			name:        "Development with default secret",
			cfg:         Config{Env: "development", Port: "8080", SecretKey: defaultSecretKey},
			expectError: false,
		},
		{
			name:        "Production with default secret",
			cfg:         Config{Env: "production", Port: "8080", SecretKey: defaultSecretKey, DatabaseURL: "postgres://x"},
			expectError: true,
		},
		{
			name:        "Production with short secret",
			cfg:         Config{Env: "prod", Port: "8080", SecretKey: "short", DatabaseURL: "postgres://x"},
			expectError: true,
		},
		{
			name:        "Production with default db password and no url",
			cfg:         Config{Env: "production", Port: "8080", SecretKey: "a-very-long-production-secret-key-0123", DBPassword: "blog"},
			expectError: true,
		},
		{
			name:        "Production with database url",
			cfg:         Config{Env: "production", Port: "8080", SecretKey: "a-very-long-production-secret-key-0123", DatabaseURL: "postgres://u:p@db/blog"},
			expectError: false,
		},
		{
			name:        "Invalid smtp port",
			cfg:         Config{Port: "8080", SecretKey: "x", SMTPPort: 70000},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "smtp.gmail.com", c.SMTPHost)
	assert.Equal(t, 465, c.SMTPPort)
	assert.Equal(t, 20, c.SMTPTimeoutSeconds)
	assert.True(t, c.IsTest())
	assert.False(t, c.IsProduction())
}

func TestLoadConfig_LegacyMailAliases(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("MY_EMAIL", "sender@example.com")
	t.Setenv("MY_PASSWORD", "app-password")
	t.Setenv("TO_EMAIL", "Owner@Example.com")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sender@example.com", c.SMTPUsername)
	assert.Equal(t, "app-password", c.SMTPPassword)
	assert.Equal(t, "Owner@Example.com", c.ContactToEmail)
}
