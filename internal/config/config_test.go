package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid production config", func(c *Config) {}, false},
		{"Default JWT secret", func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" }, true},
		{"Short JWT secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"SQLite driver", func(c *Config) { c.DBDriver = "sqlite" }, true},
		{"Default DB password", func(c *Config) { c.DBPassword = "password" }, true},
		{"Empty DB password", func(c *Config) { c.DBPassword = "" }, true},
		{"Unknown DB driver", func(c *Config) { c.DBDriver = "mysql" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:        "production",
				Port:       "8080",
				DBDriver:   "postgres",
				DBSSLMode:  "require",
				DBPassword: "secure-password",
				JWTSecret:  "secure-secret-at-least-32-chars-long",
				RedisURL:   "localhost:6379",
			}
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDevelopment(t *testing.T) {
	c := &Config{
		Env:       "development",
		Port:      "8080",
		DBDriver:  "sqlite",
		DBPath:    "test.db",
		JWTSecret: "dev-secret",
	}

	assert.NoError(t, c.Validate())

	c.Port = ""
	assert.Error(t, c.Validate())

	c.Port = "8080"
	c.JWTSecret = ""
	assert.Error(t, c.Validate())
}

func TestLoadConfig_DriverNormalization(t *testing.T) {
	// Clean up environment variables and viper after test
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_DRIVER")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_DRIVER", "  SQLITE  ")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBDriver)
}
