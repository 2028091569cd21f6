package config

import (
	"testing"
	"time"
)

func setDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "reviews")
}

func TestLoadDefaults(t *testing.T) {
	setDBEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != "postgres" || cfg.DBPort != "5432" {
		t.Fatalf("driver=%s port=%s", cfg.DBDriver, cfg.DBPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("ttl=%v", cfg.TokenTTL)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("secret=%q", cfg.JWTSecret)
	}
}

func TestLoadMySQLPort(t *testing.T) {
	setDBEnv(t)
	t.Setenv("DB_DRIVER", "MySQL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != "mysql" || cfg.DBPort != "3306" {
		t.Fatalf("driver=%s port=%s", cfg.DBDriver, cfg.DBPort)
	}
}

func TestLoadSecretFallback(t *testing.T) {
	tests := []struct {
		name    string
		appEnv  string
		wantErr bool
	}{
		{"development falls back", "development", false},
		{"production refuses", "production", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setDBEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)
			t.Setenv("JWT_SECRET", "")

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.JWTSecret != InsecureDevSecret {
				t.Fatalf("secret=%q", cfg.JWTSecret)
			}
		})
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setDBEnv(t)
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}
