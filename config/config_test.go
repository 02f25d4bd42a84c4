package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Environment:       "development",
		DBDriver:          DriverSQLite,
		SQLitePath:        "hackathon.db",
		AdminEmail:        " Admin@Hack.dev ",
		AdminPassword:     "s3cret",
		HackathonEnd:      time.Date(2025, 1, 19, 9, 0, 0, 0, time.UTC),
		SessionExpiration: 24 * time.Hour,
		LoginRateLimit:    10,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing admin email", mutate: func(c *Config) { c.AdminEmail = "" }, wantErr: "ADMIN_EMAIL is required"},
		{name: "malformed admin email", mutate: func(c *Config) { c.AdminEmail = "admin" }, wantErr: "ADMIN_EMAIL is invalid"},
		{name: "missing admin password", mutate: func(c *Config) { c.AdminPassword = "" }, wantErr: "ADMIN_PASSWORD is required"},
		{name: "zero countdown", mutate: func(c *Config) { c.HackathonEnd = time.Time{} }, wantErr: "HACKATHON_END"},
		{name: "postgres without password", mutate: func(c *Config) { c.DBDriver = DriverPostgres }, wantErr: "DB_PASSWORD"},
		{name: "postgres with dsn", mutate: func(c *Config) { c.DBDriver = DriverPostgres; c.DBDSN = "postgres://x" }},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: "unsupported DB_DRIVER"},
		{name: "zero rate limit", mutate: func(c *Config) { c.LoginRateLimit = 0 }, wantErr: "LOGIN_RATE_LIMIT"},
		{name: "smtp without sender", mutate: func(c *Config) { c.SMTP.Host = "smtp.example.com" }, wantErr: "SMTP_FROM_EMAIL"},
	}

	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()

		if tt.wantErr == "" {
			if err != nil {
				t.Fatalf("%s: err = %v, want nil", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Fatalf("%s: err = %v, want it to mention %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateNormalizesAdminEmail(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.AdminEmail != "admin@hack.dev" {
		t.Fatalf("AdminEmail = %q, want %q", cfg.AdminEmail, "admin@hack.dev")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ADMIN_EMAIL", "admin@hack.dev")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("HACKATHON_END", "2026-03-01T18:30:00Z")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if want := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC); !cfg.HackathonEnd.Equal(want) {
		t.Fatalf("HackathonEnd = %v, want %v", cfg.HackathonEnd, want)
	}
	if !cfg.CookieSecure {
		t.Fatal("CookieSecure = false, want true in production")
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins = %v, want 2 origins", cfg.CORSAllowedOrigins)
	}
	if cfg.SessionExpiration != 24*time.Hour || cfg.LoginRateLimit != 10 || cfg.ServerPort != "5000" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigRequiresAdmin(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig without admin credentials succeeded")
	}
}

func TestDSN(t *testing.T) {
	t.Parallel()

	cfg := Config{
		DBDriver:   DriverPostgres,
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "portal",
		DBPassword: "pw",
		DBName:     "hackportal",
		DBSSLMode:  "disable",
	}
	if got, want := cfg.DSN(), "host=db port=5432 user=portal password=pw dbname=hackportal sslmode=disable"; got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}

	cfg.DBDriver = DriverMySQL
	cfg.DBPort = "3306"
	if got := cfg.DSN(); !strings.HasPrefix(got, "portal:pw@tcp(db:3306)/hackportal?") {
		t.Fatalf("mysql DSN() = %q", got)
	}

	cfg.DBDSN = "explicit"
	if got := cfg.DSN(); got != "explicit" {
		t.Fatalf("DSN() = %q, want the explicit DSN", got)
	}
}

func TestMaskPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "host=db password=pw dbname=x", want: "host=db password=***** dbname=x"},
		{dsn: "host=db password=pw", want: "host=db password=*****"},
		{dsn: "portal:pw@tcp(db:3306)/x", want: "portal:*****@tcp(db:3306)/x"},
		{dsn: "hackathon.db", want: "hackathon.db"},
	}
	for _, tt := range tests {
		if got := maskPassword(tt.dsn); got != tt.want {
			t.Fatalf("maskPassword(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}
