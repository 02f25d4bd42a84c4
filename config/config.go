package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/caarlos0/env/v11"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hackportal/models"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type RedisConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false" json:"enabled"`
	Address  string `env:"ADDRESS" envDefault:"localhost:6379" json:"address"`
	Password string `env:"PASSWORD" json:"-"`
	DB       int    `env:"DB" envDefault:"0" json:"db"`
}

type SMTPConfig struct {
	Host      string `env:"HOST" json:"host"`
	Port      int    `env:"PORT" envDefault:"587" json:"port"`
	Username  string `env:"USERNAME" json:"username"`
	Password  string `env:"PASSWORD" json:"-"`
	FromEmail string `env:"FROM_EMAIL" json:"from_email"`
}

// Enabled reports whether outbound mail is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" json:"environment"`
	ServerPort  string `env:"SERVER_PORT" envDefault:"5000" json:"server_port"`

	DBDriver       string `env:"DB_DRIVER" envDefault:"postgres" json:"db_driver"`
	DBDSN          string `env:"DB_DSN" json:"-"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost" json:"db_host"`
	DBPort         string `env:"DB_PORT" envDefault:"5432" json:"db_port"`
	DBUser         string `env:"DB_USER" envDefault:"postgres" json:"db_user"`
	DBPassword     string `env:"DB_PASSWORD" json:"-"`
	DBName         string `env:"DB_NAME" envDefault:"hackportal" json:"db_name"`
	DBSSLMode      string `env:"DB_SSL_MODE" envDefault:"disable" json:"db_ssl_mode"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"10" json:"db_max_idle_conns"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"100" json:"db_max_open_conns"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"hackathon.db" json:"sqlite_path"`

	AdminEmail    string    `env:"ADMIN_EMAIL" json:"admin_email"`
	AdminPassword string    `env:"ADMIN_PASSWORD" json:"-"`
	HackathonEnd  time.Time `env:"HACKATHON_END" envDefault:"2025-01-19T09:00:00Z" json:"hackathon_end"`

	SessionExpiration time.Duration `env:"SESSION_EXPIRATION" envDefault:"24h" json:"session_expiration"`
	CookieSecure      bool          `env:"COOKIE_SECURE" envDefault:"false" json:"cookie_secure"`
	LoginRateLimit    int           `env:"LOGIN_RATE_LIMIT" envDefault:"10" json:"login_rate_limit"`

	Redis RedisConfig `envPrefix:"REDIS_" json:"redis"`
	SMTP  SMTPConfig  `envPrefix:"SMTP_" json:"smtp"`

	SentryDSN          string   `env:"SENTRY_DSN" json:"-"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:"," json:"cors_allowed_origins"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info" json:"log_level"`
	LogFormat          string   `env:"LOG_FORMAT" envDefault:"json" json:"log_format"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig reads .env (when present) and the process environment, then
// validates the result once.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.IsProduction() {
		cfg.CookieSecure = true
	}
	return &cfg, nil
}

// Validate checks the values that have no usable default.
func (c *Config) Validate() error {
	c.AdminEmail = strings.ToLower(strings.TrimSpace(c.AdminEmail))
	if c.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if err := checkmail.ValidateFormat(c.AdminEmail); err != nil {
		return fmt.Errorf("ADMIN_EMAIL is invalid: %w", err)
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.HackathonEnd.IsZero() {
		return fmt.Errorf("HACKATHON_END is required")
	}

	switch c.DBDriver {
	case DriverPostgres, DriverMySQL:
		if c.DBDSN == "" && c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required for %s", c.DBDriver)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive")
	}
	if c.SessionExpiration <= 0 {
		return fmt.Errorf("SESSION_EXPIRATION must be positive")
	}
	if c.SMTP.Enabled() && c.SMTP.FromEmail == "" {
		return fmt.Errorf("SMTP_FROM_EMAIL is required when SMTP_HOST is set")
	}
	return nil
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case DriverSQLite:
		return c.SQLitePath
	default:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost,
			c.DBPort,
			c.DBUser,
			c.DBPassword,
			c.DBName,
			c.DBSSLMode,
		)
	}
}

func dialector(driver, dsn string) gorm.Dialector {
	switch driver {
	case DriverMySQL:
		return mysql.Open(dsn)
	case DriverSQLite:
		return sqlite.Open(dsn)
	default:
		return postgres.Open(dsn)
	}
}

// ConnectDB opens the configured database, tunes the pool and migrates the schema.
func ConnectDB(cfg *Config, log *logrus.Entry) (*gorm.DB, error) {
	dsn := cfg.DSN()
	log.WithField("dsn", maskPassword(dsn)).Infof("Connecting to %s database", cfg.DBDriver)

	db, err := gorm.Open(dialector(cfg.DBDriver, dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB instance: %w", err)
	}

	if cfg.DBDriver == DriverSQLite {
		// SQLite serialises writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(30 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("Connected to the database")

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	log.Info("Database migration completed")
	return db, nil
}

// Migrate creates or updates every table the portal uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.Submission{},
		&models.Feedback{},
		&models.Sponsor{},
		&models.LiveUpdate{},
		&models.Notification{},
	)
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		// mysql style user:pass@tcp(...)
		if at := strings.Index(dsn, "@"); at != -1 {
			if colon := strings.Index(dsn[:at], ":"); colon != -1 {
				return dsn[:colon+1] + "*****" + dsn[at:]
			}
		}
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

// LogSummary prints the non-secret parts of the configuration.
func (c *Config) LogSummary(log *logrus.Entry) {
	log.WithFields(logrus.Fields{
		"environment":   c.Environment,
		"server_port":   c.ServerPort,
		"db_driver":     c.DBDriver,
		"hackathon_end": c.HackathonEnd.Format(time.RFC3339),
		"redis":         c.Redis.Enabled,
		"smtp":          c.SMTP.Enabled(),
		"sentry":        c.SentryDSN != "",
	}).Info("Loaded configuration")
}
