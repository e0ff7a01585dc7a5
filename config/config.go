package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port  string
	GoEnv string

	DatabaseUrl   string
	MigrationsDir string

	JwtSecret  string
	JwtExpire  time.Duration
	BcryptCost int

	Smtp SmtpConfig
	Ses  SesConfig
	Mrr  MrrConfig

	RestampOnPublish bool
}

type SmtpConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

type SesConfig struct {
	Region          string
	AccessKeyId     string
	SecretAccessKey string
	From            string
	To              string
}

type MrrConfig struct {
	ApiUrl    string
	ApiKey    string
	ApiSecret string
	Debug     bool
}

func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

var dotEnvOnce sync.Once

func loadDotEnv() {
	dotEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	})
}

type DbConfig struct {
	DatabaseUrl   string
	MigrationsDir string
	Production    bool
}

// LoadDb reads only what the migrate command needs.
func LoadDb() *DbConfig {
	loadDotEnv()
	return &DbConfig{
		DatabaseUrl:   databaseUrl(),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		Production:    getEnv("GOENV", "development") == "production",
	}
}

// Load reads a .env file if one exists, then the process environment.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GoEnv:         getEnv("GOENV", "development"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		JwtSecret:     os.Getenv("JWT_SECRET"),
		Smtp: SmtpConfig{
			Host: os.Getenv("SMTP_HOST"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
			To:   os.Getenv("SMTP_TO"),
		},
		Ses: SesConfig{
			Region:          os.Getenv("AWS_SES_REGION"),
			AccessKeyId:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			From:            os.Getenv("AWS_SES_FROM_EMAIL"),
			To:              os.Getenv("AWS_SES_HR_EMAIL"),
		},
		Mrr: MrrConfig{
			ApiUrl:    getEnv("MRR_API_URL", "https://www.miningrigrentals.com/api/v2"),
			ApiKey:    os.Getenv("MRR_API_KEY"),
			ApiSecret: os.Getenv("MRR_API_SECRET"),
			Debug:     getBool("MRR_DEBUG", false),
		},
		RestampOnPublish: getBool("POST_RESTAMP_ON_PUBLISH", true),
	}

	if cfg.JwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set in the environment")
	}

	var err error
	cfg.JwtExpire, err = ParseExpiry(getEnv("JWT_EXPIRE", "7d"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid JWT_EXPIRE")
	}

	cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid BCRYPT_COST")
	}

	cfg.Smtp.Port, err = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid SMTP_PORT")
	}

	cfg.DatabaseUrl = databaseUrl()

	return cfg, nil
}

// ParseExpiry accepts "7d"-style day counts, Go durations ("12h", "30m"), or
// a bare number of seconds.
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty expiry")
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("expiry must be positive: %s", s)
		}
		return time.Duration(n) * time.Second, nil
	}

	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count: %s", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive: %s", s)
	}
	return d, nil
}

func databaseUrl() string {
	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl != "" {
		return dbUrl
	}

	if os.Getenv("DB_HOST") != "" &&
		os.Getenv("DB_PORT") != "" &&
		os.Getenv("DB_USER") != "" &&
		os.Getenv("DB_NAME") != "" {
		encodedPassword := url.QueryEscape(os.Getenv("DB_PASSWORD"))

		return "postgres://" + os.Getenv("DB_USER") + ":" + encodedPassword + "@" + os.Getenv("DB_HOST") + ":" + os.Getenv("DB_PORT") + "/" + os.Getenv("DB_NAME")
	}

	return ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q, using %v\n", key, value, defaultValue)
		return defaultValue
	}
	return b
}
