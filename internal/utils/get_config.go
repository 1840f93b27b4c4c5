package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort  string `yaml:"APP_PORT"`
	WSPort   string `yaml:"WS_PORT"`
	AppURL   string `yaml:"APP_URL"`
	TimeZone string `yaml:"TIMEZONE"`

	// Logging
	LogLevel  string `yaml:"LOG_LEVEL"`
	LogFormat string `yaml:"LOG_FORMAT"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Notification store: "postgres" or "mongo"
	NotificationStore string `yaml:"NOTIFICATION_STORE"`
	MongoURI          string `yaml:"MONGO_URI"`
	MongoDatabase     string `yaml:"MONGO_DATABASE"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
	MailWorkers      string `yaml:"MAIL_WORKERS"`

	// OTP verification
	OTPMaxAttempts string `yaml:"OTP_MAX_ATTEMPTS"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

var defaults = map[string]string{
	"APP_PORT":           "5000",
	"WS_PORT":            "5001",
	"APP_URL":            "http://localhost:5173",
	"TIMEZONE":           "Asia/Kolkata",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "json",
	"DB_HOST":            "localhost",
	"DB_PORT":            "5432",
	"DB_USER":            "postgres",
	"DB_NAME":            "savebyte",
	"NOTIFICATION_STORE": "postgres",
	"MONGO_DATABASE":     "savebyte",
	"SMTP_PORT":          "587",
	"SMTP_SENDER_NAME":   "Save Byte",
	"MAIL_WORKERS":       "4",
	"OTP_MAX_ATTEMPTS":   "5",
	"AWS_S3_REGION":      "ap-south-1",
}

// LoadConfigFile reads the YAML file at path (when present) and lets
// environment variables with the same key override individual values.
func LoadConfigFile(path string) {
	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	for key, field := range fields() {
		if value, ok := os.LookupEnv(key); ok {
			*field = value
		}
	}
}

func fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":           &config.AppPort,
		"WS_PORT":            &config.WSPort,
		"APP_URL":            &config.AppURL,
		"TIMEZONE":           &config.TimeZone,
		"LOG_LEVEL":          &config.LogLevel,
		"LOG_FORMAT":         &config.LogFormat,
		"DB_USER":            &config.DBUser,
		"DB_NAME":            &config.DBName,
		"DB_PASSWORD":        &config.DBPassword,
		"DB_PORT":            &config.DBPort,
		"DB_HOST":            &config.DBHost,
		"NOTIFICATION_STORE": &config.NotificationStore,
		"MONGO_URI":          &config.MongoURI,
		"MONGO_DATABASE":     &config.MongoDatabase,
		"JWT_SECRET":         &config.JWTSecret,
		"SMTP_HOST":          &config.SMTPHost,
		"SMTP_PORT":          &config.SMTPPort,
		"SMTP_SENDER_NAME":   &config.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &config.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &config.SMTPAuthPassword,
		"MAIL_WORKERS":       &config.MailWorkers,
		"OTP_MAX_ATTEMPTS":   &config.OTPMaxAttempts,
		"AWS_S3_BUCKET":      &config.AWSS3Bucket,
		"AWS_S3_REGION":      &config.AWSS3Region,
		"AWS_ACCESS_KEY":     &config.AWSAccessKey,
		"AWS_SECRET_KEY":     &config.AWSSecretKey,
	}
}

// GetConfig returns the configured value for key, falling back to the
// built-in default. Unknown keys return "".
func GetConfig(key string) string {
	field, ok := fields()[key]
	if !ok {
		return ""
	}
	if *field != "" {
		return *field
	}
	return defaults[key]
}

// GetConfigInt parses an integer setting, returning fallback when the value
// is missing or malformed.
func GetConfigInt(key string, fallback int) int {
	value, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return value
}

// SetConfig overrides a single key at runtime.
func SetConfig(key, value string) {
	if field, ok := fields()[key]; ok {
		*field = value
	}
}
