package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Templates TemplatesConfig
	Database  DatabaseConfig
	PDF       PDFConfig
	Output    OutputConfig
	Workers   WorkerConfig
	LogLevel  slog.Level
}

// TemplatesConfig locates the vendor template file
type TemplatesConfig struct {
	Path string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// PDFConfig selects the document parsing backend
type PDFConfig struct {
	Backend   string // "pdftotext" | "native"
	Pdftotext string
	MaxPages  int
}

// OutputConfig holds export destinations
type OutputConfig struct {
	InvoicesXLSX string
	ItemsXLSX    string
	InboxDir     string
}

// WorkerConfig sizes the batch worker pool
type WorkerConfig struct {
	Count          int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables, after applying
// a .env file from the working directory when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		Templates: TemplatesConfig{
			Path: getEnv("TEMPLATES_PATH", "vendor_templates.yaml"),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", "invoices.db"),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		PDF: PDFConfig{
			Backend:   getEnv("PDF_BACKEND", "pdftotext"),
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			MaxPages:  getEnvAsInt("PDF_MAX_PAGES", 0),
		},
		Output: OutputConfig{
			InvoicesXLSX: getEnv("OUTPUT_XLSX", "invoice_data.xlsx"),
			ItemsXLSX:    getEnv("ITEMS_XLSX", "item_database.xlsx"),
			InboxDir:     getEnv("INBOX_DIR", "./inbox"),
		},
		Workers: WorkerConfig{
			Count:          getEnvAsInt("WORKERS", 4),
			QueueSize:      getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", 2*time.Minute),
		},
		LogLevel: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(value))); err == nil {
			return lvl
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("TEMPLATES_PATH", c.Templates.Path, Required).
		Field("DB_URL", c.Database.DSN, Required).
		Field("PDF_BACKEND", c.PDF.Backend, OneOf("pdftotext", "native"))
	if c.Workers.Count <= 0 {
		v.Add(ValidationError{Field: "WORKERS", Value: c.Workers.Count, Message: "must be positive"})
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
