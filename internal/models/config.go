package models

import (
	"os"
	"time"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Display  DisplayConfig
	Log      LogConfig
}

// DatabaseConfig holds the ledger snapshot file settings
type DatabaseConfig struct {
	Path            string
	CreateIfMissing bool
	FileMode        os.FileMode
	SeedFile        string
}

// ServerConfig holds HTTP transport settings
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// DisplayConfig holds console report settings
type DisplayConfig struct {
	Currency string
}

// LogConfig holds logger settings
type LogConfig struct {
	Development bool
}
