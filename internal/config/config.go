// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and
// an optional .env / JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the backend server's listening address (ip:port).
	Address string

	// DatabaseDSN holds the database connection string for the server.
	DatabaseDSN string

	// BaseURL is the backend base URL the client talks to.
	BaseURL string

	// StatePath is the path of the client's on-device state file.
	StatePath string

	// RemoteDisabled forces the client into local-only mode; the remote
	// record store is never called when set.
	RemoteDisabled bool

	// LogLevel sets the zap log level.
	LogLevel string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.BaseURL, "url", "http://localhost:8080", "backend base URL")
	flag.StringVar(&options.StatePath, "state", "reelplan_state.json", "path to client state file")
	flag.BoolVar(&options.RemoteDisabled, "offline", false, "disable the remote record store")
	flag.StringVar(&options.LogLevel, "log", "info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. A .env file in the working directory is loaded
// first, so its entries behave like ordinary environment variables.
// It returns a pointer to the Options struct containing the parsed
// configuration values.
func Parse() *Options {
	flag.Parse()

	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		options.BaseURL = baseURL
	}
	if statePath := os.Getenv("STATE_PATH"); statePath != "" {
		options.StatePath = statePath
	}
	if remote := os.Getenv("REMOTE_DISABLED"); remote != "" {
		if v, err := strconv.ParseBool(remote); err == nil {
			options.RemoteDisabled = v
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	return options
}
