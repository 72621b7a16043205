// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables, and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the listening address (ip:port) of the app server.
	Addr string

	// BackendURL is the base URL of the application backend API.
	BackendURL string

	// LookupURL is the base URL of the public product database.
	LookupURL string

	// WebhookURL is the recipe workflow webhook endpoint.
	WebhookURL string

	// StateFile is the path of the persisted session state file.
	StateFile string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// SuggestPoll is the interval between recipe message polls.
	SuggestPoll time.Duration

	// SuggestWait is the overall deadline for a suggestion round.
	SuggestWait time.Duration

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8090", "run on ip:port server")
	flag.StringVar(&options.BackendURL, "backend", "http://localhost:9092/api", "application backend base URL")
	flag.StringVar(&options.LookupURL, "lookup", "https://world.openfoodfacts.org/api/v0/product", "product database base URL")
	flag.StringVar(&options.WebhookURL, "webhook", "", "recipe workflow webhook URL")
	flag.StringVar(&options.StateFile, "state", "state.json", "path to session state file")
	flag.StringVar(&options.LogLevel, "log", "info", "log level")
	flag.DurationVar(&options.SuggestPoll, "suggest-poll", 3*time.Second, "recipe message poll interval")
	flag.DurationVar(&options.SuggestWait, "suggest-wait", 45*time.Second, "recipe suggestion deadline")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the optional config file, and
// environment variables to set configuration values. It returns a pointer
// to the Options struct containing the parsed configuration values.
func Parse() *Options {
	// Load a .env file when present so env overrides work locally.
	_ = godotenv.Load()

	flag.Parse()

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

	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		options.Addr = addr
	}
	if backend := os.Getenv("BACKEND_URL"); backend != "" {
		options.BackendURL = backend
	}
	if lookup := os.Getenv("LOOKUP_URL"); lookup != "" {
		options.LookupURL = lookup
	}
	if webhook := os.Getenv("WEBHOOK_URL"); webhook != "" {
		options.WebhookURL = webhook
	}
	if state := os.Getenv("STATE_FILE"); state != "" {
		options.StateFile = state
	}

	return options
}
