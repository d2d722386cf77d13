package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/akhdanfadh/notekeep/internal/notes"
)

const (
	envPrefix        = "NOTEKEEP_"
	defaultEnvFile   = ".env"
	defaultRetries   = 1 // a single attempt, no retry
	defaultRetryWait = time.Second
)

// Config holds the settings shared by every command.
//
// Values are resolved in order: command-line flags, process environment,
// the .env file, then defaults.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	EnvFile   string
	Verbose   bool
}

// bindFlags registers the persistent flags backing c.
func (c *Config) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.BaseURL, "base-url", notes.DefaultBaseURL, "Notes API base URL (env "+envPrefix+"BASE_URL)")
	fs.DurationVar(&c.Timeout, "timeout", 0, "Per-request timeout, 0 for none (env "+envPrefix+"TIMEOUT)")
	fs.IntVar(&c.Retries, "retries", defaultRetries, "Total attempts for 429/5xx/network failures (env "+envPrefix+"RETRIES)")
	fs.DurationVar(&c.RetryWait, "retry-wait", defaultRetryWait, "Base wait between attempts, doubled each retry (env "+envPrefix+"RETRY_WAIT)")
	fs.StringVar(&c.EnvFile, "env-file", defaultEnvFile, "Path to a dotenv file with "+envPrefix+"* settings")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "Log every request to stderr")
}

// resolve fills in values not given as flags from the environment and the
// dotenv file, then validates the result.
func (c *Config) resolve(fs *pflag.FlagSet, lookupEnv func(string) (string, bool)) error {
	// NOTE: godotenv.Read is used instead of godotenv.Load so the file never
	// mutates the process environment; real env vars still win over it.
	dotenv, err := godotenv.Read(c.EnvFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || fs.Changed("env-file") {
			return fmt.Errorf("reading env file %s: %w", c.EnvFile, err)
		}
		dotenv = map[string]string{} // a missing default .env is fine
	}

	lookup := func(key string) (string, bool) {
		if v, ok := lookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[envPrefix+key]
		return v, ok
	}

	if v, ok := lookup("BASE_URL"); ok && !fs.Changed("base-url") {
		c.BaseURL = v
	}
	if v, ok := lookup("TIMEOUT"); ok && !fs.Changed("timeout") {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup("RETRIES"); ok && !fs.Changed("retries") {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sRETRIES: %w", envPrefix, err)
		}
		c.Retries = n
	}
	if v, ok := lookup("RETRY_WAIT"); ok && !fs.Changed("retry-wait") {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %sRETRY_WAIT: %w", envPrefix, err)
		}
		c.RetryWait = d
	}

	return c.validate()
}

// validate checks the resolved configuration.
func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Retries)
	}
	if c.RetryWait < 0 {
		return fmt.Errorf("retry wait must not be negative, got %s", c.RetryWait)
	}
	return nil
}
