package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var defineFlagsOnce sync.Once

// Load loads configuration with the following precedence:
// 1. Explicit overrides (v.Set) – used only for password file/prompt
// 2. Command line flags
// 3. Environment variables (CSORT_*)
// 4. Config file
// 5. Default values
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	defineFlags()
	if !pflag.Parsed() {
		pflag.Parse()
	}

	// --- Config file ---
	cfgPath, _ := pflag.CommandLine.GetString("config")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("column-sortable")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/column-sortable/")
		v.AddConfigPath("$HOME/.column-sortable")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgPath != "" {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// --- Environment variables ---
	// Canonical keys: dot + snake_case. Env vars: CSORT_SORTING_JOIN_TYPE.
	v.SetEnvPrefix("CSORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindChangedFlagsToViper(v)

	// --- Password from file (explicit override) ---
	if v.GetString("database.password") == "" && v.GetString("database.password_file") != "" {
		pwd, err := readPasswordFile(v.GetString("database.password_file"))
		if err != nil {
			return nil, fmt.Errorf("failed to read database password file: %w", err)
		}
		v.Set("database.password", pwd)
	}

	// --- Secure password input (explicit override) ---
	if v.GetString("database.password") == "" && v.GetBool("database.password_prompt") {
		pwd, err := promptPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		v.Set("database.password", pwd)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// Listings hold nested relation maps; decode them from the raw tree so
	// key casing and empty sections survive.
	if raw := v.Get("listings"); raw != nil {
		if err := mapstructure.Decode(raw, &cfg.Listings); err != nil {
			return nil, fmt.Errorf("failed to decode listings: %w", err)
		}
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sorting.allow_request_modification", true)
	v.SetDefault("sorting.default_first_column", false)
	v.SetDefault("sorting.default_direction", "asc")
	v.SetDefault("sorting.join_type", "leftJoin")
	v.SetDefault("sorting.relation_column_separator", "|")

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.database", "")
	v.SetDefault("database.pool.max_open", 10)
	v.SetDefault("database.pool.max_idle", 5)
	v.SetDefault("database.pool.max_lifetime", "30m")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_rows", 500)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func defineFlags() {
	defineFlagsOnce.Do(func() {
		pflag.String("config", "", "Path to config file")
		pflag.String("server.host", "", "HTTP listen host")
		pflag.Int("server.port", 8080, "HTTP listen port")
		pflag.String("logging.level", "info", "Log level (debug, info, warn, error)")
		pflag.String("logging.format", "text", "Log format (json, text)")
	})
}

func bindChangedFlagsToViper(v *viper.Viper) {
	pflag.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = v.BindPFlag(f.Name, f)
	})
}

func readPasswordFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func promptPassword() (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for password: stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Database password: ")
	pwd, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
