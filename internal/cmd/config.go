package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/avermeer/jobdeck/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit jobdeck configuration",
	Long: `Manage jobdeck global configuration stored at ~/.jobdeck/config.yaml

Configuration includes:
  service.url       Scheduler service base URL
  defaults.format   Default output format (text, json, yaml)
  defaults.verbose  Enable debug logging by default
  logging.level     Log level (debug, info, warn, error)

Examples:
  jobdeck config view
  jobdeck config get service.url
  jobdeck config set service.url http://scheduler.internal:8004
  jobdeck config path`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display current configuration",
	RunE:  runConfigView,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

// GlobalConfig is the global jobdeck configuration
type GlobalConfig struct {
	Service  ServiceConfig   `yaml:"service,omitempty"`
	Defaults CommandDefaults `yaml:"defaults,omitempty"`
	Logging  LoggingConfig   `yaml:"logging,omitempty"`
}

// ServiceConfig locates the scheduler service
type ServiceConfig struct {
	URL string `yaml:"url,omitempty"`
}

// CommandDefaults holds default command behavior
type CommandDefaults struct {
	Format  string `yaml:"format,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// getConfigPath returns the path to the global configuration file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".jobdeck", "config.yaml"), nil
}

// loadGlobalConfig loads the configuration file. A missing file yields
// an empty configuration.
func loadGlobalConfig() (*GlobalConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "cannot read config file", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "config file is not valid YAML", err)
	}
	return &cfg, nil
}

// saveGlobalConfig writes the configuration file, creating ~/.jobdeck
// when needed.
func saveGlobalConfig(cfg *GlobalConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "cannot create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "cannot write config file", err)
	}
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}

	if structuredOutput() {
		return emit(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	cmd.Print(string(data))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}

	value, err := configValue(cfg, args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadGlobalConfig()
	if err != nil {
		return err
	}

	if err := setConfigValue(cfg, args[0], args[1]); err != nil {
		return err
	}
	if err := saveGlobalConfig(cfg); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	cmd.Println(path)
	return nil
}

// configValue resolves a dot-notation key
func configValue(cfg *GlobalConfig, key string) (string, error) {
	switch key {
	case "service.url":
		return cfg.Service.URL, nil
	case "defaults.format":
		return cfg.Defaults.Format, nil
	case "defaults.verbose":
		return strconv.FormatBool(cfg.Defaults.Verbose), nil
	case "logging.level":
		return cfg.Logging.Level, nil
	default:
		return "", errors.New(errors.ErrCodeConfigKey, fmt.Sprintf("unknown config key: %s", key)).
			WithSuggestion("Valid keys: service.url, defaults.format, defaults.verbose, logging.level")
	}
}

// setConfigValue sets a dot-notation key
func setConfigValue(cfg *GlobalConfig, key, value string) error {
	switch key {
	case "service.url":
		cfg.Service.URL = value
	case "defaults.format":
		switch value {
		case "text", "json", "yaml":
			cfg.Defaults.Format = value
		default:
			return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid format: %s", value)).
				WithSuggestion("Use text, json, or yaml")
		}
	case "defaults.verbose":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid boolean: %s", value))
		}
		cfg.Defaults.Verbose = parsed
	case "logging.level":
		switch value {
		case "debug", "info", "warn", "error":
			cfg.Logging.Level = value
		default:
			return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid log level: %s", value)).
				WithSuggestion("Use debug, info, warn, or error")
		}
	default:
		return errors.New(errors.ErrCodeConfigKey, fmt.Sprintf("unknown config key: %s", key)).
			WithSuggestion("Valid keys: service.url, defaults.format, defaults.verbose, logging.level")
	}
	return nil
}
