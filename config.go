package snaperl

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/shibukawa/snaperl/parser"
	"github.com/shibukawa/snaperl/tokenizer"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// DefaultConfigFile is the configuration file name looked up by the CLI.
const DefaultConfigFile = "snaperl.yaml"

// Config represents the snaperl configuration
type Config struct {
	Encoding          string       `yaml:"encoding"`
	RootRule          string       `yaml:"root_rule"`
	Trace             bool         `yaml:"trace"`
	Parallel          int          `yaml:"parallel"`
	Extensions        []string     `yaml:"extensions"`
	MarkdownLanguages []string     `yaml:"markdown_languages"`
	Output            OutputConfig `yaml:"output"`
}

// OutputConfig represents CLI output settings
type OutputConfig struct {
	Format string `yaml:"format"`
	Color  *bool  `yaml:"color"` // Pointer to distinguish between unset and false
}

// ColorEnabled returns true unless color is explicitly disabled
func (o OutputConfig) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// OutputFormats lists the accepted values of output.format.
var OutputFormats = []string{"text", "sexp", "yaml", "json", "xml"}

// ParserOptions converts the configuration into driver options.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{Trace: c.Trace}
}

// Root returns the configured root rule.
func (c *Config) Root() parser.RuleName {
	return parser.RuleName(c.RootRule)
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration content
func ParseConfig(data []byte) (*Config, error) {
	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables before validation so ${VAR} can select values
	expandConfigEnvVars(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Encoding != "" {
		if _, err := tokenizer.DecodeSource(nil, config.Encoding); err != nil {
			return fmt.Errorf("%w: invalid encoding '%s'", ErrConfigValidation, config.Encoding)
		}
	}

	if config.RootRule != "" && !slices.Contains(parser.Rules(), parser.RuleName(config.RootRule)) {
		return fmt.Errorf("%w: unknown root_rule '%s'", ErrConfigValidation, config.RootRule)
	}

	if config.Parallel < 0 {
		return fmt.Errorf("%w: parallel must be non-negative, got %d", ErrConfigValidation, config.Parallel)
	}

	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension '%s' must start with '.'", ErrConfigValidation, ext)
		}
	}

	for _, lang := range config.MarkdownLanguages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("%w: markdown_languages must not contain empty names", ErrConfigValidation)
		}
	}

	if config.Output.Format != "" && !slices.Contains(OutputFormats, config.Output.Format) {
		return fmt.Errorf("%w: output.format '%s' is invalid: must be one of %s", ErrConfigValidation, config.Output.Format, strings.Join(OutputFormats, ", "))
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Encoding:          "utf-8",
		RootRule:          string(parser.RuleExpression),
		Trace:             false,
		Parallel:          4,
		Extensions:        []string{".erl", ".hrl", ".md"},
		MarkdownLanguages: []string{"erlang", "erl"},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Encoding == "" {
		config.Encoding = defaults.Encoding
	}

	if config.RootRule == "" {
		config.RootRule = defaults.RootRule
	}

	if config.Parallel == 0 {
		config.Parallel = defaults.Parallel
	}

	if len(config.Extensions) == 0 {
		config.Extensions = defaults.Extensions
	}

	if len(config.MarkdownLanguages) == 0 {
		config.MarkdownLanguages = defaults.MarkdownLanguages
	}

	for i, lang := range config.MarkdownLanguages {
		config.MarkdownLanguages[i] = strings.ToLower(lang)
	}

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}
}

// loadEnvFiles loads .env files if they exist. .env.local overrides .env.
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	if fileExists(".env.local") {
		err := godotenv.Overload(".env.local")
		if err != nil {
			return fmt.Errorf("failed to load .env.local file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in string settings
func expandConfigEnvVars(config *Config) {
	config.Encoding = expandEnvVars(config.Encoding)
	config.RootRule = expandEnvVars(config.RootRule)
	config.Output.Format = expandEnvVars(config.Output.Format)

	for i, ext := range config.Extensions {
		config.Extensions[i] = expandEnvVars(ext)
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
