package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/x2bin-lang/x2bin/internal/compiler/enum"
	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/output"
	"github.com/x2bin-lang/x2bin/internal/compiler/script"
	"github.com/x2bin-lang/x2bin/internal/compiler/serialize"
	"github.com/x2bin-lang/x2bin/internal/compiler/wire"
)

// ConfigName is the base name of the config file, x2bin.yml or x2bin.yaml.
const ConfigName = "x2bin"

// EnvPrefix prefixes environment overrides, e.g. X2BIN_ENCODING_INT.
const EnvPrefix = "X2BIN"

// Config represents the x2bin configuration
type Config struct {
	Encoding       EncodingConfig `mapstructure:"encoding"`
	Trim           TrimConfig     `mapstructure:"trim"`
	Compression    string         `mapstructure:"compression"`
	Enums          string         `mapstructure:"enums"`
	ScriptCompiler string         `mapstructure:"script_compiler"`
	Parallel       int            `mapstructure:"parallel"`
}

// EncodingConfig represents the wire encoders
type EncodingConfig struct {
	Int     string `mapstructure:"int"`
	String  string `mapstructure:"string"`
	Charset string `mapstructure:"charset"`
	Float   string `mapstructure:"float"`
}

// TrimConfig represents text processing
type TrimConfig struct {
	String string `mapstructure:"string"`
	Code   string `mapstructure:"code"`
}

// New returns a viper instance with defaults and environment overrides set.
// Commands bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	// Set defaults
	v.SetDefault("encoding.int", "int7")
	v.SetDefault("encoding.string", "int7")
	v.SetDefault("encoding.charset", "utf-8")
	v.SetDefault("encoding.float", "float")
	v.SetDefault("trim.string", "aggressive")
	v.SetDefault("trim.code", "cstyle")
	v.SetDefault("compression", "none")
	v.SetDefault("enums", "")
	v.SetDefault("script_compiler", "")
	v.SetDefault("parallel", 0)

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configFile, or x2bin.yml / x2bin.yaml from the nearest
// directory at or above the working directory, into v and validates the
// result. A missing default config file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		if dir, err := FindConfigDir(); err == nil {
			v.AddConfigPath(dir)
		} else {
			v.AddConfigPath(".")
		}
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindConfigDir walks up from the working directory to the first directory
// holding x2bin.yml or x2bin.yaml.
func FindConfigDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{ConfigName + ".yml", ConfigName + ".yaml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s.yml found", ConfigName)
		}
		dir = parent
	}
}

// validateConfig checks every enumerated option
func validateConfig(cfg *Config) error {
	if _, err := wire.ParseIntEncoding(cfg.Encoding.Int); err != nil {
		return err
	}
	if _, err := wire.ParseStringWidth(cfg.Encoding.String); err != nil {
		return err
	}
	if _, err := wire.ParseCharset(cfg.Encoding.Charset); err != nil {
		return err
	}
	if _, err := parseFloat(cfg.Encoding.Float); err != nil {
		return err
	}
	if _, err := wire.ParseStringTrim(cfg.Trim.String); err != nil {
		return err
	}
	if _, err := wire.ParseCodeTrim(cfg.Trim.Code); err != nil {
		return err
	}
	if _, err := output.ParseCompression(cfg.Compression); err != nil {
		return err
	}
	if cfg.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative, got: %d", cfg.Parallel)
	}
	return nil
}

// Serialization resolves the configured names into encoder options, loading
// the enum catalog and preparing the script compiler when configured.
func (c *Config) Serialization(logger *zap.Logger) (serialize.Options, error) {
	opts := serialize.DefaultOptions()

	var err error
	if opts.Int, err = wire.ParseIntEncoding(c.Encoding.Int); err != nil {
		return opts, err
	}
	if opts.String.Width, err = wire.ParseStringWidth(c.Encoding.String); err != nil {
		return opts, err
	}
	if opts.String.Charset, err = wire.ParseCharset(c.Encoding.Charset); err != nil {
		return opts, err
	}
	if opts.Parser.DefaultDouble, err = parseFloat(c.Encoding.Float); err != nil {
		return opts, err
	}
	if opts.StringTrim, err = wire.ParseStringTrim(c.Trim.String); err != nil {
		return opts, err
	}
	if opts.CodeTrim, err = wire.ParseCodeTrim(c.Trim.Code); err != nil {
		return opts, err
	}
	opts.Parallel = c.Parallel

	if c.Enums != "" {
		catalog, err := enum.LoadCatalog(c.Enums)
		if err != nil {
			return opts, err
		}
		opts.Enums = catalog
	}
	if c.ScriptCompiler != "" {
		compiler, err := script.NewCommandCompiler(c.ScriptCompiler, logger)
		if err != nil {
			return opts, err
		}
		opts.Scripts = compiler
	}
	return opts, nil
}

// Compressor resolves the configured compression.
func (c *Config) Compressor() (output.Compression, error) {
	return output.ParseCompression(c.Compression)
}

// parseFloat reports whether untyped floats are written as double.
func parseFloat(name string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float", "single":
		return false, nil
	case "double":
		return true, nil
	}
	return false, errors.NewInvalidOption("FLOAT serializer", name, "float", "double")
}
