package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/x2bin-lang/x2bin/internal/cli/config"
	"github.com/x2bin-lang/x2bin/internal/tooling/build"
)

// encoderFlags are the command-line overrides of the config keys shared by
// every command that compiles.
var encoderFlags = []struct {
	name  string
	key   string
	usage string
}{
	{"int", "encoding.int", "Integer encoder: int7, int8, int16, int32, int64"},
	{"string", "encoding.string", "String length prefix: int7, int8, int16, int32, int64, nullterm"},
	{"encoding", "encoding.charset", "String charset, IANA name or code page (default utf-8)"},
	{"float", "encoding.float", "Untyped float width: float, double"},
	{"trim-string", "trim.string", "String trim policy: aggressive, passive, no"},
	{"trim-code", "trim.code", "Code trim policy: cstyle, aggressive, passive, no"},
	{"compression", "compression", "Artifact compression: none, zlib"},
	{"enum", "enums", "Enum catalog file (YAML)"},
	{"script-compiler", "script_compiler", "Script compiler command; {object} and {debug} name its output files"},
}

func addEncoderFlags(fs *pflag.FlagSet) {
	for _, f := range encoderFlags {
		fs.String(f.name, "", f.usage)
	}
	fs.Int("parallel", 0, "Document parsing workers (0 = number of CPUs)")
}

func bindEncoderFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, f := range encoderFlags {
		if flag := fs.Lookup(f.name); flag != nil {
			if err := v.BindPFlag(f.key, flag); err != nil {
				return err
			}
		}
	}
	if flag := fs.Lookup("parallel"); flag != nil {
		return v.BindPFlag("parallel", flag)
	}
	return nil
}

// session is the resolved configuration of one command run
type session struct {
	config  *config.Config
	logger  *zap.Logger
	options *build.Options
}

// newSession merges flags, environment, config file and defaults, then
// resolves them into build options.
func newSession(cmd *cobra.Command) (*session, error) {
	v := config.New()
	if err := bindEncoderFlags(v, cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	encoding, err := cfg.Serialization(logger)
	if err != nil {
		return nil, err
	}
	compression, err := cfg.Compressor()
	if err != nil {
		return nil, err
	}

	opts := build.DefaultOptions()
	opts.Encoding = encoding
	opts.Compressor = compression
	opts.Logger = logger

	return &session{config: cfg, logger: logger, options: opts}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
