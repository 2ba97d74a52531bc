package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix prefixes every configuration environment variable
const EnvPrefix = "GFFRULES_"

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions select the layers to load
type LoadOptions struct {
	// Path is an explicit config file; it must exist. Empty means the
	// default user file, which is optional.
	Path string

	// Overrides are flat "section.key" values applied last
	Overrides map[string]interface{}

	// SkipUserFile ignores the default user file
	SkipUserFile bool

	// SkipEnv ignores GFFRULES_* variables
	SkipEnv bool
}

// DefaultPath returns the user config file location
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "gffrules", "config.toml")
}

// Default returns the embedded defaults
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipUserFile: true, SkipEnv: true})
	if err != nil {
		// the embedded defaults are part of the binary
		panic(err)
	}
	return cfg
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	path, explicit := opts.Path, opts.Path != ""
	if !explicit && !opts.SkipUserFile {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
					WithDetail("path", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded config file")
		} else if explicit {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps GFFRULES_OUTPUT_METRICS_FILE to output.metrics_file: the
// first segment is the section, the rest is the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + key
}
