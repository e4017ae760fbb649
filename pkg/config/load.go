package config

import (
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/logging"
	"github.com/canonhq/canon/pkg/paths"
)

// envPrefix namespaces the environment layer. CANON_SNAPSHOTS_RETENTION=5
// overrides snapshots.retention.
const envPrefix = "CANON_"

// Load merges every configuration layer for the given project and
// validates the result.
func Load(p paths.Paths) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults.
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse embedded defaults")
	}

	// 2. Operator config inside the managed tree.
	treePath := p.TreeConfigPath()
	if _, err := os.Stat(treePath); err == nil {
		if err := k.Load(file.Provider(treePath), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load tree config from %s", treePath)
		}
	}

	// 3. Project-level overrides next to the tree.
	projectPath := p.ProjectConfigPath()
	if _, err := os.Stat(projectPath); err == nil {
		if err := k.Load(file.Provider(projectPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load project config from %s", projectPath)
		}
	}

	// 4. Environment variables.
	if err := k.Load(env.Provider(envPrefix, ".", envKeyToPath), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("retention", cfg.Snapshots.Retention).
		Str("format", cfg.Display.Format).
		Int("extraCustomizable", len(cfg.Tree.Customizable)).
		Msg("Configuration loaded")

	return cfg, nil
}

// Default returns the embedded defaults without any file or environment
// layer applied.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser()); err != nil {
		return &Config{
			Snapshots: Snapshots{Retention: 10},
			Display:   Display{Format: "auto"},
		}
	}
	cfg, err := unmarshal(k)
	if err != nil {
		return &Config{
			Snapshots: Snapshots{Retention: 10},
			Display:   Display{Format: "auto"},
		}
	}
	return cfg
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func envKeyToPath(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
}
