package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/TFMV/insights/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. INSIGHTS_VIEW_WIDTH.
const EnvPrefix = "INSIGHTS"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("view.width", d.View.Width)
	v.SetDefault("view.height", d.View.Height)
	v.SetDefault("view.initial_scale", d.View.InitialScale)
	v.SetDefault("view.scale_extent", d.View.ScaleExtent)
	v.SetDefault("view.direction", d.View.Direction)

	v.SetDefault("collision.alpha", d.Collision.Alpha)
	v.SetDefault("collision.margin", d.Collision.Margin)

	v.SetDefault("physics.link_distance", d.Physics.LinkDistance)
	v.SetDefault("physics.link_strength", d.Physics.LinkStrength)
	v.SetDefault("physics.gravity", d.Physics.Gravity)
	v.SetDefault("physics.charge", d.Physics.Charge)
	v.SetDefault("physics.friction", d.Physics.Friction)
	v.SetDefault("physics.initial_alpha", d.Physics.InitialAlpha)
	v.SetDefault("physics.cooling", d.Physics.Cooling)
	v.SetDefault("physics.collide_at", d.Physics.CollideAt)
	v.SetDefault("physics.settle_at", d.Physics.SettleAt)
	v.SetDefault("physics.seed", d.Physics.Seed)

	v.SetDefault("tooltip.template", d.Tooltip.Template)

	v.SetDefault("attrs.id", d.Attrs.ID)
	v.SetDefault("attrs.size", d.Attrs.Size)
	v.SetDefault("attrs.cluster", d.Attrs.Cluster)
	v.SetDefault("attrs.text", d.Attrs.Text)

	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.level", d.Log.Level)
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the configuration file at path, if any, on top of the defaults.
// Environment variables override both. The file type follows the extension.
func Load(path string) (*Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Mark(
				errors.Wrapf(err, "failed to read config file %s", path),
				errors.ErrInvalidConfig)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper loads and validates configuration from a prepared viper
// instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to unmarshal config"), errors.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create config file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}

// WriteDefault writes the default configuration to path. An existing file is
// only replaced when overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.WithHint(
			errors.Newf("config file %s already exists", path),
			"pass --force to replace it")
	}
	return Save(path, Default())
}
