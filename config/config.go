package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	StaticDir      string `yaml:"static_dir"`
	AllowedOrigin  string `yaml:"allowed_origin"` // empty allows all origins
	MaxMessageSize int64  `yaml:"max_message_size"`
}

type AuthConfig struct {
	TokenSecret string   `yaml:"token_secret"`
	TokenExpire Duration `yaml:"token_expire"`
}

// Duration wraps time.Duration so YAML values like "30s" or "24h" decode.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			StaticDir:      "public",
			MaxMessageSize: 512,
		},
		Auth: AuthConfig{
			TokenSecret: "snake-rooms-dev-secret",
			TokenExpire: Duration(24 * time.Hour),
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
