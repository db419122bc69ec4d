package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Cache struct {
		MaxSize   int           `mapstructure:"maxSize"`
		TTL       time.Duration `mapstructure:"ttl"`
		PlacesTTL time.Duration `mapstructure:"placesTTL"`
	} `mapstructure:"cache"`
	AI struct {
		Model string `mapstructure:"model"`
	} `mapstructure:"ai"`
}

// InitConfig loads config.yml from disk, falling back to the embedded copy.
// The viper instance is returned alongside the struct so callers can read
// free-form sections such as preference_queries.
func InitConfig() (Config, *viper.Viper, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, nil, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, nil, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if config.Cache.MaxSize <= 0 {
		config.Cache.MaxSize = 100
	}
	if config.Cache.TTL <= 0 {
		config.Cache.TTL = time.Hour
	}
	if config.Cache.PlacesTTL <= 0 {
		config.Cache.PlacesTTL = 30 * time.Minute
	}
	return config, v, nil
}
