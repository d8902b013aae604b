package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	LogLevel          string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	FirstMark         string   `yaml:"first-mark" env:"FIRST_MARK" env-default:"X"`
	Computer          Computer `yaml:"computer"`
	Online            Online   `yaml:"online"`
	Redis             Redis    `yaml:"redis"`
	SQLiteStoragePath string   `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"tictactoe.db"`
}

type Computer struct {
	Mark string `yaml:"mark" env:"COMPUTER_MARK" env-default:"O"`
}

type Online struct {
	Mark         string        `yaml:"mark" env:"ONLINE_MARK" env-default:"X"`
	Channel      string        `yaml:"channel" env:"ONLINE_CHANNEL" env-default:"default"`
	Store        string        `yaml:"store" env:"ONLINE_STORE" env-default:"sqlite"`
	PollInterval time.Duration `yaml:"poll-interval" env:"ONLINE_POLL_INTERVAL" env-default:"1s"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations from the config file, or from the environment when there is no file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if config.Online.Store != StoreRedis && config.Online.Store != StoreSQLite {
		return nil, fmt.Errorf("unknown online store %q", config.Online.Store)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
