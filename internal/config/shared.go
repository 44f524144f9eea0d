package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultBetweenSongSeconds = 30
	DefaultEncoreBreakSeconds = 240
)

type Config struct {
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		LogLevel    string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Timing struct {
		BetweenSongSeconds int `mapstructure:"between_song_seconds"`
		EncoreBreakSeconds int `mapstructure:"encore_break_seconds"`
	} `mapstructure:"timing"`
}

func Load() *Config {
	viper.SetEnvPrefix("SETLIST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.log_level")
	viper.BindEnv("database.path")
	viper.BindEnv("timing.between_song_seconds")
	viper.BindEnv("timing.encore_break_seconds")

	// Defaults
	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("database.path", "setlists.db")
	viper.SetDefault("timing.between_song_seconds", DefaultBetweenSongSeconds)
	viper.SetDefault("timing.encore_break_seconds", DefaultEncoreBreakSeconds)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	// Garbage or missing transition overrides silently fall back to the
	// stock buffers rather than surfacing an error.
	if cfg.Timing.BetweenSongSeconds <= 0 {
		cfg.Timing.BetweenSongSeconds = DefaultBetweenSongSeconds
	}
	if cfg.Timing.EncoreBreakSeconds <= 0 {
		cfg.Timing.EncoreBreakSeconds = DefaultEncoreBreakSeconds
	}

	return &cfg
}
