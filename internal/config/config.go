// Package config loads settings from an optional YAML file, .env and BILIDOWN_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BILIDOWN_SESSION_TOKEN.
const EnvPrefix = "BILIDOWN"

// Config is the merged file, .env and environment configuration.
type Config struct {
	Session  SessionConfig  `mapstructure:"session"`
	Network  NetworkConfig  `mapstructure:"network"`
	Download DownloadConfig `mapstructure:"download"`
	WBI      WBIConfig      `mapstructure:"wbi"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

// SessionConfig names the SESSDATA source; Token wins over CookiesFile.
type SessionConfig struct {
	Token       string `mapstructure:"token"`
	CookiesFile string `mapstructure:"cookies_file"`
}

type NetworkConfig struct {
	Proxy   string        `mapstructure:"proxy"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DownloadConfig struct {
	Dir        string `mapstructure:"dir"`
	Quality    string `mapstructure:"quality"`
	HiResAudio bool   `mapstructure:"hires_audio"`
	DolbyAudio bool   `mapstructure:"dolby_audio"`
	Retries    int    `mapstructure:"retries"`
	Merge      bool   `mapstructure:"merge"`
	FFmpeg     string `mapstructure:"ffmpeg"`
}

// WBIConfig controls request signing. RedisAddr shares the key between processes.
type WBIConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// StorageConfig enables publishing to a MinIO bucket when Endpoint is set.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
	Debug bool   `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("session.token", "")
	v.SetDefault("session.cookies_file", "")
	v.SetDefault("network.proxy", "")
	v.SetDefault("network.timeout", 5*time.Second)
	v.SetDefault("download.dir", ".")
	v.SetDefault("download.quality", "80")
	v.SetDefault("download.hires_audio", false)
	v.SetDefault("download.dolby_audio", false)
	v.SetDefault("download.retries", 0)
	v.SetDefault("download.merge", false)
	v.SetDefault("download.ffmpeg", "")
	v.SetDefault("wbi.enabled", true)
	v.SetDefault("wbi.redis_addr", "")
	v.SetDefault("wbi.redis_password", "")
	v.SetDefault("wbi.redis_db", 0)
	v.SetDefault("wbi.ttl", 12*time.Hour)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "bilidown")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.debug", false)
}

// Load reads .env (if present), then path (if non-empty), then environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}
