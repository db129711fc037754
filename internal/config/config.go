package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Container ContainerConfig `mapstructure:"container"`
}

// StorageConfig selects and reaches the remote object storage
type StorageConfig struct {
	Type         string `mapstructure:"type"` // r2, s3, s3compatible, minio, memory; empty auto-detects
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	PublicURL    string `mapstructure:"public_url"`
	PublicDomain string `mapstructure:"public_domain"`
	PageSize     int    `mapstructure:"page_size"`
}

// ContainerConfig controls how the container is provisioned
type ContainerConfig struct {
	PublicAccess bool       `mapstructure:"public_access"` // anonymous GET on blobs
	CORS         CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	MaxAgeSeconds  int      `mapstructure:"max_age_seconds"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("storage.type", "")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "blobs")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.public_url", "")
	v.SetDefault("storage.public_domain", "")
	v.SetDefault("storage.page_size", 0)
	v.SetDefault("container.public_access", true)
	v.SetDefault("container.cors.allowed_origins", []string{"*"})
	v.SetDefault("container.cors.allowed_methods", []string{"GET"})
	v.SetDefault("container.cors.max_age_seconds", 60*60*24)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.bucket", "STORAGE_BUCKET")
	v.BindEnv("storage.use_ssl", "STORAGE_USE_SSL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
