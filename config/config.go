package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string         `mapstructure:"port"`
	KnowledgeBasePath string         `mapstructure:"knowledge_base_path"`
	MXP               MXPConfig      `mapstructure:"mxp"`
	DB                DBConfig       `mapstructure:"db"`
	Weaviate          WeaviateConfig `mapstructure:"weaviate"`
}

// MXPConfig holds the upstream MXP service connection settings.
// Username and password come from the environment, not the config file.
type MXPConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Username string `mapstructure:"MXP_USERNAME"`
	Password string `mapstructure:"MXP_PASSWORD"`
	// TimeoutSeconds bounds each upstream call; zero means no timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// DBConfig holds the MXP SQL Server connection settings for the read-only
// query passthrough. Empty Server disables the subsystem.
type DBConfig struct {
	Server   string `mapstructure:"server"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"DB_PASSWORD"`
}

// WeaviateConfig holds the ship document vector store settings. Empty Host
// disables the subsystem.
type WeaviateConfig struct {
	Host     string `mapstructure:"host"`
	APIKey   string `mapstructure:"WEAVIATE_APIKEY"`
	Text2Vec string `mapstructure:"text2vec"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Environment variables override and supply secrets.
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("mxp.base_url", "MXP_BASE_URL")
	v.BindEnv("mxp.MXP_USERNAME", "MXP_USERNAME")
	v.BindEnv("mxp.MXP_PASSWORD", "MXP_PASSWORD")
	v.BindEnv("db.DB_PASSWORD", "DB_PASSWORD")
	v.BindEnv("weaviate.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("knowledge_base_path", "KNOWLEDGE_BASE_PATH")

	v.SetDefault("port", "8000")
	v.SetDefault("knowledge_base_path", "./knowledge_base.json")
	v.SetDefault("mxp.base_url", "http://localhost/api")
	v.SetDefault("mxp.MXP_USERNAME", "username")
	v.SetDefault("mxp.MXP_PASSWORD", "password")
	v.SetDefault("db.port", 1433)
	v.SetDefault("db.database", "mxp")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
