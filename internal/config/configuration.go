// Package config provides configuration management for the report engine
// services. It layers YAML configuration files, environment variable
// overrides, and sane defaults the way the BaSyx services it is modeled on
// do, trimmed to this domain's surface (HTTP server, Postgres rule catalog,
// Mongo envelope store, S3 report store, CORS policy, API key auth).
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

// PrintSplash announces service startup the way the donor services do.
func PrintSplash(service string) {
	log.Printf(`
	██████╗ ███████╗██████╗  ██████╗ ██████╗ ████████╗
	██╔══██╗██╔════╝██╔══██╗██╔═══██╗██╔══██╗╚══██╔══╝
	██████╔╝█████╗  ██████╔╝██║   ██║██████╔╝   ██║
	██╔══██╗██╔══╝  ██╔═══╝ ██║   ██║██╔══██╗   ██║
	██║  ██║███████╗██║     ╚██████╔╝██║  ██║   ██║
	╚═╝  ╚═╝╚══════╝╚═╝      ╚═════╝ ╚═╝  ╚═╝   ╚═╝
	%s
	`, service)
}

// Config is the complete configuration structure for the report engine's
// HTTP service.
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Postgres   PostgresConfig `yaml:"postgres"`
	Mongo      MongoConfig    `yaml:"mongo"`
	S3         S3Config       `yaml:"s3"`
	CorsConfig CorsConfig     `yaml:"cors" mapstructure:"cors"`
	Auth       AuthConfig     `yaml:"auth"`
}

// ServerConfig contains HTTP server configuration parameters.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	ContextPath string `yaml:"contextPath"`
}

// PostgresConfig contains the rule catalog's database connection parameters.
type PostgresConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	DBName                 string `yaml:"dbname"`
	MaxOpenConnections     int    `yaml:"maxOpenConnections"`
	MaxIdleConnections     int    `yaml:"maxIdleConnections"`
	ConnMaxLifetimeMinutes int    `yaml:"connMaxLifetimeMinutes"`
}

// MongoConfig contains the envelope store's connection parameters.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// S3Config contains the report store's bucket parameters.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

// CorsConfig contains Cross-Origin Resource Sharing policy settings.
type CorsConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins"`
	AllowedMethods   []string `yaml:"allowedMethods"`
	AllowedHeaders   []string `yaml:"allowedHeaders"`
	AllowCredentials bool     `yaml:"allowCredentials"`
}

// AuthConfig contains the static API key used in place of the donor
// module's OIDC/ABAC stack (see SPEC_FULL.md §14).
type AuthConfig struct {
	Token string `yaml:"token"`
}

// LoadConfig loads configuration from an optional YAML file and environment
// variables, with environment variables taking precedence. Env keys replace
// "." with "_" (e.g. SERVER_PORT for server.port), matching the donor's
// convention.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		log.Printf("loading config from file: %s", configPath)
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Println("no config file provided, using environment variables and defaults")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	PrintConfiguration(cfg)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.contextPath", "")

	v.SetDefault("postgres.host", "db")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "reportengine")
	v.SetDefault("postgres.password", "reportengine")
	v.SetDefault("postgres.dbname", "reportengine")
	v.SetDefault("postgres.maxOpenConnections", 25)
	v.SetDefault("postgres.maxIdleConnections", 25)
	v.SetDefault("postgres.connMaxLifetimeMinutes", 5)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "reportengine")

	v.SetDefault("s3.bucket", "reportengine-reports")
	v.SetDefault("s3.region", "us-east-1")

	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"*"})
	v.SetDefault("cors.allowCredentials", true)

	v.SetDefault("auth.token", "")
}

// PrintConfiguration logs the loaded configuration with credentials redacted.
func PrintConfiguration(cfg *Config) {
	cfgCopy := *cfg
	if cfgCopy.Postgres.Host != "" {
		cfgCopy.Postgres.Host = "****"
		cfgCopy.Postgres.User = "****"
		cfgCopy.Postgres.Password = "****"
	}
	if cfgCopy.Auth.Token != "" {
		cfgCopy.Auth.Token = "****"
	}

	configJSON, err := json.MarshalIndent(cfgCopy, "", "  ")
	if err != nil {
		log.Printf("unable to marshal configuration: %v", err)
		return
	}
	log.Printf("loaded configuration:\n%s", string(configJSON))
}

// AddCors mounts CORS middleware on the router per the loaded configuration.
func AddCors(r *chi.Mux, config *Config) {
	c := cors.New(cors.Options{
		AllowedOrigins:   config.CorsConfig.AllowedOrigins,
		AllowedMethods:   config.CorsConfig.AllowedMethods,
		AllowedHeaders:   config.CorsConfig.AllowedHeaders,
		AllowCredentials: config.CorsConfig.AllowCredentials,
	})
	r.Use(c.Handler)
}
