package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/bytes"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/dataset"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "KEUDA"

	SourceFile     = "file"
	SourceGithub   = "github"
	SourceHTML     = "html"
	SourcePostgres = "postgres"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Github  GithubConfig  `mapstructure:"github"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

type ServerConfig struct {
	Addr         string   `mapstructure:"addr" validate:"required"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	// UploadLimit is a size such as "10M".
	UploadLimit string `mapstructure:"upload_limit" validate:"required"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type DatasetConfig struct {
	Source string         `mapstructure:"source" validate:"oneof=file github html postgres"`
	Path   string         `mapstructure:"path" validate:"required_if=Source file"`
	URL    string         `mapstructure:"url" validate:"required_if=Source html,omitempty,url"`
	DSN    string         `mapstructure:"dsn" validate:"required_if=Source postgres"`
	Schema dataset.Schema `mapstructure:"schema"`
}

type GithubConfig struct {
	Token         string `mapstructure:"token"`
	Repo          string `mapstructure:"repo"`
	Path          string `mapstructure:"path"`
	Branch        string `mapstructure:"branch"`
	BaseURL       string `mapstructure:"base_url" validate:"omitempty,url"`
	CommitMessage string `mapstructure:"commit_message"`
}

// Enabled reports whether a repository file is configured for the admin editor.
func (c GithubConfig) Enabled() bool {
	return c.Repo != "" && c.Path != ""
}

type AdminConfig struct {
	Secret string `mapstructure:"secret"`
}

// UploadLimitBytes parses UploadLimit.
func (c ServerConfig) UploadLimitBytes() (int64, error) {
	n, err := bytes.Parse(c.UploadLimit)
	if err != nil {
		return 0, fmt.Errorf("server.upload_limit %q: %w", c.UploadLimit, err)
	}
	return n, nil
}

func setDefaults() {
	viper.SetDefault(constants.ViperServerAddr, ":8080")
	viper.SetDefault(constants.ViperServerOrigins, []string{"http://localhost:3000"})
	viper.SetDefault(constants.ViperServerUploadLimit, "10M")

	viper.SetDefault(constants.ViperLogLevel, "info")
	viper.SetDefault(constants.ViperLogDevelopment, false)

	viper.SetDefault(constants.ViperDatasetSource, SourceFile)
	viper.SetDefault(constants.ViperDatasetPath, "data.xlsx")
	viper.SetDefault(constants.ViperDatasetURL, "")
	viper.SetDefault(constants.ViperDatasetDSN, "")

	viper.SetDefault(constants.ViperGithubToken, "")
	viper.SetDefault(constants.ViperGithubRepo, "")
	viper.SetDefault(constants.ViperGithubPath, "")
	viper.SetDefault(constants.ViperGithubBranch, "")
	viper.SetDefault(constants.ViperGithubBaseURL, "")
	viper.SetDefault(constants.ViperGithubMessage, "")

	viper.SetDefault(constants.ViperSecretKey, "")
}

// Load reads the process configuration into the global viper instance: defaults, then the
// config file (--config, or ./config.yaml when present), then KEUDA_* environment variables.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to the config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	setDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if *configPath != "" {
		viper.SetConfigFile(*configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	cfg := &Config{Dataset: DatasetConfig{Schema: dataset.DefaultSchema()}}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Dataset.Source == SourceGithub && !c.Github.Enabled() {
		return errors.New("invalid config: dataset.source github needs github.repo and github.path")
	}
	if _, err := c.Server.UploadLimitBytes(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
