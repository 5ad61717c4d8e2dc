// Package config loads service locations and runtime settings from a config
// file, LINKEDIN_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. LINKEDIN_SERVICES_API_KEY.
const EnvPrefix = "LINKEDIN"

// Config is the full runtime configuration.
type Config struct {
	ServerAddr string          `mapstructure:"server_addr" yaml:"server_addr"`
	Services   ServicesConfig  `mapstructure:"services" yaml:"services"`
	Upload     UploadConfig    `mapstructure:"upload" yaml:"upload"`
	Generator  GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	Publish    PublishConfig   `mapstructure:"publish" yaml:"publish"`
	Log        LogConfig       `mapstructure:"log" yaml:"log"`
}

// ServicesConfig locates the remote services.
type ServicesConfig struct {
	GenerateURL    string `mapstructure:"generate_url" yaml:"generate_url"`
	UploadImageURL string `mapstructure:"upload_image_url" yaml:"upload_image_url"`
	UploadVideoURL string `mapstructure:"upload_video_url" yaml:"upload_video_url"`
	PublishBaseURL string `mapstructure:"publish_base_url" yaml:"publish_base_url"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Timeout        string `mapstructure:"timeout" yaml:"timeout"`
}

// UploadConfig tunes media uploads.
type UploadConfig struct {
	ImageField  string `mapstructure:"image_field" yaml:"image_field"`
	VideoField  string `mapstructure:"video_field" yaml:"video_field"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// GeneratorConfig picks the generation backend. "remote" calls the hosted
// generation service; "openai" and "deepseek" prompt a model directly;
// "mock" answers offline.
type GeneratorConfig struct {
	Backend string    `mapstructure:"backend" yaml:"backend"`
	LLM     LLMConfig `mapstructure:"llm" yaml:"llm"`
}

// LLMConfig configures direct model access.
type LLMConfig struct {
	Model   string `mapstructure:"model" yaml:"model,omitempty"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// PublishConfig tunes publishing.
type PublishConfig struct {
	PlainText bool `mapstructure:"plain_text" yaml:"plain_text"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerAddr: ":8080",
		Services: ServicesConfig{
			GenerateURL:    "https://linkedin-post-automation-server.onrender.com/generate_linkedin_content",
			UploadImageURL: "https://image-video-url-generator.onrender.com/upload-image/",
			UploadVideoURL: "https://image-video-url-generator.onrender.com/upload-video",
			PublishBaseURL: "https://linkedin-post-automation-server.onrender.com",
			Timeout:        "60s",
		},
		Upload: UploadConfig{
			ImageField:  "file",
			VideoField:  "video",
			MaxUploadMB: 100,
		},
		Generator: GeneratorConfig{
			Backend: "remote",
			LLM:     LLMConfig{Model: "gpt-4o-mini"},
		},
		Publish: PublishConfig{PlainText: true},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("services.generate_url", d.Services.GenerateURL)
	v.SetDefault("services.upload_image_url", d.Services.UploadImageURL)
	v.SetDefault("services.upload_video_url", d.Services.UploadVideoURL)
	v.SetDefault("services.publish_base_url", d.Services.PublishBaseURL)
	v.SetDefault("services.api_key", "")
	v.SetDefault("services.timeout", d.Services.Timeout)
	v.SetDefault("upload.image_field", d.Upload.ImageField)
	v.SetDefault("upload.video_field", d.Upload.VideoField)
	v.SetDefault("upload.max_upload_mb", d.Upload.MaxUploadMB)
	v.SetDefault("generator.backend", d.Generator.Backend)
	v.SetDefault("generator.llm.model", d.Generator.LLM.Model)
	v.SetDefault("generator.llm.api_key", "")
	v.SetDefault("generator.llm.base_url", "")
	v.SetDefault("publish.plain_text", d.Publish.PlainText)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads path (YAML, JSON or TOML by extension) on top of the defaults
// and applies environment overrides. An empty path uses defaults and
// environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Services.GenerateURL == "" && c.Generator.Backend == "remote" {
		return errors.New("services.generate_url is required for the remote generator")
	}
	if c.Services.UploadImageURL == "" || c.Services.UploadVideoURL == "" {
		return errors.New("services.upload_image_url and services.upload_video_url are required")
	}
	if c.Services.PublishBaseURL == "" {
		return errors.New("services.publish_base_url is required")
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	switch c.Generator.Backend {
	case "remote", "mock":
	case "openai":
		if c.Generator.LLM.APIKey == "" {
			return errors.New("generator.llm.api_key is required for the openai backend")
		}
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible API and needs its endpoint.
		if c.Generator.LLM.APIKey == "" || c.Generator.LLM.BaseURL == "" {
			return errors.New("generator.llm.api_key and generator.llm.base_url are required for the deepseek backend")
		}
	default:
		return fmt.Errorf("generator.backend %q not supported", c.Generator.Backend)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q not supported", c.Log.Format)
	}
	if c.Upload.MaxUploadMB <= 0 {
		return errors.New("upload.max_upload_mb must be positive")
	}
	return nil
}

// RequestTimeout parses services.timeout.
func (c Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Services.Timeout)
	if err != nil {
		return 0, fmt.Errorf("services.timeout: %w", err)
	}
	if d <= 0 {
		return 0, errors.New("services.timeout must be positive")
	}
	return d, nil
}

// Save writes c to path as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
