package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type MediaConfig struct {
	RootDir string `yaml:"root_dir"`
	BaseURL string `yaml:"base_url"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	Enabled  bool   `yaml:"enabled"`
}

type AuthConfig struct {
	JWTSecret            string `yaml:"jwt_secret"`
	AccessTTLMinutes     int    `yaml:"access_ttl_minutes"`
	RefreshTTLDays       int    `yaml:"refresh_ttl_days"`
	VerificationTTLHours int    `yaml:"verification_ttl_hours"`
	ResetTTLHours        int    `yaml:"reset_ttl_hours"`
}

func (a AuthConfig) AccessTTL() time.Duration  { return time.Duration(a.AccessTTLMinutes) * time.Minute }
func (a AuthConfig) RefreshTTL() time.Duration { return time.Duration(a.RefreshTTLDays) * 24 * time.Hour }
func (a AuthConfig) VerificationTTL() time.Duration {
	return time.Duration(a.VerificationTTLHours) * time.Hour
}
func (a AuthConfig) ResetTTL() time.Duration { return time.Duration(a.ResetTTLHours) * time.Hour }

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth     AuthConfig `yaml:"auth"`
	Frontend struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"frontend"`
	Media  MediaConfig `yaml:"media"`
	Market struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"market"`
	Model struct {
		URL string `yaml:"url"`
	} `yaml:"model"`
	Telegram TelegramConfig `yaml:"telegram"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Media.RootDir == "" {
		cfg.Media.RootDir = "./media"
	}
	if cfg.Media.BaseURL == "" {
		cfg.Media.BaseURL = "/media"
	}
	if cfg.Market.BaseURL == "" {
		cfg.Market.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Auth.AccessTTLMinutes == 0 {
		cfg.Auth.AccessTTLMinutes = 15
	}
	if cfg.Auth.RefreshTTLDays == 0 {
		cfg.Auth.RefreshTTLDays = 30
	}
	if cfg.Auth.VerificationTTLHours == 0 {
		cfg.Auth.VerificationTTLHours = 24
	}
	if cfg.Auth.ResetTTLHours == 0 {
		cfg.Auth.ResetTTLHours = 1
	}
	if cfg.Auth.JWTSecret == "" {
		panic("auth.jwt_secret is required in " + path)
	}
	return &cfg
}
