package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string   `json:"serverAddress"`
	PublicURL     string   `json:"publicUrl"`
	DataDir       string   `json:"dataDir"`
	SessionDBPath string   `json:"sessionDbPath"`
	WebRoot       string   `json:"webRoot"`
	Uploads       Uploads  `json:"uploads"`
	Sessions      Sessions `json:"sessions"`
	OAuth         OAuth    `json:"oauth"`
}

// Uploads configuration
type Uploads struct {
	BasePath          string   `json:"basePath"`
	MaxFileSizeMiB    int64    `json:"maxFileSizeMiB"`
	AllowedExtensions []string `json:"allowedExtensions"`
}

// Sessions configuration
type Sessions struct {
	DurationHours int `json:"durationHours"`
}

// OAuth holds per-provider client credentials
type OAuth struct {
	Google   Provider `json:"google"`
	Facebook Provider `json:"facebook"`
}

// Provider is one OAuth provider's credentials
type Provider struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// PhotosPath returns the photo ledger file path
func (c *Config) PhotosPath() string {
	return filepath.Join(c.DataDir, "photos.json")
}

// VotesPath returns the vote ledger file path
func (c *Config) VotesPath() string {
	return filepath.Join(c.DataDir, "votes.json")
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":3000",
		PublicURL:     "http://localhost:3000",
		DataDir:       "./data",
		SessionDBPath: "sessions.db",
		WebRoot:       "./web",
		Uploads: Uploads{
			BasePath:       "./uploads",
			MaxFileSizeMiB: 10,
			AllowedExtensions: []string{
				".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp",
			},
		},
		Sessions: Sessions{
			DurationHours: 24,
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if url := os.Getenv("PUBLIC_URL"); url != "" {
		cfg.PublicURL = url
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		cfg.Uploads.BasePath = dir
	}
	if dbPath := os.Getenv("SESSION_DB_PATH"); dbPath != "" {
		cfg.SessionDBPath = dbPath
	}
	if size := os.Getenv("UPLOAD_MAX_SIZE_MIB"); size != "" {
		if mib, err := strconv.ParseInt(size, 10, 64); err == nil && mib > 0 {
			cfg.Uploads.MaxFileSizeMiB = mib
		}
	}
	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		cfg.OAuth.Google.ClientID = id
	}
	if secret := os.Getenv("GOOGLE_CLIENT_SECRET"); secret != "" {
		cfg.OAuth.Google.ClientSecret = secret
	}
	if id := os.Getenv("FACEBOOK_APP_ID"); id != "" {
		cfg.OAuth.Facebook.ClientID = id
	}
	if secret := os.Getenv("FACEBOOK_APP_SECRET"); secret != "" {
		cfg.OAuth.Facebook.ClientSecret = secret
	}

	// Ensure data and upload directories exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Uploads.BasePath, 0755); err != nil {
		return nil, err
	}

	absUploads, err := filepath.Abs(cfg.Uploads.BasePath)
	if err != nil {
		return nil, err
	}
	cfg.Uploads.BasePath = absUploads

	return cfg, nil
}
