package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// MinCanvasWidth and MinCanvasHeight are the smallest canvas that still fits
// the text card with its margins.
const (
	MinCanvasWidth  = 640
	MinCanvasHeight = 480
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env            string   `mapstructure:"env"`             // current application environment (local, dev, production etc)
	LogFile        string   `mapstructure:"log_file"`        // optional log file, useful when run by the task scheduler
	DataPath       string   `mapstructure:"data_path"`       // path to JSON file with the verses
	OutputDir      string   `mapstructure:"output_dir"`      // directory where wallpapers are written
	BackgroundPath string   `mapstructure:"background_path"` // optional background image
	SetWallpaper   bool     `mapstructure:"set_wallpaper"`   // whether to call the desktop API after rendering
	KeepDaily      bool     `mapstructure:"keep_daily"`      // reuse the verse recorded for the day (needs the database)
	Fonts          []string `mapstructure:"fonts"`           // candidate font files, in order of preference
	Canvas         Canvas   `mapstructure:"canvas"`          // canvas size section
	Text           Text     `mapstructure:"text"`            // fixed captions drawn on the card
	DB             DB       `mapstructure:"database"`        // history database section
	Telegram       Telegram `mapstructure:"telegram"`        // telegram publishing section
}

// Canvas is the size of the rendered wallpaper in pixels.
type Canvas struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Text contains the captions around the verse.
type Text struct {
	Title  string `mapstructure:"title"`  // header prefix, e.g. THIRUKKURAL
	Author string `mapstructure:"author"` // footer signature
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Enabled reports whether history recording is configured.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// Telegram contains settings for publishing the wallpaper to a chat.
type Telegram struct {
	Token  string `mapstructure:"-"`       // bot token loaded from environment
	ChatID int64  `mapstructure:"chat_id"` // target chat or channel
}

// Enabled reports whether publishing is configured.
func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Load reads configuration from config files and environment variables.
// configDir may be empty, in which case ./config is searched.
func Load(configDir string) (*Config, error) {
	// Pick up a local .env file; its absence is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir == "" {
		configDir = "./config"
	}
	v.AddConfigPath(configDir)

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.Telegram.Token = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_file", "")
	v.SetDefault("data_path", "assets/data/thirukural.json")
	v.SetDefault("output_dir", ".")
	v.SetDefault("background_path", "")
	v.SetDefault("set_wallpaper", true)
	v.SetDefault("keep_daily", false)
	v.SetDefault("fonts", []string{})
	v.SetDefault("canvas.width", 1920)
	v.SetDefault("canvas.height", 1080)
	v.SetDefault("text.title", "THIRUKKURAL")
	v.SetDefault("text.author", "THIRUVALLUVAR")
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("telegram.chat_id", 0)
}

// Validate checks values that the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Canvas.Width < MinCanvasWidth || c.Canvas.Height < MinCanvasHeight {
		return fmt.Errorf("%w: canvas %dx%d is smaller than %dx%d",
			ErrInvalidConfig, c.Canvas.Width, c.Canvas.Height, MinCanvasWidth, MinCanvasHeight)
	}
	if c.DataPath == "" {
		return fmt.Errorf("%w: data_path is empty", ErrInvalidConfig)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is empty", ErrInvalidConfig)
	}
	if c.DB.Enabled() && c.DB.MaxConnections <= 0 {
		return fmt.Errorf("%w: database.max_connections must be positive", ErrInvalidConfig)
	}
	return nil
}
