package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the catalog search service,
// the posting service and the optional metrics textfile.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Catalog contains the product catalog (PA-API v5) settings
	Catalog struct {
		// AccessKey is the catalog API access key
		AccessKey string `env:"AMAZON_ACCESS_KEY" yaml:"accessKey"`
		// SecretKey is the catalog API secret key used for request signing
		SecretKey string `env:"AMAZON_SECRET_KEY" yaml:"secretKey"`
		// PartnerTag identifies the caller for commission tracking
		PartnerTag string `env:"AMAZON_PARTNER_TAG" yaml:"partnerTag"`
		// Host is the marketplace API host
		Host string `env:"CATALOG_HOST" env-default:"webservices.amazon.co.jp" yaml:"host"`
		// Region is the signing region of the marketplace
		Region string `env:"CATALOG_REGION" env-default:"us-west-2" yaml:"region"`
		// Marketplace is the marketplace domain sent with every search
		Marketplace string `env:"CATALOG_MARKETPLACE" env-default:"www.amazon.co.jp" yaml:"marketplace"`
		// ItemCount is the number of candidates requested per search (at most 10)
		ItemCount int `env:"CATALOG_ITEM_COUNT" env-default:"10" yaml:"itemCount"`
		// Timeout bounds a single search request
		Timeout time.Duration `env:"CATALOG_TIMEOUT" env-default:"15s" yaml:"timeout"`
	} `yaml:"catalog"`

	// Poster contains the posting service (X API v2) settings
	Poster struct {
		// ConsumerKey is the OAuth 1.0a consumer (API) key
		ConsumerKey string `env:"X_API_KEY" yaml:"consumerKey"`
		// ConsumerSecret is the OAuth 1.0a consumer (API) secret
		ConsumerSecret string `env:"X_API_KEY_SECRET" yaml:"consumerSecret"`
		// AccessToken is the user access token
		AccessToken string `env:"X_ACCESS_TOKEN" yaml:"accessToken"`
		// AccessTokenSecret is the user access token secret
		AccessTokenSecret string `env:"X_ACCESS_TOKEN_SECRET" yaml:"accessTokenSecret"`
		// Endpoint is the create-post URL
		Endpoint string `env:"POSTER_ENDPOINT" env-default:"https://api.twitter.com/2/tweets" yaml:"endpoint"`
		// MaxLength is the service length limit for a single post
		MaxLength int `env:"POSTER_MAX_LENGTH" env-default:"280" yaml:"maxLength"`
		// Hashtags are appended to every post
		Hashtags []string `env:"POSTER_HASHTAGS" env-default:"#プログラミング,#書籍" env-separator:"," yaml:"hashtags"`
		// Timeout bounds a single post request
		Timeout time.Duration `env:"POSTER_TIMEOUT" env-default:"15s" yaml:"timeout"`
	} `yaml:"poster"`

	// Metrics contains run metrics settings
	Metrics struct {
		// TextfilePath is where run metrics are written in Prometheus text format; empty disables it
		TextfilePath string `env:"METRICS_TEXTFILE" yaml:"textfile"`
	} `yaml:"metrics"`
}

// Load reads an optional .env file, then the yaml config file at configPath, then
// environment overrides. A missing config file is not an error; in that case only
// environment variables and defaults are used.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	var cfg Config
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read env config: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
