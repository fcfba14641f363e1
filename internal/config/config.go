// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON holds a JSON document merged over the toml configuration.
	EnvConfigJSON = "LOCALBLOG_ADMIN_CONFIG_JSON"

	// DefaultRegenerateSuffix asks the provider for a different post than last time.
	DefaultRegenerateSuffix = "Please generate a completely new and different blog post with fresh content and perspective."

	defaultTitle                 = "LocalBlog-Admin"
	defaultShutDownTime          = 5
	defaultSessionExpiry         = 24 * time.Hour
	defaultOpenAIBaseURL         = "https://api.openai.com/v1"
	defaultOpenAIModel           = "gpt-4o"
	defaultAnthropicModel        = "claude-sonnet-4-5"
	defaultMaxTokens             = 4000
	defaultTemperature           = 0.7
	defaultRegenerateTemperature = 0.8
	defaultGenerationTimeout     = 120 * time.Second
	defaultNotificationTimeout   = 10 * time.Second
	defaultRateLimitPrefix       = "localblog:ratelimit"
	defaultRateLimit             = 10
	defaultRateLimitWindow       = time.Minute
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	applyEnv(&c)

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	return c, nil
}

// applyEnv lets well known environment variables override secrets from the file.
// OPENAI_API_KEY and N8N_WEBHOOK_URL are accepted for compatibility with older deployments.
func applyEnv(c *Config) {
	v := viper.New()

	_ = v.BindEnv("generation.apikey", "LOCALBLOG_GENERATION_APIKEY", "OPENAI_API_KEY")
	_ = v.BindEnv("generation.baseurl", "LOCALBLOG_GENERATION_BASEURL")
	_ = v.BindEnv("notification.webhookurl", "LOCALBLOG_NOTIFICATION_WEBHOOKURL", "N8N_WEBHOOK_URL")
	_ = v.BindEnv("db.password", "LOCALBLOG_DB_PASSWORD")
	_ = v.BindEnv("auth.localdb.adminpassword", "LOCALBLOG_ADMIN_PASSWORD")

	if v.IsSet("generation.apikey") {
		c.Generation.APIKey = v.GetString("generation.apikey")
	}

	if v.IsSet("generation.baseurl") {
		c.Generation.BaseURL = v.GetString("generation.baseurl")
	}

	if v.IsSet("notification.webhookurl") {
		c.Notification.WebhookURL = v.GetString("notification.webhookurl")
	}

	if v.IsSet("db.password") {
		c.DB.Password = v.GetString("db.password")
	}

	if v.IsSet("auth.localdb.adminpassword") {
		c.Auth.LocalDB.AdminPassword = v.GetString("auth.localdb.adminpassword")
	}
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill in defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineMySQL
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if err := validateGeneration(&c.Generation); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	if c.Title == "" {
		c.Title = defaultTitle
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Notification.Timeout == 0 {
		c.Notification.Timeout = defaultNotificationTimeout
	}

	if c.RateLimit.Addr != "" {
		if c.RateLimit.Prefix == "" {
			c.RateLimit.Prefix = defaultRateLimitPrefix
		}

		if c.RateLimit.Limit <= 0 {
			c.RateLimit.Limit = defaultRateLimit
		}

		if c.RateLimit.Window <= 0 {
			c.RateLimit.Window = defaultRateLimitWindow
		}
	}

	return nil
}

func validateGeneration(g *Generation) error {
	switch g.Provider {
	case "":
		g.Provider = ProviderOpenAI
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return ErrUnknownGenerationProvider
	}

	if g.Model == "" {
		g.Model = defaultOpenAIModel
		if g.Provider == ProviderAnthropic {
			g.Model = defaultAnthropicModel
		}
	}

	if g.BaseURL == "" && g.Provider == ProviderOpenAI {
		g.BaseURL = defaultOpenAIBaseURL
	}

	if g.MaxTokens <= 0 {
		g.MaxTokens = defaultMaxTokens
	}

	first, again := g.TemperatureFor(false), g.TemperatureFor(true)
	g.Temperature, g.RegenerateTemperature = &first, &again

	if again <= first {
		log.Warn().
			Float64("temperature", first).
			Float64("regenerate_temperature", again).
			Msg("regenerate temperature is not above the first generation temperature, regenerated posts may repeat")
	}

	if g.RegenerateSuffix == "" {
		g.RegenerateSuffix = DefaultRegenerateSuffix
	}

	if g.Timeout <= 0 {
		g.Timeout = defaultGenerationTimeout
	}

	return nil
}
