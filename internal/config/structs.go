package config

import (
	"time"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

const (
	// ProviderOpenAI selects an OpenAI compatible chat completions endpoint.
	ProviderOpenAI = "openai"
	// ProviderAnthropic selects the Anthropic messages api.
	ProviderAnthropic = "anthropic"
)

// Config overall data structure.
type Config struct {
	DevMode      bool // enable dev mode for development
	DB           DB
	Log          logger.Log
	Title        string
	Webserver    Webserver
	Auth         Auth
	Generation   Generation
	Notification Notification
	RateLimit    RateLimit
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	CleanPath           bool    // use clean path middleware to allow multi slash requests
	DisableRecover      bool    // disable recover middleware
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Session             Session // session settings
}

// Auth groups the supported login methods.
type Auth struct {
	LocalDB LocalDBAuth
	OIDC    OIDCAuth
	LDAP    LDAPAuth
}

// LocalDBAuth enables username/password login against the users table.
type LocalDBAuth struct {
	Enabled       bool
	AdminEmail    string // email of the admin seeded into an empty users table
	AdminPassword string // its initial password, "changeme" when empty
}

// OIDCAuth holds the OpenID Connect login settings.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AdminEmails  []string // users logging in with one of these emails become admins
}

// LDAPAuth holds the LDAP / Active Directory login settings.
type LDAPAuth struct {
	Enabled       bool
	Host          string
	Port          int
	UseSSL        bool
	UseTLS        bool
	SkipVerify    bool
	BindDN        string
	BindPassword  string
	BaseDN        string
	UserFilter    string // e.g. (uid={username})
	UsernameAttr  string
	EmailAttr     string
	FirstNameAttr string
	LastNameAttr  string
	Timeout       int // seconds
}

// Generation configures the text generation provider used for blog posts.
type Generation struct {
	Provider              string        // openai (default) or anthropic
	BaseURL               string        // provider base url, including /v1 for openai compatible apis
	APIKey                string        // process-wide fallback credential
	Model                 string        // model identifier sent with every request
	MaxTokens             int           // output size cap
	Temperature           *float64      // first generation, 0 is a valid setting
	RegenerateTemperature *float64      // regeneration, expected above Temperature
	RegenerateSuffix      string        // instruction appended to the prompt on regeneration
	Timeout               time.Duration // upper bound for one provider call
}

// TemperatureFor is the sampling temperature of a first generation or of a regeneration.
// Unset values fall back to 0.7 and 0.8.
func (g Generation) TemperatureFor(regenerate bool) float64 {
	if regenerate {
		if g.RegenerateTemperature != nil {
			return *g.RegenerateTemperature
		}

		return defaultRegenerateTemperature
	}

	if g.Temperature != nil {
		return *g.Temperature
	}

	return defaultTemperature
}

// Notification configures the outbound blog webhook.
type Notification struct {
	WebhookURL string        // fallback when the settings page has no url
	Timeout    time.Duration // per attempt
	MaxRetries int           // extra attempts for transient failures, 0 disables retries
}

// RateLimit limits generation requests per user. Disabled when Addr is empty.
type RateLimit struct {
	Addr     string
	Password string
	Prefix   string
	Limit    int
	Window   time.Duration
}
