package auth

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

const defaultLDAPTimeout = 10

var (
	// ErrLDAPDisabled is returned when LDAP authentication is disabled via configuration.
	ErrLDAPDisabled = errors.New("ldap authentication is disabled")

	// ErrLDAPUserFilter is returned when the user filter has no {username} placeholder.
	ErrLDAPUserFilter = errors.New("ldap user filter must contain {username}")
)

// LDAPProvider handles LDAP authentication.
type LDAPProvider struct {
	cfg config.LDAPAuth
	db  *gorm.DB
}

// NewLDAPProvider creates a new LDAP provider and fills in attribute defaults.
func NewLDAPProvider(cfg config.LDAPAuth, db *gorm.DB) (*LDAPProvider, error) {
	if !cfg.Enabled {
		return nil, ErrLDAPDisabled
	}

	if cfg.UserFilter == "" {
		cfg.UserFilter = "(uid={username})"
	}

	if !strings.Contains(cfg.UserFilter, "{username}") {
		return nil, ErrLDAPUserFilter
	}

	if cfg.UsernameAttr == "" {
		cfg.UsernameAttr = "uid"
	}

	if cfg.EmailAttr == "" {
		cfg.EmailAttr = "mail"
	}

	if cfg.FirstNameAttr == "" {
		cfg.FirstNameAttr = "givenName"
	}

	if cfg.LastNameAttr == "" {
		cfg.LastNameAttr = "sn"
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultLDAPTimeout
	}

	return &LDAPProvider{cfg: cfg, db: db}, nil
}

// URL is the ldap:// or ldaps:// url of the configured server.
func (p *LDAPProvider) URL() string {
	hostPort := net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port))

	if p.cfg.UseSSL {
		return "ldaps://" + hostPort
	}

	return "ldap://" + hostPort
}

// Connect establishes a connection to the LDAP server.
func (p *LDAPProvider) Connect() (*ldap.Conn, error) {
	var tlsConfig *tls.Config
	if p.cfg.UseSSL || p.cfg.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.cfg.SkipVerify, //nolint:gosec // opt-in for lab directories
			ServerName:         p.cfg.Host,
		}
	}

	conn, err := ldap.DialURL(p.URL(), ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if !p.cfg.UseSSL && p.cfg.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			p.close(conn)

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	conn.SetTimeout(time.Duration(p.cfg.Timeout) * time.Second)

	return conn, nil
}

// Authenticate searches the user with the service account and binds as the user.
// The local copy of the user is created or refreshed on success.
func (p *LDAPProvider) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	// an empty password would be an unauthenticated bind and succeed on most servers
	if password == "" {
		return nil, ErrInvalidPassword
	}

	conn, err := p.Connect()
	if err != nil {
		return nil, err
	}

	defer p.close(conn)

	if p.cfg.BindDN != "" {
		if err = conn.Bind(p.cfg.BindDN, p.cfg.BindPassword); err != nil {
			return nil, fmt.Errorf("failed to bind with service account: %w", err)
		}
	}

	entry, err := p.searchUserEntry(conn, username)
	if err != nil {
		return nil, err
	}

	if err = conn.Bind(entry.DN, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, ErrInvalidPassword
		}

		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	return upsertExternalUser(p.db.WithContext(ctx), models.User{
		Username:   username,
		Email:      entry.GetAttributeValue(p.cfg.EmailAttr),
		FirstName:  entry.GetAttributeValue(p.cfg.FirstNameAttr),
		LastName:   entry.GetAttributeValue(p.cfg.LastNameAttr),
		AuthSource: models.AuthSourceLDAP,
		ExternalID: entry.DN,
	}, false)
}

// userFilter substitutes the escaped username into the configured filter.
func (p *LDAPProvider) userFilter(username string) string {
	return strings.ReplaceAll(p.cfg.UserFilter, "{username}", ldap.EscapeFilter(username))
}

func (p *LDAPProvider) searchUserEntry(conn *ldap.Conn, username string) (*ldap.Entry, error) {
	searchRequest := ldap.NewSearchRequest(
		p.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		p.cfg.Timeout,
		false,
		p.userFilter(username),
		[]string{
			p.cfg.UsernameAttr,
			p.cfg.EmailAttr,
			p.cfg.FirstNameAttr,
			p.cfg.LastNameAttr,
			"dn",
		},
		nil,
	)

	searchResult, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	switch len(searchResult.Entries) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return searchResult.Entries[0], nil
	default:
		return nil, ErrMultipleUsersFound
	}
}

func (p *LDAPProvider) close(conn *ldap.Conn) {
	if err := conn.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close LDAP connection")
	}
}
