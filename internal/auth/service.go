package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

// Service tries the enabled password login methods in order: local accounts first, then LDAP.
type Service struct {
	local *LocalProvider
	ldap  *LDAPProvider
}

// NewService creates the login service for the enabled methods.
func NewService(cfg config.Auth, db *gorm.DB) *Service {
	s := &Service{}

	if cfg.LocalDB.Enabled {
		s.local = NewLocalProvider(db)
	}

	if cfg.LDAP.Enabled {
		ldapProvider, err := NewLDAPProvider(cfg.LDAP, db)
		if err != nil {
			log.Error().Err(err).Msg("ldap login disabled")
		} else {
			s.ldap = ldapProvider
		}
	}

	return s
}

// LDAPEnabled reports whether LDAP login is configured.
func (s *Service) LDAPEnabled() bool {
	return s.ldap != nil
}

// Login authenticates username and password.
// A local account that is not found falls through to LDAP, a wrong local password does not.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	if s.local == nil && s.ldap == nil {
		return nil, ErrNoLoginMethod
	}

	if s.local != nil {
		user, err := s.local.Authenticate(ctx, username, password)
		if err == nil || !errors.Is(err, ErrUserNotFound) || s.ldap == nil {
			return user, err
		}
	}

	return s.ldap.Authenticate(ctx, username, password)
}
