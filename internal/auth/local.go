package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewUser holds the fields for creating a local account.
type NewUser struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).
		Where("username = ? AND auth_source = ?", strings.TrimSpace(username), models.AuthSourceLocal).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// CreateUser creates a new active local user. An empty role becomes operator.
func (p *LocalProvider) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	db := p.db.WithContext(ctx)

	var existingUser models.User

	err := db.Where("username = ? OR email = ?", in.Username, in.Email).First(&existingUser).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleOperator
	}

	user := models.User{
		Active:     true,
		Username:   in.Username,
		Email:      in.Email,
		Password:   models.HashPassword(in.Password),
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Role:       role,
		AuthSource: models.AuthSourceLocal,
	}

	if err = db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// upsertExternalUser finds a user by external id and source, creating it on the first login.
// promote upgrades the role to admin, it never downgrades.
func upsertExternalUser(db *gorm.DB, user models.User, promote bool) (*models.User, error) {
	var existing models.User

	err := db.Where("external_id = ? AND auth_source = ?", user.ExternalID, user.AuthSource).
		First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user.Active = true
		user.Role = models.RoleOperator

		if promote {
			user.Role = models.RoleAdmin
		}

		if err = db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		return &user, nil
	case err != nil:
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !existing.Active {
		return nil, ErrUserAccountDisabled
	}

	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName

	if promote {
		existing.Role = models.RoleAdmin
	}

	if err = db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &existing, nil
}
