// Package session keeps the logged in user in the configured fiber storage, keyed by a random cookie value.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// memoryGCInterval is how often the memory storage drops expired sessions.
const memoryGCInterval = time.Minute

var (
	// ErrStoreNotInitialized is returned when Init was not called.
	ErrStoreNotInitialized = errors.New("session store not initialized")

	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
)

// Store is the global session storage.
var Store fiber.Storage

// Data represents the session data structure.
type Data struct {
	User models.User
	// IDToken is kept for OIDC logins, the provider logout needs it.
	IDToken string `json:",omitempty"`
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	if Store == nil {
		return ErrStoreNotInitialized
	}

	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	if Store == nil {
		return ErrStoreNotInitialized
	}

	if sessionID == "" {
		return ErrSessionNotFound
	}

	byteData, err := Store.Get(sessionID)
	if err != nil {
		return err
	}

	if len(byteData) == 0 {
		return ErrSessionNotFound
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session.
func Delete(sessionID string) error {
	if Store == nil {
		return ErrStoreNotInitialized
	}

	return Store.Delete(sessionID)
}

// Init sets the storage backend.
func Init(storage fiber.Storage) {
	if storage == nil {
		panic("storage is nil")
	}

	Store = storage
}

// NewMemory is the storage for single process deployments and tests.
func NewMemory() *memory.Storage {
	return newMemory(memoryGCInterval)
}

func newMemory(gcInterval time.Duration) *memory.Storage {
	return memory.New(memory.Config{GCInterval: gcInterval})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// Start creates a session for user and sets the cookie.
func Start(c *fiber.Ctx, user *models.User, idToken string, exp time.Duration, devMode bool) error {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return err
	}

	data := &Data{User: *user, IDToken: idToken}
	if err = data.Write(sessionID, exp); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		MaxAge:   int(exp.Seconds()),
		Secure:   !devMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// End deletes the session behind the cookie and expires the cookie.
// It returns the ended session data, which is empty when there was none.
func End(c *fiber.Ctx) Data {
	var data Data

	sessionID := c.Cookies(CookieName)
	if sessionID != "" {
		_ = data.Read(sessionID)
		_ = Delete(sessionID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return data
}
