// Package security handles encryption of stored credentials. External API
// keys (market data, automation) live in the system_config table encrypted
// with a fernet master key supplied via environment.
package security

import (
	"fmt"
	"log"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/dcamoon/trading-backend/internal/repository"
)

// Manager encrypts and decrypts API keys backed by the system_config table.
type Manager struct {
	key  *fernet.Key
	repo *repository.SystemConfigRepository
}

// NewManager creates a security manager from a base64 fernet master key.
// An empty masterKey generates a fresh one and logs it so the operator can
// pin it via DCAMOON_MASTER_KEY; keys encrypted under a generated key are
// unreadable after restart.
func NewManager(masterKey string, repo *repository.SystemConfigRepository) (*Manager, error) {
	if masterKey == "" {
		var key fernet.Key
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate master key: %w", err)
		}
		log.Printf("No master key configured. Set DCAMOON_MASTER_KEY to: %s", key.Encode())
		return &Manager{key: &key, repo: repo}, nil
	}

	key, err := fernet.DecodeKey(masterKey)
	if err != nil {
		return nil, fmt.Errorf("invalid master key: %w", err)
	}

	return &Manager{key: key, repo: repo}, nil
}

// Encrypt returns the fernet token for a secret.
func (m *Manager) Encrypt(secret string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(secret), m.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(token), nil
}

// Decrypt recovers a secret from its fernet token.
func (m *Manager) Decrypt(token string) (string, error) {
	// TTL 0 disables token expiry; stored keys stay valid until rotated.
	msg := fernet.VerifyAndDecrypt([]byte(token), 0*time.Second, []*fernet.Key{m.key})
	if msg == nil {
		return "", fmt.Errorf("failed to decrypt secret: invalid token or wrong master key")
	}
	return string(msg), nil
}

// StoreAPIKey encrypts and persists a named API key.
func (m *Manager) StoreAPIKey(name, value string) error {
	token, err := m.Encrypt(value)
	if err != nil {
		return err
	}
	return m.repo.Set(name, token, true)
}

// GetAPIKey retrieves and decrypts a named API key.
// Returns apperrors.ErrConfigKeyNotFound if the key was never stored.
func (m *Manager) GetAPIKey(name string) (string, error) {
	token, err := m.repo.Get(name)
	if err != nil {
		return "", err
	}
	return m.Decrypt(token)
}
