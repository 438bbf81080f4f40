package security_test

import (
	"errors"
	"testing"

	"github.com/fernet/fernet-go"

	"github.com/dcamoon/trading-backend/internal/apperrors"
	"github.com/dcamoon/trading-backend/internal/repository"
	"github.com/dcamoon/trading-backend/internal/security"
	"github.com/dcamoon/trading-backend/internal/testutil"
)

func makeMasterKey(t *testing.T) string {
	t.Helper()
	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return key.Encode()
}

// TestManager_EncryptDecrypt tests the credential round trip.
//
// WHY: API keys are stored encrypted at rest; a manager must recover
// exactly what it stored and reject tokens from a different master key.
func TestManager_EncryptDecrypt(t *testing.T) {
	t.Run("round trips a secret", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewSystemConfigRepository(db)
		manager, err := security.NewManager(makeMasterKey(t), repo)
		if err != nil {
			t.Fatalf("NewManager() returned unexpected error: %v", err)
		}

		// Execute
		token, err := manager.Encrypt("super-secret-key")
		if err != nil {
			t.Fatalf("Encrypt() returned unexpected error: %v", err)
		}
		plaintext, err := manager.Decrypt(token)

		// Assert
		if err != nil {
			t.Fatalf("Decrypt() returned unexpected error: %v", err)
		}
		if plaintext != "super-secret-key" {
			t.Errorf("Expected original secret, got %q", plaintext)
		}
		if token == "super-secret-key" {
			t.Error("Expected token to differ from plaintext")
		}
	})

	t.Run("rejects token from a different master key", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewSystemConfigRepository(db)
		managerA, _ := security.NewManager(makeMasterKey(t), repo)
		managerB, _ := security.NewManager(makeMasterKey(t), repo)

		token, err := managerA.Encrypt("secret")
		if err != nil {
			t.Fatalf("Encrypt() returned unexpected error: %v", err)
		}

		// Execute
		_, err = managerB.Decrypt(token)

		// Assert
		if err == nil {
			t.Fatal("Expected decryption with wrong key to fail")
		}
	})

	t.Run("rejects malformed master key", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewSystemConfigRepository(db)

		// Execute
		_, err := security.NewManager("not-a-valid-key", repo)

		// Assert
		if err == nil {
			t.Fatal("Expected error for malformed master key")
		}
	})

	t.Run("generates a key when none is configured", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewSystemConfigRepository(db)

		// Execute
		manager, err := security.NewManager("", repo)

		// Assert: the generated key works for a round trip
		if err != nil {
			t.Fatalf("NewManager() returned unexpected error: %v", err)
		}
		token, err := manager.Encrypt("ephemeral")
		if err != nil {
			t.Fatalf("Encrypt() returned unexpected error: %v", err)
		}
		plaintext, err := manager.Decrypt(token)
		if err != nil {
			t.Fatalf("Decrypt() returned unexpected error: %v", err)
		}
		if plaintext != "ephemeral" {
			t.Errorf("Expected original secret, got %q", plaintext)
		}
	})
}

// TestManager_APIKeyStorage tests persisted key storage.
//
// WHY: Stored keys live in system_config encrypted; retrieval must decrypt
// transparently and a missing key must surface as not found.
func TestManager_APIKeyStorage(t *testing.T) {
	t.Run("stores and retrieves a key", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewSystemConfigRepository(db)
		manager, _ := security.NewManager(makeMasterKey(t), repo)

		// Execute
		if err := manager.StoreAPIKey("quote_provider", "qp-12345"); err != nil {
			t.Fatalf("StoreAPIKey() returned unexpected error: %v", err)
		}
		value, err := manager.GetAPIKey("quote_provider")

		// Assert
		if err != nil {
			t.Fatalf("GetAPIKey() returned unexpected error: %v", err)
		}
		if value != "qp-12345" {
			t.Errorf("Expected stored key, got %q", value)
		}

		// The raw stored value is the fernet token, not the plaintext
		raw, err := repo.Get("quote_provider")
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if raw == "qp-12345" {
			t.Error("Expected stored value to be encrypted")
		}
	})

	t.Run("overwrites an existing key", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewSystemConfigRepository(db)
		manager, _ := security.NewManager(makeMasterKey(t), repo)

		if err := manager.StoreAPIKey("quote_provider", "old"); err != nil {
			t.Fatalf("StoreAPIKey() returned unexpected error: %v", err)
		}

		// Execute
		if err := manager.StoreAPIKey("quote_provider", "new"); err != nil {
			t.Fatalf("StoreAPIKey() returned unexpected error: %v", err)
		}

		// Assert
		value, err := manager.GetAPIKey("quote_provider")
		if err != nil {
			t.Fatalf("GetAPIKey() returned unexpected error: %v", err)
		}
		if value != "new" {
			t.Errorf("Expected updated key, got %q", value)
		}
	})

	t.Run("missing key returns not found", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewSystemConfigRepository(db)
		manager, _ := security.NewManager(makeMasterKey(t), repo)

		// Execute
		_, err := manager.GetAPIKey("never_stored")

		// Assert
		if !errors.Is(err, apperrors.ErrConfigKeyNotFound) {
			t.Fatalf("Expected ErrConfigKeyNotFound, got %v", err)
		}
	})
}
