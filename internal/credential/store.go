// Package credential persists and verifies the admin credential record.
//
// The record is a single salted SHA-256 hash stored as auth.json and
// replaced wholesale on every password change. The comparison is not
// timing-safe; the threat model here is a personal dashboard behind a
// password gate, not a hardened multi-user system.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/storage"
)

// DefaultPassword is the bootstrap password written on first run. Deployment
// tooling is expected to prompt the operator to change it.
const DefaultPassword = "admin123"

const fileName = "auth.json"

// Store reads and writes the credential record.
type Store struct {
	files storage.Provider

	mu sync.Mutex // serializes record replacement
}

// NewStore creates a credential store over the given data directory and
// bootstraps a record from defaultPassword when none exists yet.
func NewStore(files storage.Provider, defaultPassword string) (*Store, error) {
	s := &Store{files: files}
	if _, err := files.Read(fileName); errors.Is(err, os.ErrNotExist) {
		if defaultPassword == "" {
			defaultPassword = DefaultPassword
		}
		if err := s.Update(defaultPassword); err != nil {
			return nil, fmt.Errorf("credential: bootstrap: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("credential: read record: %w", err)
	}
	return s, nil
}

// Verify recomputes the salted hash for candidate and compares it to the
// stored record. Any read or parse failure fails closed.
func (s *Store) Verify(candidate string) bool {
	rec, err := s.load()
	if err != nil {
		return false
	}
	return hashPassword(candidate, rec.Salt) == rec.PasswordHash
}

// Update generates a fresh random salt, rehashes newPassword, and atomically
// replaces the record. On write failure the prior record stays intact.
func (s *Store) Update(newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	salt, err := randomSalt()
	if err != nil {
		return fmt.Errorf("credential: generate salt: %w", err)
	}
	rec := models.Credential{
		PasswordHash: hashPassword(newPassword, salt),
		Salt:         salt,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("credential: encode record: %w", err)
	}
	if err := s.files.Write(fileName, data); err != nil {
		return fmt.Errorf("credential: write record: %w", err)
	}
	return nil
}

func (s *Store) load() (*models.Credential, error) {
	data, err := s.files.Read(fileName)
	if err != nil {
		return nil, err
	}
	var rec models.Credential
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("credential: parse record: %w", err)
	}
	return &rec, nil
}

// hashPassword appends the salt to the password and returns the hex SHA-256
// digest, matching the persisted auth.json format.
func hashPassword(password, salt string) string {
	h := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(h[:])
}

func randomSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
