// Package client provides a session manager for the dashboard API. It
// keeps the bearer token issued by the password gate, persists it to a
// state file so a restart inside the token lifetime does not re-prompt,
// and defers actions behind the password prompt when no session exists.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

// ErrPromptCancelled is returned by Do when the prompt callback declines
// to supply a password.
var ErrPromptCancelled = errors.New("client: password prompt cancelled")

// PromptFunc asks the operator for the admin password. Returning an error
// cancels the pending action.
type PromptFunc func() (string, error)

// sessionState is the on-disk shape of a persisted session. ExpiresAt is
// unix milliseconds, matching what the API hands out.
type sessionState struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// SessionManager holds at most one live session against a dashboard API.
type SessionManager struct {
	baseURL   string
	stateFile string
	prompt    PromptFunc
	hc        *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	expiry    *time.Timer
}

// NewSessionManager creates a session manager for the API rooted at
// baseURL (for the full server this includes the /api mount, e.g.
// "http://localhost:3000/api"). A previously persisted session in
// stateFile is restored when it has not expired yet.
func NewSessionManager(baseURL, stateFile string, prompt PromptFunc) *SessionManager {
	m := &SessionManager{
		baseURL:   baseURL,
		stateFile: stateFile,
		prompt:    prompt,
		hc:        &http.Client{Timeout: 10 * time.Second},
	}
	m.restore()
	return m
}

// Authenticated reports whether a non-expired session is held.
func (m *SessionManager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validLocked()
}

// Token returns the current session token, or "" when no valid session
// is held.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.validLocked() {
		return ""
	}
	return m.token
}

// Do runs action with a valid session token, obtaining one first when
// necessary. When no session is held the action is deferred behind the
// password prompt: the prompt callback supplies the password, the manager
// verifies it against the API, persists the issued token, and only then
// runs the action.
func (m *SessionManager) Do(action func(token string) error) error {
	m.mu.Lock()
	if m.validLocked() {
		token := m.token
		m.mu.Unlock()
		return action(token)
	}
	m.mu.Unlock()

	password, err := m.prompt()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	if err := m.Login(password); err != nil {
		return err
	}
	return action(m.Token())
}

// Login verifies password against the API and stores the issued token.
func (m *SessionManager) Login(password string) error {
	body, _ := json.Marshal(map[string]string{"password": password})
	resp, err := m.hc.Post(m.baseURL+"/auth/verify", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: verify failed with status %d", resp.StatusCode)
	}

	var vr struct {
		Success   bool   `json:"success"`
		Token     string `json:"token"`
		ExpiresAt int64  `json:"expiresAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return fmt.Errorf("client: decode verify response: %w", err)
	}
	if !vr.Success || vr.Token == "" {
		return errors.New("client: verify response missing token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(vr.Token, time.UnixMilli(vr.ExpiresAt))
	if err := m.persistLocked(); err != nil {
		return err
	}
	return nil
}

// Logout drops the session locally. The server-side token simply ages out.
func (m *SessionManager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	if err := os.Remove(m.stateFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("client: remove state file: %w", err)
	}
	return nil
}

// Close stops the expiry timer without touching the persisted state, so
// the session can be restored by the next manager.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expiry != nil {
		m.expiry.Stop()
		m.expiry = nil
	}
}

func (m *SessionManager) validLocked() bool {
	return m.token != "" && time.Now().Before(m.expiresAt)
}

// setLocked installs the token and schedules its expiry.
func (m *SessionManager) setLocked(token string, expiresAt time.Time) {
	if m.expiry != nil {
		m.expiry.Stop()
	}
	m.token = token
	m.expiresAt = expiresAt
	m.expiry = time.AfterFunc(time.Until(expiresAt), m.expire)
}

func (m *SessionManager) clearLocked() {
	if m.expiry != nil {
		m.expiry.Stop()
		m.expiry = nil
	}
	m.token = ""
	m.expiresAt = time.Time{}
}

// expire drops the session and its persisted state once the token ages out.
func (m *SessionManager) expire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expiresAt = time.Time{}
	m.expiry = nil
	_ = os.Remove(m.stateFile)
}

func (m *SessionManager) persistLocked() error {
	data, err := json.MarshalIndent(sessionState{
		Token:     m.token,
		ExpiresAt: m.expiresAt.UnixMilli(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("client: marshal state: %w", err)
	}
	if err := os.WriteFile(m.stateFile, data, 0o600); err != nil {
		return fmt.Errorf("client: write state file: %w", err)
	}
	return nil
}

// restore loads a persisted session and keeps it when still valid.
func (m *SessionManager) restore() {
	data, err := os.ReadFile(m.stateFile)
	if err != nil {
		return
	}
	var st sessionState
	if err := json.Unmarshal(data, &st); err != nil {
		_ = os.Remove(m.stateFile)
		return
	}
	expiresAt := time.UnixMilli(st.ExpiresAt)
	if st.Token == "" || !time.Now().Before(expiresAt) {
		_ = os.Remove(m.stateFile)
		return
	}
	m.mu.Lock()
	m.setLocked(st.Token, expiresAt)
	m.mu.Unlock()
}
