package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/wunjo/internal/api"
	"github.com/starford/wunjo/internal/credential"
	"github.com/starford/wunjo/internal/gallery"
	"github.com/starford/wunjo/internal/linkservice"
	"github.com/starford/wunjo/internal/probe"
	"github.com/starford/wunjo/internal/session"
	"github.com/starford/wunjo/internal/storage"
	"github.com/starford/wunjo/internal/testutil"
)

func testAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	dataDir, err := storage.NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	wallDir, err := storage.NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	db := testutil.TestDB(t)
	creds, err := credential.NewStore(dataDir, "")
	if err != nil {
		t.Fatal(err)
	}
	sessions := session.NewMemoryStore(time.Minute)
	h := api.NewHandler(
		linkservice.NewService(dataDir),
		creds,
		sessions,
		probe.NewChecker(2*time.Second),
		gallery.NewService(wallDir, db),
		nil,
	)
	srv := httptest.NewServer(api.NewRouter(h, sessions, nil))
	t.Cleanup(srv.Close)
	return srv
}

func stateFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func passwordPrompt(password string) PromptFunc {
	return func() (string, error) { return password, nil }
}

func noPrompt(t *testing.T) PromptFunc {
	return func() (string, error) {
		t.Error("prompt should not have been called")
		return "", errors.New("unexpected prompt")
	}
}

func TestDoPromptsAndRunsAction(t *testing.T) {
	srv := testAPIServer(t)
	m := NewSessionManager(srv.URL, stateFile(t), passwordPrompt(credential.DefaultPassword))
	defer m.Close()

	if m.Authenticated() {
		t.Fatal("fresh manager should not hold a session")
	}

	// The action uses the token against the gated API to prove it works.
	err := m.Do(func(token string) error {
		body, _ := json.Marshal(map[string]string{"id": "tools", "name": "Tools"})
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/categories", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("create category with session token = %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !m.Authenticated() {
		t.Error("manager should hold a session after Do")
	}
}

func TestDoReusesExistingSession(t *testing.T) {
	srv := testAPIServer(t)
	m := NewSessionManager(srv.URL, stateFile(t), passwordPrompt(credential.DefaultPassword))
	defer m.Close()

	if err := m.Login(credential.DefaultPassword); err != nil {
		t.Fatal(err)
	}
	m.prompt = noPrompt(t)

	ran := false
	if err := m.Do(func(string) error { ran = true; return nil }); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Error("action did not run")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := testAPIServer(t)
	m := NewSessionManager(srv.URL, stateFile(t), nil)
	defer m.Close()

	err := m.Login("wrong")
	if err == nil {
		t.Fatal("wrong password should fail")
	}
	if m.Authenticated() {
		t.Error("failed login must not leave a session")
	}
}

func TestPromptCancelled(t *testing.T) {
	srv := testAPIServer(t)
	m := NewSessionManager(srv.URL, stateFile(t), func() (string, error) {
		return "", errors.New("user closed dialog")
	})
	defer m.Close()

	err := m.Do(func(string) error { return nil })
	if !errors.Is(err, ErrPromptCancelled) {
		t.Errorf("err = %v, want ErrPromptCancelled", err)
	}
}

func TestSessionRestoredAcrossManagers(t *testing.T) {
	srv := testAPIServer(t)
	file := stateFile(t)

	m1 := NewSessionManager(srv.URL, file, passwordPrompt(credential.DefaultPassword))
	if err := m1.Login(credential.DefaultPassword); err != nil {
		t.Fatal(err)
	}
	token := m1.Token()
	m1.Close()

	m2 := NewSessionManager(srv.URL, file, noPrompt(t))
	defer m2.Close()
	if !m2.Authenticated() {
		t.Fatal("persisted session should restore")
	}
	if m2.Token() != token {
		t.Error("restored token differs from persisted one")
	}
}

func TestExpiredStateNotRestored(t *testing.T) {
	file := stateFile(t)
	data, _ := json.Marshal(sessionState{Token: "stale", ExpiresAt: time.Now().Add(-time.Minute).UnixMilli()})
	if err := os.WriteFile(file, data, 0o600); err != nil {
		t.Fatal(err)
	}

	m := NewSessionManager("http://unused.invalid", file, nil)
	defer m.Close()
	if m.Authenticated() {
		t.Error("expired state should not restore")
	}
	if _, err := os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		t.Error("expired state file should be removed")
	}
}

func TestSessionExpiresWhileHeld(t *testing.T) {
	file := stateFile(t)
	data, _ := json.Marshal(sessionState{Token: "shortlived", ExpiresAt: time.Now().Add(50 * time.Millisecond).UnixMilli()})
	if err := os.WriteFile(file, data, 0o600); err != nil {
		t.Fatal(err)
	}

	m := NewSessionManager("http://unused.invalid", file, nil)
	defer m.Close()
	if !m.Authenticated() {
		t.Fatal("short-lived session should restore")
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.Authenticated() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if m.Authenticated() {
		t.Fatal("session did not expire")
	}
	if _, err := os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		t.Error("state file should be removed on expiry")
	}
}

func TestLogoutClearsState(t *testing.T) {
	srv := testAPIServer(t)
	file := stateFile(t)
	m := NewSessionManager(srv.URL, file, nil)
	defer m.Close()

	if err := m.Login(credential.DefaultPassword); err != nil {
		t.Fatal(err)
	}
	if err := m.Logout(); err != nil {
		t.Fatal(err)
	}
	if m.Authenticated() {
		t.Error("logout should drop the session")
	}
	if _, err := os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		t.Error("logout should remove the state file")
	}
}
