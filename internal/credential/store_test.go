package credential

import (
	"encoding/json"
	"testing"

	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/storage"
)

func testStore(t *testing.T) (*Store, *storage.Dir) {
	t.Helper()
	dir, err := storage.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	s, err := NewStore(dir, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, dir
}

func TestBootstrapDefaultPassword(t *testing.T) {
	s, dir := testStore(t)
	if !s.Verify(DefaultPassword) {
		t.Error("default password should verify after bootstrap")
	}
	if s.Verify("wrong") {
		t.Error("wrong password should not verify")
	}

	data, err := dir.Read("auth.json")
	if err != nil {
		t.Fatalf("auth.json not written: %v", err)
	}
	var rec models.Credential
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("auth.json not valid JSON: %v", err)
	}
	if rec.PasswordHash == "" || rec.Salt == "" {
		t.Errorf("record incomplete: %+v", rec)
	}
}

func TestBootstrapKeepsExistingRecord(t *testing.T) {
	s, dir := testStore(t)
	if err := s.Update("changed"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// A second store over the same directory must not reset the password.
	s2, err := NewStore(dir, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if !s2.Verify("changed") {
		t.Error("existing record should survive re-initialization")
	}
	if s2.Verify(DefaultPassword) {
		t.Error("default password should not verify after change")
	}
}

func TestUpdateReplacesRecord(t *testing.T) {
	s, _ := testStore(t)
	if err := s.Update("s3cret"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !s.Verify("s3cret") {
		t.Error("new password should verify immediately after update")
	}
	if s.Verify(DefaultPassword) {
		t.Error("stale password should fail against replaced record")
	}

	// Updating again resalts; old password must fail.
	if err := s.Update("other"); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if s.Verify("s3cret") {
		t.Error("previous password should not verify")
	}
	if !s.Verify("other") {
		t.Error("latest password should verify")
	}
}

func TestUpdateGeneratesFreshSalt(t *testing.T) {
	s, dir := testStore(t)
	read := func() models.Credential {
		t.Helper()
		data, err := dir.Read("auth.json")
		if err != nil {
			t.Fatal(err)
		}
		var rec models.Credential
		if err := json.Unmarshal(data, &rec); err != nil {
			t.Fatal(err)
		}
		return rec
	}

	first := read()
	if err := s.Update("same-password"); err != nil {
		t.Fatal(err)
	}
	second := read()
	if first.Salt == second.Salt {
		t.Error("salt should be regenerated on every update")
	}
}

func TestVerifyFailsClosedOnCorruptRecord(t *testing.T) {
	s, dir := testStore(t)
	if err := dir.Write("auth.json", []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if s.Verify(DefaultPassword) {
		t.Error("corrupt record should never verify")
	}
}
