package linkservice

import (
	"errors"
	"testing"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/storage"
)

func testService(t *testing.T) (*Service, *storage.Dir) {
	t.Helper()
	dir, err := storage.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	return NewService(dir), dir
}

func TestSeedOnFirstRun(t *testing.T) {
	s, _ := testService(t)
	col := s.ListAll()
	if len(col.Categories) != 2 {
		t.Fatalf("seeded categories = %d, want 2", len(col.Categories))
	}
	if col.Categories[0].ID != "demo" || col.Categories[1].ID != "work" {
		t.Errorf("seed ids = %s, %s", col.Categories[0].ID, col.Categories[1].ID)
	}
}

func TestListAllSurvivesCorruptFile(t *testing.T) {
	s, dir := testService(t)
	if err := dir.Write("links.json", []byte("{broken")); err != nil {
		t.Fatal(err)
	}
	col := s.ListAll()
	if col.Categories == nil || len(col.Categories) != 0 {
		t.Errorf("corrupt file should yield empty collection, got %+v", col)
	}
}

func TestCreateCategoryConflict(t *testing.T) {
	s, _ := testService(t)
	if _, err := s.CreateCategory("tools", "Tools"); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	_, err := s.CreateCategory("tools", "X")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate id error = %v, want ErrConflict", err)
	}
	// Seeded category ids collide too.
	_, err = s.CreateCategory("demo", "Demo Again")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("seeded duplicate error = %v, want ErrConflict", err)
	}
}

func TestRenameCategory(t *testing.T) {
	s, _ := testService(t)
	cat, err := s.RenameCategory("work", "Office")
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if cat.Name != "Office" {
		t.Errorf("name = %q", cat.Name)
	}

	if _, err := s.RenameCategory("missing", "X"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("rename missing = %v, want ErrNotFound", err)
	}
	// Another category already carries the name.
	if _, err := s.RenameCategory("demo", "Office"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("rename to taken name = %v, want ErrConflict", err)
	}
	// Renaming to its own current name is allowed.
	if _, err := s.RenameCategory("work", "Office"); err != nil {
		t.Errorf("rename to own name: %v", err)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	s, _ := testService(t)
	if err := s.DeleteCategory("work"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	col := s.ListAll()
	for _, cat := range col.Categories {
		if cat.ID == "work" {
			t.Error("category work still present")
		}
		for _, l := range cat.Links {
			if l.Title == "OA" {
				t.Error("orphan link survived cascade")
			}
		}
	}

	if err := s.DeleteCategory("work"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestCreateLink(t *testing.T) {
	s, _ := testService(t)
	link, err := s.CreateLink("work", "Wiki", "https://wiki.example.com")
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if link.ID == "" {
		t.Error("link id not assigned")
	}

	if _, err := s.CreateLink("work", "Bad", "not-a-url"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("bad url = %v, want ErrInvalidInput", err)
	}
	if _, err := s.CreateLink("work", "Bad", "https://nodot"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("dotless host = %v, want ErrInvalidInput", err)
	}
	if _, err := s.CreateLink("missing", "T", "https://x.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing category = %v, want ErrNotFound", err)
	}
}

func TestCreateLinkIDsAreDistinct(t *testing.T) {
	s, _ := testService(t)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		link, err := s.CreateLink("demo", "L", "https://dup.example.com")
		if err != nil {
			t.Fatal(err)
		}
		if _, dup := seen[link.ID]; dup {
			t.Fatalf("duplicate link id %s", link.ID)
		}
		seen[link.ID] = struct{}{}
	}
}

func TestUpdateLink(t *testing.T) {
	s, _ := testService(t)
	link, err := s.UpdateLink("work", "3", "OA v2", "https://oa2.example.com")
	if err != nil {
		t.Fatalf("UpdateLink: %v", err)
	}
	if link.ID != "3" || link.Title != "OA v2" {
		t.Errorf("updated link = %+v", link)
	}

	if _, err := s.UpdateLink("work", "3", "Bad", "ftp://x.com"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("bad scheme = %v, want ErrInvalidInput", err)
	}
	if _, err := s.UpdateLink("work", "999", "T", "https://x.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing link = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateLink("nope", "3", "T", "https://x.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing category = %v, want ErrNotFound", err)
	}
}

func TestMoveLink(t *testing.T) {
	s, _ := testService(t)
	moved, err := s.MoveLink("3", "work", "demo", "OA2", "https://oa2.example.com")
	if err != nil {
		t.Fatalf("MoveLink: %v", err)
	}
	if moved.ID != "3" {
		t.Errorf("moved id = %s, want 3", moved.ID)
	}

	col := s.ListAll()
	var demo, work []string
	for _, cat := range col.Categories {
		for _, l := range cat.Links {
			switch cat.ID {
			case "demo":
				demo = append(demo, l.ID)
			case "work":
				work = append(work, l.ID)
			}
		}
	}
	found := false
	for _, id := range demo {
		if id == "3" {
			found = true
		}
	}
	if !found {
		t.Error("link 3 not in destination category")
	}
	for _, id := range work {
		if id == "3" {
			t.Error("link 3 still in source category")
		}
	}
}

func TestMoveLinkErrors(t *testing.T) {
	s, _ := testService(t)
	cases := []struct {
		name                     string
		linkID, from, to, u      string
		want                     error
	}{
		{"missing source", "3", "nope", "demo", "https://x.com", apperr.ErrNotFound},
		{"missing destination", "3", "work", "nope", "https://x.com", apperr.ErrNotFound},
		{"link not in source", "1", "work", "demo", "https://x.com", apperr.ErrNotFound},
		{"bad url", "3", "work", "demo", "nope", apperr.ErrInvalidInput},
		{"empty link id", "", "work", "demo", "https://x.com", apperr.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.MoveLink(tc.linkID, tc.from, tc.to, "T", tc.u)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDeleteLink(t *testing.T) {
	s, _ := testService(t)
	if err := s.DeleteLink("demo", "1"); err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}
	if err := s.DeleteLink("demo", "1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if err := s.DeleteLink("nope", "1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing category = %v, want ErrNotFound", err)
	}
}

// Serialized sequences of mutations must round-trip exactly through the
// persisted file.
func TestRoundTrip(t *testing.T) {
	s, dir := testService(t)
	if _, err := s.CreateCategory("read", "Reading"); err != nil {
		t.Fatal(err)
	}
	l1, err := s.CreateLink("read", "Blog", "https://blog.example.com")
	if err != nil {
		t.Fatal(err)
	}
	l2, err := s.CreateLink("read", "Docs", "https://docs.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateLink("read", l1.ID, "Blog v2", "https://blog2.example.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteLink("read", l2.ID); err != nil {
		t.Fatal(err)
	}

	// A fresh service over the same directory must see the cumulative state.
	s2 := NewService(dir)
	col := s2.ListAll()
	var read []string
	for _, cat := range col.Categories {
		if cat.ID == "read" {
			for _, l := range cat.Links {
				read = append(read, l.ID+":"+l.Title)
			}
		}
	}
	if len(read) != 1 || read[0] != l1.ID+":Blog v2" {
		t.Errorf("round-trip state = %v", read)
	}
}
