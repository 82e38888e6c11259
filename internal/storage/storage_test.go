package storage

import (
	"path/filepath"
	"testing"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "watch.csv")
}

func TestIsNew(t *testing.T) {
	s := New(testPath(t))

	if !s.IsNew("42") {
		t.Error("expected IsNew to return true for unseen complaint")
	}

	if err := s.Save(Record{ComplaintID: "42", LastStatus: "New", Title: "Wifi down"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if s.IsNew("42") {
		t.Error("expected IsNew to return false after save")
	}
}

func TestStatusChanged(t *testing.T) {
	s := New(testPath(t))

	if err := s.Save(Record{ComplaintID: "42", LastStatus: "New"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if s.StatusChanged("42", "New") {
		t.Error("expected no change for same status")
	}
	if !s.StatusChanged("42", "In Progress") {
		t.Error("expected change for different status")
	}
	if s.StatusChanged("99", "In Progress") {
		t.Error("expected untracked complaint to report no change")
	}
}

func TestSaveMultipleAndReload(t *testing.T) {
	path := testPath(t)
	s := New(path)

	records := []Record{
		{ComplaintID: "1", LastStatus: "New", MessageID: "m1", Title: "Broken light"},
		{ComplaintID: "2", LastStatus: "In Progress", MessageID: "m2", Title: "Leaky tap"},
		{ComplaintID: "3", LastStatus: "Resolved", MessageID: "m3", Title: "Noise"},
	}
	if err := s.SaveMultiple(records); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// A fresh instance must rehydrate from the file
	reloaded := New(path)
	for _, r := range records {
		if reloaded.IsNew(r.ComplaintID) {
			t.Errorf("expected %s to be tracked after reload", r.ComplaintID)
		}
		if got := reloaded.LastStatus(r.ComplaintID); got != r.LastStatus {
			t.Errorf("expected status %q for %s but got %q", r.LastStatus, r.ComplaintID, got)
		}
		if got := reloaded.MessageID(r.ComplaintID); got != r.MessageID {
			t.Errorf("expected message ID %q for %s but got %q", r.MessageID, r.ComplaintID, got)
		}
		if got := reloaded.Title(r.ComplaintID); got != r.Title {
			t.Errorf("expected title %q for %s but got %q", r.Title, r.ComplaintID, got)
		}
	}
}

func TestUpdateStatusPersists(t *testing.T) {
	path := testPath(t)
	s := New(path)

	if err := s.Save(Record{ComplaintID: "42", LastStatus: "New", Title: "Wifi down"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.UpdateStatus("42", "In Progress"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	reloaded := New(path)
	if got := reloaded.LastStatus("42"); got != "In Progress" {
		t.Errorf("expected updated status to survive reload, got %q", got)
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := testPath(t)
	s := New(path)

	if err := s.SaveMultiple([]Record{
		{ComplaintID: "1", LastStatus: "New"},
		{ComplaintID: "2", LastStatus: "Resolved"},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	removed, err := s.RemoveIfExists("2")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !removed {
		t.Error("expected removal of tracked complaint")
	}

	removed, err = s.RemoveIfExists("2")
	if err != nil {
		t.Fatalf("second remove failed: %v", err)
	}
	if removed {
		t.Error("expected second removal to be a no-op")
	}

	// Removal must survive a reload
	reloaded := New(path)
	if !reloaded.IsNew("2") {
		t.Error("expected removed complaint to be new after reload")
	}
	if reloaded.IsNew("1") {
		t.Error("expected remaining complaint to still be tracked")
	}
}

func TestAllTracked(t *testing.T) {
	s := New(testPath(t))

	if err := s.SaveMultiple([]Record{
		{ComplaintID: "1"},
		{ComplaintID: "2"},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	ids := s.AllTracked()
	if len(ids) != 2 {
		t.Fatalf("expected 2 tracked complaints but got %d", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["1"] || !seen["2"] {
		t.Errorf("expected IDs 1 and 2, got %v", ids)
	}
}
