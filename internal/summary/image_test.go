package summary

import (
	"bytes"
	"os"
	"testing"
	"time"

	"resolveit/internal/complaint"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testComplaint() complaint.Complaint {
	return complaint.Complaint{
		ID:       42,
		Title:    "Broken AC in hostel block C",
		Category: "HOSTEL",
		Status:   "In Progress",
		RaisedBy: "Alice",
		AssignedTo: &complaint.Assignee{
			ID:   3,
			Name: "Bob",
		},
		CreatedAt: complaint.Timestamp{Time: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
	}
}

func TestRowFromComplaint(t *testing.T) {
	row := RowFromComplaint(testComplaint())

	if row.ComplaintNo != "#42" {
		t.Errorf("Expected complaint number #42, got %q", row.ComplaintNo)
	}
	if row.RaisedBy != "Alice" {
		t.Errorf("Expected raised by Alice, got %q", row.RaisedBy)
	}
	if row.AssignedTo != "Bob" {
		t.Errorf("Expected assigned to Bob, got %q", row.AssignedTo)
	}
	if row.Date != "10 Mar 2026" {
		t.Errorf("Expected date 10 Mar 2026, got %q", row.Date)
	}
}

func TestRowFromComplaintAnonymous(t *testing.T) {
	c := testComplaint()
	c.Anonymous = true
	c.AssignedTo = nil

	row := RowFromComplaint(c)
	if row.RaisedBy != "Anonymous" {
		t.Errorf("Expected Anonymous, got %q", row.RaisedBy)
	}
	if row.AssignedTo != "Unassigned" {
		t.Errorf("Expected Unassigned, got %q", row.AssignedTo)
	}
}

func TestRowFromComplaintTruncatesLongTitle(t *testing.T) {
	c := testComplaint()
	c.Title = "The water cooler on the third floor of the academic building has been leaking for two weeks now"

	row := RowFromComplaint(c)
	runes := []rune(row.Title)
	if len(runes) != 61 || runes[60] != '…' {
		t.Errorf("Expected 60 runes plus ellipsis, got %q", row.Title)
	}
}

// requireFont skips rendering tests on hosts without a usable TTF font.
func requireFont(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(findFont(false)); err != nil {
		t.Skip("no system font available")
	}
}

func TestRenderTableProducesPNG(t *testing.T) {
	requireFont(t)
	rows := []Row{RowFromComplaint(testComplaint())}

	data, err := RenderTable(rows)
	if err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("Expected PNG output")
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if _, err := RenderTable(nil); err == nil {
		t.Error("Expected error for empty table")
	}
}

func TestRenderStatusChartProducesPNG(t *testing.T) {
	requireFont(t)
	stats := complaint.Stats{
		Total:  10,
		Recent: 3,
		ByStatus: map[string]int64{
			"New":         4,
			"In Progress": 3,
			"Escalated":   1,
			"Resolved":    2,
		},
	}

	data, err := RenderStatusChart(stats)
	if err != nil {
		t.Fatalf("RenderStatusChart failed: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("Expected PNG output")
	}
}

func TestRenderStatusChartEmpty(t *testing.T) {
	if _, err := RenderStatusChart(complaint.Stats{}); err == nil {
		t.Error("Expected error for zero stats")
	}
}
