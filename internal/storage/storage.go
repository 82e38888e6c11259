// Package storage provides persistent and in-memory storage for watcher state.
//
// The watch daemon needs to remember which complaints it has already
// notified about and the status each one had at the last poll, so that
// restarts do not replay old notifications. This package implements a
// two-tier store:
//  1. CSV file for persistence (survives restarts)
//  2. In-memory maps for fast lookups (O(1) instead of O(n))
//
// Thread-safety:
//   - All operations are protected by mutex
//   - Safe for concurrent access from multiple goroutines
//   - Atomic read-modify-write operations
package storage

import (
	"bufio"
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// bufferSize for buffered I/O (64KB)
const bufferSize = 64 * 1024

// Record is one tracked complaint as persisted between polls.
//
// Fields:
//   - ComplaintID: Backend complaint ID (e.g., "42")
//   - LastStatus: Status display string at the last poll (e.g., "In Progress")
//   - MessageID: Telegram message ID for editing, empty when never sent
//   - Title: Complaint title for notification text
type Record struct {
	ComplaintID string
	LastStatus  string
	MessageID   string
	Title       string
}

// Storage provides thread-safe storage for watcher state.
//
// Data flow:
//
//	Read:  CSV → load into maps → serve from maps
//	Write: update maps → append to CSV
//	Delete: remove from maps → rewrite entire CSV
//
// Deletions rewrite the whole file because CSV has no in-place delete;
// they only happen when complaints resolve, so the cost is acceptable
// for the dataset sizes a single portal produces.
type Storage struct {
	mu         sync.Mutex
	path       string
	seen       map[string]bool   // complaintID → tracked
	statuses   map[string]string // complaintID → last seen status
	messageIDs map[string]string // complaintID → Telegram message ID
	titles     map[string]string // complaintID → title
}

// New creates a Storage backed by the CSV file at path and loads any
// existing records into memory.
func New(path string) *Storage {
	s := &Storage{
		path:       path,
		seen:       make(map[string]bool),
		statuses:   make(map[string]string),
		messageIDs: make(map[string]string),
		titles:     make(map[string]string),
	}

	s.loadFromFile()

	return s
}

// loadFromFile loads tracked complaints from the CSV file into memory.
//
// CSV columns: ComplaintID, LastStatus, MessageID, Title. Rows shorter
// than four columns are tolerated so older files keep loading. A missing
// file is normal on first run.
func (s *Storage) loadFromFile() {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("📋 No existing watch state found. Starting fresh...")
		} else {
			log.Println("⚠️  Failed to open watch state file:", err)
		}
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		log.Println("⚠️  Failed to read watch state file:", err)
		return
	}

	count := 0
	for _, record := range records {
		if len(record) < 1 || record[0] == "" {
			continue
		}
		id := record[0]
		s.seen[id] = true

		if len(record) >= 2 {
			s.statuses[id] = record[1]
		}
		if len(record) >= 3 {
			s.messageIDs[id] = record[2]
		}
		if len(record) >= 4 {
			s.titles[id] = record[3]
		}

		count++
	}

	log.Println("📚 Loaded", count, "tracked complaints from storage")
}

// IsNew reports whether a complaint has never been seen before.
func (s *Storage) IsNew(complaintID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.seen[complaintID]
}

// LastStatus returns the status a complaint had at the last poll, or an
// empty string when it was never tracked.
func (s *Storage) LastStatus(complaintID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[complaintID]
}

// StatusChanged reports whether the given status differs from the one
// recorded at the last poll. Unknown complaints report false; new
// complaints are detected with IsNew instead.
func (s *Storage) StatusChanged(complaintID, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.statuses[complaintID]
	return ok && last != status
}

// MessageID retrieves the Telegram message ID for a complaint, empty when
// no notification was sent yet.
func (s *Storage) MessageID(complaintID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageIDs[complaintID]
}

// SetMessageID stores the Telegram message ID in memory only. Use
// SaveMultiple to persist.
func (s *Storage) SetMessageID(complaintID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageIDs[complaintID] = messageID
}

// Title retrieves the stored complaint title.
func (s *Storage) Title(complaintID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.titles[complaintID]
}

// Exists reports whether a complaint is tracked.
func (s *Storage) Exists(complaintID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[complaintID]
}

// AllTracked returns every tracked complaint ID. Used to find complaints
// that disappeared from the listing since the last poll.
func (s *Storage) AllTracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	return ids
}

// SaveMultiple atomically saves multiple records.
//
// Records are appended to the CSV in one buffered write, then the
// in-memory maps are updated only after the write succeeded so file and
// memory stay consistent. Re-saving an existing complaint updates its
// maps; the stale CSV row is cleaned up on the next rewrite.
func (s *Storage) SaveMultiple(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	bufferedWriter := bufio.NewWriterSize(file, bufferSize)
	writer := csv.NewWriter(bufferedWriter)

	for _, r := range records {
		if err := writer.Write([]string{r.ComplaintID, r.LastStatus, r.MessageID, r.Title}); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	if err := bufferedWriter.Flush(); err != nil {
		return err
	}

	for _, r := range records {
		s.seen[r.ComplaintID] = true
		s.statuses[r.ComplaintID] = r.LastStatus
		s.messageIDs[r.ComplaintID] = r.MessageID
		s.titles[r.ComplaintID] = r.Title
	}

	return nil
}

// Save saves a single record.
func (s *Storage) Save(r Record) error {
	return s.SaveMultiple([]Record{r})
}

// UpdateStatus records a new status for a tracked complaint and rewrites
// the file so the change survives a restart.
func (s *Storage) UpdateStatus(complaintID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seen[complaintID] {
		return nil
	}
	s.statuses[complaintID] = status

	return s.rewriteFile()
}

// Remove removes a complaint from storage and rewrites the CSV file.
func (s *Storage) Remove(complaintID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.seen, complaintID)
	delete(s.statuses, complaintID)
	delete(s.messageIDs, complaintID)
	delete(s.titles, complaintID)

	return s.rewriteFile()
}

// RemoveIfExists atomically checks whether a complaint is tracked and
// removes it. Useful when multiple workers race to clean up the same
// resolved complaint.
func (s *Storage) RemoveIfExists(complaintID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seen[complaintID] {
		return false, nil
	}

	delete(s.seen, complaintID)
	delete(s.statuses, complaintID)
	delete(s.messageIDs, complaintID)
	delete(s.titles, complaintID)

	return true, s.rewriteFile()
}

// rewriteFile rewrites the entire CSV file from the in-memory maps.
// Caller must hold the mutex.
func (s *Storage) rewriteFile() error {
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	bufferedWriter := bufio.NewWriterSize(file, bufferSize)
	writer := csv.NewWriter(bufferedWriter)

	for id := range s.seen {
		record := []string{id, s.statuses[id], s.messageIDs[id], s.titles[id]}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	return bufferedWriter.Flush()
}
