package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"

	"shopqa/domain/entities"
	"shopqa/domain/interfaces"
)

// BrowserState keeps a state snapshot and the test history next to it
type BrowserState struct {
	mu          sync.Mutex
	statePath   string
	historyPath string
}

// NewBrowserState creates a file store at statePath. A leading ~ is expanded and
// the parent directory is created. History is kept in history.json beside it.
func NewBrowserState(statePath string) (*BrowserState, error) {
	if statePath == "" {
		return nil, errors.New("state path is empty")
	}
	path, err := homedir.Expand(statePath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand state path: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	return &BrowserState{
		statePath:   path,
		historyPath: filepath.Join(dir, "history.json"),
	}, nil
}

// Path returns the expanded snapshot location
func (s *BrowserState) Path() string {
	return s.statePath
}

// Save writes the snapshot to file
func (s *BrowserState) Save(snapshot entities.StateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.statePath, snapshot)
}

// Load returns the saved snapshot, or an empty one when nothing was saved yet
func (s *BrowserState) Load() (entities.StateSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := entities.StateSnapshot{LocalStorage: map[string]string{}}
	found, err := readJSON(s.statePath, &snapshot)
	if err != nil || !found {
		return snapshot, err
	}
	if snapshot.LocalStorage == nil {
		snapshot.LocalStorage = map[string]string{}
	}
	return snapshot, nil
}

// AppendHistory adds one test result to the history file
func (s *BrowserState) AppendHistory(result entities.TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []entities.TestResult
	if _, err := readJSON(s.historyPath, &history); err != nil {
		return err
	}
	return writeJSON(s.historyPath, append(history, result))
}

// LoadHistory returns every recorded test result, oldest first
func (s *BrowserState) LoadHistory() ([]entities.TestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := []entities.TestResult{}
	if _, err := readJSON(s.historyPath, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

var _ interfaces.StateStore = (*BrowserState)(nil)
