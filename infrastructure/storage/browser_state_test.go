package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopqa/domain/entities"
)

func TestBrowserState_LoadBeforeSave(t *testing.T) {
	s, err := NewBrowserState(filepath.Join(t.TempDir(), "nested", "state.json"))
	require.NoError(t, err)

	snapshot, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, snapshot.URL)
	assert.Empty(t, snapshot.Cookies)
	assert.NotNil(t, snapshot.LocalStorage)
}

func TestBrowserState_SaveLoad(t *testing.T) {
	s, err := NewBrowserState(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	want := entities.StateSnapshot{
		URL:          "https://shop.test/view_cart",
		Cookies:      []entities.Cookie{{Name: "sessionid", Value: "abc", Path: "/"}},
		LocalStorage: map[string]string{"cart": "[1,2]"},
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = os.Stat(s.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestBrowserState_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewBrowserState(path)
	require.NoError(t, err)

	_, err = s.Load()
	assert.ErrorContains(t, err, "failed to decode state.json")
}

func TestBrowserState_History(t *testing.T) {
	s, err := NewBrowserState(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	history, err := s.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, s.AppendHistory(entities.TestResult{ID: "1", Title: "login", Status: entities.TestStatusPassed, Attempts: 1}))
	require.NoError(t, s.AppendHistory(entities.TestResult{ID: "2", Title: "checkout", Status: entities.TestStatusFailed, Attempts: 3, Duration: time.Second, Error: "boom"}))

	history, err = s.LoadHistory()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "login", history[0].Title)
	assert.Equal(t, entities.TestStatusFailed, history[1].Status)
	assert.Equal(t, time.Second, history[1].Duration)
}

func TestNewBrowserState_EmptyPath(t *testing.T) {
	_, err := NewBrowserState("")
	assert.Error(t, err)
}
