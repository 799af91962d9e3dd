package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rulestage/internal/storage"
)

func TestRunsBoard(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	for _, r := range []storage.Run{
		{Scenario: "unlock", Score: 100, Outcome: "success", Frames: 37, Elapsed: 0.62},
		{Scenario: "unlock", Score: 0, Outcome: "failure", Frames: 600, Elapsed: 10},
		{Scenario: "bounce", Score: 5, Outcome: "success", Frames: 90, Elapsed: 1.5},
	} {
		_, err := store.SaveRun(r)
		require.NoError(t, err)
	}

	m := NewRunsModel(store, DefaultTheme(), 120, 30)
	assert.Equal(t, "bounce", m.Selected())
	require.Len(t, m.runs, 1)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RunsModel)
	assert.Equal(t, "unlock", m.Selected())
	require.Len(t, m.runs, 2)
	assert.Equal(t, 100, m.runs[0].Score)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(RunsModel)
	assert.Equal(t, "bounce", m.Selected())

	assert.Contains(t, m.View(), "RUNS - bounce")
}

func TestRunsBoardEmpty(t *testing.T) {
	m := NewRunsModel(nil, DefaultTheme(), 60, 20)
	assert.Empty(t, m.Selected())
	assert.Contains(t, m.View(), "No runs recorded yet")
}

func TestRunRows(t *testing.T) {
	rows := runRows([]storage.Run{{Score: 42, Outcome: "success", Frames: 10, Elapsed: 1.25}})
	require.Len(t, rows, 1)
	assert.Equal(t, "#1", rows[0][0])
	assert.Equal(t, "42", rows[0][1])
	assert.Equal(t, "1.25s", rows[0][4])
}

func TestThemeByName(t *testing.T) {
	_, ok := ThemeByName("neon")
	assert.True(t, ok)
	_, ok = ThemeByName("plaid")
	assert.False(t, ok)
}
