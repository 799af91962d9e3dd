package tui

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rulestage/internal/config"
	"github.com/vovakirdan/rulestage/internal/engine"
	"github.com/vovakirdan/rulestage/internal/scenario"
	"github.com/vovakirdan/rulestage/internal/storage"
	"github.com/vovakirdan/rulestage/internal/world"
)

func newPreview(t *testing.T, store *storage.Store) Model {
	t.Helper()
	s, err := scenario.Load("../../../scenarios/unlock.yaml", config.Default())
	require.NoError(t, err)
	e := engine.New(engine.WithLogger(log.New(io.Discard)), engine.WithSeed(s.Seed))
	r, err := scenario.NewRunner(s, e, 1.0/60)
	require.NoError(t, err)
	return NewModel(r, Options{Store: store})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func tick() TickMsg {
	return TickMsg(time.Now())
}

func TestPreviewRunsAndRecords(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	m := newPreview(t, store)
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	for range 90 {
		m = send(m, tick())
	}

	assert.True(t, m.runner.Ended())
	assert.Equal(t, world.StatusSuccess, m.runner.Ctx.State.Status)
	assert.Equal(t, "Door unlocked", m.message)

	runs, err := store.TopRuns("unlock", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1, "a finished run is recorded once")
	assert.Equal(t, 100, runs[0].Score)
	assert.Equal(t, "success", runs[0].Outcome)

	assert.Contains(t, m.View(), "unlock")
}

func TestPreviewPauseAndStep(t *testing.T) {
	m := newPreview(t, nil)
	m = send(m, keyMsg("p"))
	require.True(t, m.paused)

	m = send(m, tick())
	assert.Zero(t, m.runner.Ctx.State.Frame, "paused previews do not advance")

	m = send(m, keyMsg("n"))
	assert.Equal(t, uint64(1), m.runner.Ctx.State.Frame)
	assert.Equal(t, world.StatusPlaying, m.runner.Ctx.State.Status, "host pause leaves the game status alone")

	m = send(m, keyMsg("r"))
	assert.Zero(t, m.runner.Ctx.State.Frame)
}

func TestPreviewMouseBecomesTouch(t *testing.T) {
	m := newPreview(t, nil)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 26})

	m = send(m, tea.MouseMsg{X: 5, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, 1, m.runner.Ctx.Events.Len())
	assert.True(t, m.gesture.Down())

	m = send(m, tea.MouseMsg{X: 40, Y: 4, Action: tea.MouseActionRelease})
	assert.False(t, m.gesture.Down())
	assert.GreaterOrEqual(t, m.runner.Ctx.Events.Len(), 3, "release adds up and a stroke")

	m = send(m, tea.MouseMsg{X: 200, Y: 200, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, m.gesture.Down(), "presses off the field are ignored")
}

func TestPreviewDebugPanel(t *testing.T) {
	m := newPreview(t, nil)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.showDebug)
	assert.Equal(t, 120-debugWidth, m.screen.Width())

	view := m.View()
	assert.Contains(t, view, "Tap the key")
	assert.Contains(t, view, "events")
}

func TestPreviewQuit(t *testing.T) {
	m := newPreview(t, nil)
	next, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, "", next.View())
}
