package ui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclev/cljstyle/internal/cli/hooks"
	"github.com/aclev/cljstyle/pkg/styler"
)

func TestModelCountsStatusUpdates(t *testing.T) {
	m := NewModel()

	var model tea.Model = m
	model, _ = model.Update(hooks.FileDiscoveredMsg{Path: "a.clj"})
	model, _ = model.Update(hooks.FileDiscoveredMsg{Path: "b.clj"})
	model, _ = model.Update(hooks.FileStatusUpdateMsg{Path: "a.clj", Status: styler.StatusClean})
	model, _ = model.Update(hooks.FileStatusUpdateMsg{Path: "b.clj", Status: styler.StatusFlagged, Message: "1 problem"})

	updated := model.(*Model)
	assert.Equal(t, 2, updated.discovered)
	assert.Equal(t, 1, updated.counts[styler.StatusClean])
	assert.Equal(t, 1, updated.counts[styler.StatusFlagged])
	assert.Len(t, updated.recent, 2)
}

func TestModelRecentWindowBounded(t *testing.T) {
	m := NewModel()

	var model tea.Model = m
	for i := 0; i < maxRecent*3; i++ {
		model, _ = model.Update(hooks.FileStatusUpdateMsg{
			Path:   fmt.Sprintf("f%d.clj", i),
			Status: styler.StatusClean,
		})
	}

	updated := model.(*Model)
	assert.Len(t, updated.recent, maxRecent)
	assert.Equal(t, fmt.Sprintf("f%d.clj", maxRecent*3-1), updated.recent[maxRecent-1].path)
}

func TestModelRunCompleteQuits(t *testing.T) {
	m := NewModel()
	report := styler.Report{RunID: "done"}

	model, cmd := m.Update(hooks.RunCompleteMsg{Report: report})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	updated := model.(*Model)
	require.NotNil(t, updated.Report())
	assert.Equal(t, "done", updated.Report().RunID)
	assert.True(t, updated.done)
}

func TestModelKeyQuit(t *testing.T) {
	m := NewModel()

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, model.(*Model).View(), "quitting view renders nothing")
}

func TestModelViewRendersCounts(t *testing.T) {
	m := NewModel()

	var model tea.Model = m
	model, _ = model.Update(hooks.FileStatusUpdateMsg{Path: "a.clj", Status: styler.StatusClean})
	model, _ = model.Update(hooks.FileStatusUpdateMsg{Path: "b.clj", Status: styler.StatusError})

	view := model.(*Model).View()
	assert.Contains(t, view, "a.clj")
	assert.Contains(t, view, "b.clj")
	assert.Contains(t, view, "clean 1")
	assert.Contains(t, view, "errors 1")
}
