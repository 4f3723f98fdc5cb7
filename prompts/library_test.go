package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLibrary_LoadsDefaults(t *testing.T) {
	lib, err := NewLibrary()

	require.NoError(t, err)
	assert.Equal(t,
		[]string{ReactSystem, TaskAnalyzer, TaskAnswer, TaskReview},
		lib.Names())
}

func TestLibrary_Render(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)

	out, err := lib.Render(ReactSystem, map[string]any{
		"ToolGuidance": "calc: evaluates arithmetic",
		"Scratchpad":   "No previous steps.",
	})

	require.NoError(t, err)
	assert.Contains(t, out, "calc: evaluates arithmetic")
	assert.Contains(t, out, "No previous steps.")
	assert.Contains(t, out, `"actionType": "tool"`)
	assert.Contains(t, out, `"actionType": "finalAnswer"`)
}

func TestLibrary_RenderUnknownName(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)

	_, err = lib.Render("nonexistent", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt template")
}

func TestNewLibraryFromDir_OverridesByBaseName(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "task_answer.tmpl")
	require.NoError(t, os.WriteFile(override,
		[]byte("custom answer prompt for {{.Task}}"), 0o644))

	lib, err := NewLibraryFromDir(dir)
	require.NoError(t, err)

	out, err := lib.Render(TaskAnswer, map[string]any{"Task": "the task"})
	require.NoError(t, err)
	assert.Equal(t, "custom answer prompt for the task", out)

	// Untouched templates keep their embedded defaults.
	out, err = lib.Render(ReactSystem, map[string]any{
		"ToolGuidance": "",
		"Scratchpad":   "",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "step by step")
}

func TestNewLibraryFromDir_BadTemplate(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "task_answer.tmpl")
	require.NoError(t, os.WriteFile(bad,
		[]byte("{{.Unclosed"), 0o644))

	_, err := NewLibraryFromDir(dir)

	assert.Error(t, err)
}
