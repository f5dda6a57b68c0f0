package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/onboarding/pkg/adapters/file"
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/flows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "onboarding version ")
}

func TestValidateCommand(t *testing.T) {
	for _, name := range flows.Names() {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, "", "validate", "--flow", name)
			require.NoError(t, err)
			assert.Contains(t, out, "is valid!")
		})
	}

	_, err := execute(t, "", "validate", "--flow", "nope")
	assert.Error(t, err)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "", "graph", "--flow", flows.NameLegacy)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD"))
	assert.Contains(t, out, "flow_end")
}

func TestSessionCommands(t *testing.T) {
	dir := t.TempDir()
	f, err := flows.Legacy(catalog.Default())
	require.NoError(t, err)
	store := file.New(dir)
	state := domain.NewAnswerState("kept", f, domain.LocaleUS, time.Now())
	state.Answers["firstName"] = domain.TextValue("Alex")
	require.NoError(t, store.Save(context.Background(), "kept", state))

	out, err := execute(t, "", "session", "ls", "--sessions-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "- kept")

	out, err = execute(t, "", "session", "inspect", "kept", "--sessions-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"session_id": "kept"`)
	assert.Contains(t, out, "Alex")

	out, err = execute(t, "", "session", "inspect", "kept", "--sessions-dir", dir, "--redact")
	require.NoError(t, err)
	assert.NotContains(t, out, "Alex")
	assert.Contains(t, out, "***")

	_, err = execute(t, "", "session", "inspect", "missing", "--sessions-dir", dir)
	assert.Error(t, err)

	out, err = execute(t, "", "session", "rm", "kept", "--sessions-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'kept'")

	out, err = execute(t, "", "session", "ls", "--sessions-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestRunCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	in := strings.Join([]string{`null`, `"Sam"`, `["sport"]`, `"tennis"`, `"get fit"`, `null`}, "\n")

	out, err := execute(t, in, "run", "--flow", flows.NameLegacy, "--sessions-dir", dir, "--session", "cli-run", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"type":"step"`)

	stored, err := file.New(dir).Load(context.Background(), "cli-run")
	require.NoError(t, err)
	assert.True(t, stored.IsComplete())
	assert.Equal(t, "Sam", stored.Answer("firstName").String())
}
