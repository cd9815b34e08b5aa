package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/core/loader"
	"github.com/abdul-hamid-achik/hitcheck/packages/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newEvaluator(buf *bytes.Buffer) *evaluator {
	return &evaluator{
		engine: assertions.NewEngine(),
		logger: zap.NewNop(),
		stdout: buf,
	}
}

func TestExampleFiles(t *testing.T) {
	dir := t.TempDir()
	snapPath := writeFile(t, dir, "snapshot.json", exampleSnapshot)
	assertionsPath := writeFile(t, dir, "assertions.yaml", exampleAssertions)

	snap, err := loader.LoadSnapshot(snapPath)
	require.NoError(t, err)
	configs, err := loader.LoadAssertions(assertionsPath)
	require.NoError(t, err)
	require.NoError(t, assertions.Validate(configs))

	results := assertions.Execute(configs, snap)
	for _, r := range results {
		assert.False(t, r.Failed(), "%s: %s", r.Label(), r.Result.Message)
	}
	assert.Equal(t, assertions.Summary{Total: 6, Passed: 5, Ignored: 1}, assertions.Summarize(results))
}

func TestEvaluator_Run(t *testing.T) {
	dir := t.TempDir()
	snapPath := writeFile(t, dir, "snapshot.json", exampleSnapshot)
	failing := writeFile(t, dir, "failing.json", `[
		{"type": "STATUS", "assertionCondition": "EQUAL", "expected": 200},
		{"type": "BODY", "assertionCondition": "CONTAIN", "expected": "Ada"}
	]`)

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		report, err := newEvaluator(&buf).run(context.Background(), evalOptions{
			Snapshot: snapPath, Assertions: failing, Output: "console", NoColor: true,
		})
		require.NoError(t, err)
		assert.Equal(t, assertions.Summary{Total: 2, Passed: 1, Failed: 1}, report.Summary)
		assert.Contains(t, buf.String(), "1 passed, 1 failed")
	})

	t.Run("json to file", func(t *testing.T) {
		var buf bytes.Buffer
		outFile := filepath.Join(dir, "report.json")
		_, err := newEvaluator(&buf).run(context.Background(), evalOptions{
			Snapshot: snapPath, Assertions: failing, Output: "json", OutputFile: outFile,
		})
		require.NoError(t, err)
		assert.Empty(t, buf.String())

		data, err := os.ReadFile(outFile)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Contains(t, decoded, "summary")
	})

	t.Run("missing snapshot", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := newEvaluator(&buf).run(context.Background(), evalOptions{
			Snapshot: filepath.Join(dir, "nope.json"), Assertions: failing, Output: "console", NoColor: true,
		})
		var exit *exitError
		require.True(t, errors.As(err, &exit))
		assert.Equal(t, ExitLoadError, exit.code)
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := newEvaluator(&buf).run(context.Background(), evalOptions{
			Snapshot: snapPath, Assertions: failing, Output: "xml",
		})
		var exit *exitError
		require.True(t, errors.As(err, &exit))
		assert.Equal(t, ExitUsageError, exit.code)
	})

	t.Run("strict rejects invalid batch", func(t *testing.T) {
		invalid := writeFile(t, dir, "invalid.json", `[{"type": "HEADER", "assertionCondition": "EQUAL", "expected": "x"}]`)

		var buf bytes.Buffer
		_, err := newEvaluator(&buf).run(context.Background(), evalOptions{
			Snapshot: snapPath, Assertions: invalid, Output: "console", NoColor: true, Strict: true,
		})
		var exit *exitError
		require.True(t, errors.As(err, &exit))
		assert.Equal(t, ExitLoadError, exit.code)

		report, err := newEvaluator(&buf).run(context.Background(), evalOptions{
			Snapshot: snapPath, Assertions: invalid, Output: "console", NoColor: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Summary.Failed)
	})
}

func TestEvaluator_RecordsHistory(t *testing.T) {
	dir := t.TempDir()
	snapPath := writeFile(t, dir, "snapshot.json", exampleSnapshot)
	assertionsPath := writeFile(t, dir, "assertions.yaml", exampleAssertions)

	history, err := store.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer history.Close()

	var buf bytes.Buffer
	ev := newEvaluator(&buf)
	ev.history = history

	report, err := ev.run(context.Background(), evalOptions{
		Snapshot: snapPath, Assertions: assertionsPath, Output: "tap",
	})
	require.NoError(t, err)

	run, err := history.GetRun(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Summary, run.Summary)
	assert.Equal(t, assertionsPath, run.AssertionsFile)

	restored := reportFromRun(run)
	assert.Equal(t, report.Results, restored.Results)
	assert.Equal(t, report.ID, restored.ID)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "assertions.json", `[]`)
	other := writeFile(t, dir, "other.json", `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		changes []string
	)
	called := make(chan struct{}, 10)
	w := &watcher{debounce: 50 * time.Millisecond}

	done := make(chan error, 1)
	go func() {
		done <- w.watch(ctx, []string{target}, func(ctx context.Context, name string) {
			mu.Lock()
			changes = append(changes, name)
			mu.Unlock()
			called <- struct{}{}
		})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte(`[1]`), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte(`[{}]`), 0644))
	}

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	// the burst collapses into one callback
	time.Sleep(200 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, changes, 1)
	assert.Equal(t, target, changes[0])
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[]`)
	writeFile(t, dir, "b.yaml", `[]`)
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, ".hitcheck.yaml", "output: json\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	writeFile(t, filepath.Join(dir, "nested"), "c.yml", `[]`)

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yml"),
	}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, ExitLoadError, exit.code)
}

func TestValidateAssertionFile(t *testing.T) {
	dir := t.TempDir()

	valid := writeFile(t, dir, "valid.yaml", exampleAssertions)
	assert.NoError(t, validateAssertionFile(valid))

	schemaInvalid := writeFile(t, dir, "schema.json", `[{"type": "STATUS"}]`)
	assert.Error(t, validateAssertionFile(schemaInvalid))

	semanticInvalid := writeFile(t, dir, "semantic.json", `[{"type": "BODY", "assertionCondition": "REG_MATCH"}]`)
	err := validateAssertionFile(semanticInvalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expression")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("HITCHECK_TEST_STRING", "junit")
	t.Setenv("HITCHECK_TEST_BOOL", "yes")
	t.Setenv("HITCHECK_TEST_INT", "250")
	t.Setenv("HITCHECK_TEST_BAD_INT", "soon")

	assert.Equal(t, "junit", getEnvString("HITCHECK_TEST_STRING", "console"))
	assert.Equal(t, "console", getEnvString("HITCHECK_TEST_UNSET", "console"))
	assert.True(t, getEnvBool("HITCHECK_TEST_BOOL", false))
	assert.Equal(t, 250, getEnvInt("HITCHECK_TEST_INT", 1000))
	assert.Equal(t, 1000, getEnvInt("HITCHECK_TEST_BAD_INT", 1000))
}

func TestExitError(t *testing.T) {
	err := exitWith(ExitStoreError, errors.New("locked"))
	assert.Equal(t, "locked", err.Error())

	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, ExitStoreError, exit.code)

	assert.Equal(t, "exit status 1", exitWith(ExitAssertionFailure, nil).Error())
}

func TestWriteVersion(t *testing.T) {
	info := versionInfo{Version: "1.4.0", Built: "2026-10-01", Go: "go1.22.3", Platform: "linux/amd64"}

	tests := []struct {
		name  string
		short bool
		json  bool
		want  string
	}{
		{name: "default", want: "hitcheck 1.4.0 (built 2026-10-01, go1.22.3 linux/amd64)\n"},
		{name: "short", short: true, want: "1.4.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeVersion(&buf, info, tt.short, tt.json))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	var buf bytes.Buffer
	require.NoError(t, writeVersion(&buf, info, false, true))
	var decoded versionInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, info, decoded)
}

func TestCurrentVersion(t *testing.T) {
	info := currentVersion()
	assert.Equal(t, version, info.Version)
	assert.Equal(t, runtime.Version(), info.Go)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestWriteCompletion(t *testing.T) {
	assert.Equal(t, []string{"bash", "fish", "powershell", "zsh"}, completionShells())

	for _, shell := range completionShells() {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCompletion(rootCmd, shell, &buf, true))
			assert.Contains(t, buf.String(), "hitcheck")

			buf.Reset()
			require.NoError(t, writeCompletion(rootCmd, shell, &buf, false))
			assert.NotEmpty(t, buf.String())
		})
	}

	err := writeCompletion(rootCmd, "tcsh", &bytes.Buffer{}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell")
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["completion"])
	assert.True(t, names["version"])
}
