package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/compare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite://" + filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func str(s string) *string { return &s }

func sampleRun(id string, started time.Time) *Run {
	results := []assertions.Result{
		{
			Name:               "status ok",
			Type:               assertions.TypeStatus,
			AssertionCondition: compare.Equal,
			Result:             assertions.Outcome{ExpectedData: str("200"), RealValueData: str("200")},
		},
		{
			Type:               assertions.TypeHeader,
			ParameterName:      "Content-Type",
			AssertionCondition: compare.Contain,
			Result: assertions.Outcome{
				ExpectedData:  str("json"),
				RealValueData: str("text/html"),
				Failure:       true,
				Message:       `expected "text/html" to contain "json"`,
			},
		},
		{
			Type:               assertions.TypeBody,
			AssertionCondition: compare.NotEmpty,
			Condition:          "${status} == 500",
			ConditionResult:    assertions.ConditionResult{Failure: true, Ignored: true, Value: str("200")},
		},
	}
	return &Run{
		ID:             id,
		StartedAt:      started,
		Duration:       1500 * time.Microsecond,
		SnapshotFile:   "snapshot.json",
		AssertionsFile: "assertions.yaml",
		Summary:        assertions.Summarize(results),
		Results:        results,
	}
}

func TestOpen_ConnectionForms(t *testing.T) {
	dir := t.TempDir()

	for _, conn := range []string{
		"sqlite://" + filepath.Join(dir, "a.db"),
		"sqlite:" + filepath.Join(dir, "b.db"),
		filepath.Join(dir, "nested", "c.db"),
	} {
		s, err := Open(conn)
		require.NoError(t, err, conn)
		require.NoError(t, s.Close())
	}
}

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"sqlite:///tmp/h.db", "/tmp/h.db", false},
		{"sqlite:h.db", "h.db", false},
		{"  ./h.db ", "./h.db", false},
		{"postgres://localhost/db", "", true},
		{"sqlite://", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseConnectionString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	run := sampleRun("6f1c2a9e-0000-4000-8000-000000000001", started)
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, run.Duration, got.Duration)
	assert.Equal(t, "snapshot.json", got.SnapshotFile)
	assert.Equal(t, "assertions.yaml", got.AssertionsFile)
	assert.Equal(t, assertions.Summary{Total: 3, Passed: 1, Failed: 1, Ignored: 1}, got.Summary)
	assert.Equal(t, run.Results, got.Results)
}

func TestGetRun_Prefix(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.SaveRun(ctx, sampleRun("abc-1", now)))
	require.NoError(t, s.SaveRun(ctx, sampleRun("abd-2", now.Add(time.Second))))

	got, err := s.GetRun(ctx, "abd")
	require.NoError(t, err)
	assert.Equal(t, "abd-2", got.ID)

	_, err = s.GetRun(ctx, "ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = s.GetRun(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	// LIKE wildcards in the id are literal
	_, err = s.GetRun(ctx, "a_c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRun_DuplicateID(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, sampleRun("dup", time.Now())))
	err := s.SaveRun(ctx, sampleRun("dup", time.Now()))
	require.Error(t, err)

	// the failed transaction left the first run intact
	got, err := s.GetRun(ctx, "dup")
	require.NoError(t, err)
	assert.Len(t, got.Results, 3)
}

func TestListRuns(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveRun(ctx, sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := s.ListRuns(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].ID)
	assert.Equal(t, "run-3", runs[1].ID)
	assert.Equal(t, "run-2", runs[2].ID)
	assert.Nil(t, runs[0].Results)
	assert.Equal(t, 3, runs[0].Summary.Total)

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestListRuns_Empty(t *testing.T) {
	s := openTemp(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NotNil(t, runs)
}

func TestPrune(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.SaveRun(ctx, sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))))
	}

	removed, err := s.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-3", runs[0].ID)

	_, err = s.GetRun(ctx, "run-0")
	assert.ErrorIs(t, err, ErrNotFound)

	var orphaned int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM results WHERE run_id = 'run-0'`).Scan(&orphaned))
	assert.Zero(t, orphaned)
}
