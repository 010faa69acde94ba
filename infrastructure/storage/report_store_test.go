package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fundix_e2e/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *entities.RunReport {
	started := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	report := &entities.RunReport{
		BaseURL:  "https://fundix.pro/",
		Engine:   "static",
		Started:  started,
		Finished: started.Add(3 * time.Second),
	}
	report.Add(entities.ScenarioResult{Suite: "navigation", Name: "header logo", Outcome: entities.OutcomePassed, Attempts: 1, Duration: 120 * time.Millisecond})
	report.Add(entities.ScenarioResult{Suite: "links", Name: "status codes", Outcome: entities.OutcomeSoftFailed, Attempts: 3, Error: "assertion failed", Tags: []string{"network"}})
	return report
}

func TestReportStore_SaveWritesBothFormats(t *testing.T) {
	dir := t.TempDir()
	store := NewReportStore(dir)

	paths, err := store.Save(sampleReport())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "report-20250314-093000.yaml"), paths[0])
	assert.Equal(t, filepath.Join(dir, "report-20250314-093000.json"), paths[1])

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestReportStore_LoadReadsEitherFormat(t *testing.T) {
	store := NewReportStore(t.TempDir())
	want := sampleReport()

	paths, err := store.Save(want)
	require.NoError(t, err)

	for _, p := range paths {
		t.Run(filepath.Ext(p), func(t *testing.T) {
			got, err := store.Load(p)
			require.NoError(t, err)
			assert.Equal(t, want.BaseURL, got.BaseURL)
			assert.True(t, want.Started.Equal(got.Started))
			require.Len(t, got.Results, 2)
			assert.Equal(t, want.Results[0].Duration, got.Results[0].Duration)
			assert.Equal(t, entities.OutcomeSoftFailed, got.Results[1].Outcome)
			assert.Equal(t, []string{"network"}, got.Results[1].Tags)
			assert.False(t, got.Failed())
		})
	}
}

func TestReportStore_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	_, err := NewReportStore(dir).Save(sampleReport())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReportStore_Errors(t *testing.T) {
	dir := t.TempDir()
	store := NewReportStore(dir)

	_, err := store.Save(nil)
	assert.Error(t, err)

	_, err = store.Load(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))

	txt := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	_, err = store.Load(txt)
	assert.Error(t, err)
}
