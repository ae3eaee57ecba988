package reports_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/adapters/api"
	"crm-console/internal/adapters/clock"
	"crm-console/internal/adapters/storage/memory"
	"crm-console/internal/app/reports"
)

func TestExportCSVWritesDatedFile(t *testing.T) {
	const csv = "status,count\npending,3\ncompleted,5\n"
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reports/tasks-summary/csv", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	}))
	defer ts.Close()

	client := api.NewClient(ts.URL, memory.NewTokenStore("token"))
	clk := clock.NewFake(time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))
	dir := t.TempDir()
	svc := reports.NewService(client, clk, dir)

	path, err := svc.ExportCSV(context.Background(), "2024-03-01", "2024-03-15")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tasks_summary_2024-03-15.csv"), path)
	assert.Equal(t, "end_date=2024-03-15&start_date=2024-03-01", gotQuery)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, csv, string(data))
}

func TestExportCSVCreatesDownloadDir(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("a,b\n"))
	}))
	defer ts.Close()

	client := api.NewClient(ts.URL, memory.NewTokenStore("token"))
	clk := clock.NewFake(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	svc := reports.NewService(client, clk, dir)

	path, err := svc.ExportCSV(context.Background(), "", "")
	require.NoError(t, err)
	assert.FileExists(t, path)
}
