package records_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/adapters/api"
	"crm-console/internal/adapters/storage/memory"
	"crm-console/internal/app/records"
	"crm-console/internal/domain"
	"crm-console/internal/state"
)

// taskServer filters the seeded tasks by the status and priority query
// params, the way the real listing endpoint does.
func taskServer(t *testing.T, seed []domain.Task) (*httptest.Server, *[]string) {
	t.Helper()
	var requests []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path+"?"+r.URL.RawQuery)

		status := r.URL.Query().Get("status")
		priority := r.URL.Query().Get("priority")
		out := []domain.Task{}
		for _, task := range seed {
			if status != "" && string(task.Status) != status {
				continue
			}
			if priority != "" && string(task.Priority) != priority {
				continue
			}
			out = append(out, task)
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	return ts, &requests
}

func newTasks(t *testing.T, ts *httptest.Server) *records.Tasks {
	t.Helper()
	client := api.NewClient(ts.URL, memory.NewTokenStore("token"))
	return records.NewTasks(client, state.NewStore())
}

func TestTasksFilterNarrowsAndResets(t *testing.T) {
	seed := []domain.Task{
		{ID: 1, Title: "a", Status: domain.TaskPending, Priority: domain.PriorityHigh},
		{ID: 2, Title: "b", Status: domain.TaskCompleted, Priority: domain.PriorityHigh},
		{ID: 3, Title: "c", Status: domain.TaskPending, Priority: domain.PriorityLow},
	}
	ts, _ := taskServer(t, seed)
	defer ts.Close()
	svc := newTasks(t, ts)
	ctx := context.Background()

	tasks, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)

	tasks, err = svc.Filter(ctx, "status", "pending")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	// Filters combine until reset.
	tasks, err = svc.Filter(ctx, "priority", "high")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.TaskID(1), tasks[0].ID)

	tasks, err = svc.ResetFilters(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestTasksClearingOneFilterKeepsOthers(t *testing.T) {
	seed := []domain.Task{
		{ID: 1, Status: domain.TaskPending, Priority: domain.PriorityHigh},
		{ID: 2, Status: domain.TaskCompleted, Priority: domain.PriorityHigh},
	}
	ts, requests := taskServer(t, seed)
	defer ts.Close()
	svc := newTasks(t, ts)
	ctx := context.Background()

	_, err := svc.Filter(ctx, "status", "pending")
	require.NoError(t, err)
	_, err = svc.Filter(ctx, "priority", "high")
	require.NoError(t, err)

	// Empty value drops the key; the other filter stays applied.
	tasks, err := svc.Filter(ctx, "status", "")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "/tasks?priority=high", (*requests)[len(*requests)-1])
}

func TestTaskSaveRequiresTitle(t *testing.T) {
	ts, requests := taskServer(t, nil)
	defer ts.Close()
	svc := newTasks(t, ts)

	_, err := svc.Save(context.Background(), &domain.Task{Title: "   "})
	require.ErrorIs(t, err, records.ErrValidation)
	assert.Empty(t, *requests)
}
