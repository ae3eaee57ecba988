package records

import (
	"context"
	"strings"

	"crm-console/internal/adapters/api"
	"crm-console/internal/domain"
	"crm-console/internal/state"
)

const tasksListing = "tasks"

// Tasks is the one listing without server-side pagination: the backend
// returns the filtered set in full.
type Tasks struct {
	api   *api.Client
	store *state.Store
}

func NewTasks(client *api.Client, store *state.Store) *Tasks {
	return &Tasks{api: client, store: store}
}

func (t *Tasks) Load(ctx context.Context) ([]domain.Task, error) {
	return t.api.ListTasks(ctx, t.store.Filters(tasksListing))
}

// Filter sets one filter key (status, priority, assigned_to, search) and
// reloads; an empty value clears the key.
func (t *Tasks) Filter(ctx context.Context, key, value string) ([]domain.Task, error) {
	t.store.SetFilter(tasksListing, key, value)
	return t.Load(ctx)
}

func (t *Tasks) ResetFilters(ctx context.Context) ([]domain.Task, error) {
	t.store.ResetFilters(tasksListing)
	return t.Load(ctx)
}

func (t *Tasks) Get(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	return t.api.GetTask(ctx, id)
}

func (t *Tasks) Save(ctx context.Context, task *domain.Task) ([]domain.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return nil, required("title")
	}
	var err error
	if task.ID == 0 {
		err = t.api.CreateTask(ctx, task)
	} else {
		err = t.api.UpdateTask(ctx, task.ID, task)
	}
	if err != nil {
		return nil, err
	}
	return t.Load(ctx)
}

func (t *Tasks) Delete(ctx context.Context, id domain.TaskID) ([]domain.Task, error) {
	if err := t.api.DeleteTask(ctx, id); err != nil {
		return nil, err
	}
	return t.Load(ctx)
}
