package api

import (
	"context"
	"fmt"
	"net/url"

	"crm-console/internal/domain"
)

// ListTasks fetches the task list; filters (status, priority, assigned_to,
// search) are passed straight through as query params, empty values
// skipped.
func (c *Client) ListTasks(ctx context.Context, filters map[string]string) ([]domain.Task, error) {
	params := url.Values{}
	for k, v := range filters {
		if v != "" {
			params.Set(k, v)
		}
	}
	endpoint := "/tasks"
	if q := params.Encode(); q != "" {
		endpoint += "?" + q
	}

	var tasks []domain.Task
	if err := c.get(ctx, endpoint, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	var task domain.Task
	if err := c.get(ctx, fmt.Sprintf("/tasks/%d", id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, task *domain.Task) error {
	return c.post(ctx, "/tasks", task, nil)
}

func (c *Client) UpdateTask(ctx context.Context, id domain.TaskID, task *domain.Task) error {
	return c.put(ctx, fmt.Sprintf("/tasks/%d", id), task, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id domain.TaskID) error {
	return c.delete(ctx, fmt.Sprintf("/tasks/%d", id))
}
