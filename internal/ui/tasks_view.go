package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"crm-console/internal/domain"
	"crm-console/internal/render"
)

var (
	taskStatuses   = []domain.TaskStatus{domain.TaskPending, domain.TaskInProgress, domain.TaskCompleted}
	taskPriorities = []domain.TaskPriority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh}
)

type tasksView struct {
	app *App

	root     *tview.Flex
	status   *tview.DropDown
	priority *tview.DropDown
	table    *tview.Table

	items     []domain.Task
	employees []domain.Employee
}

func newTasksView(a *App) *tasksView {
	v := &tasksView{app: a}

	v.status = dropDownWithAll("status: ", statusOptions(), func(text string) {
		v.filter("status", text)
	})
	v.priority = dropDownWithAll("priority: ", priorityOptions(), func(text string) {
		v.filter("priority", text)
	})

	v.table = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	v.table.SetBorder(true)
	v.table.SetTitle(" tasks [n new, e edit, x delete, c complete, r reset filters] ")

	filters := tview.NewFlex().
		AddItem(v.status, 0, 1, false).
		AddItem(v.priority, 0, 1, false)

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(filters, 1, 0, false).
		AddItem(v.table, 0, 1, true)

	v.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'n':
			v.openForm(nil)
			return nil
		case 'e':
			if t := v.selected(); t != nil {
				v.openForm(t)
			}
			return nil
		case 'x':
			if t := v.selected(); t != nil {
				v.app.confirm(fmt.Sprintf("Delete task %q?", t.Title), func() {
					v.doDelete(t.ID)
				})
			}
			return nil
		case 'c':
			if t := v.selected(); t != nil {
				v.complete(t)
			}
			return nil
		case 'r':
			v.resetFilters()
			return nil
		case 'f':
			v.app.app.SetFocus(v.status)
			return nil
		}
		return event
	})
	return v
}

func statusOptions() []string {
	out := make([]string, len(taskStatuses))
	for i, s := range taskStatuses {
		out[i] = string(s)
	}
	return out
}

func priorityOptions() []string {
	out := make([]string, len(taskPriorities))
	for i, p := range taskPriorities {
		out[i] = string(p)
	}
	return out
}

// dropDownWithAll prepends an "all" option that maps to the empty filter
// value.
func dropDownWithAll(label string, options []string, onPick func(string)) *tview.DropDown {
	return tview.NewDropDown().SetLabel(label).
		SetOptions(append([]string{"all"}, options...), func(text string, _ int) {
			if text == "all" {
				text = ""
			}
			onPick(text)
		})
}

func (v *tasksView) load() {
	v.app.async(func(ctx context.Context) (func(), error) {
		tasks, err := v.app.svc.Tasks.Load(ctx)
		if err != nil {
			return nil, err
		}
		employees, err := v.app.svc.Users.Employees(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			v.employees = employees
			v.render(tasks)
		}, nil
	})
}

func (v *tasksView) filter(key, value string) {
	v.app.async(func(ctx context.Context) (func(), error) {
		tasks, err := v.app.svc.Tasks.Filter(ctx, key, value)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(tasks)
			v.app.app.SetFocus(v.table)
		}, nil
	})
}

func (v *tasksView) resetFilters() {
	v.app.async(func(ctx context.Context) (func(), error) {
		tasks, err := v.app.svc.Tasks.ResetFilters(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			v.status.SetCurrentOption(0)
			v.priority.SetCurrentOption(0)
			v.render(tasks)
		}, nil
	})
}

func (v *tasksView) doDelete(id domain.TaskID) {
	v.app.async(func(ctx context.Context) (func(), error) {
		tasks, err := v.app.svc.Tasks.Delete(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(tasks)
			v.app.toast("task deleted")
		}, nil
	})
}

func (v *tasksView) complete(task *domain.Task) {
	updated := *task
	updated.Status = domain.TaskCompleted
	v.app.async(func(ctx context.Context) (func(), error) {
		tasks, err := v.app.svc.Tasks.Save(ctx, &updated)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(tasks)
			v.app.toast("task completed")
		}, nil
	})
}

func (v *tasksView) selected() *domain.Task {
	row, _ := v.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(v.items) {
		return nil
	}
	t := v.items[idx]
	return &t
}

func (v *tasksView) render(tasks []domain.Task) {
	v.items = tasks
	v.table.Clear()

	headers := []string{"title", "status", "priority", "assignee", "due"}
	for col, h := range headers {
		v.table.SetCell(0, col, tview.NewTableCell("[::b]"+h).SetSelectable(false))
	}
	for i, t := range tasks {
		row := i + 1
		v.table.SetCell(row, 0, tview.NewTableCell(t.Title))
		v.table.SetCell(row, 1, tview.NewTableCell(
			fmt.Sprintf("[%s]%s[-]", render.StatusColor(t.Status), t.Status)))
		v.table.SetCell(row, 2, tview.NewTableCell(
			fmt.Sprintf("[%s]%s[-]", render.PriorityColor(t.Priority), t.Priority)))
		v.table.SetCell(row, 3, tview.NewTableCell(t.AssigneeName))
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
			if t.Status != domain.TaskCompleted && t.DueDate.Before(time.Now()) {
				due = "[red]" + due + "[-]"
			}
		}
		v.table.SetCell(row, 4, tview.NewTableCell(due))
	}
	if len(tasks) > 0 {
		v.table.Select(1, 0)
	}
}

func (v *tasksView) openForm(existing *domain.Task) {
	const name = "task-form"
	task := domain.Task{Status: domain.TaskPending, Priority: domain.PriorityMedium}
	title := " New task "
	if existing != nil {
		task = *existing
		title = " Edit task "
	}

	assignees := []string{"unassigned"}
	assigneeIdx := 0
	for i, e := range v.employees {
		assignees = append(assignees, e.FullName)
		if e.ID == task.AssignedTo {
			assigneeIdx = i + 1
		}
	}
	due := ""
	if task.DueDate != nil {
		due = task.DueDate.Format("2006-01-02")
	}

	form := tview.NewForm().
		AddInputField("Title", task.Title, 30, nil, func(s string) { task.Title = s }).
		AddInputField("Description", task.Description, 30, nil, func(s string) { task.Description = s }).
		AddDropDown("Status", statusOptions(), indexOf(statusOptions(), string(task.Status)), func(text string, _ int) {
			task.Status = domain.TaskStatus(text)
		}).
		AddDropDown("Priority", priorityOptions(), indexOf(priorityOptions(), string(task.Priority)), func(text string, _ int) {
			task.Priority = domain.TaskPriority(text)
		}).
		AddDropDown("Assignee", assignees, assigneeIdx, func(_ string, index int) {
			if index <= 0 {
				task.AssignedTo = 0
			} else {
				task.AssignedTo = v.employees[index-1].ID
			}
		}).
		AddInputField("Due (YYYY-MM-DD)", due, 12, nil, func(s string) { due = s })
	form.AddButton("Save", func() {
		task.DueDate = nil
		if due != "" {
			t, err := time.Parse("2006-01-02", due)
			if err != nil {
				v.app.toast("due date must be YYYY-MM-DD")
				return
			}
			task.DueDate = &t
		}
		v.app.async(func(ctx context.Context) (func(), error) {
			tasks, err := v.app.svc.Tasks.Save(ctx, &task)
			if err != nil {
				return nil, err
			}
			return func() {
				v.app.pages.RemovePage(name)
				v.render(tasks)
				v.app.toast("task saved")
			}, nil
		})
	})
	form.AddButton("Cancel", func() { v.app.pages.RemovePage(name) })
	form.SetBorder(true)
	form.SetTitle(title)

	v.app.pages.AddPage(name, center(form, 52, 17), true, true)
}

func indexOf(options []string, value string) int {
	for i, o := range options {
		if o == value {
			return i
		}
	}
	return 0
}
