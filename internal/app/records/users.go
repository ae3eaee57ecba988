package records

import (
	"context"
	"strings"

	"crm-console/internal/adapters/api"
	"crm-console/internal/domain"
)

type Users struct {
	api *api.Client
}

func NewUsers(client *api.Client) *Users {
	return &Users{api: client}
}

func (u *Users) Load(ctx context.Context) ([]domain.User, error) {
	return u.api.ListUsers(ctx)
}

func (u *Users) Employees(ctx context.Context) ([]domain.Employee, error) {
	return u.api.ListEmployees(ctx)
}

// Save validates the form, creating when id is zero. A password is only
// required for new accounts.
func (u *Users) Save(ctx context.Context, id domain.UserID, in *api.UserInput) ([]domain.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, required("username")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, required("full name")
	}
	if in.Role == "" {
		return nil, required("role")
	}
	if id == 0 && in.Password == "" {
		return nil, required("password")
	}

	var err error
	if id == 0 {
		err = u.api.CreateUser(ctx, in)
	} else {
		err = u.api.UpdateUser(ctx, id, in)
	}
	if err != nil {
		return nil, err
	}
	return u.Load(ctx)
}

func (u *Users) Delete(ctx context.Context, id domain.UserID) ([]domain.User, error) {
	if err := u.api.DeleteUser(ctx, id); err != nil {
		return nil, err
	}
	return u.Load(ctx)
}
