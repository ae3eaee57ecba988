// Package records implements the uniform listing workflow behind the
// customers, products, orders, tasks and users pages: load a filtered page,
// submit create/update forms, delete with reload. Required-field presence
// is the only client-side validation; everything else is the backend's
// call, surfaced through the api error convention.
package records

import (
	"errors"
	"fmt"

	"crm-console/internal/domain"
)

// ErrValidation wraps every client-side form rejection so the UI can show
// it as a plain message rather than a transport failure.
var ErrValidation = errors.New("validation")

func required(field string) error {
	return fmt.Errorf("%w: %s is required", ErrValidation, field)
}

// View is a rendered page of a listing plus its pagination descriptor.
type View[T any] struct {
	Items []T
	Page  domain.Page
}
