package records_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/adapters/api"
	"crm-console/internal/adapters/storage/memory"
	"crm-console/internal/apitest"
	"crm-console/internal/app/records"
	"crm-console/internal/domain"
	"crm-console/internal/state"
)

func newCustomers(t *testing.T, seed int) (*records.Customers, *apitest.Server, func()) {
	t.Helper()
	backend, ts := apitest.NewServer()
	for i := 1; i <= seed; i++ {
		name := fmt.Sprintf("Customer %02d", i)
		if i%5 == 0 {
			name = fmt.Sprintf("ACME %02d", i)
		}
		backend.Customers = append(backend.Customers, domain.Customer{ID: int64(i), Name: name})
	}

	client := api.NewClient(ts.URL, memory.NewTokenStore(apitest.ValidToken))
	store := state.NewStore()
	return records.NewCustomers(client, store, 10), backend, ts.Close
}

func TestLoadPagesAtTen(t *testing.T) {
	svc, _, done := newCustomers(t, 23)
	defer done()
	ctx := context.Background()

	view, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Items, 10)
	assert.Equal(t, 1, view.Page.Current)
	assert.Equal(t, 3, view.Page.Total)

	view, err = svc.GoToPage(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, view.Items, 3)
	assert.Equal(t, 3, view.Page.Current)
}

func TestSearchResetsToFirstPageAndFilters(t *testing.T) {
	svc, backend, done := newCustomers(t, 23)
	defer done()
	ctx := context.Background()

	_, err := svc.GoToPage(ctx, 3)
	require.NoError(t, err)

	view, err := svc.Search(ctx, "ACME")
	require.NoError(t, err)
	// 23 seeded, every fifth is ACME: 4 matches, back on page 1.
	assert.Len(t, view.Items, 4)
	assert.Equal(t, 1, view.Page.Current)

	last := backend.Requests[len(backend.Requests)-1]
	assert.Equal(t, "GET /customers?page=1&per_page=10&search=ACME", last)
}

func TestSaveValidatesThenReloads(t *testing.T) {
	svc, backend, done := newCustomers(t, 2)
	defer done()
	ctx := context.Background()

	_, err := svc.Save(ctx, &domain.Customer{Name: "   "})
	require.ErrorIs(t, err, records.ErrValidation)
	assert.Empty(t, backend.Requests, "rejected form must not reach the backend")

	view, err := svc.Save(ctx, &domain.Customer{Name: "New Co"})
	require.NoError(t, err)
	assert.Len(t, view.Items, 3)
}

func TestDeleteReloadsCurrentPage(t *testing.T) {
	svc, _, done := newCustomers(t, 11)
	defer done()
	ctx := context.Background()

	view, err := svc.Delete(ctx, 11)
	require.NoError(t, err)
	assert.Len(t, view.Items, 10)
	assert.Equal(t, 1, view.Page.Total)
}
