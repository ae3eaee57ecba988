package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crm-console/internal/domain"
	"crm-console/internal/state"
)

func TestSessionLifecycle(t *testing.T) {
	s := state.NewStore()
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())

	s.SetSession(&domain.User{ID: 4, Role: domain.RoleManager})
	assert.True(t, s.Authenticated())
	assert.True(t, s.IsAdmin(), "managers see the users page too")

	s.SelectChat(domain.ChatSelection{ID: 9, Kind: domain.ChatGroup})
	s.SetFilter("customers", "search", "acme")

	s.ClearSession()
	assert.False(t, s.Authenticated())
	assert.True(t, s.ActiveChat().IsZero(), "chat selection dies with the session")
	assert.Empty(t, s.Filters("customers"))
}

func TestUserReturnsCopy(t *testing.T) {
	s := state.NewStore()
	s.SetSession(&domain.User{ID: 1, FullName: "A"})

	u := s.User()
	u.FullName = "mutated"
	assert.Equal(t, "A", s.User().FullName)
}

func TestFilterChangeResetsPage(t *testing.T) {
	s := state.NewStore()
	s.SetPage("orders", 4)
	assert.Equal(t, 4, s.Page("orders"))

	s.SetFilter("orders", "status", "pending")
	assert.Equal(t, 1, s.Page("orders"))
	assert.Equal(t, map[string]string{"status": "pending"}, s.Filters("orders"))

	// An empty value clears the key.
	s.SetFilter("orders", "status", "")
	assert.Empty(t, s.Filters("orders"))

	// Listings are independent of each other.
	s.SetPage("orders", 2)
	assert.Equal(t, 1, s.Page("customers"))
}

func TestResetFilters(t *testing.T) {
	s := state.NewStore()
	s.SetFilter("tasks", "status", "pending")
	s.SetFilter("tasks", "priority", "high")
	s.SetPage("tasks", 3)

	s.ResetFilters("tasks")
	assert.Empty(t, s.Filters("tasks"))
	assert.Equal(t, 1, s.Page("tasks"))
}

func TestPageFloorsAtOne(t *testing.T) {
	s := state.NewStore()
	s.SetPage("products", 0)
	assert.Equal(t, 1, s.Page("products"))
	s.SetPage("products", -3)
	assert.Equal(t, 1, s.Page("products"))
}
