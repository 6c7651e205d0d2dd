package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusInProgress(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "in progress", want: true},
		{name: "In Progress", want: true},
		{name: "IN PROGRESS", want: true},
		{name: "in-progress", want: false},
		{name: "doing", want: false},
		{name: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status{Name: tt.name}.InProgress())
		})
	}
}

func TestStatusCompleted(t *testing.T) {
	for _, name := range []string{"completed", "Completed", "approved", "Done", "DONE"} {
		assert.True(t, Status{Name: name}.Completed(), name)
	}
	for _, name := range []string{"finish", "closed", "in progress", ""} {
		assert.False(t, Status{Name: name}.Completed(), name)
	}
}

func TestRegistry(t *testing.T) {
	statuses := []Status{
		{ID: "s-todo", Name: "To Do", Order: 0},
		{ID: "s-wip", Name: "In Progress", Order: 1},
		{ID: "s-done", Name: "Done", Order: 2},
	}
	reg := NewRegistry(statuses)

	t.Run("lookups", func(t *testing.T) {
		assert.Equal(t, 3, reg.Len())
		assert.True(t, reg.IsValid("s-wip"))
		assert.False(t, reg.IsValid("s-deleted"))

		got, ok := reg.Get("s-done")
		require.True(t, ok)
		assert.Equal(t, "Done", got.Name)
	})

	t.Run("all preserves order and is a copy", func(t *testing.T) {
		all := reg.All()
		require.Len(t, all, 3)
		assert.Equal(t, "s-todo", all[0].ID)

		all[0].ID = "mutated"
		assert.True(t, reg.IsValid("s-todo"), "mutating the copy must not affect the registry")
	})

	t.Run("in progress id", func(t *testing.T) {
		assert.Equal(t, "s-wip", reg.InProgressID())

		none := NewRegistry([]Status{{ID: "s-a", Name: "Backlog"}})
		assert.Empty(t, none.InProgressID(), "no tracking stage means tracking disabled")
	})

	t.Run("completed set", func(t *testing.T) {
		ids := reg.CompletedIDs()
		assert.Len(t, ids, 1)
		assert.Contains(t, ids, "s-done")

		assert.True(t, reg.IsCompleted("s-done"))
		assert.False(t, reg.IsCompleted("s-todo"))
		assert.False(t, reg.IsCompleted("missing"))
	})

	t.Run("empty registry", func(t *testing.T) {
		empty := NewRegistry(nil)
		assert.Zero(t, empty.Len())
		assert.Empty(t, empty.All())
		assert.False(t, empty.IsValid("anything"))
	})
}
