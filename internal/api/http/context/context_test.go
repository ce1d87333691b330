package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axionhelmets/storefront-server/internal/model"
)

func TestManager_SetAndGetUser(t *testing.T) {
	m := NewManager()
	user := model.User{ID: "u-1", Email: "a@x.com", Role: model.RoleAdmin}

	ctx := m.SetUserToContext(context.Background(), user)

	got, ok := m.GetUserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestManager_GetUser_Missing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "empty context", ctx: context.Background()},
		{name: "foreign value", ctx: context.WithValue(context.Background(), struct{}{}, "u-1")},
		{name: "zero user", ctx: NewManager().SetUserToContext(context.Background(), model.User{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, ok := NewManager().GetUserFromContext(tt.ctx)
			assert.False(t, ok)
		})
	}
}
