package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musfit/sentinel"
	"musfit/services/user"
	"musfit/store"
)

func TestUpdateUserFieldTypeChecked(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.CreateUser(ctx, &user.User{ID: "Oma4Zei4", Email: "omar@example.com"}))

	// A wrong-typed value must fail with InvalidInput, not panic, and must
	// leave the stored document untouched.
	err := mem.UpdateUserField(ctx, "Oma4Zei4", "email", 42)
	require.ErrorIs(t, err, sentinel.ErrInvalidInput)

	got, err := mem.GetUser(ctx, "Oma4Zei4")
	require.NoError(t, err)
	assert.Equal(t, "omar@example.com", got.Email)

	err = mem.UpdateUserField(ctx, "Oma4Zei4", "first_name", "Someone")
	require.ErrorIs(t, err, sentinel.ErrFieldNotEditable)

	require.NoError(t, mem.UpdateUserField(ctx, "Oma4Zei4", "email", "new@example.com"))
	got, err = mem.GetUser(ctx, "Oma4Zei4")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
}
