package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityContext_AuthenticateOnce(t *testing.T) {
	sc := NewSecurityContext()
	assert.False(t, sc.IsAuthenticated())
	assert.Nil(t, sc.Principal())

	require.NoError(t, sc.Authenticate(&User{ID: 7}))
	assert.True(t, sc.IsAuthenticated())
	assert.Equal(t, int64(7), sc.Principal().ID)

	err := sc.Authenticate(&User{ID: 8})
	assert.ErrorIs(t, err, ErrAlreadyAuthenticated)
	assert.Equal(t, int64(7), sc.Principal().ID)
}

func TestUserFromContext(t *testing.T) {
	assert.Nil(t, UserFromContext(context.Background()))

	sc := NewSecurityContext()
	ctx := WithSecurityContext(context.Background(), sc)
	assert.Nil(t, UserFromContext(ctx))

	require.NoError(t, sc.Authenticate(&User{ID: 3, Name: "ana"}))
	assert.Equal(t, "ana", UserFromContext(ctx).Name)
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 0, 2, 5)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 5, p.TotalElements)

	empty := NewPage[int](nil, 0, 10, 0)
	assert.NotNil(t, empty.Content)
	assert.Zero(t, empty.TotalPages)
}
