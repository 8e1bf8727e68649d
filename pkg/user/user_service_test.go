package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceImpl_GetUserByUid(t *testing.T) {
	// given
	repo := NewStubRepo()
	_, err := repo.Store(context.Background(), User{Uid: "7d7bb4b8-53f1-4c9d-8f2b-1e1a35b2f001", DisplayName: "Asha"})
	assert.NoError(t, err)
	service := NewService(repo)

	// when
	found, err := service.GetUserByUid(context.Background(), "7d7bb4b8-53f1-4c9d-8f2b-1e1a35b2f001")

	// then
	assert.NoError(t, err)
	assert.Equal(t, "Asha", found.DisplayName)
}

func TestServiceImpl_GetUserByUid_Unknown(t *testing.T) {
	service := NewService(NewStubRepo())

	_, err := service.GetUserByUid(context.Background(), "11111111-2222-3333-4444-555555555555")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestServiceImpl_GetDefaultUser(t *testing.T) {
	// given
	repo := NewStubRepo()
	_, err := repo.Store(context.Background(), User{Uid: DefaultUid, DisplayName: "Default User"})
	assert.NoError(t, err)
	service := NewService(repo)

	// when
	found, err := service.GetDefaultUser(context.Background())

	// then
	assert.NoError(t, err)
	assert.Equal(t, DefaultUid, found.Uid)
}

func TestServiceImpl_GetCurrentUser(t *testing.T) {
	// given
	service := NewService(NewStubRepo())
	ctx := WithUser(context.Background(), User{Id: 7, DisplayName: "Asha"})

	// when
	current, err := service.GetCurrentUser(ctx)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 7, current.Id)
}

func TestServiceImpl_GetCurrentUser_MissingFromContext(t *testing.T) {
	service := NewService(NewStubRepo())

	_, err := service.GetCurrentUser(context.Background())

	assert.ErrorIs(t, err, ErrNoUser)
}
