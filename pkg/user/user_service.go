package user

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

type Service interface {
	GetUserByUid(ctx context.Context, uid string) (User, error)
	GetDefaultUser(ctx context.Context) (User, error)
	GetCurrentUser(ctx context.Context) (User, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return s.repo.FindByUid(ctx, uid)
}

func (s *ServiceImpl) GetDefaultUser(ctx context.Context) (User, error) {
	return s.repo.FindByUid(ctx, DefaultUid)
}

func (s *ServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	return CurrentUser(ctx)
}
