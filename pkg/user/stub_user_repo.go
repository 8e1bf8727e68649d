package user

import (
	"context"
)

type StubRepo struct {
	nextId int
	data   map[string]User
}

func NewStubRepo() *StubRepo {
	return &StubRepo{nextId: 0, data: map[string]User{}}
}

func (s *StubRepo) FindByUid(ctx context.Context, uid string) (User, error) {
	u, ok := s.data[uid]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubRepo) Store(ctx context.Context, user User) (int, error) {
	s.nextId++
	user.Id = s.nextId
	s.data[user.Uid] = user
	return user.Id, nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[string]User{}
	s.nextId = 0
}
