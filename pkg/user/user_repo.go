package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	FindByUid(ctx context.Context, uid string) (User, error)
	Store(ctx context.Context, user User) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) FindByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, display_name, created_at FROM app_user WHERE uid = $1`
	var u User
	err := r.db.QueryRowContext(ctx, query, uid).Scan(&u.Id, &u.Uid, &u.DisplayName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return u, nil
}

func (r *RepoImpl) Store(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO app_user (uid, display_name) VALUES ($1, $2) RETURNING id`
	var id int
	if err := r.db.QueryRowContext(ctx, query, user.Uid, user.DisplayName).Scan(&id); err != nil {
		err := fmt.Errorf("could not store user: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}
