package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Filter narrows FindAll results. A zero From means no lower bound.
type Filter struct {
	From time.Time
}

// Update carries the fields of a partial update; nil fields are left unchanged.
type Update struct {
	Amount      *int
	Category    *Category
	Description *string
	Date        *time.Time
}

type Repo interface {
	// FindAll returns the owner's expenses, newest first (date, then creation time).
	FindAll(ctx context.Context, userId int, filter Filter) ([]Expense, error)
	Store(ctx context.Context, userId int, expense Expense) (Expense, error)
	Update(ctx context.Context, userId int, id uuid.UUID, update Update) (Expense, error)
	Delete(ctx context.Context, userId int, id uuid.UUID) (bool, error)
	// FindExistingKeys returns which of the given (date, amount, description)
	// tuples already exist for the owner. Used as a single batched existence
	// query during spreadsheet import deduplication.
	FindExistingKeys(ctx context.Context, userId int, keys []Key) (map[Key]struct{}, error)
}

var ErrNotFound = errors.New("expense not found")

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const expenseColumns = "id, amount, category, description, date, created_at, updated_at"

func (r *RepoImpl) FindAll(ctx context.Context, userId int, filter Filter) ([]Expense, error) {
	query := fmt.Sprintf(`SELECT %s FROM expense WHERE user_id = $1`, expenseColumns)
	args := []any{userId}
	if !filter.From.IsZero() {
		query += " AND date >= $2"
		args = append(args, filter.From.Format(DateFormat))
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return expenses, nil
}

func (r *RepoImpl) Store(ctx context.Context, userId int, expense Expense) (Expense, error) {
	query := fmt.Sprintf(`INSERT INTO expense (id, user_id, amount, category, description, date)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING %s`, expenseColumns)

	row := r.db.QueryRowContext(ctx, query,
		expense.ID,
		userId,
		expense.Amount,
		expense.Category,
		expense.Description,
		expense.Date.Format(DateFormat),
	)
	stored, err := scanExpense(row)
	if err != nil {
		err := fmt.Errorf("could not store expense: %w", err)
		log.Error(err)
		return Expense{}, err
	}
	return stored, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, id uuid.UUID, update Update) (Expense, error) {
	query := fmt.Sprintf(`UPDATE expense SET
				amount = COALESCE($1, amount),
				category = COALESCE($2, category),
				description = COALESCE($3, description),
				date = COALESCE($4, date),
				updated_at = now()
			WHERE id = $5 AND user_id = $6
			RETURNING %s`, expenseColumns)

	var dateParam any
	if update.Date != nil {
		dateParam = update.Date.Format(DateFormat)
	}
	row := r.db.QueryRowContext(ctx, query,
		update.Amount,
		update.Category,
		update.Description,
		dateParam,
		id,
		userId,
	)
	updated, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not update expense: %w", err)
		log.Error(err)
		return Expense{}, err
	}
	return updated, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, id uuid.UUID) (bool, error) {
	query := "DELETE FROM expense WHERE id = $1 AND user_id = $2"
	result, err := r.db.ExecContext(ctx, query, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete expense: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) FindExistingKeys(ctx context.Context, userId int, keys []Key) (map[Key]struct{}, error) {
	existing := make(map[Key]struct{})
	if len(keys) == 0 {
		return existing, nil
	}

	tuples := make([]string, 0, len(keys))
	args := []any{userId}
	i := 2
	for _, key := range keys {
		tuples = append(tuples, fmt.Sprintf("($%d::date, $%d::int, $%d)", i, i+1, i+2))
		args = append(args, key.Date, key.Amount, key.Description)
		i += 3
	}
	query := fmt.Sprintf(
		`SELECT date, amount, description FROM expense WHERE user_id = $1 AND (date, amount, description) IN (%s)`,
		strings.Join(tuples, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query existing expense keys: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var date time.Time
		var key Key
		if err := rows.Scan(&date, &key.Amount, &key.Description); err != nil {
			err := fmt.Errorf("could not scan expense key: %w", err)
			log.Error(err)
			return nil, err
		}
		key.Date = date.Format(DateFormat)
		existing[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return existing, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (Expense, error) {
	var e Expense
	var category string
	if err := row.Scan(
		&e.ID,
		&e.Amount,
		&category,
		&e.Description,
		&e.Date,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return Expense{}, err
	}
	e.Category = Category(category)
	return e, nil
}
