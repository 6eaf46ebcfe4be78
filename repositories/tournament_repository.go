package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/multiplayer-tournament/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentConflict = errors.New("tournament id already exists")
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TournamentRepository persists whole tournaments. The roster and rounds
// are stored as one snapshot document.
type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id string) error
}

const (
	insertTournamentQuery = `
		INSERT INTO tournaments (id, name, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	selectTournamentQuery = `
		SELECT id, name, state, created_at, updated_at
		FROM tournaments
		WHERE id = $1`
	listTournamentsQuery = `
		SELECT id, name, state, created_at, updated_at
		FROM tournaments
		ORDER BY created_at, id`
	updateTournamentQuery = `
		UPDATE tournaments
		SET name = $1, state = $2, updated_at = $3
		WHERE id = $4`
	deleteTournamentQuery = `DELETE FROM tournaments WHERE id = $1`
)

type sqlTournamentRepository struct {
	db     *sql.DB
	driver string
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &sqlTournamentRepository{db: db, driver: "postgres"}
}

func NewSQLiteTournamentRepository(db *sql.DB) TournamentRepository {
	return &sqlTournamentRepository{db: db, driver: "sqlite3"}
}

func (r *sqlTournamentRepository) query(q string) string {
	if r.driver == "sqlite3" {
		return rebind(q)
	}
	return q
}

func (r *sqlTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	state, err := encodeState(t)
	if err != nil {
		return err
	}
	_, err = r.getExecutor(nil).ExecContext(ctx, r.query(insertTournamentQuery),
		t.ID, t.Name, state, t.CreatedAt, t.UpdatedAt)
	return r.handleTournamentError(err)
}

func (r *sqlTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	row := r.getExecutor(nil).QueryRowContext(ctx, r.query(selectTournamentQuery), id)
	t, err := scanTournament(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *sqlTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	rows, err := r.getExecutor(nil).QueryContext(ctx, r.query(listTournamentsQuery))
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tournaments: %w", err)
	}
	return tournaments, nil
}

func (r *sqlTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	state, err := encodeState(t)
	if err != nil {
		return err
	}
	result, err := r.getExecutor(nil).ExecContext(ctx, r.query(updateTournamentQuery),
		t.Name, state, t.UpdatedAt, t.ID)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *sqlTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.getExecutor(nil).ExecContext(ctx, r.query(deleteTournamentQuery), id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var state []byte
	if err := row.Scan(&t.ID, &t.Name, &state, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeState(t, state); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *sqlTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrTournamentConflict
	}
	return err
}
