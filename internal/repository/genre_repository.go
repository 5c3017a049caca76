package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kinohub/cinema-api/internal/model"
)

// GenreRepo persists movie genres.
type GenreRepo struct{ DB *sql.DB }

func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{DB: db} }

// List returns all genres ordered by name.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM genres ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// Create inserts a genre. Duplicate names yield ErrConflict.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	g.Name = strings.TrimSpace(g.Name)
	res, err := r.DB.ExecContext(ctx, "INSERT INTO genres (name) VALUES (?)", g.Name)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}
