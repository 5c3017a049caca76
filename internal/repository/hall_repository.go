package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kinohub/cinema-api/internal/model"
)

// HallRepo persists cinema halls.
type HallRepo struct{ DB *sql.DB }

func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{DB: db} }

// List returns all cinema halls ordered by name.
func (r *HallRepo) List(ctx context.Context) ([]model.CinemaHall, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, `rows`, seats_in_row FROM cinema_halls ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.CinemaHall{}
	for rows.Next() {
		var h model.CinemaHall
		if err := rows.Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow); err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// Create inserts a hall. Duplicate names yield ErrConflict.
func (r *HallRepo) Create(ctx context.Context, h *model.CinemaHall) error {
	h.Name = strings.TrimSpace(h.Name)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO cinema_halls (name, `rows`, seats_in_row) VALUES (?,?,?)",
		h.Name, h.Rows, h.SeatsInRow)
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
	h.ID = uint64(id)
	return nil
}

// GetByID fetches a single hall.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.CinemaHall, error) {
	var h model.CinemaHall
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, `rows`, seats_in_row FROM cinema_halls WHERE id=?", id).
		Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow)
	if errors.Is(err, sql.ErrNoRows) {
		return h, ErrNotFound
	}
	return h, err
}
