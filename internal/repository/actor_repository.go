package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kinohub/cinema-api/internal/model"
)

// ActorRepo persists actors.
type ActorRepo struct{ DB *sql.DB }

func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{DB: db} }

// List returns all actors ordered by last then first name.
func (r *ActorRepo) List(ctx context.Context) ([]model.Actor, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, first_name, last_name FROM actors ORDER BY last_name ASC, first_name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Actor{}
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Create inserts an actor and assigns the generated ID.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO actors (first_name, last_name) VALUES (?,?)", a.FirstName, a.LastName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}
