package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kinohub/cinema-api/internal/model"
)

// MovieFilters narrows the movie list. Zero values mean "no filter".
type MovieFilters struct {
	Title    string   // substring match on title
	GenreIDs []uint64 // movies linked to any of these genres
	ActorIDs []uint64 // movies linked to any of these actors
}

// MovieRepo persists movies and their genre/actor associations.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

const movieColumns = "m.id, m.title, m.description, m.duration_min, m.image, m.created_at, m.updated_at"

func scanMovie(row interface{ Scan(...any) error }, m *model.Movie) error {
	var image sql.NullString
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Duration, &image, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}
	if image.Valid {
		m.Image = &image.String
	}
	return nil
}

// List returns movies matching the filters, associations loaded,
// ordered by ID.
func (r *MovieRepo) List(ctx context.Context, f MovieFilters) ([]model.Movie, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT DISTINCT " + movieColumns + " FROM movies m")
	if len(f.GenreIDs) > 0 {
		sb.WriteString(" JOIN movie_genres mg ON mg.movie_id = m.id")
	}
	if len(f.ActorIDs) > 0 {
		sb.WriteString(" JOIN movie_actors ma ON ma.movie_id = m.id")
	}
	sb.WriteString(" WHERE 1=1")
	if f.Title != "" {
		sb.WriteString(" AND m.title LIKE ?")
		args = append(args, "%"+f.Title+"%")
	}
	if len(f.GenreIDs) > 0 {
		sb.WriteString(" AND mg.genre_id IN (" + placeholders(len(f.GenreIDs)) + ")")
		for _, id := range f.GenreIDs {
			args = append(args, id)
		}
	}
	if len(f.ActorIDs) > 0 {
		sb.WriteString(" AND ma.actor_id IN (" + placeholders(len(f.ActorIDs)) + ")")
		for _, id := range f.ActorIDs {
			args = append(args, id)
		}
	}
	sb.WriteString(" ORDER BY m.id ASC")

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []model.Movie{}
	for rows.Next() {
		var m model.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadAssociations(ctx, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetByID fetches one movie with genres and actors loaded.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	var m model.Movie
	err := scanMovie(r.DB.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies m WHERE m.id=?", id), &m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	movies := []model.Movie{m}
	if err := r.loadAssociations(ctx, movies); err != nil {
		return nil, err
	}
	return &movies[0], nil
}

// Create inserts a movie together with its genre and actor links inside
// one transaction. Unknown genre/actor IDs yield ErrConflict.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie, genreIDs, actorIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO movies (title, description, duration_min, image) VALUES (?,?,?,?)",
		m.Title, m.Description, m.Duration, m.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	if err := insertLinks(ctx, tx, "movie_genres", "genre_id", m.ID, genreIDs); err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, "movie_actors", "actor_id", m.ID, actorIDs); err != nil {
		return err
	}

	if err := scanMovie(tx.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies m WHERE m.id=?", m.ID), m); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites a movie's fields and replaces its association links.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie, genreIDs, actorIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE movies SET title=?, description=?, duration_min=? WHERE id=?",
		m.Title, m.Description, m.Duration, m.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update;
		// tell them apart with an existence check.
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM movies WHERE id=?", m.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}

	for _, table := range []string{"movie_genres", "movie_actors"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE movie_id=?", table), m.ID); err != nil {
			return err
		}
	}
	if err := insertLinks(ctx, tx, "movie_genres", "genre_id", m.ID, genreIDs); err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, "movie_actors", "actor_id", m.ID, actorIDs); err != nil {
		return err
	}

	if err := scanMovie(tx.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies m WHERE m.id=?", m.ID), m); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a movie. Sessions referencing it block the delete with
// ErrConflict.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetImage records the stored poster path on a movie and returns the
// previous path so the caller can delete the replaced file.
func (r *MovieRepo) SetImage(ctx context.Context, id uint64, path string) (string, error) {
	var prev sql.NullString
	err := r.DB.QueryRowContext(ctx, "SELECT image FROM movies WHERE id=?", id).Scan(&prev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if _, err := r.DB.ExecContext(ctx, "UPDATE movies SET image=? WHERE id=?", path, id); err != nil {
		return "", err
	}
	return prev.String, nil
}

// insertLinks fills a movie association table. FK violations surface as
// ErrConflict so handlers can report unknown genre/actor IDs.
func insertLinks(ctx context.Context, tx *sql.Tx, table, column string, movieID uint64, ids []uint64) error {
	for _, id := range ids {
		q := fmt.Sprintf("INSERT INTO %s (movie_id, %s) VALUES (?,?)", table, column)
		if _, err := tx.ExecContext(ctx, q, movieID, id); err != nil {
			if isFKViolation(err) || isDuplicateKey(err) {
				return ErrConflict
			}
			return err
		}
	}
	return nil
}

// loadAssociations populates Genres and Actors for every movie in the
// slice with two IN queries.
func (r *MovieRepo) loadAssociations(ctx context.Context, movies []model.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	idx := make(map[uint64]*model.Movie, len(movies))
	ids := make([]any, 0, len(movies))
	for i := range movies {
		movies[i].Genres = []model.Genre{}
		movies[i].Actors = []model.Actor{}
		idx[movies[i].ID] = &movies[i]
		ids = append(ids, movies[i].ID)
	}
	ph := placeholders(len(ids))

	rows, err := r.DB.QueryContext(ctx,
		"SELECT mg.movie_id, g.id, g.name FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE mg.movie_id IN ("+ph+") ORDER BY g.name ASC",
		ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			movieID uint64
			g       model.Genre
		)
		if err := rows.Scan(&movieID, &g.ID, &g.Name); err != nil {
			return err
		}
		if m := idx[movieID]; m != nil {
			m.Genres = append(m.Genres, g)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.QueryContext(ctx,
		"SELECT ma.movie_id, a.id, a.first_name, a.last_name FROM movie_actors ma JOIN actors a ON a.id = ma.actor_id WHERE ma.movie_id IN ("+ph+") ORDER BY a.last_name ASC, a.first_name ASC",
		ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			movieID uint64
			a       model.Actor
		)
		if err := rows.Scan(&movieID, &a.ID, &a.FirstName, &a.LastName); err != nil {
			return err
		}
		if m := idx[movieID]; m != nil {
			m.Actors = append(m.Actors, a)
		}
	}
	return rows.Err()
}
