package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kinohub/cinema-api/internal/model"
)

// SessionFilters narrows the movie session list. Zero values mean "no
// filter".
type SessionFilters struct {
	Date    string // sessions on this calendar day, "2006-01-02"
	MovieID uint64 // sessions of this movie
}

// SessionListItem is the flattened list row for movie sessions: the
// session plus the joined movie/hall fields and the live availability
// count the list view renders.
type SessionListItem struct {
	ID               uint64
	ShowTime         time.Time
	MovieID          uint64
	MovieTitle       string
	MovieImage       *string
	HallID           uint64
	HallName         string
	HallCapacity     uint32
	TicketsAvailable uint32
}

// SessionRepo persists movie sessions and answers availability queries.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// List returns flattened session rows matching the filters ordered by
// show time. Availability is capacity minus sold tickets.
func (r *SessionRepo) List(ctx context.Context, f SessionFilters) ([]SessionListItem, error) {
	q := `SELECT s.id, s.show_time, m.id, m.title, m.image,
                 h.id, h.name, h.` + "`rows`" + ` * h.seats_in_row AS capacity,
                 h.` + "`rows`" + ` * h.seats_in_row - COUNT(t.id) AS available
          FROM movie_sessions s
          JOIN movies m ON m.id = s.movie_id
          JOIN cinema_halls h ON h.id = s.hall_id
          LEFT JOIN tickets t ON t.session_id = s.id
          WHERE 1=1`
	var args []any
	if f.Date != "" {
		q += " AND DATE(s.show_time) = ?"
		args = append(args, f.Date)
	}
	if f.MovieID != 0 {
		q += " AND s.movie_id = ?"
		args = append(args, f.MovieID)
	}
	q += " GROUP BY s.id, s.show_time, m.id, m.title, m.image, h.id, h.name, capacity ORDER BY s.show_time ASC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []SessionListItem{}
	for rows.Next() {
		var (
			it    SessionListItem
			image sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.ShowTime, &it.MovieID, &it.MovieTitle, &image,
			&it.HallID, &it.HallName, &it.HallCapacity, &it.TicketsAvailable); err != nil {
			return nil, err
		}
		if image.Valid {
			it.MovieImage = &image.String
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

// GetByID fetches a session with its movie (associations included) and
// hall populated.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.MovieSession, error) {
	var s model.MovieSession
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, movie_id, hall_id, show_time, created_at, updated_at FROM movie_sessions WHERE id=?",
		id).Scan(&s.ID, &s.MovieID, &s.HallID, &s.ShowTime, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	movie, err := NewMovieRepo(r.DB).GetByID(ctx, s.MovieID)
	if err != nil {
		return nil, err
	}
	s.Movie = movie

	hall, err := NewHallRepo(r.DB).GetByID(ctx, s.HallID)
	if err != nil {
		return nil, err
	}
	s.Hall = &hall
	return &s, nil
}

// TakenPlaces lists the row/seat pairs already sold for a session.
func (r *SessionRepo) TakenPlaces(ctx context.Context, sessionID uint64) ([]model.SeatRef, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT `row`, seat FROM tickets WHERE session_id=? ORDER BY `row` ASC, seat ASC", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.SeatRef{}
	for rows.Next() {
		var sr model.SeatRef
		if err := rows.Scan(&sr.Row, &sr.Seat); err != nil {
			return nil, err
		}
		result = append(result, sr)
	}
	return result, rows.Err()
}

// Create schedules a session. Unknown movie or hall IDs yield
// ErrConflict via the FK constraints.
func (r *SessionRepo) Create(ctx context.Context, s *model.MovieSession) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movie_sessions (movie_id, hall_id, show_time) VALUES (?,?,?)",
		s.MovieID, s.HallID, s.ShowTime)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT id, movie_id, hall_id, show_time, created_at, updated_at FROM movie_sessions WHERE id=?",
		s.ID).Scan(&s.ID, &s.MovieID, &s.HallID, &s.ShowTime, &s.CreatedAt, &s.UpdatedAt)
}

// Update reschedules a session or moves it to another movie/hall.
func (r *SessionRepo) Update(ctx context.Context, s *model.MovieSession) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movie_sessions SET movie_id=?, hall_id=?, show_time=? WHERE id=?",
		s.MovieID, s.HallID, s.ShowTime, s.ID)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM movie_sessions WHERE id=?", s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT id, movie_id, hall_id, show_time, created_at, updated_at FROM movie_sessions WHERE id=?",
		s.ID).Scan(&s.ID, &s.MovieID, &s.HallID, &s.ShowTime, &s.CreatedAt, &s.UpdatedAt)
}

// Delete removes a session. Sold tickets block the delete with
// ErrConflict.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movie_sessions WHERE id=?", id)
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
