package model

import "time"

// Movie mirrors a row of the `movies` table plus its many-to-many
// associations. Genres and Actors are populated by the repository when a
// caller asks for them; a nil slice means "not loaded", an empty slice
// means "loaded, none linked".
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	Duration    uint32    // movies.duration_min (minutes)
	Image       *string   // movies.image (relative media path, nullable)
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at

	Genres []Genre
	Actors []Actor
}

// MovieSession mirrors a row of the `movie_sessions` table. The joined
// movie and hall are populated for detail views.
type MovieSession struct {
	ID        uint64    // movie_sessions.id
	MovieID   uint64    // movie_sessions.movie_id
	HallID    uint64    // movie_sessions.hall_id
	ShowTime  time.Time // movie_sessions.show_time (UTC)
	CreatedAt time.Time // movie_sessions.created_at
	UpdatedAt time.Time // movie_sessions.updated_at

	Movie *Movie
	Hall  *CinemaHall
}
