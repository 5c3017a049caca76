package model

// Genre mirrors a row of the `genres` table. Names are unique.
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.name
}

// Actor mirrors a row of the `actors` table.
type Actor struct {
	ID        uint64 // actors.id
	FirstName string // actors.first_name
	LastName  string // actors.last_name
}

// FullName joins first and last name the way list responses render actors.
func (a Actor) FullName() string { return a.FirstName + " " + a.LastName }

// CinemaHall mirrors a row of the `cinema_halls` table. The seating
// geometry (Rows x SeatsInRow) bounds every ticket sold for a session
// scheduled in the hall.
type CinemaHall struct {
	ID         uint64 // cinema_halls.id
	Name       string // cinema_halls.name
	Rows       uint32 // cinema_halls.rows
	SeatsInRow uint32 // cinema_halls.seats_in_row
}

// Capacity returns the total number of seats in the hall.
func (h CinemaHall) Capacity() uint32 { return h.Rows * h.SeatsInRow }
