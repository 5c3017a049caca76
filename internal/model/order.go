package model

import "time"

// Order records a user's ticket purchase. All tickets in an order are
// created atomically inside one transaction.
type Order struct {
	ID        uint64    // orders.id
	UserID    uint64    // orders.user_id
	CreatedAt time.Time // orders.created_at

	Tickets []Ticket
}

// Ticket is one booked seat of a movie session. The (SessionID, Row,
// Seat) triple is unique so a seat can only be sold once per session.
type Ticket struct {
	ID        uint64 // tickets.id
	OrderID   uint64 // tickets.order_id
	SessionID uint64 // tickets.session_id
	Row       uint32 // tickets.row (1-based)
	Seat      uint32 // tickets.seat (1-based)
}

// SeatRef identifies a seat requested in an order before it becomes a
// ticket.
type SeatRef struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}
