// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// BookingCreatedEvent is published when an order is successfully
// placed. It carries enough context for downstream consumers (booking
// log, notifications, analytics) to act without querying the database.
type BookingCreatedEvent struct {
	OrderID     uint64   `json:"order_id"`
	UserID      uint64   `json:"user_id"`
	SessionID   uint64   `json:"session_id"`
	MovieTitle  string   `json:"movie_title"`
	HallName    string   `json:"hall_name"`
	ShowTime    string   `json:"show_time"`
	Seats       []string `json:"seats"` // "row/seat" labels
	TicketCount int      `json:"ticket_count"`
	CreatedAt   string   `json:"created_at"`
}
