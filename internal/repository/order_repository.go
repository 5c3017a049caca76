package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kinohub/cinema-api/internal/model"
)

// OrderRepo persists orders and their tickets. Order placement runs in
// a transaction so either every requested seat is sold or none is.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// Create books the given seats for a session on behalf of a user.
// The seats are validated against the hall geometry of the session;
// requesting a seat outside the hall yields ErrSeatOutOfRange, a seat
// already sold yields ErrSeatsTaken, an unknown session ErrNotFound.
func (r *OrderRepo) Create(ctx context.Context, userID, sessionID uint64, seats []model.SeatRef) (*model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var hallRows, seatsInRow uint32
	err = tx.QueryRowContext(ctx,
		"SELECT h.`rows`, h.seats_in_row FROM movie_sessions s JOIN cinema_halls h ON h.id = s.hall_id WHERE s.id=?",
		sessionID).Scan(&hallRows, &seatsInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	for _, sr := range seats {
		if sr.Row < 1 || sr.Row > hallRows || sr.Seat < 1 || sr.Seat > seatsInRow {
			return nil, fmt.Errorf("%w: row %d seat %d (hall is %dx%d)",
				ErrSeatOutOfRange, sr.Row, sr.Seat, hallRows, seatsInRow)
		}
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO orders (user_id) VALUES (?)", userID)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	order := &model.Order{ID: uint64(orderID), UserID: userID, Tickets: make([]model.Ticket, 0, len(seats))}
	for _, sr := range seats {
		// unique(session_id, row, seat) turns double bookings into a
		// duplicate-key error, including races between two orders.
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tickets (order_id, session_id, `row`, seat) VALUES (?,?,?,?)",
			order.ID, sessionID, sr.Row, sr.Seat)
		if err != nil {
			if isDuplicateKey(err) {
				return nil, fmt.Errorf("%w: row %d seat %d", ErrSeatsTaken, sr.Row, sr.Seat)
			}
			return nil, err
		}
		tid, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		order.Tickets = append(order.Tickets, model.Ticket{
			ID:        uint64(tid),
			OrderID:   order.ID,
			SessionID: sessionID,
			Row:       sr.Row,
			Seat:      sr.Seat,
		})
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM orders WHERE id=?", order.ID).Scan(&order.CreatedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByUser returns a user's orders, newest first, tickets included.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, created_at FROM orders WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	idx := make(map[uint64]*model.Order)
	ids := []any{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Tickets = []model.Ticket{}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	for i := range orders {
		idx[orders[i].ID] = &orders[i]
		ids = append(ids, orders[i].ID)
	}

	trows, err := r.DB.QueryContext(ctx,
		"SELECT id, order_id, session_id, `row`, seat FROM tickets WHERE order_id IN ("+placeholders(len(ids))+") ORDER BY id ASC",
		ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.Ticket
		if err := trows.Scan(&t.ID, &t.OrderID, &t.SessionID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		if o := idx[t.OrderID]; o != nil {
			o.Tickets = append(o.Tickets, t)
		}
	}
	return orders, trows.Err()
}
