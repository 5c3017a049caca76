package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/queue"
	"github.com/kinohub/cinema-api/internal/repository"
)

// OrderHandler places ticket orders and lists the caller's history.
type OrderHandler struct {
	Orders    OrderStore
	Sessions  SessionStore
	Publisher BookingPublisher // optional, nil disables events
}

func NewOrderHandler(orders OrderStore, sessions SessionStore, pub BookingPublisher) *OrderHandler {
	if orders == nil || sessions == nil {
		panic("nil store passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders, Sessions: sessions, Publisher: pub}
}

type ticketResp struct {
	ID           uint64 `json:"id"`
	MovieSession uint64 `json:"movie_session"`
	Row          uint32 `json:"row"`
	Seat         uint32 `json:"seat"`
}

type orderResp struct {
	ID        uint64       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Tickets   []ticketResp `json:"tickets"`
}

func toOrderResp(o model.Order) orderResp {
	resp := orderResp{ID: o.ID, CreatedAt: o.CreatedAt, Tickets: []ticketResp{}}
	for _, t := range o.Tickets {
		resp.Tickets = append(resp.Tickets, ticketResp{
			ID:           t.ID,
			MovieSession: t.SessionID,
			Row:          t.Row,
			Seat:         t.Seat,
		})
	}
	return resp
}

// Create handles POST /v1/orders. All requested seats are booked
// atomically; a seat out of the hall's bounds or already sold fails
// the whole order.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		MovieSession uint64          `json:"movie_session"`
		Seats        []model.SeatRef `json:"seats"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieSession == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_session required"})
	}
	if len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seat required"})
	}
	seen := make(map[model.SeatRef]bool, len(req.Seats))
	for _, s := range req.Seats {
		if s.Row == 0 || s.Seat == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "row and seat are 1-based"})
		}
		if seen[s] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate seat in order"})
		}
		seen[s] = true
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	order, err := h.Orders.Create(ctx, uid, req.MovieSession, req.Seats)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie session not found"})
		case errors.Is(err, repository.ErrSeatOutOfRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrSeatsTaken):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
		}
	}

	h.publishCreated(ctx, uid, req.MovieSession, order)

	return c.JSON(http.StatusCreated, toOrderResp(*order))
}

// ListMine handles GET /v1/orders: the caller's own orders, newest
// first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		return storeError(c, err)
	}
	out := make([]orderResp, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResp(o))
	}
	return c.JSON(http.StatusOK, out)
}

// publishCreated emits the booking event. Broker trouble never fails
// the order; the purchase already committed.
func (h *OrderHandler) publishCreated(ctx context.Context, uid, sessionID uint64, order *model.Order) {
	if h.Publisher == nil {
		return
	}
	event := queue.BookingCreatedEvent{
		OrderID:     order.ID,
		UserID:      uid,
		SessionID:   sessionID,
		TicketCount: len(order.Tickets),
		CreatedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, t := range order.Tickets {
		event.Seats = append(event.Seats, fmt.Sprintf("%d/%d", t.Row, t.Seat))
	}
	if s, err := h.Sessions.GetByID(ctx, sessionID); err == nil {
		if s.Movie != nil {
			event.MovieTitle = s.Movie.Title
		}
		if s.Hall != nil {
			event.HallName = s.Hall.Name
		}
		event.ShowTime = s.ShowTime.UTC().Format(time.RFC3339)
	}
	_ = h.Publisher.PublishBookingCreated(ctx, event)
}
