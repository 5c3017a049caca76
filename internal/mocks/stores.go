// Package mocks provides function-field fakes for the handler store
// interfaces. Tests assign only the functions they need; calling an
// unassigned function panics, which surfaces missing expectations
// immediately.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/kinohub/cinema-api/internal/model"
	"github.com/kinohub/cinema-api/internal/queue"
	"github.com/kinohub/cinema-api/internal/repository"
)

type UserStore struct {
	CreateFunc     func(ctx context.Context, email, password, role string, cost int) (uint64, error)
	GetByEmailFunc func(ctx context.Context, email string) (model.User, error)
	GetByIDFunc    func(ctx context.Context, id uint64) (model.User, error)
}

func (m *UserStore) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	return m.CreateFunc(ctx, email, password, role, cost)
}
func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return m.GetByEmailFunc(ctx, email)
}
func (m *UserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return m.GetByIDFunc(ctx, id)
}

type TokenStore struct {
	StoreRefreshFunc     func(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefreshFunc  func(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHashFunc     func(ctx context.Context, tokenHash string) error
	RevokeAllForUserFunc func(ctx context.Context, userID uint64) error
}

func (m *TokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return m.StoreRefreshFunc(ctx, userID, tokenHash, exp)
}
func (m *TokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	return m.ValidateRefreshFunc(ctx, tokenHash)
}
func (m *TokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.RevokeByHashFunc(ctx, tokenHash)
}
func (m *TokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return m.RevokeAllForUserFunc(ctx, userID)
}

type GenreStore struct {
	ListFunc   func(ctx context.Context) ([]model.Genre, error)
	CreateFunc func(ctx context.Context, g *model.Genre) error
}

func (m *GenreStore) List(ctx context.Context) ([]model.Genre, error) { return m.ListFunc(ctx) }
func (m *GenreStore) Create(ctx context.Context, g *model.Genre) error {
	return m.CreateFunc(ctx, g)
}

type ActorStore struct {
	ListFunc   func(ctx context.Context) ([]model.Actor, error)
	CreateFunc func(ctx context.Context, a *model.Actor) error
}

func (m *ActorStore) List(ctx context.Context) ([]model.Actor, error) { return m.ListFunc(ctx) }
func (m *ActorStore) Create(ctx context.Context, a *model.Actor) error {
	return m.CreateFunc(ctx, a)
}

type HallStore struct {
	ListFunc   func(ctx context.Context) ([]model.CinemaHall, error)
	CreateFunc func(ctx context.Context, h *model.CinemaHall) error
}

func (m *HallStore) List(ctx context.Context) ([]model.CinemaHall, error) { return m.ListFunc(ctx) }
func (m *HallStore) Create(ctx context.Context, h *model.CinemaHall) error {
	return m.CreateFunc(ctx, h)
}

type MovieStore struct {
	ListFunc     func(ctx context.Context, f repository.MovieFilters) ([]model.Movie, error)
	GetByIDFunc  func(ctx context.Context, id uint64) (*model.Movie, error)
	CreateFunc   func(ctx context.Context, m *model.Movie, genreIDs, actorIDs []uint64) error
	UpdateFunc   func(ctx context.Context, m *model.Movie, genreIDs, actorIDs []uint64) error
	DeleteFunc   func(ctx context.Context, id uint64) error
	SetImageFunc func(ctx context.Context, id uint64, path string) (string, error)
}

func (m *MovieStore) List(ctx context.Context, f repository.MovieFilters) ([]model.Movie, error) {
	return m.ListFunc(ctx, f)
}
func (m *MovieStore) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *MovieStore) Create(ctx context.Context, mv *model.Movie, genreIDs, actorIDs []uint64) error {
	return m.CreateFunc(ctx, mv, genreIDs, actorIDs)
}
func (m *MovieStore) Update(ctx context.Context, mv *model.Movie, genreIDs, actorIDs []uint64) error {
	return m.UpdateFunc(ctx, mv, genreIDs, actorIDs)
}
func (m *MovieStore) Delete(ctx context.Context, id uint64) error { return m.DeleteFunc(ctx, id) }
func (m *MovieStore) SetImage(ctx context.Context, id uint64, path string) (string, error) {
	return m.SetImageFunc(ctx, id, path)
}

type SessionStore struct {
	ListFunc        func(ctx context.Context, f repository.SessionFilters) ([]repository.SessionListItem, error)
	GetByIDFunc     func(ctx context.Context, id uint64) (*model.MovieSession, error)
	TakenPlacesFunc func(ctx context.Context, sessionID uint64) ([]model.SeatRef, error)
	CreateFunc      func(ctx context.Context, s *model.MovieSession) error
	UpdateFunc      func(ctx context.Context, s *model.MovieSession) error
	DeleteFunc      func(ctx context.Context, id uint64) error
}

func (m *SessionStore) List(ctx context.Context, f repository.SessionFilters) ([]repository.SessionListItem, error) {
	return m.ListFunc(ctx, f)
}
func (m *SessionStore) GetByID(ctx context.Context, id uint64) (*model.MovieSession, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *SessionStore) TakenPlaces(ctx context.Context, sessionID uint64) ([]model.SeatRef, error) {
	return m.TakenPlacesFunc(ctx, sessionID)
}
func (m *SessionStore) Create(ctx context.Context, s *model.MovieSession) error {
	return m.CreateFunc(ctx, s)
}
func (m *SessionStore) Update(ctx context.Context, s *model.MovieSession) error {
	return m.UpdateFunc(ctx, s)
}
func (m *SessionStore) Delete(ctx context.Context, id uint64) error { return m.DeleteFunc(ctx, id) }

type OrderStore struct {
	CreateFunc     func(ctx context.Context, userID, sessionID uint64, seats []model.SeatRef) (*model.Order, error)
	ListByUserFunc func(ctx context.Context, userID uint64) ([]model.Order, error)
}

func (m *OrderStore) Create(ctx context.Context, userID, sessionID uint64, seats []model.SeatRef) (*model.Order, error) {
	return m.CreateFunc(ctx, userID, sessionID, seats)
}
func (m *OrderStore) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	return m.ListByUserFunc(ctx, userID)
}

type PosterStore struct {
	SavePosterFunc func(movieID uint64, r io.Reader) (string, error)
	RemoveFunc     func(rel string) error
}

func (m *PosterStore) SavePoster(movieID uint64, r io.Reader) (string, error) {
	return m.SavePosterFunc(movieID, r)
}
func (m *PosterStore) Remove(rel string) error { return m.RemoveFunc(rel) }

// BookingPublisher records every published event.
type BookingPublisher struct {
	Events []queue.BookingCreatedEvent
	Err    error
}

func (m *BookingPublisher) PublishBookingCreated(_ context.Context, event queue.BookingCreatedEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}
