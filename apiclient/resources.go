package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-flight-admin/flights"
)

// Backend collection paths.
const (
	AirlinesPath       = "/aerolineas"
	AirportsPath       = "/aeropuertos"
	FlightsPath        = "/vuelos"
	LayoversPath       = "/escalas"
	ReservationsPath   = "/reservas"
	MyReservationsPath = "/reservas/misreservas"
)

var (
	_ flights.Repo[flights.Airline]     = (*Resource[flights.Airline])(nil)
	_ flights.Repo[flights.Reservation] = (*Reservations)(nil)
)

// Resource is authenticated CRUD access to one backend collection.
type Resource[T flights.Resource] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to c.
func NewResource[T flights.Resource](c *Client, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path}
}

func (r *Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.do(ctx, r.client.authed, http.MethodGet, r.path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	err := r.client.do(ctx, r.client.authed, http.MethodGet, r.itemPath(id), nil, &item)
	return item, err
}

// Create posts item and returns the stored version. Backends that reply
// without a body yield the submitted item.
func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	created := item
	err := r.client.do(ctx, r.client.authed, http.MethodPost, r.path, item, &created)
	return created, err
}

func (r *Resource[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	updated := item
	err := r.client.do(ctx, r.client.authed, http.MethodPut, r.itemPath(id), item, &updated)
	return updated, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.do(ctx, r.client.authed, http.MethodDelete, r.itemPath(id), nil, nil)
}

// Reservations adds the customer's own view to the reservation collection.
type Reservations struct {
	*Resource[flights.Reservation]
}

// Mine lists the logged-in customer's reservations.
func (r *Reservations) Mine(ctx context.Context) ([]flights.Reservation, error) {
	var items []flights.Reservation
	if err := r.client.do(ctx, r.client.authed, http.MethodGet, MyReservationsPath, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Airlines() *Resource[flights.Airline] {
	return NewResource[flights.Airline](c, AirlinesPath)
}

func (c *Client) Airports() *Resource[flights.Airport] {
	return NewResource[flights.Airport](c, AirportsPath)
}

func (c *Client) Flights() *Resource[flights.Flight] {
	return NewResource[flights.Flight](c, FlightsPath)
}

func (c *Client) Layovers() *Resource[flights.Layover] {
	return NewResource[flights.Layover](c, LayoversPath)
}

func (c *Client) Reservations() *Reservations {
	return &Reservations{Resource: NewResource[flights.Reservation](c, ReservationsPath)}
}
