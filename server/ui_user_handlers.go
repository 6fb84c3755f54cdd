package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-flight-admin/apiclient"
	"github.com/jrsteele09/go-flight-admin/flights"
)

// reservationsView lists only the customer's own bookings. Creating books
// seats dated today; updating changes the passenger count only.
var reservationsView = collection[flights.Reservation]{
	Route:    RouteUserReservations,
	Tab:      "reservations",
	Title:    "My reservations",
	Noun:     "Reservation",
	Template: "user_reservations.html",
	Repo: func(c *apiclient.Client) flights.Repo[flights.Reservation] {
		return c.Reservations()
	},
	List: func(ctx context.Context, c *apiclient.Client) ([]flights.Reservation, error) {
		return c.Reservations().Mine(ctx)
	},
	Lookups: func(ctx context.Context, c *apiclient.Client) (lookups, error) {
		all, err := c.Flights().List(ctx)
		if err != nil {
			return lookups{}, err
		}
		lk := lookups{Flights: all, FlightByID: make(map[int64]flights.Flight, len(all))}
		for _, f := range all {
			lk.FlightByID[f.ID] = f
		}
		return lk, nil
	},
	Decode: decodeReservation,
	ID:     func(r flights.Reservation) int64 { return r.ID },
}

var userAirportsView = collection[flights.Airport]{
	Route:    RouteUserAirports,
	Tab:      "airports",
	Title:    "Airports",
	Noun:     "Airport",
	Template: "airports.html",
	ReadOnly: true,
	Repo: func(c *apiclient.Client) flights.Repo[flights.Airport] {
		return c.Airports()
	},
	ID: func(a flights.Airport) int64 { return a.ID },
}

var userAirlinesView = collection[flights.Airline]{
	Route:    RouteUserAirlines,
	Tab:      "airlines",
	Title:    "Airlines",
	Noun:     "Airline",
	Template: "airlines.html",
	ReadOnly: true,
	Repo: func(c *apiclient.Client) flights.Repo[flights.Airline] {
		return c.Airlines()
	},
	ID: func(a flights.Airline) int64 { return a.ID },
}

func decodeReservation(s *Server, r *http.Request, current *flights.Reservation) (flights.Reservation, error) {
	passengers := formInt(r, "numeroDePasajeros")
	if current == nil {
		res := flights.NewReservation(formInt64(r, "idVuelo"), passengers, s.nowTime())
		return res, res.Validate()
	}
	res := *current
	res.NumeroDePasajeros = passengers
	return res, res.Validate()
}
