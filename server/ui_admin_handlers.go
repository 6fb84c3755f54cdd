package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-flight-admin/apiclient"
	"github.com/jrsteele09/go-flight-admin/flights"
)

// Admin catalogue views. Flights and layovers need the related catalogue
// records for their select boxes.

var flightsView = collection[flights.Flight]{
	Route:    RouteAdminFlights,
	Tab:      "flights",
	Title:    "Flights",
	Noun:     "Flight",
	Template: "admin_flights.html",
	Repo: func(c *apiclient.Client) flights.Repo[flights.Flight] {
		return c.Flights()
	},
	Lookups: func(ctx context.Context, c *apiclient.Client) (lookups, error) {
		var (
			lk  lookups
			err error
		)
		if lk.Airlines, err = c.Airlines().List(ctx); err != nil {
			return lk, err
		}
		lk.Airports, err = c.Airports().List(ctx)
		return lk, err
	},
	Decode: decodeFlight,
	ID:     func(f flights.Flight) int64 { return f.ID },
}

var layoversView = collection[flights.Layover]{
	Route:    RouteAdminLayovers,
	Tab:      "layovers",
	Title:    "Layovers",
	Noun:     "Layover",
	Template: "admin_layovers.html",
	Conflict: "That flight already has a layover at this airport.",
	Repo: func(c *apiclient.Client) flights.Repo[flights.Layover] {
		return c.Layovers()
	},
	Lookups: func(ctx context.Context, c *apiclient.Client) (lookups, error) {
		var (
			lk  lookups
			err error
		)
		if lk.Flights, err = c.Flights().List(ctx); err != nil {
			return lk, err
		}
		lk.Airports, err = c.Airports().List(ctx)
		return lk, err
	},
	Decode: decodeLayover,
	ID:     func(l flights.Layover) int64 { return l.ID },
}

var airportsView = collection[flights.Airport]{
	Route:    RouteAdminAirports,
	Tab:      "airports",
	Title:    "Airports",
	Noun:     "Airport",
	Template: "airports.html",
	Repo: func(c *apiclient.Client) flights.Repo[flights.Airport] {
		return c.Airports()
	},
	Decode: decodeAirport,
	ID:     func(a flights.Airport) int64 { return a.ID },
}

var airlinesView = collection[flights.Airline]{
	Route:    RouteAdminAirlines,
	Tab:      "airlines",
	Title:    "Airlines",
	Noun:     "Airline",
	Template: "airlines.html",
	Repo: func(c *apiclient.Client) flights.Repo[flights.Airline] {
		return c.Airlines()
	},
	Decode: decodeAirline,
	ID:     func(a flights.Airline) int64 { return a.ID },
}

// decodeFlight reads the flight form. Duration is entered in minutes.
func decodeFlight(_ *Server, r *http.Request, current *flights.Flight) (flights.Flight, error) {
	f := flights.Flight{
		Origen:              formString(r, "origen"),
		Destino:             formString(r, "destino"),
		FechaDeSalida:       formString(r, "fechaDeSalida"),
		HoraDeSalida:        formString(r, "horaDeSalida"),
		Duracion:            flights.Minutes(formInt(r, "duracion")),
		Capacidad:           formInt(r, "capacidad"),
		IDAerolinea:         formInt64(r, "idAerolinea"),
		IDAeropuertoOrigen:  formInt64(r, "idAeropuertoOrigen"),
		IDAeropuertoDestino: formInt64(r, "idAeropuertoDestino"),
	}
	if current != nil {
		f.ID = current.ID
	}
	return f, f.Validate()
}

// decodeLayover reads the layover form. Duration is entered as hours and minutes.
func decodeLayover(_ *Server, r *http.Request, current *flights.Layover) (flights.Layover, error) {
	l := flights.Layover{
		IDVuelo:      formInt64(r, "idVuelo"),
		IDAeropuerto: formInt64(r, "idAeropuerto"),
		Duracion:     flights.Minutes(formInt(r, "horas")*60 + formInt(r, "minutos")),
	}
	if current != nil {
		l.ID = current.ID
	}
	return l, l.Validate()
}

func decodeAirport(_ *Server, r *http.Request, current *flights.Airport) (flights.Airport, error) {
	a := flights.Airport{
		Nombre: formString(r, "nombre"),
		Ciudad: formString(r, "ciudad"),
		Pais:   formString(r, "pais"),
	}
	if current != nil {
		a.ID = current.ID
	}
	return a, a.Validate()
}

func decodeAirline(_ *Server, r *http.Request, current *flights.Airline) (flights.Airline, error) {
	a := flights.Airline{
		Nombre: formString(r, "nombre"),
		Codigo: formString(r, "codigo"),
		Pais:   formString(r, "pais"),
	}
	if current != nil {
		a.ID = current.ID
	}
	return a, a.Validate()
}
