package fakebackend

import (
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/roles"
)

// Demo credentials created by Seed.
const (
	DemoAdminEmail    = "admin@vuelos.example"
	DemoUserEmail     = "cliente@vuelos.example"
	DemoPassword      = "password123"
	demoDepartureDate = "2026-12-01"
)

// Seed loads a small demo data set: an admin and a customer account, two
// airlines, three airports and a flight with one layover.
func (b *Backend) Seed() {
	b.AddUser(DemoAdminEmail, DemoPassword, roles.ClaimUser, roles.ClaimAdmin)
	b.AddUser(DemoUserEmail, DemoPassword, roles.ClaimUser)

	b.mu.Lock()
	defer b.mu.Unlock()

	iberia := flights.Airline{ID: b.id(), Nombre: "Iberia", Codigo: "IB", Pais: "España"}
	latam := flights.Airline{ID: b.id(), Nombre: "LATAM", Codigo: "LA", Pais: "Chile"}
	b.airlines[iberia.ID] = iberia
	b.airlines[latam.ID] = latam

	mad := flights.Airport{ID: b.id(), Nombre: "Adolfo Suárez Madrid-Barajas", Ciudad: "Madrid", Pais: "España"}
	lim := flights.Airport{ID: b.id(), Nombre: "Jorge Chávez", Ciudad: "Lima", Pais: "Perú"}
	bog := flights.Airport{ID: b.id(), Nombre: "El Dorado", Ciudad: "Bogotá", Pais: "Colombia"}
	for _, a := range []flights.Airport{mad, lim, bog} {
		b.airports[a.ID] = a
	}

	f := flights.Flight{
		ID:                  b.id(),
		Origen:              mad.Ciudad,
		Destino:             lim.Ciudad,
		FechaDeSalida:       demoDepartureDate,
		HoraDeSalida:        "10:15",
		Duracion:            flights.Minutes(12*60 + 40),
		Capacidad:           240,
		IDAerolinea:         iberia.ID,
		IDAeropuertoOrigen:  mad.ID,
		IDAeropuertoDestino: lim.ID,
	}
	b.flightsByID[f.ID] = f

	l := flights.Layover{ID: b.id(), IDVuelo: f.ID, IDAeropuerto: bog.ID, Duracion: flights.Minutes(95)}
	b.layovers[l.ID] = l
}
