// Package flights holds the reservation backend's resource types and the
// client-side validation applied before anything is sent to it.
package flights

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format of every calendar date the backend exchanges.
const DateLayout = "2006-01-02"

// Airline is a carrier operating flights.
type Airline struct {
	ID     int64  `json:"id,omitempty"`
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo"`
	Pais   string `json:"pais,omitempty"`
}

// UnmarshalJSON accepts the IATA code under either codigo or codigoIATA.
func (a *Airline) UnmarshalJSON(data []byte) error {
	type plain Airline
	var wire struct {
		plain
		CodigoIATA string `json:"codigoIATA"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = Airline(wire.plain)
	if a.Codigo == "" {
		a.Codigo = wire.CodigoIATA
	}
	return nil
}

// Airport is an origin, destination or layover point.
type Airport struct {
	ID     int64  `json:"id,omitempty"`
	Nombre string `json:"nombre"`
	Ciudad string `json:"ciudad"`
	Pais   string `json:"pais"`
}

// Flight is a scheduled departure. The nested Aerolinea/Aeropuerto* and
// Escalas fields are only populated on read.
type Flight struct {
	ID                  int64     `json:"id,omitempty"`
	Origen              string    `json:"origen"`
	Destino             string    `json:"destino"`
	FechaDeSalida       string    `json:"fechaDeSalida"`
	HoraDeSalida        string    `json:"horaDeSalida"`
	Duracion            Duration  `json:"duracion"`
	Capacidad           int       `json:"capacidad"`
	IDAerolinea         int64     `json:"idAerolinea,omitempty"`
	IDAeropuertoOrigen  int64     `json:"idAeropuertoOrigen,omitempty"`
	IDAeropuertoDestino int64     `json:"idAeropuertoDestino,omitempty"`
	Aerolinea           *Airline  `json:"aerolinea,omitempty"`
	AeropuertoOrigen    *Airport  `json:"aeropuertoOrigen,omitempty"`
	AeropuertoDestino   *Airport  `json:"aeropuertoDestino,omitempty"`
	Escalas             []Layover `json:"escalas,omitempty"`
}

// Layover is a stop on a flight at an intermediate airport.
type Layover struct {
	ID           int64    `json:"id,omitempty"`
	IDVuelo      int64    `json:"idVuelo"`
	IDAeropuerto int64    `json:"idAeropuerto"`
	Aeropuerto   *Airport `json:"aeropuerto,omitempty"`
	Duracion     Duration `json:"duracion"`
}

// Reservation is a booking of seats on a flight by the logged-in customer.
type Reservation struct {
	ID                int64  `json:"id,omitempty"`
	IDVuelo           int64  `json:"idVuelo"`
	FechaDeReserva    string `json:"fechaDeReserva"`
	NumeroDePasajeros int    `json:"numeroDePasajeros"`
}

// NewReservation books passengers on a flight, dated today.
func NewReservation(flightID int64, passengers int, now time.Time) Reservation {
	return Reservation{
		IDVuelo:           flightID,
		FechaDeReserva:    now.Format(DateLayout),
		NumeroDePasajeros: passengers,
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	CorreoElectronico string `json:"correoElectronico"`
	Password          string `json:"password"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Nombre            string `json:"nombre"`
	Apellido          string `json:"apellido"`
	Direccion         string `json:"direccion"`
	Telefono          string `json:"telefono"`
	CorreoElectronico string `json:"correoElectronico"`
	Password          string `json:"password"`
}
