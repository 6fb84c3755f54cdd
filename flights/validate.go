package flights

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jrsteele09/go-flight-admin/internal/errors"
)

// FieldErrors maps a JSON field name to a message suitable for showing next to
// the form input. It satisfies error and unwraps to errors.ErrValidation.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error {
	return errors.ErrValidation
}

// err returns fe as an error, or nil when there are no field errors.
func (fe FieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{9,}$`)
)

// Validate applies the signup form rules.
func (r SignupRequest) Validate() error {
	fe := FieldErrors{}
	if len([]rune(strings.TrimSpace(r.Nombre))) < 2 {
		fe["nombre"] = "must be at least 2 characters"
	}
	if len([]rune(strings.TrimSpace(r.Apellido))) < 2 {
		fe["apellido"] = "must be at least 2 characters"
	}
	if len([]rune(strings.TrimSpace(r.Direccion))) < 5 {
		fe["direccion"] = "must be at least 5 characters"
	}
	if !phonePattern.MatchString(r.Telefono) {
		fe["telefono"] = "must contain at least 9 digits"
	}
	if !emailPattern.MatchString(r.CorreoElectronico) {
		fe["correoElectronico"] = "invalid email address"
	}
	if len(r.Password) < 8 {
		fe["password"] = "must be at least 8 characters"
	}
	return fe.err()
}

// Validate checks the login form is filled in.
func (r LoginRequest) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(r.CorreoElectronico) == "" {
		fe["correoElectronico"] = "required"
	}
	if r.Password == "" {
		fe["password"] = "required"
	}
	return fe.err()
}

// Validate checks an airline before create/update.
func (a Airline) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(a.Nombre) == "" {
		fe["nombre"] = "required"
	}
	if strings.TrimSpace(a.Codigo) == "" {
		fe["codigo"] = "required"
	}
	return fe.err()
}

// Validate checks an airport before create/update.
func (a Airport) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(a.Nombre) == "" {
		fe["nombre"] = "required"
	}
	if strings.TrimSpace(a.Ciudad) == "" {
		fe["ciudad"] = "required"
	}
	if strings.TrimSpace(a.Pais) == "" {
		fe["pais"] = "required"
	}
	return fe.err()
}

// Validate checks a flight before create/update.
func (f Flight) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(f.Origen) == "" {
		fe["origen"] = "required"
	}
	if strings.TrimSpace(f.Destino) == "" {
		fe["destino"] = "required"
	}
	if _, err := time.Parse(DateLayout, f.FechaDeSalida); err != nil {
		fe["fechaDeSalida"] = "must be a date (YYYY-MM-DD)"
	}
	if !validClock(f.HoraDeSalida) {
		fe["horaDeSalida"] = "must be a time (HH:MM)"
	}
	if f.Duracion.Minutes() < 1 {
		fe["duracion"] = "must be at least 1 minute"
	}
	if f.Capacidad < 1 {
		fe["capacidad"] = "must be at least 1"
	}
	if f.IDAerolinea == 0 {
		fe["idAerolinea"] = "required"
	}
	if f.IDAeropuertoOrigen == 0 {
		fe["idAeropuertoOrigen"] = "required"
	}
	if f.IDAeropuertoDestino == 0 {
		fe["idAeropuertoDestino"] = "required"
	}
	if f.IDAeropuertoOrigen != 0 && f.IDAeropuertoOrigen == f.IDAeropuertoDestino {
		fe["idAeropuertoDestino"] = "origin and destination airports must differ"
	}
	return fe.err()
}

func validClock(s string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Validate checks a layover before create/update.
func (l Layover) Validate() error {
	fe := FieldErrors{}
	if l.IDVuelo == 0 {
		fe["idVuelo"] = "required"
	}
	if l.IDAeropuerto == 0 {
		fe["idAeropuerto"] = "required"
	}
	if l.Duracion.Minutes() <= 0 {
		fe["duracion"] = "must be a positive number of minutes"
	}
	return fe.err()
}

// Validate checks a reservation before create/update.
func (r Reservation) Validate() error {
	fe := FieldErrors{}
	if r.IDVuelo == 0 {
		fe["idVuelo"] = "required"
	}
	if r.NumeroDePasajeros < 1 {
		fe["numeroDePasajeros"] = "must be at least 1"
	}
	if _, err := time.Parse(DateLayout, r.FechaDeReserva); err != nil {
		fe["fechaDeReserva"] = "must be a date (YYYY-MM-DD)"
	}
	return fe.err()
}
