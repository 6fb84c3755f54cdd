package fakebackend

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-flight-admin/flights"
)

func (b *Backend) listReservations(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r.Context())
	b.reservationsFor(w, func(rec reservationRecord) bool {
		return c.admin || rec.owner == c.email
	})
}

func (b *Backend) myReservations(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r.Context())
	b.reservationsFor(w, func(rec reservationRecord) bool {
		return rec.owner == c.email
	})
}

func (b *Backend) reservationsFor(w http.ResponseWriter, include func(reservationRecord) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]flights.Reservation, 0)
	for _, id := range sortedIDs(b.reservations) {
		if rec := b.reservations[id]; include(rec) {
			out = append(out, rec.Reservation)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) decodeReservation(w http.ResponseWriter, r *http.Request) (flights.Reservation, bool) {
	var res flights.Reservation
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return res, false
	}
	if err := res.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return res, false
	}
	return res, true
}

func (b *Backend) createReservation(w http.ResponseWriter, r *http.Request) {
	res, ok := b.decodeReservation(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.flightsByID[res.IDVuelo]; !found {
		writeError(w, http.StatusNotFound, "Vuelo no encontrado")
		return
	}
	res.ID = b.id()
	b.reservations[res.ID] = reservationRecord{Reservation: res, owner: callerFrom(r.Context()).email}
	writeJSON(w, http.StatusCreated, res)
}

// ownedReservation returns the record if the caller may modify it. Must be
// called with b.mu held.
func (b *Backend) ownedReservation(w http.ResponseWriter, r *http.Request) (reservationRecord, bool) {
	id, ok := pathID(r)
	rec, found := b.reservations[id]
	if !ok || !found {
		writeError(w, http.StatusNotFound, "Reserva no encontrada")
		return rec, false
	}
	c := callerFrom(r.Context())
	if !c.admin && rec.owner != c.email {
		writeError(w, http.StatusForbidden, "Access Denied")
		return rec, false
	}
	return rec, true
}

func (b *Backend) getReservation(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if rec, ok := b.ownedReservation(w, r); ok {
		writeJSON(w, http.StatusOK, rec.Reservation)
	}
}

func (b *Backend) updateReservation(w http.ResponseWriter, r *http.Request) {
	res, ok := b.decodeReservation(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.ownedReservation(w, r)
	if !ok {
		return
	}
	res.ID = rec.ID
	rec.Reservation = res
	b.reservations[rec.ID] = rec
	writeJSON(w, http.StatusOK, res)
}

func (b *Backend) deleteReservation(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.ownedReservation(w, r)
	if !ok {
		return
	}
	delete(b.reservations, rec.ID)
	w.WriteHeader(http.StatusNoContent)
}
