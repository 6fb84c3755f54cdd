package fakebackend

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-flight-admin/flights"
)

type validatable interface {
	Validate() error
}

// registerCollection serves list/get/create/update/delete for one resource.
// Reads are open to any authenticated caller; writes need an admin.
// expand, when set, turns a stored item into its response form. duplicate,
// when set, is consulted under the write lock and yields 409 Conflict.
func registerCollection[T flights.Resource](
	r chi.Router,
	path string,
	b *Backend,
	items func(*Backend) map[int64]T,
	withID func(T, int64) T,
	expand func(T) any,
	duplicate func(T, int64) bool,
) {
	render := func(item T) any {
		if expand == nil {
			return item
		}
		return expand(item)
	}

	r.Route(path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			b.mu.RLock()
			defer b.mu.RUnlock()
			m := items(b)
			out := make([]any, 0, len(m))
			for _, id := range sortedIDs(m) {
				out = append(out, render(m[id]))
			}
			writeJSON(w, http.StatusOK, out)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(r)
			b.mu.RLock()
			defer b.mu.RUnlock()
			item, found := items(b)[id]
			if !ok || !found {
				writeError(w, http.StatusNotFound, "No encontrado")
				return
			}
			writeJSON(w, http.StatusOK, render(item))
		})

		write := func(w http.ResponseWriter, r *http.Request, id int64, status int) {
			if !callerFrom(r.Context()).admin {
				writeError(w, http.StatusForbidden, "Access Denied")
				return
			}
			var item T
			if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
				writeError(w, http.StatusBadRequest, "malformed request")
				return
			}
			if v, ok := any(item).(validatable); ok {
				if err := v.Validate(); err != nil {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
			}

			b.mu.Lock()
			defer b.mu.Unlock()
			m := items(b)
			if id == 0 {
				id = b.id()
			} else if _, found := m[id]; !found {
				writeError(w, http.StatusNotFound, "No encontrado")
				return
			}
			if duplicate != nil && duplicate(item, id) {
				writeError(w, http.StatusConflict, "Registro duplicado")
				return
			}
			item = withID(item, id)
			m[id] = item
			writeJSON(w, status, render(item))
		}

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			write(w, r, 0, http.StatusCreated)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(r)
			if !ok {
				writeError(w, http.StatusNotFound, "No encontrado")
				return
			}
			write(w, r, id, http.StatusOK)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if !callerFrom(r.Context()).admin {
				writeError(w, http.StatusForbidden, "Access Denied")
				return
			}
			id, _ := pathID(r)
			b.mu.Lock()
			defer b.mu.Unlock()
			m := items(b)
			if _, found := m[id]; !found {
				writeError(w, http.StatusNotFound, "No encontrado")
				return
			}
			delete(m, id)
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// layoverWire is how the backend serializes a layover: its duration goes out
// as a java.time.Duration object rather than an ISO string.
type layoverWire struct {
	ID           int64            `json:"id"`
	IDVuelo      int64            `json:"idVuelo"`
	IDAeropuerto int64            `json:"idAeropuerto"`
	Aeropuerto   *flights.Airport `json:"aeropuerto,omitempty"`
	Duracion     struct {
		Seconds int64 `json:"seconds"`
		Nanos   int64 `json:"nanos"`
	} `json:"duracion"`
}

// expandLayover must be called with b.mu held.
func (b *Backend) expandLayover(l flights.Layover) any {
	wire := layoverWire{ID: l.ID, IDVuelo: l.IDVuelo, IDAeropuerto: l.IDAeropuerto}
	if a, ok := b.airports[l.IDAeropuerto]; ok {
		wire.Aeropuerto = &a
	}
	wire.Duracion.Seconds = int64(time.Duration(l.Duracion) / time.Second)
	return wire
}

// expandFlight must be called with b.mu held.
func (b *Backend) expandFlight(f flights.Flight) any {
	if a, ok := b.airlines[f.IDAerolinea]; ok {
		f.Aerolinea = &a
	}
	if a, ok := b.airports[f.IDAeropuertoOrigen]; ok {
		f.AeropuertoOrigen = &a
	}
	if a, ok := b.airports[f.IDAeropuertoDestino]; ok {
		f.AeropuertoDestino = &a
	}
	f.Escalas = nil
	for _, id := range sortedIDs(b.layovers) {
		l := b.layovers[id]
		if l.IDVuelo != f.ID {
			continue
		}
		if a, ok := b.airports[l.IDAeropuerto]; ok {
			l.Aeropuerto = &a
		}
		f.Escalas = append(f.Escalas, l)
	}
	return f
}

// layoverTaken reports whether another layover already stops the same flight
// at the same airport. The caller holds b.mu.
func (b *Backend) layoverTaken(l flights.Layover, id int64) bool {
	for otherID, other := range b.layovers {
		if otherID != id && other.IDVuelo == l.IDVuelo && other.IDAeropuerto == l.IDAeropuerto {
			return true
		}
	}
	return false
}
