package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-flight-admin/apiclient"
	"github.com/jrsteele09/go-flight-admin/auth"
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

// collection describes a list view over one backend resource and, unless
// ReadOnly, the form posts that create, update and delete its items. Every
// write redirects back to the list so the page always shows what the backend
// holds.
type collection[T flights.Resource] struct {
	Route    string // list route; write routes hang off it
	Tab      string
	Title    string
	Noun     string // singular, for notices
	Template string
	ReadOnly bool
	Conflict string // shown when the backend reports a duplicate

	Repo    func(c *apiclient.Client) flights.Repo[T]
	List    func(ctx context.Context, c *apiclient.Client) ([]T, error) // defaults to Repo(c).List
	Lookups func(ctx context.Context, c *apiclient.Client) (lookups, error)
	Decode  func(s *Server, r *http.Request, current *T) (T, error)
	ID      func(T) int64
}

// lookups are the related records a view needs for labels and select boxes.
type lookups struct {
	Airlines   []flights.Airline
	Airports   []flights.Airport
	Flights    []flights.Flight
	FlightByID map[int64]flights.Flight
}

// collectionPage is the content template model.
type collectionPage[T flights.Resource] struct {
	Route    string
	Noun     string
	Items    []T
	Edit     *T
	EditID   int64
	ReadOnly bool
	Lookups  lookups
}

func registerCollection[T flights.Resource](s *Server, c collection[T], mw []func(http.HandlerFunc) http.HandlerFunc) {
	s.RegisterRouteHandler("GET "+c.Route, ChainMiddleware(listHandler(s, c), mw...))
	if c.ReadOnly {
		return
	}
	s.RegisterRouteHandler("POST "+c.Route, ChainMiddleware(createHandler(s, c), mw...))
	s.RegisterRouteHandler("POST "+c.Route+RouteItem, ChainMiddleware(updateHandler(s, c), mw...))
	s.RegisterRouteHandler("POST "+c.Route+RouteItemDelete, ChainMiddleware(deleteHandler(s, c), mw...))
}

func listHandler[T flights.Resource](s *Server, c collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := s.apiClient(r)
		if err != nil {
			log.Err(err).Msg("creating backend client")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		data := collectionPage[T]{Route: c.Route, Noun: c.Noun, ReadOnly: c.ReadOnly}
		p := page{Title: c.Title, Tab: c.Tab, Template: c.Template}

		list := c.List
		if list == nil {
			list = func(ctx context.Context, client *apiclient.Client) ([]T, error) {
				return c.Repo(client).List(ctx)
			}
		}
		items, err := list(r.Context(), client)
		if err != nil {
			if s.sessionLost(w, r, err) {
				return
			}
			log.Warn().Err(err).Str("view", c.Route).Msg("loading list")
			p.Error = viewMessage(err, c.Conflict)
		}
		data.Items = items

		if c.Lookups != nil && err == nil {
			if data.Lookups, err = c.Lookups(r.Context(), client); err != nil {
				if s.sessionLost(w, r, err) {
					return
				}
				log.Warn().Err(err).Str("view", c.Route).Msg("loading lookups")
				p.Error = viewMessage(err, c.Conflict)
			}
		}

		if editID, err := strconv.ParseInt(r.URL.Query().Get("edit"), 10, 64); err == nil && !c.ReadOnly {
			for i := range data.Items {
				if c.ID(data.Items[i]) == editID {
					data.Edit = &data.Items[i]
					data.EditID = editID
					break
				}
			}
		}

		p.Data = data
		s.renderPage(w, r, http.StatusOK, p)
	}
}

func createHandler[T flights.Resource](s *Server, c collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, c.Route, "Invalid form data")
			return
		}
		item, err := c.Decode(s, r, nil)
		if err != nil {
			redirectWithError(w, r, c.Route, viewMessage(err, c.Conflict))
			return
		}

		client, err := s.apiClient(r)
		if err == nil {
			_, err = c.Repo(client).Create(r.Context(), item)
		}
		if err != nil {
			s.writeFailed(w, r, c.Route, c.Conflict, err)
			return
		}
		redirectWithNotice(w, r, c.Route, c.Noun+" created.")
	}
}

func updateHandler[T flights.Resource](s *Server, c collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(r)
		if !ok {
			redirectWithError(w, r, c.Route, "Unknown "+strings.ToLower(c.Noun)+".")
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectWithError(w, r, c.Route, "Invalid form data")
			return
		}

		client, err := s.apiClient(r)
		if err != nil {
			s.writeFailed(w, r, c.Route, c.Conflict, err)
			return
		}
		repo := c.Repo(client)

		current, err := repo.Get(r.Context(), id)
		if err != nil {
			s.writeFailed(w, r, c.Route, c.Conflict, err)
			return
		}
		item, err := c.Decode(s, r, &current)
		if err != nil {
			redirectWithError(w, r, withQuery(c.Route, "edit", strconv.FormatInt(id, 10)), viewMessage(err, c.Conflict))
			return
		}
		if _, err := repo.Update(r.Context(), id, item); err != nil {
			s.writeFailed(w, r, c.Route, c.Conflict, err)
			return
		}
		redirectWithNotice(w, r, c.Route, c.Noun+" updated.")
	}
}

func deleteHandler[T flights.Resource](s *Server, c collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(r)
		if !ok {
			redirectWithError(w, r, c.Route, "Unknown "+strings.ToLower(c.Noun)+".")
			return
		}

		client, err := s.apiClient(r)
		if err == nil {
			err = c.Repo(client).Delete(r.Context(), id)
		}
		if err != nil {
			s.writeFailed(w, r, c.Route, c.Conflict, err)
			return
		}
		redirectWithNotice(w, r, c.Route, c.Noun+" deleted.")
	}
}

func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// writeFailed reports a failed create, update or delete on the list page.
func (s *Server) writeFailed(w http.ResponseWriter, r *http.Request, route, conflict string, err error) {
	if s.sessionLost(w, r, err) {
		return
	}
	log.Warn().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("backend write failed")
	redirectWithError(w, r, route, viewMessage(err, conflict))
}

// sessionLost handles a backend rejection of the session's token: the session
// is ended and the browser is sent to sign in again. It reports whether it
// wrote a response.
func (s *Server) sessionLost(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, errors.ErrUnauthorized) && !errors.Is(err, errors.ErrNoSession) {
		return false
	}
	if mgr := sessionFrom(r.Context()); mgr != nil {
		if err := s.auth.Logout(r.Context(), mgr); err != nil {
			log.Err(err).Msg("clearing rejected session")
		}
	}
	redirectWithNotice(w, r, RouteLogin, auth.MsgTokenExpired)
	return true
}

// viewMessage turns a failed view operation into a page-level message.
func viewMessage(err error, conflict string) string {
	var (
		fe     flights.FieldErrors
		apiErr *errors.APIError
	)
	switch {
	case errors.As(err, &fe):
		return "Invalid input: " + strings.TrimPrefix(fe.Error(), "validation failed: ")
	case errors.Is(err, errors.ErrConflict) && conflict != "":
		return conflict
	case errors.Is(err, errors.ErrConflict):
		return "That record conflicts with an existing one."
	case errors.Is(err, errors.ErrNotFound):
		return "That record no longer exists."
	case errors.Is(err, errors.ErrForbidden):
		return "You are not allowed to do that."
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500 && apiErr.Message != "":
		return apiErr.Message
	}
	return auth.MsgBackendUnavailable
}

// Form helpers. Missing or malformed numbers read as zero and are then
// rejected by the resource's Validate.

func formInt64(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue(name)), 10, 64)
	return v
}

func formInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	return v
}

func formString(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}
