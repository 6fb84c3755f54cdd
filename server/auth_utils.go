package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	// browserCookieName identifies the browser whose session storage a request uses
	browserCookieName = "browser_id"

	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

// browserID returns the browser identity from the request cookie, issuing a
// fresh one when the cookie is missing or malformed.
func (s *Server) browserID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(browserCookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	s.SetBrowserCookie(w, r, id)
	return id
}

func (s *Server) SetBrowserCookie(w http.ResponseWriter, r *http.Request, browserID string) {
	isSecure := s.config.GetSecureCookies() || getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     browserCookieName,
		Value:    browserID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetBrowserCookieMaxAge().Seconds()),
	})
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, withQuery(path, "error", errorMsg))
}

// redirectWithNotice redirects with an informational message, used when a
// navigation is turned away rather than failed.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	redirectSuccess(w, r, withQuery(path, "notice", notice))
}

// withQuery appends key=value to path, which may already carry a query.
func withQuery(path, key, value string) string {
	if value == "" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(value)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
