package server

import (
	"net/http"

	"github.com/jrsteele09/go-flight-admin/guard"
)

// IndexHandler renders the landing page
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName": s.config.GetAppName(),
		}
		if mgr := sessionFrom(r.Context()); mgr != nil {
			if role, ok := mgr.CurrentRole(); ok {
				data["Home"] = guard.HomeFor(role)
			}
		}

		s.renderPage(w, r, http.StatusOK, page{
			Title:    s.config.GetAppName(),
			Template: "index.html",
			Data:     data,
		})
	}
}
