package server

import (
	"net/http"
	"strings"
)

func (s *Server) handlePublicSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	siteID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/site/public/"), "/")
	if siteID == "" || strings.Contains(siteID, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	site, err := s.app.PublicSite(r.Context(), siteID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleSiteByDomain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	lookup, err := s.app.SiteByDomain(r.URL.Query().Get("domain"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lookup)
}

func (s *Server) handleSiteAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sites, err := s.app.ListDomains()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sites": sites})
}
