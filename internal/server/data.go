package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"foliocms/internal/app"
	"foliocms/pkg/domain"
)

// handleData serves /api/data/{kind}[/{id}] for every registered resource
// kind. Reads are public; the application core decides per kind and verb
// what the caller may touch.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/data/")
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	kind := domain.Kind(parts[0])
	id := ""
	if len(parts) == 2 {
		id = parts[1]
	}
	if kind == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	principal := s.app.Authenticate(r)
	query := parseQuery(r)

	var (
		result any
		err    error
	)
	switch r.Method {
	case http.MethodGet:
		if id == "" {
			result, err = s.app.ListResources(kind, principal, query)
		} else {
			result, err = s.app.GetResource(kind, principal, id)
		}
	case http.MethodPost:
		body, readErr := readBody(r)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "unable to read request body")
			return
		}
		result, err = s.app.CreateResource(kind, principal, body)
	case http.MethodPut:
		body, readErr := readBody(r)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "unable to read request body")
			return
		}
		if id == "" && kind == domain.KindProfiles {
			// Profile upserts may omit the id; the target defaults to the
			// caller's own site.
			if principal == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			id = principal.SiteName
		}
		if id == "" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		result, err = s.app.UpdateResource(kind, principal, id, body)
	case http.MethodDelete:
		if id == "" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err := s.app.DeleteResource(kind, principal, id); err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	default:
		methodNotAllowed(w)
		return
	}
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func parseQuery(r *http.Request) app.Query {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return app.Query{
		SiteID:       q.Get("siteId"),
		SiteName:     q.Get("siteName"),
		Key:          q.Get("key"),
		CollectionID: q.Get("collectionId"),
		ContentID:    q.Get("contentId"),
		OrderBy:      q.Get("orderBy"),
		OrderDir:     q.Get("orderDir"),
		Limit:        limit,
	}
}

func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
}
