package server

import (
	"net/http"

	"foliocms/internal/app"
	"foliocms/pkg/domain"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.withPrincipal(func(w http.ResponseWriter, r *http.Request, p *domain.Principal) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form data")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required (field: file)")
			return
		}
		defer file.Close()

		contentType := r.FormValue("contentType")
		if contentType == "" {
			contentType = header.Header.Get("Content-Type")
		}
		result, err := s.app.Upload(r.Context(), p, app.UploadInput{
			Reader:      file,
			Size:        header.Size,
			Filename:    header.Filename,
			ContentType: contentType,
			CustomPath:  r.FormValue("path"),
		})
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	})(w, r)
}

func (s *Server) handleSignedURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.withPrincipal(func(w http.ResponseWriter, r *http.Request, p *domain.Principal) {
		var in app.SignedUploadInput
		if !decodeJSON(r, &in) {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		signed, err := s.app.SignUpload(r.Context(), p, in)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, signed)
	})(w, r)
}

func (s *Server) handleStorageDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.withPrincipal(func(w http.ResponseWriter, r *http.Request, p *domain.Principal) {
		var in struct {
			Path string `json:"path"`
		}
		if !decodeJSON(r, &in) {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.app.DeleteBlob(r.Context(), p, in.Path); err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})(w, r)
}

func (s *Server) handleStorageList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.withPrincipal(func(w http.ResponseWriter, r *http.Request, p *domain.Principal) {
		files, err := s.app.ListBlobs(r.Context(), p, r.URL.Query().Get("prefix"))
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"files": files,
			"count": len(files),
		})
	})(w, r)
}
