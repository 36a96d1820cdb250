package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"eventsx/internal/domain"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessageFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeMessageFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindAuthentication, domain.KindAuthenticationRequired:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeFailure renders err as {ok:false,error}. Only the classified message
// reaches the client; causes of system errors are logged.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := "Internal server error"
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		msg = de.Message
	}
	if status >= http.StatusInternalServerError {
		s.log.WithField("request_id", requestIDFrom(r.Context())).
			WithError(err).
			Errorf("%s %s failed", r.Method, r.URL.Path)
	}
	writeMessageFailure(w, status, msg)
}

// parseJSON decodes the request body into dst. An empty body leaves dst
// untouched so that handlers report missing fields themselves.
func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// staticFromDisk serves the front end from dir, falling back to index.html
// for unknown paths. Without a usable dir every path is a JSON 404.
func staticFromDisk(dir string) http.Handler {
	if dir == "" {
		return http.HandlerFunc(notFound)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return http.HandlerFunc(notFound)
	}

	fileServer := http.FileServer(http.Dir(dir))
	indexPath := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w)
			return
		}
		reqPath := path.Clean("/" + r.URL.Path)
		if reqPath != "/" {
			staticPath := filepath.Join(dir, filepath.FromSlash(reqPath))
			if info, err := os.Stat(staticPath); err == nil && !info.IsDir() {
				fileServer.ServeHTTP(w, r)
				return
			}
		}
		if _, err := os.Stat(indexPath); err != nil {
			notFound(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeMessageFailure(w, http.StatusNotFound, "Not found")
}
