// Package serve exposes a workspace index over HTTP.
//
// The repository endpoint lays every registered file out like a Maven
// repository, so other tools can use a running mvnkit as a remote:
//
//	GET /repository/{path}              registered file at a layout path
//	GET /api/workspace                  all registrations
//	GET /api/workspace/find?coords=     exact lookup
//	GET /api/workspace/versions?coords= registered versions of an artifact
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/layout"
	"github.com/matzehuels/mvnkit/pkg/version"
	"github.com/matzehuels/mvnkit/pkg/workspace"
)

const shutdownTimeout = 5 * time.Second

// Server serves a workspace index.
type Server struct {
	Index  *workspace.Index
	Layout *layout.Layout // nil means the Maven layout
	Logger *log.Logger    // nil disables request logging
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/repository/*", s.serveFile)
	r.Head("/repository/*", s.serveFile)
	r.Route("/api/workspace", func(r chi.Router) {
		r.Get("/", s.listEntries)
		r.Get("/find", s.find)
		r.Get("/versions", s.versions)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) layout() *layout.Layout {
	if s.Layout == nil {
		return layout.MustCompile(layout.Default)
	}
	return s.Layout
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	want := strings.Trim(chi.URLParam(r, "*"), "/")
	entries, err := s.Index.Entries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	l := s.layout()
	for _, e := range entries {
		a, err := coord.ParseArtifact(e.Key)
		if err != nil {
			continue
		}
		if l.Render(a) == want {
			http.ServeFile(w, r, e.Path)
			return
		}
	}
	http.NotFound(w, r)
}

type entryJSON struct {
	Coords string `json:"coords"`
	Path   string `json:"path"`
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Index.Entries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{Coords: e.Key, Path: e.Path}
	}
	slices.SortFunc(out, func(a, b entryJSON) int { return strings.Compare(a.Coords, b.Coords) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) find(w http.ResponseWriter, r *http.Request) {
	a, ok := artifactParam(w, r)
	if !ok {
		return
	}
	path, found, err := s.Index.FindExact(r.Context(), a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, errors.New("artifact not registered"))
		return
	}
	writeJSON(w, http.StatusOK, entryJSON{Coords: a.String(), Path: path})
}

func (s *Server) versions(w http.ResponseWriter, r *http.Request) {
	a, ok := artifactParam(w, r)
	if !ok {
		return
	}
	var (
		versions []string
		err      error
	)
	if spec := r.URL.Query().Get("range"); spec != "" {
		versions, err = s.Index.FindMatching(r.Context(), a, spec)
	} else {
		versions, err = s.Index.FindVersions(r.Context(), a)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	version.Sort(versions)
	if versions == nil {
		versions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"coords": a.String(), "versions": versions})
}

func artifactParam(w http.ResponseWriter, r *http.Request) (coord.Artifact, bool) {
	raw := r.URL.Query().Get("coords")
	if raw == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing coords parameter"))
		return coord.Artifact{}, false
	}
	a, err := coord.ParseArtifact(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return coord.Artifact{}, false
	}
	return a, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// requestID tags every request with an X-Request-Id, reusing the client's.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Logger == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
