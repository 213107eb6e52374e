package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mvnkit/pkg/buildinfo"
	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/httputil"
	"github.com/matzehuels/mvnkit/pkg/layout"
)

var (
	// ErrNotFound is returned when a remote does not have an artifact.
	ErrNotFound = httputil.ErrNotFound

	// ErrNetwork is returned for connection failures and unexpected statuses.
	ErrNetwork = httputil.ErrNetwork
)

// Remote is an HTTP Maven repository.
type Remote struct {
	ID        string
	URL       string
	Layout    *layout.Layout // nil means the Maven layout
	Releases  bool
	Snapshots bool

	Client *http.Client  // nil means httputil.NewClient()
	Retry  httputil.Policy
	Misses *httputil.Cache // optional record of known-missing artifacts
	Logger *log.Logger     // optional
}

// NewRemote creates a remote serving releases and snapshots with the
// default retry policy.
func NewRemote(id, url string) *Remote {
	return &Remote{
		ID:        id,
		URL:       url,
		Releases:  true,
		Snapshots: true,
		Client:    httputil.NewClient(),
		Retry:     httputil.DefaultPolicy,
	}
}

// ArtifactURL returns the URL of a in the repository.
func (r *Remote) ArtifactURL(a coord.Artifact) string {
	l := r.Layout
	if l == nil {
		l = defaultLayout
	}
	return strings.TrimRight(r.URL, "/") + "/" + l.Render(a)
}

// Serves reports whether the repository's policy allows a.
func (r *Remote) Serves(a coord.Artifact) bool {
	if a.IsSnapshot() {
		return r.Snapshots
	}
	return r.Releases
}

func (r *Remote) client() *http.Client {
	if r.Client == nil {
		return httputil.NewClient()
	}
	return r.Client
}

func (r *Remote) missKey(a coord.Artifact) string {
	return r.ID + "|" + r.ArtifactURL(a)
}

// Download fetches a into dest. It returns [ErrNotFound] when the remote
// does not have the artifact or its policy excludes it.
func (r *Remote) Download(ctx context.Context, a coord.Artifact, dest string) error {
	if !r.Serves(a) {
		return fmt.Errorf("%w: %s is disabled for %s", ErrNotFound, r.ID, a)
	}
	if r.Misses != nil && r.Misses.Missing(r.missKey(a)) {
		return fmt.Errorf("%w: %s in %s (cached)", ErrNotFound, a, r.ID)
	}
	url := r.ArtifactURL(a)
	if r.Logger != nil {
		r.Logger.Debug("downloading", "repo", r.ID, "url", url)
	}

	err := httputil.Retry(ctx, r.Retry, func() error {
		return r.get(ctx, url, dest)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) && r.Misses != nil {
			_ = r.Misses.MarkMissing(r.missKey(a))
		}
		return fmt.Errorf("download %s from %s: %w", a, r.ID, err)
	}
	return nil
}

func (r *Remote) get(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	resp, err := r.client().Do(req)
	if err != nil {
		return httputil.Transport(err)
	}
	defer resp.Body.Close()
	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".mvnkit-download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return httputil.Transport(err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// Deploy uploads src as a with an HTTP PUT.
func (r *Remote) Deploy(ctx context.Context, a coord.Artifact, src string) error {
	url := r.ArtifactURL(a)
	if r.Logger != nil {
		r.Logger.Debug("deploying", "repo", r.ID, "url", url)
	}
	err := httputil.Retry(ctx, r.Retry, func() error {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, f)
		if err != nil {
			return err
		}
		req.ContentLength = info.Size()
		req.Header.Set("User-Agent", buildinfo.UserAgent())
		resp, err := r.client().Do(req)
		if err != nil {
			return httputil.Transport(err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return httputil.CheckStatus(resp.StatusCode)
	})
	if err != nil {
		return fmt.Errorf("deploy %s to %s: %w", a, r.ID, err)
	}
	if r.Misses != nil {
		_ = r.Misses.Forget(r.missKey(a))
	}
	return nil
}
