package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/mvnkit/pkg/layout"
	mverrors "github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/repository"
)

// Report is the outcome of a resolution. Results and Missing keep the order
// of the request.
type Report struct {
	Results []Result
	Missing []Missing
}

// Err joins the errors of all missing dependencies, or returns nil.
func (r *Report) Err() error {
	if len(r.Missing) == 0 {
		return nil
	}
	errs := make([]error, len(r.Missing))
	for i, m := range r.Missing {
		errs[i] = m.Err
	}
	return mverrors.Wrap(mverrors.ErrCodeArtifactNotFound, errors.Join(errs...),
		"could not resolve %d dependencies", len(r.Missing))
}

// Paths returns the resolved files in order.
func (r *Report) Paths() []string {
	paths := make([]string, len(r.Results))
	for i, res := range r.Results {
		paths[i] = res.Path
	}
	return paths
}

// Classpath joins the resolved files with the OS path list separator.
func (r *Report) Classpath() string {
	return strings.Join(r.Paths(), string(os.PathListSeparator))
}

// Properties maps groupId:artifactId:type[:classifier] of every resolved
// dependency to its file.
func (r *Report) Properties() map[string]string {
	props := make(map[string]string, len(r.Results))
	for _, res := range r.Results {
		props[res.Dependency.VersionlessKey()] = res.Path
	}
	return props
}

// CopyTo copies every resolved file into dir, naming it by l (the flat
// layout when nil). It returns the written paths.
func (r *Report) CopyTo(dir string, l *layout.Layout) ([]string, error) {
	if l == nil {
		l = layout.MustCompile(layout.Flat)
	}
	target := &repository.Local{Root: dir, Layout: l}
	written := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		dest, err := target.Install(res.Artifact, res.Path)
		if err != nil {
			return written, err
		}
		written = append(written, filepath.Clean(dest))
	}
	return written, nil
}
