package repository

import (
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/layout"
)

var defaultLayout = layout.MustCompile(layout.Default)

// Local is a repository on the local file system.
type Local struct {
	Root   string
	Layout *layout.Layout // nil means the Maven layout
}

// NewLocal creates a local repository at root using the Maven layout.
func NewLocal(root string) *Local {
	return &Local{Root: root}
}

func (l *Local) layout() *layout.Layout {
	if l.Layout == nil {
		return defaultLayout
	}
	return l.Layout
}

// Path returns where a is stored, whether or not it exists.
func (l *Local) Path(a coord.Artifact) string {
	return filepath.Join(l.Root, filepath.FromSlash(l.layout().Render(a)))
}

// Find returns the path of a if the file exists.
func (l *Local) Find(a coord.Artifact) (string, bool) {
	p := l.Path(a)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}

// Install copies src into the repository and returns the installed path.
// The file is written to a temporary name first and renamed into place.
func (l *Local) Install(a coord.Artifact, src string) (string, error) {
	dest := l.Path(a)
	if err := copyFile(src, dest); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "install %s", a)
	}
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".mvnkit-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
