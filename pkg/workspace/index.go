package workspace

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/pom"
	"github.com/matzehuels/mvnkit/pkg/version"
)

// Index maps normalized artifact coordinates to files of the current build.
type Index struct {
	store Store
}

// New creates an index on top of store. A nil store selects a memory store.
func New(store Store) *Index {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Index{store: store}
}

// Register maps a to path, overwriting any previous registration.
func (idx *Index) Register(ctx context.Context, a coord.Artifact, path string) error {
	return idx.store.Put(ctx, a.String(), path)
}

// RegisterKey parses key as artifact coordinates and registers it.
func (idx *Index) RegisterKey(ctx context.Context, key, path string) error {
	a, err := coord.ParseArtifact(key)
	if err != nil {
		return err
	}
	return idx.Register(ctx, a, path)
}

// FindExact returns the file registered for exactly a.
func (idx *Index) FindExact(ctx context.Context, a coord.Artifact) (string, bool, error) {
	return idx.store.Get(ctx, a.String())
}

// FindVersions returns the versions registered for artifacts sharing a's
// groupId, artifactId, classifier and extension. The order is unspecified.
func (idx *Index) FindVersions(ctx context.Context, a coord.Artifact) ([]string, error) {
	entries, err := idx.store.Entries(ctx)
	if err != nil {
		return nil, err
	}
	id := a.VersionlessID()
	var versions []string
	for _, e := range entries {
		other, err := coord.ParseArtifact(e.Key)
		if err != nil {
			continue
		}
		if other.VersionlessID() == id {
			versions = append(versions, other.Version)
		}
	}
	return versions, nil
}

// FindMatching returns the registered versions of a that fall in the Maven
// version range spec.
func (idx *Index) FindMatching(ctx context.Context, a coord.Artifact, spec string) ([]string, error) {
	r, err := version.ParseRange(spec)
	if err != nil {
		return nil, err
	}
	versions, err := idx.FindVersions(ctx, a)
	if err != nil {
		return nil, err
	}
	return r.Filter(versions), nil
}

// Entries returns every registration in unspecified order.
func (idx *Index) Entries(ctx context.Context) ([]Entry, error) {
	return idx.store.Entries(ctx)
}

// Reset clears every registration.
func (idx *Index) Reset(ctx context.Context) error {
	return idx.store.Clear(ctx)
}

// PomArtifact pairs a build output with the POM that describes it.
type PomArtifact struct {
	File       string
	Type       string
	Classifier string
}

// RegisterPom registers a POM file and the files it produces. Each artifact
// takes the POM's coordinates with its own type and classifier. Registrations
// run concurrently.
func RegisterPom(ctx context.Context, idx *Index, model *pom.Model, pomFile string, artifacts ...PomArtifact) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return idx.Register(ctx, model.Artifact(), pomFile)
	})
	for _, pa := range artifacts {
		g.Go(func() error {
			a := coord.Dependency{
				GroupID:    model.GroupID,
				ArtifactID: model.ArtifactID,
				Version:    model.Version,
				Type:       pa.Type,
				Classifier: pa.Classifier,
			}.Artifact()
			return idx.Register(ctx, a, pa.File)
		})
	}
	return g.Wait()
}

var (
	defaultOnce  sync.Once
	defaultIndex *Index
)

// Default returns the process-wide memory-backed index, creating it on first use.
func Default() *Index {
	defaultOnce.Do(func() {
		defaultIndex = New(NewMemoryStore())
	})
	return defaultIndex
}

// ResetDefault clears the process-wide index.
func ResetDefault() {
	_ = Default().Reset(context.Background())
}
