package decl

import (
	"github.com/matzehuels/mvnkit/pkg/errors"
)

const (
	kindRepository   = "remoterepo"
	kindRepositories = "remoterepos"
)

// RemoteRepository declares a remote Maven repository.
type RemoteRepository struct {
	reference

	id        string
	url       string
	layout    string
	releases  *bool
	snapshots *bool
}

// NewRemoteRepository creates an empty repository declaration.
func NewRemoteRepository(p *Project) *RemoteRepository {
	return &RemoteRepository{reference: reference{project: p}}
}

// SetRefID makes r an alias of the repository registered under id.
func (r *RemoteRepository) SetRefID(id string) error {
	configured := r.id != "" || r.url != "" || r.layout != "" || r.releases != nil || r.snapshots != nil
	return r.setRef(kindRepository, r, id, configured)
}

// SetID sets the repository id.
func (r *RemoteRepository) SetID(id string) error {
	if err := r.checkAttributesAllowed(kindRepository); err != nil {
		return err
	}
	r.id = id
	return nil
}

// SetURL sets the repository URL.
func (r *RemoteRepository) SetURL(url string) error {
	if err := r.checkAttributesAllowed(kindRepository); err != nil {
		return err
	}
	r.url = url
	return nil
}

// SetLayout sets the repository layout. Only "default" is supported.
func (r *RemoteRepository) SetLayout(layout string) error {
	if err := r.checkAttributesAllowed(kindRepository); err != nil {
		return err
	}
	r.layout = layout
	return nil
}

// SetReleases enables or disables release artifacts.
func (r *RemoteRepository) SetReleases(enabled bool) error {
	if err := r.checkAttributesAllowed(kindRepository); err != nil {
		return err
	}
	r.releases = &enabled
	return nil
}

// SetSnapshots enables or disables snapshot artifacts.
func (r *RemoteRepository) SetSnapshots(enabled bool) error {
	if err := r.checkAttributesAllowed(kindRepository); err != nil {
		return err
	}
	r.snapshots = &enabled
	return nil
}

func (r *RemoteRepository) target() (*RemoteRepository, error) {
	return follow(r, r.project, kindRepository)
}

// RepositoryInfo is the resolved configuration of a remote repository.
type RepositoryInfo struct {
	ID        string
	URL       string
	Layout    string
	Releases  bool
	Snapshots bool
}

// Info returns the repository configuration with defaults applied: layout
// "default", releases and snapshots enabled.
func (r *RemoteRepository) Info() (RepositoryInfo, error) {
	t, err := r.target()
	if err != nil {
		return RepositoryInfo{}, err
	}
	info := RepositoryInfo{ID: t.id, URL: t.url, Layout: t.layout, Releases: true, Snapshots: true}
	if info.Layout == "" {
		info.Layout = "default"
	}
	if t.releases != nil {
		info.Releases = *t.releases
	}
	if t.snapshots != nil {
		info.Snapshots = *t.snapshots
	}
	return info, nil
}

// Validate requires an id and an http(s) URL and rejects unknown layouts.
func (r *RemoteRepository) Validate() error {
	info, err := r.Info()
	if err != nil {
		return err
	}
	if info.ID == "" {
		return missing("remote repository", "id")
	}
	if info.URL == "" {
		return missing("remote repository", "url")
	}
	if err := errors.ValidateURL(info.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDeclaration, err, "remote repository %s", info.ID)
	}
	if info.Layout != "default" {
		return errors.New(errors.ErrCodeUnsupported, "unsupported repository layout %q for %s", info.Layout, info.ID)
	}
	return nil
}

// RemoteRepositories groups repository declarations.
type RemoteRepositories struct {
	reference

	children []any
}

// NewRemoteRepositories creates an empty repository group.
func NewRemoteRepositories(p *Project) *RemoteRepositories {
	return &RemoteRepositories{reference: reference{project: p}}
}

// SetRefID makes g an alias of the group registered under id.
func (g *RemoteRepositories) SetRefID(id string) error {
	return g.setRef(kindRepositories, g, id, len(g.children) > 0)
}

// AddRemoteRepository appends a repository.
func (g *RemoteRepositories) AddRemoteRepository(r *RemoteRepository) error {
	if err := g.checkChildrenAllowed(kindRepositories); err != nil {
		return err
	}
	g.children = append(g.children, r)
	return nil
}

// AddRemoteRepositories appends a nested group. A group cannot contain
// itself.
func (g *RemoteRepositories) AddRemoteRepositories(n *RemoteRepositories) error {
	if err := g.checkChildrenAllowed(kindRepositories); err != nil {
		return err
	}
	if n == g {
		return errors.New(errors.ErrCodeInvalidDeclaration, "you must not reference the repository group itself")
	}
	g.children = append(g.children, n)
	return nil
}

// All returns the repositories of the group and its nested groups in
// declaration order. A repository id listed twice is kept once.
func (g *RemoteRepositories) All() ([]RepositoryInfo, error) {
	var out []RepositoryInfo
	seen := map[string]bool{}
	err := g.walk(map[*RemoteRepositories]bool{}, func(r *RemoteRepository) error {
		info, err := r.Info()
		if err != nil {
			return err
		}
		if !seen[info.ID] {
			seen[info.ID] = true
			out = append(out, info)
		}
		return nil
	})
	return out, err
}

// Validate validates every repository in the group.
func (g *RemoteRepositories) Validate() error {
	return g.walk(map[*RemoteRepositories]bool{}, (*RemoteRepository).Validate)
}

func (g *RemoteRepositories) walk(visiting map[*RemoteRepositories]bool, fn func(*RemoteRepository) error) error {
	t, err := follow(g, g.project, kindRepositories)
	if err != nil {
		return err
	}
	if visiting[t] {
		return errors.New(errors.ErrCodeInvalidReference, "circular reference between repository groups")
	}
	visiting[t] = true
	defer delete(visiting, t)

	for _, c := range t.children {
		switch c := c.(type) {
		case *RemoteRepository:
			if err := fn(c); err != nil {
				return err
			}
		case *RemoteRepositories:
			if err := c.walk(visiting, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
