package cli

import (
	"context"
	"os"

	"github.com/matzehuels/mvnkit/pkg/buildfile"
	"github.com/matzehuels/mvnkit/pkg/errors"
	"github.com/matzehuels/mvnkit/pkg/repository"
	"github.com/matzehuels/mvnkit/pkg/settings"
)

// env is everything a command needs to reach artifacts: the loaded build,
// the merged Maven settings and the repositories they describe.
type env struct {
	build     *buildfile.Build
	locations settings.Locations
	settings  *settings.Settings
	local     *repository.Local
	remotes   []*repository.Remote
	byID      map[string]*repository.Remote // declared and mirror ids
	offline   bool
}

// loadBuild reads and validates the build file.
func (c *CLI) loadBuild() (*buildfile.Build, error) {
	props, err := c.properties()
	if err != nil {
		return nil, err
	}
	b, err := buildfile.Load(c.buildFile, props)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", c.buildFile)
	}
	return b, nil
}

// loadEnv loads the build file and the settings it points to.
func (c *CLI) loadEnv(ctx context.Context) (*env, error) {
	b, err := c.loadBuild()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)

	props := b.Properties()
	if v := b.Expand(b.Spec.Settings.User); v != "" {
		props[settings.PropUserSettings] = v
	}
	if v := b.Expand(b.Spec.Settings.Global); v != "" {
		props[settings.PropGlobalSettings] = v
	}
	if v := b.LocalRepository(); v != "" && props[settings.PropLocalRepo] == "" {
		props[settings.PropLocalRepo] = b.Project.Path(v)
	}

	loc := settings.Locate(props, os.LookupEnv)
	s, err := settings.Load(loc)
	if err != nil {
		return nil, err
	}
	for _, f := range s.Files {
		logger.Debug("settings", "file", f)
	}

	e := &env{
		build:     b,
		locations: loc,
		settings:  s,
		local:     repository.NewLocal(settings.LocalRepository(s, props)),
		offline:   c.offline || b.Spec.Offline || s.Offline,
	}
	logger.Debug("local repository", "path", e.local.Root)

	e.remotes, e.byID, err = c.remotes(b, s)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// remotes builds the declared remote repositories, replacing each by its
// settings mirror. Repositories sharing a mirror collapse into one.
func (c *CLI) remotes(b *buildfile.Build, s *settings.Settings) ([]*repository.Remote, map[string]*repository.Remote, error) {
	infos, err := b.Repositories.All()
	if err != nil {
		return nil, nil, err
	}
	misses := c.missCache()
	byID := map[string]*repository.Remote{}
	var out []*repository.Remote
	for _, info := range infos {
		id, url := info.ID, info.URL
		if m, ok := s.Mirror(info.ID); ok {
			c.Logger.Debug("mirror", "repository", info.ID, "mirror", m.ID, "url", m.URL)
			id, url = m.ID, m.URL
		}
		if r, ok := byID[id]; ok {
			byID[info.ID] = r
			continue
		}

		r := repository.NewRemote(id, url)
		r.Releases = info.Releases
		r.Snapshots = info.Snapshots
		r.Misses = misses
		r.Logger = c.Logger
		out = append(out, r)
		byID[id] = r
		byID[info.ID] = r
	}
	return out, byID, nil
}

// remote returns the remote with the given id, or the first one when id is
// empty.
func (e *env) remote(id string) (*repository.Remote, error) {
	if len(e.remotes) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "the build file declares no remote repository")
	}
	if id == "" {
		return e.remotes[0], nil
	}
	if r, ok := e.byID[id]; ok {
		return r, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no remote repository with id %q", id)
}
