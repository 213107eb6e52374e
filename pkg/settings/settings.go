// Package settings locates and reads Maven settings files.
//
// Two settings files are considered, a user file and a global one. Their
// locations follow Maven's conventions and can be overridden through build
// properties or the environment:
//
//	user:   maven.settings.user   | $MVNKIT_USER_SETTINGS   | ~/.m2/settings.xml
//	global: maven.settings.global | $MVNKIT_GLOBAL_SETTINGS | <maven.home>/conf/settings.xml
//
// where maven.home is the maven.home property, $MAVEN_HOME or $M2_HOME.
// Only localRepository, offline and mirrors are read. A value from the user
// file replaces the global one; there is no deeper merge.
package settings

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/mvnkit/pkg/errors"
)

// Property and environment names consulted by Locate and LocalRepository.
const (
	PropUserSettings   = "maven.settings.user"
	PropGlobalSettings = "maven.settings.global"
	PropMavenHome      = "maven.home"
	PropLocalRepo      = "maven.repo.local"

	EnvUserSettings   = "MVNKIT_USER_SETTINGS"
	EnvGlobalSettings = "MVNKIT_GLOBAL_SETTINGS"
	EnvMavenHome      = "MAVEN_HOME"
	EnvM2Home         = "M2_HOME"
)

// Env looks up an environment variable. os.LookupEnv satisfies it.
type Env func(key string) (string, bool)

// Locations holds the settings file paths. Global is empty when no Maven
// home is known.
type Locations struct {
	User   string
	Global string
}

// Locate computes the settings file locations.
func Locate(props map[string]string, env Env) Locations {
	if env == nil {
		env = os.LookupEnv
	}
	var loc Locations
	loc.User = first(props[PropUserSettings], lookup(env, EnvUserSettings))
	if loc.User == "" {
		if home := userHome(); home != "" {
			loc.User = filepath.Join(home, ".m2", "settings.xml")
		}
	}
	loc.Global = first(props[PropGlobalSettings], lookup(env, EnvGlobalSettings))
	if loc.Global == "" {
		mavenHome := first(props[PropMavenHome], lookup(env, EnvMavenHome), lookup(env, EnvM2Home))
		if mavenHome != "" {
			loc.Global = filepath.Join(mavenHome, "conf", "settings.xml")
		}
	}
	return loc
}

// Mirror redirects requests for some repositories to another URL.
type Mirror struct {
	ID       string `xml:"id"`
	URL      string `xml:"url"`
	MirrorOf string `xml:"mirrorOf"`
}

// Settings is the subset of settings.xml read by mvnkit.
type Settings struct {
	LocalRepository string
	Offline         bool
	Mirrors         []Mirror

	// Files lists the settings files that were read, global first.
	Files []string
}

type rawSettings struct {
	LocalRepository string   `xml:"localRepository"`
	Offline         *string  `xml:"offline"`
	Mirrors         []Mirror `xml:"mirrors>mirror"`
}

// Load reads the settings files at loc. Missing files are skipped.
func Load(loc Locations) (*Settings, error) {
	s := &Settings{}
	for _, path := range []string{loc.Global, loc.User} {
		if path == "" {
			continue
		}
		raw, err := read(path)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			continue
		}
		s.Files = append(s.Files, path)
		s.merge(raw)
	}
	return s, nil
}

func read(path string) (*rawSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read settings %s", path)
	}
	var raw rawSettings
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid settings %s", path)
	}
	return &raw, nil
}

func (s *Settings) merge(raw *rawSettings) {
	if v := strings.TrimSpace(raw.LocalRepository); v != "" {
		s.LocalRepository = v
	}
	if raw.Offline != nil {
		s.Offline = strings.TrimSpace(*raw.Offline) == "true"
	}
	if len(raw.Mirrors) > 0 {
		s.Mirrors = raw.Mirrors
	}
}

// LocalRepository returns the local repository directory: the
// maven.repo.local property, the settings value or ~/.m2/repository.
func LocalRepository(s *Settings, props map[string]string) string {
	if v := props[PropLocalRepo]; v != "" {
		return v
	}
	if s != nil && s.LocalRepository != "" {
		return expandHome(s.LocalRepository)
	}
	if home := userHome(); home != "" {
		return filepath.Join(home, ".m2", "repository")
	}
	return filepath.Join(".m2", "repository")
}

// Mirror returns the first mirror serving the repository id. A mirrorOf of
// "*" matches every repository, otherwise it is a comma separated list of
// ids.
func (s *Settings) Mirror(repoID string) (Mirror, bool) {
	if s == nil {
		return Mirror{}, false
	}
	for _, m := range s.Mirrors {
		for _, of := range strings.Split(m.MirrorOf, ",") {
			of = strings.TrimSpace(of)
			if of == "*" || of == repoID {
				return m, true
			}
		}
	}
	return Mirror{}, false
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func lookup(env Env, key string) string {
	v, _ := env(key)
	return v
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home := userHome(); home != "" {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
