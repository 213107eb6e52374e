package buildfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mvnkit/pkg/errors"
)

// Spec is the decoded build file.
type Spec struct {
	LocalRepository string            `toml:"localRepository" yaml:"localRepository"`
	Offline         bool              `toml:"offline" yaml:"offline"`
	Properties      map[string]string `toml:"properties" yaml:"properties"`
	Settings        SettingsSpec      `toml:"settings" yaml:"settings"`
	Repositories    []RepositorySpec  `toml:"repository" yaml:"repositories"`
	Poms            []PomSpec         `toml:"pom" yaml:"poms"`
	Dependencies    []GroupSpec       `toml:"dependencies" yaml:"dependencies"`
	Artifacts       []ArtifactsSpec   `toml:"artifacts" yaml:"artifacts"`
}

// SettingsSpec overrides the settings file locations.
type SettingsSpec struct {
	User   string `toml:"user" yaml:"user"`
	Global string `toml:"global" yaml:"global"`
}

// RepositorySpec declares a remote repository. ID is both the repository id
// and its reference id.
type RepositorySpec struct {
	ID        string `toml:"id" yaml:"id"`
	RefID     string `toml:"refid" yaml:"refid"`
	URL       string `toml:"url" yaml:"url"`
	Layout    string `toml:"layout" yaml:"layout"`
	Releases  *bool  `toml:"releases" yaml:"releases"`
	Snapshots *bool  `toml:"snapshots" yaml:"snapshots"`
}

// PomSpec declares a POM.
type PomSpec struct {
	ID         string `toml:"id" yaml:"id"`
	RefID      string `toml:"refid" yaml:"refid"`
	File       string `toml:"file" yaml:"file"`
	Coords     string `toml:"coords" yaml:"coords"`
	GroupID    string `toml:"groupId" yaml:"groupId"`
	ArtifactID string `toml:"artifactId" yaml:"artifactId"`
	Version    string `toml:"version" yaml:"version"`
}

// GroupSpec declares a dependency group.
type GroupSpec struct {
	ID           string           `toml:"id" yaml:"id"`
	RefID        string           `toml:"refid" yaml:"refid"`
	File         string           `toml:"file" yaml:"file"`
	Pom          string           `toml:"pom" yaml:"pom"`
	Dependencies []DependencySpec `toml:"dependency" yaml:"dependency"`
	Groups       []GroupSpec      `toml:"dependencies" yaml:"dependencies"`
	Exclusions   []ExclusionSpec  `toml:"exclusion" yaml:"exclusion"`
}

// DependencySpec declares a single dependency.
type DependencySpec struct {
	ID         string          `toml:"id" yaml:"id"`
	RefID      string          `toml:"refid" yaml:"refid"`
	Coords     string          `toml:"coords" yaml:"coords"`
	GroupID    string          `toml:"groupId" yaml:"groupId"`
	ArtifactID string          `toml:"artifactId" yaml:"artifactId"`
	Version    string          `toml:"version" yaml:"version"`
	Type       string          `toml:"type" yaml:"type"`
	Classifier string          `toml:"classifier" yaml:"classifier"`
	Scope      string          `toml:"scope" yaml:"scope"`
	SystemPath string          `toml:"systemPath" yaml:"systemPath"`
	Exclusions []ExclusionSpec `toml:"exclusion" yaml:"exclusion"`
}

// ExclusionSpec declares an exclusion.
type ExclusionSpec struct {
	ID         string `toml:"id" yaml:"id"`
	RefID      string `toml:"refid" yaml:"refid"`
	Coords     string `toml:"coords" yaml:"coords"`
	GroupID    string `toml:"groupId" yaml:"groupId"`
	ArtifactID string `toml:"artifactId" yaml:"artifactId"`
	Extension  string `toml:"extension" yaml:"extension"`
	Classifier string `toml:"classifier" yaml:"classifier"`
}

// ArtifactsSpec declares an artifact group. Pom names the POM the artifacts
// are published with.
type ArtifactsSpec struct {
	ID        string          `toml:"id" yaml:"id"`
	RefID     string          `toml:"refid" yaml:"refid"`
	Pom       string          `toml:"pom" yaml:"pom"`
	Artifacts []ArtifactSpec  `toml:"artifact" yaml:"artifact"`
	Groups    []ArtifactsSpec `toml:"artifacts" yaml:"artifacts"`
}

// ArtifactSpec declares one artifact.
type ArtifactSpec struct {
	ID         string `toml:"id" yaml:"id"`
	RefID      string `toml:"refid" yaml:"refid"`
	File       string `toml:"file" yaml:"file"`
	Type       string `toml:"type" yaml:"type"`
	Classifier string `toml:"classifier" yaml:"classifier"`
	Pom        string `toml:"pom" yaml:"pom"`
}

// Decode parses a build file. The format follows the extension: .yaml and
// .yml are YAML, everything else TOML. Unknown keys are errors.
func Decode(name string, data []byte) (*Spec, error) {
	var spec Spec
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidBuildFile, err, "invalid build file %s", name)
		}
	default:
		md, err := toml.Decode(string(data), &spec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBuildFile, err, "invalid build file %s", name)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			slices.Sort(keys)
			return nil, errors.New(errors.ErrCodeInvalidBuildFile,
				"invalid build file %s: unknown keys %s", name, strings.Join(keys, ", "))
		}
	}
	return &spec, nil
}

// ReadSpec reads and decodes the build file at path.
func ReadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "build file %s", path)
		}
		return nil, err
	}
	return Decode(path, data)
}
