package pom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

const samplePOM = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>parent</artifactId>
    <version>1.0.0</version>
  </parent>
  <artifactId>my-app</artifactId>
  <packaging>war</packaging>
  <name>My App</name>
  <properties>
    <java.version>17</java.version>
  </properties>
  <dependencies>
    <dependency>
      <groupId>org.springframework</groupId>
      <artifactId>spring-core</artifactId>
      <version>5.3.0</version>
      <exclusions>
        <exclusion>
          <groupId>commons-logging</groupId>
          <artifactId>commons-logging</artifactId>
        </exclusion>
      </exclusions>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.13</version>
      <scope>test</scope>
    </dependency>
    <dependency>
      <groupId>org.optional</groupId>
      <artifactId>optional-dep</artifactId>
      <version>1</version>
      <optional>true</optional>
    </dependency>
    <dependency>
      <groupId>${project.groupId}</groupId>
      <artifactId>internal</artifactId>
      <version>1</version>
    </dependency>
    <dependency>
      <groupId>managed</groupId>
      <artifactId>no-version</artifactId>
    </dependency>
  </dependencies>
</project>`

func writePOM(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pom.xml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead(t *testing.T) {
	m, err := Read(writePOM(t, samplePOM))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if m.GroupID != "com.example" || m.Version != "1.0.0" {
		t.Errorf("parent defaults not applied: %s:%s", m.GroupID, m.Version)
	}
	if m.Packaging != "war" {
		t.Errorf("Packaging = %q, want war", m.Packaging)
	}
	if got := m.Props["java.version"]; got != "17" {
		t.Errorf("property java.version = %q, want 17", got)
	}
	if got := len(m.Dependencies[0].Exclusions); got != 1 {
		t.Errorf("exclusions = %d, want 1", got)
	}
}

func TestDependencyCoords(t *testing.T) {
	m, err := Parse([]byte(samplePOM))
	if err != nil {
		t.Fatal(err)
	}
	deps := m.DependencyCoords()
	if len(deps) != 2 {
		t.Fatalf("DependencyCoords() = %v, want 2 entries", deps)
	}
	want := coord.Dependency{GroupID: "org.springframework", ArtifactID: "spring-core", Version: "5.3.0", Type: "jar", Scope: "compile"}
	if deps[0] != want {
		t.Errorf("deps[0] = %+v, want %+v", deps[0], want)
	}
	if deps[1].Scope != "test" {
		t.Errorf("deps[1].Scope = %q, want test", deps[1].Scope)
	}
}

func TestArtifacts(t *testing.T) {
	m, _ := Parse([]byte(samplePOM))
	if got := m.Artifact().String(); got != "com.example:my-app:pom:1.0.0" {
		t.Errorf("Artifact() = %q", got)
	}
	if got := m.MainArtifact().String(); got != "com.example:my-app:war:1.0.0" {
		t.Errorf("MainArtifact() = %q", got)
	}
}

func TestProperties(t *testing.T) {
	m, _ := Parse([]byte(samplePOM))
	props := m.Properties()
	if props["pom.version"] != "1.0.0" || props["pom.name"] != "My App" {
		t.Errorf("Properties() = %v", props)
	}
	if props["pom.properties.java.version"] != "17" {
		t.Errorf("pom.properties.java.version = %q", props["pom.properties.java.version"])
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.xml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	_, err = Read(writePOM(t, "<project><artifactId>x</artifactId></project>"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("incomplete pom error = %v, want INVALID_FORMAT", err)
	}

	_, err = Read(writePOM(t, "<project"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("malformed pom error = %v, want INVALID_FORMAT", err)
	}
}

func TestExclusionCoords(t *testing.T) {
	m, _ := Parse([]byte(samplePOM))
	deps := m.ResolvableDependencies()
	excl := deps[0].ExclusionCoords()
	want := coord.Exclusion{GroupID: "commons-logging", ArtifactID: "commons-logging", Extension: "*", Classifier: "*"}
	if len(excl) != 1 || excl[0] != want {
		t.Errorf("ExclusionCoords() = %+v, want [%+v]", excl, want)
	}
}
