package decl

import (
	"testing"

	"github.com/matzehuels/mvnkit/pkg/coord"
	"github.com/matzehuels/mvnkit/pkg/errors"
)

func mustDep(t *testing.T, p *Project, coords string) *Dependency {
	t.Helper()
	d := NewDependency(p)
	if err := d.SetCoords(coords); err != nil {
		t.Fatalf("SetCoords(%q): %v", coords, err)
	}
	return d
}

func wantCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !errors.Is(err, code) {
		t.Fatalf("error code = %q, want %q (%v)", errors.GetCode(err), code, err)
	}
}

func TestDependencyAmbiguousCoordinates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(d *Dependency) error
	}{
		{"coords then field", func(d *Dependency) error {
			if err := d.SetCoords("g:a:1"); err != nil {
				return err
			}
			return d.SetVersion("2")
		}},
		{"field then coords", func(d *Dependency) error {
			if err := d.SetGroupID("g"); err != nil {
				return err
			}
			return d.SetCoords("g:a:1")
		}},
		{"field twice", func(d *Dependency) error {
			if err := d.SetArtifactID("a"); err != nil {
				return err
			}
			return d.SetArtifactID("b")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCode(t, tt.fn(NewDependency(NewProject(""))), errors.ErrCodeAmbiguousCoordinates)
		})
	}
}

func TestDependencyFields(t *testing.T) {
	d := NewDependency(NewProject(""))
	for _, set := range []func(string) error{d.SetGroupID, d.SetArtifactID, d.SetVersion} {
		if err := set("x"); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	c, err := d.Coordinate()
	if err != nil {
		t.Fatal(err)
	}
	want := coord.Dependency{GroupID: "x", ArtifactID: "x", Version: "x", Type: "jar", Scope: "compile"}
	if c != want {
		t.Errorf("Coordinate() = %+v, want %+v", c, want)
	}
}

func TestDependencyValidate(t *testing.T) {
	p := NewProject("/base")

	d := NewDependency(p)
	_ = d.SetGroupID("g")
	_ = d.SetArtifactID("a")
	wantCode(t, d.Validate(), errors.ErrCodeInvalidDeclaration)

	sys := mustDep(t, p, "g:a:1:system")
	wantCode(t, sys.Validate(), errors.ErrCodeInvalidDeclaration)
	if err := sys.SetSystemPath("lib/a.jar"); err != nil {
		t.Fatal(err)
	}
	if err := sys.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got, _ := sys.SystemPath(); got != "/base/lib/a.jar" {
		t.Errorf("SystemPath() = %q", got)
	}

	notSys := mustDep(t, p, "g:a:1")
	_ = notSys.SetSystemPath("lib/a.jar")
	wantCode(t, notSys.Validate(), errors.ErrCodeInvalidDeclaration)
}

func TestDependencyExclusions(t *testing.T) {
	p := NewProject("")
	d := mustDep(t, p, "g:a:1")
	e := NewExclusion(p)
	if err := e.SetCoords("org.slf4j"); err != nil {
		t.Fatal(err)
	}
	if err := d.AddExclusion(e); err != nil {
		t.Fatal(err)
	}
	got, err := d.Exclusions()
	if err != nil {
		t.Fatal(err)
	}
	want := coord.Exclusion{GroupID: "org.slf4j", ArtifactID: "*", Extension: "*", Classifier: "*"}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Exclusions() = %+v, want [%+v]", got, want)
	}

	bad := NewExclusion(p)
	_ = bad.SetArtifactID("a")
	_ = d.AddExclusion(bad)
	wantCode(t, d.Validate(), errors.ErrCodeInvalidDeclaration)
}

func TestExclusionAmbiguous(t *testing.T) {
	e := NewExclusion(NewProject(""))
	if err := e.SetCoords("g:a"); err != nil {
		t.Fatal(err)
	}
	wantCode(t, e.SetClassifier("x"), errors.ErrCodeAmbiguousCoordinates)
}
