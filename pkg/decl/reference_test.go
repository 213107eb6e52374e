package decl

import (
	"testing"

	"github.com/matzehuels/mvnkit/pkg/errors"
)

func TestReferenceAlias(t *testing.T) {
	p := NewProject("")
	target := mustDep(t, p, "g:a:1:test")
	if err := p.AddReference("junit", target); err != nil {
		t.Fatal(err)
	}

	alias := NewDependency(p)
	if err := alias.SetRefID("junit"); err != nil {
		t.Fatal(err)
	}
	if !alias.IsReference() || alias.RefID() != "junit" {
		t.Fatalf("alias not marked as reference")
	}
	c, err := alias.Coordinate()
	if err != nil {
		t.Fatal(err)
	}
	if c.Scope != "test" {
		t.Errorf("alias scope = %q, want test", c.Scope)
	}

	wantCode(t, alias.SetVersion("2"), errors.ErrCodeInvalidReference)
	wantCode(t, alias.AddExclusion(NewExclusion(p)), errors.ErrCodeInvalidReference)
	wantCode(t, alias.SetRefID("other"), errors.ErrCodeInvalidReference)
}

func TestReferenceAfterAttributes(t *testing.T) {
	p := NewProject("")
	d := mustDep(t, p, "g:a:1")
	wantCode(t, d.SetRefID("x"), errors.ErrCodeInvalidReference)
}

func TestReferenceAfterExclusions(t *testing.T) {
	p := NewProject("")
	d := NewDependency(p)
	if err := d.AddExclusion(NewExclusion(p)); err != nil {
		t.Fatal(err)
	}
	wantCode(t, d.SetRefID("shared"), errors.ErrCodeInvalidReference)
	if d.IsReference() {
		t.Errorf("dependency with exclusions became an alias of %q", d.RefID())
	}
}

func TestReferenceToSelf(t *testing.T) {
	p := NewProject("")
	d := NewDependency(p)
	if err := p.AddReference("self", d); err != nil {
		t.Fatal(err)
	}
	wantCode(t, d.SetRefID("self"), errors.ErrCodeInvalidReference)

	alias := NewDependency(p)
	_ = alias.SetRefID("other")
	wantCode(t, p.AddReference("other", alias), errors.ErrCodeInvalidReference)
}

func TestReferenceCycle(t *testing.T) {
	p := NewProject("")
	a, b := NewDependency(p), NewDependency(p)
	_ = a.SetRefID("b")
	_ = b.SetRefID("a")
	_ = p.AddReference("a", a)
	_ = p.AddReference("b", b)

	_, err := a.Coordinate()
	wantCode(t, err, errors.ErrCodeInvalidReference)
}

func TestReferenceErrors(t *testing.T) {
	p := NewProject("")
	_ = p.AddReference("pom", NewPom(p))

	dangling := NewDependency(p)
	_ = dangling.SetRefID("missing")
	wantCode(t, dangling.Validate(), errors.ErrCodeInvalidReference)

	wrongKind := NewDependency(p)
	_ = wrongKind.SetRefID("pom")
	wantCode(t, wrongKind.Validate(), errors.ErrCodeInvalidReference)

	wantCode(t, NewDependency(p).SetRefID("bad id"), errors.ErrCodeInvalidReference)
}

func TestProjectReferences(t *testing.T) {
	p := NewProject("")
	for _, id := range []string{"b", "a", "c"} {
		if err := p.AddReference(id, NewPom(p)); err != nil {
			t.Fatal(err)
		}
	}
	wantCode(t, p.AddReference("a", NewPom(p)), errors.ErrCodeInvalidReference)

	got := p.References()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("References() = %v", got)
	}

	p.SetProperty("k", "v")
	if v, ok := p.Property("k"); !ok || v != "v" {
		t.Errorf("Property(k) = %q, %v", v, ok)
	}
}
