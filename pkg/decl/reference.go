package decl

import (
	"github.com/matzehuels/mvnkit/pkg/errors"
)

// reference is embedded by every declaration that may alias another.
type reference struct {
	project *Project
	refid   string
}

func (r *reference) refID() string { return r.refid }

// IsReference reports whether the declaration aliases another one.
func (r *reference) IsReference() bool { return r.refid != "" }

// RefID returns the aliased id, or "" for a direct declaration.
func (r *reference) RefID() string { return r.refid }

// Referenced returns the declaration registered under the aliased id.
func (r *reference) Referenced() (any, bool) {
	if r.refid == "" {
		return nil, false
	}
	return r.project.Reference(r.refid)
}

// setRef turns the declaration into an alias of id. self is the declaration
// itself, used to reject aliasing a declaration to its own id.
func (r *reference) setRef(kind string, self any, id string, configured bool) error {
	if configured {
		return tooManyAttributes(kind)
	}
	if r.refid != "" {
		return errors.New(errors.ErrCodeInvalidReference, "%s already references %q", kind, r.refid)
	}
	if err := errors.ValidateRefID(id); err != nil {
		return err
	}
	if v, ok := r.project.Reference(id); ok && v == self {
		return errors.New(errors.ErrCodeInvalidReference, "%s %q cannot reference itself", kind, id)
	}
	r.refid = id
	return nil
}

// checkAttributesAllowed rejects attributes on an alias.
func (r *reference) checkAttributesAllowed(kind string) error {
	if r.refid != "" {
		return tooManyAttributes(kind)
	}
	return nil
}

// checkChildrenAllowed rejects nested elements on an alias.
func (r *reference) checkChildrenAllowed(kind string) error {
	if r.refid != "" {
		return errors.New(errors.ErrCodeInvalidReference,
			"%s: you must not specify nested elements when using refid", kind)
	}
	return nil
}

func tooManyAttributes(kind string) error {
	return errors.New(errors.ErrCodeInvalidReference,
		"%s: you must not specify more than one attribute when using refid", kind)
}

// aliasable is satisfied by pointers to declarations embedding reference.
type aliasable interface {
	comparable
	refID() string
}

// follow resolves start through its chain of aliases to the declaration
// that carries the actual configuration. Dangling ids, ids naming a different
// kind of declaration and cycles are errors.
func follow[T aliasable](start T, project *Project, kind string) (T, error) {
	cur := start
	seen := map[T]bool{}
	for cur.refID() != "" {
		if seen[cur] {
			return cur, errors.New(errors.ErrCodeInvalidReference, "circular reference to %s %q", kind, cur.refID())
		}
		seen[cur] = true

		v, ok := project.Reference(cur.refID())
		if !ok {
			return cur, errors.New(errors.ErrCodeInvalidReference, "reference %q not found", cur.refID())
		}
		next, ok := v.(T)
		if !ok {
			return cur, errors.New(errors.ErrCodeInvalidReference, "reference %q is not a %s", cur.refID(), kind)
		}
		cur = next
	}
	return cur, nil
}

func ambiguousCoords(kind string) error {
	return errors.New(errors.ErrCodeAmbiguousCoordinates,
		"ambiguous %s coordinates, specify either the coords attribute or the individual fields, but not both", kind)
}

func missing(kind, field string) error {
	return errors.New(errors.ErrCodeInvalidDeclaration, "you must specify the '%s' for a %s", field, kind)
}
