// Package decl models the dependency, artifact, POM and repository
// declarations of a build and validates them before resolution.
//
// # Overview
//
// Declarations form a small tree. A [Dependencies] group holds leaf
// [Dependency] entries and nested groups, or is backed by a single external
// source: a flat file of coordinate lines or a [Pom]. An [Artifacts] group
// holds the files a build publishes.
//
// Every declaration is created against a [Project], which names
// declarations so they can be referenced. A declaration given a reference id
// with SetRefID becomes an alias: it rejects every further attribute or child
// and forwards validation and queries to the declaration it names.
//
// # Validation
//
// [Dependencies.Validate] walks the tree depth-first. For each group it checks
// the group's own configuration (file and POM are mutually exclusive and
// neither may be combined with nested dependencies), then its exclusions,
// then its direct children in declaration order. Two direct leaf children
// with the same versionless key are reported with both versions; nested
// groups are validated independently, so duplicates across groups are
// allowed.
//
// Errors carry codes from [errors]: AMBIGUOUS_COORDINATES when coordinates are
// given both as a string and as fields, CONFLICTING_SOURCES for mutually
// exclusive configuration, DUPLICATE_DEPENDENCY / DUPLICATE_ARTIFACT for
// collisions and INVALID_REFERENCE for alias misuse.
//
// [errors]: github.com/matzehuels/mvnkit/pkg/errors
package decl
