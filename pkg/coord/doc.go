// Package coord parses Maven coordinate strings.
//
// # Overview
//
// Three grammars are supported, each producing an immutable value:
//
//   - [Dependency]: groupId:artifactId:version[[:type[:classifier]]:scope]
//   - [Exclusion]:  groupId[:artifactId[:extension[:classifier]]]
//   - [Artifact]:   groupId:artifactId[:extension[:classifier]]:version
//
// Omitted fields take documented defaults: a dependency's type is "jar",
// its classifier empty and its scope "compile"; every omitted exclusion field
// is the wildcard "*"; an artifact's extension is "jar".
//
//	d, _ := coord.ParseDependency("org.apache.maven:maven-model:3.0")
//	d.VersionlessKey() // "org.apache.maven:maven-model:jar"
//
// Parsing is referentially transparent: the same input always yields an equal
// value, so parsed coordinates are safe to use as map keys.
package coord
