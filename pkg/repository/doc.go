// Package repository reads and writes Maven repositories.
//
// A [Local] repository is a directory laid out by a [layout.Layout], by
// default the standard Maven layout under ~/.m2/repository. A [Remote] is
// an HTTP repository: artifacts are downloaded with GET and deployed with
// PUT, both retried on transient failures.
//
// [Plan] turns a POM declaration and an artifact group into the list of
// files a build publishes; [InstallAll] and [DeployAll] publish them.
//
// [layout.Layout]: github.com/matzehuels/mvnkit/pkg/layout
package repository
