// Package pkg provides the core libraries for mvnkit.
//
// # Overview
//
// mvnkit lets builds that are not driven by Maven take part in the Maven
// ecosystem: declare dependencies, resolve them to files, and install or
// deploy build outputs together with their POMs. The pkg directory is
// organized into four areas:
//
//  1. Coordinates and paths: [coord], [layout], [version]
//  2. Declarations: [decl], [pom], [buildfile], [settings]
//  3. Artifact access: [workspace], [repository], [resolve], [httputil]
//  4. Surfaces: [serve], [render/nodelink], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	mvnkit.toml + settings.xml
//	         ↓
//	    [buildfile] (declarations, properties, references)
//	         ↓
//	    [decl] (validated container tree, flattened entries)
//	         ↓
//	    [resolve] (workspace → local repository → remotes)
//	         ↓
//	    classpath, properties or copied files
//
// Build outputs travel the other way: [buildfile] lists them as
// publications, [workspace] makes them visible to sibling builds and
// [repository] installs or deploys them.
//
// # Quick Start
//
//	b, err := buildfile.Load("mvnkit.toml", nil)
//	if err != nil {
//	    return err
//	}
//	if err := b.Validate(); err != nil {
//	    return err
//	}
//	deps, _ := b.AllDependencies()
//	collected, _ := deps.Collect()
//
//	r := &resolve.Resolver{
//	    Workspace: workspace.Default(),
//	    Local:     repository.NewLocal(settings.LocalRepository(nil, nil)),
//	}
//	report, _ := r.Resolve(ctx, resolve.Request{
//	    Dependencies: collected.Dependencies,
//	    Exclusions:   collected.Exclusions,
//	})
//	fmt.Println(report.Classpath())
//
// # Main Packages
//
// [coord] - Dependency, artifact and exclusion coordinates with Maven's
// defaults and glob matching for exclusions.
//
// [layout] - Compiled path templates such as the Maven repository layout,
// with a small LRU cache of compiled templates.
//
// [decl] - The declaration tree: dependencies, dependency groups, POMs,
// artifacts and remote repositories, with references, source conflicts and
// duplicate detection.
//
// [workspace] - Index of artifacts produced by builds in the same
// workspace, in memory or shared through Redis.
//
// [resolve] - Direct dependency resolution through the workspace, the local
// repository and remote repositories.
//
// [serve] - HTTP view of a workspace laid out as a Maven repository.
package pkg
