// Package workspace indexes build outputs that are not yet published.
//
// # Overview
//
// A build registers the POMs and artifacts it produces into an [Index] so
// that other modules of the same build resolve them directly from their
// backing files before any repository is consulted.
//
//	idx := workspace.New(workspace.NewMemoryStore())
//	_ = idx.RegisterKey(ctx, "test:dummy:pom:0.1-SNAPSHOT", "/path/to/pom.xml")
//	path, ok, _ := idx.FindExact(ctx, a)
//
// Keys are normalized artifact coordinates (groupId:artifactId:extension
// [:classifier]:version). Registration inserts or overwrites; entries are never
// removed individually, only cleared wholesale with [Index.Reset].
//
// # Storage
//
// The index delegates to a [Store]. [NewMemoryStore] keeps entries in a
// concurrent map for a single process. [NewRedisStore] keeps them in a Redis
// hash so several build processes can share one workspace by agreeing on a
// namespace.
//
// # Process-wide Index
//
// Components receive an explicit *Index. For the CLI, [Default] lazily
// creates one memory-backed index per process and [ResetDefault] clears it.
package workspace
