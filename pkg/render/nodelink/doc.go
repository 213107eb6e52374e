// Package nodelink renders dependency declarations as node-link diagrams.
//
// # Overview
//
// [ToDOT] walks a dependency group and produces Graphviz DOT source: groups
// are folders, dependencies are rounded boxes, backing files and POMs are
// notes and exclusions hang off their owner with a red dashed edge. A
// declaration that aliases another is drawn dashed with an edge to the
// declaration it names.
//
//	dot, err := nodelink.ToDOT(group, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
