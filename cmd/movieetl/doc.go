// Package main hosts the movieetl CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, wires the catalog store,
// enrichment client and row sources together, and hands them to the
// pipeline. Load semantics live in the internal packages; commands here only
// translate flags into configuration and render results.
package main
