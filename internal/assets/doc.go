// Package assets resolves card documents from their declared source.
//
// Resolution is layered. Inline cards are used as-is; asset and catalog
// references are looked up in the invocation's own registry first, then in
// the host-provided registry file, the catalog file, and the asset base
// directory. A custom Fetcher, when installed, is the last layer, consulted
// only after every filesystem layer missed. Sandbox mode disables the
// filesystem layers entirely so the resolver never touches disk.
package assets
