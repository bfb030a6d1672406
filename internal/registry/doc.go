// Package registry loads file-extension registries from disk into the
// uniform mapping consumed by the accumulation core.
//
// Three on-disk formats are supported, dispatched on file extension:
// the extensions.yml schema (re-indexed by registry identifier), the
// registries.jsonl format (one registry object per line), and a plain JSON
// object mapping source to extension list.
package registry
