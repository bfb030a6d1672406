// Package accumulation computes species accumulation curves over collections
// of labeled sets.
//
// Given a mapping from source identifier to a set of item labels (here,
// file-extension registries), Compute merges the sources largest-first and
// reports, per source, how many previously unseen labels it contributed and
// how many of its labels occur in no other source at all. The resulting
// trajectory of (cumulative total, cumulative unique) pairs is the input to
// the logarithmic curve fit in the fit package.
//
// The package is a pure computational core: no I/O, no logging, no retained
// state between calls.
package accumulation
