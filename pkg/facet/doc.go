// Package facet filters dataset collections and merges environment
// variants.
//
// A Filter is a conjunction of equality and membership predicates over
// named entry fields (platform, priority, role). Filtering returns the
// ordered subsequence of a collection whose entries satisfy every
// clause; an entry missing a predicate field is a non-match, never an
// error. Overlay deep-merges an environment-specific override onto a
// base record.
//
// Both operations are pure: they read their inputs, build fresh output
// values, and hold no state between calls.
package facet
