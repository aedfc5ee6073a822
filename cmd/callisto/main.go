// Callisto is a test-data management layer: it loads fixture data from
// JSON, YAML, CSV, and SQLite sources into one canonical form, validates
// it against named schemas, and serves filtered and environment-specific
// views from a single-flight cache.
//
// Usage:
//
//	# Validate every dataset with a bound schema
//	callisto validate
//
//	# Validate specific datasets
//	callisto validate users devices
//
//	# List discovered datasets
//	callisto list
//
//	# Print a dataset, a filtered view, or an environment view
//	callisto get users
//	callisto get devices --field platform=Android --field test_priority=high
//	callisto get endpoints --env staging
//
//	# Query the load journal
//	callisto history --dataset users --outcome failed
//
//	# Show version information
//	callisto version
package main

func main() {
	Execute()
}
