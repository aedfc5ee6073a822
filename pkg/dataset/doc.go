// Package dataset is the consumer surface of the data layer. The
// Manager facade resolves dataset identifiers to source files through
// the Catalog, loads and validates them on first access, and caches
// the result with single-flight semantics: concurrent requests for one
// identifier perform exactly one load, and all of them observe the
// same dataset or the same error.
//
// # Usage
//
//	mgr, err := dataset.NewManager(cfg, &dataset.Options{Logger: logger})
//	if err != nil {
//		return err
//	}
//	defer mgr.Close()
//
//	users, err := mgr.Get(ctx, "users")
//	alice, err := mgr.GetByID(ctx, "users", "alice", "username")
//	androids, err := mgr.GetFiltered(ctx, "devices",
//		facet.NewFilter().Where("platform", canon.String("Android")))
//	staging, err := mgr.GetWithEnvironment(ctx, "endpoints", "staging")
//
// Lookups return deep copies; callers can mutate results freely. A
// failed load is never cached: the error reaches every waiting caller
// and the next access retries. Strict validation (globally configured
// or per schema) turns an invalid dataset into a returned
// schema.ValidationError instead of a cached verdict.
package dataset
