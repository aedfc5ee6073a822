// Package schema validates canonical data trees against declared
// schemas.
//
// A Schema is built once from a record-table (JSON) document and then
// never mutated: every constraint (required fields, types, enums,
// formats, bounds, patterns, nested specs) is compiled into a typed
// FieldSpec tree up front, so validation never re-interprets the schema
// document. Schema documents live one per name under the schemas
// directory and are served by a Library that caches parsed schemas.
//
// Validation collects every defect rather than stopping at the first:
//
//	result := schema.Validate(value, userSchema)
//	if !result.Valid() {
//	    for _, fieldErr := range result.Errors {
//	        fmt.Println(fieldErr.Path, fieldErr.Message)
//	    }
//	}
//
// A Result is data, not control flow. Callers that need validation to
// be fatal wrap it in a ValidationError, which is what strict mode in
// the dataset manager does.
package schema
