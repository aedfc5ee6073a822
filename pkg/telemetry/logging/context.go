package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// DatasetKey is the context key for dataset identifiers.
	DatasetKey contextKey = "dataset"

	// EnvironmentKey is the context key for environment names.
	EnvironmentKey contextKey = "environment"

	// OperationKey is the context key for operation names.
	OperationKey contextKey = "operation"
)

// WithDataset adds a dataset identifier to the context.
func WithDataset(ctx context.Context, dataset string) context.Context {
	return context.WithValue(ctx, DatasetKey, dataset)
}

// GetDataset retrieves the dataset identifier from the context.
func GetDataset(ctx context.Context) string {
	if dataset, ok := ctx.Value(DatasetKey).(string); ok {
		return dataset
	}
	return ""
}

// WithEnvironment adds an environment name to the context.
func WithEnvironment(ctx context.Context, environment string) context.Context {
	return context.WithValue(ctx, EnvironmentKey, environment)
}

// GetEnvironment retrieves the environment name from the context.
func GetEnvironment(ctx context.Context) string {
	if environment, ok := ctx.Value(EnvironmentKey).(string); ok {
		return environment
	}
	return ""
}

// WithOperation adds an operation name to the context.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// GetOperation retrieves the operation name from the context.
func GetOperation(ctx context.Context) string {
	if operation, ok := ctx.Value(OperationKey).(string); ok {
		return operation
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if dataset := GetDataset(ctx); dataset != "" {
		fields = append(fields, "dataset", dataset)
	}
	if environment := GetEnvironment(ctx); environment != "" {
		fields = append(fields, "environment", environment)
	}
	if operation := GetOperation(ctx); operation != "" {
		fields = append(fields, "operation", operation)
	}

	return fields
}
