package globals

// ContextKey is the type for request-context keys set by middleware.
type ContextKey string

// UserEmailKey carries the verified admin email through the request context.
const UserEmailKey ContextKey = "userEmail"
