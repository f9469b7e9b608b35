package postgres

// PostgreSQL error codes
const (
	// PgErrCodeUniqueViolation is raised when an insert hits a unique
	// constraint, e.g. a second record for the same (user, event).
	PgErrCodeUniqueViolation = "23505"
)
