package database

import "fmt"

// ValidationError reports a missing or malformed argument, detected before
// any database interaction.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Field)
}

// NotFoundError reports an unknown database identifier, or a table whose
// existence was specifically checked and not found.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

// NoDefaultError is returned when no database identifier was given and no
// default is configured.
type NoDefaultError struct{}

func (e *NoDefaultError) Error() string {
	return "no database identifier given and no default database configured"
}

// ConnectionError reports that a connection could not be established, or
// that an established connection is no longer usable.
type ConnectionError struct {
	Database string
	Cause    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error (%s): %v", e.Database, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// QueryError reports a statement the database rejected or failed. The
// originating database message is preserved in Cause.
type QueryError struct {
	Query string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v", e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}
