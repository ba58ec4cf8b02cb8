package ingest

import "fmt"

// MissingFieldError reports a required field absent from a single-task
// payload. The field name is surfaced so the payload author can fix it.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// SchemaError reports a structurally invalid element in a bulk payload.
// The whole batch is rejected; Index says which element broke it.
type SchemaError struct {
	Index int
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("task %d: missing required property %q", e.Index, e.Field)
}
