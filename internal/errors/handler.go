package errors

import "fmt"

// BadReturnError signals that a handler callback returned (or panicked with)
// a value that does not match any of the accepted outcome shapes (spec §4.3,
// §7: "Handler contract"). This is unrecoverable and ends the session.
type BadReturnError struct {
	Callback string
	Value    interface{}
}

func (e *BadReturnError) Error() string {
	return fmt.Sprintf("handler.%s returned an invalid value: %#v", e.Callback, e.Value)
}
