package errors

import "fmt"

// SessionStoppedError reports that handler.Init declined to start the
// session (spec §3: "if that returns stop ... the session terminates
// immediately with that reason").
type SessionStoppedError struct {
	Reason interface{}
}

func (e *SessionStoppedError) Error() string {
	return fmt.Sprintf("session stopped during init: %v", e.Reason)
}
