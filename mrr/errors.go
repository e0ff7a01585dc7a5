package mrr

import (
	"fmt"
	"strings"
)

type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindUnauthenticated
	KindValidation
)

type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	case KindUnauthenticated:
		return "marketplace: " + e.Message
	}
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

func isNotAuthenticated(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "not authenticated")
}

func newRemoteError(status int, msg string) *Error {
	if msg == "" {
		msg = "Unknown error"
	}
	if isNotAuthenticated(msg) {
		return &Error{Kind: KindUnauthenticated, Status: status, Message: msg}
	}
	return &Error{Kind: KindUpstream, Status: status, Message: msg}
}
