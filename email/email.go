package email

import (
	"context"
	"fmt"
)

type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one message. Sends are not idempotent: a failed Send may
// still have delivered, so callers must not retry blindly.
type Sender interface {
	Send(ctx context.Context, msg Message) (messageId string, err error)
	Name() string
}

type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindConnection
	KindTimeout
	KindRejected
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindRejected:
		return "rejected"
	case KindConfig:
		return "config"
	}
	return "unknown"
}

type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s email %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validate(provider string, msg Message) error {
	if msg.From == "" || msg.To == "" {
		return &Error{Kind: KindConfig, Provider: provider, Err: fmt.Errorf("from and to addresses are required")}
	}
	return nil
}
