package notify

import (
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "INFO"
}

// Event is a failure worth reporting outside the request log: a 500 answer
// or a recovered panic.
type Event struct {
	Severity  Severity
	Err       error
	RequestId string
	// "METHOD /path", set when the request is known
	Route string
	Stack string
}

type Notifier func(ev Event)

var (
	mu       sync.RWMutex
	notifier Notifier
)

// Register installs the process-wide sink. nil disables reporting.
func Register(fn Notifier) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// Notify hands ev to the registered sink. A panicking sink is logged and
// never reaches the caller.
func Notify(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic in notifier: %v\n%s", r, debug.Stack())
		}
	}()

	mu.RLock()
	fn := notifier
	mu.RUnlock()

	if fn != nil {
		fn(ev)
	}
}

// Format renders ev as a single log entry, stack on the following lines.
func Format(ev Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", ev.Severity)
	if ev.RequestId != "" {
		fmt.Fprintf(&b, " [%s]", ev.RequestId)
	}
	if ev.Route != "" {
		fmt.Fprintf(&b, " %s", ev.Route)
	}
	if ev.Err != nil {
		fmt.Fprintf(&b, ": %v", ev.Err)
	}
	if ev.Stack != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(ev.Stack, "\n"))
	}
	return b.String()
}

// LogNotifier writes events to the standard logger. Error events are red in
// development.
func LogNotifier(colorize bool) Notifier {
	return func(ev Event) {
		msg := Format(ev)
		if colorize && ev.Severity == SeverityError {
			msg = color.New(color.FgHiRed).Sprint(msg)
		}
		log.Println(msg)
	}
}
