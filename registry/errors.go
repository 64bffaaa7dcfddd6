package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jonwraymond/toollinker/config"
)

// Sentinel errors for consistent error handling.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrNameConflict     = errors.New("service already registered")
	ErrConnectionFailed = errors.New("connection failed")
	ErrServiceNotFound  = errors.New("service not found")
	ErrToolNotFound     = errors.New("tool not found")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrExecutionFailed  = errors.New("tool execution failed")

	ErrSourceNotFound  = config.ErrSourceNotFound
	ErrMalformedSource = config.ErrMalformedSource
)

// ErrCodeInvalidParams is the JSON-RPC 2.0 code a remote server uses to
// reject call arguments.
const ErrCodeInvalidParams = -32602

// NotFoundError reports a missing service or tool together with the names
// that do exist. It unwraps to ErrServiceNotFound or ErrToolNotFound.
type NotFoundError struct {
	// Kind is ErrServiceNotFound or ErrToolNotFound.
	Kind error
	// Name is the service or tool that was asked for.
	Name string
	// Service is set for tool lookups.
	Service string
	// Available lists valid alternatives, closest match first.
	Available []string
}

func newServiceNotFound(name string, available []string) *NotFoundError {
	return &NotFoundError{
		Kind:      ErrServiceNotFound,
		Name:      name,
		Available: rankAlternatives(name, available),
	}
}

func newToolNotFound(service, name string, available []string) *NotFoundError {
	return &NotFoundError{
		Kind:      ErrToolNotFound,
		Name:      name,
		Service:   service,
		Available: rankAlternatives(name, available),
	}
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	if e.Kind == ErrToolNotFound {
		fmt.Fprintf(&b, "tool %q not found in service %q", e.Name, e.Service)
	} else {
		fmt.Fprintf(&b, "service %q not found", e.Name)
	}
	switch {
	case len(e.Available) > 0:
		b.WriteString("; available: ")
		b.WriteString(strings.Join(e.Available, ", "))
	case e.Kind == ErrToolNotFound:
		b.WriteString("; the service has no tools")
	default:
		b.WriteString("; no services registered")
	}
	return b.String()
}

func (e *NotFoundError) Unwrap() error { return e.Kind }

// rankAlternatives puts fuzzy matches for name first, best match leading,
// followed by the remaining names in their original order.
func rankAlternatives(name string, available []string) []string {
	if len(available) == 0 {
		return nil
	}
	out := make([]string, 0, len(available))
	seen := make(map[int]bool, len(available))
	if name != "" {
		for _, m := range fuzzy.Find(name, available) {
			out = append(out, m.Str)
			seen[m.Index] = true
		}
	}
	for i, n := range available {
		if !seen[i] {
			out = append(out, n)
		}
	}
	return out
}

// isArgumentRejection reports whether a remote error message describes
// malformed call arguments rather than a failure inside the tool.
func isArgumentRejection(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "invalid params") ||
		strings.Contains(msg, fmt.Sprint(ErrCodeInvalidParams)) ||
		strings.Contains(msg, `validating "arguments"`) ||
		strings.Contains(msg, "unmarshaling arguments")
}
