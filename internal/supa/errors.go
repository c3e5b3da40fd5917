package supa

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies remote-store failures into the three classes the
// submission pipeline reacts to.
type Kind int

const (
	// KindOther is any failure with no special handling: surfaced verbatim.
	KindOther Kind = iota
	// KindSchemaCacheStale means PostgREST rejected the request because its
	// cached view of the table structure is out of date. These errors are
	// raised before anything is written, so one bounded retry is safe.
	KindSchemaCacheStale
	// KindNetworkUnreachable means the store host could not be resolved or
	// reached. The pipeline degrades to local mode instead of failing.
	KindNetworkUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindSchemaCacheStale:
		return "schema_cache_stale"
	case KindNetworkUnreachable:
		return "network_unreachable"
	default:
		return "other"
	}
}

// Error is the only error type the adapter lets out. Status is the HTTP
// status of the PostgREST response, 0 for transport-level failures.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.Status)
	}
	return "supabase: " + e.Message
}

var schemaMarkers = []string{"PGRST204", "schema cache"}

var networkMarkers = []string{
	"getaddrinfo failed",
	"Name or service not known",
	"Temporary failure in name resolution",
}

// ClassifyText applies the raw text heuristic inherited from the store's
// error surface. It is kept at this boundary only; everything above checks
// the structured Kind.
func ClassifyText(msg string) Kind {
	for _, m := range schemaMarkers {
		if strings.Contains(msg, m) {
			return KindSchemaCacheStale
		}
	}
	for _, m := range networkMarkers {
		if strings.Contains(msg, m) {
			return KindNetworkUnreachable
		}
	}
	return KindOther
}

// Classify returns the Kind of any error. Adapter errors carry their Kind;
// raw transport errors are inspected structurally (a *net.DNSError is the
// Go form of "getaddrinfo failed") and then by text.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindNetworkUnreachable
	}
	return ClassifyText(err.Error())
}

func IsSchemaCacheStale(err error) bool {
	return Classify(err) == KindSchemaCacheStale
}

func IsNetworkUnreachable(err error) bool {
	return Classify(err) == KindNetworkUnreachable
}

// wrapTransport converts a transport-level error from the HTTP client into
// an *Error with the right Kind.
func wrapTransport(err error) *Error {
	return &Error{Kind: Classify(err), Message: err.Error()}
}
