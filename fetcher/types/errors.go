package types

import "fmt"

// Kind classifies why a source or a registry operation failed.
type Kind int

const (
	// Transport covers connection, DNS, TLS, timeout and non-2xx responses.
	Transport Kind = iota
	// Parse means the body is not a syndication document.
	Parse
	// MissingField means a required feed-level field is absent.
	MissingField
	// LocalIO is any filesystem failure.
	LocalIO
	// NoConfigDir means no storage location could be resolved.
	NoConfigDir
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case Parse:
		return "parse"
	case MissingField:
		return "missing field"
	case LocalIO:
		return "local io"
	case NoConfigDir:
		return "no config dir"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a failure attributed to a source. It is returned as data next to
// successful feeds and never aborts sibling work.
type Error struct {
	Kind   Kind
	Source string
	Field  string // Set for MissingField
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == MissingField:
		return fmt.Sprintf("'%s' is missing required field '%s'", e.Source, e.Field)
	case e.Source == "" && e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("'%s' %s failure: %s", e.Source, e.Kind, e.Err)
	default:
		return fmt.Sprintf("'%s' %s failure", e.Source, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind, so callers can
// match with errors.Is(err, &types.Error{Kind: types.Parse}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}
