// Package rgerr defines the typed error kinds used across the engine.
package rgerr

import "fmt"

// Kind classifies an error for propagation-policy decisions: per-file
// failures are counted and skipped, manifest failures abort the run, and
// schema mismatches trigger an automatic rebuild rather than surfacing to
// the user.
type Kind string

const (
	// Config indicates invalid settings (a malformed config.json, an
	// unknown module id, etc).
	Config Kind = "config_error"
	// IO indicates a filesystem failure during read/write/list.
	IO Kind = "io_error"
	// Parse indicates a parser could not process a file; callers downgrade
	// this to "skip this chunk emission" rather than aborting.
	Parse Kind = "parse_error"
	// Model indicates the embedding runtime failed.
	Model Kind = "model_error"
	// Corrupt indicates a schema-version mismatch or JSON parse failure on
	// a persisted index file.
	Corrupt Kind = "corrupt_index"
	// Input indicates an API contract violation (e.g. mismatched vector
	// lengths passed to cosine similarity).
	Input Kind = "invalid_input"
)

// Error wraps an underlying cause with a Kind so callers can branch with
// errors.Is against the sentinel Kind values below.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, rgerr.IOError) work against the Kind sentinels.
func (e *Error) Is(target error) bool {
	k, ok := target.(kindSentinel)
	return ok && e.Kind == Kind(k)
}

type kindSentinel Kind

func (k kindSentinel) Error() string { return string(k) }

// Sentinels for errors.Is comparisons, e.g. errors.Is(err, rgerr.IOError).
var (
	ConfigError = error(kindSentinel(Config))
	IOError     = error(kindSentinel(IO))
	ParseError  = error(kindSentinel(Parse))
	ModelError  = error(kindSentinel(Model))
	CorruptErr  = error(kindSentinel(Corrupt))
	InputError  = error(kindSentinel(Input))
)

// Wrap produces an *Error of the given kind, annotated with the operation
// that failed.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
