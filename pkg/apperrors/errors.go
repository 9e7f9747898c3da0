// Package apperrors defines the error kinds raised by the asset engine.
package apperrors

import "fmt"

// Kind categorizes an engine error.
type Kind string

const (
	KindPathMalformed      Kind = "PATH_MALFORMED"
	KindNoFetchEngine      Kind = "NO_FETCH_ENGINE"
	KindFetchFailed        Kind = "FETCH_FAILED"
	KindNoProtocol         Kind = "NO_PROTOCOL"
	KindProtocolFailed     Kind = "PROTOCOL_FAILED"
	KindEntityMissing      Kind = "ENTITY_MISSING"
	KindComponentAbsent    Kind = "COMPONENT_ABSENT"
	KindQuiescenceTimeout  Kind = "QUIESCENCE_TIMEOUT"
)

// AssetError is the engine's error type: a kind, the offending path (if
// any), a message, and a chained cause.
type AssetError struct {
	Kind    Kind
	Path    string
	Message string
	Err     error
}

func (e *AssetError) Error() string {
	if e.Path != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s (path=%s): %v", e.Kind, e.Message, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Kind, e.Message, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

func newKind(kind Kind, path, message string, err error) error {
	return &AssetError{Kind: kind, Path: path, Message: message, Err: err}
}

func NewPathMalformed(path, message string) error {
	return newKind(KindPathMalformed, path, message, nil)
}

func NewNoFetchEngine(path string) error {
	return newKind(KindNoFetchEngine, path, "no fetch engine accepted the path", nil)
}

func NewFetchFailed(path string, cause error) error {
	return newKind(KindFetchFailed, path, "fetch failed", cause)
}

func NewNoProtocol(path, scheme string) error {
	return newKind(KindNoProtocol, path, fmt.Sprintf("no protocol registered for scheme %q", scheme), nil)
}

func NewProtocolFailed(path string, cause error) error {
	return newKind(KindProtocolFailed, path, "protocol failed", cause)
}

func NewEntityMissing(path string) error {
	return newKind(KindEntityMissing, path, "entity does not exist", nil)
}

func NewComponentAbsent(path string) error {
	return newKind(KindComponentAbsent, path, "component not present on entity", nil)
}

func NewQuiescenceTimeout() error {
	return newKind(KindQuiescenceTimeout, "", "database did not reach quiescence before the deadline", nil)
}

// Is reports whether err is an *AssetError of the given kind.
func Is(err error, kind Kind) bool {
	ae, ok := err.(*AssetError)
	return ok && ae.Kind == kind
}
