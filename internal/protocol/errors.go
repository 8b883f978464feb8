package protocol

import "errors"

// Kind classifies every failure the datagram layer can report. The set is
// shared with the session layer, which reports address and fingerprint
// mismatches using the same type.
type Kind uint8

const (
	KindOK Kind = iota
	KindAddress
	KindFingerprint
	KindException
	KindNoMem
	KindInvalidType
	KindInvalidFlags
)

// Description returns the fixed human-readable text for k.
func (k Kind) Description() string {
	switch k {
	case KindOK:
		return "no error"
	case KindAddress:
		return "received datagram does not match configured OUI or DID"
	case KindFingerprint:
		return "received datagram's fingerprint does not match locally computed fingerprint"
	case KindException:
		return "unknown error"
	case KindNoMem:
		return "provided buffer is too small for request"
	case KindInvalidType:
		return "invalid datagram type"
	case KindInvalidFlags:
		return "invalid datagram flags"
	default:
		return "unrecognized error kind"
	}
}

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindAddress:
		return "address"
	case KindFingerprint:
		return "fingerprint"
	case KindException:
		return "exception"
	case KindNoMem:
		return "nomem"
	case KindInvalidType:
		return "invalid_type"
	case KindInvalidFlags:
		return "invalid_flags"
	default:
		return "unknown"
	}
}

// Error is a classified failure with an optional underlying cause.
//
// errors.Is matches an *Error target without a cause by kind alone, so
// errors.Is(err, ErrNoMem) holds for every insufficient-space failure, while
// errors.Is(err, ErrTruncated) selects the specific cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "protocol: " + e.Kind.Description()
	}
	return "protocol: " + e.Kind.Description() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels, for use with errors.Is.
var (
	ErrAddress      = &Error{Kind: KindAddress}
	ErrFingerprint  = &Error{Kind: KindFingerprint}
	ErrException    = &Error{Kind: KindException}
	ErrNoMem        = &Error{Kind: KindNoMem}
	ErrInvalidType  = &Error{Kind: KindInvalidType}
	ErrInvalidFlags = &Error{Kind: KindInvalidFlags}
)

// Causes carried inside an *Error.
var (
	ErrTruncated       = errors.New("truncated datagram")
	ErrTrailingBytes   = errors.New("trailing bytes after payload")
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	ErrShortOutput     = errors.New("payload output buffer too small")
	ErrTypeMismatch    = errors.New("datagram is not monolithic")
	ErrReservedFlags   = errors.New("reserved flag bits set")
)

func newError(kind Kind, cause error) error {
	return &Error{Kind: kind, Err: cause}
}

// KindOf reports the kind of err. Errors that did not originate in this
// package are classified as KindException.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindException
}
