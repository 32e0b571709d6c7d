package mqtt5

import (
	"io"

	"github.com/cockroachdb/errors"
)

// Sentinel errors identifying the structural/semantic class of a codec
// failure. Callers match on these with errors.Is; CodecError (below) wraps
// one of them with the context needed to diagnose a specific failure.
var (
	// ErrMalformedPacket means the bytes on the wire violate a structural
	// rule: overlong VariableByteInteger, bad UTF-8, wrong CONNECT protocol
	// name/version, a reserved header nibble that isn't zero, a bad
	// RetainHandling code, oversized binary data, a client ID outside the
	// permitted range. A short read is of the same MalformedPacket kind but
	// wraps ErrUnexpectedEOF instead.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrProtocolError means the structure is well-formed but the MQTT 5
	// semantics are violated: a duplicate unique property, a property
	// forbidden in its containing packet, a zero SubscriptionIdentifier, an
	// empty ResponseTopic, a zero ReceiveMaximum, MaximumQoS=ExactlyOnce, an
	// AUTH without a method, AuthenticationData without
	// AuthenticationMethod, an empty SUBSCRIBE/UNSUBSCRIBE filter list, an
	// unknown enumeration value, reserved bits set in SubscriptionOptions.
	ErrProtocolError = errors.New("protocol error")

	// ErrUnexpectedEOF means the stream ended before a length-prefixed or
	// fixed-width field was fully read.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
)

// Kind classifies a codec error the way a dispatcher needs to: as an I/O
// failure to propagate verbatim, or as one of the two MQTT error classes to
// translate into a reason code.
type Kind int

const (
	KindIO Kind = iota
	KindMalformedPacket
	KindProtocolError
)

// CodecError is the error type this module's codec returns for read failures
// and MQTT-level violations; errors from the caller's writer are returned by
// Encode as they are. It joins the structural/semantic Kind with the reason
// code a dispatcher would answer with, and enough context — which packet,
// which field, which property identifier — to diagnose the failure without
// re-deriving it from the raw bytes.
type CodecError struct {
	kind       Kind
	reasonCode ReasonCode
	cause      error
}

func (e *CodecError) Error() string {
	return e.cause.Error()
}

func (e *CodecError) Unwrap() error {
	return e.cause
}

// Kind reports whether this is an I/O failure or an MQTT-level violation.
func (e *CodecError) Kind() Kind {
	return e.kind
}

// ReasonCode reports the MQTT 5 reason code a dispatcher should answer with
// for this failure. It is only meaningful when Kind is not KindIO.
func (e *CodecError) ReasonCode() ReasonCode {
	return e.reasonCode
}

// malformed wraps err as a MalformedPacket CodecError, tagging it with the
// packet/field context named in the format string.
func malformed(err error, format string, args ...interface{}) error {
	return &CodecError{
		kind:       KindMalformedPacket,
		reasonCode: ReasonMalformedPacket,
		cause:      errors.Wrapf(err, format, args...),
	}
}

func malformedf(format string, args ...interface{}) error {
	return malformed(ErrMalformedPacket, format, args...)
}

// protocolError wraps err as a ProtocolError CodecError with context.
func protocolError(err error, format string, args ...interface{}) error {
	return &CodecError{
		kind:       KindProtocolError,
		reasonCode: ReasonProtocolError,
		cause:      errors.Wrapf(err, format, args...),
	}
}

func protocolErrorf(format string, args ...interface{}) error {
	return protocolError(ErrProtocolError, format, args...)
}

// ioError classifies a reader/writer failure: a plain EOF/io.ErrUnexpectedEOF
// surfaces as a MalformedPacket-kind CodecError wrapping ErrUnexpectedEOF per
// spec (a short read on a framed field is a structural violation the caller
// can act on), an error that is already a CodecError is returned unchanged,
// and anything else rides through as a transport-level I/O failure.
func ioError(err error, format string, args ...interface{}) error {
	var ce *CodecError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return malformed(ErrUnexpectedEOF, format, args...)
	}
	return &CodecError{
		kind:  KindIO,
		cause: errors.Wrapf(err, format, args...),
	}
}

// GetReasonCode extracts the MQTT 5 reason code a dispatcher should respond
// with for err, falling back to UnspecifiedError for anything not produced
// by this package.
func GetReasonCode(err error) ReasonCode {
	var ce *CodecError
	if errors.As(err, &ce) {
		if ce.kind == KindIO {
			return ReasonUnspecifiedError
		}
		return ce.reasonCode
	}
	return ReasonUnspecifiedError
}

// IsMalformed reports whether err (or anything it wraps) is a
// MalformedPacket-class failure.
func IsMalformed(err error) bool {
	var ce *CodecError
	return errors.As(err, &ce) && ce.kind == KindMalformedPacket
}

// IsProtocolError reports whether err (or anything it wraps) is a
// ProtocolError-class failure.
func IsProtocolError(err error) bool {
	var ce *CodecError
	return errors.As(err, &ce) && ce.kind == KindProtocolError
}
