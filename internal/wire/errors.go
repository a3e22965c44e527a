package wire

import "errors"

// Decoder errors. Decoders never panic on malformed input; every failure
// mode a caller can hit is one of these.
var (
	ErrShortData    = errors.New("wire: short data")
	ErrBadVersion   = errors.New("wire: version mismatch")
	ErrUnknownEvent = errors.New("wire: unknown event type")
	ErrBadUTF8      = errors.New("wire: invalid utf-8")
	ErrBadJSON      = errors.New("wire: invalid json payload")
)
