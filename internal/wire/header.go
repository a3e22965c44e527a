package wire

// newFrame starts a frame buffer with the two header bytes.
func newFrame(tag uint8) []byte {
	return []byte{BinaryProtocolVersion, tag}
}

// readHeader consumes and validates the two header bytes, returning the
// event type tag.
func readHeader(r *frameReader) (uint8, error) {
	version, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if version != BinaryProtocolVersion {
		return 0, ErrBadVersion
	}
	return r.readByte()
}
