package wire

// encodeLength turns a byte count into the sum-of-0xFF representation used
// for every variable-length field: repeated 0xFF bytes each worth 255,
// followed by a single terminal byte holding whatever remains. v == 0
// encodes as zero bytes. This is redundancy-free: unlike a plain varint, the
// length of the length never itself needs a length prefix beyond the one
// byte that precedes it.
func encodeLength(n int) []byte {
	var out []byte
	v := n
	for v > 0 {
		if v > 255 {
			v -= 255
			out = append(out, 0xFF)
		} else {
			out = append(out, byte(v))
			break
		}
	}
	return out
}

// decodeLength sums the bytes back into a length.
func decodeLength(b []byte) int {
	n := 0
	for _, x := range b {
		n += int(x)
	}
	return n
}

// appendField appends {length_of_length, length_bytes..., data...} to buf,
// the one building block every variable-length encode site shares.
func appendField(buf []byte, data []byte) []byte {
	lenBytes := encodeLength(len(data))
	buf = append(buf, byte(len(lenBytes)))
	buf = append(buf, lenBytes...)
	buf = append(buf, data...)
	return buf
}

// appendByteField wraps a single fixed byte (e.g. Tick.time_left,
// NewRound.round) in the same field framing so decoders stay uniform.
func appendByteField(buf []byte, b byte) []byte {
	return appendField(buf, []byte{b})
}

// frameReader walks a decode buffer left to right, producing ErrShortData
// instead of panicking whenever a read would run past the end.
type frameReader struct {
	buf []byte
	pos int
}

func newFrameReader(buf []byte) *frameReader {
	return &frameReader{buf: buf}
}

func (r *frameReader) readByte() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, ErrShortData
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *frameReader) readN(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, ErrShortData
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// readField reads one length-of-length-prefixed field and returns its data.
func (r *frameReader) readField() ([]byte, error) {
	lenOfLen, err := r.readByte()
	if err != nil {
		return nil, err
	}

	lenBytes, err := r.readN(int(lenOfLen))
	if err != nil {
		return nil, err
	}

	length := decodeLength(lenBytes)

	return r.readN(length)
}

// readByteField reads a field known to hold exactly one data byte.
func (r *frameReader) readByteField() (byte, error) {
	data, err := r.readField()
	if err != nil {
		return 0, err
	}
	if len(data) != 1 {
		return 0, ErrShortData
	}
	return data[0], nil
}

func (r *frameReader) remaining() []byte {
	return r.buf[r.pos:]
}
