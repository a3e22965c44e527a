package wire

import (
	"encoding/binary"
	"math"
)

// ClientEventKind tags the variant carried by a ClientEvent.
type ClientEventKind uint8

const (
	ClientStartGame ClientEventKind = iota
	ClientPickAWord
	ClientPointerDown
	ClientPointerMove
	ClientPointerUp
	ClientPointerLeave
	ClientChangeColor
	ClientMessage
)

// ClientEvent is the decoded form of any frame a client may send. Only the
// fields relevant to Kind are populated.
type ClientEvent struct {
	Kind    ClientEventKind
	Word    string
	X, Y    float64
	Color   string
	Message string
}

// EncodeClientEvent serializes a client event, mainly used by tests and by
// any harness that simulates a client.
func EncodeClientEvent(e ClientEvent) ([]byte, error) {
	switch e.Kind {
	case ClientStartGame:
		return newFrame(TagClientStartGame), nil
	case ClientPickAWord:
		buf := newFrame(TagClientPickAWord)
		buf = appendField(buf, []byte(e.Word))
		return buf, nil
	case ClientPointerDown:
		return newFrame(TagClientPointerDown), nil
	case ClientPointerMove:
		buf := newFrame(TagClientPointerMove)
		buf = appendField(buf, f64Bytes(e.X))
		buf = appendField(buf, f64Bytes(e.Y))
		return buf, nil
	case ClientPointerUp:
		return newFrame(TagClientPointerUp), nil
	case ClientPointerLeave:
		return newFrame(TagClientPointerLeave), nil
	case ClientChangeColor:
		buf := newFrame(TagClientChangeColor)
		buf = appendField(buf, []byte(e.Color))
		return buf, nil
	case ClientMessage:
		buf := newFrame(TagClientMessage)
		buf = appendField(buf, []byte(e.Message))
		return buf, nil
	default:
		return nil, ErrUnknownEvent
	}
}

// DecodeClientEvent parses one inbound frame into a ClientEvent.
func DecodeClientEvent(data []byte) (ClientEvent, error) {
	r := newFrameReader(data)

	tag, err := readHeader(r)
	if err != nil {
		return ClientEvent{}, err
	}

	switch tag {
	case TagClientStartGame:
		return ClientEvent{Kind: ClientStartGame}, nil
	case TagClientPickAWord:
		word, err := r.readField()
		if err != nil {
			return ClientEvent{}, err
		}
		w, err := toUTF8(word)
		if err != nil {
			return ClientEvent{}, err
		}
		return ClientEvent{Kind: ClientPickAWord, Word: w}, nil
	case TagClientPointerDown:
		return ClientEvent{Kind: ClientPointerDown}, nil
	case TagClientPointerMove:
		xb, err := r.readField()
		if err != nil {
			return ClientEvent{}, err
		}
		yb, err := r.readField()
		if err != nil {
			return ClientEvent{}, err
		}
		x, err := bytesF64(xb)
		if err != nil {
			return ClientEvent{}, err
		}
		y, err := bytesF64(yb)
		if err != nil {
			return ClientEvent{}, err
		}
		return ClientEvent{Kind: ClientPointerMove, X: x, Y: y}, nil
	case TagClientPointerUp:
		return ClientEvent{Kind: ClientPointerUp}, nil
	case TagClientPointerLeave:
		return ClientEvent{Kind: ClientPointerLeave}, nil
	case TagClientChangeColor:
		color, err := r.readField()
		if err != nil {
			return ClientEvent{}, err
		}
		c, err := toUTF8(color)
		if err != nil {
			return ClientEvent{}, err
		}
		return ClientEvent{Kind: ClientChangeColor, Color: c}, nil
	case TagClientMessage:
		message, err := r.readField()
		if err != nil {
			return ClientEvent{}, err
		}
		m, err := toUTF8(message)
		if err != nil {
			return ClientEvent{}, err
		}
		return ClientEvent{Kind: ClientMessage, Message: m}, nil
	default:
		return ClientEvent{}, ErrUnknownEvent
	}
}

func f64Bytes(v float64) []byte {
	return binary.BigEndian.AppendUint64(nil, math.Float64bits(v))
}

func bytesF64(b []byte) (float64, error) {
	if len(b) != 8 {
		return 0, ErrShortData
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}
