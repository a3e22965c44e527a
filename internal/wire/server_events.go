package wire

import "encoding/binary"

// ServerEventKind tags the variant carried by a ServerEvent.
type ServerEventKind uint8

const (
	ServerError ServerEventKind = iota
	ServerConnectError
	ServerUserJoined
	ServerUserLeft
	ServerStartGame
	ServerPickAWord
	ServerEndGame
	ServerResetRoom
	ServerNewTurn
	ServerNewWord
	ServerNewRound
	ServerNewHost
	ServerPointerDown
	ServerPointerMove
	ServerPointerUp
	ServerPointerLeave
	ServerChangeColor
	ServerSendGameState
	ServerMessage
	ServerAddScore
	ServerTick
	ServerUserGuessed
	ServerSystemMessage
)

// ServerEvent is the decoded (or pre-encode) form of any frame the server
// sends. Only the fields relevant to Kind are populated. RevealWord has no
// Kind of its own — callers build it as ServerNewWord with Word set to the
// cleartext word and route it User{receiver_id: guesser}.
type ServerEvent struct {
	Kind ServerEventKind

	Message string // Error, ConnectError, SystemMessage

	User UserPayload // UserJoined

	UserID string // UserLeft, NewTurn, NewHost, AddScore, UserGuessed

	WordsToPick [3]string // PickAWord
	Word        string    // NewWord

	Round uint8 // NewRound

	X, Y  float64 // PointerMove
	Color string  // ChangeColor

	GameState GameStatePayload // SendGameState

	GuessMessage string // Message.message
	GuesserID    string // Message.user_id

	Score uint16 // AddScore.score

	TimeLeft uint8 // Tick.time_left
}

func tagFor(k ServerEventKind) uint8 {
	switch k {
	case ServerError:
		return TagServerError
	case ServerConnectError:
		return TagServerConnectError
	case ServerUserJoined:
		return TagServerUserJoined
	case ServerUserLeft:
		return TagServerUserLeft
	case ServerStartGame:
		return TagServerStartGame
	case ServerPickAWord:
		return TagServerPickAWord
	case ServerEndGame:
		return TagServerEndGame
	case ServerResetRoom:
		return TagServerResetRoom
	case ServerNewTurn:
		return TagServerNewTurn
	case ServerNewWord:
		return TagServerNewWord
	case ServerNewRound:
		return TagServerNewRound
	case ServerNewHost:
		return TagServerNewHost
	case ServerPointerDown:
		return TagServerPointerDown
	case ServerPointerMove:
		return TagServerPointerMove
	case ServerPointerUp:
		return TagServerPointerUp
	case ServerPointerLeave:
		return TagServerPointerLeave
	case ServerChangeColor:
		return TagServerChangeColor
	case ServerSendGameState:
		return TagServerSendGameState
	case ServerMessage:
		return TagServerMessage
	case ServerAddScore:
		return TagServerAddScore
	case ServerTick:
		return TagServerTick
	case ServerUserGuessed:
		return TagServerUserGuessed
	case ServerSystemMessage:
		return TagServerSystemMessage
	default:
		return 0xFF
	}
}

func kindForTag(tag uint8) (ServerEventKind, bool) {
	switch tag {
	case TagServerError:
		return ServerError, true
	case TagServerConnectError:
		return ServerConnectError, true
	case TagServerUserJoined:
		return ServerUserJoined, true
	case TagServerUserLeft:
		return ServerUserLeft, true
	case TagServerStartGame:
		return ServerStartGame, true
	case TagServerPickAWord:
		return ServerPickAWord, true
	case TagServerEndGame:
		return ServerEndGame, true
	case TagServerResetRoom:
		return ServerResetRoom, true
	case TagServerNewTurn:
		return ServerNewTurn, true
	case TagServerNewWord:
		return ServerNewWord, true
	case TagServerNewRound:
		return ServerNewRound, true
	case TagServerNewHost:
		return ServerNewHost, true
	case TagServerPointerDown:
		return ServerPointerDown, true
	case TagServerPointerMove:
		return ServerPointerMove, true
	case TagServerPointerUp:
		return ServerPointerUp, true
	case TagServerPointerLeave:
		return ServerPointerLeave, true
	case TagServerChangeColor:
		return ServerChangeColor, true
	case TagServerSendGameState:
		return ServerSendGameState, true
	case TagServerMessage:
		return ServerMessage, true
	case TagServerAddScore:
		return ServerAddScore, true
	case TagServerTick:
		return ServerTick, true
	case TagServerUserGuessed:
		return ServerUserGuessed, true
	case TagServerSystemMessage:
		return ServerSystemMessage, true
	default:
		return 0, false
	}
}

// EncodeServerEvent serializes a server event into the binary wire frame.
func EncodeServerEvent(e ServerEvent) ([]byte, error) {
	tag := tagFor(e.Kind)
	if tag == 0xFF {
		return nil, ErrUnknownEvent
	}
	buf := newFrame(tag)

	switch e.Kind {
	case ServerError, ServerConnectError, ServerSystemMessage:
		buf = appendField(buf, []byte(e.Message))

	case ServerUserJoined:
		data, err := toJSON(e.User)
		if err != nil {
			return nil, err
		}
		buf = appendField(buf, data)

	case ServerUserLeft, ServerNewTurn, ServerNewHost, ServerAddScore, ServerUserGuessed:
		buf = appendField(buf, []byte(e.UserID))
		if e.Kind == ServerAddScore {
			buf = appendField(buf, binary.BigEndian.AppendUint16(nil, e.Score))
		}

	case ServerStartGame, ServerEndGame, ServerResetRoom,
		ServerPointerDown, ServerPointerUp, ServerPointerLeave:
		// no payload

	case ServerPickAWord:
		data, err := toJSON(e.WordsToPick)
		if err != nil {
			return nil, err
		}
		buf = appendField(buf, data)

	case ServerNewWord:
		buf = appendField(buf, []byte(e.Word))

	case ServerNewRound:
		buf = appendByteField(buf, e.Round)

	case ServerPointerMove:
		buf = appendField(buf, f64Bytes(e.X))
		buf = appendField(buf, f64Bytes(e.Y))

	case ServerChangeColor:
		buf = appendField(buf, []byte(e.Color))

	case ServerSendGameState:
		data, err := toJSON(e.GameState)
		if err != nil {
			return nil, err
		}
		buf = appendField(buf, data)

	case ServerMessage:
		buf = appendField(buf, []byte(e.GuesserID))
		buf = appendField(buf, []byte(e.GuessMessage))

	case ServerTick:
		buf = appendByteField(buf, e.TimeLeft)

	default:
		return nil, ErrUnknownEvent
	}

	return buf, nil
}

// DecodeServerEvent parses one server-sent frame into a ServerEvent. Mainly
// exercised by round-trip tests and any harness driving a fake client.
func DecodeServerEvent(data []byte) (ServerEvent, error) {
	r := newFrameReader(data)

	tag, err := readHeader(r)
	if err != nil {
		return ServerEvent{}, err
	}

	kind, ok := kindForTag(tag)
	if !ok {
		return ServerEvent{}, ErrUnknownEvent
	}

	e := ServerEvent{Kind: kind}

	switch kind {
	case ServerError, ServerConnectError, ServerSystemMessage:
		field, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.Message, err = toUTF8(field)
		if err != nil {
			return ServerEvent{}, err
		}

	case ServerUserJoined:
		field, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		if err := fromJSON(field, &e.User); err != nil {
			return ServerEvent{}, err
		}

	case ServerUserLeft, ServerNewTurn, ServerNewHost, ServerUserGuessed:
		field, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.UserID, err = toUTF8(field)
		if err != nil {
			return ServerEvent{}, err
		}

	case ServerAddScore:
		field, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.UserID, err = toUTF8(field)
		if err != nil {
			return ServerEvent{}, err
		}
		scoreField, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		if len(scoreField) != 2 {
			return ServerEvent{}, ErrShortData
		}
		e.Score = binary.BigEndian.Uint16(scoreField)

	case ServerStartGame, ServerEndGame, ServerResetRoom,
		ServerPointerDown, ServerPointerUp, ServerPointerLeave:
		// no payload

	case ServerPickAWord:
		field, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		if err := fromJSON(field, &e.WordsToPick); err != nil {
			return ServerEvent{}, err
		}

	case ServerNewWord:
		field, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.Word, err = toUTF8(field)
		if err != nil {
			return ServerEvent{}, err
		}

	case ServerNewRound:
		b, err := r.readByteField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.Round = b

	case ServerPointerMove:
		xb, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		yb, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.X, err = bytesF64(xb)
		if err != nil {
			return ServerEvent{}, err
		}
		e.Y, err = bytesF64(yb)
		if err != nil {
			return ServerEvent{}, err
		}

	case ServerChangeColor:
		field, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.Color, err = toUTF8(field)
		if err != nil {
			return ServerEvent{}, err
		}

	case ServerSendGameState:
		field, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		if err := fromJSON(field, &e.GameState); err != nil {
			return ServerEvent{}, err
		}

	case ServerMessage:
		idField, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.GuesserID, err = toUTF8(idField)
		if err != nil {
			return ServerEvent{}, err
		}
		msgField, err := r.readField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.GuessMessage, err = toUTF8(msgField)
		if err != nil {
			return ServerEvent{}, err
		}

	case ServerTick:
		b, err := r.readByteField()
		if err != nil {
			return ServerEvent{}, err
		}
		e.TimeLeft = b

	default:
		return ServerEvent{}, ErrUnknownEvent
	}

	return e, nil
}
