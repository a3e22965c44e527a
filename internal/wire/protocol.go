// Package wire implements the binary, length-prefixed frame protocol that
// carries events between server and clients over the game's WebSocket
// connections.
//
// Every frame starts with two header bytes: [version, event_type]. Each
// variable-length field that follows is framed with a small builder
// (appendField / readField) so every encode site gets the same two-tier
// varint length prefix without repeating it by hand.
package wire

// BinaryProtocolVersion is the single supported wire version. A frame whose
// first byte doesn't match this is a hard decode error.
const BinaryProtocolVersion uint8 = 1

// Client-to-server event tags.
const (
	TagClientStartGame    uint8 = 0
	TagClientPickAWord    uint8 = 1
	TagClientPointerDown  uint8 = 2
	TagClientPointerMove  uint8 = 3
	TagClientPointerUp    uint8 = 4
	TagClientPointerLeave uint8 = 5
	TagClientChangeColor  uint8 = 6
	TagClientMessage      uint8 = 7
)

// Server-to-client event tags.
const (
	TagServerError         uint8 = 0
	TagServerConnectError  uint8 = 1
	TagServerUserJoined    uint8 = 2
	TagServerUserLeft      uint8 = 3
	TagServerStartGame     uint8 = 4
	TagServerPickAWord     uint8 = 5
	TagServerEndGame       uint8 = 6
	TagServerResetRoom     uint8 = 7
	TagServerNewTurn       uint8 = 8
	TagServerNewWord       uint8 = 9
	TagServerNewRound      uint8 = 10
	TagServerNewHost       uint8 = 11
	TagServerPointerDown   uint8 = 12
	TagServerPointerMove   uint8 = 13
	TagServerPointerUp     uint8 = 14
	TagServerPointerLeave  uint8 = 15
	TagServerChangeColor   uint8 = 16
	TagServerSendGameState uint8 = 17
	TagServerMessage       uint8 = 18
	TagServerAddScore      uint8 = 19
	TagServerTick          uint8 = 20
	TagServerUserGuessed   uint8 = 21
	TagServerSystemMessage uint8 = 22
)

// RevealWord has no tag of its own: it reuses NewWord, routed only to the
// user who just guessed.
