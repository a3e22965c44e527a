package session

import (
	"time"
	"unicode/utf8"

	"github.com/Ragudos/skribbl/internal/game"
	"github.com/Ragudos/skribbl/internal/wire"
)

// JoinMode selects how the Join Orchestrator picks (or creates) a room.
type JoinMode uint8

const (
	// JoinPlay auto-matches into a Waiting Public room with spare capacity
	// when RoomID is empty, or joins the named room otherwise.
	JoinPlay JoinMode = iota
	// JoinCreate always allocates a fresh Private room, caller as host.
	JoinCreate
)

// JoinRequest is the Handshake input: a thin front (HTTP query params, in
// this codebase) surfaces these three fields before upgrading the socket.
type JoinRequest struct {
	DisplayName string
	RoomID      string
	Mode        JoinMode
}

func validateDisplayName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 3 && n <= 20
}

// Join runs the Join Orchestrator: validates the handshake, matches or
// creates a room, registers the user, sends the initial snapshot directly
// on conn (never via the Bus), and announces UserJoined. On any join
// error it writes a ConnectError frame to conn itself and returns ok=false;
// the caller is then responsible for closing the socket.
func (s *Server) Join(conn *Conn, req JoinRequest) (roomID, userID string, ok bool) {
	if !validateDisplayName(req.DisplayName) {
		s.connectError(conn, "Display name is required and must be between 3 and 20 characters long")
		return "", "", false
	}

	switch req.Mode {
	case JoinCreate:
		return s.joinNewRoom(conn, req.DisplayName, game.Private)
	default:
		if req.RoomID == "" {
			return s.joinAutoMatch(conn, req.DisplayName)
		}
		return s.joinNamedRoom(conn, req.DisplayName, req.RoomID)
	}
}

func (s *Server) connectError(conn *Conn, message string) {
	data, err := wire.EncodeServerEvent(wire.ServerEvent{Kind: wire.ServerConnectError, Message: message})
	if err != nil {
		return
	}
	_ = conn.WriteBinary(data)
}

func (s *Server) joinNewRoom(conn *Conn, displayName string, visibility game.Visibility) (string, string, bool) {
	roomID := s.freshRoomID()
	userID := s.freshUserID()
	now := time.Now()

	room := game.NewRoom(roomID, userID, visibility, s.Limits.MaxUsers, s.Limits.MaxRounds, now)
	user := &game.User{ID: userID, DisplayName: displayName, RoomID: roomID}

	s.Registry.AddRoom(room)
	s.Registry.AddUser(user)

	s.sendSnapshot(conn, room, user, []*game.User{user})
	s.announceJoin(roomID, user)

	return roomID, userID, true
}

func (s *Server) joinAutoMatch(conn *Conn, displayName string) (string, string, bool) {
	if room := s.Registry.FindAvailablePublicRoom(); room != nil {
		return s.joinExistingRoom(conn, displayName, room)
	}
	return s.joinNewRoom(conn, displayName, game.Public)
}

func (s *Server) joinNamedRoom(conn *Conn, displayName, roomID string) (string, string, bool) {
	room := s.Registry.FindRoom(roomID)
	if room == nil {
		s.connectError(conn, "Room not found")
		return "", "", false
	}
	if room.State.Kind != game.Waiting {
		s.connectError(conn, "Room is not available")
		return "", "", false
	}
	if room.AmountOfUsers >= room.MaxUsers {
		s.connectError(conn, "Room is full")
		return "", "", false
	}
	return s.joinExistingRoom(conn, displayName, room)
}

func (s *Server) joinExistingRoom(conn *Conn, displayName string, room *game.Room) (string, string, bool) {
	userID := s.freshUserID()
	user := &game.User{ID: userID, DisplayName: displayName, RoomID: room.ID}

	s.Registry.AddUser(user)

	usersInRoom := s.Registry.UsersInRoom(room.ID)
	s.sendSnapshot(conn, room, user, usersInRoom)
	s.announceJoin(room.ID, user)

	return room.ID, userID, true
}

func (s *Server) sendSnapshot(conn *Conn, room *game.Room, user *game.User, usersInRoom []*game.User) {
	payloads := make([]wire.UserPayload, len(usersInRoom))
	for i, u := range usersInRoom {
		payloads[i] = userPayload(u)
	}

	data, err := wire.EncodeServerEvent(wire.ServerEvent{
		Kind: wire.ServerSendGameState,
		GameState: wire.GameStatePayload{
			Room:        roomPayload(room),
			User:        userPayload(user),
			UsersInRoom: payloads,
		},
	})
	if err != nil {
		s.logf("session: failed to encode initial snapshot for room %s: %v", room.ID, err)
		return
	}
	_ = conn.WriteBinary(data)
}

func (s *Server) announceJoin(roomID string, user *game.User) {
	s.flush(roomID, []pendingEvent{
		broadcastExcept(user.ID, wire.ServerEvent{Kind: wire.ServerUserJoined, User: userPayload(user)}),
	})
}

func (s *Server) freshRoomID() string {
	for {
		id := game.GenID()
		if s.Registry.FindRoom(id) == nil {
			return id
		}
	}
}

func (s *Server) freshUserID() string {
	for {
		id := game.GenID()
		if s.Registry.FindUser(id) == nil {
			return id
		}
	}
}
