// Package game holds the authoritative room/user model: the Registry of
// live rooms and users, the word list, id generation, and the per-room
// ticker that drives countdown-and-timeout phase transitions.
package game

import "time"

// Visibility controls whether a room is eligible for auto-matching.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// RoomStateKind tags the variant carried by a Room's State.
type RoomStateKind uint8

const (
	Waiting RoomStateKind = iota
	Playing
	Finished
)

// PlayingPhase tags the substate a Playing room is in.
type PlayingPhase uint8

const (
	PickingAWord PlayingPhase = iota
	Drawing
)

// State is the room's current lifecycle state. Only the fields relevant to
// Kind are meaningful; Playing's fields are zero in Waiting and Finished.
type State struct {
	Kind RoomStateKind

	// Playing fields.
	Phase         PlayingPhase
	WordsToPick   [3]string // PickingAWord
	CurrentWord   string    // Drawing
	TimeLeft      uint8
	CurrentUserID string
	CurrentRound  uint8
}

// Room is a single game session of up to MaxUsers players.
type Room struct {
	ID             string
	HostID         string
	Visibility     Visibility
	MaxUsers       int
	MaxRounds      int
	AmountOfUsers  int
	State          State
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// User is a single connected player.
type User struct {
	ID          string
	DisplayName string
	RoomID      string
	HasDrawn    bool
	HasGuessed  bool
	Score       int
}

// NewRoom builds a Room in its default Waiting state, owned by hostID.
func NewRoom(id, hostID string, visibility Visibility, maxUsers, maxRounds int, now time.Time) *Room {
	return &Room{
		ID:         id,
		HostID:     hostID,
		Visibility: visibility,
		MaxUsers:   maxUsers,
		MaxRounds:  maxRounds,
		// AmountOfUsers starts at 0; the registry's AddUser call that
		// follows NewRoom brings it to 1 in the same place every other
		// join increments it, rather than special-casing room creation.
		State:          State{Kind: Waiting},
		CreatedAt:      now,
		LastActivityAt: now,
	}
}
