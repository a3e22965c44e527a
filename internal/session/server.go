// Package session wires the Registry, Bus, and Ticker manager together into
// the per-connection Reader/Writer tasks and the Join/Close orchestrators
// that drive room lifecycle.
package session

import (
	"log"
	"math/rand"
	"time"

	"github.com/Ragudos/skribbl/internal/bus"
	"github.com/Ragudos/skribbl/internal/game"
	"github.com/Ragudos/skribbl/internal/wire"
)

// Server bundles every shared dependency a connection's Reader, Writer, and
// the Join/Close orchestrators need.
type Server struct {
	Registry *game.Registry
	Bus      *bus.Bus
	Tickers  *game.TickerControl
	Limits   Limits
	Verbose  bool

	// PlayerTimeout, when non-zero, bounds how long a connection may sit
	// idle before its next read fails and the Close Orchestrator runs.
	PlayerTimeout time.Duration
}

// New builds a Server with a fresh Registry, Bus, and TickerControl.
func New(limits Limits, verbose bool) *Server {
	return &Server{
		Registry: game.NewRegistry(),
		Bus:      bus.New(),
		Tickers:  game.NewTickerControl(),
		Limits:   limits,
		Verbose:  verbose,
	}
}

func (s *Server) logf(format string, args ...any) {
	if !s.Verbose {
		return
	}
	log.Printf(format, args...)
}

// pendingEvent is a ServerEvent paired with the routing it should be
// published under, collected while the Registry lock is held and flushed
// to the Bus only after it is released.
type pendingEvent struct {
	routing bus.Routing
	event   wire.ServerEvent
}

func everyone(e wire.ServerEvent) pendingEvent {
	return pendingEvent{routing: bus.Routing{Kind: bus.Everyone}, event: e}
}

func broadcastExcept(senderID string, e wire.ServerEvent) pendingEvent {
	return pendingEvent{routing: bus.Routing{Kind: bus.Broadcast, SenderID: senderID}, event: e}
}

func toUser(receiverID string, e wire.ServerEvent) pendingEvent {
	return pendingEvent{routing: bus.Routing{Kind: bus.User, ReceiverID: receiverID}, event: e}
}

// flush encodes and publishes every pending event for roomID, in order.
// Called only after the Registry lock has been released.
func (s *Server) flush(roomID string, events []pendingEvent) {
	for _, pe := range events {
		data, err := wire.EncodeServerEvent(pe.event)
		if err != nil {
			s.logf("session: dropping event kind %d for room %s: %v", pe.event.Kind, roomID, err)
			continue
		}
		s.Bus.Publish(bus.Message{RoomID: roomID, Routing: pe.routing, Payload: data})
	}
}

// spawnTicker starts a fresh per-room Ticker bound to this Server's
// callbacks. At most one should be live per room at a time; callers are
// responsible for having issued a Delete against any prior one.
func (s *Server) spawnTicker(roomID string) {
	go game.RunTicker(s.Registry, s.Tickers, roomID, game.TickerDeps{
		OnTick: func(roomID string, timeLeft uint8) {
			s.flush(roomID, []pendingEvent{everyone(wire.ServerEvent{Kind: wire.ServerTick, TimeLeft: timeLeft})})
		},
		OnTimeout: s.handleTimeout,
	})
}

// pickMember returns a random user from users satisfying pred, or nil.
func pickMember(users []*game.User, pred func(*game.User) bool) *game.User {
	var candidates []*game.User
	for _, u := range users {
		if pred(u) {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[rand.Intn(len(candidates))]
}

// roomPayload and userPayload build the JSON-shaped values carried in
// wire events from the internal game model.
func userPayload(u *game.User) wire.UserPayload {
	return wire.UserPayload{ID: u.ID, DisplayName: u.DisplayName, Score: u.Score}
}

func roomPayload(r *game.Room) wire.RoomPayload {
	return wire.RoomPayload{
		ID:         r.ID,
		HostID:     r.HostID,
		Visibility: string(r.Visibility),
		State:      roomStateName(r.State.Kind),
		MaxUsers:   r.MaxUsers,
		MaxRounds:  r.MaxRounds,
	}
}

func roomStateName(k game.RoomStateKind) string {
	switch k {
	case game.Waiting:
		return "waiting"
	case game.Playing:
		return "playing"
	case game.Finished:
		return "finished"
	default:
		return "waiting"
	}
}

const idleReaperInterval = time.Minute

// RunIdleRoomReaper periodically deletes Waiting rooms that have had zero
// activity since idleTimeout ago. Purely a resource-cleanup concern: rooms
// with zero members are already reaped synchronously by
// RemoveUserAndProcess; this only removes an idle Waiting room that is still
// registered with no users in it. Rooms that still have registered members
// are left alone.
func (s *Server) RunIdleRoomReaper(idleTimeout time.Duration) {
	if idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(idleReaperInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-idleTimeout)
		for _, roomID := range s.Registry.IdleRooms(cutoff) {
			if len(s.Registry.UsersInRoom(roomID)) == 0 {
				s.Registry.ReapRoom(roomID)
			}
		}
	}
}
