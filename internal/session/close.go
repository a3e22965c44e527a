package session

import (
	"time"

	"github.com/Ragudos/skribbl/internal/game"
	"github.com/Ragudos/skribbl/internal/wire"
)

// HandleClose runs the Close Orchestrator: invoked exactly once per
// connection when its socket closes. It removes the user, reaps the room if
// that was its last member, resets a Playing/Finished room down to its last
// survivor back to Waiting, advances the turn if the departing user was the
// current drawer, hands off the host role if the departing user held it,
// and announces the departure. NewHost and UserLeft are published ahead of
// any turn-advance events.
func (s *Server) HandleClose(roomID, userID string) {
	var events []pendingEvent
	var deleteTicker, spawn bool

	_, reaped := s.Registry.RemoveUserAndProcess(userID, func(room *game.Room, remaining []*game.User) {
		room.LastActivityAt = time.Now()

		var advance []pendingEvent
		if room.State.Kind == game.Playing || room.State.Kind == game.Finished {
			if room.AmountOfUsers == 1 {
				room.State = game.State{Kind: game.Waiting}
				resetGameFields(remaining)
				deleteTicker = true
				events = append(events, broadcastExcept(userID, wire.ServerEvent{Kind: wire.ServerResetRoom}))
			} else if room.State.Kind == game.Playing && room.State.CurrentUserID == userID {
				deleteTicker = true
				result := endOfTurn(room, remaining, s.Limits)
				advance = result.events
				spawn = result.spawnTicker
			}
		}

		if room.HostID == userID {
			if newHost := pickMember(remaining, func(*game.User) bool { return true }); newHost != nil {
				room.HostID = newHost.ID
				events = append(events, broadcastExcept(userID, wire.ServerEvent{Kind: wire.ServerNewHost, UserID: newHost.ID}))
			}
		}

		events = append(events, broadcastExcept(userID, wire.ServerEvent{Kind: wire.ServerUserLeft, UserID: userID}))
		events = append(events, advance...)
	})

	if reaped {
		return
	}

	if deleteTicker {
		s.Tickers.Delete(roomID)
	}
	s.flush(roomID, events)
	if spawn {
		s.spawnTicker(roomID)
	}
}
