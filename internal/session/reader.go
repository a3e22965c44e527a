package session

import (
	"github.com/Ragudos/skribbl/internal/game"
	"github.com/Ragudos/skribbl/internal/wire"
)

// RunReader consumes decoded frames from frames until it's closed, applying
// each to the Registry and publishing the resulting events on the Bus. It
// returns when frames is closed (the socket closed) or the connection
// should terminate; the caller is responsible for then running
// HandleClose exactly once.
func RunReader(s *Server, roomID, userID string, frames <-chan wire.ClientEvent) {
	for ev := range frames {
		s.dispatch(roomID, userID, ev)
	}
}

func (s *Server) dispatch(roomID, userID string, ev wire.ClientEvent) {
	switch ev.Kind {
	case wire.ClientStartGame:
		s.handleStartGame(roomID, userID)
	case wire.ClientPickAWord:
		s.handlePickAWord(roomID, userID, ev.Word)
	case wire.ClientPointerDown:
		s.relay(roomID, wire.ServerEvent{Kind: wire.ServerPointerDown})
	case wire.ClientPointerMove:
		s.relay(roomID, wire.ServerEvent{Kind: wire.ServerPointerMove, X: ev.X, Y: ev.Y})
	case wire.ClientPointerUp:
		s.relay(roomID, wire.ServerEvent{Kind: wire.ServerPointerUp})
	case wire.ClientPointerLeave:
		s.relay(roomID, wire.ServerEvent{Kind: wire.ServerPointerLeave})
	case wire.ClientChangeColor:
		s.relay(roomID, wire.ServerEvent{Kind: wire.ServerChangeColor, Color: ev.Color})
	case wire.ClientMessage:
		s.handleMessage(roomID, userID, ev.Message)
	}
}

// relay forwards pointer and color events with Everyone routing. Any
// connected user may emit them; gating them to the current drawer is left
// to clients.
func (s *Server) relay(roomID string, ev wire.ServerEvent) {
	s.flush(roomID, []pendingEvent{everyone(ev)})
}

func (s *Server) handleStartGame(roomID, userID string) {
	var events []pendingEvent
	var spawn bool

	_ = s.Registry.WithRoomAndUsers(roomID, func(room *game.Room, users []*game.User) error {
		if room == nil {
			return nil
		}

		switch {
		case room.HostID != userID:
			events = []pendingEvent{toUser(userID, wire.ServerEvent{Kind: wire.ServerError, Message: "Only the host can start the game"})}
			return nil
		case room.State.Kind != game.Waiting:
			events = []pendingEvent{toUser(userID, wire.ServerEvent{Kind: wire.ServerError, Message: "Game has already started"})}
			return nil
		case len(users) < 2:
			events = []pendingEvent{toUser(userID, wire.ServerEvent{Kind: wire.ServerError, Message: "Need at least 2 players to start the game"})}
			return nil
		}

		drawer := pickMember(users, func(*game.User) bool { return true })
		drawer.HasDrawn = true

		words := game.ThreeWords()
		room.State = game.State{
			Kind:          game.Playing,
			Phase:         game.PickingAWord,
			WordsToPick:   words,
			TimeLeft:      s.Limits.PickWordTimeLimit,
			CurrentUserID: drawer.ID,
			CurrentRound:  1,
		}

		events = []pendingEvent{
			everyone(wire.ServerEvent{Kind: wire.ServerStartGame}),
			everyone(wire.ServerEvent{Kind: wire.ServerNewTurn, UserID: drawer.ID}),
			toUser(drawer.ID, wire.ServerEvent{Kind: wire.ServerPickAWord, WordsToPick: words}),
		}
		spawn = true
		return nil
	})

	s.flush(roomID, events)
	if spawn {
		s.spawnTicker(roomID)
	}
}

func (s *Server) handlePickAWord(roomID, userID, word string) {
	var events []pendingEvent
	var spawn bool

	_ = s.Registry.WithRoomAndUsers(roomID, func(room *game.Room, _ []*game.User) error {
		if room == nil || room.State.Kind != game.Playing || room.State.Phase != game.PickingAWord {
			return nil
		}
		if room.State.CurrentUserID != userID {
			return nil
		}

		room.State.Phase = game.Drawing
		room.State.CurrentWord = word
		room.State.TimeLeft = s.Limits.DrawTimeLimit

		events = []pendingEvent{
			broadcastExcept(userID, wire.ServerEvent{Kind: wire.ServerNewWord, Word: wire.Obfuscate(word)}),
			toUser(userID, wire.ServerEvent{Kind: wire.ServerNewWord, Word: word}),
		}
		spawn = true
		return nil
	})

	if len(events) == 0 {
		return
	}

	s.Tickers.Delete(roomID)
	s.flush(roomID, events)
	if spawn {
		s.spawnTicker(roomID)
	}
}

func (s *Server) handleMessage(roomID, userID, message string) {
	var events []pendingEvent
	var turnEnded, spawn bool

	_ = s.Registry.WithRoomAndUsers(roomID, func(room *game.Room, users []*game.User) error {
		if room == nil || room.State.Kind != game.Playing || room.State.Phase != game.Drawing || message != room.State.CurrentWord {
			if room != nil {
				events = []pendingEvent{everyone(wire.ServerEvent{Kind: wire.ServerMessage, GuesserID: userID, GuessMessage: message})}
			}
			return nil
		}

		var guesser *game.User
		for _, u := range users {
			if u.ID == userID {
				guesser = u
				break
			}
		}
		if guesser == nil {
			return nil
		}

		if userID == room.State.CurrentUserID {
			events = []pendingEvent{toUser(userID, wire.ServerEvent{Kind: wire.ServerError, Message: "You cannot expose the word being drawn"})}
			return nil
		}
		if guesser.HasGuessed {
			events = []pendingEvent{toUser(userID, wire.ServerEvent{Kind: wire.ServerError, Message: "You cannot expose the word being drawn"})}
			return nil
		}

		guesser.HasGuessed = true
		guesser.Score += 10

		events = []pendingEvent{
			everyone(wire.ServerEvent{Kind: wire.ServerAddScore, UserID: userID, Score: 10}),
			everyone(wire.ServerEvent{Kind: wire.ServerUserGuessed, UserID: userID}),
			everyone(wire.ServerEvent{Kind: wire.ServerSystemMessage, Message: guesser.DisplayName + " has guessed the word!"}),
			toUser(userID, wire.ServerEvent{Kind: wire.ServerNewWord, Word: room.State.CurrentWord}),
		}

		allGuessed := true
		for _, u := range users {
			if u.ID == room.State.CurrentUserID {
				continue
			}
			if !u.HasGuessed {
				allGuessed = false
				break
			}
		}

		if allGuessed {
			turnEnded = true
			result := endOfTurn(room, users, s.Limits)
			events = append(events, result.events...)
			spawn = result.spawnTicker
		}

		return nil
	})

	if turnEnded {
		s.Tickers.Delete(roomID)
	}

	s.flush(roomID, events)
	if spawn {
		s.spawnTicker(roomID)
	}
}

// handleTimeout is the Ticker's OnTimeout callback: run the zero-timeout
// transition under the Registry lock, then flush and (if applicable)
// spawn whatever comes next. It owns its own Ticker's replacement, so the
// Ticker that called this has already exited.
func (s *Server) handleTimeout(roomID string) {
	var result transitionResult

	_ = s.Registry.WithRoomAndUsers(roomID, func(room *game.Room, users []*game.User) error {
		if room == nil || room.State.Kind != game.Playing {
			return nil
		}
		result = zeroTimeoutTransition(room, users, s.Limits)
		return nil
	})

	s.flush(roomID, result.events)
	if result.spawnTicker {
		s.spawnTicker(roomID)
	}
}
