package session

import (
	"math/rand"

	"github.com/Ragudos/skribbl/internal/game"
	"github.com/Ragudos/skribbl/internal/wire"
)

// transitionResult is what every phase-transition subroutine produces:
// events to publish once the Registry lock is released, and whether a
// fresh Ticker should be spawned for the room (false once it has reached
// Finished or Waiting).
type transitionResult struct {
	events      []pendingEvent
	spawnTicker bool
}

func merge(into *transitionResult, more transitionResult) {
	into.events = append(into.events, more.events...)
	if more.spawnTicker {
		into.spawnTicker = true
	}
}

// nextTurn picks a random member who hasn't drawn this round, makes them
// the drawer, and enters PickingAWord. Callers must have already verified
// such a member exists.
func nextTurn(room *game.Room, users []*game.User, limits Limits) transitionResult {
	for _, u := range users {
		u.HasGuessed = false
	}

	drawer := pickMember(users, func(u *game.User) bool { return !u.HasDrawn })
	if drawer == nil {
		// Invariant violation: nextTurn called with no eligible drawer.
		// Defensive no-op rather than a nil deref.
		return transitionResult{}
	}
	drawer.HasDrawn = true

	words := game.ThreeWords()
	room.State.CurrentUserID = drawer.ID
	room.State.Phase = game.PickingAWord
	room.State.WordsToPick = words
	room.State.TimeLeft = limits.PickWordTimeLimit

	return transitionResult{
		events: []pendingEvent{
			everyone(wire.ServerEvent{Kind: wire.ServerNewTurn, UserID: drawer.ID}),
			toUser(drawer.ID, wire.ServerEvent{Kind: wire.ServerPickAWord, WordsToPick: words}),
		},
		spawnTicker: true,
	}
}

// nextRound increments the round counter, clears every member's HasDrawn,
// and delegates into nextTurn. Callers must have already verified no
// member has !HasDrawn (i.e. the round just completed).
func nextRound(room *game.Room, users []*game.User, limits Limits) transitionResult {
	room.State.CurrentRound++
	for _, u := range users {
		u.HasDrawn = false
	}

	result := transitionResult{
		events: []pendingEvent{
			everyone(wire.ServerEvent{Kind: wire.ServerNewRound, Round: room.State.CurrentRound}),
		},
	}
	merge(&result, nextTurn(room, users, limits))
	return result
}

// endGame finalizes the room: Finished state and an EndGame broadcast. No
// Ticker follows. Members' per-game fields are reset by the caller
// (endOfTurn, via resetGameFields).
func endGame(room *game.Room) transitionResult {
	room.State = game.State{Kind: game.Finished}

	return transitionResult{
		events: []pendingEvent{everyone(wire.ServerEvent{Kind: wire.ServerEndGame})},
	}
}

func resetGameFields(users []*game.User) {
	for _, u := range users {
		u.HasDrawn = false
		u.HasGuessed = false
		u.Score = 0
	}
}

// endOfTurn ends the game if this was the last turn of the last round,
// otherwise advances to the next turn or next round.
func endOfTurn(room *game.Room, users []*game.User, limits Limits) transitionResult {
	anyUndrawn := pickMember(users, func(u *game.User) bool { return !u.HasDrawn }) != nil

	switch {
	case room.State.CurrentRound >= uint8(limits.MaxRounds) && !anyUndrawn:
		result := endGame(room)
		resetGameFields(users)
		return result
	case anyUndrawn:
		return nextTurn(room, users, limits)
	default:
		return nextRound(room, users, limits)
	}
}

// zeroTimeoutTransition implements the Ticker's on-timeout behavior: in
// PickingAWord it auto-picks a word as if PickAWord had been received; in
// Drawing it runs endOfTurn.
func zeroTimeoutTransition(room *game.Room, users []*game.User, limits Limits) transitionResult {
	if room.State.Phase == game.PickingAWord {
		word := room.State.WordsToPick[rand.Intn(len(room.State.WordsToPick))]
		drawerID := room.State.CurrentUserID

		room.State.Phase = game.Drawing
		room.State.CurrentWord = word
		room.State.TimeLeft = limits.DrawTimeLimit

		return transitionResult{
			events: []pendingEvent{
				broadcastExcept(drawerID, wire.ServerEvent{Kind: wire.ServerNewWord, Word: wire.Obfuscate(word)}),
				toUser(drawerID, wire.ServerEvent{Kind: wire.ServerNewWord, Word: word}),
			},
			spawnTicker: true,
		}
	}

	return endOfTurn(room, users, limits)
}
