package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playingRoom(r *Registry, roomID string, timeLeft uint8) *Room {
	room := addRoomWithUsers(r, roomID, Public, "user01", "user02")
	room.State = State{
		Kind:          Playing,
		Phase:         Drawing,
		CurrentWord:   "apple",
		TimeLeft:      timeLeft,
		CurrentUserID: "user01",
		CurrentRound:  1,
	}
	return room
}

func runTicker(r *Registry, c *TickerControl, roomID string, deps TickerDeps) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		RunTicker(r, c, roomID, deps)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("ticker did not exit in time")
	}
}

func TestTickerExitsOnDelete(t *testing.T) {
	r := NewRegistry()
	playingRoom(r, "room01", 200)
	c := NewTickerControl()

	done := runTicker(r, c, "room01", TickerDeps{
		OnTick:    func(string, uint8) {},
		OnTimeout: func(string) { t.Error("unexpected timeout") },
	})

	c.Delete("room01")
	waitDone(t, done, 2*time.Second)
}

func TestTickerIgnoresDeleteForOtherRooms(t *testing.T) {
	r := NewRegistry()
	playingRoom(r, "room01", 200)
	c := NewTickerControl()

	done := runTicker(r, c, "room01", TickerDeps{
		OnTick:    func(string, uint8) {},
		OnTimeout: func(string) {},
	})

	c.Delete("other1")
	select {
	case <-done:
		t.Fatal("ticker exited on a Delete addressed to a different room")
	case <-time.After(500 * time.Millisecond):
	}

	c.Delete("room01")
	waitDone(t, done, 2*time.Second)
}

func TestTickerExitsWhenRoomGone(t *testing.T) {
	r := NewRegistry()
	c := NewTickerControl()

	done := runTicker(r, c, "nosuch", TickerDeps{
		OnTick:    func(string, uint8) { t.Error("ticked for a missing room") },
		OnTimeout: func(string) { t.Error("unexpected timeout") },
	})

	waitDone(t, done, 3*time.Second)
}

func TestTickerExitsWhenRoomLeavesPlaying(t *testing.T) {
	r := NewRegistry()
	room := playingRoom(r, "room01", 200)
	c := NewTickerControl()

	done := runTicker(r, c, "room01", TickerDeps{
		OnTick:    func(string, uint8) {},
		OnTimeout: func(string) { t.Error("unexpected timeout") },
	})

	_ = r.WithRoomAndUsers("room01", func(*Room, []*User) error {
		room.State = State{Kind: Waiting}
		return nil
	})

	waitDone(t, done, 3*time.Second)
}

func TestTickerCountsDownAndTimesOut(t *testing.T) {
	r := NewRegistry()
	room := playingRoom(r, "room01", 1)
	c := NewTickerControl()

	var ticks []uint8
	timedOut := make(chan string, 1)

	done := runTicker(r, c, "room01", TickerDeps{
		OnTick: func(_ string, timeLeft uint8) {
			ticks = append(ticks, timeLeft)
		},
		OnTimeout: func(roomID string) {
			timedOut <- roomID
		},
	})

	waitDone(t, done, 4*time.Second)

	require.Equal(t, []uint8{1, 0}, ticks)
	select {
	case roomID := <-timedOut:
		assert.Equal(t, "room01", roomID)
	default:
		t.Fatal("OnTimeout never ran")
	}
	assert.Equal(t, uint8(0), room.State.TimeLeft)
}
