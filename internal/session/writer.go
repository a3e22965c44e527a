package session

import "github.com/Ragudos/skribbl/internal/bus"

// RunWriter subscribes to the Bus and writes every message accepted by
// (userID, roomID)'s routing filter to send. It returns when the
// subscription channel closes (Unsubscribe was called, normally by the
// caller on connection teardown).
func RunWriter(b *bus.Bus, userID, roomID string, send func([]byte) error) {
	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	for msg := range sub.C() {
		if !msg.Routing.Accepts(userID, roomID, msg.RoomID) {
			continue
		}
		if err := send(msg.Payload); err != nil {
			return
		}
	}
}
