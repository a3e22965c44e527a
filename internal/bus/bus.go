// Package bus implements the process-wide broadcast fan-out: every active
// connection's Writer subscribes on start and unsubscribes on drop, and
// every published Message is filtered by its Routing against each
// subscriber's (userID, roomID) before being handed off to be serialized.
package bus

import "log"

// RoutingKind tags how a Message should be delivered.
type RoutingKind uint8

const (
	// Everyone delivers to every subscriber in the room.
	Everyone RoutingKind = iota
	// Broadcast delivers to every subscriber in the room except SenderID.
	Broadcast
	// User delivers only to the subscriber with id ReceiverID.
	User
)

// Routing selects which subscribers in a room receive a Message.
type Routing struct {
	Kind       RoutingKind
	SenderID   string // Broadcast
	ReceiverID string // User
}

// Accepts reports whether a subscriber identified by (userID, roomID)
// should receive a message scoped to msgRoomID with this routing.
func (r Routing) Accepts(userID, roomID, msgRoomID string) bool {
	if roomID != msgRoomID {
		return false
	}
	switch r.Kind {
	case Everyone:
		return true
	case Broadcast:
		return userID != r.SenderID
	case User:
		return userID == r.ReceiverID
	default:
		return false
	}
}

// Message is a routed, already wire-encoded payload published on the Bus.
type Message struct {
	RoomID  string
	Routing Routing
	Payload []byte
}

const subscriberCapacity = 1024

// Subscription is a single Writer's view of the Bus: a buffered channel of
// every Message published while it's alive, regardless of routing (the
// Writer itself applies the Routing filter against its own identity).
type Subscription struct {
	ch chan Message
}

// C returns the channel to range/select over. It is closed by Unsubscribe.
func (s *Subscription) C() <-chan Message {
	return s.ch
}

// Bus is a single multi-producer/multi-subscriber fan-out. Publish never
// blocks: a lagging subscriber drops the message and the bus logs and
// continues, per the overflow policy (a dropped Tick or re-establishable
// lifecycle event is acceptable).
type Bus struct {
	mu   chan struct{} // binary semaphore guarding subs
	subs map[*Subscription]bool
}

// New builds an empty Bus.
func New() *Bus {
	b := &Bus{
		mu:   make(chan struct{}, 1),
		subs: make(map[*Subscription]bool),
	}
	b.mu <- struct{}{}
	return b
}

func (b *Bus) lock()   { <-b.mu }
func (b *Bus) unlock() { b.mu <- struct{}{} }

// Subscribe registers a new subscriber and returns its handle. Callers must
// call Unsubscribe when the connection's Writer exits.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{ch: make(chan Message, subscriberCapacity)}

	b.lock()
	b.subs[sub] = true
	b.unlock()

	return sub
}

// Unsubscribe removes and closes a subscription. Safe to call once per
// Subscription returned by Subscribe.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.lock()
	if b.subs[sub] {
		delete(b.subs, sub)
		close(sub.ch)
	}
	b.unlock()
}

// Publish fans msg out to every current subscriber. Delivery is
// non-blocking per subscriber: a full subscriber channel means that
// subscriber is lagging, and the message is dropped for it alone (logged,
// never retried, never blocking the publisher or other subscribers).
func (b *Bus) Publish(msg Message) {
	// Fan-out happens under the lock so an Unsubscribe can't close a
	// channel mid-send; every send is non-blocking, so the lock is never
	// held for longer than the fan-out itself.
	b.lock()
	defer b.unlock()

	for sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
			log.Printf("bus: subscriber lagging, dropping message for room %s", msg.RoomID)
		}
	}
}
