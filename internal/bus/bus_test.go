package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingAccepts(t *testing.T) {
	cases := []struct {
		name    string
		routing Routing
		userID  string
		roomID  string
		msgRoom string
		want    bool
	}{
		{"everyone in room", Routing{Kind: Everyone}, "user01", "room01", "room01", true},
		{"everyone other room", Routing{Kind: Everyone}, "user01", "room01", "room02", false},
		{"broadcast excludes sender", Routing{Kind: Broadcast, SenderID: "user01"}, "user01", "room01", "room01", false},
		{"broadcast includes others", Routing{Kind: Broadcast, SenderID: "user01"}, "user02", "room01", "room01", true},
		{"user matches receiver", Routing{Kind: User, ReceiverID: "user02"}, "user02", "room01", "room01", true},
		{"user excludes others", Routing{Kind: User, ReceiverID: "user02"}, "user01", "room01", "room01", false},
		{"user wrong room", Routing{Kind: User, ReceiverID: "user02"}, "user02", "room01", "room02", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.routing.Accepts(c.userID, c.roomID, c.msgRoom))
		})
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	b := New()
	first := b.Subscribe()
	second := b.Subscribe()
	defer b.Unsubscribe(first)
	defer b.Unsubscribe(second)

	msg := Message{RoomID: "room01", Routing: Routing{Kind: Everyone}, Payload: []byte{1, 2, 3}}
	b.Publish(msg)

	for _, sub := range []*Subscription{first, second} {
		select {
		case got := <-sub.C():
			assert.Equal(t, msg, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber never received the message")
		}
	}
}

func TestPublishNeverBlocksOnLaggingSubscriber(t *testing.T) {
	b := New()
	laggard := b.Subscribe()
	defer b.Unsubscribe(laggard)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberCapacity+64; i++ {
			b.Publish(Message{RoomID: "room01", Routing: Routing{Kind: Everyone}})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	received := 0
	for {
		select {
		case <-laggard.C():
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberCapacity, received)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	_, open := <-sub.C()
	require.False(t, open)

	// A second Unsubscribe of the same handle must not panic.
	b.Unsubscribe(sub)
}

func TestPublishAfterUnsubscribeSkipsTheGone(t *testing.T) {
	b := New()
	gone := b.Subscribe()
	stays := b.Subscribe()
	defer b.Unsubscribe(stays)

	b.Unsubscribe(gone)
	b.Publish(Message{RoomID: "room01", Routing: Routing{Kind: Everyone}})

	select {
	case got := <-stays.C():
		assert.Equal(t, "room01", got.RoomID)
	case <-time.After(time.Second):
		t.Fatal("surviving subscriber never received the message")
	}
}
