package session

import (
	"errors"
	"testing"
	"time"

	"github.com/Ragudos/skribbl/internal/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWriterStopsOnSendError(t *testing.T) {
	b := bus.New()

	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		RunWriter(b, "user01", "room01", func([]byte) error {
			calls++
			return errors.New("socket gone")
		})
	}()

	// The writer subscribes asynchronously; keep publishing until the send
	// error has made it exit.
	require.Eventually(t, func() bool {
		b.Publish(bus.Message{RoomID: "room01", Routing: bus.Routing{Kind: bus.Everyone}, Payload: []byte{1}})
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.GreaterOrEqual(t, calls, 1)
}
