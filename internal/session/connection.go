package session

import (
	"time"

	"github.com/Ragudos/skribbl/internal/wire"
	"github.com/gorilla/websocket"
)

// HandleConnection runs the whole lifecycle of one upgraded socket: Join,
// then Reader+Writer with select-first-exit cancellation, then Close exactly
// once. conn is expected to already be a fresh, unregistered WebSocket
// wrapped in a Conn; the caller only needs to have performed the HTTP
// upgrade.
func (s *Server) HandleConnection(conn *Conn, req JoinRequest) {
	roomID, userID, ok := s.Join(conn, req)
	if !ok {
		_ = conn.Close()
		return
	}

	frames := make(chan wire.ClientEvent)
	readerDone := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(readerDone)
		RunReader(s, roomID, userID, frames)
	}()

	go func() {
		defer close(writerDone)
		RunWriter(s.Bus, userID, roomID, conn.WriteBinary)
	}()

	go s.pumpFrames(conn, frames)

	select {
	case <-readerDone:
	case <-writerDone:
	}

	_ = conn.Close()
	s.HandleClose(roomID, userID)
}

// maxDecodeFailures is how many malformed frames in a row a connection may
// send before it's cut off. A single bad frame is dropped and forgiven.
const maxDecodeFailures = 8

// pumpFrames reads raw binary frames off conn, decodes them, and forwards
// well-formed ones to frames. It returns (closing frames, which in turn ends
// RunReader) once the socket errors or the peer has sent nothing but
// garbage for maxDecodeFailures frames straight.
func (s *Server) pumpFrames(conn *Conn, frames chan<- wire.ClientEvent) {
	defer close(frames)

	decodeFailures := 0
	for {
		if s.PlayerTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.PlayerTimeout))
		}

		data, kind, err := conn.ReadBinary()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}

		ev, err := wire.DecodeClientEvent(data)
		if err != nil {
			decodeFailures++
			if decodeFailures >= maxDecodeFailures {
				s.logf("session: closing connection after %d consecutive bad frames: %v", decodeFailures, err)
				return
			}
			continue
		}
		decodeFailures = 0

		frames <- ev
	}
}
