package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Ragudos/skribbl/internal/session"
	"github.com/Ragudos/skribbl/internal/wire"
	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveBinaryProtocolVersion answers the version handshake clients use to
// confirm they speak the same wire.BinaryProtocolVersion before connecting.
func serveBinaryProtocolVersion(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)
		_, _ = w.Write([]byte(strconv.Itoa(int(wire.BinaryProtocolVersion))))
	}
}

// parseJoinRequest reads the Join Orchestrator's handshake out of the
// upgrade request's query string.
func parseJoinRequest(r *http.Request) session.JoinRequest {
	q := r.URL.Query()

	mode := session.JoinPlay
	if q.Get("mode") == "create" {
		mode = session.JoinCreate
	}

	return session.JoinRequest{
		DisplayName: q.Get("displayName"),
		RoomID:      strings.TrimSpace(q.Get("roomId")),
		Mode:        mode,
	}
}

// serveWS upgrades the socket and hands it off to the Join Orchestrator and
// connection lifecycle; it blocks until the connection closes.
func serveWS(cfg *Config, s *session.Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		req := parseJoinRequest(r)

		// A correlation id for this connection's log lines only; it never
		// reaches the wire, where room/user ids stay the 6-char form.
		connID, err := uuid.NewV4()
		if err != nil {
			logf(cfg, "WS: failed to allocate connection id: %v", err)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "WS[%s]: upgrade error from %s: %v", connID, realIP(r), err)
			return
		}

		logf(cfg, "WS[%s]: connected from %s", connID, realIP(r))
		conn := session.NewConn(ws)
		s.HandleConnection(conn, req)
		logf(cfg, "WS[%s]: disconnected", connID)
	}
}

// serveRoomQR generates a PNG QR code that deep-links straight into the
// named room via the Play/:roomId handshake.
func serveRoomQR(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")
		if roomID == "" {
			http.Error(w, "missing room id", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/?roomId=" + roomID

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// registerGame wires the WebSocket upgrade endpoint, the protocol-version
// handshake, and the per-room QR share code into mux, and starts the idle
// room reaper for the Server backing all of them.
func registerGame(cfg *Config, mux *httprouter.Router) *session.Server {
	s := session.New(cfg.limits(), cfg.verbose)
	s.PlayerTimeout = cfg.playerTimeout

	go s.RunIdleRoomReaper(cfg.sessionTimeout)

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, s))
	mux.GET(cfg.prefix+"/ws/binary-protocol-version", serveBinaryProtocolVersion(cfg))
	mux.GET(cfg.prefix+"/rooms/:roomid/qr", serveRoomQR(cfg))

	return s
}
