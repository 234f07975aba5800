// Package transport adapts gorilla/websocket connections and
// julienschmidt/httprouter routes to the session package's Sink/
// InboundEvent contract. None of this is covered by spec.md's core
// contract (spec.md §1 "Out of scope"); it exists so the session package
// has somewhere to actually run, grounded on
// Seednode-partybox/celebrity.go's Client/Hub wiring.
package transport

import (
	"errors"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/anlumo/tttod/internal/config"
	"github.com/anlumo/tttod/internal/registry"
	"github.com/anlumo/tttod/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var errSinkClosed = errors.New("transport: sink closed")

// wsSink adapts one websocket connection into a session.Sink, grounded on
// celebrity.go's Client{conn, send chan any} pair plus its
// select-then-drop non-blocking send idiom.
type wsSink struct {
	conn   *websocket.Conn
	send   chan any
	closed atomic.Bool
}

func newWSSink(conn *websocket.Conn) *wsSink {
	return &wsSink{conn: conn, send: make(chan any, 16)}
}

func (s *wsSink) Send(msg any) error {
	if s.closed.Load() {
		return errSinkClosed
	}
	select {
	case s.send <- msg:
		return nil
	default:
		return errSinkClosed
	}
}

func (s *wsSink) Closed() bool { return s.closed.Load() }

func (s *wsSink) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.send)
	}
}

func (s *wsSink) writePump() {
	defer s.conn.Close()
	for msg := range s.send {
		if err := s.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func readPump(sess *session.Session, playerID session.PlayerID, conn *websocket.Conn, sink *wsSink, touch func()) {
	defer func() {
		sink.Close()
		sess.Events() <- session.ClientLeaveEvent(playerID)
		_ = conn.Close()
	}()

	for {
		var msg session.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.ID == uuid.Nil {
			msg.ID = uuid.New()
		}
		touch()
		sess.Events() <- session.ClientMessageEvent(playerID, msg)
	}
}

// ServeWS upgrades the connection, joins (or creates) gameid's session
// under playerid, and pumps messages until the connection drops. The URL
// shape is spec.md §6's convention generalized with an explicit game
// name, rather than /api/{game_name}/{player_id}/ws: /tttod/:gameid/ws/:playerid
// (the player id comes last so it does not share a path segment with the
// static /tttod/:gameid/qr route).
func ServeWS(cfg *config.Config, mgr *registry.Manager, newRandomizer func() session.Randomizer) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameName := ps.ByName("gameid")
		if gameName == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID, err := uuid.Parse(ps.ByName("playerid"))
		if err != nil {
			http.Error(w, "invalid player id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		sess := mgr.GetOrCreate(gameName, newRandomizer(), func(format string, args ...any) {
			config.Logf(cfg, format, args...)
		})

		sink := newWSSink(conn)
		go sink.writePump()

		sess.Events() <- session.ClientJoinEvent(playerID, sink)

		readPump(sess, playerID, conn, sink, func() { mgr.Touch(gameName) })
	}
}
