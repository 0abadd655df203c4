package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asnanclinic/asnan-server/internal/proto"
	"github.com/asnanclinic/asnan-server/internal/relay"
)

// peerSendTimeout bounds every write to a peer so a dying connection can
// never stall a broadcast.
const peerSendTimeout = 5 * time.Second

// wsPeer adapts one websocket connection to the relay.Peer capability.
type wsPeer struct {
	id   string
	conn *websocket.Conn
}

func (p *wsPeer) ID() string { return p.id }

func (p *wsPeer) Send(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, peerSendTimeout)
	defer cancel()
	return p.conn.Write(ctx, websocket.MessageText, data)
}

func (p *wsPeer) Close(context.Context) error {
	return p.conn.Close(websocket.StatusGoingAway, "server shutting down")
}

// WSHandler upgrades HTTP connections and bridges them into the peer registry.
type WSHandler struct {
	registry *relay.Registry
	log      *zerolog.Logger
}

// NewWSHandler builds a new live-update channel handler.
func NewWSHandler(registry *relay.Registry, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{registry: registry, log: logger}
}

// Serve handles GET /ws: register the peer, send the hello, then answer
// keepalives until the connection closes.
func (h *WSHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	peer := &wsPeer{id: uuid.NewString(), conn: conn}
	h.registry.Register(peer)
	defer h.registry.Unregister(peer)

	// The hello includes this peer, so a fresh connection always sees >= 1.
	hello, err := json.Marshal(proto.NewHelloEvent(h.registry.Count()))
	if err != nil {
		h.log.Error().Err(err).Msg("marshal hello event")
		return
	}
	if err := peer.Send(ctx, hello); err != nil {
		h.log.Warn().Err(err).Str("peer_id", peer.id).Msg("send hello")
		return
	}

	h.log.Debug().Str("peer_id", peer.id).Int("connected_peers", h.registry.Count()).Msg("ws open")

	err = h.readLoop(ctx, conn, peer)

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = "closing after error"
			h.log.Warn().Err(err).Str("peer_id", peer.id).Msg("ws connection closed with error")
		}
	}

	h.log.Debug().Str("peer_id", peer.id).Msg("ws close")
	conn.Close(status, reason)
}

// readLoop answers "ping" with "pong" and ignores everything else, including
// binary frames, so heterogeneous clients never trip a protocol error.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, peer *wsPeer) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		if string(data) == proto.PingToken {
			if err := peer.Send(ctx, []byte(proto.PongToken)); err != nil {
				return err
			}
		}
	}
}
