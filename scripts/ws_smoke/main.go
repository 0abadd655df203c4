// Command ws_smoke manually exercises the live-update channel: it connects,
// checks the hello, exchanges a keepalive, then prints incoming events until
// the timeout elapses.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/coder/websocket"

	"github.com/asnanclinic/asnan-server/internal/proto"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	timeout := flag.Duration("timeout", 30*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	_, data, err := conn.Read(ctx)
	if err != nil {
		log.Fatalf("read hello: %v", err)
	}
	env, err := proto.Decode(data)
	if err != nil {
		log.Fatalf("decode hello: %v", err)
	}
	if env.Hello == nil {
		log.Fatalf("expected hello, got type %q", env.Type)
	}
	log.Printf("hello: %d peer(s) connected at %s", env.Hello.ConnectedPeers, env.Hello.At.Format(time.RFC3339))

	if err := conn.Write(ctx, websocket.MessageText, []byte(proto.PingToken)); err != nil {
		log.Fatalf("send ping: %v", err)
	}
	_, data, err = conn.Read(ctx)
	if err != nil {
		log.Fatalf("read pong: %v", err)
	}
	if string(data) != proto.PongToken {
		log.Fatalf("expected pong, got %q", data)
	}
	log.Print("keepalive ok, waiting for incoming events")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			log.Printf("done: %v", err)
			return
		}
		env, err := proto.Decode(data)
		if err != nil {
			log.Printf("undecodable frame: %v", err)
			continue
		}
		switch {
		case env.Incoming != nil:
			log.Printf("incoming %s: %q from %s", env.Incoming.MessageSid, env.Incoming.Body, env.Incoming.From)
		default:
			log.Printf("frame type %q: %s", env.Type, data)
		}
	}
}
