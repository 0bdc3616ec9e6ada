package ws

import (
	"time"

	"github.com/hertz-contrib/websocket"
)

// conn adapts the hertz websocket connection to the Socket interface.
type conn struct {
	*websocket.Conn
}

// WrapConn makes a hertz websocket connection usable by the hub.
func WrapConn(c *websocket.Conn) Socket {
	return &conn{Conn: c}
}

func (c *conn) Ping() error {
	return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}
