package main

import (
	"encoding/binary"
	"errors"
	"io"
	"log"
	"net/http"
	"net/rpc/jsonrpc"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/icexin/gocraft-holo/proto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

var errBadHandshake = errors.New("websocket: bad handshake message")

// wsConn serializes writers: binary messages carry packet frames, text
// messages carry JSON-RPC.
type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
	r  io.Reader
}

func (w *wsConn) write(typ int, p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.c.WriteMessage(typ, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error { return w.c.Close() }

type wsFrames struct{ *wsConn }

func (f wsFrames) Write(p []byte) (int, error) {
	return f.write(websocket.BinaryMessage, p)
}

type wsRPC struct{ *wsConn }

func (r wsRPC) Write(p []byte) (int, error) {
	return r.write(websocket.TextMessage, p)
}

// Read returns the payload of text messages, skipping binary ones.
func (r wsRPC) Read(p []byte) (int, error) {
	for {
		if r.r == nil {
			typ, rd, err := r.c.NextReader()
			if err != nil {
				return 0, err
			}
			if typ != websocket.TextMessage {
				continue
			}
			r.r = rd
		}
		n, err := r.r.Read(p)
		if err == io.EOF {
			r.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// ServeHTTP accepts websocket viewers. The handshake mirrors the TCP one:
// the server sends the id as a 4 byte binary message and the client
// answers with its protocol version the same way.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print(err)
		return
	}
	conn := &wsConn{c: c}
	defer conn.Close()

	id := s.nextID()
	log.Printf("allocated %d for %s (websocket)", id, c.RemoteAddr())
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(id))
	if _, err := conn.write(websocket.BinaryMessage, buf[:]); err != nil {
		log.Print(err)
		return
	}
	typ, msg, err := c.ReadMessage()
	if err != nil {
		log.Print(err)
		return
	}
	if typ != websocket.BinaryMessage || len(msg) != 4 {
		log.Print(errBadHandshake)
		return
	}
	version := proto.Version(binary.BigEndian.Uint32(msg))

	session := NewSession(id, version, wsFrames{conn}, s.threshold, s.store)
	s.online(session, c.RemoteAddr())
	s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(wsRPC{conn}))
	s.offline(session, c.RemoteAddr())
}
