package main

import (
	"encoding/binary"
	"log"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/yamux"

	"github.com/icexin/gocraft-holo/proto"
)

type Server struct {
	clientid  int32
	sessions  sync.Map // map[id]*Session
	rpcServer *rpc.Server
	threshold int
	store     *Store

	playerCallback func(string, *Session)
}

func NewServer(threshold int, store *Store) *Server {
	return &Server{
		rpcServer:      rpc.NewServer(),
		threshold:      threshold,
		store:          store,
		playerCallback: func(string, *Session) {},
	}
}

func (s *Server) serveRpc(sess *yamux.Session) {
	conn, err := sess.Accept()
	if err != nil {
		log.Print(err)
		return
	}
	s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
}

func (s *Server) nextID() int32 {
	return atomic.AddInt32(&s.clientid, 1)
}

// online registers a session and records it when capturing.
func (s *Server) online(session *Session, addr net.Addr) {
	if s.store != nil {
		err := s.store.RecordSession(SessionInfo{
			ID:      session.ID(),
			Version: session.Protocol(),
			Start:   time.Now(),
			Addr:    addr.String(),
		})
		if err != nil {
			log.Print(err)
		}
	}
	s.sessions.Store(session.ID(), session)
	s.playerCallback("online", session)
}

func (s *Server) offline(session *Session, addr net.Addr) {
	s.sessions.Delete(session.ID())
	s.playerCallback("offline", session)
	log.Printf("%s(%d) closed connection", addr, session.ID())
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	id := s.nextID()
	log.Printf("allocated %d for %s", id, conn.RemoteAddr())
	// send id to client, then read its protocol version, handshake done.
	binary.Write(conn, binary.BigEndian, id)
	var version int32
	if err := binary.Read(conn, binary.BigEndian, &version); err != nil {
		log.Print(err)
		return
	}

	sess, err := yamux.Server(conn, nil)
	if err != nil {
		log.Print(err)
		return
	}
	defer sess.Close()

	stream, err := sess.Open()
	if err != nil {
		log.Print(err)
		return
	}
	session := NewSession(id, proto.Version(version), stream, s.threshold, s.store)
	log.Printf("%d speaks %s", id, session.Protocol())
	s.online(session, conn.RemoteAddr())
	s.serveRpc(sess)
	s.offline(session, conn.RemoteAddr())
	session.Close()
}

func (s *Server) RegisterService(name string, service interface{}) error {
	return s.rpcServer.RegisterName(name, service)
}

func (s *Server) Session(id int32) (*Session, bool) {
	v, ok := s.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (s *Server) SetPlayerCallback(callback func(string, *Session)) {
	s.playerCallback = callback
}

func (s *Server) Serve(l net.Listener) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				log.Print(err)
				continue
			}
			return err
		}
		go s.handleConn(conn)
	}
}
