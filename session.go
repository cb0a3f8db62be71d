package main

import (
	"io"
	"log"
	"sync/atomic"

	"github.com/icexin/gocraft-holo/proto"
)

// Session is a connected viewer. Packets are encoded for the protocol the
// viewer announced and written as frames on its packet stream.
type Session struct {
	id      int32
	version proto.Version
	conn    io.Closer
	frames  *proto.FrameWriter
	store   *Store
	seq     atomic.Uint64
}

func NewSession(id int32, version proto.Version, stream io.WriteCloser, threshold int, store *Store) *Session {
	return &Session{
		id:      id,
		version: version,
		conn:    stream,
		frames:  proto.NewFrameWriter(stream, threshold),
		store:   store,
	}
}

func (s *Session) ID() int32               { return s.id }
func (s *Session) Protocol() proto.Version { return s.version }

// Send never fails: a viewer whose stream broke is about to go offline.
func (s *Session) Send(p proto.Packet) {
	body, err := proto.Marshal(p, s.version)
	if err != nil {
		log.Printf("session %d: encode %T: %s", s.id, p, err)
		return
	}
	if err := s.frames.WriteFrame(body); err != nil {
		log.Printf("session %d: %s", s.id, err)
		return
	}
	if s.store == nil {
		return
	}
	seq := s.seq.Add(1)
	if err := s.store.RecordFrame(s.id, seq, body); err != nil {
		log.Printf("session %d: capture: %s", s.id, err)
	}
}

func (s *Session) Close() error {
	return s.conn.Close()
}
