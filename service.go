package main

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/icexin/gocraft-holo/hologram"
	"github.com/icexin/gocraft-holo/proto"
)

// HologramService and PlayerService share one mutex: holograms are only
// touched while it is held.

type HologramService struct {
	mutex  *sync.Mutex
	server *Server
	pool   *hologram.Pool
	ids    *hologram.IDAllocator
	// holograms loaded from the definition file
	managed map[uuid.UUID]bool
}

func NewHologramService(s *Server, mutex *sync.Mutex, pool *hologram.Pool, ids *hologram.IDAllocator) *HologramService {
	return &HologramService{
		mutex:   mutex,
		server:  s,
		pool:    pool,
		ids:     ids,
		managed: make(map[uuid.UUID]bool),
	}
}

func (s *HologramService) List(req *proto.ListRequest, rep *proto.ListResponse) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, h := range s.pool.Holograms() {
		loc := h.Location()
		rep.Holograms = append(rep.Holograms, proto.HologramInfo{
			Id:      h.ID().String(),
			Name:    h.Name(),
			X:       loc.X,
			Y:       loc.Y,
			Z:       loc.Z,
			Lines:   len(h.Lines()),
			Viewers: len(h.Viewers()),
		})
	}
	return nil
}

func (s *HologramService) Interact(req *proto.InteractRequest, rep *proto.InteractResponse) error {
	sess, ok := s.server.Session(req.Id)
	if !ok {
		return fmt.Errorf("unknown client %d", req.Id)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	h, handled := s.pool.Interact(sess, req.EntityId)
	if h != nil {
		rep.Hologram = h.ID().String()
	}
	rep.Handled = handled
	return nil
}

func (s *HologramService) add(h *hologram.Hologram) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pool.Add(h)
}

// do runs f with the hologram lock held.
func (s *HologramService) do(f func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	f()
}

type PlayerService struct {
	mutex   *sync.Mutex
	server  *Server
	pool    *hologram.Pool
	players map[int32]proto.PlayerState
}

func NewPlayerService(server *Server, mutex *sync.Mutex, pool *hologram.Pool) *PlayerService {
	s := &PlayerService{
		mutex:   mutex,
		server:  server,
		pool:    pool,
		players: make(map[int32]proto.PlayerState),
	}
	server.SetPlayerCallback(s.onPlayerCallback)
	return s
}

func (s *PlayerService) UpdateState(req *proto.UpdateStateRequest, rep *proto.UpdateStateResponse) error {
	sess, ok := s.server.Session(req.Id)
	if !ok {
		return nil
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.players[req.Id]; !ok {
		return nil
	}
	s.players[req.Id] = req.State
	st := req.State
	s.pool.Track(sess, hologram.Location{
		X:     float64(st.X),
		Y:     float64(st.Y),
		Z:     float64(st.Z),
		Yaw:   st.Ry,
		Pitch: st.Rx,
	})
	rep.Players = make(map[int32]proto.PlayerState)
	for id, state := range s.players {
		if id == req.Id {
			continue
		}
		rep.Players[id] = state
	}
	for _, h := range s.pool.Holograms() {
		if h.IsShownFor(sess) {
			rep.Visible = append(rep.Visible, h.ID().String())
		}
	}
	return nil
}

func (s *PlayerService) onPlayerCallback(action string, sess *Session) {
	switch action {
	case "online":
		s.addPlayer(sess)
	case "offline":
		s.removePlayer(sess)
	}
}

func (s *PlayerService) removePlayer(sess *Session) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.players, sess.ID())
	s.pool.Forget(sess)
}

func (s *PlayerService) addPlayer(sess *Session) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	log.Printf("player %d online", sess.ID())
	s.players[sess.ID()] = proto.PlayerState{}
}
