package main

import (
	"log"

	"github.com/google/uuid"

	"github.com/icexin/gocraft-holo/config"
	"github.com/icexin/gocraft-holo/hologram"
)

// apply makes the pool match the definition file: new definitions are
// registered, changed ones get their lines replaced in place and removed
// ones are torn down. Holograms not loaded from the file are left alone.
func (s *HologramService) apply(f *config.File) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	want := make(map[uuid.UUID]bool, len(f.Holograms))
	for i := range f.Holograms {
		want[f.Holograms[i].ID()] = true
	}
	for _, h := range s.pool.Holograms() {
		if s.managed[h.ID()] && !want[h.ID()] {
			s.pool.Remove(h)
			delete(s.managed, h.ID())
			log.Printf("hologram %s removed", h.Name())
		}
	}

	for i := range f.Holograms {
		d := &f.Holograms[i]
		if h, ok := s.pool.Get(d.ID()); ok && s.managed[d.ID()] {
			s.update(h, d)
			continue
		}
		h, err := d.Build(s.ids, hologram.WithLogger(log.Default()))
		if err != nil {
			log.Print(err)
			continue
		}
		if err := s.pool.Add(h); err != nil {
			log.Print(err)
			continue
		}
		s.managed[h.ID()] = true
		log.Printf("hologram %s added with %d lines", h.Name(), len(h.Lines()))
	}
}

func (s *HologramService) update(h *hologram.Hologram, d *config.Definition) {
	lines, err := d.BuildLines(h)
	if err != nil {
		log.Print(err)
		return
	}
	if err := h.ReplaceLines(lines...); err != nil {
		log.Printf("hologram %s: %s", h.Name(), err)
		return
	}
	h.SetLineSpacing(d.Spacing)
	if loc := d.Location.Location(); loc != h.Location() {
		h.Teleport(loc)
	}
	log.Printf("hologram %s reloaded", h.Name())
}
