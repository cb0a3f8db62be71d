package main

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/icexin/gocraft-holo/hologram"
	"github.com/icexin/gocraft-holo/proto"
)

const diamond = 264

// counter is the demo hologram: a click counter with a spinning item.
type counter struct {
	h      *hologram.Hologram
	spin   *hologram.ItemElement
	angle  float32
	total  int
	clicks map[int32]int
}

func newCounter(ids *hologram.IDAllocator, loc hologram.Location) *counter {
	c := &counter{clicks: make(map[int32]int)}
	h := hologram.New(ids, loc, hologram.WithName("counter"))
	h.DisplayTextLine(func(hologram.Viewer) proto.Component {
		return proto.ColoredText(fmt.Sprintf("%d clicks", c.total), "gold")
	}).Shadow(true).Display().Scale(1.5).Billboard(hologram.BillboardCenter)

	c.spin = hologram.NewItemElement(hologram.Static(proto.Item{ID: diamond, Count: 1})).SetWidth(0.4)
	c.spin.ItemDisplayType(hologram.ItemGround)
	h.CompositeLine().
		Add(c.spin).
		AddSpacer(0.1).
		Add(hologram.NewTextElement(func(v hologram.Viewer) proto.Component {
			return proto.Text(fmt.Sprintf("you: %d", c.clicks[v.ID()]))
		}).SetWidth(0.8)).
		SetAlignment(hologram.AlignCenter)

	h.TextLine(func(v hologram.Viewer) string {
		return fmt.Sprintf("§7viewer %d on %s", v.ID(), v.Protocol())
	})
	h.InteractionLine(1.2, 1).Responsive(true).OnClick(c.click)
	c.h = h
	return c
}

func (c *counter) click(v hologram.Viewer) {
	c.total++
	c.clicks[v.ID()]++
	c.h.UpdateLines()
}

// step turns the item a quarter and lets clients interpolate.
func (c *counter) step() {
	c.angle += math32.Pi / 2
	c.spin.Display().
		InterpolationDelay(0).
		TransformationInterpolationDuration(20).
		RotationLeft(hologram.AxisAngle(0, 1, 0, c.angle))
	c.h.UpdateLines()
}

func (s *HologramService) startDemo(loc hologram.Location, interval time.Duration) error {
	c := newCounter(s.ids, loc)
	if err := s.add(c.h); err != nil {
		return err
	}
	go func() {
		for range time.Tick(interval) {
			s.do(c.step)
		}
	}()
	return nil
}
