package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/icexin/gocraft-holo/hologram"
	"github.com/icexin/gocraft-holo/proto"
)

var billboards = map[string]hologram.Billboard{
	"fixed":      hologram.BillboardFixed,
	"vertical":   hologram.BillboardVertical,
	"horizontal": hologram.BillboardHorizontal,
	"center":     hologram.BillboardCenter,
}

var textAligns = map[string]hologram.TextAlignment{
	"center": hologram.TextCenter,
	"left":   hologram.TextLeft,
	"right":  hologram.TextRight,
}

var aligns = map[string]hologram.Alignment{
	"center": hologram.AlignCenter,
	"left":   hologram.AlignLeft,
	"right":  hologram.AlignRight,
}

var itemDisplays = map[string]hologram.ItemDisplayType{
	"none":                  hologram.ItemNone,
	"thirdperson_lefthand":  hologram.ItemThirdPersonLeftHand,
	"thirdperson_righthand": hologram.ItemThirdPersonRightHand,
	"firstperson_lefthand":  hologram.ItemFirstPersonLeftHand,
	"firstperson_righthand": hologram.ItemFirstPersonRightHand,
	"head":                  hologram.ItemHead,
	"gui":                   hologram.ItemGUI,
	"ground":                hologram.ItemGround,
	"fixed":                 hologram.ItemFixed,
}

// Build creates a detached hologram from d. opts are applied after the
// options derived from the definition.
func (d *Definition) Build(ids *hologram.IDAllocator, opts ...hologram.Option) (*hologram.Hologram, error) {
	base := []hologram.Option{hologram.WithID(d.ID()), hologram.WithName(d.Name)}
	if d.Spacing > 0 {
		base = append(base, hologram.WithLineSpacing(d.Spacing))
	}
	h := hologram.New(ids, d.Location.Location(), append(base, opts...)...)
	lines, err := d.BuildLines(h)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if err := h.AddLine(l); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// BuildLines creates the lines of d for h without adding them, ready for
// Hologram.ReplaceLines.
func (d *Definition) BuildLines(h *hologram.Hologram) ([]hologram.Line, error) {
	lines := make([]hologram.Line, 0, len(d.Lines))
	for i := range d.Lines {
		l, err := d.Lines[i].build(h)
		if err != nil {
			return nil, fmt.Errorf("config: %s line %d: %w", d.Name, i, err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// expand replaces the per-viewer placeholders.
func expand(s string, v hologram.Viewer) string {
	if !strings.Contains(s, "{") {
		return s
	}
	r := strings.NewReplacer(
		"{viewer}", strconv.Itoa(int(v.ID())),
		"{protocol}", v.Protocol().String(),
	)
	return r.Replace(s)
}

func legacyText(s string) func(hologram.Viewer) string {
	return func(v hologram.Viewer) string {
		return proto.Legacy(proto.ParseLegacy('&', expand(s, v)))
	}
}

func richText(s string) func(hologram.Viewer) proto.Component {
	return func(v hologram.Viewer) proto.Component {
		return proto.ParseLegacy('&', expand(s, v))
	}
}

func (i *ItemDef) item() proto.Item {
	if i == nil {
		return proto.Item{}
	}
	it := proto.Item{ID: i.ID, Count: i.Count}
	if it.Count == 0 {
		it.Count = 1
	}
	return it
}

func (l *LineDef) build(h *hologram.Hologram) (hologram.Line, error) {
	switch l.Type {
	case "text":
		return hologram.NewTextLine(h, legacyText(l.Text)).SetYOffset(l.YOffset), nil
	case "item":
		return hologram.NewItemLine(h, hologram.Static(l.Item.item())).SetYOffset(l.YOffset), nil
	case "block":
		return hologram.NewBlockLine(h, hologram.Static(l.Item.item())).SetYOffset(l.YOffset), nil
	case "display_text":
		dl := hologram.NewDisplayTextLine(h, richText(l.Text)).SetYOffset(l.YOffset)
		l.TextOptions.applyLine(dl)
		return dl, l.Display.apply(dl.Display())
	case "display_item":
		dl := hologram.NewDisplayItemLine(h, hologram.Static(l.Item.item())).SetYOffset(l.YOffset)
		if l.ItemDisplay != "" {
			dl.ItemDisplayType(itemDisplays[l.ItemDisplay])
		}
		return dl, l.Display.apply(dl.Display())
	case "display_block":
		dl := hologram.NewDisplayBlockLine(h, hologram.Static(proto.BlockState(l.Block))).SetYOffset(l.YOffset)
		return dl, l.Display.apply(dl.Display())
	case "composite":
		cl := hologram.NewCompositeLine(h).SetYOffset(l.YOffset).YTranslation(l.YTranslation)
		if l.Align != "" {
			cl.SetAlignment(aligns[l.Align])
		}
		for i := range l.Elements {
			e, err := l.Elements[i].build()
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			cl.Add(e)
		}
		return cl, nil
	case "interaction":
		return hologram.NewInteractionLine(h, l.Width, l.Height).
			Responsive(l.Responsive).
			SetYOffset(l.YOffset), nil
	}
	return nil, fmt.Errorf("unknown line type %q", l.Type)
}

func (e *ElementDef) build() (hologram.Element, error) {
	switch e.Type {
	case "spacer":
		return hologram.NewSpacer(*e.Width), nil
	case "text":
		te := hologram.NewTextElement(richText(e.Text))
		if e.Width != nil {
			te.SetWidth(*e.Width)
		}
		e.TextOptions.applyElement(te)
		return te, e.Display.apply(te.Display())
	case "item":
		ie := hologram.NewItemElement(hologram.Static(e.Item.item()))
		if e.Width != nil {
			ie.SetWidth(*e.Width)
		}
		if e.ItemDisplay != "" {
			ie.ItemDisplayType(itemDisplays[e.ItemDisplay])
		}
		return ie, e.Display.apply(ie.Display())
	case "block":
		be := hologram.NewBlockElement(hologram.Static(proto.BlockState(e.Block)))
		if e.Width != nil {
			be.SetWidth(*e.Width)
		}
		return be, e.Display.apply(be.Display())
	}
	return nil, fmt.Errorf("unknown element type %q", e.Type)
}

// textSetter is what display text lines and text elements have in common.
type textSetter[T any] interface {
	LineWidth(int32) T
	Background(int32) T
	TextOpacity(byte) T
	Shadow(bool) T
	SeeThrough(bool) T
	DefaultBackground(bool) T
	Alignment(hologram.TextAlignment) T
}

func applyText[T any](o *TextOptions, s textSetter[T]) {
	if o.LineWidth > 0 {
		s.LineWidth(o.LineWidth)
	}
	if o.Background != nil {
		s.Background(int32(uint32(*o.Background)))
	}
	if o.Opacity != nil {
		s.TextOpacity(byte(*o.Opacity))
	}
	if o.Shadow {
		s.Shadow(true)
	}
	if o.SeeThrough {
		s.SeeThrough(true)
	}
	if o.DefaultBackground {
		s.DefaultBackground(true)
	}
	if o.TextAlign != "" {
		s.Alignment(textAligns[o.TextAlign])
	}
}

func (o *TextOptions) applyLine(l *hologram.DisplayTextLine) {
	applyText[*hologram.DisplayTextLine](o, l)
}

func (o *TextOptions) applyElement(e *hologram.TextElement) {
	applyText[*hologram.TextElement](o, e)
}

func vec3(v []float32) (x, y, z float32, err error) {
	if len(v) != 3 {
		return 0, 0, 0, fmt.Errorf("want 3 components, got %d", len(v))
	}
	return v[0], v[1], v[2], nil
}

func (d *DisplayDef) apply(dp *hologram.Display) error {
	if d == nil {
		return nil
	}
	if d.Translation != nil {
		x, y, z, err := vec3(d.Translation)
		if err != nil {
			return fmt.Errorf("translation: %w", err)
		}
		dp.Translation(x, y, z)
	}
	if d.Scale != nil {
		x, y, z, err := vec3(d.Scale)
		if err != nil {
			return fmt.Errorf("scale: %w", err)
		}
		dp.ScaleXYZ(x, y, z)
	}
	if d.Rotation != nil {
		x, y, z, err := vec3(d.Rotation.Axis)
		if err != nil {
			return fmt.Errorf("rotation: %w", err)
		}
		dp.RotationLeft(hologram.AxisAngle(x, y, z, d.Rotation.Angle*math32.Pi/180))
	}
	if d.Billboard != "" {
		dp.Billboard(billboards[d.Billboard])
	}
	if d.Brightness != nil {
		dp.Brightness(d.Brightness.Block, d.Brightness.Sky)
	}
	if d.ViewRange != nil {
		dp.ViewRange(*d.ViewRange)
	}
	if d.ShadowRadius != nil {
		dp.ShadowRadius(*d.ShadowRadius)
	}
	if d.ShadowStrength != nil {
		dp.ShadowStrength(*d.ShadowStrength)
	}
	if d.GlowColor != nil {
		dp.GlowColor(*d.GlowColor)
	}
	if d.Interpolation != nil {
		dp.TransformationInterpolationDuration(*d.Interpolation)
	}
	if d.TeleportDuration != nil {
		dp.PositionRotationInterpolationDuration(*d.TeleportDuration)
	}
	return nil
}
