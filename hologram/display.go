package hologram

import (
	"github.com/chewxy/math32"

	"github.com/icexin/gocraft-holo/proto"
)

// Billboard controls how a display entity turns towards the camera.
type Billboard byte

const (
	BillboardFixed Billboard = iota
	BillboardVertical
	BillboardHorizontal
	BillboardCenter
)

// NoOverride disables the brightness and glow color overrides.
const NoOverride int32 = -1

// Display holds the transform and rendering properties shared by every
// display entity. Every setter stores the value and marks its field, and
// returns the same Display so calls can be chained.
type Display struct {
	fields tracker

	interpolationDelay     int32
	transformationDuration int32
	teleportDuration       int32
	translation            proto.Vector3f
	scale                  proto.Vector3f
	rotationLeft           proto.Quaternion
	rotationRight          proto.Quaternion
	billboard              Billboard
	brightness             int32
	viewRange              float32
	shadowRadius           float32
	shadowStrength         float32
	width                  float32
	height                 float32
	glowColor              int32
}

// newDisplay starts from the client defaults, so nothing but the always
// fields goes out until a setter is called.
func newDisplay(always ...proto.Field) *Display {
	return &Display{
		fields:         newTracker(always...),
		scale:          proto.Vector3f{X: 1, Y: 1, Z: 1},
		rotationLeft:   proto.Identity,
		rotationRight:  proto.Identity,
		billboard:      BillboardFixed,
		brightness:     NoOverride,
		viewRange:      1,
		shadowStrength: 1,
		glowColor:      NoOverride,
	}
}

func (d *Display) set(f proto.Field) *Display {
	d.fields.mark(f)
	return d
}

// Translation is relative to the entity position and applied before the
// layout offset of composite elements.
func (d *Display) Translation(x, y, z float32) *Display {
	d.translation = proto.Vector3f{X: x, Y: y, Z: z}
	return d.set(proto.FieldTranslation)
}

func (d *Display) Scale(s float32) *Display {
	return d.ScaleXYZ(s, s, s)
}

func (d *Display) ScaleXYZ(x, y, z float32) *Display {
	d.scale = proto.Vector3f{X: x, Y: y, Z: z}
	return d.set(proto.FieldScale)
}

// RotationLeft is applied before scaling.
func (d *Display) RotationLeft(q proto.Quaternion) *Display {
	d.rotationLeft = q
	return d.set(proto.FieldRotationLeft)
}

// RotationRight is applied after scaling.
func (d *Display) RotationRight(q proto.Quaternion) *Display {
	d.rotationRight = q
	return d.set(proto.FieldRotationRight)
}

func (d *Display) Billboard(b Billboard) *Display {
	d.billboard = b
	return d.set(proto.FieldBillboard)
}

// InterpolationDelay is in ticks.
func (d *Display) InterpolationDelay(ticks int32) *Display {
	d.interpolationDelay = ticks
	return d.set(proto.FieldInterpolationDelay)
}

func (d *Display) TransformationInterpolationDuration(ticks int32) *Display {
	d.transformationDuration = ticks
	return d.set(proto.FieldTransformationInterpolation)
}

// PositionRotationInterpolationDuration has no effect on 1.19.4 viewers.
func (d *Display) PositionRotationInterpolationDuration(ticks int32) *Display {
	d.teleportDuration = ticks
	return d.set(proto.FieldPositionRotationInterpolation)
}

// Brightness overrides the light levels (0-15) the entity is rendered with.
func (d *Display) Brightness(blockLight, skyLight int32) *Display {
	d.brightness = blockLight<<4 | skyLight<<20
	return d.set(proto.FieldBrightness)
}

func (d *Display) NaturalBrightness() *Display {
	d.brightness = NoOverride
	return d.set(proto.FieldBrightness)
}

// ViewRange is a multiplier, 1 by default.
func (d *Display) ViewRange(r float32) *Display {
	d.viewRange = r
	return d.set(proto.FieldViewRange)
}

func (d *Display) ShadowRadius(r float32) *Display {
	d.shadowRadius = r
	return d.set(proto.FieldShadowRadius)
}

func (d *Display) ShadowStrength(s float32) *Display {
	d.shadowStrength = s
	return d.set(proto.FieldShadowStrength)
}

// Size sets the culling box. Zero disables culling.
func (d *Display) Size(width, height float32) *Display {
	d.width, d.height = width, height
	d.fields.mark(proto.FieldDisplayWidth)
	return d.set(proto.FieldDisplayHeight)
}

// GlowColor takes an RGB color, or NoOverride.
func (d *Display) GlowColor(rgb int32) *Display {
	d.glowColor = rgb
	return d.set(proto.FieldGlowColor)
}

// value returns base display fields. offset is added to the translation.
func (d *Display) value(f proto.Field, offset proto.Vector3f) (interface{}, bool) {
	switch f {
	case proto.FieldInterpolationDelay:
		return d.interpolationDelay, true
	case proto.FieldTransformationInterpolation:
		return d.transformationDuration, true
	case proto.FieldPositionRotationInterpolation:
		return d.teleportDuration, true
	case proto.FieldTranslation:
		return d.translation.Add(offset), true
	case proto.FieldScale:
		return d.scale, true
	case proto.FieldRotationLeft:
		return d.rotationLeft, true
	case proto.FieldRotationRight:
		return d.rotationRight, true
	case proto.FieldBillboard:
		return byte(d.billboard), true
	case proto.FieldBrightness:
		return d.brightness, true
	case proto.FieldViewRange:
		return d.viewRange, true
	case proto.FieldShadowRadius:
		return d.shadowRadius, true
	case proto.FieldShadowStrength:
		return d.shadowStrength, true
	case proto.FieldDisplayWidth:
		return d.width, true
	case proto.FieldDisplayHeight:
		return d.height, true
	case proto.FieldGlowColor:
		return d.glowColor, true
	}
	return nil, false
}

// AxisAngle builds a rotation of angle radians around the axis (x, y, z).
func AxisAngle(x, y, z, angle float32) proto.Quaternion {
	n := math32.Sqrt(x*x + y*y + z*z)
	if n == 0 {
		return proto.Identity
	}
	s := math32.Sin(angle/2) / n
	return proto.Quaternion{X: x * s, Y: y * s, Z: z * s, W: math32.Cos(angle / 2)}
}
