// Package config loads hologram definitions from YAML.
//
// A file is checked against an embedded JSON schema before it is decoded,
// so a definition that decodes is structurally valid:
//
//	holograms:
//	  - name: spawn
//	    location: {x: 0, y: 70, z: 0}
//	    lines:
//	      - type: text
//	        text: "&aWelcome, player {viewer}"
//	      - type: display_item
//	        item: {id: 276}
//	        display: {scale: [0.5, 0.5, 0.5]}
//
// Text uses ampersand color codes. {viewer} and {protocol} are replaced
// for every viewer.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/icexin/gocraft-holo/hologram"
)

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("holograms.schema.json", schemaJSON)

// namespace derives stable hologram ids from definition names.
var namespace = uuid.MustParse("6f1d5b8e-3c0a-4a52-9d3e-2b7f8c4e9a10")

type File struct {
	Holograms []Definition `yaml:"holograms"`
}

type Location struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`
}

func (l Location) Location() hologram.Location {
	return hologram.Location{X: l.X, Y: l.Y, Z: l.Z, Yaw: l.Yaw, Pitch: l.Pitch}
}

type Definition struct {
	Name     string    `yaml:"name"`
	Location Location  `yaml:"location"`
	Spacing  float64   `yaml:"spacing"`
	Lines    []LineDef `yaml:"lines"`
}

// ID is derived from the name, so a reloaded definition keeps its id.
func (d *Definition) ID() uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(d.Name))
}

type ItemDef struct {
	ID    int32 `yaml:"id"`
	Count int8  `yaml:"count"`
}

type Rotation struct {
	Axis  []float32 `yaml:"axis"`
	Angle float32   `yaml:"angle"` // degrees
}

type Brightness struct {
	Block int32 `yaml:"block"`
	Sky   int32 `yaml:"sky"`
}

type DisplayDef struct {
	Translation      []float32   `yaml:"translation"`
	Scale            []float32   `yaml:"scale"`
	Rotation         *Rotation   `yaml:"rotation"`
	Billboard        string      `yaml:"billboard"`
	Brightness       *Brightness `yaml:"brightness"`
	ViewRange        *float32    `yaml:"view_range"`
	ShadowRadius     *float32    `yaml:"shadow_radius"`
	ShadowStrength   *float32    `yaml:"shadow_strength"`
	GlowColor        *int32      `yaml:"glow_color"`
	Interpolation    *int32      `yaml:"interpolation"`
	TeleportDuration *int32      `yaml:"teleport_duration"`
}

// TextOptions are shared by display text lines and text elements.
type TextOptions struct {
	LineWidth         int32  `yaml:"line_width"`
	Background        *int64 `yaml:"background"`
	Opacity           *int32 `yaml:"opacity"`
	Shadow            bool   `yaml:"shadow"`
	SeeThrough        bool   `yaml:"see_through"`
	DefaultBackground bool   `yaml:"default_background"`
	TextAlign         string `yaml:"text_align"`
}

type ElementDef struct {
	Type        string      `yaml:"type"`
	Width       *float32    `yaml:"width"`
	Text        string      `yaml:"text"`
	Item        *ItemDef    `yaml:"item"`
	Block       int32       `yaml:"block"`
	ItemDisplay string      `yaml:"item_display"`
	Display     *DisplayDef `yaml:"display"`
	TextOptions `yaml:",inline"`
}

type LineDef struct {
	Type        string      `yaml:"type"`
	YOffset     float64     `yaml:"y_offset"`
	Text        string      `yaml:"text"`
	Item        *ItemDef    `yaml:"item"`
	Block       int32       `yaml:"block"`
	ItemDisplay string      `yaml:"item_display"`
	Display     *DisplayDef `yaml:"display"`
	TextOptions `yaml:",inline"`

	Align        string       `yaml:"align"`
	YTranslation float32      `yaml:"y_translation"`
	Elements     []ElementDef `yaml:"elements"`

	Width      float32 `yaml:"width"`
	Height     float32 `yaml:"height"`
	Responsive bool    `yaml:"responsive"`
}

// Validate checks a YAML document against the definition schema.
func Validate(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	// the validator wants plain JSON values
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var v interface{}
	if err := d.Decode(&v); err != nil {
		return err
	}
	return schema.Validate(v)
}

// Parse validates and decodes a definition file. Names must be unique.
func Parse(data []byte) (*File, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	f := new(File)
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, d := range f.Holograms {
		if seen[d.Name] {
			return nil, fmt.Errorf("config: duplicate hologram %q", d.Name)
		}
		seen[d.Name] = true
	}
	return f, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}
