package proto

import (
	"strings"

	"github.com/Tnze/go-mc/chat"
)

// Component is a JSON chat component.
type Component = chat.Message

// Text returns an unstyled component.
func Text(s string) Component {
	return chat.Text(s)
}

// ColoredText returns a component in one named color.
func ColoredText(s, color string) Component {
	return Component{Text: s, Color: color}
}

// SectionSign prefixes formatting codes in legacy text.
const SectionSign = '§'

var legacyColors = map[rune]string{
	'0': "black",
	'1': "dark_blue",
	'2': "dark_green",
	'3': "dark_aqua",
	'4': "dark_red",
	'5': "dark_purple",
	'6': "gold",
	'7': "gray",
	'8': "dark_gray",
	'9': "blue",
	'a': "green",
	'b': "aqua",
	'c': "red",
	'd': "light_purple",
	'e': "yellow",
	'f': "white",
}

var colorCodes = func() map[string]rune {
	m := make(map[string]rune, len(legacyColors))
	for code, name := range legacyColors {
		m[name] = code
	}
	return m
}()

// ParseLegacy converts text using marker-prefixed formatting codes, e.g.
// ParseLegacy('&', "&aHello &lworld"), into a component. A color code
// resets the styles that precede it.
func ParseLegacy(marker rune, s string) Component {
	var (
		root Component
		cur  Component
		buf  strings.Builder
	)
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		cur.Text = buf.String()
		root.Extra = append(root.Extra, cur)
		buf.Reset()
	}
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != marker || i+1 >= len(runes) {
			buf.WriteRune(r)
			continue
		}
		code := runes[i+1]
		if code >= 'A' && code <= 'Z' {
			code += 'a' - 'A'
		}
		style := cur
		switch code {
		case 'l':
			style.Bold = true
		case 'o':
			style.Italic = true
		case 'n':
			style.UnderLined = true
		case 'm':
			style.StrikeThrough = true
		case 'k':
			style.Obfuscated = true
		case 'r':
			style = Component{}
		default:
			color, ok := legacyColors[code]
			if !ok {
				buf.WriteRune(r)
				continue
			}
			style = Component{Color: color}
		}
		flush()
		cur = style
		i++
	}
	flush()
	if len(root.Extra) == 1 {
		return root.Extra[0]
	}
	return root
}

// Legacy renders c with section-sign codes, for viewers that only
// understand plain strings.
func Legacy(c Component) string {
	var b strings.Builder
	writeLegacy(&b, c, Component{})
	return b.String()
}

func writeLegacy(b *strings.Builder, c, parent Component) {
	style := Component{
		Color:         c.Color,
		Bold:          c.Bold || parent.Bold,
		Italic:        c.Italic || parent.Italic,
		UnderLined:    c.UnderLined || parent.UnderLined,
		StrikeThrough: c.StrikeThrough || parent.StrikeThrough,
		Obfuscated:    c.Obfuscated || parent.Obfuscated,
	}
	if style.Color == "" {
		style.Color = parent.Color
	}

	if c.Text != "" {
		if code, ok := colorCodes[style.Color]; ok {
			b.WriteRune(SectionSign)
			b.WriteRune(code)
		} else if b.Len() > 0 {
			b.WriteRune(SectionSign)
			b.WriteRune('r')
		}
		for _, f := range []struct {
			on   bool
			code rune
		}{
			{style.Bold, 'l'},
			{style.Italic, 'o'},
			{style.UnderLined, 'n'},
			{style.StrikeThrough, 'm'},
			{style.Obfuscated, 'k'},
		} {
			if f.on {
				b.WriteRune(SectionSign)
				b.WriteRune(f.code)
			}
		}
		b.WriteString(c.Text)
	}
	for _, e := range c.Extra {
		writeLegacy(b, e, style)
	}
}
