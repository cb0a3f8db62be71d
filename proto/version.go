package proto

import (
	"errors"
	"fmt"
)

// Version is the numeric protocol revision negotiated with a viewer.
type Version int32

// Protocol revisions the metadata tables distinguish between. A viewer on a
// revision between two constants uses the layout of the lower one.
const (
	V1_8     Version = 47
	V1_9     Version = 107
	V1_10    Version = 210
	V1_11    Version = 315
	V1_12    Version = 335
	V1_13    Version = 393
	V1_14    Version = 477
	V1_15    Version = 573
	V1_16    Version = 735
	V1_17    Version = 755
	V1_18    Version = 757
	V1_19_4  Version = 762
	V1_20_2  Version = 764
	V1_20_5  Version = 766
	V1_21    Version = 767
	V1_21_9  Version = 773
	V1_21_11 Version = 774
)

var versionNames = []struct {
	v    Version
	name string
}{
	{V1_8, "1.8"},
	{V1_9, "1.9"},
	{V1_10, "1.10"},
	{V1_11, "1.11"},
	{V1_12, "1.12"},
	{V1_13, "1.13"},
	{V1_14, "1.14"},
	{V1_15, "1.15"},
	{V1_16, "1.16"},
	{V1_17, "1.17"},
	{V1_18, "1.18"},
	{V1_19_4, "1.19.4"},
	{V1_20_2, "1.20.2"},
	{V1_20_5, "1.20.5"},
	{V1_21, "1.21"},
	{V1_21_9, "1.21.9"},
	{V1_21_11, "1.21.11"},
}

func (v Version) String() string {
	name := ""
	for _, n := range versionNames {
		if v < n.v {
			break
		}
		name = n.name
		if v == n.v {
			return name
		}
	}
	if name == "" {
		return fmt.Sprintf("protocol %d", int32(v))
	}
	return fmt.Sprintf("%s+ (protocol %d)", name, int32(v))
}

// ErrUnsupportedVersion is returned when a feature is requested for a viewer
// whose protocol predates it.
var ErrUnsupportedVersion = errors.New("unsupported on this protocol version")

// VersionError reports which entity kind needed a newer protocol.
type VersionError struct {
	Kind    EntityKind
	Version Version
	Min     Version
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s is available since %s, viewer is on %s", e.Kind, e.Min, e.Version)
}

func (e *VersionError) Unwrap() error {
	return ErrUnsupportedVersion
}
