package layout

import (
	"strconv"
	"strings"
)

// Unit-safe lengths and line heights. Values arriving from CLI flags and
// notation directives keep the unit the author wrote until a consumer asks
// for a concrete target unit.

// Unit is the unit a length value was written in.
type Unit int

const (
	UnitNone Unit = iota // bare number, e.g. a factor
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitNames = [...]string{UnitMM: "mm", UnitCM: "cm", UnitIN: "in", UnitPT: "pt"}

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	if u > UnitNone && int(u) < len(unitNames) {
		return unitNames[u]
	}
	return ""
}

// Length is a numeric value together with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// mmPerUnit is the factor that takes one of u to millimeters.
func mmPerUnit(u Unit) float64 {
	switch u {
	case UnitCM:
		return 10
	case UnitIN:
		return 25.4
	case UnitPT:
		return PtToMm
	default:
		return 1
	}
}

// To converts the length to the target unit. Supported targets: UnitMM, UnitPT.
func (l Length) To(target Unit) float64 {
	if l.Unit == UnitNone {
		// bare numbers pass through, the caller decides their meaning
		return l.Value
	}
	if l.Unit == UnitPT && target == UnitPT {
		return l.Value
	}
	mm := l.Value * mmPerUnit(l.Unit)
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

var lengthSuffixes = []struct {
	suffix string
	unit   Unit
}{
	{"mm", UnitMM},
	{"cm", UnitCM},
	{"in", UnitIN},
	{"pt", UnitPT},
}

// ParseLength parses a length like "15mm", "1in" or "12pt", keeping the
// unit as written. Empty or unparsable input yields a zero Length with
// UnitNone so callers can tell "not a length" from "0mm".
func ParseLength(value string) Length {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}
	}

	unit := UnitNone
	for _, s := range lengthSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			v = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}

// LineHeightKind tells a factor line height apart from an absolute one.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec keeps the author's line-height intent: a multiple of the
// font size (1.4x) or an absolute length (6mm).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight accepts "1.4x" as a factor and "6mm"/"18pt" as an
// absolute length. ok is false for anything else, including bare numbers.
func ParseLineHeight(value string) (LineHeightSpec, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return LineHeightSpec{}, false
	}

	if num, found := strings.CutSuffix(v, "x"); found {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, false
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, true
	}

	l := ParseLength(v)
	if l.Unit == UnitNone || l.Value <= 0 {
		return LineHeightSpec{}, false
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, true
}

// Resolve turns the setting into an absolute line height in the target
// unit, scaling by the given font size when it is a factor. Without a
// usable factor it resolves to 1.4 times the font size.
func (s LineHeightSpec) Resolve(fontSize Length, target Unit) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.To(target)
	case LineHeightFactor:
		if s.Factor > 0 {
			return fontSize.To(target) * s.Factor
		}
	}
	return fontSize.To(target) * 1.4
}
