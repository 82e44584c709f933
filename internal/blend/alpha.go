// Package blend implements Porter-Duff compositing over single-channel
// alpha rasters.
//
// All operations work on straight alpha values in the range 0-255.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode represents a compositing operation over alpha samples.
type Mode uint8

const (
	// SourceOver composites source over destination: S + D*(1-S). [default]
	SourceOver Mode = iota
	// Source replaces the destination with the source sample.
	Source
	// DestinationOut keeps destination where source is transparent: D*(1-S).
	DestinationOut
	// Lighten keeps the larger of the two samples. Used to accumulate a
	// union of coverage when overlapping stamps must not compound.
	Lighten
)

// Func is the signature for alpha blend operations.
// s is the source sample, d the destination sample; the result replaces d.
type Func func(s, d uint8) uint8

// ForMode returns the blend function for the given mode.
// Returns sourceOver for unknown modes.
func ForMode(mode Mode) Func {
	switch mode {
	case Source:
		return source
	case SourceOver:
		return sourceOver
	case DestinationOut:
		return destinationOut
	case Lighten:
		return lighten
	default:
		return sourceOver
	}
}

func source(s, _ uint8) uint8 { return s }

func sourceOver(s, d uint8) uint8 { return addClamp(s, mulDiv255(d, inv255(s))) }

func destinationOut(s, d uint8) uint8 { return mulDiv255(d, inv255(s)) }

func lighten(s, d uint8) uint8 {
	if s > d {
		return s
	}
	return d
}
