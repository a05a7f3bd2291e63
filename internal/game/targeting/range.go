package targeting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/counterpunch/counterpunch-go/internal/game/grid"
)

// Shape identifies the kind of area a RangeType covers.
type Shape string

const (
	// ShapeEmpty signals that there is no targeting step at all.
	ShapeEmpty Shape = "EMPTY"
	// ShapeSingle covers only the origin tile.
	ShapeSingle Shape = "SINGLE"
	// ShapeSquare covers every tile within Chebyshev distance Size of the origin.
	ShapeSquare Shape = "SQUARE"
	// ShapeCustom covers the origin translated by each literal offset.
	ShapeCustom Shape = "CUSTOM"
)

// RangeType is an abstract area: a shape tag plus its parameters.
type RangeType struct {
	Shape   Shape
	Size    int
	Offsets []grid.Point
}

var (
	Empty  = RangeType{Shape: ShapeEmpty}
	Single = RangeType{Shape: ShapeSingle}
)

// Square returns a square range of the given Chebyshev radius. A negative
// radius is a programming error and panics.
func Square(size int) RangeType {
	if size < 0 {
		panic(fmt.Sprintf("targeting: negative square size %d", size))
	}
	return RangeType{Shape: ShapeSquare, Size: size}
}

// Custom returns a range made of literal offsets from the origin.
func Custom(offsets ...grid.Point) RangeType {
	return RangeType{Shape: ShapeCustom, Offsets: append([]grid.Point(nil), offsets...)}
}

// IsEmpty reports whether the range has no targeting step.
func (r RangeType) IsEmpty() bool {
	return r.Shape == ShapeEmpty || r.Shape == ""
}

// ResolveAt maps the range onto absolute coordinates around origin.
// The result is not clipped to any map; callers clip with grid.Map.Clip.
func ResolveAt(r RangeType, origin grid.Point) []grid.Point {
	switch r.Shape {
	case ShapeSingle:
		return []grid.Point{origin}
	case ShapeSquare:
		if r.Size < 0 {
			panic(fmt.Sprintf("targeting: negative square size %d", r.Size))
		}
		side := 2*r.Size + 1
		points := make([]grid.Point, 0, side*side)
		for y := origin.Y - r.Size; y <= origin.Y+r.Size; y++ {
			for x := origin.X - r.Size; x <= origin.X+r.Size; x++ {
				points = append(points, grid.Pt(x, y))
			}
		}
		return points
	case ShapeCustom:
		points := make([]grid.Point, 0, len(r.Offsets))
		for _, off := range r.Offsets {
			points = append(points, origin.Add(off))
		}
		return points
	default:
		return nil
	}
}

// String formats the range in the same notation ParseRange accepts.
func (r RangeType) String() string {
	switch r.Shape {
	case ShapeSingle:
		return "single"
	case ShapeSquare:
		return fmt.Sprintf("square:%d", r.Size)
	case ShapeCustom:
		parts := make([]string, 0, len(r.Offsets))
		for _, off := range r.Offsets {
			parts = append(parts, fmt.Sprintf("%d,%d", off.X, off.Y))
		}
		return "custom:" + strings.Join(parts, ";")
	default:
		return "empty"
	}
}

// ParseRange parses "empty", "single", "square:N" or "custom:x,y;x,y".
func ParseRange(formatted string) (RangeType, error) {
	text := strings.ToLower(strings.TrimSpace(formatted))
	name, arg, _ := strings.Cut(text, ":")

	switch name {
	case "", "empty":
		return Empty, nil
	case "single":
		return Single, nil
	case "square":
		size, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return RangeType{}, fmt.Errorf("invalid square size %q: %w", arg, err)
		}
		if size < 0 {
			return RangeType{}, fmt.Errorf("square size must not be negative, got %d", size)
		}
		return Square(size), nil
	case "custom":
		var offsets []grid.Point
		for _, pair := range strings.Split(arg, ";") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			xs, ys, ok := strings.Cut(pair, ",")
			if !ok {
				return RangeType{}, fmt.Errorf("invalid offset %q: expected x,y", pair)
			}
			x, err := strconv.Atoi(strings.TrimSpace(xs))
			if err != nil {
				return RangeType{}, fmt.Errorf("invalid offset %q: %w", pair, err)
			}
			y, err := strconv.Atoi(strings.TrimSpace(ys))
			if err != nil {
				return RangeType{}, fmt.Errorf("invalid offset %q: %w", pair, err)
			}
			offsets = append(offsets, grid.Pt(x, y))
		}
		return Custom(offsets...), nil
	default:
		return RangeType{}, fmt.Errorf("unknown range shape %q", name)
	}
}

// UnmarshalText lets ranges be written as plain strings in config and scripts.
func (r *RangeType) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (r RangeType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
