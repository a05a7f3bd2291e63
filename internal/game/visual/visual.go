// Package visual defines the fire-and-forget requests the engine hands to
// the rendering layer, and a Recorder sink that buffers them.
package visual

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
)

// RGB is a plain 8-bit colour.
type RGB struct {
	R, G, B uint8
}

var (
	Red    = RGB{R: 255}
	Green  = RGB{G: 255}
	Yellow = RGB{R: 255, G: 255}
	White  = RGB{R: 255, G: 255, B: 255}
)

// HitLifetime is how long a hit particle lingers.
const HitLifetime = 600 * time.Millisecond

// HitGlyph is the full block drawn for hit particles.
const HitGlyph = '█'

// ParticleRequest asks the renderer to draw a short-lived glyph.
type ParticleRequest struct {
	Position grid.Point    `json:"position"`
	Lifetime time.Duration `json:"lifetime"`
	Glyph    rune          `json:"glyph"`
	Color    RGB           `json:"color"`
}

// Hit returns the standard red hit particle at p.
func Hit(p grid.Point) ParticleRequest {
	return ParticleRequest{Position: p, Lifetime: HitLifetime, Glyph: HitGlyph, Color: Red}
}

// CardRequest is one matchup the renderer shows as a card: who attacks,
// with what, and which tiles it covers.
type CardRequest struct {
	Intent   moves.Intent `json:"intent"`
	Source   ecs.Entity   `json:"source"`
	Offset   int          `json:"offset"`
	Affected []grid.Point `json:"affected"`
}

var titleCaser = cases.Title(language.English)

// Title is the card heading, e.g. "Super Punch".
func (c CardRequest) Title() string {
	return titleCaser.String(c.Intent.Name())
}

// Sink receives visual requests. Implementations must not call back into
// the engine.
type Sink interface {
	MakeParticle(req ParticleRequest)
	MakeCard(req CardRequest, activeCount int)
	// ActiveCards is the number of cards currently on screen.
	ActiveCards() int
}

// Nop discards everything.
type Nop struct{}

func (Nop) MakeParticle(ParticleRequest) {}
func (Nop) MakeCard(CardRequest, int)    {}
func (Nop) ActiveCards() int             { return 0 }
