package visual

import "time"

// CardLifetime is how long a shown card stays on screen.
const CardLifetime = 1500 * time.Millisecond

// ShownCard is a card the Recorder has been asked to display.
type ShownCard struct {
	Request   CardRequest
	Position  int
	Title     string
	Remaining time.Duration
}

// Recorder keeps the particles and cards currently on screen and ages
// them on Tick. It is the in-repo stand-in for a real particle system.
type Recorder struct {
	particles []ParticleRequest
	cards     []ShownCard
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) MakeParticle(req ParticleRequest) {
	r.particles = append(r.particles, req)
}

func (r *Recorder) MakeCard(req CardRequest, activeCount int) {
	r.cards = append(r.cards, ShownCard{
		Request:   req,
		Position:  activeCount,
		Title:     req.Title(),
		Remaining: CardLifetime,
	})
}

func (r *Recorder) ActiveCards() int {
	return len(r.cards)
}

// Particles returns the particles still on screen. Their Lifetime is
// what is left of it.
func (r *Recorder) Particles() []ParticleRequest {
	return append([]ParticleRequest(nil), r.particles...)
}

// Cards returns the cards still on screen.
func (r *Recorder) Cards() []ShownCard {
	return append([]ShownCard(nil), r.cards...)
}

// Tick ages particles and shown cards by d and drops the expired ones.
func (r *Recorder) Tick(d time.Duration) {
	particles := r.particles[:0]
	for _, p := range r.particles {
		p.Lifetime -= d
		if p.Lifetime > 0 {
			particles = append(particles, p)
		}
	}
	r.particles = particles

	cards := r.cards[:0]
	for _, c := range r.cards {
		c.Remaining -= d
		if c.Remaining > 0 {
			cards = append(cards, c)
		}
	}
	r.cards = cards
}
