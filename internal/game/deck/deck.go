// Package deck keeps the player's library, hand and discard pile.
package deck

import "github.com/counterpunch/counterpunch-go/internal/game/moves"

// HandLimit is the most cards a hand can hold.
const HandLimit = 7

// Shuffler is satisfied by *rand.Rand.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is drawn from the top (end) of the library.
type Deck struct {
	library  []moves.MoveID
	discard  []moves.MoveID
	hand     []moves.MoveID
	shuffler Shuffler
}

// New creates a deck whose library is cards in draw order (last card drawn first).
func New(cards []moves.MoveID, shuffler Shuffler) *Deck {
	return &Deck{
		library:  append([]moves.MoveID(nil), cards...),
		shuffler: shuffler,
	}
}

// Draw moves one card into the hand. It returns false when the hand is
// full or both library and discard are empty.
func (d *Deck) Draw() (moves.MoveID, bool) {
	if len(d.hand) >= HandLimit {
		return "", false
	}
	if len(d.library) == 0 {
		d.reshuffle()
	}
	if len(d.library) == 0 {
		return "", false
	}

	idx := len(d.library) - 1
	card := d.library[idx]
	d.library = d.library[:idx]
	d.hand = append(d.hand, card)
	return card, true
}

// DrawN draws up to n cards and returns how many were drawn.
func (d *Deck) DrawN(n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		if _, ok := d.Draw(); !ok {
			break
		}
		drawn++
	}
	return drawn
}

// Discard moves the card at hand index idx to the discard pile.
func (d *Deck) Discard(idx int) (moves.MoveID, bool) {
	if idx < 0 || idx >= len(d.hand) {
		return "", false
	}
	card := d.hand[idx]
	d.hand = append(d.hand[:idx], d.hand[idx+1:]...)
	d.discard = append(d.discard, card)
	return card, true
}

// Play discards the first card in hand matching id.
func (d *Deck) Play(id moves.MoveID) bool {
	for i, card := range d.hand {
		if card == id {
			_, ok := d.Discard(i)
			return ok
		}
	}
	return false
}

// Add puts a new card straight into the discard pile, e.g. a learned skill.
func (d *Deck) Add(id moves.MoveID) {
	d.discard = append(d.discard, id)
}

func (d *Deck) Hand() []moves.MoveID {
	return append([]moves.MoveID(nil), d.hand...)
}

func (d *Deck) CardsRemaining() int {
	return len(d.library)
}

func (d *Deck) CardsDiscarded() int {
	return len(d.discard)
}

func (d *Deck) reshuffle() {
	d.library = append(d.library, d.discard...)
	d.discard = d.discard[:0]
	if d.shuffler != nil {
		d.shuffler.Shuffle(len(d.library), func(i, j int) {
			d.library[i], d.library[j] = d.library[j], d.library[i]
		})
	}
}
