// Package flashcard implements the flip-card review mode.
package flashcard

import (
	"slices"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

// Deck walks a shuffled copy of a level's vocabulary. The front of a card
// shows hanzi (and optionally pinyin); the back shows the translation.
type Deck struct {
	src        game.Source
	level      int
	cards      []content.VocabularyItem
	index      int
	flipped    bool
	showPinyin bool
}

// NewDeck deals a deck for level.
func NewDeck(store content.Store, level int, src game.Source) (*Deck, error) {
	words := store.VocabularyByLevel(level)
	if len(words) == 0 {
		return nil, &game.ErrEmptyPool{Level: level}
	}
	if src == nil {
		src = game.DefaultSource()
	}
	game.Shuffle(src, words)
	return &Deck{src: src, level: level, cards: words, showPinyin: true}, nil
}

// Level returns the deck's HSK level.
func (d *Deck) Level() int { return d.level }

// Current returns the card under view.
func (d *Deck) Current() content.VocabularyItem { return d.cards[d.index] }

// Flipped reports whether the back is showing.
func (d *Deck) Flipped() bool { return d.flipped }

// ShowPinyin reports whether pinyin is shown on the front.
func (d *Deck) ShowPinyin() bool { return d.showPinyin }

// Position returns the 0-based index and deck size.
func (d *Deck) Position() (int, int) { return d.index, len(d.cards) }

// Next moves to the following card, wrapping to the first, face down.
func (d *Deck) Next() {
	d.index = (d.index + 1) % len(d.cards)
	d.flipped = false
}

// Prev moves to the previous card, wrapping to the last, face down.
func (d *Deck) Prev() {
	d.index = (d.index - 1 + len(d.cards)) % len(d.cards)
	d.flipped = false
}

// Flip turns the current card over.
func (d *Deck) Flip() { d.flipped = !d.flipped }

// TogglePinyin shows or hides pinyin on the front.
func (d *Deck) TogglePinyin() { d.showPinyin = !d.showPinyin }

// Reshuffle reorders the deck and returns to the first card face down.
func (d *Deck) Reshuffle() {
	game.Shuffle(d.src, d.cards)
	d.index = 0
	d.flipped = false
}

// Cards returns a copy of the deck in its current order.
func (d *Deck) Cards() []content.VocabularyItem { return slices.Clone(d.cards) }
