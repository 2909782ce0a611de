package flashcard

import (
	"errors"
	"testing"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

func testStore(t *testing.T) content.Store {
	t.Helper()
	s, err := content.NewMemoryStore(&content.Pack{Version: "v1.0.0", Level: 1, Vocabulary: []content.VocabularyItem{
		{Hanzi: "哥哥", Pinyin: "gēge", Translation: "older brother"},
		{Hanzi: "妹妹", Pinyin: "mèimei", Translation: "younger sister"},
		{Hanzi: "爸爸", Pinyin: "bàba", Translation: "father"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewDeck_EmptyLevel(t *testing.T) {
	_, err := NewDeck(testStore(t), 4, game.NewSource(1))
	var empty *game.ErrEmptyPool
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want ErrEmptyPool", err)
	}
}

func TestDeck_NavigationWraps(t *testing.T) {
	d, err := NewDeck(testStore(t), 1, game.NewSource(1))
	if err != nil {
		t.Fatal(err)
	}
	first := d.Current()

	d.Prev()
	if i, n := d.Position(); i != 2 || n != 3 {
		t.Errorf("Prev from first: position %d/%d, want 2/3", i, n)
	}
	d.Next()
	if d.Current() != first {
		t.Errorf("Next after Prev should return to first card")
	}

	d.Next()
	d.Next()
	d.Next()
	if d.Current() != first {
		t.Errorf("three Next calls on a 3-card deck should wrap")
	}
}

func TestDeck_FlipResetsOnMove(t *testing.T) {
	d, _ := NewDeck(testStore(t), 1, game.NewSource(2))
	d.Flip()
	if !d.Flipped() {
		t.Fatal("Flip should show the back")
	}
	d.Next()
	if d.Flipped() {
		t.Error("moving should turn the card face down")
	}

	if !d.ShowPinyin() {
		t.Error("pinyin is shown by default")
	}
	d.TogglePinyin()
	if d.ShowPinyin() {
		t.Error("TogglePinyin should hide pinyin")
	}
}

func TestDeck_Reshuffle(t *testing.T) {
	d, _ := NewDeck(testStore(t), 1, game.NewSource(3))
	d.Next()
	d.Flip()
	d.Reshuffle()
	if i, _ := d.Position(); i != 0 || d.Flipped() {
		t.Errorf("after Reshuffle: index %d flipped %v", i, d.Flipped())
	}
	seen := map[string]bool{}
	for _, c := range d.Cards() {
		seen[c.Hanzi] = true
	}
	if len(seen) != 3 {
		t.Errorf("reshuffled deck lost cards: %v", seen)
	}
}
