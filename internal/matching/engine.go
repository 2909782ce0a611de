package matching

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

// Engine runs one matching game. Intents arrive from the UI goroutine and
// the reveal timer fires on the clock's goroutine, so all state is guarded
// by mu.
type Engine struct {
	store content.Store
	cfg   Config
	src   game.Source
	clk   clock.WithDelayedExecution
	log   logrus.FieldLogger

	mu        sync.Mutex
	state     State
	level     int
	mode      Mode
	pairCount int
	cards     []Card
	index     map[string]int
	pending   int
	reveal    []int
	moves     int
	matched   int

	timer      clock.Timer
	generation uint64
	revealDone chan struct{}
}

// New creates an engine in StateModeSelect.
func New(store content.Store, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src := cfg.Source
	if src == nil {
		src = game.DefaultSource()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{
		store:   store,
		cfg:     cfg,
		src:     src,
		clk:     clk,
		log:     log.WithField("component", "matching"),
		pending: -1,
	}, nil
}

// Start deals a shuffled board of 2*pairCount cards for level. A
// non-positive pairCount uses the configured default.
func (e *Engine) Start(level int, mode Mode, pairCount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateModeSelect {
		return e.rejectLocked("start", &game.ErrInvalidTransition{Op: "start", State: e.state.String()})
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	if pairCount <= 0 {
		pairCount = e.cfg.PairCount
	}
	if pairCount < 2 {
		return game.ErrInvalidCount
	}

	words := lo.UniqBy(e.store.VocabularyByLevel(level), func(w content.VocabularyItem) string {
		return w.Hanzi
	})
	if len(words) == 0 {
		return &game.ErrEmptyPool{Level: level}
	}
	picks, err := game.Sample(e.src, len(words), pairCount)
	if err != nil {
		return err
	}

	cards := make([]Card, 0, 2*pairCount)
	for i, idx := range picks {
		w := words[idx]
		pairID := fmt.Sprintf("pair-%d", i)
		cards = append(cards, Card{
			ID:      fmt.Sprintf("hanzi-%d", i),
			PairID:  pairID,
			Content: w.Hanzi,
			Kind:    KindHanzi,
		})
		if mode == ModePinyinHanzi {
			cards = append(cards, Card{
				ID:      fmt.Sprintf("pinyin-%d", i),
				PairID:  pairID,
				Content: w.Pinyin,
				Kind:    KindPinyin,
			})
		} else {
			cards = append(cards, Card{
				ID:      fmt.Sprintf("translation-%d", i),
				PairID:  pairID,
				Content: w.Translation,
				Kind:    KindTranslation,
			})
		}
	}
	game.Shuffle(e.src, cards)

	e.index = make(map[string]int, len(cards))
	for i, c := range cards {
		e.index[c.ID] = i
	}
	e.cards = cards
	e.level = level
	e.mode = mode
	e.pairCount = pairCount
	e.pending = -1
	e.reveal = nil
	e.moves = 0
	e.matched = 0
	e.state = StatePlaying
	e.log.WithFields(logrus.Fields{"level": level, "mode": mode, "pairs": pairCount}).Debug("matching started")
	return nil
}

// Select picks a card. A pick while a mismatch is still revealed first
// hides that pair, then processes the new pick.
func (e *Engine) Select(cardID string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return OutcomeIgnored, e.rejectLocked("select", &game.ErrInvalidTransition{Op: "select", State: e.state.String()})
	}
	idx, ok := e.index[cardID]
	if !ok {
		return OutcomeIgnored, e.rejectLocked("select", fmt.Errorf("%w: %s", ErrUnknownCard, cardID))
	}

	if e.reveal != nil {
		e.stopTimerLocked()
		e.hideRevealLocked()
	}

	card := &e.cards[idx]
	if card.Matched || idx == e.pending {
		return OutcomeIgnored, nil
	}

	if e.pending < 0 {
		card.Selected = true
		e.pending = idx
		return OutcomeFirstPick, nil
	}

	first := &e.cards[e.pending]
	e.moves++
	if first.PairID == card.PairID {
		first.Matched, first.Selected = true, false
		card.Matched, card.Selected = true, false
		e.pending = -1
		e.matched++
		if e.matched == e.pairCount {
			e.state = StateCompleted
			e.log.WithFields(logrus.Fields{"moves": e.moves, "pairs": e.pairCount}).Debug("matching completed")
		}
		return OutcomeMatch, nil
	}

	card.Selected = true
	e.reveal = []int{e.pending, idx}
	e.pending = -1
	e.scheduleHideLocked()
	return OutcomeMismatch, nil
}

// scheduleHideLocked arms the reveal timer. Callbacks from a timer that has
// since been stopped or superseded see a stale generation and do nothing.
func (e *Engine) scheduleHideLocked() {
	e.generation++
	gen := e.generation
	e.revealDone = make(chan struct{})
	e.timer = e.clk.AfterFunc(e.cfg.RevealDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.generation || e.reveal == nil {
			return
		}
		e.timer = nil
		e.hideRevealLocked()
	})
}

func (e *Engine) hideRevealLocked() {
	for _, i := range e.reveal {
		e.cards[i].Selected = false
	}
	e.reveal = nil
	e.closeRevealDoneLocked()
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.generation++
}

func (e *Engine) closeRevealDoneLocked() {
	if e.revealDone != nil {
		close(e.revealDone)
		e.revealDone = nil
	}
}

// RevealDone returns a channel closed once the current mismatch reveal is
// hidden or cancelled. With no reveal pending the channel is already closed.
func (e *Engine) RevealDone() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.revealDone == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return e.revealDone
}

// Restart cancels any pending reveal and returns to StateModeSelect.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
	e.state = StateModeSelect
}

// Close cancels any pending reveal. The board stays readable.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
	if e.reveal != nil {
		e.hideRevealLocked()
	}
	e.closeRevealDoneLocked()
}

func (e *Engine) teardownLocked() {
	e.stopTimerLocked()
	e.closeRevealDoneLocked()
	e.cards = nil
	e.index = nil
	e.pending = -1
	e.reveal = nil
	e.moves = 0
	e.matched = 0
	e.pairCount = 0
	e.level = 0
	e.mode = ""
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Cards returns a copy of the board in display order.
func (e *Engine) Cards() []Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.cards)
}

// View projects the engine for rendering.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return View{
		State:     e.state,
		Level:     e.level,
		Mode:      e.mode,
		Cards:     slices.Clone(e.cards),
		Moves:     e.moves,
		Matched:   e.matched,
		PairCount: e.pairCount,
		Revealing: e.reveal != nil,
	}
}

// Result returns the outcome once every pair is matched.
func (e *Engine) Result() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateCompleted {
		return Result{}, &game.ErrInvalidTransition{Op: "result", State: e.state.String()}
	}
	return Result{Level: e.level, Mode: e.mode, Moves: e.moves, PairCount: e.pairCount}, nil
}

func (e *Engine) rejectLocked(op string, err error) error {
	e.log.WithFields(logrus.Fields{"op": op, "state": e.state.String()}).WithError(err).Warn("operation rejected")
	return err
}
