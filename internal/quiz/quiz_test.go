package quiz

import (
	"errors"
	"slices"
	"testing"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

func familyPack() *content.Pack {
	return &content.Pack{Version: "v1.0.0", Level: 1, Vocabulary: []content.VocabularyItem{
		{Hanzi: "哥哥", Pinyin: "gēge", Translation: "older brother"},
		{Hanzi: "妹妹", Pinyin: "mèimei", Translation: "younger sister"},
		{Hanzi: "爸爸", Pinyin: "bàba", Translation: "father"},
		{Hanzi: "妈妈", Pinyin: "māma", Translation: "mother"},
	}}
}

func newTestEngine(t *testing.T, seed uint64, packs ...*content.Pack) *Engine {
	t.Helper()
	store, err := content.NewMemoryStore(packs...)
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Source = game.NewSource(seed)
	e, err := New(store, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestOptions_ContainsCorrectOnce(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e", "f"}
	src := game.NewSource(3)
	for trial := 0; trial < 200; trial++ {
		correct := trial % len(pool)
		opts, err := Options(src, pool, correct, 4)
		if err != nil {
			t.Fatalf("Options: %v", err)
		}
		if len(opts) != 4 {
			t.Fatalf("len = %d, want 4", len(opts))
		}
		count := 0
		seen := map[string]bool{}
		for _, o := range opts {
			if o == pool[correct] {
				count++
			}
			if seen[o] {
				t.Fatalf("duplicate option %q in %v", o, opts)
			}
			seen[o] = true
		}
		if count != 1 {
			t.Fatalf("correct answer appears %d times in %v", count, opts)
		}
	}
}

func TestOptions_SkipsDuplicateStrings(t *testing.T) {
	pool := []string{"x", "x", "y", "y", "z"}
	opts, err := Options(game.NewSource(1), pool, 0, 3)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	slices.Sort(opts)
	if !slices.Equal(opts, []string{"x", "y", "z"}) {
		t.Errorf("opts = %v, want x y z", opts)
	}
}

func TestOptions_Errors(t *testing.T) {
	_, err := Options(game.NewSource(1), []string{"a", "b"}, 0, 1)
	if !errors.Is(err, game.ErrInvalidCount) {
		t.Errorf("count 1: err = %v, want ErrInvalidCount", err)
	}

	_, err = Options(game.NewSource(1), []string{"a", "b", "c"}, 0, 4)
	var insufficient *game.ErrInsufficientPool
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want ErrInsufficientPool", err)
	}
	if insufficient.Need != 3 || insufficient.Have != 2 {
		t.Errorf("got need=%d have=%d, want 3/2", insufficient.Need, insufficient.Have)
	}

	_, err = Options(game.NewSource(1), []string{"a", "a", "a", "b"}, 0, 3)
	if !errors.As(err, &insufficient) {
		t.Errorf("duplicate-only pool: err = %v, want ErrInsufficientPool", err)
	}

	if _, err := Options(game.NewSource(1), []string{"a"}, 3, 2); err == nil {
		t.Error("expected error for out-of-range correct index")
	}
}

func TestOptions_UniformOrder(t *testing.T) {
	pool := []string{"a", "b", "c", "d"}
	src := game.NewSource(99)
	pos := make([]int, 4)
	const trials = 8000
	for i := 0; i < trials; i++ {
		opts, err := Options(src, pool, 0, 4)
		if err != nil {
			t.Fatal(err)
		}
		pos[slices.Index(opts, "a")]++
	}
	for i, n := range pos {
		if n < trials/4-400 || n > trials/4+400 {
			t.Errorf("correct answer at position %d %d times, want about %d", i, n, trials/4)
		}
	}
}

func TestStart_FamilyExample(t *testing.T) {
	e := newTestEngine(t, 7, familyPack())
	if err := e.Start(1, 4); err != nil {
		t.Fatalf("Start: %v", err)
	}

	translations := map[string]string{
		"哥哥": "older brother", "妹妹": "younger sister", "爸爸": "father", "妈妈": "mother",
	}
	qs := e.Questions()
	if len(qs) != 4 {
		t.Fatalf("got %d questions, want 4", len(qs))
	}
	prompts := map[string]bool{}
	for _, q := range qs {
		prompts[q.Prompt] = true
		got := slices.Clone(q.Options)
		slices.Sort(got)
		want := []string{"father", "mother", "older brother", "younger sister"}
		if !slices.Equal(got, want) {
			t.Errorf("options = %v, want all four translations", q.Options)
		}
		if q.CorrectAnswer() != translations[q.Prompt] {
			t.Errorf("prompt %s: correct = %q, want %q", q.Prompt, q.CorrectAnswer(), translations[q.Prompt])
		}
	}
	if len(prompts) != 4 {
		t.Errorf("prompts not distinct: %v", prompts)
	}
}

func TestStart_EmbeddedLevels(t *testing.T) {
	store := content.MustLoadEmbedded()
	for _, lvl := range store.Levels() {
		for _, length := range []int{1, 4, 10} {
			cfg := DefaultConfig()
			cfg.Source = game.NewSource(uint64(lvl*100 + length))
			e, err := New(store, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if err := e.Start(lvl, length); err != nil {
				t.Fatalf("level %d length %d: %v", lvl, length, err)
			}
			qs := e.Questions()
			if len(qs) != length {
				t.Errorf("level %d: got %d questions, want %d", lvl, len(qs), length)
			}
			for _, q := range qs {
				if len(q.Options) != 4 {
					t.Errorf("level %d: %d options", lvl, len(q.Options))
				}
				if q.Options[q.Correct] != q.Item.Translation {
					t.Errorf("level %d: correct option %q != %q", lvl, q.Options[q.Correct], q.Item.Translation)
				}
			}
		}
	}
}

func TestStart_LengthDefaultsAndClamp(t *testing.T) {
	e := newTestEngine(t, 1, familyPack())
	if err := e.Start(1, 0); err != nil {
		t.Fatal(err)
	}
	if got := e.View().TotalQuestions; got != 4 {
		t.Errorf("length 0 on a 4-word pool: got %d questions, want 4", got)
	}

	e.Restart()
	if err := e.Start(1, 50); err != nil {
		t.Fatal(err)
	}
	if got := e.View().TotalQuestions; got != 4 {
		t.Errorf("length 50 clamped: got %d, want 4", got)
	}
}

func TestStart_PoolErrors(t *testing.T) {
	e := newTestEngine(t, 1, familyPack())

	err := e.Start(3, 4)
	var empty *game.ErrEmptyPool
	if !errors.As(err, &empty) || empty.Level != 3 {
		t.Errorf("empty level: err = %v", err)
	}
	if e.State() != StateSelecting {
		t.Errorf("state = %v after failed start", e.State())
	}

	small := &content.Pack{Version: "v1.0.0", Level: 2, Vocabulary: familyPack().Vocabulary[:3]}
	e = newTestEngine(t, 1, small)
	err = e.Start(2, 3)
	var insufficient *game.ErrInsufficientPool
	if !errors.As(err, &insufficient) {
		t.Errorf("3 words: err = %v, want ErrInsufficientPool", err)
	}
	if !game.IsConstructionError(err) {
		t.Error("pool errors are construction errors")
	}
}

func TestStart_SharedTranslationsShrinkPool(t *testing.T) {
	pack := &content.Pack{Version: "v1.0.0", Level: 1, Vocabulary: []content.VocabularyItem{
		{Hanzi: "爸爸", Pinyin: "bàba", Translation: "father"},
		{Hanzi: "父亲", Pinyin: "fùqīn", Translation: "father"},
		{Hanzi: "妈妈", Pinyin: "māma", Translation: "mother"},
		{Hanzi: "哥哥", Pinyin: "gēge", Translation: "older brother"},
	}}
	e := newTestEngine(t, 1, pack)

	err := e.Start(1, 4)
	var insufficient *game.ErrInsufficientPool
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want ErrInsufficientPool", err)
	}
	if insufficient.Need != 4 || insufficient.Have != 3 {
		t.Errorf("need/have = %d/%d, want 4/3", insufficient.Need, insufficient.Have)
	}
	if e.State() != StateSelecting {
		t.Errorf("state = %v after failed start", e.State())
	}

	pack.Vocabulary = append(pack.Vocabulary, content.VocabularyItem{Hanzi: "妹妹", Pinyin: "mèimei", Translation: "younger sister"})
	e = newTestEngine(t, 1, pack)
	if err := e.Start(1, 5); err != nil {
		t.Fatalf("Start with four distinct translations: %v", err)
	}
	if n := len(e.Questions()); n != 5 {
		t.Errorf("questions = %d, want 5", n)
	}
}

func TestSubmitAnswer_Twice(t *testing.T) {
	e := newTestEngine(t, 5, familyPack())
	if err := e.Start(1, 4); err != nil {
		t.Fatal(err)
	}
	q := e.Questions()[0]
	if ok, err := e.SubmitAnswer(q.Correct); err != nil || !ok {
		t.Fatalf("first submit: ok=%v err=%v", ok, err)
	}

	before := e.View()
	_, err := e.SubmitAnswer((q.Correct + 1) % 4)
	var already *game.ErrAlreadyAnswered
	if !errors.As(err, &already) || already.Index != 0 {
		t.Fatalf("second submit: err = %v, want ErrAlreadyAnswered", err)
	}
	after := e.View()
	if after.Score != before.Score || after.Selected != before.Selected {
		t.Errorf("state changed by rejected submit: %+v -> %+v", before, after)
	}
}

func TestTransitions_Rejected(t *testing.T) {
	e := newTestEngine(t, 5, familyPack())

	var invalid *game.ErrInvalidTransition
	if err := e.Advance(); !errors.As(err, &invalid) {
		t.Errorf("advance in selecting: %v", err)
	}
	if _, err := e.SubmitAnswer(0); !errors.As(err, &invalid) {
		t.Errorf("submit in selecting: %v", err)
	}

	if err := e.Start(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := e.Advance(); !errors.As(err, &invalid) {
		t.Errorf("advance in question: %v", err)
	}
	if err := e.Start(1, 2); !errors.As(err, &invalid) {
		t.Errorf("start in question: %v", err)
	}
	var oob *ErrChoiceOutOfRange
	if _, err := e.SubmitAnswer(9); !errors.As(err, &oob) {
		t.Errorf("submit 9: %v", err)
	}
	if e.State() != StateQuestion {
		t.Errorf("state = %v, want question", e.State())
	}
	if _, err := e.Result(); err == nil {
		t.Error("Result before finishing should fail")
	}
}

func TestSession_SevenOfTen(t *testing.T) {
	store := content.MustLoadEmbedded()
	cfg := DefaultConfig()
	cfg.Source = game.NewSource(11)
	e, err := New(store, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Start(1, 10); err != nil {
		t.Fatal(err)
	}

	advances := 0
	for i, q := range e.Questions() {
		choice := q.Correct
		if i >= 7 {
			choice = (q.Correct + 1) % len(q.Options)
		}
		if _, err := e.SubmitAnswer(choice); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		v := e.View()
		if v.QuestionNumber != i+1 || v.Selected != choice || v.CorrectAnswer != q.Correct {
			t.Errorf("feedback view %d: %+v", i, v)
		}
		if err := e.Advance(); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		advances++
	}

	if advances != 10 {
		t.Fatalf("advances = %d", advances)
	}
	if e.State() != StateResults {
		t.Fatalf("state = %v, want results", e.State())
	}
	res, err := e.Result()
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 7 || res.Total != 10 || res.Percent != 70 || len(res.Answers) != 10 {
		t.Errorf("result = %+v", res)
	}

	correct := 0
	for _, a := range res.Answers {
		if a.Correct {
			correct++
		}
	}
	if correct != res.Score {
		t.Errorf("score %d != correct answers %d", res.Score, correct)
	}
}

func TestRestart_FromAnyState(t *testing.T) {
	e := newTestEngine(t, 2, familyPack())
	e.Restart()
	if e.State() != StateSelecting {
		t.Fatalf("restart from selecting: %v", e.State())
	}

	if err := e.Start(1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SubmitAnswer(0); err != nil {
		t.Fatal(err)
	}
	e.Restart()
	v := e.View()
	if v.State != StateSelecting || v.TotalQuestions != 0 || v.Score != 0 {
		t.Errorf("view after restart = %+v", v)
	}
	if err := e.Start(1, 3); err != nil {
		t.Errorf("start after restart: %v", err)
	}
}

func TestView_NoSideEffects(t *testing.T) {
	e := newTestEngine(t, 4, familyPack())
	if err := e.Start(1, 3); err != nil {
		t.Fatal(err)
	}
	v1 := e.View()
	v1.Options[0] = "mutated"
	v2 := e.View()
	if v2.Options[0] == "mutated" {
		t.Error("View must return a copy of options")
	}
	if v2.Selected != -1 || v2.QuestionNumber != 1 {
		t.Errorf("fresh question view = %+v", v2)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"pinyin prompt", func(c *Config) { c.Prompt = FieldPinyin }, false},
		{"zero length", func(c *Config) { c.Length = 0 }, true},
		{"one option", func(c *Config) { c.OptionCount = 1 }, true},
		{"same fields", func(c *Config) { c.Answer = FieldHanzi }, true},
		{"unknown field", func(c *Config) { c.Prompt = "tone" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
