package writing

import (
	"context"
	"encoding/json"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/screens/results"
	"github.com/abhisek/hanzidrill/internal/store"
	"github.com/abhisek/hanzidrill/internal/writing"
)

func testDeps(t *testing.T) screen.Deps {
	t.Helper()
	st, err := content.NewMemoryStore(&content.Pack{
		Version:    "v1.0.0",
		Level:      2,
		Vocabulary: []content.VocabularyItem{{Hanzi: "咖啡", Pinyin: "kāfēi", Translation: "coffee"}},
		Writing: []content.WritingExercise{
			{
				ID: "w1", Question: "你早上喝什么？", Translation: "What do you drink in the morning?",
				SampleAnswer: "我早上喝咖啡。", MinChars: 4, MaxChars: 20,
				SuggestedVocabulary: []content.SuggestedWord{
					{Word: "咖啡", Translation: "coffee"},
					{Word: "牛奶", Translation: "milk"},
				},
			},
			{ID: "w2", Question: "你喜欢什么？", Translation: "What do you like?", SampleAnswer: "我喜欢书。", MinChars: 3, MaxChars: 10},
		},
	})
	require.NoError(t, err)
	return screen.Deps{Content: st}
}

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func TestNew_NoPrompts(t *testing.T) {
	s := New(testDeps(t), 5)
	assert.Equal(t, "no writing exercises for HSK 5", s.errMsg)
	assert.Nil(t, s.Init())

	_, cmd := s.Update(ctrl('s'))
	assert.Nil(t, cmd)
}

func TestTyping_UpdatesCounter(t *testing.T) {
	s := New(testDeps(t), 2)
	require.Empty(t, s.errMsg)
	assert.Equal(t, "HSK 2  1/2", s.Status())

	for _, r := range "我喝咖啡" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	assert.Equal(t, "我喝咖啡", s.area.Value())
	assert.Contains(t, s.View(100, 40), "4 characters (4-20)")
}

func TestSubmit_Empty(t *testing.T) {
	s := New(testDeps(t), 2)
	s.Update(ctrl('s'))

	assert.Nil(t, s.assessment)
	assert.Equal(t, "Write something first.", s.notice)
}

func TestSubmit_AssessesAndFinishes(t *testing.T) {
	s := New(testDeps(t), 2)
	s.area.SetValue("我早上喝咖啡。")

	s.Update(ctrl('s'))
	require.NotNil(t, s.assessment)
	assert.True(t, s.assessment.WithinLimits)
	assert.Equal(t, []string{"咖啡"}, s.assessment.UsedVocabulary)

	view := s.View(100, 40)
	assert.Contains(t, view, "Length OK")
	assert.Contains(t, view, "Points 2/3")

	s.Update(press('x'))
	assert.Equal(t, "我早上喝咖啡。", s.area.Value(), "input is locked after submit")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	res, ok := msg.Screen.(*results.ResultsScreen)
	require.True(t, ok)
	assert.Contains(t, res.View(100, 40), "Writing · HSK 2")
}

func TestReviewKeys(t *testing.T) {
	s := New(testDeps(t), 2)
	s.area.SetValue("我喝牛奶")
	s.Update(ctrl('s'))
	require.NotNil(t, s.assessment)

	s.Update(press('e'))
	assert.True(t, s.showSample)
	assert.Contains(t, s.View(100, 40), "我早上喝咖啡。")

	s.Update(press('r'))
	assert.Nil(t, s.assessment)
	assert.Empty(t, s.area.Value())
	assert.Equal(t, 0, s.index)

	s.area.SetValue("太长了太长了太长了太长了太长了太长了太长了")
	s.Update(ctrl('s'))
	require.NotNil(t, s.assessment)
	assert.True(t, s.assessment.TooLong)
	assert.Contains(t, s.View(100, 40), "Length too long")

	s.Update(ctrl('n'))
	assert.Equal(t, 1, s.index)
	assert.Equal(t, "HSK 2  2/2", s.Status())
}

func TestTranslationToggle(t *testing.T) {
	s := New(testDeps(t), 2)
	assert.NotContains(t, s.View(100, 40), "What do you drink in the morning?")
	s.Update(ctrl('t'))
	assert.Contains(t, s.View(100, 40), "What do you drink in the morning?")
}

func TestPoints(t *testing.T) {
	ex := content.WritingExercise{
		MinChars: 2, MaxChars: 10,
		SuggestedVocabulary: []content.SuggestedWord{{Word: "书"}, {Word: "看"}},
	}

	a, err := writing.Assess(ex, "我看书")
	require.NoError(t, err)
	score, total := points(ex, a)
	assert.Equal(t, 3, score)
	assert.Equal(t, 3, total)

	a, err = writing.Assess(ex, "书")
	require.NoError(t, err)
	score, _ = points(ex, a)
	assert.Equal(t, 1, score)
}

type recordingRepo struct {
	saved []store.ResultData
}

func (r *recordingRepo) AppendResult(_ context.Context, data store.ResultData) error {
	r.saved = append(r.saved, data)
	return nil
}

func (r *recordingRepo) QueryResults(context.Context, store.QueryOpts) ([]store.PlayResult, error) {
	return nil, nil
}

func (r *recordingRepo) ModeStats(context.Context) ([]store.ModeStat, error) { return nil, nil }

func (r *recordingRepo) Reset(context.Context) error { return nil }

func TestFinish_SavesRecord(t *testing.T) {
	repo := &recordingRepo{}
	deps := testDeps(t)
	deps.Results = repo
	s := New(deps, 2)
	s.area.SetValue("我喝牛奶和咖啡")
	s.Update(ctrl('s'))

	msg, ok := s.finish()().(router.ReplaceScreenMsg)
	require.True(t, ok)
	res := msg.Screen.(*results.ResultsScreen)
	res.Update(res.Init()())

	require.Len(t, repo.saved, 1)
	rec := repo.saved[0]
	assert.Equal(t, Mode, rec.Mode)
	assert.Equal(t, 3, rec.Score)
	assert.Equal(t, 3, rec.Total)

	var detail writingDetail
	require.NoError(t, json.Unmarshal([]byte(rec.Detail), &detail))
	assert.Equal(t, "w1", detail.Exercise)
	assert.Equal(t, 100, detail.Coverage)
	assert.ElementsMatch(t, []string{"咖啡", "牛奶"}, detail.Used)
}
