package quiz

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
	"github.com/abhisek/hanzidrill/internal/quiz"
	"github.com/abhisek/hanzidrill/internal/router"
	"github.com/abhisek/hanzidrill/internal/screen"
	"github.com/abhisek/hanzidrill/internal/screens/results"
	"github.com/abhisek/hanzidrill/internal/ui/components"
)

func testDeps(t *testing.T, words ...content.VocabularyItem) screen.Deps {
	t.Helper()
	if words == nil {
		words = []content.VocabularyItem{
			{Hanzi: "哥哥", Pinyin: "gēge", Translation: "older brother"},
			{Hanzi: "妹妹", Pinyin: "mèimei", Translation: "younger sister"},
			{Hanzi: "爸爸", Pinyin: "bàba", Translation: "father"},
			{Hanzi: "妈妈", Pinyin: "māma", Translation: "mother"},
		}
	}
	st, err := content.NewMemoryStore(&content.Pack{Version: "v1.0.0", Level: 1, Vocabulary: words})
	require.NoError(t, err)

	cfg := quiz.DefaultConfig()
	cfg.Length = 3
	return screen.Deps{
		Content:   st,
		Quiz:      cfg,
		NewSource: func() game.Source { return game.NewSource(7) },
	}
}

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var enter = tea.KeyPressMsg{Code: tea.KeyEnter}

func digit(i int) tea.KeyPressMsg {
	return press(rune('1' + i))
}

func TestNew_StartsQuiz(t *testing.T) {
	s := New(testDeps(t), 1)
	require.Empty(t, s.errMsg)
	require.NotNil(t, s.engine)

	assert.Equal(t, quiz.StateQuestion, s.engine.State())
	assert.Len(t, s.choice.Options, quiz.DefaultOptionCount)
	assert.Equal(t, "HSK 1  ✓ 0", s.Status())

	view := s.View(80, 24)
	assert.Contains(t, view, "Question 1/3")
	assert.Contains(t, view, s.engine.View().Prompt)
}

func TestNew_TooFewWords(t *testing.T) {
	s := New(testDeps(t,
		content.VocabularyItem{Hanzi: "你", Pinyin: "nǐ", Translation: "you"},
		content.VocabularyItem{Hanzi: "好", Pinyin: "hǎo", Translation: "good"},
	), 1)

	assert.Nil(t, s.engine)
	assert.NotEmpty(t, s.errMsg)
	assert.Equal(t, "HSK 1", s.Status())
	assert.Equal(t, []string{"Esc"}, hintKeys(s))

	_, cmd := s.Update(enter)
	assert.Nil(t, cmd)
}

func TestAnswer_ShowsFeedback(t *testing.T) {
	s := New(testDeps(t), 1)
	v := s.engine.View()

	_, cmd := s.Update(digit(v.CorrectAnswer))
	assert.Nil(t, cmd)
	assert.Equal(t, quiz.StateFeedback, s.engine.State())
	assert.True(t, s.choice.Revealed())
	assert.Contains(t, s.View(80, 24), "Correct!")
	assert.Equal(t, []string{"Enter", "Esc"}, hintKeys(s))
}

func TestAnswer_WrongShowsCorrectOption(t *testing.T) {
	s := New(testDeps(t), 1)
	v := s.engine.View()
	wrong := (v.CorrectAnswer + 1) % len(v.Options)

	s.Update(digit(wrong))
	view := s.View(80, 24)
	assert.Contains(t, view, "Not quite.")
	assert.Contains(t, view, v.Options[v.CorrectAnswer])
}

func TestFeedback_IgnoresDigits(t *testing.T) {
	s := New(testDeps(t), 1)
	s.Update(digit(s.engine.View().CorrectAnswer))
	s.Update(digit(0))

	assert.Equal(t, quiz.StateFeedback, s.engine.State())
	assert.Equal(t, 1, s.engine.View().QuestionNumber)
}

func TestFullRun_ReplacesWithResults(t *testing.T) {
	s := New(testDeps(t), 1)

	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		require.Equal(t, quiz.StateQuestion, s.engine.State())
		s.Update(digit(s.engine.View().CorrectAnswer))
		_, cmd = s.Update(enter)
	}
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	res, ok := msg.Screen.(*results.ResultsScreen)
	require.True(t, ok)

	view := res.View(80, 30)
	assert.Contains(t, view, "Quiz complete · HSK 1")
	assert.Contains(t, view, "3 / 3")
	assert.Contains(t, view, "100% correct")
}

func TestMoveAndSubmitWithEnter(t *testing.T) {
	s := New(testDeps(t), 1)
	s.Update(press('j'))
	assert.Equal(t, 1, s.choice.Cursor)

	s.Update(enter)
	assert.Equal(t, quiz.StateFeedback, s.engine.State())
	assert.Equal(t, 1, s.engine.View().Selected)
}

func TestPercentMessage(t *testing.T) {
	assert.Equal(t, game.GradeExcellent.Message(), percentMessage(100))
	assert.Equal(t, game.GradeGreat.Message(), percentMessage(85))
	assert.Equal(t, game.GradeGood.Message(), percentMessage(60))
	assert.Equal(t, game.GradeKeepPracticing.Message(), percentMessage(10))
}

func hintKeys(s *QuizScreen) []string {
	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, strings.TrimSpace(h.Key))
	}
	return keys
}

func TestRejectedSubmit_KeepsQuestion(t *testing.T) {
	s := New(testDeps(t), 1)
	prompt := s.engine.View().Prompt
	s.choice = components.NewMultiChoice([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i"})

	s.Update(press('9'))
	assert.Empty(t, s.errMsg)
	assert.Equal(t, quiz.StateQuestion, s.engine.State())

	view := s.View(80, 30)
	assert.Contains(t, view, prompt)
	assert.Contains(t, view, "choice 8 out of range")

	s.Update(press('j'))
	assert.NotContains(t, s.View(80, 30), "out of range")
}
