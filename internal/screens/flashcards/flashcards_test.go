package flashcards

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/examplegen"
	"github.com/abhisek/hanzidrill/internal/game"
	"github.com/abhisek/hanzidrill/internal/screen"
)

func testDeps(t *testing.T, words ...content.VocabularyItem) screen.Deps {
	t.Helper()
	st, err := content.NewMemoryStore(&content.Pack{Version: "v1.0.0", Level: 1, Vocabulary: words})
	require.NoError(t, err)
	return screen.Deps{
		Content:   st,
		NewSource: func() game.Source { return game.NewSource(1) },
	}
}

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var space = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}

func TestNew_EmptyLevel(t *testing.T) {
	s := New(testDeps(t), 1)
	assert.Nil(t, s.deck)
	assert.NotEmpty(t, s.errMsg)
	assert.Empty(t, s.Status())

	_, cmd := s.Update(space)
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(80, 24), "no vocabulary available for HSK 1")
}

func TestFlipAndPinyin(t *testing.T) {
	s := New(testDeps(t, content.VocabularyItem{Hanzi: "谢谢", Pinyin: "xièxie", Translation: "thank you"}), 1)
	require.NotNil(t, s.deck)

	view := s.View(80, 24)
	assert.Contains(t, view, "谢谢")
	assert.Contains(t, view, "xièxie")
	assert.Contains(t, view, "(space to reveal)")
	assert.NotContains(t, view, "thank you")

	s.Update(space)
	assert.True(t, s.deck.Flipped())
	assert.Contains(t, s.View(80, 24), "thank you")

	s.Update(press('p'))
	assert.False(t, s.deck.ShowPinyin())
	assert.NotContains(t, s.View(80, 24), "xièxie")
}

func TestNavigationWraps(t *testing.T) {
	s := New(testDeps(t,
		content.VocabularyItem{Hanzi: "一", Pinyin: "yī", Translation: "one"},
		content.VocabularyItem{Hanzi: "二", Pinyin: "èr", Translation: "two"},
		content.VocabularyItem{Hanzi: "三", Pinyin: "sān", Translation: "three"},
	), 1)
	assert.Equal(t, "HSK 1  1/3", s.Status())

	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, "HSK 1  2/3", s.Status())

	s.Update(press('h'))
	s.Update(press('h'))
	assert.Equal(t, "HSK 1  3/3", s.Status())

	s.Update(space)
	s.Update(press('n'))
	assert.False(t, s.deck.Flipped(), "moving turns the card face down")
}

func TestExample_FromPack(t *testing.T) {
	deps := testDeps(t, content.VocabularyItem{
		Hanzi: "老师", Pinyin: "lǎoshī", Translation: "teacher",
		Example: "她是我的老师。", ExampleTranslation: "She is my teacher.",
	})
	deps.Examples = examplegen.New(nil, nil, examplegen.DefaultConfig(), nil)
	s := New(deps, 1)

	_, cmd := s.Update(press('e'))
	require.NotNil(t, cmd)
	assert.True(t, s.loading)
	assert.Contains(t, s.View(80, 24), "Fetching example...")

	_, again := s.Update(press('e'))
	assert.Nil(t, again, "no second request while loading")

	s.Update(cmd())
	assert.False(t, s.loading)
	require.NotNil(t, s.example)
	assert.Equal(t, examplegen.SourcePack, s.example.Source)

	view := s.View(80, 24)
	assert.Contains(t, view, "她是我的老师。")
	assert.Contains(t, view, "She is my teacher.")
}

func TestExample_Unavailable(t *testing.T) {
	deps := testDeps(t, content.VocabularyItem{Hanzi: "学生", Pinyin: "xuésheng", Translation: "student"})
	deps.Examples = examplegen.New(nil, nil, examplegen.DefaultConfig(), nil)
	s := New(deps, 1)

	_, cmd := s.Update(press('e'))
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.Nil(t, s.example)
	assert.Equal(t, "No LLM provider configured for example sentences.", s.exampleErr)
}

func TestExample_StaleReplyIgnored(t *testing.T) {
	deps := testDeps(t,
		content.VocabularyItem{Hanzi: "一", Pinyin: "yī", Translation: "one", Example: "一个人。"},
		content.VocabularyItem{Hanzi: "二", Pinyin: "èr", Translation: "two", Example: "二月。"},
	)
	deps.Examples = examplegen.New(nil, nil, examplegen.DefaultConfig(), nil)
	s := New(deps, 1)

	_, cmd := s.Update(press('e'))
	require.NotNil(t, cmd)
	s.Update(press('n'))

	s.Update(cmd())
	assert.Nil(t, s.example)
}

func TestExample_NoServiceHidesKey(t *testing.T) {
	s := New(testDeps(t, content.VocabularyItem{Hanzi: "好", Pinyin: "hǎo", Translation: "good"}), 1)

	_, cmd := s.Update(press('e'))
	assert.Nil(t, cmd)
	for _, h := range s.KeyHints() {
		assert.NotEqual(t, "E", h.Key)
	}
}
