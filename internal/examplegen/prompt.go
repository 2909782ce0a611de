package examplegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/hanzidrill/internal/content"
)

const systemPrompt = `You write example sentences for learners of Mandarin Chinese preparing for the HSK exams.
Keep sentences short, natural and everyday. Use only simplified characters.
Stay within the vocabulary a learner at the given HSK level would know.
Respond with JSON only.`

func buildUserMessage(item content.VocabularyItem, level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target word: %s (%s) meaning %q.\n", item.Hanzi, item.Pinyin, item.Translation)
	if content.ValidLevel(level) {
		fmt.Fprintf(&b, "Learner level: %s.\n", content.LevelName(level))
	}
	b.WriteString("Write one sentence of at most 15 characters that uses the target word exactly as written.")
	return b.String()
}
