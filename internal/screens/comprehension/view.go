package comprehension

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/ui/components"
	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

func (s *ComprehensionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.ErrorBox(s.errMsg, width)
	}

	ex := s.current()
	cardWidth := min(width-4, 80)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Title.Render(ex.Title())))
	b.WriteString("\n\n")

	for _, p := range s.passages() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Card.Width(cardWidth).Render(p)))
		b.WriteString("\n")
	}

	var last section
	for i, e := range s.entries {
		if e.section != last && s.current().Kind == content.KindMixed {
			b.WriteString("\n" + theme.Subtitle.Render("  "+string(e.section)) + "\n")
			last = e.section
		}
		b.WriteString(s.renderEntry(i, e, cardWidth))
	}

	if s.submitted() {
		correct, total, pct := s.scoreLine()
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render(fmt.Sprintf("  Score: %d/%d (%d%%)", correct, total, pct)))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString("\n" + theme.Hint.Render("  "+s.notice) + "\n")
	}
	return b.String()
}

// passages returns the text blocks shown above the questions.
func (s *ComprehensionScreen) passages() []string {
	ex := s.current()
	var out []string

	listening := func(transcript, translation string) {
		if s.showTranscript || s.submitted() {
			block := theme.Pinyin.Render("♪ ") + theme.Body.Render(transcript)
			if s.showTranslate && translation != "" {
				block += "\n\n" + theme.Hint.Render(translation)
			}
			out = append(out, block)
			return
		}
		msg := "♪ Press Ctrl+P to play the recording"
		if s.gate.CanAnswer() {
			msg = "♪ Played. Press Ctrl+P to hear it again"
		}
		out = append(out, theme.Hint.Render(msg))
	}

	switch ex.Kind {
	case content.KindReading:
		block := theme.Body.Render(ex.Reading.Text)
		if s.showTranslate {
			block += "\n\n" + theme.Hint.Render(ex.Reading.Translation)
		}
		out = append(out, block)
	case content.KindListening:
		listening(ex.Listening.Transcript, ex.Listening.Translation)
	case content.KindMixed:
		if ex.Mixed.Description != "" {
			out = append(out, theme.Hint.Render(ex.Mixed.Description))
		}
		if ex.Mixed.Reading != nil {
			out = append(out, theme.Body.Render(ex.Mixed.Reading.Text))
		}
		if ex.Mixed.Listening != nil {
			listening(ex.Mixed.Listening.Transcript, "")
		}
	}
	return out
}

func (s *ComprehensionScreen) renderEntry(i int, e entry, width int) string {
	var b strings.Builder
	marker := "  "
	promptStyle := theme.Body
	if i == s.cursor {
		marker = theme.Selected.Render("▸ ")
		promptStyle = theme.Selected
	}
	b.WriteString("\n" + marker + promptStyle.Render(fmt.Sprintf("%d. %s", i+1, e.prompt)) + "\n")

	if e.isWriting() {
		switch {
		case s.submitted():
			answer := s.mixed[e.id]
			style := theme.Incorrect
			if s.isCorrect(e) {
				style = theme.Correct
			}
			b.WriteString("     " + style.Render(answer))
			if !s.isCorrect(e) {
				b.WriteString(theme.Hint.Render("  expected: " + e.expected))
			}
			b.WriteString("\n")
		case i == s.cursor:
			b.WriteString("     " + s.input.View() + "\n")
			if e.hint != "" {
				b.WriteString("     " + theme.Hint.Render("hint: "+e.hint) + "\n")
			}
		default:
			b.WriteString("     " + theme.Hint.Render(lineOr(s.mixed[e.id], "(no answer yet)")) + "\n")
		}
		return b.String()
	}

	chosen := s.chosen(e)
	for j, opt := range e.options {
		style := theme.Unselected
		box := "○"
		if j == chosen {
			box = "●"
			style = theme.Selected
		}
		if s.submitted() {
			switch {
			case j == e.correctIndex:
				style = theme.Correct
			case j == chosen:
				style = theme.Incorrect
			default:
				style = theme.Hint
			}
		}
		b.WriteString(fmt.Sprintf("     %s %s\n", box, style.Render(fmt.Sprintf("%d) %s", j+1, opt))))
	}

	if s.submitted() && s.sheet != nil {
		if exp := s.sheet.Explanation(e.id); exp != "" {
			b.WriteString("     " + theme.Hint.Width(width-6).Render(exp) + "\n")
		}
	}
	return b.String()
}

func lineOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
