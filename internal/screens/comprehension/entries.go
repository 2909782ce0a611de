package comprehension

import (
	"github.com/abhisek/hanzidrill/internal/content"
)

// section groups entries under a heading.
type section string

const (
	sectionReading   section = "Reading"
	sectionListening section = "Listening"
	sectionWriting   section = "Writing"
)

// entry is one answerable line on the screen, whichever exercise kind it
// came from.
type entry struct {
	id      string
	section section
	prompt  string
	options []string
	hint    string

	// correctIndex is set for choice questions, expected for writing tasks.
	correctIndex int
	expected     string
}

func (e entry) isWriting() bool {
	return e.section == sectionWriting
}

func entriesFor(ex content.Exercise) []entry {
	var out []entry
	choice := func(sec section, qs []content.ChoiceQuestion) {
		for _, q := range qs {
			out = append(out, entry{
				id: q.ID, section: sec, prompt: q.Question,
				options: q.Options, correctIndex: q.CorrectAnswer,
			})
		}
	}
	text := func(sec section, qs []content.TextQuestion) {
		for _, q := range qs {
			correct := -1
			for i, o := range q.Options {
				if o == q.CorrectAnswer {
					correct = i
				}
			}
			out = append(out, entry{
				id: q.ID, section: sec, prompt: q.Question,
				options: q.Options, correctIndex: correct, expected: q.CorrectAnswer,
			})
		}
	}

	switch ex.Kind {
	case content.KindReading:
		choice(sectionReading, ex.Reading.Questions)
	case content.KindListening:
		choice(sectionListening, ex.Listening.Questions)
	case content.KindMixed:
		m := ex.Mixed
		if m.Reading != nil {
			text(sectionReading, m.Reading.Questions)
		}
		if m.Listening != nil {
			text(sectionListening, m.Listening.Questions)
		}
		if m.Writing != nil {
			for _, t := range m.Writing.Tasks {
				out = append(out, entry{
					id: t.ID, section: sectionWriting, prompt: t.Instruction,
					hint: t.Hint, correctIndex: -1, expected: t.ExpectedAnswer,
				})
			}
		}
	}
	return out
}

// exercisesOf returns the level's exercises of one kind.
func exercisesOf(store content.Store, level int, kind content.ExerciseKind) []content.Exercise {
	var out []content.Exercise
	for _, ex := range store.ExercisesByLevel(level) {
		if ex.Kind == kind {
			out = append(out, ex)
		}
	}
	return out
}
