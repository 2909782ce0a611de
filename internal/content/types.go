package content

import "fmt"

// MinLevel and MaxLevel bound the HSK levels the trainer knows about.
const (
	MinLevel = 1
	MaxLevel = 6
)

// VocabularyItem is one HSK word. Example fields are optional.
type VocabularyItem struct {
	Hanzi              string `json:"hanzi"`
	Pinyin             string `json:"pinyin"`
	Translation        string `json:"translation"`
	Example            string `json:"example,omitempty"`
	ExampleTranslation string `json:"example_translation,omitempty"`
}

// ChoiceQuestion is a multiple-choice question whose answer is an option index.
type ChoiceQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// ReadingExercise is a passage followed by comprehension questions.
type ReadingExercise struct {
	ID          string           `json:"id"`
	Level       int              `json:"-"`
	Title       string           `json:"title"`
	Text        string           `json:"text"`
	Translation string           `json:"translation"`
	Questions   []ChoiceQuestion `json:"questions"`
}

// ListeningExercise is a recording (with transcript) followed by questions.
type ListeningExercise struct {
	ID          string           `json:"id"`
	Level       int              `json:"-"`
	Title       string           `json:"title"`
	AudioURL    string           `json:"audio_url,omitempty"`
	Transcript  string           `json:"transcript"`
	Translation string           `json:"translation"`
	Questions   []ChoiceQuestion `json:"questions"`
}

// SuggestedWord is a vocabulary hint attached to a writing prompt.
type SuggestedWord struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// WritingExercise is a free-text prompt with character limits.
type WritingExercise struct {
	ID                  string          `json:"id"`
	Level               int             `json:"-"`
	Question            string          `json:"question"`
	Translation         string          `json:"translation"`
	SampleAnswer        string          `json:"sample_answer"`
	MinChars            int             `json:"min_chars"`
	MaxChars            int             `json:"max_chars"`
	SuggestedVocabulary []SuggestedWord `json:"suggested_vocabulary,omitempty"`
}

// TextQuestion is a multiple-choice question whose answer is the option text.
type TextQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// WritingTask is a short-answer task inside a mixed exercise.
type WritingTask struct {
	ID             string `json:"id"`
	Instruction    string `json:"instruction"`
	ExpectedAnswer string `json:"expected_answer"`
	Hint           string `json:"hint,omitempty"`
}

// MixedReading is the reading section of a mixed exercise.
type MixedReading struct {
	Text      string         `json:"text"`
	Questions []TextQuestion `json:"questions"`
}

// MixedListening is the listening section of a mixed exercise.
type MixedListening struct {
	AudioURL   string         `json:"audio_url,omitempty"`
	Transcript string         `json:"transcript"`
	Questions  []TextQuestion `json:"questions"`
}

// MixedWriting is the writing section of a mixed exercise.
type MixedWriting struct {
	Tasks []WritingTask `json:"tasks"`
}

// MixedExercise combines any of reading, listening and writing sections.
type MixedExercise struct {
	ID          string           `json:"id"`
	Level       int              `json:"-"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Reading     *MixedReading    `json:"reading,omitempty"`
	Listening   *MixedListening  `json:"listening,omitempty"`
	Writing     *MixedWriting    `json:"writing,omitempty"`
	Vocabulary  []VocabularyItem `json:"vocabulary,omitempty"`
}

// ExerciseKind tags the payload of an Exercise.
type ExerciseKind string

const (
	KindReading   ExerciseKind = "reading"
	KindListening ExerciseKind = "listening"
	KindWriting   ExerciseKind = "writing"
	KindMixed     ExerciseKind = "mixed"
)

// Exercise holds exactly one exercise payload, selected by Kind.
type Exercise struct {
	Kind      ExerciseKind
	Reading   *ReadingExercise
	Listening *ListeningExercise
	Writing   *WritingExercise
	Mixed     *MixedExercise
}

// ID returns the id of the wrapped exercise.
func (e Exercise) ID() string {
	switch e.Kind {
	case KindReading:
		return e.Reading.ID
	case KindListening:
		return e.Listening.ID
	case KindWriting:
		return e.Writing.ID
	case KindMixed:
		return e.Mixed.ID
	}
	return ""
}

// Level returns the HSK level of the wrapped exercise.
func (e Exercise) Level() int {
	switch e.Kind {
	case KindReading:
		return e.Reading.Level
	case KindListening:
		return e.Listening.Level
	case KindWriting:
		return e.Writing.Level
	case KindMixed:
		return e.Mixed.Level
	}
	return 0
}

// Title returns a display title for the wrapped exercise.
func (e Exercise) Title() string {
	switch e.Kind {
	case KindReading:
		return e.Reading.Title
	case KindListening:
		return e.Listening.Title
	case KindWriting:
		return e.Writing.Question
	case KindMixed:
		return e.Mixed.Title
	}
	return ""
}

// clone copies the payload struct so callers cannot reach the shared table.
func (e Exercise) clone() Exercise {
	out := Exercise{Kind: e.Kind}
	switch e.Kind {
	case KindReading:
		r := *e.Reading
		out.Reading = &r
	case KindListening:
		l := *e.Listening
		out.Listening = &l
	case KindWriting:
		w := *e.Writing
		out.Writing = &w
	case KindMixed:
		m := *e.Mixed
		out.Mixed = &m
	}
	return out
}

// ValidLevel reports whether level is a known HSK level.
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// LevelName returns the display name for a level, e.g. "HSK 3".
func LevelName(level int) string {
	return fmt.Sprintf("HSK %d", level)
}
