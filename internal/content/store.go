package content

import (
	"slices"
	"sort"
)

// Store is the read-only query surface over the loaded content tables.
// Implementations must be safe for concurrent readers; returned slices are
// copies the caller may freely modify.
type Store interface {
	// Levels returns the levels that have any vocabulary, ascending.
	Levels() []int

	// VocabularyByLevel returns the vocabulary for a level (nil if none).
	VocabularyByLevel(level int) []VocabularyItem

	// ExerciseByID finds an exercise of any kind.
	ExerciseByID(id string) (Exercise, bool)

	// ExercisesByLevel returns every exercise for a level, grouped by kind.
	ExercisesByLevel(level int) []Exercise

	ReadingByLevel(level int) []ReadingExercise
	ListeningByLevel(level int) []ListeningExercise
	WritingByLevel(level int) []WritingExercise
	MixedByLevel(level int) []MixedExercise

	ReadingByID(id string) (ReadingExercise, bool)
	ListeningByID(id string) (ListeningExercise, bool)
	WritingByID(id string) (WritingExercise, bool)
}

// MemoryStore is a Store over immutable in-memory tables. Build it with
// Load or NewMemoryStore; it is never mutated afterwards.
type MemoryStore struct {
	vocab     map[int][]VocabularyItem
	reading   map[int][]ReadingExercise
	listening map[int][]ListeningExercise
	writing   map[int][]WritingExercise
	mixed     map[int][]MixedExercise
	byID      map[string]Exercise
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store from already-decoded packs. Packs are merged
// in order; the first occurrence of a hanzi within a level wins.
func NewMemoryStore(packs ...*Pack) (*MemoryStore, error) {
	b := newBuilder()
	for _, p := range packs {
		if err := b.add(p); err != nil {
			return nil, err
		}
	}
	return b.store, nil
}

func (s *MemoryStore) Levels() []int {
	levels := make([]int, 0, len(s.vocab))
	for lvl, words := range s.vocab {
		if len(words) > 0 {
			levels = append(levels, lvl)
		}
	}
	sort.Ints(levels)
	return levels
}

func (s *MemoryStore) VocabularyByLevel(level int) []VocabularyItem {
	return slices.Clone(s.vocab[level])
}

func (s *MemoryStore) ExerciseByID(id string) (Exercise, bool) {
	e, ok := s.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return e.clone(), true
}

func (s *MemoryStore) ExercisesByLevel(level int) []Exercise {
	var out []Exercise
	for i := range s.reading[level] {
		r := s.reading[level][i]
		out = append(out, Exercise{Kind: KindReading, Reading: &r})
	}
	for i := range s.listening[level] {
		l := s.listening[level][i]
		out = append(out, Exercise{Kind: KindListening, Listening: &l})
	}
	for i := range s.writing[level] {
		w := s.writing[level][i]
		out = append(out, Exercise{Kind: KindWriting, Writing: &w})
	}
	for i := range s.mixed[level] {
		m := s.mixed[level][i]
		out = append(out, Exercise{Kind: KindMixed, Mixed: &m})
	}
	return out
}

func (s *MemoryStore) ReadingByLevel(level int) []ReadingExercise {
	return slices.Clone(s.reading[level])
}

func (s *MemoryStore) ListeningByLevel(level int) []ListeningExercise {
	return slices.Clone(s.listening[level])
}

func (s *MemoryStore) WritingByLevel(level int) []WritingExercise {
	return slices.Clone(s.writing[level])
}

func (s *MemoryStore) MixedByLevel(level int) []MixedExercise {
	return slices.Clone(s.mixed[level])
}

func (s *MemoryStore) ReadingByID(id string) (ReadingExercise, bool) {
	e, ok := s.byID[id]
	if !ok || e.Kind != KindReading {
		return ReadingExercise{}, false
	}
	return *e.Reading, true
}

func (s *MemoryStore) ListeningByID(id string) (ListeningExercise, bool) {
	e, ok := s.byID[id]
	if !ok || e.Kind != KindListening {
		return ListeningExercise{}, false
	}
	return *e.Listening, true
}

func (s *MemoryStore) WritingByID(id string) (WritingExercise, bool) {
	e, ok := s.byID[id]
	if !ok || e.Kind != KindWriting {
		return WritingExercise{}, false
	}
	return *e.Writing, true
}
