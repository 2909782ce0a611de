package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the content pack format major version this build reads.
const SupportedMajor = "v1"

//go:embed data/*.json
var embedded embed.FS

//go:embed pack.schema.json
var packSchemaJSON []byte

// Pack is one content file: a level's vocabulary and exercises.
type Pack struct {
	Version    string              `json:"version"`
	Level      int                 `json:"level"`
	Vocabulary []VocabularyItem    `json:"vocabulary"`
	Reading    []ReadingExercise   `json:"reading,omitempty"`
	Listening  []ListeningExercise `json:"listening,omitempty"`
	Writing    []WritingExercise   `json:"writing,omitempty"`
	Mixed      []MixedExercise     `json:"mixed,omitempty"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func packSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(packSchemaJSON, &doc); err != nil {
			schemaErr = fmt.Errorf("parse pack schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://hanzidrill/pack.json"
		if err := c.AddResource(url, doc); err != nil {
			schemaErr = fmt.Errorf("add pack schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(url)
	})
	return schema, schemaErr
}

// DecodePack validates raw JSON against the pack schema and the supported
// format version, then decodes it.
func DecodePack(raw []byte) (*Pack, error) {
	sch, err := packSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var p Pack
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}

	if !semver.IsValid(p.Version) {
		return nil, fmt.Errorf("invalid pack version %q", p.Version)
	}
	if major := semver.Major(p.Version); major != SupportedMajor {
		return nil, fmt.Errorf("unsupported pack version %s (want %s.x)", p.Version, SupportedMajor)
	}
	if !ValidLevel(p.Level) {
		return nil, fmt.Errorf("pack level %d out of range %d-%d", p.Level, MinLevel, MaxLevel)
	}
	for i := range p.Reading {
		if err := checkChoices(p.Reading[i].ID, p.Reading[i].Questions); err != nil {
			return nil, err
		}
	}
	for i := range p.Listening {
		if err := checkChoices(p.Listening[i].ID, p.Listening[i].Questions); err != nil {
			return nil, err
		}
	}
	for _, w := range p.Writing {
		if w.MinChars > w.MaxChars {
			return nil, fmt.Errorf("writing %s: min_chars %d > max_chars %d", w.ID, w.MinChars, w.MaxChars)
		}
	}
	return &p, nil
}

func checkChoices(exerciseID string, qs []ChoiceQuestion) error {
	for _, q := range qs {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%s/%s: correct_answer %d out of range", exerciseID, q.ID, q.CorrectAnswer)
		}
	}
	return nil
}

// Load reads the embedded packs followed by every *.json pack in dir (if dir
// is non-empty) and returns the merged store.
func Load(dir string) (*MemoryStore, error) {
	packs, err := readPacks(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("embedded content: %w", err)
	}
	if dir != "" {
		extra, err := readPacks(os.DirFS(dir), ".")
		if err != nil {
			return nil, fmt.Errorf("content dir %s: %w", dir, err)
		}
		packs = append(packs, extra...)
	}
	return NewMemoryStore(packs...)
}

// MustLoadEmbedded loads only the embedded packs and panics on failure.
// The embedded data is part of the build, so a failure is a build defect.
func MustLoadEmbedded() *MemoryStore {
	s, err := Load("")
	if err != nil {
		panic(err)
	}
	return s
}

func readPacks(fsys fs.FS, root string) ([]*Pack, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	packs := make([]*Pack, 0, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, name)))
		if err != nil {
			return nil, err
		}
		p, err := DecodePack(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		packs = append(packs, p)
	}
	return packs, nil
}

// builder accumulates packs into a MemoryStore.
type builder struct {
	store *MemoryStore
	seen  map[int]map[string]bool
}

func newBuilder() *builder {
	return &builder{
		store: &MemoryStore{
			vocab:     make(map[int][]VocabularyItem),
			reading:   make(map[int][]ReadingExercise),
			listening: make(map[int][]ListeningExercise),
			writing:   make(map[int][]WritingExercise),
			mixed:     make(map[int][]MixedExercise),
			byID:      make(map[string]Exercise),
		},
		seen: make(map[int]map[string]bool),
	}
}

func (b *builder) add(p *Pack) error {
	lvl := p.Level
	if b.seen[lvl] == nil {
		b.seen[lvl] = make(map[string]bool)
	}
	for _, w := range p.Vocabulary {
		if b.seen[lvl][w.Hanzi] {
			continue
		}
		b.seen[lvl][w.Hanzi] = true
		b.store.vocab[lvl] = append(b.store.vocab[lvl], w)
	}

	for _, r := range p.Reading {
		r.Level = lvl
		if err := b.index(Exercise{Kind: KindReading, Reading: &r}); err != nil {
			return err
		}
		b.store.reading[lvl] = append(b.store.reading[lvl], r)
	}
	for _, l := range p.Listening {
		l.Level = lvl
		if err := b.index(Exercise{Kind: KindListening, Listening: &l}); err != nil {
			return err
		}
		b.store.listening[lvl] = append(b.store.listening[lvl], l)
	}
	for _, w := range p.Writing {
		w.Level = lvl
		if err := b.index(Exercise{Kind: KindWriting, Writing: &w}); err != nil {
			return err
		}
		b.store.writing[lvl] = append(b.store.writing[lvl], w)
	}
	for _, m := range p.Mixed {
		m.Level = lvl
		if err := b.index(Exercise{Kind: KindMixed, Mixed: &m}); err != nil {
			return err
		}
		b.store.mixed[lvl] = append(b.store.mixed[lvl], m)
	}
	return nil
}

func (b *builder) index(e Exercise) error {
	id := e.ID()
	if _, dup := b.store.byID[id]; dup {
		return fmt.Errorf("duplicate exercise id %q", id)
	}
	b.store.byID[id] = e.clone()
	return nil
}
