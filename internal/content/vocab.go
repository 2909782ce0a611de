package content

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Search returns the items whose hanzi contains query, or whose pinyin or
// translation contains it case-insensitively. An empty query matches nothing.
func Search(query string, items []VocabularyItem) []VocabularyItem {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	lower := strings.ToLower(q)
	return lo.Filter(items, func(w VocabularyItem, _ int) bool {
		return strings.Contains(w.Hanzi, q) ||
			strings.Contains(strings.ToLower(w.Pinyin), lower) ||
			strings.Contains(strings.ToLower(w.Translation), lower)
	})
}

// VocabularyStats summarises a word list.
type VocabularyStats struct {
	TotalWords       int
	UniqueCharacters int
}

// Stats counts words and distinct Han characters across all hanzi.
func Stats(items []VocabularyItem) VocabularyStats {
	chars := lo.FlatMap(items, func(w VocabularyItem, _ int) []rune {
		return lo.Filter([]rune(w.Hanzi), func(r rune, _ int) bool {
			return unicode.Is(unicode.Han, r)
		})
	})
	return VocabularyStats{
		TotalWords:       len(items),
		UniqueCharacters: len(lo.Uniq(chars)),
	}
}

// ExportCSV writes hanzi,pinyin,translation rows, one per item.
func ExportCSV(w io.Writer, items []VocabularyItem) error {
	cw := csv.NewWriter(w)
	for _, it := range items {
		if err := cw.Write([]string{it.Hanzi, it.Pinyin, it.Translation}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads hanzi,pinyin,translation rows. Rows with fewer than three
// columns or any blank field are skipped.
func ImportCSV(r io.Reader) ([]VocabularyItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var items []VocabularyItem
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 3 {
			continue
		}
		h, p, t := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
		if h == "" || p == "" || t == "" {
			continue
		}
		items = append(items, VocabularyItem{Hanzi: h, Pinyin: p, Translation: t})
	}
	return items, nil
}

// WriteVocabularyPack writes a pack holding only vocabulary, in the format
// Load accepts from the content directory.
func WriteVocabularyPack(w io.Writer, level int, items []VocabularyItem) error {
	if !ValidLevel(level) {
		return fmt.Errorf("level %d out of range %d-%d", level, MinLevel, MaxLevel)
	}
	p := Pack{Version: SupportedMajor + ".0.0", Level: level, Vocabulary: items}
	if p.Vocabulary == nil {
		p.Vocabulary = []VocabularyItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(p)
}
