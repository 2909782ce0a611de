package examplegen

import "github.com/abhisek/hanzidrill/internal/llm"

// SentenceSchema is the structured output requested from the provider.
var SentenceSchema = &llm.Schema{
	Name:        "example-sentence",
	Description: "One short Mandarin example sentence for a vocabulary word",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sentence": map[string]any{
				"type":        "string",
				"description": "The sentence in simplified Chinese characters. Must contain the target word verbatim.",
			},
			"pinyin": map[string]any{
				"type":        "string",
				"description": "Pinyin for the whole sentence with tone marks",
			},
			"translation": map[string]any{
				"type":        "string",
				"description": "Natural English translation of the sentence",
			},
		},
		"required":             []any{"sentence", "pinyin", "translation"},
		"additionalProperties": false,
	},
}
