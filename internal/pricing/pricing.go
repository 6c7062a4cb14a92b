// Package pricing resolves per-message monetary cost from a pluggable
// price table.
package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
)

// Hard defaults used when neither the model row nor the default-model
// row exists. Rates are USD per million tokens.
const (
	FallbackInputRate  = 2.50
	FallbackOutputRate = 10.00

	// DefaultImageRate is the flat USD rate per generated image when
	// the price table carries no override.
	DefaultImageRate = 0.020

	// ImageRecipient keys the image-generation rate in the price table.
	ImageRecipient = "dalle.text2im"

	defaultModelName = "gpt-4o"
)

// Direction selects the input or output side of a model's rates.
type Direction string

// Directions.
const (
	Input  Direction = "input"
	Output Direction = "output"
)

// DirectionFor maps a message role to a billing direction: user
// messages are input, everything else (assistant, tool, system) output.
func DirectionFor(role model.Role) Direction {
	if role == model.RoleUser {
		return Input
	}
	return Output
}

// ModelRates holds per-million-token rates for one model. The audio
// rates are optional overrides applied to audio content.
type ModelRates struct {
	Input       float64  `json:"input"`
	Output      float64  `json:"output"`
	InputAudio  *float64 `json:"input_audio,omitempty"`
	OutputAudio *float64 `json:"output_audio,omitempty"`
}

// Table is an immutable price table, loaded once and shared read-only
// across all cost computations.
type Table struct {
	Models       map[string]ModelRates `json:"models"`
	Images       map[string]float64    `json:"images"`
	DefaultModel string                `json:"default_model"`
}

// Load reads a price table from a JSON file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading price file: %w", err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing price file: %w", err)
	}
	return &t, nil
}

// DefaultTable returns the built-in fallback table used when no price
// file is supplied to the processing pipeline.
func DefaultTable() *Table {
	return &Table{
		Models: map[string]ModelRates{
			defaultModelName: {Input: FallbackInputRate, Output: FallbackOutputRate},
		},
		Images:       map[string]float64{ImageRecipient: DefaultImageRate},
		DefaultModel: defaultModelName,
	}
}

// defaultModel returns the configured fallback model name.
func (t *Table) defaultModel() string {
	if t.DefaultModel != "" {
		return t.DefaultModel
	}
	return defaultModelName
}

// Rates resolves the price row for a model: the model's own row, then
// the default model's row. The second return reports whether any row
// was found; callers fall back to the hard defaults otherwise.
func (t *Table) Rates(modelSlug string) (ModelRates, bool) {
	if r, ok := t.Models[modelSlug]; ok {
		return r, true
	}
	r, ok := t.Models[t.defaultModel()]
	return r, ok
}

// PerToken returns the applicable per-million-token rate for a model,
// content type, and direction. Audio content uses the row's
// direction-specific audio rate when present.
func (t *Table) PerToken(modelSlug, contentType string, dir Direction) float64 {
	rates, ok := t.Rates(modelSlug)
	if !ok {
		if dir == Input {
			return FallbackInputRate
		}
		return FallbackOutputRate
	}
	if contentType == "audio" {
		if dir == Input && rates.InputAudio != nil {
			return *rates.InputAudio
		}
		if dir == Output && rates.OutputAudio != nil {
			return *rates.OutputAudio
		}
	}
	// A row may carry only one direction; a zero rate means the key was
	// absent and the hard default applies.
	if dir == Input {
		if rates.Input == 0 {
			return FallbackInputRate
		}
		return rates.Input
	}
	if rates.Output == 0 {
		return FallbackOutputRate
	}
	return rates.Output
}

// ImageRate returns the flat per-image rate for a generation recipient.
func (t *Table) ImageRate(recipient string) float64 {
	if r, ok := t.Images[recipient]; ok {
		return r
	}
	return DefaultImageRate
}

// MessageCost computes the full-precision cost of one message: token
// cost by role direction plus the flat rate for any attached images.
// Rounding happens only at the conversation-total level.
func (t *Table) MessageCost(d model.MessageDetail) float64 {
	rate := t.PerToken(d.ModelSlug, d.ContentType, DirectionFor(d.Role))
	cost := float64(d.AdditionalInfo.TokenCount()) / 1_000_000 * rate

	if d.ContainsImages {
		cost += float64(len(d.AdditionalInfo.Images)) * t.ImageRate(ImageRecipient)
	}

	return cost
}
