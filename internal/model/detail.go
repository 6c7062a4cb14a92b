// Package model defines domain types for flattened conversation data and
// computed statistics.
package model

import (
	"math"
	"time"
)

// Role identifies the author of a message.
type Role string

// Known roles. Anything else degrades to RoleOther in statistics.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
	RoleOther     Role = "other"
)

// NotFound is the sentinel used where the archive carries no value
// (missing model slug, missing message type, absent message payload).
const NotFound = "Not found"

// ImageInfo describes one image attached to a user message.
// Width and height are not recoverable from the export, so they are
// always null in the serialized output.
type ImageInfo struct {
	SizeBytes int64 `json:"size_bytes"`
	Width     *int  `json:"width"`
	Height    *int  `json:"height"`
}

// TextAnalysis holds the counts produced by text analysis of a message.
type TextAnalysis struct {
	CharacterCount int `json:"character_count"`
	WordCount      int `json:"word_count"`
	SentenceCount  int `json:"sentence_count"`
	TokenCount     int `json:"token_count"`
}

// AdditionalInfo carries the derived per-message fields. Each
// content-type/part-type combination sets a known subset; unset fields
// are omitted from the serialized output.
type AdditionalInfo struct {
	Text                   string        `json:"text,omitempty"`
	TranscriptionText      string        `json:"transcription_text,omitempty"`
	TranscriptionDirection string        `json:"transcription_direction,omitempty"`
	AudioDuration          float64       `json:"audio_duration,omitempty"`
	URL                    string        `json:"url,omitempty"`
	Language               string        `json:"language,omitempty"`
	RecipientInfo          string        `json:"recipient_info,omitempty"`
	Images                 []ImageInfo   `json:"images,omitempty"`
	Analysis               *TextAnalysis `json:"analysis,omitempty"`
}

// TokenCount returns the analyzed token count, or 0 when the message
// was never analyzed.
func (a AdditionalInfo) TokenCount() int {
	if a.Analysis == nil {
		return 0
	}
	return a.Analysis.TokenCount
}

// WordCount returns the analyzed word count, or 0 when unanalyzed.
func (a AdditionalInfo) WordCount() int {
	if a.Analysis == nil {
		return 0
	}
	return a.Analysis.WordCount
}

// MessageDetail is the flat, fully-resolved record for one message.
type MessageDetail struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Role           Role   `json:"role,omitempty"`
	ToolName       string `json:"tool_name,omitempty"`
	ModelSlug      string `json:"model_slug,omitempty"`
	ContentType    string `json:"content_type,omitempty"`
	MessageType    string `json:"message_type,omitempty"`

	IsMultimodal                bool `json:"is_multimodal"`
	ContainsImages              bool `json:"contains_images"`
	ContainsVideos              bool `json:"contains_videos"`
	ContainsAudios              bool `json:"contains_audios"`
	ContainsFiles               bool `json:"contains_files"`
	ContainsEmbeds              bool `json:"contains_embeds"`
	ContainsInteractiveElements bool `json:"contains_interactive_elements"`
	ContainsReactions           bool `json:"contains_reactions"`
	ContainsMedia               bool `json:"contains_media"`
	IsAudio                     bool `json:"is_audio"`

	CreateTime     float64        `json:"create_time,omitempty"`
	AdditionalInfo AdditionalInfo `json:"additional_info"`
	Cost           float64        `json:"cost"`
}

// ConversationEntry is the per-conversation unit persisted to the
// structured dataset and consumed by the aggregation engine.
type ConversationEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	CreateTime float64 `json:"create_time,omitempty"`
	IsArchived bool    `json:"is_archived"`

	UserMessageCount      int      `json:"user_message_count"`
	AssistantMessageCount int      `json:"assistant_message_count"`
	ToolMessageCount      int      `json:"tool_message_count"`
	ToolsUsed             []string `json:"tools_used"`

	Messages []MessageDetail `json:"messages"`

	TotalCost     float64 `json:"totalCost"`
	DominantModel string  `json:"dominant_model,omitempty"`
	InputTokens   int64   `json:"input_tokens,omitempty"`
	OutputTokens  int64   `json:"output_tokens,omitempty"`
}

// CreatedAt converts the epoch create_time to a UTC time.
// The second return is false when the conversation has no timestamp.
func (c ConversationEntry) CreatedAt() (time.Time, bool) {
	if c.CreateTime == 0 {
		return time.Time{}, false
	}
	sec, frac := math.Modf(c.CreateTime)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

// RoundCost rounds a cost value to the given number of decimal places.
// Conversation totals use 6 places, report totals 4; per-message costs
// are never rounded to avoid compounding error.
func RoundCost(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
