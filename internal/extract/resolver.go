// Package extract reconstructs per-message semantics from a
// conversation's raw message tree.
package extract

import (
	"strings"

	"github.com/IchaiWiz/chat-gpt-insight/internal/archive"
	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
)

const (
	// memoryToolName is the built-in memory ("bio") connector. Tool
	// messages from it inherit their model slug from the first child,
	// same as user messages.
	memoryToolName = "a8km123"

	// audioModelSlug is forced onto any message detected as audio.
	audioModelSlug = "gpt-4o-audio-preview"

	recipientBio   = "bio"
	recipientDalle = "dalle.text2im"

	// maxInheritDepth caps the first-child inheritance walk. Trees are
	// acyclic by construction, but malformed input must not loop.
	maxInheritDepth = 128
)

// Options control resolver behavior.
type Options struct {
	// ShowMessageText enables capturing transcription text from audio
	// transcription parts.
	ShowMessageText bool
}

// Resolve produces the flat MessageDetail for one message node. The
// node may be nil or carry no message payload; that resolves to a
// terminal detail with MessageType "Not found", not an error. The
// input node and mapping are never mutated.
func Resolve(conversationID, messageID string, node *archive.MessageNode, mapping archive.Mapping, opts Options) model.MessageDetail {
	return resolve(conversationID, messageID, node, mapping, opts, make(map[string]bool), 0)
}

func resolve(conversationID, messageID string, node *archive.MessageNode, mapping archive.Mapping, opts Options, visited map[string]bool, depth int) model.MessageDetail {
	detail := model.MessageDetail{
		ConversationID: conversationID,
		MessageID:      messageID,
	}

	if node == nil || isPlaceholder(node.Message) {
		detail.MessageType = model.NotFound
		return detail
	}

	msg := node.Message
	detail.CreateTime = msg.CreateTime
	role := model.Role(msg.Author.Role)
	detail.Role = role
	if role == model.RoleTool {
		detail.ToolName = msg.Author.Name
		if detail.ToolName == "" {
			detail.ToolName = "unknown"
		}
	}

	switch {
	case role == model.RoleTool && detail.ToolName == memoryToolName:
		detail.ModelSlug = inheritModelSlug(conversationID, node, mapping, opts, visited, depth)
	case role != model.RoleUser:
		if isAudioMessage(msg) {
			detail.IsAudio = true
			detail.ModelSlug = audioModelSlug
		} else if msg.Metadata.ModelSlug != "" {
			detail.ModelSlug = msg.Metadata.ModelSlug
		} else {
			detail.ModelSlug = model.NotFound
		}
	default: // user
		detail.ModelSlug = inheritModelSlug(conversationID, node, mapping, opts, visited, depth)
	}

	content := msg.Content
	ctype := content.ContentType
	if ctype == "" {
		ctype = model.NotFound
	}
	detail.ContentType = ctype

	// Type-specific text sources, mutually exclusive by content type.
	switch ctype {
	case "code":
		if content.Text != "" {
			detail.AdditionalInfo.Text = content.Text
		}
	case "tether_browsing_display":
		if content.Result != "" {
			detail.AdditionalInfo.Text = content.Result
		}
	case "tether_quote":
		if content.Text != "" {
			detail.AdditionalInfo.Text = content.Text
		}
	}

	messageType := ""
	if role != model.RoleUser {
		messageType = msg.Metadata.MessageType
	}
	if messageType == "" {
		messageType = ctype
	}
	if messageType == "" {
		messageType = model.NotFound
	}
	detail.MessageType = messageType

	switch ctype {
	case "multimodal_text", "embed", "interactive":
		detail.IsMultimodal = true
	}

	scanParts(&detail, content.Parts, role, opts)
	scanAttachments(&detail, msg.Metadata.Attachments, role)

	if role != model.RoleUser && content.URL != "" {
		detail.AdditionalInfo.URL = content.URL
	}
	if content.Language != "" {
		detail.AdditionalInfo.Language = content.Language
	}

	switch msg.Recipient {
	case recipientBio:
		detail.AdditionalInfo.RecipientInfo = "Internal memory"
	case recipientDalle:
		detail.AdditionalInfo.RecipientInfo = "Text sent to DALL·E"
	}

	return detail
}

// inheritModelSlug resolves the first child's detail and copies its
// model slug. Revisits and excessive depth terminate with the sentinel.
func inheritModelSlug(conversationID string, node *archive.MessageNode, mapping archive.Mapping, opts Options, visited map[string]bool, depth int) string {
	if len(node.Children) == 0 || depth >= maxInheritDepth {
		return model.NotFound
	}
	childID := node.Children[0]
	if visited[childID] {
		return model.NotFound
	}
	visited[childID] = true

	child := resolve(conversationID, childID, mapping.Get(childID), mapping, opts, visited, depth+1)
	if child.ModelSlug == "" {
		return model.NotFound
	}
	return child.ModelSlug
}

// scanParts walks content parts in order, setting modality flags and
// collecting inline text.
func scanParts(detail *model.MessageDetail, parts []archive.Part, role model.Role, opts Options) {
	textSet := detail.AdditionalInfo.Text != ""

	appendText := func(s string) {
		if !textSet {
			detail.AdditionalInfo.Text = s
			textSet = true
			return
		}
		detail.AdditionalInfo.Text += " " + s
	}

	for _, part := range parts {
		if part.IsString {
			appendText(part.Text)
			continue
		}

		switch part.ContentType {
		case "image_asset_pointer", "image":
			detail.ContainsImages = true
			detail.ContainsMedia = true
		case "video":
			detail.ContainsVideos = true
			detail.ContainsMedia = true
			// last-detected-type-wins for the audio flag only
			detail.IsAudio = false
		case "audio":
			detail.ContainsAudios = true
			detail.ContainsMedia = true
			detail.IsAudio = true
			if part.AudioEnd != 0 {
				detail.AdditionalInfo.AudioDuration = part.AudioEnd
			}
		case "file":
			detail.ContainsFiles = true
			detail.ContainsMedia = true
		case "embed":
			detail.ContainsEmbeds = true
			detail.ContainsMedia = true
		case "interactive":
			detail.ContainsInteractiveElements = true
		case "reaction":
			detail.ContainsReactions = true
		case "audio_transcription":
			if opts.ShowMessageText && part.Text != "" {
				detail.AdditionalInfo.TranscriptionText = part.Text
				switch role {
				case model.RoleUser:
					detail.AdditionalInfo.TranscriptionDirection = "in"
				case model.RoleAssistant:
					detail.AdditionalInfo.TranscriptionDirection = "out"
				}
			}
		}

		if part.HasText && part.Text != "" {
			appendText(part.Text)
		}
	}
}

// scanAttachments classifies metadata attachments by MIME prefix.
// Full classification applies to non-user roles; user messages only
// contribute image descriptors (size known, dimensions never are).
func scanAttachments(detail *model.MessageDetail, attachments []archive.Attachment, role model.Role) {
	for _, att := range attachments {
		isImage := strings.HasPrefix(att.MimeType, "image/")

		if role == model.RoleUser {
			if isImage {
				detail.ContainsImages = true
				detail.ContainsMedia = true
				detail.AdditionalInfo.Images = append(detail.AdditionalInfo.Images, model.ImageInfo{
					SizeBytes: att.Size,
				})
			}
			continue
		}

		switch {
		case isImage:
			detail.ContainsImages = true
			detail.ContainsMedia = true
		case strings.HasPrefix(att.MimeType, "video/"):
			detail.ContainsVideos = true
			detail.ContainsMedia = true
		case strings.HasPrefix(att.MimeType, "audio/"):
			detail.ContainsAudios = true
			detail.ContainsMedia = true
			detail.IsAudio = true
			if att.Metadata.End != 0 {
				detail.AdditionalInfo.AudioDuration = att.Metadata.End
			}
		case strings.HasPrefix(att.MimeType, "application/"):
			detail.ContainsFiles = true
			detail.ContainsMedia = true
		case strings.HasPrefix(att.MimeType, "embed/"):
			detail.ContainsEmbeds = true
			detail.ContainsMedia = true
		}
	}
}

// isAudioMessage reports whether any content part is an audio pointer.
func isAudioMessage(msg *archive.Message) bool {
	for _, part := range msg.Content.Parts {
		if !part.IsString && part.ContentType == "audio_asset_pointer" {
			return true
		}
	}
	return false
}
