package extract

import (
	"sort"
	"strings"

	"github.com/IchaiWiz/chat-gpt-insight/internal/archive"
	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
)

// Summary holds per-conversation counts and the ordered list of message
// ids considered valid for extraction.
type Summary struct {
	CreateTime            float64
	IsArchived            bool
	UserMessageCount      int
	AssistantMessageCount int
	ToolMessageCount      int
	ToolsUsed             []string
	MessageIDs            []string
}

// Summarize walks a conversation's mapping in insertion order, counting
// messages per role and filtering out structural placeholders and
// content-empty messages. The returned MessageIDs order determines
// downstream message ordering and must stay reproducible.
func Summarize(conv archive.Conversation) Summary {
	s := Summary{
		CreateTime: conv.CreateTime,
		IsArchived: conv.IsArchived,
	}

	tools := make(map[string]struct{})

	for _, id := range conv.Mapping.Order {
		node := conv.Mapping.Get(id)
		if node == nil || isPlaceholder(node.Message) {
			continue
		}
		msg := node.Message
		role := model.Role(msg.Author.Role)
		contentType := msg.Content.ContentType
		parts := msg.Content.Parts

		// Empty placeholder system prompts and whitespace-only text
		// messages are never counted.
		if role == model.RoleSystem && contentType == "text" && isSingleEmptyPart(parts) {
			continue
		}
		if contentType == "text" && allWhitespaceStrings(parts) {
			continue
		}

		switch role {
		case model.RoleUser:
			s.UserMessageCount++
		case model.RoleAssistant:
			s.AssistantMessageCount++
		case model.RoleTool:
			s.ToolMessageCount++
			if msg.Author.Name != "" {
				tools[msg.Author.Name] = struct{}{}
			}
		}

		s.MessageIDs = append(s.MessageIDs, id)
	}

	s.ToolsUsed = make([]string, 0, len(tools))
	for name := range tools {
		s.ToolsUsed = append(s.ToolsUsed, name)
	}
	sort.Strings(s.ToolsUsed)

	return s
}

// isPlaceholder reports whether a node carries no usable message. Some
// exports emit structural nodes with an empty message object instead of
// null; a message with neither an author role nor a content type is
// treated the same as a missing one.
func isPlaceholder(msg *archive.Message) bool {
	return msg == nil || (msg.Author.Role == "" && msg.Content.ContentType == "")
}

func isSingleEmptyPart(parts []archive.Part) bool {
	return len(parts) == 1 && parts[0].IsString && parts[0].Text == ""
}

// allWhitespaceStrings reports whether every part is a plain string
// containing only whitespace. Vacuously true for an empty parts list.
func allWhitespaceStrings(parts []archive.Part) bool {
	for _, p := range parts {
		if !p.IsString || strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}
