package archive

import (
	"bytes"
	"encoding/json"
)

// Conversation is one raw conversation record from a ChatGPT export.
type Conversation struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversation_id"`
	Title          string  `json:"title"`
	CreateTime     float64 `json:"create_time"`
	UpdateTime     float64 `json:"update_time"`
	IsArchived     bool    `json:"is_archived"`
	CurrentNode    string  `json:"current_node"`
	Mapping        Mapping `json:"mapping"`
}

// Key returns the conversation identifier, preferring "id" and falling
// back to "conversation_id" (older exports only carry the latter).
func (c Conversation) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.ConversationID
}

// Mapping is the id-indexed adjacency structure of a conversation's
// message tree. JSON objects are decoded with their key order preserved,
// since downstream message ordering follows the source's insertion order.
type Mapping struct {
	Nodes map[string]*MessageNode
	Order []string
}

// Get returns the node for an id, or nil if absent.
func (m Mapping) Get(id string) *MessageNode {
	return m.Nodes[id]
}

// UnmarshalJSON decodes the mapping object while recording its key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	m.Nodes = make(map[string]*MessageNode)
	m.Order = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		// null or unexpected shape: treat as empty mapping
		return nil
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			continue
		}
		var node MessageNode
		if err := dec.Decode(&node); err != nil {
			return err
		}
		if _, seen := m.Nodes[key]; !seen {
			m.Order = append(m.Order, key)
		}
		m.Nodes[key] = &node
	}
	return nil
}

// MarshalJSON emits the mapping in its recorded key order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.Nodes[id])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MessageNode is a node in the conversation tree. A node with a nil
// Message is a structural placeholder.
type MessageNode struct {
	ID       string   `json:"id"`
	Message  *Message `json:"message"`
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children"`
}

// Message is the payload of a non-placeholder node.
type Message struct {
	ID         string   `json:"id"`
	Author     Author   `json:"author"`
	CreateTime float64  `json:"create_time,omitempty"`
	Content    Content  `json:"content"`
	Metadata   Metadata `json:"metadata"`
	Recipient  string   `json:"recipient,omitempty"`
	Status     string   `json:"status,omitempty"`
}

// Author identifies who produced a message.
type Author struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
}

// Content holds the typed content of a message. Which fields are
// populated depends on ContentType.
type Content struct {
	ContentType string `json:"content_type"`
	Parts       []Part `json:"parts,omitempty"`
	Text        string `json:"text,omitempty"`
	Result      string `json:"result,omitempty"`
	URL         string `json:"url,omitempty"`
	Language    string `json:"language,omitempty"`
}

// Part is one element of a content's parts array. Exports mix plain
// strings with structured objects (asset pointers, transcriptions).
type Part struct {
	// IsString marks a plain string part; Text then holds its value.
	IsString bool
	// ContentType is set for structured parts (e.g. image_asset_pointer).
	ContentType string
	// Text holds the inline text of a structured part, HasText whether
	// the field was present at all.
	Text    string
	HasText bool
	// AudioEnd is the end offset from an audio part's metadata, seconds.
	AudioEnd float64
}

// UnmarshalJSON accepts either a JSON string or a structured part object.
// Unrecognized shapes decode to a zero Part rather than failing the load.
func (p *Part) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		p.IsString = true
		p.Text = s
		return nil
	}

	var raw struct {
		ContentType string  `json:"content_type"`
		Text        *string `json:"text"`
		Metadata    struct {
			End float64 `json:"end"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		// Heterogeneous archives: tolerate parts we don't understand.
		return nil
	}
	p.ContentType = raw.ContentType
	if raw.Text != nil {
		p.HasText = true
		p.Text = *raw.Text
	}
	p.AudioEnd = raw.Metadata.End
	return nil
}

// MarshalJSON re-emits the part in its source shape.
func (p Part) MarshalJSON() ([]byte, error) {
	if p.IsString {
		return json.Marshal(p.Text)
	}
	out := map[string]any{}
	if p.ContentType != "" {
		out["content_type"] = p.ContentType
	}
	if p.HasText {
		out["text"] = p.Text
	}
	if p.AudioEnd != 0 {
		out["metadata"] = map[string]any{"end": p.AudioEnd}
	}
	return json.Marshal(out)
}

// Metadata is the subset of message metadata the extraction engine reads.
type Metadata struct {
	ModelSlug   string       `json:"model_slug,omitempty"`
	MessageType string       `json:"message_type,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment describes one file attached to a message.
type Attachment struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size,omitempty"`
	Metadata struct {
		End float64 `json:"end,omitempty"`
	} `json:"metadata,omitempty"`
}
