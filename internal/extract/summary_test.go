package extract

import (
	"reflect"
	"testing"

	"github.com/IchaiWiz/chat-gpt-insight/internal/archive"
)

func textNode(role, name, text string) *archive.MessageNode {
	return node(&archive.Message{
		Author: archive.Author{Role: role, Name: name},
		Content: archive.Content{
			ContentType: "text",
			Parts:       []archive.Part{{IsString: true, Text: text}},
		},
	})
}

func convWith(nodes map[string]*archive.MessageNode, order ...string) archive.Conversation {
	return archive.Conversation{
		ID:         "c1",
		CreateTime: 1700000000,
		Mapping:    archive.Mapping{Nodes: nodes, Order: order},
	}
}

func TestSummarize_RoleCounts(t *testing.T) {
	conv := convWith(map[string]*archive.MessageNode{
		"u1": textNode("user", "", "hi"),
		"a1": textNode("assistant", "", "hello"),
		"u2": textNode("user", "", "more"),
		"t1": textNode("tool", "browser", "result"),
	}, "u1", "a1", "u2", "t1")

	s := Summarize(conv)
	if s.UserMessageCount != 2 {
		t.Errorf("UserMessageCount = %d, want 2", s.UserMessageCount)
	}
	if s.AssistantMessageCount != 1 {
		t.Errorf("AssistantMessageCount = %d, want 1", s.AssistantMessageCount)
	}
	if s.ToolMessageCount != 1 {
		t.Errorf("ToolMessageCount = %d, want 1", s.ToolMessageCount)
	}
	if s.CreateTime != 1700000000 {
		t.Errorf("CreateTime = %v, want 1700000000", s.CreateTime)
	}
}

func TestSummarize_OrderPreserved(t *testing.T) {
	conv := convWith(map[string]*archive.MessageNode{
		"zz": textNode("user", "", "a"),
		"aa": textNode("assistant", "", "b"),
		"mm": textNode("user", "", "c"),
	}, "zz", "aa", "mm")

	s := Summarize(conv)
	want := []string{"zz", "aa", "mm"}
	if !reflect.DeepEqual(s.MessageIDs, want) {
		t.Errorf("MessageIDs = %v, want %v", s.MessageIDs, want)
	}
}

func TestSummarize_SkipsPlaceholders(t *testing.T) {
	conv := convWith(map[string]*archive.MessageNode{
		"root": {Children: []string{"sys"}},
		"sys":  textNode("system", "", ""),
		"ws":   textNode("user", "", "   \n\t"),
		"u1":   textNode("user", "", "real"),
	}, "root", "sys", "ws", "u1")

	s := Summarize(conv)
	if len(s.MessageIDs) != 1 || s.MessageIDs[0] != "u1" {
		t.Errorf("MessageIDs = %v, want [u1]", s.MessageIDs)
	}
	if s.UserMessageCount != 1 {
		t.Errorf("UserMessageCount = %d, want 1", s.UserMessageCount)
	}
}

func TestSummarize_EmptyMessageObjectSkipped(t *testing.T) {
	// Some exports emit {"message": {}} on structural nodes instead of
	// null. A zero-value message must be filtered like a missing one.
	conv := convWith(map[string]*archive.MessageNode{
		"n1": node(&archive.Message{}),
	}, "n1")

	s := Summarize(conv)
	if len(s.MessageIDs) != 0 {
		t.Errorf("MessageIDs = %v, want empty", s.MessageIDs)
	}
}

func TestSummarize_EmptyTextPartsSkipped(t *testing.T) {
	// A "text" message with no parts at all counts as whitespace-only.
	empty := node(&archive.Message{
		Author:  archive.Author{Role: "assistant"},
		Content: archive.Content{ContentType: "text"},
	})
	conv := convWith(map[string]*archive.MessageNode{"a1": empty}, "a1")

	s := Summarize(conv)
	if len(s.MessageIDs) != 0 {
		t.Errorf("MessageIDs = %v, want empty", s.MessageIDs)
	}
}

func TestSummarize_NonTextEmptyKept(t *testing.T) {
	// The whitespace filter only applies to text content.
	code := node(&archive.Message{
		Author:  archive.Author{Role: "assistant"},
		Content: archive.Content{ContentType: "code"},
	})
	conv := convWith(map[string]*archive.MessageNode{"a1": code}, "a1")

	s := Summarize(conv)
	if len(s.MessageIDs) != 1 {
		t.Errorf("MessageIDs = %v, want [a1]", s.MessageIDs)
	}
}

func TestSummarize_ToolsSortedAndDeduped(t *testing.T) {
	conv := convWith(map[string]*archive.MessageNode{
		"t1": textNode("tool", "python", "x"),
		"t2": textNode("tool", "browser", "y"),
		"t3": textNode("tool", "python", "z"),
		"t4": textNode("tool", "", "anon"),
	}, "t1", "t2", "t3", "t4")

	s := Summarize(conv)
	want := []string{"browser", "python"}
	if !reflect.DeepEqual(s.ToolsUsed, want) {
		t.Errorf("ToolsUsed = %v, want %v", s.ToolsUsed, want)
	}
	if s.ToolMessageCount != 4 {
		t.Errorf("ToolMessageCount = %d, want 4", s.ToolMessageCount)
	}
}
