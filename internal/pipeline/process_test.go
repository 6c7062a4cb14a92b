package pipeline

import (
	"fmt"
	"sync"
	"testing"

	"github.com/IchaiWiz/chat-gpt-insight/internal/archive"
	"github.com/IchaiWiz/chat-gpt-insight/internal/pricing"
)

func textMsg(role, slug, text string) *archive.MessageNode {
	return &archive.MessageNode{
		Message: &archive.Message{
			Author: archive.Author{Role: role},
			Content: archive.Content{
				ContentType: "text",
				Parts:       []archive.Part{{IsString: true, Text: text}},
			},
			Metadata: archive.Metadata{ModelSlug: slug},
		},
	}
}

func conversation(id string, nodes map[string]*archive.MessageNode, order ...string) archive.Conversation {
	return archive.Conversation{
		ID:         id,
		Title:      "title " + id,
		CreateTime: 1700000000,
		Mapping:    archive.Mapping{Nodes: nodes, Order: order},
	}
}

func TestBuildEntries_Empty(t *testing.T) {
	if got := BuildEntries(nil, Options{}, nil); got != nil {
		t.Errorf("BuildEntries(nil) = %v, want nil", got)
	}
}

func TestBuildEntries_OrderPreserved(t *testing.T) {
	var convs []archive.Conversation
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("conv-%02d", i)
		convs = append(convs, conversation(id, map[string]*archive.MessageNode{
			"m1": textMsg("assistant", "gpt-4o", "reply"),
		}, "m1"))
	}

	entries := BuildEntries(convs, Options{}, nil)
	if len(entries) != len(convs) {
		t.Fatalf("len = %d, want %d", len(entries), len(convs))
	}
	for i, e := range entries {
		if e.ID != convs[i].ID {
			t.Errorf("entries[%d].ID = %q, want %q", i, e.ID, convs[i].ID)
		}
	}
}

func TestBuildEntries_Progress(t *testing.T) {
	convs := []archive.Conversation{
		conversation("c1", map[string]*archive.MessageNode{"m1": textMsg("user", "", "hi")}, "m1"),
		conversation("c2", map[string]*archive.MessageNode{"m1": textMsg("user", "", "hi")}, "m1"),
		conversation("c3", map[string]*archive.MessageNode{"m1": textMsg("user", "", "hi")}, "m1"),
	}

	var mu sync.Mutex
	calls := 0
	sawTotal := 0
	BuildEntries(convs, Options{}, func(current, total int) {
		mu.Lock()
		calls++
		if current == total {
			sawTotal = total
		}
		mu.Unlock()
	})

	if calls != 3 {
		t.Errorf("progress calls = %d, want 3", calls)
	}
	if sawTotal != 3 {
		t.Errorf("final total = %d, want 3", sawTotal)
	}
}

func TestBuildEntry_Counts(t *testing.T) {
	conv := conversation("c1", map[string]*archive.MessageNode{
		"u1": textMsg("user", "", "question"),
		"a1": textMsg("assistant", "gpt-4o", "answer"),
		"a2": textMsg("assistant", "gpt-4o", "more"),
	}, "u1", "a1", "a2")
	conv.IsArchived = true

	entries := BuildEntries([]archive.Conversation{conv}, Options{}, nil)
	e := entries[0]
	if e.ID != "c1" || e.Title != "title c1" {
		t.Errorf("identity = %q/%q", e.ID, e.Title)
	}
	if !e.IsArchived {
		t.Error("IsArchived = false, want true")
	}
	if e.UserMessageCount != 1 || e.AssistantMessageCount != 2 {
		t.Errorf("counts = %d/%d, want 1/2", e.UserMessageCount, e.AssistantMessageCount)
	}
	if len(e.Messages) != 3 {
		t.Errorf("len(Messages) = %d, want 3", len(e.Messages))
	}
}

func TestBuildEntry_AnalyzeGating(t *testing.T) {
	quote := &archive.MessageNode{
		Message: &archive.Message{
			Author:   archive.Author{Role: "assistant"},
			Content:  archive.Content{ContentType: "tether_quote", Text: "quoted text"},
			Metadata: archive.Metadata{ModelSlug: "gpt-4o"},
		},
	}
	conv := conversation("c1", map[string]*archive.MessageNode{
		"a1": textMsg("assistant", "gpt-4o", "analyzed reply"),
		"q1": quote,
	}, "a1", "q1")

	entries := BuildEntries([]archive.Conversation{conv}, Options{}, nil)
	msgs := entries[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(msgs))
	}
	if msgs[0].AdditionalInfo.Analysis == nil {
		t.Error("text message not analyzed")
	}
	if msgs[1].AdditionalInfo.Analysis != nil {
		t.Error("tether_quote message analyzed, want skipped")
	}
}

func TestBuildEntry_AnalyzeOverride(t *testing.T) {
	conv := conversation("c1", map[string]*archive.MessageNode{
		"a1": textMsg("assistant", "gpt-4o", "reply"),
	}, "a1")

	opts := Options{AnalyzeContentTypes: []string{"code"}}
	entries := BuildEntries([]archive.Conversation{conv}, opts, nil)
	if entries[0].Messages[0].AdditionalInfo.Analysis != nil {
		t.Error("text message analyzed despite code-only override")
	}
}

func TestBuildEntry_DominantModelFirstSeenWins(t *testing.T) {
	// Identical text gives both models the same token count, so the
	// first analyzed model must win the tie.
	conv := conversation("c1", map[string]*archive.MessageNode{
		"a1": textMsg("assistant", "model-a", "same reply text"),
		"a2": textMsg("assistant", "model-b", "same reply text"),
	}, "a1", "a2")

	entries := BuildEntries([]archive.Conversation{conv}, Options{}, nil)
	if got := entries[0].DominantModel; got != "model-a" {
		t.Errorf("DominantModel = %q, want model-a", got)
	}
}

func TestBuildEntry_ImageCostRounded(t *testing.T) {
	user := textMsg("user", "", "look at these")
	user.Message.Metadata.Attachments = []archive.Attachment{
		{MimeType: "image/png", Size: 100},
		{MimeType: "image/jpeg", Size: 200},
	}
	conv := conversation("c1", map[string]*archive.MessageNode{"u1": user}, "u1")

	// Keep token pricing out of the total so the image charge is exact.
	opts := Options{
		Prices:              pricing.DefaultTable(),
		AnalyzeContentTypes: []string{"code"},
	}
	entries := BuildEntries([]archive.Conversation{conv}, opts, nil)
	e := entries[0]
	if e.TotalCost != 0.04 {
		t.Errorf("TotalCost = %v, want 0.04", e.TotalCost)
	}
	if e.Messages[0].Cost != 0.04 {
		t.Errorf("message Cost = %v, want 0.04", e.Messages[0].Cost)
	}
}
