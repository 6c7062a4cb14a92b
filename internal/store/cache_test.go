package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleEntry(id string) model.ConversationEntry {
	return model.ConversationEntry{
		ID:                    id,
		Title:                 "Test " + id,
		CreateTime:            1700000000.5,
		IsArchived:            true,
		UserMessageCount:      2,
		AssistantMessageCount: 3,
		ToolMessageCount:      1,
		ToolsUsed:             []string{"browser", "python"},
		DominantModel:         "gpt-4o",
		InputTokens:           100,
		OutputTokens:          200,
		TotalCost:             0.0023,
		Messages: []model.MessageDetail{
			{
				ConversationID: id,
				MessageID:      "m1",
				Role:           model.RoleUser,
				ContentType:    "text",
				AdditionalInfo: model.AdditionalInfo{Text: "hello"},
			},
		},
	}
}

func TestSaveLoadEntries(t *testing.T) {
	c := openTestCache(t)

	entries := []model.ConversationEntry{sampleEntry("c1"), sampleEntry("c2")}
	if err := c.SaveEntries("/tmp/archive.json", entries, 42, 1000); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}

	got, err := c.LoadEntries("/tmp/archive.json")
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !reflect.DeepEqual(got[0], entries[0]) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got[0], entries[0])
	}
}

func TestLoadEntries_OrderPreserved(t *testing.T) {
	c := openTestCache(t)

	entries := []model.ConversationEntry{sampleEntry("zz"), sampleEntry("aa"), sampleEntry("mm")}
	if err := c.SaveEntries("/tmp/archive.json", entries, 1, 1); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}

	got, err := c.LoadEntries("/tmp/archive.json")
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	for i, want := range []string{"zz", "aa", "mm"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestSaveEntries_ReplacesArchive(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveEntries("/tmp/a.json", []model.ConversationEntry{sampleEntry("c1"), sampleEntry("c2")}, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveEntries("/tmp/a.json", []model.ConversationEntry{sampleEntry("c3")}, 2, 2); err != nil {
		t.Fatal(err)
	}

	got, err := c.LoadEntries("/tmp/a.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "c3" {
		t.Errorf("entries = %+v, want single c3", got)
	}
}

func TestIsFresh(t *testing.T) {
	c := openTestCache(t)

	fresh, err := c.IsFresh("/tmp/a.json", 42, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Error("untracked archive reported fresh")
	}

	if err := c.SaveEntries("/tmp/a.json", []model.ConversationEntry{sampleEntry("c1")}, 42, 1000); err != nil {
		t.Fatal(err)
	}

	fresh, err = c.IsFresh("/tmp/a.json", 42, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if !fresh {
		t.Error("matching mtime/size reported stale")
	}

	fresh, err = c.IsFresh("/tmp/a.json", 43, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Error("changed mtime reported fresh")
	}
}

func TestDeleteArchive(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveEntries("/tmp/a.json", []model.ConversationEntry{sampleEntry("c1")}, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteArchive("/tmp/a.json"); err != nil {
		t.Fatalf("DeleteArchive: %v", err)
	}

	got, err := c.LoadEntries("/tmp/a.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("entries after delete = %d, want 0", len(got))
	}
	fresh, err := c.IsFresh("/tmp/a.json", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Error("deleted archive reported fresh")
	}
}

func TestConversationCount(t *testing.T) {
	c := openTestCache(t)

	n, err := c.ConversationCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}

	if err := c.SaveEntries("/tmp/a.json", []model.ConversationEntry{sampleEntry("c1"), sampleEntry("c2")}, 1, 1); err != nil {
		t.Fatal(err)
	}
	n, err = c.ConversationCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
