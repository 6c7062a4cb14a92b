package stats

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
	"github.com/IchaiWiz/chat-gpt-insight/internal/pricing"
)

func epoch(y int, m time.Month, d int) float64 {
	return float64(time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Unix())
}

func analyzedMsg(role model.Role, slug string, tokens int) model.MessageDetail {
	return model.MessageDetail{
		Role:        role,
		ModelSlug:   slug,
		ContentType: "text",
		AdditionalInfo: model.AdditionalInfo{
			Analysis: &model.TextAnalysis{TokenCount: tokens},
		},
	}
}

// One conversation in March 2024: a 100-token user message and a
// 200-token assistant reply, both priced against gpt-4o.
func sampleEntries() []model.ConversationEntry {
	return []model.ConversationEntry{
		{
			ID:         "c1",
			CreateTime: epoch(2024, time.March, 15),
			Messages: []model.MessageDetail{
				analyzedMsg(model.RoleUser, "gpt-4o", 100),
				analyzedMsg(model.RoleAssistant, "gpt-4o", 200),
			},
		},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestTokensOverTime(t *testing.T) {
	got := TokensOverTime(sampleEntries(), PeriodMonthly)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	tp := got[0]
	if tp.Period != "2024-03" {
		t.Errorf("Period = %q, want 2024-03", tp.Period)
	}
	if tp.InputTokens != 100 || tp.OutputTokens != 200 {
		t.Errorf("tokens = %d/%d, want 100/200", tp.InputTokens, tp.OutputTokens)
	}
}

func TestTokensOverTime_SkipsUntimestamped(t *testing.T) {
	entries := []model.ConversationEntry{
		{ID: "c1", Messages: []model.MessageDetail{analyzedMsg(model.RoleUser, "gpt-4o", 50)}},
	}
	if got := TokensOverTime(entries, PeriodMonthly); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestTokensOverTime_SortedChronologically(t *testing.T) {
	entries := []model.ConversationEntry{
		{ID: "c2", CreateTime: epoch(2024, time.May, 1),
			Messages: []model.MessageDetail{analyzedMsg(model.RoleUser, "gpt-4o", 1)}},
		{ID: "c1", CreateTime: epoch(2023, time.December, 1),
			Messages: []model.MessageDetail{analyzedMsg(model.RoleUser, "gpt-4o", 1)}},
		{ID: "c3", CreateTime: epoch(2024, time.January, 1),
			Messages: []model.MessageDetail{analyzedMsg(model.RoleUser, "gpt-4o", 1)}},
	}
	got := TokensOverTime(entries, PeriodMonthly)
	want := []string{"2023-12", "2024-01", "2024-05"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Period != w {
			t.Errorf("got[%d].Period = %q, want %q", i, got[i].Period, w)
		}
	}
}

func TestCostsOverTime(t *testing.T) {
	got := CostsOverTime(sampleEntries(), pricing.DefaultTable(), PeriodMonthly)

	// 100 input tokens at 2.50/M plus 200 output tokens at 10.00/M,
	// rounded to four places.
	if got.TotalCost != 0.0023 {
		t.Errorf("TotalCost = %v, want 0.0023", got.TotalCost)
	}
	if len(got.CostsOverTime) != 1 {
		t.Fatalf("len(CostsOverTime) = %d, want 1", len(got.CostsOverTime))
	}
	p := got.CostsOverTime[0]
	if p.Period != "2024-03" {
		t.Errorf("Period = %q, want 2024-03", p.Period)
	}
	if !almostEqual(p.InputCost, 0.00025) {
		t.Errorf("InputCost = %v, want 0.00025", p.InputCost)
	}
	if !almostEqual(p.OutputCost, 0.002) {
		t.Errorf("OutputCost = %v, want 0.002", p.OutputCost)
	}

	mc := got.CostsByModel["gpt-4o"]
	if mc == nil {
		t.Fatal("no gpt-4o model bucket")
	}
	if mc.InputTokens != 100 || mc.OutputTokens != 200 || mc.TotalTokens != 300 {
		t.Errorf("model tokens = %d/%d/%d, want 100/200/300", mc.InputTokens, mc.OutputTokens, mc.TotalTokens)
	}
}

func TestCostsOverTime_OtherRolesTokensOnly(t *testing.T) {
	entries := []model.ConversationEntry{
		{
			ID:         "c1",
			CreateTime: epoch(2024, time.March, 1),
			Messages: []model.MessageDetail{
				analyzedMsg(model.RoleSystem, "gpt-4o", 500),
			},
		},
	}
	got := CostsOverTime(entries, pricing.DefaultTable(), PeriodMonthly)
	if got.TotalCost != 0 {
		t.Errorf("TotalCost = %v, want 0", got.TotalCost)
	}
	mc := got.CostsByModel["gpt-4o"]
	if mc == nil || mc.TotalTokens != 500 {
		t.Errorf("model bucket = %+v, want 500 total tokens", mc)
	}
}

func TestCostsOverTime_Images(t *testing.T) {
	entries := []model.ConversationEntry{
		{
			ID:         "c1",
			CreateTime: epoch(2024, time.March, 1),
			Messages: []model.MessageDetail{
				{
					Role:           model.RoleUser,
					ModelSlug:      "gpt-4o",
					ContainsImages: true,
					AdditionalInfo: model.AdditionalInfo{
						Images: []model.ImageInfo{{SizeBytes: 1}, {SizeBytes: 2}},
					},
				},
			},
		},
	}
	got := CostsOverTime(entries, pricing.DefaultTable(), PeriodMonthly)
	if got.TotalCost != 0.04 {
		t.Errorf("TotalCost = %v, want 0.04", got.TotalCost)
	}
	if !almostEqual(got.CostsByImage[pricing.ImageRecipient], 0.04) {
		t.Errorf("CostsByImage = %v, want 0.04", got.CostsByImage[pricing.ImageRecipient])
	}
	// User-attached images bill as input.
	if !almostEqual(got.CostsOverTime[0].InputCost, 0.04) {
		t.Errorf("InputCost = %v, want 0.04", got.CostsOverTime[0].InputCost)
	}
}

func TestMessagesOverTime(t *testing.T) {
	entries := []model.ConversationEntry{
		{
			ID:         "c1",
			CreateTime: epoch(2024, time.March, 15),
			Messages: []model.MessageDetail{
				{Role: model.RoleUser},
				{Role: model.RoleAssistant},
				{Role: model.RoleTool},
				{Role: model.RoleSystem},
			},
		},
	}
	got := MessagesOverTime(entries, PeriodMonthly)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	mp := got[0]
	if mp.UserMessages != 1 || mp.AssistantMessages != 1 || mp.ToolMessages != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", mp.UserMessages, mp.AssistantMessages, mp.ToolMessages)
	}
	// System messages still count toward the total.
	if mp.TotalMessages != 4 {
		t.Errorf("TotalMessages = %d, want 4", mp.TotalMessages)
	}
}

func TestCombinedCosts_DateFilter(t *testing.T) {
	entries := []model.ConversationEntry{
		{ID: "early", CreateTime: epoch(2024, time.January, 10),
			Messages: []model.MessageDetail{analyzedMsg(model.RoleAssistant, "gpt-4o", 100)}},
		{ID: "mid", CreateTime: epoch(2024, time.March, 10),
			Messages: []model.MessageDetail{analyzedMsg(model.RoleAssistant, "gpt-4o", 100)}},
		{ID: "late", CreateTime: epoch(2024, time.June, 10),
			Messages: []model.MessageDetail{analyzedMsg(model.RoleAssistant, "gpt-4o", 100)}},
	}
	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)

	got := CombinedCosts(entries, pricing.DefaultTable(), PeriodMonthly, start, end)
	if len(got.CostsOverTime) != 1 || got.CostsOverTime[0].Period != "2024-03" {
		t.Fatalf("CostsOverTime = %+v, want only 2024-03", got.CostsOverTime)
	}
	if got.TotalCost != 0.001 {
		t.Errorf("TotalCost = %v, want 0.001", got.TotalCost)
	}

	// Open bounds keep everything.
	got = CombinedCosts(entries, pricing.DefaultTable(), PeriodMonthly, time.Time{}, time.Time{})
	if len(got.CostsOverTime) != 3 {
		t.Errorf("unbounded: len = %d, want 3", len(got.CostsOverTime))
	}
}

func TestText(t *testing.T) {
	entries := []model.ConversationEntry{
		{
			ID: "c1",
			Messages: []model.MessageDetail{
				{AdditionalInfo: model.AdditionalInfo{
					Text:     "Hello world. How are you?",
					Analysis: &model.TextAnalysis{TokenCount: 7},
				}},
				{AdditionalInfo: model.AdditionalInfo{}}, // no text, skipped
			},
		},
		{ID: "c2"},
	}
	got := Text(entries)
	if got.TotalWords != 5 {
		t.Errorf("TotalWords = %d, want 5", got.TotalWords)
	}
	if got.TotalSentences != 2 {
		t.Errorf("TotalSentences = %d, want 2", got.TotalSentences)
	}
	if got.TotalCharacters != 25 {
		t.Errorf("TotalCharacters = %d, want 25", got.TotalCharacters)
	}
	if got.TotalTokens != 7 {
		t.Errorf("TotalTokens = %d, want 7", got.TotalTokens)
	}
	// 5 words over 2 conversations rounds to 3.
	if got.AverageWordsPerConversation != 3 {
		t.Errorf("AverageWordsPerConversation = %d, want 3", got.AverageWordsPerConversation)
	}
}

func TestText_Empty(t *testing.T) {
	got := Text(nil)
	if got.AverageWordsPerConversation != 0 || got.TotalWords != 0 {
		t.Errorf("empty dataset: %+v", got)
	}
}

func TestGlobal(t *testing.T) {
	system := analyzedMsg(model.RoleSystem, "gpt-4o", 50)
	entries := sampleEntries()
	entries[0].Messages = append(entries[0].Messages, system)

	got := Global(entries, pricing.DefaultTable())
	if got.TotalConversations != 1 {
		t.Errorf("TotalConversations = %d, want 1", got.TotalConversations)
	}
	if got.TotalTokensIn != 100 {
		t.Errorf("TotalTokensIn = %d, want 100", got.TotalTokensIn)
	}
	// System tokens count as output here even though they carry no cost.
	if got.TotalTokensOut != 250 {
		t.Errorf("TotalTokensOut = %d, want 250", got.TotalTokensOut)
	}
	if got.TotalCost != 0.0023 {
		t.Errorf("TotalCost = %v, want 0.0023", got.TotalCost)
	}
}

func TestCompute(t *testing.T) {
	entries := sampleEntries()

	for _, name := range Names {
		_, err := Compute(name, entries, Options{Period: PeriodMonthly, Prices: pricing.DefaultTable()})
		if err != nil {
			t.Errorf("Compute(%s): %v", name, err)
		}
	}

	if _, err := Compute("bogus", entries, Options{Period: PeriodMonthly}); err == nil {
		t.Error("unknown statistic returned nil error")
	}
}

func TestCompute_PriceDataRequired(t *testing.T) {
	entries := sampleEntries()
	for _, name := range []string{StatCostsOverTime, StatCostsCombined, StatGlobal} {
		_, err := Compute(name, entries, Options{Period: PeriodMonthly})
		if !errors.Is(err, ErrPriceDataRequired) {
			t.Errorf("Compute(%s) error = %v, want ErrPriceDataRequired", name, err)
		}
	}
	// Token and message statistics never need prices.
	if _, err := Compute(StatTokensOverTime, entries, Options{Period: PeriodMonthly}); err != nil {
		t.Errorf("Compute(tokens): %v", err)
	}
}
