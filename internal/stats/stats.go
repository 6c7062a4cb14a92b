package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
	"github.com/IchaiWiz/chat-gpt-insight/internal/pricing"
	"github.com/IchaiWiz/chat-gpt-insight/internal/textstat"
)

// Statistic names accepted by Compute.
const (
	StatTokensOverTime   = "token_stats_over_time"
	StatCostsOverTime    = "cost_stats_over_time"
	StatMessagesOverTime = "message_stats_over_time"
	StatCostsCombined    = "cost_stats_combined_over_time"
	StatText             = "text_stats"
	StatGlobal           = "global_stats"
)

// Names lists every statistic Compute knows, in display order.
var Names = []string{
	StatTokensOverTime, StatCostsOverTime, StatMessagesOverTime,
	StatCostsCombined, StatText, StatGlobal,
}

// ErrPriceDataRequired is returned when a cost-bearing statistic is
// requested without a price table.
var ErrPriceDataRequired = errors.New("price data is required")

// Options carries the shared parameters for Compute.
type Options struct {
	Period Period
	Prices *pricing.Table

	// Inclusive bounds for the combined cost statistic. A zero time
	// leaves that side unbounded.
	StartDate time.Time
	EndDate   time.Time
}

// Compute runs one named statistic over the dataset. Cost-bearing
// statistics are rejected up front when no price table is present, so
// a bad configuration never fails halfway through a fold.
func Compute(name string, entries []model.ConversationEntry, opts Options) (any, error) {
	switch name {
	case StatTokensOverTime:
		return TokensOverTime(entries, opts.Period), nil
	case StatCostsOverTime:
		if opts.Prices == nil {
			return nil, fmt.Errorf("%s: %w", name, ErrPriceDataRequired)
		}
		return CostsOverTime(entries, opts.Prices, opts.Period), nil
	case StatMessagesOverTime:
		return MessagesOverTime(entries, opts.Period), nil
	case StatCostsCombined:
		if opts.Prices == nil {
			return nil, fmt.Errorf("%s: %w", name, ErrPriceDataRequired)
		}
		return CombinedCosts(entries, opts.Prices, opts.Period, opts.StartDate, opts.EndDate), nil
	case StatText:
		return Text(entries), nil
	case StatGlobal:
		if opts.Prices == nil {
			return nil, fmt.Errorf("%s: %w", name, ErrPriceDataRequired)
		}
		return Global(entries, opts.Prices), nil
	default:
		return nil, fmt.Errorf("unknown statistic %q", name)
	}
}

// TokensOverTime sums message token counts per period, split into
// input (user) and output (assistant and tool) tokens. Conversations
// without a creation timestamp are skipped entirely.
func TokensOverTime(entries []model.ConversationEntry, period Period) []model.TokenPeriod {
	buckets := make(map[string]*model.TokenPeriod)

	for _, conv := range entries {
		created, ok := conv.CreatedAt()
		if !ok {
			continue
		}
		key := period.Key(created)

		for _, msg := range conv.Messages {
			tokens := int64(msg.AdditionalInfo.TokenCount())
			switch msg.Role {
			case model.RoleUser:
				bucket(buckets, key).InputTokens += tokens
			case model.RoleAssistant, model.RoleTool:
				bucket(buckets, key).OutputTokens += tokens
			}
		}
	}

	return sortPeriods(buckets, period)
}

// CostsOverTime computes per-period input/output/total costs, plus
// cross-tabulations by model and by image recipient. Image costs join
// the period and model buckets under the same direction as the
// message's token cost.
func CostsOverTime(entries []model.ConversationEntry, prices *pricing.Table, period Period) model.CostStats {
	overTime := make(map[string]*model.CostPeriod)
	byModel := make(map[string]*model.ModelCost)
	byImage := make(map[string]float64)
	totalCost := 0.0

	for _, conv := range entries {
		created, ok := conv.CreatedAt()
		if !ok {
			continue
		}
		key := period.Key(created)

		for _, msg := range conv.Messages {
			tokens := int64(msg.AdditionalInfo.TokenCount())
			mc := modelBucket(byModel, msg.ModelSlug)
			p := costBucket(overTime, key)

			cost := 0.0
			switch msg.Role {
			case model.RoleUser:
				rate := prices.PerToken(msg.ModelSlug, msg.ContentType, pricing.Input)
				cost = float64(tokens) / 1_000_000 * rate
				p.InputCost += cost
				mc.InputCost += cost
				mc.InputTokens += tokens
			case model.RoleAssistant, model.RoleTool:
				rate := prices.PerToken(msg.ModelSlug, msg.ContentType, pricing.Output)
				cost = float64(tokens) / 1_000_000 * rate
				p.OutputCost += cost
				mc.OutputCost += cost
				mc.OutputTokens += tokens
			}

			mc.TotalTokens += tokens
			p.TotalCost += cost
			mc.TotalCost += cost
			totalCost += cost

			if n := len(msg.AdditionalInfo.Images); n > 0 {
				imageCost := float64(n) * prices.ImageRate(pricing.ImageRecipient)
				byImage[pricing.ImageRecipient] += imageCost
				if msg.Role == model.RoleUser {
					p.InputCost += imageCost
					mc.InputCost += imageCost
				} else {
					p.OutputCost += imageCost
					mc.OutputCost += imageCost
				}
				p.TotalCost += imageCost
				mc.TotalCost += imageCost
				totalCost += imageCost
			}
		}
	}

	return model.CostStats{
		TotalCost:     model.RoundCost(totalCost, 4),
		CostsByModel:  byModel,
		CostsByImage:  byImage,
		CostsOverTime: sortCostPeriods(overTime, period),
	}
}

// MessagesOverTime counts user/assistant/tool messages per period.
func MessagesOverTime(entries []model.ConversationEntry, period Period) []model.MessagePeriod {
	buckets := make(map[string]*model.MessagePeriod)

	for _, conv := range entries {
		created, ok := conv.CreatedAt()
		if !ok {
			continue
		}
		key := period.Key(created)

		for _, msg := range conv.Messages {
			mp, ok := buckets[key]
			if !ok {
				mp = &model.MessagePeriod{Period: key}
				buckets[key] = mp
			}
			switch msg.Role {
			case model.RoleUser:
				mp.UserMessages++
			case model.RoleAssistant:
				mp.AssistantMessages++
			case model.RoleTool:
				mp.ToolMessages++
			}
			mp.TotalMessages++
		}
	}

	out := make([]model.MessagePeriod, 0, len(buckets))
	for _, mp := range buckets {
		out = append(out, *mp)
	}
	sortByPeriod(out, period, func(mp model.MessagePeriod) string { return mp.Period })
	return out
}

// CombinedCosts filters the dataset to conversations created within
// the inclusive [start, end] window, then computes cost statistics
// over what remains. Either bound may be zero, leaving that side open.
func CombinedCosts(entries []model.ConversationEntry, prices *pricing.Table, period Period, start, end time.Time) model.CostStats {
	var filtered []model.ConversationEntry
	for _, conv := range entries {
		created, ok := conv.CreatedAt()
		if !ok {
			continue
		}
		if !start.IsZero() && created.Before(start) {
			continue
		}
		if !end.IsZero() && created.After(end) {
			continue
		}
		filtered = append(filtered, conv)
	}
	return CostsOverTime(filtered, prices, period)
}

// Text computes corpus-wide word/sentence/character/token totals over
// every message carrying text, plus the average word count per
// conversation rounded to the nearest integer.
func Text(entries []model.ConversationEntry) model.TextStats {
	var out model.TextStats
	var wordSum int64

	for _, conv := range entries {
		var convWords int64
		for _, msg := range conv.Messages {
			content := msg.AdditionalInfo.Text
			if content == "" {
				continue
			}
			wc := int64(textstat.CountWords(content))
			out.TotalWords += wc
			convWords += wc
			out.TotalSentences += int64(textstat.CountSentences(content))
			out.TotalCharacters += int64(len([]rune(content)))
			out.TotalTokens += int64(msg.AdditionalInfo.TokenCount())
		}
		wordSum += convWords
	}

	if n := len(entries); n > 0 {
		out.AverageWordsPerConversation = int64(math.Round(float64(wordSum) / float64(n)))
	}
	return out
}

// Global computes corpus-wide conversation, word, token, and cost
// totals. Unlike TokensOverTime, every non-user role counts toward
// output tokens here.
func Global(entries []model.ConversationEntry, prices *pricing.Table) model.GlobalStats {
	out := model.GlobalStats{TotalConversations: len(entries)}
	var wordSum int64
	totalCost := 0.0

	for _, conv := range entries {
		for _, msg := range conv.Messages {
			wc := int64(textstat.CountWords(msg.AdditionalInfo.Text))
			out.TotalWords += wc
			wordSum += wc

			tokens := int64(msg.AdditionalInfo.TokenCount())
			if msg.Role == model.RoleUser {
				out.TotalTokensIn += tokens
			} else {
				out.TotalTokensOut += tokens
			}

			rate := 0.0
			switch msg.Role {
			case model.RoleUser:
				rate = prices.PerToken(msg.ModelSlug, msg.ContentType, pricing.Input)
			case model.RoleAssistant, model.RoleTool:
				rate = prices.PerToken(msg.ModelSlug, msg.ContentType, pricing.Output)
			}
			cost := float64(tokens) / 1_000_000 * rate

			if n := len(msg.AdditionalInfo.Images); n > 0 {
				cost += float64(n) * prices.ImageRate(pricing.ImageRecipient)
			}
			totalCost += cost
		}
	}

	if out.TotalConversations > 0 {
		out.AverageWordsPerConversation = int64(math.Round(float64(wordSum) / float64(out.TotalConversations)))
	}
	out.TotalCost = model.RoundCost(totalCost, 4)
	return out
}

func bucket(m map[string]*model.TokenPeriod, key string) *model.TokenPeriod {
	tp, ok := m[key]
	if !ok {
		tp = &model.TokenPeriod{Period: key}
		m[key] = tp
	}
	return tp
}

func costBucket(m map[string]*model.CostPeriod, key string) *model.CostPeriod {
	cp, ok := m[key]
	if !ok {
		cp = &model.CostPeriod{Period: key}
		m[key] = cp
	}
	return cp
}

func modelBucket(m map[string]*model.ModelCost, slug string) *model.ModelCost {
	mc, ok := m[slug]
	if !ok {
		mc = &model.ModelCost{}
		m[slug] = mc
	}
	return mc
}

func sortPeriods(m map[string]*model.TokenPeriod, period Period) []model.TokenPeriod {
	out := make([]model.TokenPeriod, 0, len(m))
	for _, tp := range m {
		out = append(out, *tp)
	}
	sortByPeriod(out, period, func(tp model.TokenPeriod) string { return tp.Period })
	return out
}

func sortCostPeriods(m map[string]*model.CostPeriod, period Period) []model.CostPeriod {
	out := make([]model.CostPeriod, 0, len(m))
	for _, cp := range m {
		out = append(out, *cp)
	}
	sortByPeriod(out, period, func(cp model.CostPeriod) string { return cp.Period })
	return out
}

// sortByPeriod orders buckets chronologically under the granularity
// that produced their keys, falling back to the raw key string so
// unparseable keys still sort deterministically.
func sortByPeriod[T any](items []T, period Period, key func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := period.ParseKey(key(items[i])), period.ParseKey(key(items[j]))
		if ti.Equal(tj) {
			return key(items[i]) < key(items[j])
		}
		return ti.Before(tj)
	})
}
