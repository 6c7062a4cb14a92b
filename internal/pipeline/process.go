// Package pipeline turns raw archive conversations into the flattened
// dataset the statistics and rendering layers consume.
package pipeline

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/IchaiWiz/chat-gpt-insight/internal/archive"
	"github.com/IchaiWiz/chat-gpt-insight/internal/extract"
	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
	"github.com/IchaiWiz/chat-gpt-insight/internal/pricing"
	"github.com/IchaiWiz/chat-gpt-insight/internal/textstat"
)

// DefaultAnalyzeContentTypes lists the content types whose text gets
// the full word/sentence/token analysis.
var DefaultAnalyzeContentTypes = []string{"text", "code", "multimodal_text"}

// Options controls how conversations are flattened.
type Options struct {
	// Prices is required; every message gets a cost.
	Prices *pricing.Table

	// ShowMessageText keeps message text and transcriptions in the
	// flattened output.
	ShowMessageText bool

	// AnalyzeContentTypes overrides DefaultAnalyzeContentTypes when
	// non-empty.
	AnalyzeContentTypes []string
}

// ProgressFunc is called as conversations finish processing.
// current is the number processed so far, total the overall count.
type ProgressFunc func(current, total int)

// BuildEntries flattens every conversation into a ConversationEntry,
// preserving archive order in the result. Conversations are
// independent, so they are processed by a bounded worker pool.
func BuildEntries(convs []archive.Conversation, opts Options, progressFn ProgressFunc) []model.ConversationEntry {
	if len(convs) == 0 {
		return nil
	}
	if opts.Prices == nil {
		opts.Prices = pricing.DefaultTable()
	}

	analyze := make(map[string]bool)
	types := opts.AnalyzeContentTypes
	if len(types) == 0 {
		types = DefaultAnalyzeContentTypes
	}
	for _, ct := range types {
		analyze[ct] = true
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(convs) {
		numWorkers = len(convs)
	}

	work := make(chan int, len(convs))
	entries := make([]model.ConversationEntry, len(convs))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range convs {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				entries[idx] = buildEntry(convs[idx], opts, analyze)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(convs))
				}
			}
		}()
	}

	wg.Wait()
	return entries
}

// buildEntry resolves every valid message of one conversation, runs
// text analysis where applicable, prices each message, and picks the
// dominant model by analyzed token share.
func buildEntry(conv archive.Conversation, opts Options, analyze map[string]bool) model.ConversationEntry {
	sum := extract.Summarize(conv)

	entry := model.ConversationEntry{
		ID:                    conv.Key(),
		Title:                 conv.Title,
		CreateTime:            sum.CreateTime,
		IsArchived:            sum.IsArchived,
		UserMessageCount:      sum.UserMessageCount,
		AssistantMessageCount: sum.AssistantMessageCount,
		ToolMessageCount:      sum.ToolMessageCount,
		ToolsUsed:             sum.ToolsUsed,
		Messages:              make([]model.MessageDetail, 0, len(sum.MessageIDs)),
	}

	modelTokens := make(map[string]int)
	var modelOrder []string
	resolveOpts := extract.Options{ShowMessageText: opts.ShowMessageText}

	for _, id := range sum.MessageIDs {
		node := conv.Mapping.Nodes[id]
		d := extract.Resolve(conv.Key(), id, node, conv.Mapping, resolveOpts)

		if analyze[d.ContentType] && d.AdditionalInfo.Text != "" {
			analysis := textstat.Analyze(d.AdditionalInfo.Text, d.ModelSlug)
			d.AdditionalInfo.Analysis = &analysis

			if _, seen := modelTokens[d.ModelSlug]; !seen {
				modelOrder = append(modelOrder, d.ModelSlug)
			}
			modelTokens[d.ModelSlug] += analysis.TokenCount

			if d.Role == model.RoleUser {
				entry.InputTokens += int64(analysis.TokenCount)
			} else {
				entry.OutputTokens += int64(analysis.TokenCount)
			}
		}

		d.Cost = opts.Prices.MessageCost(d)
		entry.TotalCost += d.Cost
		entry.Messages = append(entry.Messages, d)
	}

	// Highest analyzed token count wins; first model seen wins ties.
	best := -1
	for _, slug := range modelOrder {
		if modelTokens[slug] > best {
			best = modelTokens[slug]
			entry.DominantModel = slug
		}
	}

	entry.TotalCost = model.RoundCost(entry.TotalCost, 6)
	return entry
}
