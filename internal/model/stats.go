package model

// TokenPeriod holds input/output token totals for one period bucket.
type TokenPeriod struct {
	Period       string `json:"period"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

// CostPeriod holds cost totals for one period bucket.
type CostPeriod struct {
	Period     string  `json:"period"`
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// ModelCost holds the cost and token cross-tabulation for one model.
type ModelCost struct {
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
	TotalCost    float64 `json:"total_cost"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	TotalTokens  int64   `json:"total_tokens"`
}

// CostStats is the result of the cost-over-time computation.
// CostsOverTime is sorted chronologically by period key.
type CostStats struct {
	TotalCost     float64               `json:"total_cost"`
	CostsByModel  map[string]*ModelCost `json:"costs_by_model"`
	CostsByImage  map[string]float64    `json:"costs_by_image"`
	CostsOverTime []CostPeriod          `json:"costs_over_time"`
}

// MessagePeriod holds message counts for one period bucket.
type MessagePeriod struct {
	Period            string `json:"period"`
	UserMessages      int    `json:"user_messages"`
	AssistantMessages int    `json:"assistant_messages"`
	ToolMessages      int    `json:"tool_messages"`
	TotalMessages     int    `json:"total_messages"`
}

// TextStats holds corpus-wide text metrics.
type TextStats struct {
	TotalWords                  int64 `json:"total_words"`
	TotalSentences              int64 `json:"total_sentences"`
	TotalCharacters             int64 `json:"total_characters"`
	TotalTokens                 int64 `json:"total_tokens"`
	AverageWordsPerConversation int64 `json:"average_words_per_conversation"`
}

// GlobalStats holds corpus-wide usage and cost totals.
type GlobalStats struct {
	TotalConversations          int     `json:"total_conversations"`
	TotalWords                  int64   `json:"total_words"`
	TotalTokensIn               int64   `json:"total_tokens_in"`
	TotalTokensOut              int64   `json:"total_tokens_out"`
	AverageWordsPerConversation int64   `json:"average_words_per_conversation"`
	TotalCost                   float64 `json:"total_cost"`
}
