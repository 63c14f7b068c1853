package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lexivec/lexivec/internal/domain"
	"github.com/lexivec/lexivec/internal/metrics"
)

const rerankSystemPrompt = `You are a search result re-ranker. Given a query and candidate documents,
reorder the documents by semantic relevance to the query. Respond with JSON only:
{"ranking":[{"id":"<doc id>","score":<0..1>,"caption":"<short extract, optional>"}],
"answers":["<direct answer passage, optional>"]}
Include every document exactly once. Captions quote the most relevant sentence of the
document. Answers are only present when a document directly answers the query.`

// Reranker is the semantic re-ranking pass delegated to the chat
// completions API. Re-ranking is best-effort: an unparseable model reply
// degrades to the original order without captions rather than failing
// the query.
type Reranker struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// RerankerConfig holds the reranker settings.
type RerankerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewReranker creates a chat-based semantic reranker.
func NewReranker(cfg *RerankerConfig) *Reranker {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reranker{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

type rerankReply struct {
	Ranking []struct {
		ID      string  `json:"id"`
		Score   float64 `json:"score"`
		Caption string  `json:"caption"`
	} `json:"ranking"`
	Answers []string `json:"answers"`
}

// Rerank implements domain.Reranker.
func (r *Reranker) Rerank(
	ctx context.Context, query string,
	candidates []domain.RerankCandidate, opts domain.RerankOptions,
) (domain.RerankResult, error) {
	if len(candidates) == 0 {
		return domain.RerankResult{}, nil
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rerankSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildRerankPrompt(query, candidates, opts)},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		metrics.RerankRequestsTotal.WithLabelValues(r.model, "error").Inc()
		return domain.RerankResult{}, parseRerankError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		metrics.RerankRequestsTotal.WithLabelValues(r.model, "error").Inc()
		return domain.RerankResult{}, fmt.Errorf("empty rerank response: %w", domain.ErrProviderUnavailable)
	}

	metrics.RerankRequestsTotal.WithLabelValues(r.model, "success").Inc()

	result, ok := r.parseReply(resp.Choices[0].Message.Content, candidates, opts)
	if !ok {
		// Degrade to original order; caption/answer extraction is best-effort.
		r.logger.Warn("Unparseable rerank reply, keeping backend order",
			zap.String("model", r.model))
		return passthrough(candidates), nil
	}
	return result, nil
}

func buildRerankPrompt(query string, candidates []domain.RerankCandidate, opts domain.RerankOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nDocuments:\n", query)
	for _, c := range candidates {
		fmt.Fprintf(&b, "[%s] %s\n", c.ID, c.Content)
	}
	if !opts.Captions {
		b.WriteString("\nOmit captions.")
	}
	if opts.Answers {
		fmt.Fprintf(&b, "\nExtract at most %d answer passage(s).", opts.MaxAnswers)
	} else {
		b.WriteString("\nOmit answers.")
	}
	return b.String()
}

// parseReply validates the model reply against the candidate set: every
// returned ID must belong to a candidate, duplicates are dropped, and
// candidates the model skipped are appended in their original order.
func (r *Reranker) parseReply(
	content string, candidates []domain.RerankCandidate, opts domain.RerankOptions,
) (domain.RerankResult, bool) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var reply rerankReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil || len(reply.Ranking) == 0 {
		return domain.RerankResult{}, false
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}

	seen := make(map[string]bool, len(reply.Ranking))
	items := make([]domain.RerankedItem, 0, len(candidates))
	for _, it := range reply.Ranking {
		if !known[it.ID] || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		caption := it.Caption
		if !opts.Captions {
			caption = ""
		}
		items = append(items, domain.RerankedItem{ID: it.ID, Score: it.Score, Caption: caption})
	}
	for _, c := range candidates {
		if !seen[c.ID] {
			items = append(items, domain.RerankedItem{ID: c.ID})
		}
	}

	answers := reply.Answers
	if !opts.Answers {
		answers = nil
	} else if len(answers) > opts.MaxAnswers {
		answers = answers[:opts.MaxAnswers]
	}

	return domain.RerankResult{Items: items, Answers: answers}, true
}

func passthrough(candidates []domain.RerankCandidate) domain.RerankResult {
	items := make([]domain.RerankedItem, len(candidates))
	for i, c := range candidates {
		items[i] = domain.RerankedItem{ID: c.ID}
	}
	return domain.RerankResult{Items: items}
}

func parseRerankError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		wrap := domain.ErrProviderUnavailable
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			wrap = domain.ErrRateLimited
		}
		return fmt.Errorf("rerank API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}
	return fmt.Errorf("rerank request failed: %w: %w", domain.ErrProviderUnavailable, err)
}
