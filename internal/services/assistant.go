package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"erp-service/internal/clients"
	"erp-service/internal/metrics"
	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	contextWindow       = 10
	analysisLimit       = 10
	inputPricePerToken  = 0.14 / 1_000_000
	outputPricePerToken = 0.28 / 1_000_000
	sessionTitleRunes   = 30
)

const defaultSystemPrompt = `You are the assistant of an ERP system for small and medium businesses.
You help users to:
1. answer questions about using the system
2. analyse business data and point out insights
3. suggest reports and visualisations
4. improve inventory and sales strategy

Answer professionally and concisely, using Markdown when it helps.`

const consultantPrompt = "You are an experienced supply chain consultant."

const helpReply = `The AI service is not available right now, so this is a local answer.

I can still help with:
- inventory analysis (ask about stock, inventory or replenishment)
- explaining sales, purchase and stocktake workflows
- pointing you to reports such as sales summaries and receivable aging

Configure an AI API key to get full conversational answers.`

var inventoryKeywords = []string{"stock", "inventory", "库存", "补货", "warehouse", "缺货", "盘点"}

// ChatCompleter sends a conversation to a chat backend
type ChatCompleter interface {
	Configured() bool
	Complete(ctx context.Context, messages []models.Message) (*clients.Completion, error)
}

// AssistantService answers chat messages through the AI backend or a local fallback
type AssistantService struct {
	repo     repository.AssistantRepositoryInterface
	catalog  repository.CatalogRepositoryInterface
	client   ChatCompleter
	fallback bool
	logger   *logrus.Entry
}

func NewAssistantService(repo repository.AssistantRepositoryInterface, catalog repository.CatalogRepositoryInterface, client ChatCompleter, fallback bool, logger *logrus.Logger) *AssistantService {
	return &AssistantService{
		repo:     repo,
		catalog:  catalog,
		client:   client,
		fallback: fallback,
		logger:   logger.WithField("component", "assistant"),
	}
}

func isCJK(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

// CountTokens estimates tokens: 1.5 per CJK character, 0.75 per English word and 0.5 per punctuation mark
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	var cjk, words, punct int
	inWord := false
	for _, r := range text {
		isASCIILetter := r < unicode.MaxASCII && unicode.IsLetter(r)
		if isASCIILetter && !inWord {
			words++
		}
		inWord = isASCIILetter

		switch {
		case isCJK(r):
			cjk++
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '_':
			punct++
		}
	}
	tokens := int(math.Ceil(float64(cjk)*1.5 + float64(words)*0.75 + float64(punct)*0.5))
	return max(tokens, 1)
}

func roundCost(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func tokenCost(promptTokens, completionTokens int) float64 {
	return roundCost(float64(promptTokens)*inputPricePerToken + float64(completionTokens)*outputPricePerToken)
}

// EstimateCost bills user and system messages as input and everything else as output
func EstimateCost(messages []models.Message) models.CostEstimate {
	var estimate models.CostEstimate
	for _, msg := range messages {
		tokens := CountTokens(msg.Content)
		if msg.Role == models.RoleUser || msg.Role == models.RoleSystem {
			estimate.InputTokens += tokens
		} else {
			estimate.OutputTokens += tokens
		}
	}
	estimate.TotalTokens = estimate.InputTokens + estimate.OutputTokens
	estimate.EstimatedCost = tokenCost(estimate.InputTokens, estimate.OutputTokens)
	return estimate
}

// classifyAIError maps transport and API failures to user facing errors
func classifyAIError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrAITimeout
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			return ErrAIUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrAIFailed, apiErr.Message)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrAIUnavailable
	}
	return ErrAIFailed
}

func mentionsInventory(message string, history []models.Message) bool {
	var b strings.Builder
	b.WriteString(strings.ToLower(message))
	for _, m := range history {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(m.Content))
	}
	text := b.String()
	for _, keyword := range inventoryKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func sessionTitle(message string) string {
	runes := []rune(strings.TrimSpace(message))
	if len(runes) > sessionTitleRunes {
		return string(runes[:sessionTitleRunes]) + "..."
	}
	return string(runes)
}

// Chat answers one message. The conversation context is trimmed to the most recent turns.
func (s *AssistantService) Chat(ctx context.Context, tenantID, userID string, req models.ChatRequest) (*models.ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	configured := s.client != nil && s.client.Configured()
	if !configured && !s.fallback {
		return nil, ErrAINotConfigured
	}

	session, err := s.resolveSession(ctx, tenantID, userID, req.SessionID, message)
	if err != nil {
		return nil, err
	}

	history := req.Context
	if len(history) > contextWindow {
		history = history[len(history)-contextWindow:]
	}
	messages := make([]models.Message, 0, len(history)+2)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: defaultSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, models.Message{Role: models.RoleUser, Content: message})

	reply := &models.ChatReply{SessionID: session.ID}
	useFallback := !configured
	var completion *clients.Completion
	if configured {
		completion, err = s.client.Complete(ctx, messages)
		if err != nil {
			metrics.RecordAIRequest("error", 0, 0)
			friendly := classifyAIError(err)
			s.logger.WithError(err).WithField("tenantId", tenantID).Warn("Chat completion failed")
			if !s.fallback {
				return nil, friendly
			}
			useFallback = true
		}
	}

	if useFallback {
		content, err := s.fallbackReply(ctx, tenantID, message, history)
		if err != nil {
			return nil, err
		}
		reply.Content = content
		reply.Fallback = true
		reply.PromptTokens = EstimateCost(messages).InputTokens
		reply.CompletionTokens = CountTokens(content)
		metrics.RecordAIRequest("fallback", reply.PromptTokens, reply.CompletionTokens)
	} else {
		reply.Content = completion.Content
		reply.PromptTokens = completion.PromptTokens
		reply.CompletionTokens = completion.CompletionTokens
		metrics.RecordAIRequest("success", reply.PromptTokens, reply.CompletionTokens)
	}
	reply.Cost = tokenCost(reply.PromptTokens, reply.CompletionTokens)

	rows := []models.ChatMessage{
		{
			ID:           uuid.New(),
			TenantID:     tenantID,
			SessionID:    session.ID,
			Role:         models.RoleUser,
			Content:      message,
			PromptTokens: reply.PromptTokens,
		},
		{
			ID:               uuid.New(),
			TenantID:         tenantID,
			SessionID:        session.ID,
			Role:             models.RoleAssistant,
			Content:          reply.Content,
			CompletionTokens: reply.CompletionTokens,
			Cost:             reply.Cost,
			Fallback:         reply.Fallback,
		},
	}
	if err := s.repo.CreateMessages(ctx, rows); err != nil {
		return nil, err
	}
	if err := s.repo.TouchSession(ctx, session); err != nil {
		s.logger.WithError(err).WithField("sessionId", session.ID).Warn("Failed to touch chat session")
	}
	return reply, nil
}

func (s *AssistantService) resolveSession(ctx context.Context, tenantID, userID string, id *uuid.UUID, message string) (*models.ChatSession, error) {
	if id != nil {
		return s.repo.GetSession(ctx, tenantID, userID, *id)
	}
	session := &models.ChatSession{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   userID,
		Title:    sessionTitle(message),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AssistantService) fallbackReply(ctx context.Context, tenantID, message string, history []models.Message) (string, error) {
	if mentionsInventory(message, history) {
		return s.inventoryDigest(ctx, tenantID, analysisLimit)
	}
	return helpReply, nil
}

// inventoryDigest lists the lowest and highest stocked products
func (s *AssistantService) inventoryDigest(ctx context.Context, tenantID string, limit int) (string, error) {
	products, err := s.catalog.AllProducts(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = analysisLimit
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].TotalStock() < products[j].TotalStock()
	})
	n := min(limit, len(products))

	var b strings.Builder
	fmt.Fprintf(&b, "Inventory analysis (%d products)\n\n", len(products))
	b.WriteString("Lowest stock:\n")
	for _, p := range products[:n] {
		writeStockLine(&b, &p)
	}
	b.WriteString("\nHighest stock:\n")
	for i := len(products) - 1; i >= len(products)-n; i-- {
		writeStockLine(&b, &products[i])
	}
	return b.String(), nil
}

func writeStockLine(b *strings.Builder, p *models.Product) {
	total := p.TotalStock()
	marker := ""
	if total < p.EffectiveMinStock() {
		marker = " (below minimum)"
	}
	fmt.Fprintf(b, "- %s %s: %d %s%s\n", p.SKU, p.Name, total, p.Unit, marker)
}

// AnalyzeInventory summarises stock levels and asks the AI backend for recommendations when it is configured
func (s *AssistantService) AnalyzeInventory(ctx context.Context, tenantID string, limit int) (string, error) {
	digest, err := s.inventoryDigest(ctx, tenantID, limit)
	if err != nil {
		return "", err
	}
	if s.client == nil || !s.client.Configured() {
		return digest, nil
	}

	prompt := digest + "\nPlease provide:\n1. risk assessment\n2. replenishment advice\n3. promotion ideas for overstock\n4. an inventory optimisation strategy"
	completion, err := s.client.Complete(ctx, []models.Message{
		{Role: models.RoleSystem, Content: consultantPrompt},
		{Role: models.RoleUser, Content: prompt},
	})
	if err != nil {
		metrics.RecordAIRequest("error", 0, 0)
		s.logger.WithError(err).WithField("tenantId", tenantID).Warn("Inventory analysis fell back to the local digest")
		return digest, nil
	}
	metrics.RecordAIRequest("success", completion.PromptTokens, completion.CompletionTokens)
	return completion.Content, nil
}

func (s *AssistantService) Sessions(ctx context.Context, tenantID, userID string, params models.ListParams) ([]models.ChatSession, int64, error) {
	return s.repo.ListSessions(ctx, tenantID, userID, params)
}

// Messages returns a session's history. Sessions of other users are not found.
func (s *AssistantService) Messages(ctx context.Context, tenantID, userID string, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := s.repo.GetSession(ctx, tenantID, userID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, tenantID, sessionID)
}
