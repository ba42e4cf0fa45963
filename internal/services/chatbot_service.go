package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rental_backend/internal/llm"
	"rental_backend/internal/logger"
	"rental_backend/internal/repositories"
	"rental_backend/internal/services/dto"
	"rental_backend/pkg/apperrors"
)

const (
	IntentSearch  = "SEARCH"
	IntentSupport = "SUPPORT"
	IntentChat    = "CHAT"
)

const classifyPrompt = `You are an assistant of a rental listing marketplace.
Classify the user message into exactly one intent:
SEARCH - the user looks for a place to rent;
SUPPORT - the user asks how to use the site (posting, lessor application, viewings, account);
CHAT - anything else.
For SEARCH extract the filters that are explicitly mentioned.
Answer with a JSON object only:
{"intent":"SEARCH|SUPPORT|CHAT","params":{"keyword":"","province":"","category":"","max_price":0,"min_area":0}}`

const replyPrompt = `You are a friendly assistant of a rental listing marketplace.
Answer the user briefly in the language of their message.
If listings are provided, describe only those listings and never invent others.
If the listing set is empty for a search, say nothing matched and suggest relaxing the filters.`

type ChatbotService interface {
	HandleMessage(ctx context.Context, message string) (*dto.ChatbotResponse, error)
}

type chatbotService struct {
	client     llm.Client
	searchRepo repositories.PostSearchRepository
}

func NewChatbotService(client llm.Client, searchRepo repositories.PostSearchRepository) ChatbotService {
	return &chatbotService{client: client, searchRepo: searchRepo}
}

// chatIntent - ответ модели на шаге классификации
type chatIntent struct {
	Intent string `json:"intent"`
	Params struct {
		Keyword  string  `json:"keyword"`
		Province string  `json:"province"`
		Category string  `json:"category"`
		MaxPrice float64 `json:"max_price"`
		MinArea  float64 `json:"min_area"`
	} `json:"params"`
}

// HandleMessage: классификация, поиск при SEARCH, формулировка ответа.
// Любая ошибка на любом шаге превращается в ErrAssistantUnavailable.
func (s *chatbotService) HandleMessage(ctx context.Context, message string) (*dto.ChatbotResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.ValidationError(map[string]string{"message": "This field is required"})
	}

	raw, err := s.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: classifyPrompt},
		{Role: llm.RoleUser, Content: message},
	}, llm.ChatOptions{JSONMode: true, Temperature: 0})
	if err != nil {
		return nil, s.unavailable(ctx, "classify", err)
	}

	intent, err := parseIntent(raw)
	if err != nil {
		return nil, s.unavailable(ctx, "parse_intent", err)
	}

	resp := &dto.ChatbotResponse{Intent: intent.Intent}
	listings := ""
	if intent.Intent == IntentSearch {
		rows, err := s.searchRepo.SearchPublished(ctx, intent.searchParams())
		if err != nil {
			return nil, s.unavailable(ctx, "search", err)
		}
		resp.Posts = make([]dto.ChatbotPost, 0, len(rows))
		for _, row := range rows {
			resp.Posts = append(resp.Posts, dto.ChatbotPost{
				ID:       row.ID,
				Title:    row.Title,
				Price:    row.Price,
				Area:     row.Area,
				Address:  row.Address,
				Province: row.ProvinceName,
				Category: row.CategoryName,
			})
		}
		listings = describePosts(resp.Posts)
	}

	prompt := message
	if intent.Intent == IntentSearch {
		prompt = message + "\n\nListings found:\n" + listings
	}
	reply, err := s.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: replyPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.ChatOptions{Temperature: 0.7, MaxTokens: 500})
	if err != nil {
		return nil, s.unavailable(ctx, "reply", err)
	}
	if reply == "" {
		return nil, s.unavailable(ctx, "reply", llm.ErrEmptyResponse)
	}

	resp.Reply = reply
	logger.CtxInfo(ctx, "Chatbot message handled", "intent", resp.Intent, "posts", len(resp.Posts))
	return resp, nil
}

func (s *chatbotService) unavailable(ctx context.Context, step string, err error) error {
	logger.CtxWithError(ctx, "Chatbot step failed", err, "step", step)
	return apperrors.ErrAssistantUnavailable
}

// parseIntent разбирает JSON модели; неизвестный intent считается CHAT
func parseIntent(raw string) (*chatIntent, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var intent chatIntent
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &intent); err != nil {
		return nil, fmt.Errorf("invalid intent payload: %w", err)
	}

	intent.Intent = strings.ToUpper(strings.TrimSpace(intent.Intent))
	switch intent.Intent {
	case IntentSearch, IntentSupport, IntentChat:
	default:
		intent.Intent = IntentChat
	}
	return &intent, nil
}

func (i *chatIntent) searchParams() repositories.PostSearchParams {
	params := repositories.PostSearchParams{
		Keyword:  i.Params.Keyword,
		Province: i.Params.Province,
		Category: i.Params.Category,
	}
	if i.Params.MaxPrice > 0 {
		v := i.Params.MaxPrice
		params.MaxPrice = &v
	}
	if i.Params.MinArea > 0 {
		v := i.Params.MinArea
		params.MinArea = &v
	}
	return params
}

func describePosts(posts []dto.ChatbotPost) string {
	if len(posts) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for i, p := range posts {
		fmt.Fprintf(&sb, "%d. %s - %.0f/month, %.1f m2, %s", i+1, p.Title, p.Price, p.Area, p.Address)
		if p.Province != "" {
			sb.WriteString(", " + p.Province)
		}
		if p.Category != "" {
			sb.WriteString(" [" + p.Category + "]")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
