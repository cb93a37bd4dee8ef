package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// TaskDraft is a task posting suggested from free text. The poster reviews
// and submits it through CreateTask.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	BudgetMin   *int64     `json:"budget_min"`
	BudgetMax   *int64     `json:"budget_max"`
	Deadline    *time.Time `json:"deadline"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// DraftTaskFromText turns a student's description of what they need into a
// structured task posting using OpenAI GPT
func (s *AIService) DraftTaskFromText(ctx context.Context, text string) (*TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You help university students post tasks on a campus marketplace. Turn the text below into one task posting.

Current time: %s

Text:
%s

Return a single JSON object in this shape:
{
  "title": "short title",
  "description": "what needs to be done and what the deliverable is",
  "category": "one of assignment, presentation, project, other",
  "budget_min": minimum budget in rupees as an integer, or null,
  "budget_max": maximum budget in rupees as an integer, or null,
  "deadline": "deadline in ISO8601, e.g. 2025-10-28T23:59:59Z, or null when none is given"
}

Rules:
- Convert relative dates ("tomorrow", "next Friday") into concrete timestamps
- Return only the JSON object without any explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var draft TaskDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return &draft, nil
}
