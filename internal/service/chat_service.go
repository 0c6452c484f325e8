package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/farmwise/farmwise/internal/ai"
)

var ErrChatUnavailable = ai.ErrUnavailable

// conciseTriggers switch the assistant into bullet-point mode when present
// in the user's message.
var conciseTriggers = []string{
	"decrease the matter", "reduce the matter", "make it short",
	"shorten", "in brief", "bullet points", "summarize", "short reply",
}

// ChatService wraps the generative provider with the farming-assistant
// prompt. Identical questions within the cache window are answered from an
// expirable LRU instead of a fresh provider call.
type ChatService struct {
	provider ai.IProvider
	model    string
	timeout  time.Duration
	cache    *expirable.LRU[string, string]
}

func NewChatService(provider ai.IProvider, modelName string, timeout time.Duration) *ChatService {
	cache := expirable.NewLRU[string, string](1000, nil, 30*time.Minute)
	return &ChatService{
		provider: provider,
		model:    modelName,
		timeout:  timeout,
		cache:    cache,
	}
}

func (s *ChatService) Ask(ctx context.Context, message, language string) (string, error) {
	message = strings.TrimSpace(message)
	language = strings.TrimSpace(language)
	if language == "" {
		language = "English"
	}
	prompt := buildPrompt(message, language)
	if reply, ok := s.cache.Get(prompt); ok {
		return reply, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	reply, err := s.provider.Generate(callCtx, s.model, prompt)
	if err != nil {
		return "", err
	}
	s.cache.Add(prompt, reply)
	return reply, nil
}

func buildPrompt(message, language string) string {
	concise := false
	lower := strings.ToLower(message)
	for _, trigger := range conciseTriggers {
		if strings.Contains(lower, trigger) {
			concise = true
			break
		}
	}
	style := "Provide detailed and localized farming advice."
	if concise {
		style = "Respond only in clear, short bullet points."
	}
	return strings.TrimSpace(fmt.Sprintf(`You are an agricultural assistant.Reply in %s.
User said: %q
%s`, language, message, style))
}
