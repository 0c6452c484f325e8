package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls   int
	reply   string
	lastreq string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	p.calls++
	p.lastreq = prompt
	return p.reply, nil
}

func TestChatPromptDetailedByDefault(t *testing.T) {
	provider := &stubProvider{reply: "Plant early."}
	chat := NewChatService(provider, "gemini-1.5-flash", time.Second)

	reply, err := chat.Ask(context.Background(), "When should I sow wheat?", "Hindi")
	require.NoError(t, err)
	require.Equal(t, "Plant early.", reply)
	require.Contains(t, provider.lastreq, "Reply in Hindi")
	require.Contains(t, provider.lastreq, "detailed and localized farming advice")
}

func TestChatPromptConciseTrigger(t *testing.T) {
	provider := &stubProvider{reply: "- sow in June"}
	chat := NewChatService(provider, "gemini-1.5-flash", time.Second)

	_, err := chat.Ask(context.Background(), "Sowing tips, in brief please", "English")
	require.NoError(t, err)
	require.Contains(t, provider.lastreq, "short bullet points")
}

func TestChatDefaultsLanguageToEnglish(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	chat := NewChatService(provider, "gemini-1.5-flash", time.Second)

	_, err := chat.Ask(context.Background(), "hello", "")
	require.NoError(t, err)
	require.Contains(t, provider.lastreq, "Reply in English")
}

func TestChatCachesIdenticalQuestions(t *testing.T) {
	provider := &stubProvider{reply: "cached answer"}
	chat := NewChatService(provider, "gemini-1.5-flash", time.Second)

	for i := 0; i < 3; i++ {
		reply, err := chat.Ask(context.Background(), "What is crop rotation?", "English")
		require.NoError(t, err)
		require.Equal(t, "cached answer", reply)
	}
	require.Equal(t, 1, provider.calls)
}
