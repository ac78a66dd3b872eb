package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"portfolio-site/internal/domain"
	"portfolio-site/internal/repository"
)

const testOwner = "Alex Morgan"

type mockCompleter struct {
	result   domain.Completion
	calls    int
	model    string
	captured []domain.ChatMessage
}

func (m *mockCompleter) Complete(_ context.Context, model string, messages []domain.ChatMessage) domain.Completion {
	m.calls++
	m.model = model
	m.captured = messages
	return m.result
}

type mockSearcher struct {
	results []domain.SearchResult
	err     error
	calls   int
	query   string
	limit   int
}

func (m *mockSearcher) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	m.calls++
	m.query = query
	m.limit = limit
	return m.results, m.err
}

type mockTranscripts struct {
	turns     map[string][]domain.ChatMessage
	appendErr error
	getErr    error
}

func newMockTranscripts() *mockTranscripts {
	return &mockTranscripts{turns: map[string][]domain.ChatMessage{}}
}

func (m *mockTranscripts) Append(_ context.Context, id string, turns ...domain.ChatMessage) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.turns[id] = append(m.turns[id], turns...)
	return nil
}

func (m *mockTranscripts) Get(_ context.Context, id string) ([]domain.ChatMessage, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	t, ok := m.turns[id]
	return t, ok, nil
}

func newTestReplyService(t *testing.T, store TranscriptStore, opts ...ReplyOption) *ReplyService {
	t.Helper()
	svc, err := NewReplyService(store, zap.NewNop(), ReplyConfig{OwnerName: testOwner, Model: "gpt-mock"}, opts...)
	require.NoError(t, err)
	return svc
}

func expectReplyError(t *testing.T, err error, code ErrorCode, reason string) {
	t.Helper()
	var usecaseErr *Error
	require.ErrorAs(t, err, &usecaseErr)
	require.Equal(t, code, usecaseErr.Code)
	require.Equal(t, reason, usecaseErr.Reason)
}

func defaultResponse(key string) string {
	for _, c := range DefaultTriggerTable().Render(testOwner) {
		if c.Key == key {
			return c.Response
		}
	}
	panic("unknown category " + key)
}

func TestNewReplyService_ValidatesDependencies(t *testing.T) {
	_, err := NewReplyService(nil, zap.NewNop(), ReplyConfig{OwnerName: testOwner})
	require.Error(t, err)

	_, err = NewReplyService(newMockTranscripts(), nil, ReplyConfig{OwnerName: testOwner})
	require.Error(t, err)

	_, err = NewReplyService(newMockTranscripts(), zap.NewNop(), ReplyConfig{OwnerName: " "})
	require.Error(t, err)

	_, err = NewReplyService(newMockTranscripts(), zap.NewNop(), ReplyConfig{
		OwnerName: testOwner,
		Table:     TriggerTable{{Key: "a", Triggers: []string{"Upper"}, Response: "x"}},
	})
	require.Error(t, err)
}

func TestReply_LocalOnly(t *testing.T) {
	store := newMockTranscripts()
	svc := newTestReplyService(t, store)

	out, err := svc.Reply(context.Background(), ReplyInput{Message: "  Hello there  ", ConversationID: "conv-1"})
	require.NoError(t, err)
	require.Equal(t, "conv-1", out.ConversationID)
	require.Equal(t, defaultResponse("greetings"), out.Reply)
	require.Contains(t, out.Reply, testOwner)
	require.NotContains(t, out.Reply, ownerPlaceholder)

	require.Equal(t, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "Hello there"},
		{Role: domain.RoleAssistant, Content: out.Reply},
	}, store.turns["conv-1"])
}

func TestReply_NoMatchReturnsGenericFallback(t *testing.T) {
	svc := newTestReplyService(t, newMockTranscripts())
	out, err := svc.Reply(context.Background(), ReplyInput{Message: "xyz"})
	require.NoError(t, err)
	require.Equal(t, genericFallback(testOwner), out.Reply)
}

func TestReply_MissingConversationID_GeneratesID(t *testing.T) {
	svc := newTestReplyService(t, newMockTranscripts())
	out, err := svc.Reply(context.Background(), ReplyInput{Message: "What technologies do you use?"})
	require.NoError(t, err)
	require.NotEmpty(t, out.ConversationID)
}

func TestReply_ValidationErrors(t *testing.T) {
	svc := newTestReplyService(t, newMockTranscripts())

	_, err := svc.Reply(context.Background(), ReplyInput{Message: "   "})
	expectReplyError(t, err, ErrorInvalidInput, "empty_message")

	_, err = svc.Reply(context.Background(), ReplyInput{Message: strings.Repeat("a", 501)})
	expectReplyError(t, err, ErrorInvalidInput, "message_too_long")
}

func TestReply_LengthLimitCountsCharacters(t *testing.T) {
	svc := newTestReplyService(t, newMockTranscripts())

	accented := "hello " + strings.Repeat("é", 300)
	out, err := svc.Reply(context.Background(), ReplyInput{Message: accented})
	require.NoError(t, err)
	require.NotEmpty(t, out.Reply)

	_, err = svc.Reply(context.Background(), ReplyInput{Message: strings.Repeat("🙂", 500)})
	require.NoError(t, err)

	_, err = svc.Reply(context.Background(), ReplyInput{Message: strings.Repeat("🙂", 501)})
	expectReplyError(t, err, ErrorInvalidInput, "message_too_long")
}

func TestReply_TranscriptWriteError(t *testing.T) {
	store := newMockTranscripts()
	store.appendErr = errors.New("boom")
	svc := newTestReplyService(t, store)

	_, err := svc.Reply(context.Background(), ReplyInput{Message: "hello"})
	expectReplyError(t, err, ErrorInternal, "transcript_write_error")
}

func TestReply_RemoteSuccess(t *testing.T) {
	llm := &mockCompleter{result: domain.Success{Text: "Remote answer"}}
	search := &mockSearcher{}
	svc := newTestReplyService(t, newMockTranscripts(), WithCompleter(llm), WithSearcher(search))

	out, err := svc.Reply(context.Background(), ReplyInput{Message: "Tell me about your skills"})
	require.NoError(t, err)
	require.Equal(t, "Remote answer", out.Reply)
	require.Equal(t, 1, llm.calls)
	require.Equal(t, "gpt-mock", llm.model)
	require.Zero(t, search.calls, "non real-time questions must not trigger a search")

	require.Len(t, llm.captured, 2)
	require.Equal(t, domain.RoleSystem, llm.captured[0].Role)
	require.Equal(t, "You are Alex Morgan's AI assistant. Answer accurately.", llm.captured[0].Content)
	require.Equal(t, domain.ChatMessage{Role: domain.RoleUser, Content: "Tell me about your skills"}, llm.captured[1])
}

func TestReply_RealtimeQuestionIsAugmented(t *testing.T) {
	llm := &mockCompleter{result: domain.Success{Text: "Sunny"}}
	search := &mockSearcher{results: []domain.SearchResult{{Title: "Forecast", Snippet: "Sunny, 21C", Link: "https://weather.example"}}}
	svc := newTestReplyService(t, newMockTranscripts(), WithCompleter(llm), WithSearcher(search))

	out, err := svc.Reply(context.Background(), ReplyInput{Message: "What's the WEATHER in SF?"})
	require.NoError(t, err)
	require.Equal(t, "Sunny", out.Reply)
	require.Equal(t, 1, search.calls)
	require.Equal(t, "What's the WEATHER in SF?", search.query)
	require.Equal(t, defaultSearchLimit, search.limit)

	system := llm.captured[0].Content
	require.True(t, strings.HasPrefix(system, contextHeader), system)
	require.Contains(t, system, `"title":"Forecast"`)
	require.Contains(t, system, "Use the provided Internet Info")
}

func TestReply_SearchFailureOmitsContext(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	llm := &mockCompleter{result: domain.Success{Text: "No context answer"}}
	search := &mockSearcher{err: errors.New("search down")}
	svc, err := NewReplyService(newMockTranscripts(), zap.New(core), ReplyConfig{OwnerName: testOwner},
		WithCompleter(llm), WithSearcher(search))
	require.NoError(t, err)

	out, err := svc.Reply(context.Background(), ReplyInput{Message: "latest news"})
	require.NoError(t, err)
	require.Equal(t, "No context answer", out.Reply)
	require.Equal(t, 1, llm.calls)
	require.NotContains(t, llm.captured[0].Content, contextHeader)
	require.Equal(t, 1, logs.FilterMessage("search augmentation failed").Len())
}

func TestReply_TransportErrorFallsBackToLocal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	llm := &mockCompleter{result: domain.TransportError{Err: errors.New("dial tcp: connection refused")}}
	svc, err := NewReplyService(newMockTranscripts(), zap.New(core), ReplyConfig{OwnerName: testOwner}, WithCompleter(llm))
	require.NoError(t, err)

	out, err := svc.Reply(context.Background(), ReplyInput{Message: "What's the weather"})
	require.NoError(t, err)
	require.Equal(t, genericFallback(testOwner), out.Reply)
	require.NotEmpty(t, out.Reply)
	require.NotContains(t, out.Reply, "connection refused")
	require.Equal(t, 1, logs.FilterMessage("completion transport error").Len())
}

func TestReply_APIErrorFallsBackToLocal(t *testing.T) {
	cases := []domain.Completion{
		domain.APIError{StatusCode: 401, Code: "invalid_api_key", Message: "Incorrect API key"},
		domain.APIError{StatusCode: 200, Code: domain.CodeMalformedResponse, Message: "decode response"},
		domain.Success{Text: "  "},
		nil,
	}
	for _, result := range cases {
		llm := &mockCompleter{result: result}
		svc := newTestReplyService(t, newMockTranscripts(), WithCompleter(llm))

		out, err := svc.Reply(context.Background(), ReplyInput{Message: "Please send your email"})
		require.NoError(t, err)
		require.Equal(t, defaultResponse("hire"), out.Reply, "result=%#v", result)
	}
}

func TestReply_QuotaWithSearchContextSurfacesResults(t *testing.T) {
	llm := &mockCompleter{result: domain.APIError{StatusCode: 429, Code: domain.CodeInsufficientQuota}}
	search := &mockSearcher{results: []domain.SearchResult{
		{Title: "Go 1.23 released", Snippet: "New iterators", Link: "https://go.dev/blog"},
		{Title: "Release notes", Snippet: "Details", Link: "https://go.dev/doc"},
	}}
	svc := newTestReplyService(t, newMockTranscripts(), WithCompleter(llm), WithSearcher(search))

	out, err := svc.Reply(context.Background(), ReplyInput{Message: "latest Go news"})
	require.NoError(t, err)
	require.Equal(t, quotaNoticeWithResults+
		"• **[Go 1.23 released](https://go.dev/blog)**\nNew iterators\n\n"+
		"• **[Release notes](https://go.dev/doc)**\nDetails", out.Reply)
}

func TestReply_QuotaWithoutContext(t *testing.T) {
	llm := &mockCompleter{result: domain.APIError{StatusCode: 429, Code: domain.CodeInsufficientQuota}}
	svc := newTestReplyService(t, newMockTranscripts(), WithCompleter(llm))

	out, err := svc.Reply(context.Background(), ReplyInput{Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, quotaNotice, out.Reply)
}

func TestHistory(t *testing.T) {
	store := newMockTranscripts()
	svc := newTestReplyService(t, store)

	_, err := svc.Reply(context.Background(), ReplyInput{Message: "hello", ConversationID: "conv-1"})
	require.NoError(t, err)
	_, err = svc.Reply(context.Background(), ReplyInput{Message: "bye", ConversationID: "conv-1"})
	require.NoError(t, err)

	turns, err := svc.History(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, turns, 4)
	require.Equal(t, domain.RoleUser, turns[0].Role)
	require.Equal(t, "hello", turns[0].Content)
	require.Equal(t, domain.RoleAssistant, turns[1].Role)
	require.Equal(t, "bye", turns[2].Content)
	require.Equal(t, defaultResponse("goodbye"), turns[3].Content)

	_, err = svc.History(context.Background(), "missing")
	expectReplyError(t, err, ErrorNotFound, "conversation_not_found")

	_, err = svc.History(context.Background(), " ")
	expectReplyError(t, err, ErrorInvalidInput, "empty_conversation_id")

	store.getErr = errors.New("boom")
	_, err = svc.History(context.Background(), "conv-1")
	expectReplyError(t, err, ErrorInternal, "transcript_read_error")
}

func TestHistory_IdleConversationExpires(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := repository.NewTranscripts(
		repository.WithTTL(30*time.Minute),
		repository.WithClock(func() time.Time { return now }),
	)
	svc := newTestReplyService(t, store)

	_, err := svc.Reply(context.Background(), ReplyInput{Message: "hello", ConversationID: "conv-1"})
	require.NoError(t, err)

	now = now.Add(29 * time.Minute)
	turns, err := svc.History(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)

	now = now.Add(31 * time.Minute)
	_, err = svc.History(context.Background(), "conv-1")
	expectReplyError(t, err, ErrorNotFound, "conversation_not_found")
}
