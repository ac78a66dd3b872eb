package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolio-site/internal/domain"
)

const (
	defaultMaxMessage  = 500
	defaultSearchLimit = 3
	defaultModel       = "gpt-3.5-turbo"
)

// Completer runs one remote completion and reports the tagged outcome.
type Completer interface {
	Complete(ctx context.Context, model string, messages []domain.ChatMessage) domain.Completion
}

// Searcher fetches web results used to ground a completion.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

// TranscriptStore keeps the in-memory turn history of each conversation.
type TranscriptStore interface {
	Append(ctx context.Context, conversationID string, turns ...domain.ChatMessage) error
	Get(ctx context.Context, conversationID string) ([]domain.ChatMessage, bool, error)
}

type ReplyConfig struct {
	OwnerName     string
	Model         string
	SearchLimit   int
	MaxMessageLen int
	Table         TriggerTable
}

type ReplyOption func(*ReplyService)

// WithCompleter enables the remote AI path.
func WithCompleter(c Completer) ReplyOption {
	return func(s *ReplyService) {
		s.llm = c
	}
}

// WithSearcher enables web search augmentation for real-time questions.
func WithSearcher(sr Searcher) ReplyOption {
	return func(s *ReplyService) {
		s.search = sr
	}
}

type ReplyService struct {
	transcripts   TranscriptStore
	logger        *zap.Logger
	llm           Completer
	search        Searcher
	table         TriggerTable
	owner         string
	model         string
	searchLimit   int
	maxMessageLen int
}

type ReplyInput struct {
	Message        string
	ConversationID string
}

type ReplyOutput struct {
	Reply          string
	ConversationID string
}

func NewReplyService(store TranscriptStore, logger *zap.Logger, cfg ReplyConfig, opts ...ReplyOption) (*ReplyService, error) {
	if store == nil {
		return nil, errors.New("usecase: transcript store must not be nil")
	}
	if logger == nil {
		return nil, errors.New("usecase: logger must not be nil")
	}
	owner := strings.TrimSpace(cfg.OwnerName)
	if owner == "" {
		return nil, errors.New("usecase: owner name must not be empty")
	}
	table := cfg.Table
	if table == nil {
		table = DefaultTriggerTable()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = defaultSearchLimit
	}
	if cfg.MaxMessageLen <= 0 {
		cfg.MaxMessageLen = defaultMaxMessage
	}
	s := &ReplyService{
		transcripts:   store,
		logger:        logger,
		table:         table.Render(owner),
		owner:         owner,
		model:         cfg.Model,
		searchLimit:   cfg.SearchLimit,
		maxMessageLen: cfg.MaxMessageLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Reply records the user's message, resolves an answer and records it. Apart
// from input validation and transcript failures it always succeeds.
func (s *ReplyService) Reply(ctx context.Context, in ReplyInput) (ReplyOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ReplyOutput{}, newError(ErrorInvalidInput, ReasonEmptyMessage, nil)
	}
	if utf8.RuneCountInString(message) > s.maxMessageLen {
		return ReplyOutput{}, newError(ErrorInvalidInput, ReasonMessageTooLong, nil)
	}
	convID := strings.TrimSpace(in.ConversationID)
	if convID == "" {
		convID = newUUID()
	}

	if err := s.transcripts.Append(ctx, convID, domain.ChatMessage{Role: domain.RoleUser, Content: message}); err != nil {
		return ReplyOutput{}, newError(ErrorInternal, ReasonTranscriptWrite, err)
	}

	reply := s.resolve(ctx, message)

	if err := s.transcripts.Append(ctx, convID, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply}); err != nil {
		return ReplyOutput{}, newError(ErrorInternal, ReasonTranscriptWrite, err)
	}
	return ReplyOutput{Reply: reply, ConversationID: convID}, nil
}

// History returns the turns recorded for a conversation in order.
func (s *ReplyService) History(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return nil, newError(ErrorInvalidInput, ReasonEmptyConversationID, nil)
	}
	turns, ok, err := s.transcripts.Get(ctx, conversationID)
	if err != nil {
		return nil, newError(ErrorInternal, ReasonTranscriptRead, err)
	}
	if !ok {
		return nil, newError(ErrorNotFound, ReasonConversationNotFound, nil)
	}
	return turns, nil
}

func (s *ReplyService) resolve(ctx context.Context, message string) string {
	if s.llm == nil {
		return s.localResponse(message)
	}

	results := s.augment(ctx, message)

	switch r := s.llm.Complete(ctx, s.model, buildCompletionMessages(s.owner, results, message)).(type) {
	case domain.Success:
		if strings.TrimSpace(r.Text) != "" {
			return r.Text
		}
		s.logger.Warn("completion returned empty text")
		return s.localResponse(message)
	case domain.APIError:
		s.logger.Warn("completion api error",
			zap.Int("status", r.StatusCode),
			zap.String("code", r.Code),
			zap.String("message", r.Message),
		)
		if r.Code == domain.CodeInsufficientQuota {
			return quotaFallback(results)
		}
		return s.localResponse(message)
	case domain.TransportError:
		s.logger.Warn("completion transport error", zap.Error(r.Err))
		return s.localResponse(message)
	default:
		s.logger.Error("unexpected completion result", zap.Any("result", r))
		return s.localResponse(message)
	}
}

// augment runs a web search for real-time questions. Failures only drop the
// context.
func (s *ReplyService) augment(ctx context.Context, message string) []domain.SearchResult {
	if s.search == nil || !needsRealtime(message) {
		return nil
	}
	results, err := s.search.Search(ctx, message, s.searchLimit)
	if err != nil {
		s.logger.Warn("search augmentation failed", zap.Error(err))
		return nil
	}
	return results
}

func (s *ReplyService) localResponse(message string) string {
	if c, ok := s.table.Match(message); ok {
		return c.Response
	}
	return genericFallback(s.owner)
}

var newUUID = func() string {
	return uuid.NewString()
}
