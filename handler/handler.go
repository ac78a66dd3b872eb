package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolio-site/internal/catalog"
	"portfolio-site/internal/domain"
	"portfolio-site/internal/typewriter"
	"portfolio-site/internal/usecase"
)

const (
	headerCorrelationID = "X-Correlation-Id"
	headerVisitorID     = "X-Visitor-Id"
	headerColorScheme   = "Sec-CH-Prefers-Color-Scheme"
)

type replyUseCase interface {
	Reply(ctx context.Context, in usecase.ReplyInput) (usecase.ReplyOutput, error)
	History(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}

type themeUseCase interface {
	Load(ctx context.Context, in usecase.ThemeInput) (usecase.ThemeOutput, error)
	Toggle(ctx context.Context, in usecase.ThemeInput) (usecase.ThemeOutput, error)
	Set(ctx context.Context, visitorID, theme string) (usecase.ThemeOutput, error)
}

type Handler struct {
	replies  replyUseCase
	themes   themeUseCase
	logger   *zap.Logger
	projects []catalog.Item
	skills   []catalog.Item

	heroWords    []string
	testimonials int
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversationId"`
}

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type historyResponse struct {
	ConversationID string `json:"conversationId"`
	Turns          []turn `json:"turns"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type themeResponse struct {
	Theme     string `json:"theme"`
	VisitorID string `json:"visitorId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHandler(replies replyUseCase, themes themeUseCase, logger *zap.Logger, opts ...Option) (*Handler, error) {
	if replies == nil {
		return nil, errors.New("handler: reply use case must not be nil")
	}
	if themes == nil {
		return nil, errors.New("handler: theme use case must not be nil")
	}
	if logger == nil {
		return nil, errors.New("handler: logger must not be nil")
	}
	h := &Handler{
		replies:  replies,
		themes:   themes,
		logger:   logger,
		projects: catalog.DefaultProjects(),
		skills:   catalog.DefaultSkills(),

		heroWords:    typewriter.DefaultWords,
		testimonials: DefaultTestimonials,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Handle routes an API Gateway proxy event. Failures are always reported as
// an HTTP response; the returned error is reserved for the Lambda runtime and
// is always nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	corrID := headerValue(req, headerCorrelationID)
	if corrID == "" {
		corrID = uuid.NewString()
	}
	logger := h.logger.With(
		zap.String("correlation_id", corrID),
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path),
	)

	var resp events.APIGatewayProxyResponse
	switch route(req) {
	case "POST /chat":
		resp = h.chat(ctx, logger, req)
	case "GET /chat/history":
		resp = h.history(ctx, logger, req)
	case "GET /theme":
		resp = h.loadTheme(ctx, logger, req)
	case "PUT /theme":
		resp = h.setTheme(ctx, logger, req)
	case "POST /theme/toggle":
		resp = h.toggleTheme(ctx, logger, req)
	case "GET /projects":
		resp = grid(logger, req, h.projects, catalog.ProjectStagger)
	case "GET /skills":
		resp = grid(logger, req, h.skills, catalog.SkillStagger)
	case "GET /hero":
		resp = h.hero(logger)
	case "GET /testimonials":
		resp = h.slider(logger, req)
	default:
		resp = jsonResponse(http.StatusNotFound, errorResponse{Error: string(usecase.ErrorNotFound)})
	}

	resp.Headers[headerCorrelationID] = corrID
	logger.Debug("request handled", zap.Int("status", resp.StatusCode))
	return resp, nil
}

func (h *Handler) chat(ctx context.Context, logger *zap.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body chatRequest
	if err := decodeBody(req, &body); err != nil {
		return invalidBody(logger, err)
	}
	out, err := h.replies.Reply(ctx, usecase.ReplyInput{
		Message:        body.Message,
		ConversationID: body.ConversationID,
	})
	if err != nil {
		return errorResponseFor(logger, err)
	}
	return jsonResponse(http.StatusOK, chatResponse{Reply: out.Reply, ConversationID: out.ConversationID})
}

func (h *Handler) history(ctx context.Context, logger *zap.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	convID := req.QueryStringParameters["conversationId"]
	turns, err := h.replies.History(ctx, convID)
	if err != nil {
		return errorResponseFor(logger, err)
	}
	out := historyResponse{ConversationID: strings.TrimSpace(convID), Turns: make([]turn, 0, len(turns))}
	for _, t := range turns {
		out.Turns = append(out.Turns, turn{Role: t.Role, Content: t.Content})
	}
	return jsonResponse(http.StatusOK, out)
}

func (h *Handler) loadTheme(ctx context.Context, logger *zap.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	out, err := h.themes.Load(ctx, themeInput(req))
	if err != nil {
		return errorResponseFor(logger, err)
	}
	return themeResponseFor(out)
}

func (h *Handler) setTheme(ctx context.Context, logger *zap.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body themeRequest
	if err := decodeBody(req, &body); err != nil {
		return invalidBody(logger, err)
	}
	out, err := h.themes.Set(ctx, headerValue(req, headerVisitorID), body.Theme)
	if err != nil {
		return errorResponseFor(logger, err)
	}
	return themeResponseFor(out)
}

func (h *Handler) toggleTheme(ctx context.Context, logger *zap.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	out, err := h.themes.Toggle(ctx, themeInput(req))
	if err != nil {
		return errorResponseFor(logger, err)
	}
	return themeResponseFor(out)
}

func themeInput(req events.APIGatewayProxyRequest) usecase.ThemeInput {
	return usecase.ThemeInput{
		VisitorID:   headerValue(req, headerVisitorID),
		PrefersDark: colorSchemeHint(headerValue(req, headerColorScheme)),
	}
}

func themeResponseFor(out usecase.ThemeOutput) events.APIGatewayProxyResponse {
	resp := jsonResponse(http.StatusOK, themeResponse{Theme: string(out.Theme), VisitorID: out.VisitorID})
	resp.Headers[headerVisitorID] = out.VisitorID
	return resp
}

// colorSchemeHint reads the client hint, which browsers send quoted
// ("dark"). Anything but dark or light means no hint.
func colorSchemeHint(v string) *bool {
	v = strings.Trim(strings.TrimSpace(v), `"`)
	switch strings.ToLower(v) {
	case string(domain.ThemeDark):
		dark := true
		return &dark
	case string(domain.ThemeLight):
		dark := false
		return &dark
	}
	return nil
}

func route(req events.APIGatewayProxyRequest) string {
	path := strings.TrimSuffix(req.Path, "/")
	if path == "" {
		path = "/"
	}
	return strings.ToUpper(req.HTTPMethod) + " " + path
}

func decodeBody(req events.APIGatewayProxyRequest, v any) error {
	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return err
		}
		raw = decoded
	}
	return json.Unmarshal(raw, v)
}

func invalidBody(logger *zap.Logger, err error) events.APIGatewayProxyResponse {
	logger.Info("invalid request body", zap.Error(err))
	return jsonResponse(http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput)})
}

func errorResponseFor(logger *zap.Logger, err error) events.APIGatewayProxyResponse {
	code := usecase.CodeOf(err)
	var reason string
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		reason = ucErr.Reason
	}

	status := http.StatusInternalServerError
	switch code {
	case usecase.ErrorInvalidInput:
		status = http.StatusBadRequest
	case usecase.ErrorNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("reason", reason), zap.Error(err))
	} else {
		logger.Info("request rejected", zap.String("code", string(code)), zap.String("reason", reason))
	}
	return jsonResponse(status, errorResponse{Error: string(code)})
}

func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

// headerValue looks a header up case-insensitively; API Gateway keeps the
// client's casing.
func headerValue(req events.APIGatewayProxyRequest, name string) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	for k, vs := range req.MultiValueHeaders {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
	}
	return ""
}
