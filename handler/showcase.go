package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"portfolio-site/internal/carousel"
	"portfolio-site/internal/typewriter"
	"portfolio-site/internal/usecase"
)

// DefaultTestimonials is the number of testimonial cards on the site.
const DefaultTestimonials = 4

// WithHeroWords replaces the roles cycled by the hero typing effect.
func WithHeroWords(words []string) Option {
	return func(h *Handler) {
		h.heroWords = words
	}
}

// WithTestimonials sets the number of testimonial slides.
func WithTestimonials(n int) Option {
	return func(h *Handler) {
		h.testimonials = n
	}
}

type heroFrame struct {
	Text    string `json:"text"`
	DelayMS int64  `json:"delayMs"`
}

type heroResponse struct {
	Words        []string    `json:"words"`
	StartDelayMS int64       `json:"startDelayMs"`
	Frames       []heroFrame `json:"frames"`
}

type sliderResponse struct {
	Slides       int `json:"slides"`
	VisibleSlots int `json:"visibleSlots"`
	MaxIndex     int `json:"maxIndex"`
	Dots         int `json:"dots"`
	Current      int `json:"current"`
}

// hero returns one full cycle of the typing effect: every keystroke of every
// word until the first word is about to be typed again.
func (h *Handler) hero(logger *zap.Logger) events.APIGatewayProxyResponse {
	tw, err := typewriter.New(h.heroWords)
	if err != nil {
		return errorResponseFor(logger, err)
	}
	out := heroResponse{Words: h.heroWords, StartDelayMS: typewriter.StartDelay.Milliseconds()}
	for {
		text, delay := tw.Step()
		out.Frames = append(out.Frames, heroFrame{Text: text, DelayMS: delay.Milliseconds()})
		if text == "" && tw.Word() == 0 {
			break
		}
	}
	return jsonResponse(http.StatusOK, out)
}

// slider reports the testimonials slider after applying action to index for
// the given viewport width. Supported actions are next and prev; none just
// clamps index into range.
func (h *Handler) slider(logger *zap.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	q := req.QueryStringParameters
	width, err := intParam(q, "width", carousel.WideViewport)
	if err != nil || width < 0 {
		return invalidQuery(logger, "width")
	}
	index, err := intParam(q, "index", 0)
	if err != nil {
		return invalidQuery(logger, "index")
	}

	m, err := carousel.NewModel(h.testimonials, func() int { return width })
	if err != nil {
		return errorResponseFor(logger, err)
	}
	m.Goto(index)
	switch strings.ToLower(strings.TrimSpace(q["action"])) {
	case "":
	case "next":
		m.Next()
	case "prev":
		m.Prev()
	default:
		return invalidQuery(logger, "action")
	}
	return jsonResponse(http.StatusOK, sliderResponse{
		Slides:       m.Slides(),
		VisibleSlots: m.VisibleSlots(),
		MaxIndex:     m.MaxIndex(),
		Dots:         m.Dots(),
		Current:      m.Current(),
	})
}

func intParam(q map[string]string, name string, def int) (int, error) {
	v := strings.TrimSpace(q[name])
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func invalidQuery(logger *zap.Logger, param string) events.APIGatewayProxyResponse {
	logger.Info("invalid query parameter", zap.String("param", param))
	return jsonResponse(http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidInput)})
}
