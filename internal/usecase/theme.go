package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolio-site/internal/domain"
)

// PreferenceStore persists one theme preference per visitor.
type PreferenceStore interface {
	GetPreference(ctx context.Context, visitorID string) (domain.Preference, bool, error)
	PutPreference(ctx context.Context, pref domain.Preference) error
}

type ThemeService struct {
	store  PreferenceStore
	logger *zap.Logger
	now    func() time.Time
}

type ThemeInput struct {
	VisitorID string
	// PrefersDark is the client's color-scheme hint, used when nothing has
	// been stored yet. Nil means no hint.
	PrefersDark *bool
}

type ThemeOutput struct {
	Theme     domain.Theme
	VisitorID string
}

func NewThemeService(store PreferenceStore, logger *zap.Logger) (*ThemeService, error) {
	if store == nil {
		return nil, errors.New("usecase: preference store must not be nil")
	}
	if logger == nil {
		return nil, errors.New("usecase: logger must not be nil")
	}
	return &ThemeService{store: store, logger: logger, now: time.Now}, nil
}

// Load returns the stored theme, or the hinted one (dark by default) for a
// visitor with no stored preference. Nothing is written.
func (s *ThemeService) Load(ctx context.Context, in ThemeInput) (ThemeOutput, error) {
	visitorID := visitorOrNew(in.VisitorID)
	theme, err := s.current(ctx, visitorID, in.PrefersDark)
	if err != nil {
		return ThemeOutput{}, err
	}
	return ThemeOutput{Theme: theme, VisitorID: visitorID}, nil
}

// Toggle flips the visitor's theme and persists the result.
func (s *ThemeService) Toggle(ctx context.Context, in ThemeInput) (ThemeOutput, error) {
	visitorID := visitorOrNew(in.VisitorID)
	theme, err := s.current(ctx, visitorID, in.PrefersDark)
	if err != nil {
		return ThemeOutput{}, err
	}
	return s.save(ctx, visitorID, theme.Toggled())
}

// Set stores an explicit theme for the visitor.
func (s *ThemeService) Set(ctx context.Context, visitorID, theme string) (ThemeOutput, error) {
	parsed, err := domain.ParseTheme(theme)
	if err != nil {
		return ThemeOutput{}, newError(ErrorInvalidInput, ReasonInvalidTheme, err)
	}
	return s.save(ctx, visitorOrNew(visitorID), parsed)
}

func (s *ThemeService) current(ctx context.Context, visitorID string, prefersDark *bool) (domain.Theme, error) {
	pref, ok, err := s.store.GetPreference(ctx, visitorID)
	if err != nil {
		return "", newError(ErrorInternal, ReasonPreferenceRead, err)
	}
	if ok {
		if theme, perr := domain.ParseTheme(string(pref.Theme)); perr == nil {
			return theme, nil
		}
		s.logger.Warn("ignoring unreadable stored theme",
			zap.String("visitor_id", visitorID),
			zap.String("theme", string(pref.Theme)),
		)
	}
	if prefersDark != nil && !*prefersDark {
		return domain.ThemeLight, nil
	}
	return domain.ThemeDark, nil
}

func (s *ThemeService) save(ctx context.Context, visitorID string, theme domain.Theme) (ThemeOutput, error) {
	err := s.store.PutPreference(ctx, domain.Preference{
		VisitorID: visitorID,
		Theme:     theme,
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return ThemeOutput{}, newError(ErrorInternal, ReasonPreferenceWrite, err)
	}
	return ThemeOutput{Theme: theme, VisitorID: visitorID}, nil
}

func visitorOrNew(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return newUUID()
	}
	return id
}
