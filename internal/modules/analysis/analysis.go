// Package analysis turns an entry's plain text into a structured mood
// rating via a one-shot call to an external inference provider. Calls are
// stateless and all-or-nothing: the response either passes the full
// contract validation or is discarded.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/daybook-app/core/internal/config"
	"github.com/daybook-app/core/internal/models"
	"go.uber.org/zap"
)

// Failure classes surfaced to callers. Provider errors are transient and
// retryable by caller policy; contract violations are not retryable with
// the same input.
var (
	ErrProviderUnavailable = errors.New("analysis provider unavailable")
	ErrInvalidAnalysis     = errors.New("analysis response failed validation")
)

const callTimeout = 30 * time.Second

// Result is the validated four-field mood rating.
type Result struct {
	OverallMoodScore    int      `json:"overall_mood_score"`
	EnergyLevel         int      `json:"energy_level"`
	EmotionalComplexity int      `json:"emotional_complexity"`
	DominantEmotions    []string `json:"dominant_emotions"`
}

// Service calls the configured provider and validates its output.
type Service struct {
	cfg        config.AIConfig
	logger     *zap.Logger
	httpClient *http.Client
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l.Named("analysis") }
}

// WithHTTPClient overrides the client used for the openai-compatible path.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

func NewService(cfg config.AIConfig, opts ...Option) *Service {
	s := &Service{
		cfg:        cfg,
		logger:     zap.NewNop(),
		httpClient: &http.Client{Timeout: callTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze rates one entry text. The call is bounded by callTimeout; a
// timeout is indistinguishable from any other provider outage and maps to
// ErrProviderUnavailable.
func (s *Service) Analyze(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidAnalysis)
	}

	provider := selectProvider(s.cfg)
	if provider == nil {
		return nil, fmt.Errorf("%w: no enabled provider configured", ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	raw, err := s.callProvider(ctx, provider, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var result Result
	if err := unmarshalProviderJSON(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}
	if err := validate(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}

	s.logger.Debug("analysis completed",
		zap.Int("mood", result.OverallMoodScore),
		zap.Strings("emotions", result.DominantEmotions),
	)
	return &result, nil
}

// validate enforces the four-field contract client-side. The provider was
// asked for this exact shape, but it is untrusted.
func validate(r *Result) error {
	if err := inRange("overall_mood_score", r.OverallMoodScore); err != nil {
		return err
	}
	if err := inRange("energy_level", r.EnergyLevel); err != nil {
		return err
	}
	if err := inRange("emotional_complexity", r.EmotionalComplexity); err != nil {
		return err
	}

	n := len(r.DominantEmotions)
	if n < 3 || n > 5 {
		return fmt.Errorf("dominant_emotions has %d entries, want 3-5", n)
	}
	seen := make(map[string]struct{}, n)
	for _, e := range r.DominantEmotions {
		if !models.IsValidEmotion(e) {
			return fmt.Errorf("unknown emotion %q", e)
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("duplicate emotion %q", e)
		}
		seen[e] = struct{}{}
	}
	return nil
}

func inRange(field string, v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s is %d, want 0-100", field, v)
	}
	return nil
}
