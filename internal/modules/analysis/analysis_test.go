package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/daybook-app/core/internal/config"
)

func validResult() Result {
	return Result{
		OverallMoodScore:    72,
		EnergyLevel:         55,
		EmotionalComplexity: 30,
		DominantEmotions:    []string{"joy", "gratitude", "hope"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Result)
		wantOK bool
	}{
		{"valid", func(r *Result) {}, true},
		{"five emotions", func(r *Result) {
			r.DominantEmotions = []string{"joy", "sadness", "anger", "fear", "hope"}
		}, true},
		{"too few emotions", func(r *Result) {
			r.DominantEmotions = []string{"joy", "hope"}
		}, false},
		{"too many emotions", func(r *Result) {
			r.DominantEmotions = []string{"joy", "sadness", "anger", "fear", "hope", "pride"}
		}, false},
		{"unknown emotion", func(r *Result) {
			r.DominantEmotions = []string{"joy", "gratitude", "melancholy"}
		}, false},
		{"uppercase emotion", func(r *Result) {
			r.DominantEmotions = []string{"Joy", "gratitude", "hope"}
		}, false},
		{"duplicate emotion", func(r *Result) {
			r.DominantEmotions = []string{"joy", "joy", "hope"}
		}, false},
		{"mood below range", func(r *Result) { r.OverallMoodScore = -1 }, false},
		{"mood above range", func(r *Result) { r.OverallMoodScore = 101 }, false},
		{"energy above range", func(r *Result) { r.EnergyLevel = 200 }, false},
		{"complexity below range", func(r *Result) { r.EmotionalComplexity = -5 }, false},
		{"zero scores are valid", func(r *Result) {
			r.OverallMoodScore = 0
			r.EnergyLevel = 0
			r.EmotionalComplexity = 0
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := validResult()
			tc.mutate(&r)
			err := validate(&r)
			if tc.wantOK && err != nil {
				t.Fatalf("validate() = %v, want nil", err)
			}
			if !tc.wantOK && err == nil {
				t.Fatalf("validate() = nil, want error")
			}
		})
	}
}

func TestUnmarshalProviderJSON(t *testing.T) {
	t.Parallel()

	payload := `{"overall_mood_score":60,"energy_level":40,"emotional_complexity":20,"dominant_emotions":["joy","hope","serenity"]}`

	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"bare json", payload, true},
		{"fenced json", "```json\n" + payload + "\n```", true},
		{"fenced without language", "```\n" + payload + "\n```", true},
		{"surrounding prose", "Here is the rating:\n" + payload + "\nHope that helps.", true},
		{"not json", "I cannot rate this entry.", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out Result
			err := unmarshalProviderJSON(tc.raw, &out)
			if tc.ok {
				if err != nil {
					t.Fatalf("unmarshalProviderJSON() = %v, want nil", err)
				}
				if out.OverallMoodScore != 60 || len(out.DominantEmotions) != 3 {
					t.Fatalf("unexpected result: %+v", out)
				}
			} else if err == nil {
				t.Fatalf("unmarshalProviderJSON() = nil, want error")
			}
		})
	}
}

func TestSelectProvider(t *testing.T) {
	t.Parallel()

	cfg := config.AIConfig{
		Providers: []config.AIProvider{
			{ID: "a", Type: "openai", APIKey: "k1", DefaultModel: "m1", Enabled: false},
			{ID: "b", Type: "anthropic", APIKey: "k2", DefaultModel: "m2", Enabled: true},
			{ID: "c", Type: "openai-compatible", APIKey: "k3", DefaultModel: "m3", Enabled: true},
		},
	}

	if p := selectProvider(cfg); p == nil || p.ID != "b" {
		t.Fatalf("selectProvider picked %+v, want first enabled provider b", p)
	}

	cfg.RatingModel = &config.AIModelAssignment{ProviderID: "c", Model: "override"}
	p := selectProvider(cfg)
	if p == nil || p.ID != "c" {
		t.Fatalf("selectProvider picked %+v, want pinned provider c", p)
	}
	if p.DefaultModel != "override" {
		t.Fatalf("DefaultModel = %q, want override", p.DefaultModel)
	}

	if p := selectProvider(config.AIConfig{}); p != nil {
		t.Fatalf("selectProvider with no providers = %+v, want nil", p)
	}
}

func TestAnalyzeOpenAICompatible(t *testing.T) {
	t.Parallel()

	newServer := func(t *testing.T, status int, content string) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/chat/completions" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("Authorization = %q", got)
			}
			var body struct {
				ResponseFormat struct {
					Type string `json:"type"`
				} `json:"response_format"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if body.ResponseFormat.Type != "json_schema" {
				t.Errorf("response_format.type = %q", body.ResponseFormat.Type)
			}

			w.WriteHeader(status)
			fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, content)
		}))
	}

	cfgFor := func(endpoint string) config.AIConfig {
		return config.AIConfig{
			Providers: []config.AIProvider{{
				ID:           "local",
				Type:         "openai-compatible",
				APIKey:       "test-key",
				Endpoint:     endpoint,
				DefaultModel: "test-model",
				Enabled:      true,
			}},
		}
	}

	t.Run("valid rating", func(t *testing.T) {
		t.Parallel()

		payload, _ := json.Marshal(validResult())
		srv := newServer(t, http.StatusOK, string(payload))
		defer srv.Close()

		svc := NewService(cfgFor(srv.URL))
		got, err := svc.Analyze(context.Background(), "had a wonderful day")
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if got.OverallMoodScore != 72 || len(got.DominantEmotions) != 3 {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("non json content", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, http.StatusOK, "no rating for you")
		defer srv.Close()

		svc := NewService(cfgFor(srv.URL))
		if _, err := svc.Analyze(context.Background(), "some text"); !errors.Is(err, ErrInvalidAnalysis) {
			t.Fatalf("Analyze() error = %v, want ErrInvalidAnalysis", err)
		}
	})

	t.Run("out of vocabulary emotions", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, http.StatusOK,
			`{"overall_mood_score":50,"energy_level":50,"emotional_complexity":50,"dominant_emotions":["bliss","rage","dread"]}`)
		defer srv.Close()

		svc := NewService(cfgFor(srv.URL))
		if _, err := svc.Analyze(context.Background(), "some text"); !errors.Is(err, ErrInvalidAnalysis) {
			t.Fatalf("Analyze() error = %v, want ErrInvalidAnalysis", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		svc := NewService(cfgFor(srv.URL))
		if _, err := svc.Analyze(context.Background(), "some text"); !errors.Is(err, ErrProviderUnavailable) {
			t.Fatalf("Analyze() error = %v, want ErrProviderUnavailable", err)
		}
	})

	t.Run("no provider configured", func(t *testing.T) {
		t.Parallel()

		svc := NewService(config.AIConfig{})
		if _, err := svc.Analyze(context.Background(), "some text"); !errors.Is(err, ErrProviderUnavailable) {
			t.Fatalf("Analyze() error = %v, want ErrProviderUnavailable", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()

		svc := NewService(config.AIConfig{})
		if _, err := svc.Analyze(context.Background(), "   "); !errors.Is(err, ErrInvalidAnalysis) {
			t.Fatalf("Analyze() error = %v, want ErrInvalidAnalysis", err)
		}
	})
}

func TestRatingSchemaInjectsVocabulary(t *testing.T) {
	t.Parallel()

	schema := ratingSchema()
	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema has no properties: %+v", schema)
	}
	emotions, ok := properties["dominant_emotions"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema has no dominant_emotions property")
	}
	items, ok := emotions["items"].(map[string]interface{})
	if !ok {
		t.Fatalf("dominant_emotions has no items")
	}
	if _, ok := items["enum"]; !ok {
		t.Fatalf("items carries no emotion enum")
	}
	if schema["additionalProperties"] != false {
		t.Fatalf("schema must close additionalProperties")
	}
}
