package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"python_tutor_backend/internal/config"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"strings"
	"testing"
	"time"
)

type fakeProvider struct {
	answer  string
	err     error
	prompts []string
	closed  bool
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}

func (p *fakeProvider) Close() error {
	p.closed = true
	return nil
}

func newTestAIService(provider AIProvider) (*AIService, *mockUserRepo, *mockLessonRepo, *mockActivityRepo) {
	users := newMockUserRepo()
	lessons := newMockLessonRepo()
	activity := newMockActivityRepo()
	svc := NewAIService(config.AIConfig{}, NewActivityService(activity), users, lessons)
	if provider != nil {
		svc.SetProvider(provider, time.Second)
	}
	return svc, users, lessons, activity
}

func TestAIService_NotConfigured(t *testing.T) {
	svc, _, _, activity := newTestAIService(nil)
	if svc.Configured() {
		t.Fatal("Configured() = true without a key")
	}
	if _, err := svc.Critique(context.Background(), 1, "print(1)"); !errors.Is(err, util.ErrAINotConfigured) {
		t.Errorf("Critique() err = %v, want ErrAINotConfigured", err)
	}
	if _, err := svc.Explain(context.Background(), "print(1)"); !errors.Is(err, util.ErrAINotConfigured) {
		t.Errorf("Explain() err = %v, want ErrAINotConfigured", err)
	}
	if len(activity.logs) != 0 {
		t.Errorf("activity logged %d entries for failed requests", len(activity.logs))
	}
}

func TestAIService_Configure_PlaceholderKey(t *testing.T) {
	svc, _, _, _ := newTestAIService(nil)
	if err := svc.Configure(config.AIConfig{Provider: AIProviderGemini, GeminiKey: placeholderAPIKey}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if svc.Configured() {
		t.Error("placeholder key must leave the service unconfigured")
	}
	if err := svc.Configure(config.AIConfig{Provider: "claude"}); err == nil {
		t.Error("unknown provider accepted")
	}
	if err := svc.Configure(config.AIConfig{Provider: AIProviderOpenAI, BaseURL: "http://ai.local", APIKey: "k"}); err != nil || !svc.Configured() {
		t.Errorf("openai provider not configured: err = %v", err)
	}
}

func TestAIService_SetProvider_ClosesPrevious(t *testing.T) {
	first := &fakeProvider{}
	svc, _, _, _ := newTestAIService(first)
	svc.SetProvider(&fakeProvider{}, 0)
	if !first.closed {
		t.Error("replaced provider was not closed")
	}
}

func TestAIService_Critique_LogsExchange(t *testing.T) {
	provider := &fakeProvider{answer: "¿Qué valor tiene x antes del print?"}
	svc, _, _, activity := newTestAIService(provider)

	got, err := svc.Critique(context.Background(), 5, "print(x)")
	if err != nil {
		t.Fatalf("Critique() error = %v", err)
	}
	if got != provider.answer {
		t.Errorf("Critique() = %q, want provider answer", got)
	}
	if len(provider.prompts) != 1 || !strings.Contains(provider.prompts[0], "print(x)") {
		t.Errorf("prompt does not embed the code: %v", provider.prompts)
	}

	logs := activity.events(model.EventAIQueryAsked)
	if len(logs) != 1 || logs[0].UserID != 5 {
		t.Fatalf("AI_QUERY_ASKED logs = %+v", logs)
	}
	var details map[string]interface{}
	json.Unmarshal(logs[0].Details, &details)
	if details["code"] != "print(x)" || details["critique"] != provider.answer {
		t.Errorf("details = %v", details)
	}
	if details["codeLength"] != float64(8) || details["critiqueLength"] != float64(35) {
		t.Errorf("lengths = %v/%v, want 8/35 counted in characters", details["codeLength"], details["critiqueLength"])
	}
}

func TestAIService_Critique_Errors(t *testing.T) {
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	svc, _, _, activity := newTestAIService(provider)

	if _, err := svc.Critique(context.Background(), 1, "   "); !errors.Is(err, util.ErrEmptyContent) {
		t.Errorf("blank code err = %v, want ErrEmptyContent", err)
	}
	if len(provider.prompts) != 0 {
		t.Error("blank code reached the provider")
	}

	_, err := svc.Critique(context.Background(), 1, "x = 1")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("provider failure err = %v", err)
	}
	if len(activity.logs) != 0 {
		t.Error("failed critique was logged")
	}
}

func TestAIService_Ask(t *testing.T) {
	provider := &fakeProvider{answer: "Una lista guarda varios valores."}
	svc, _, lessons, activity := newTestAIService(provider)
	lesson := &model.Lesson{Title: "Listas", Content: strings.Repeat("a", 1500)}
	lessons.Create(lesson)

	if _, err := svc.Ask(context.Background(), 3, 99, "¿Qué es?"); !errors.Is(err, util.ErrLessonNotFound) {
		t.Errorf("missing lesson err = %v, want ErrLessonNotFound", err)
	}

	answer, err := svc.Ask(context.Background(), 3, lesson.ID, "¿Qué es una lista?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != provider.answer {
		t.Errorf("Ask() = %q", answer)
	}
	prompt := provider.prompts[len(provider.prompts)-1]
	if !strings.Contains(prompt, "Listas") || strings.Contains(prompt, strings.Repeat("a", 1001)) {
		t.Error("prompt must carry the lesson title and at most 1000 characters of content")
	}
	if got := len(activity.events(model.EventAIQueryAsked)); got != 1 {
		t.Errorf("AI_QUERY_ASKED events = %d, want 1", got)
	}
}

func TestAIService_Logs(t *testing.T) {
	provider := &fakeProvider{answer: "pista"}
	svc, users, _, activity := newTestAIService(provider)
	student := users.add("Ana", "ana@test.com", model.Student)

	svc.Critique(context.Background(), student.ID, "a = 1")
	svc.Critique(context.Background(), student.ID, "b = 2")
	activity.Create(&model.ActivityLog{UserID: student.ID, EventType: model.EventAIQueryAsked, Details: []byte("not json")})

	got, entries, err := svc.Logs(student.ID)
	if err != nil {
		t.Fatalf("Logs() error = %v", err)
	}
	if got.ID != student.ID {
		t.Errorf("Logs() student = %d", got.ID)
	}
	if len(entries) != 3 {
		t.Fatalf("Logs() returned %d entries, want 3", len(entries))
	}
	if entries[0].Kind != "" || entries[0].ID == 0 {
		t.Errorf("undecodable entry = %+v, want id only", entries[0])
	}
	if entries[1].Code != "b = 2" || entries[1].Kind != "critique" || entries[1].Answer != "pista" {
		t.Errorf("newest decoded entry = %+v", entries[1])
	}

	if _, _, err := svc.Logs(404); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("unknown student err = %v, want ErrUserNotFound", err)
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var gotAuth string
	var gotReq ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hola"}}]}`))
	}))
	defer srv.Close()

	p := &OpenAIProvider{BaseURL: srv.URL + "/v1/", APIKey: "secret", Model: "tutor-small"}
	answer, err := p.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if answer != "hola" {
		t.Errorf("Generate() = %q", answer)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "tutor-small" || len(gotReq.Messages) != 2 || gotReq.Messages[1].Content != "hi" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &OpenAIProvider{BaseURL: srv.URL, APIKey: "k"}
	if _, err := p.Generate(context.Background(), "hi"); err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("Generate() err = %v, want status 429", err)
	}
}
