package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"python_tutor_backend/internal/config"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"python_tutor_backend/pkg/logger"
	"python_tutor_backend/pkg/monitoring"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

const (
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"

	lessonContextLimit = 1000
	placeholderAPIKey  = "your-gemini-api-key-here"
)

// AIProvider sends one prompt to a generative model and returns its text answer.
type AIProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.GenerativeModel(p.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini returned an empty answer")
	}
	return sb.String(), nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAIProvider talks to any endpoint implementing the OpenAI chat completions API.
type OpenAIProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: p.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: "Eres un tutor de Python para estudiantes de secundaria."},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(p.BaseURL, "/")+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", errors.New(result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("AI returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// aiLogDetails is the JSON stored in AI_QUERY_ASKED activity entries.
type aiLogDetails struct {
	Kind           string    `json:"kind"`
	Code           string    `json:"code,omitempty"`
	Question       string    `json:"question,omitempty"`
	LessonID       uint      `json:"lessonId,omitempty"`
	Critique       string    `json:"critique"`
	CodeLength     int       `json:"codeLength"`
	CritiqueLength int       `json:"critiqueLength"`
	Timestamp      time.Time `json:"timestamp"`
}

type AIService struct {
	mu       sync.RWMutex
	provider AIProvider
	timeout  time.Duration

	Activity   *ActivityService
	UserRepo   UserStore
	LessonRepo LessonStore
}

func NewAIService(cfg config.AIConfig, activity *ActivityService, userRepo UserStore, lessonRepo LessonStore) *AIService {
	s := &AIService{Activity: activity, UserRepo: userRepo, LessonRepo: lessonRepo}
	if err := s.Configure(cfg); err != nil {
		logger.Log.Warn("AI provider not available", zap.Error(err))
	}
	return s
}

// Configure swaps the provider. A missing key leaves the service unconfigured rather than failing.
func (s *AIService) Configure(cfg config.AIConfig) error {
	var (
		provider AIProvider
		err      error
	)

	switch cfg.Provider {
	case AIProviderOpenAI:
		if cfg.APIKey != "" && cfg.BaseURL != "" {
			provider = &OpenAIProvider{
				BaseURL: cfg.BaseURL,
				APIKey:  cfg.APIKey,
				Model:   cfg.Model,
				Client:  &http.Client{},
			}
		}
	case AIProviderGemini, "":
		key := cfg.GeminiKey
		if key == "" {
			key = cfg.APIKey
		}
		if key != "" && key != placeholderAPIKey {
			provider, err = NewGeminiProvider(context.Background(), key, cfg.Model)
		}
	default:
		err = fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
	if err != nil {
		provider = nil
	}

	s.SetProvider(provider, cfg.Timeout)
	return err
}

func (s *AIService) SetProvider(provider AIProvider, timeout time.Duration) {
	s.mu.Lock()
	old := s.provider
	s.provider = provider
	s.timeout = timeout
	s.mu.Unlock()

	if closer, ok := old.(io.Closer); ok && old != provider {
		closer.Close()
	}
}

func (s *AIService) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider != nil
}

func (s *AIService) generate(ctx context.Context, kind, prompt string) (string, error) {
	s.mu.RLock()
	provider, timeout := s.provider, s.timeout
	s.mu.RUnlock()

	if provider == nil {
		return "", util.ErrAINotConfigured
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := provider.Generate(ctx, prompt)
	monitoring.AIRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.AIRequests.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("%s request: %w", kind, err)
	}
	monitoring.AIRequests.WithLabelValues(kind, "ok").Inc()
	return answer, nil
}

// Critique asks for one formative hint about the student's code and logs the exchange.
func (s *AIService) Critique(ctx context.Context, userID uint, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", util.ErrEmptyContent
	}

	critique, err := s.generate(ctx, "critique", CritiquePrompt(code))
	if err != nil {
		return "", err
	}

	s.Activity.Record(userID, model.EventAIQueryAsked, aiLogDetails{
		Kind:           "critique",
		Code:           code,
		Critique:       critique,
		CodeLength:     utf8.RuneCountInString(code),
		CritiqueLength: utf8.RuneCountInString(critique),
		Timestamp:      time.Now(),
	})
	return critique, nil
}

func (s *AIService) Explain(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", util.ErrEmptyContent
	}
	return s.generate(ctx, "explain", ExplainPrompt(code))
}

// Ask answers a student question in the context of one lesson.
func (s *AIService) Ask(ctx context.Context, userID, lessonID uint, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", util.ErrEmptyContent
	}

	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrLessonNotFound
		}
		return "", err
	}

	answer, err := s.generate(ctx, "ask", AskPrompt(lesson.Title, lesson.Content, question))
	if err != nil {
		return "", err
	}

	s.Activity.Record(userID, model.EventAIQueryAsked, aiLogDetails{
		Kind:           "ask",
		Question:       question,
		LessonID:       lessonID,
		Critique:       answer,
		CodeLength:     0,
		CritiqueLength: utf8.RuneCountInString(answer),
		Timestamp:      time.Now(),
	})
	return answer, nil
}

// Logs returns the student's AI interactions newest first. Entries whose details cannot be decoded keep their id and time.
func (s *AIService) Logs(studentID uint) (*model.User, []model.AILogEntry, error) {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, err
	}

	logs, err := s.Activity.Repo.FindByUserAndType(studentID, model.EventAIQueryAsked)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]model.AILogEntry, 0, len(logs))
	for _, l := range logs {
		entry := model.AILogEntry{ID: l.ID, CreatedAt: l.CreatedAt}
		var details aiLogDetails
		if err := json.Unmarshal(l.Details, &details); err != nil {
			logger.Log.Warn("Undecodable AI log details", zap.Uint("logId", l.ID), zap.Error(err))
		} else {
			entry.Kind = details.Kind
			if entry.Kind == "" {
				entry.Kind = "critique"
			}
			entry.Code = details.Code
			entry.Question = details.Question
			entry.Answer = details.Critique
			entry.CodeLength = details.CodeLength
			entry.CritiqueLength = details.CritiqueLength
		}
		entries = append(entries, entry)
	}
	return student, entries, nil
}

func CritiquePrompt(code string) string {
	return fmt.Sprintf(`Eres un tutor de Python paciente y constructivo. Un estudiante de 15 años escribió este código:

`+"```python\n%s\n```"+`

Haz una evaluación formativa: no escribas la solución ni el código corregido.
Da UNA sola pista o una pregunta clave que le ayude a encontrar el problema por sí mismo.
Responde en español, en 2 o 3 oraciones como máximo y con un tono alentador.`, code)
}

func ExplainPrompt(code string) string {
	return fmt.Sprintf("Explica este código Python de forma sencilla para un principiante de 15 años, con ejemplos cercanos:\n\n```python\n%s\n```", code)
}

func AskPrompt(lessonTitle, lessonContent, question string) string {
	if utf8.RuneCountInString(lessonContent) > lessonContextLimit {
		lessonContent = string([]rune(lessonContent)[:lessonContextLimit])
	}
	return fmt.Sprintf(`Eres un tutor de Python para estudiantes de 15 años.

Lección: "%s"
---
%s
---

Responde de forma clara y amable a la pregunta del estudiante: "%s"
Usa ejemplos sencillos y un tono cercano.`, lessonTitle, lessonContent, question)
}
