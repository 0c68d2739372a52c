package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"studyforge.io/backend/internal/config"
	"studyforge.io/backend/internal/store"
)

const (
	defaultNotesModelName = "gemini-2.0-flash"
	defaultQuizModelName  = "gemini-2.0-flash"

	notesPromptTemplate = "You are an expert educational content creator. Analyze the following text from " +
		"a presentation/document and create comprehensive, visually appealing study notes.\n\n" +
		"Return ONLY HTML (no markdown code fences). Requirements:\n" +
		"1. Semantic HTML with headings (h1, h2, h3)\n" +
		"2. Inline styles for color coding and highlighting\n" +
		"3. Use lists where appropriate, highlight important terms with <mark>\n" +
		"4. Make it scannable and easy to review\n\n" +
		"Content from \"%s\":\n%s"

	quizPromptTemplate = "You are an expert quiz creator. Analyze the given text and create a comprehensive " +
		"multiple-choice quiz.\n\n" +
		"Return ONLY valid JSON with this structure:\n" +
		"{\n" +
		"  \"title\": \"Short quiz title\",\n" +
		"  \"questions\": [\n" +
		"    {\n" +
		"      \"question\": \"Question text\",\n" +
		"      \"options\": [\"Option A\", \"Option B\", \"Option C\", \"Option D\"],\n" +
		"      \"correctAnswer\": 0,\n" +
		"      \"explanation\": \"Why this answer is correct\"\n" +
		"    }\n" +
		"  ]\n" +
		"}\n\n" +
		"Requirements:\n" +
		"1. Create 5-8 questions covering key concepts\n" +
		"2. Each question should have 4 options\n" +
		"3. Include a mix of difficulty levels\n" +
		"4. Focus on understanding, not memorization\n" +
		"5. Provide clear explanations for correct answers\n\n" +
		"Content from \"%s\":\n%s"
)

type GeneratedQuiz struct {
	Title     string               `json:"title"`
	Questions []store.QuizQuestion `json:"questions"`
}

// LLMService wraps the Gemini client for the two generation operations.
// Calls can take several seconds; each one is bounded by the configured
// wall-clock timeout.
type LLMService struct {
	client  *genai.Client
	timeout time.Duration
}

func NewLLMService() *LLMService {
	s := &LLMService{
		timeout: time.Duration(config.AppConfig.GenerationTimeout) * time.Second,
	}

	if config.AppConfig.GeminiAPIKey == "" {
		// Calls will fail with ErrNotConfigured before any remote work.
		return s
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}
	s.client = client
	return s
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// GenerateNotes produces an HTML study-notes document from extracted text.
func (s *LLMService) GenerateNotes(ctx context.Context, text, contextLabel string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	if s.client == nil {
		return "", ErrNotConfigured
	}

	prompt := fmt.Sprintf(notesPromptTemplate, contextLabel, text)
	raw, err := s.generate(ctx, defaultNotesModelName, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty response from model", ErrGenerationFailed)
	}
	return stripCodeFences(raw), nil
}

// GenerateQuiz produces a normalized multiple-choice quiz from extracted text.
func (s *LLMService) GenerateQuiz(ctx context.Context, text, contextLabel string) (*GeneratedQuiz, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	prompt := fmt.Sprintf(quizPromptTemplate, contextLabel, text)
	raw, err := s.generate(ctx, defaultQuizModelName, prompt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty response from model", ErrGenerationFailed)
	}

	var quiz GeneratedQuiz
	if err := decodeModelJSON(raw, &quiz); err != nil {
		return nil, err
	}
	normalizeQuiz(&quiz)
	return &quiz, nil
}

func (s *LLMService) generate(ctx context.Context, modelName, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model := s.client.GenerativeModel(modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: model returned no candidates", ErrGenerationFailed)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	return responseText.String(), nil
}

// stripCodeFences removes surrounding ```json ... ``` markup if present.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		// Drop the language tag line (e.g. "json")
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// decodeModelJSON is a two-stage parser over free-form model output: strict
// parse first, then a best-effort substring between the first '{' and the
// last '}' before giving up.
func decodeModelJSON(raw string, v any) error {
	text := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ErrInvalidModelResponse
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModelResponse, err)
	}
	return nil
}

// normalizeQuiz fills in defaults the model may omit and drops questions
// that violate the correct-answer index invariant.
func normalizeQuiz(quiz *GeneratedQuiz) {
	if quiz.Title == "" {
		quiz.Title = "Generated Quiz"
	}
	if quiz.Questions == nil {
		quiz.Questions = []store.QuizQuestion{}
	}

	valid := quiz.Questions[:0]
	for i, q := range quiz.Questions {
		if len(q.Options) == 0 || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			log.Printf("Dropping quiz question %d: correctAnswer %d out of range for %d options",
				i+1, q.CorrectAnswer, len(q.Options))
			continue
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("question_%d", i+1)
		}
		valid = append(valid, q)
	}
	quiz.Questions = valid
}
