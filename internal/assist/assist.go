// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assist turns trivia-domain requests (generate questions, classify
// them into subcategories, translate content) into single-turn LLM calls and
// parses the JSON the model returns back into domain values. It performs no
// retries and no caching: every failure surfaces as one sentinel error.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gameoftrivia/internal/ai"
	"gameoftrivia/internal/i18n"
	"gameoftrivia/internal/metrics"
	"gameoftrivia/internal/models"
)

var (
	ErrGenerationFailed     = errors.New("question generation failed")
	ErrTranslationFailed    = errors.New("translation failed")
	ErrClassificationFailed = errors.New("subcategory classification failed")
)

const (
	// MaxGenerate caps the number of questions a single generation call may request.
	MaxGenerate = 10
	// DefaultGenerate is used when the caller asks for zero or fewer questions.
	DefaultGenerate = 5
	// ClassifyBatchSize bounds the number of questions sent in one
	// classification prompt.
	ClassifyBatchSize = 20
)

var (
	generateTemperature  = 0.8
	precisionTemperature = 0.2
)

// Completer is the subset of *ai.Registry the gateway needs.
type Completer interface {
	Complete(ctx context.Context, req ai.Request) (string, error)
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// FlaggedError is returned when the moderation check rejects a free-text
// generation topic.
type FlaggedError struct {
	Categories []string
}

func (e *FlaggedError) Error() string {
	return "topic flagged for: " + strings.Join(e.Categories, ", ")
}

// Gateway issues AI requests on behalf of the admin tools.
type Gateway struct {
	ai      Completer
	metrics *metrics.Metrics
}

// New creates a Gateway. m may be nil.
func New(c Completer, m *metrics.Metrics) *Gateway {
	return &Gateway{ai: c, metrics: m}
}

// --- Generation ---

// ExistingQuestion is a question already in the catalogue, listed in the
// prompt so the model avoids duplicating it.
type ExistingQuestion struct {
	QuestionText string
	Answer       string
}

// GenerateRequest describes a batch of questions to generate.
type GenerateRequest struct {
	CategoryName     string
	Count            int
	Existing         []ExistingQuestion
	SubcategoryNames []string
	// Topic optionally narrows the batch to a theme inside the category.
	Topic string
}

// GeneratedQuestion is one candidate question returned by the model.
// Subcategory is the model's free-text label and may match no known name.
type GeneratedQuestion struct {
	QuestionText string            `json:"questionText"`
	Answer       string            `json:"answer"`
	Difficulty   models.Difficulty `json:"difficulty"`
	DidYouKnow   string            `json:"didYouKnow"`
	Subcategory  string            `json:"subcategory,omitempty"`
}

// ClampCount limits n to [1, MaxGenerate], using DefaultGenerate for n <= 0.
func ClampCount(n int) int {
	switch {
	case n <= 0:
		return DefaultGenerate
	case n > MaxGenerate:
		return MaxGenerate
	}
	return n
}

// GenerateQuestions asks the model for up to req.Count new questions.
// Candidates with an empty question or answer are dropped and an unknown
// difficulty is replaced by "intermediate".
func (g *Gateway) GenerateQuestions(ctx context.Context, req GenerateRequest) ([]GeneratedQuestion, error) {
	count := ClampCount(req.Count)
	topic := strings.TrimSpace(req.Topic)

	if topic != "" {
		if err := g.checkTopic(ctx, topic); err != nil {
			return nil, err
		}
	}

	user := fmt.Sprintf("Generate %d trivia questions in the category %q.", count, req.CategoryName)
	if topic != "" {
		user += fmt.Sprintf(" Focus on this topic: %q.", topic)
	}

	text, err := g.ai.Complete(ctx, ai.Request{
		System:      generationPrompt(req.SubcategoryNames, req.Existing),
		User:        user,
		JSON:        true,
		Temperature: &generateTemperature,
	})
	if err != nil {
		return nil, g.fail("generate", ErrGenerationFailed, err)
	}

	var parsed struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := decodeJSON(text, &parsed); err != nil {
		return nil, g.fail("generate", ErrGenerationFailed, err)
	}

	out := make([]GeneratedQuestion, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		q.QuestionText = strings.TrimSpace(q.QuestionText)
		q.Answer = strings.TrimSpace(q.Answer)
		q.DidYouKnow = strings.TrimSpace(q.DidYouKnow)
		q.Subcategory = strings.TrimSpace(q.Subcategory)
		if q.QuestionText == "" || q.Answer == "" {
			continue
		}
		if !q.Difficulty.Valid() {
			q.Difficulty = models.DifficultyIntermediate
		}
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	if len(out) == 0 {
		return nil, g.fail("generate", ErrGenerationFailed, errors.New("no usable questions in response"))
	}
	return out, nil
}

func generationPrompt(subcategoryNames []string, existing []ExistingQuestion) string {
	var sb strings.Builder
	sb.WriteString(`You are a trivia question generator. Generate unique, interesting trivia questions with clear, unambiguous answers. Return JSON with a "questions" array.

Each question object must have:
- "questionText": the question (clear, concise)
- "answer": the correct answer (short, factual: a name, number, place, etc.)
- "difficulty": one of "easy", "intermediate", or "difficult"
- "didYouKnow": a fun fact related to the answer (2-3 sentences, engaging and educational)`)

	if len(subcategoryNames) > 0 {
		quoted := make([]string, len(subcategoryNames))
		for i, n := range subcategoryNames {
			quoted[i] = fmt.Sprintf("%q", n)
		}
		sb.WriteString("\n- \"subcategory\": one of the following subcategories that best fits the question: ")
		sb.WriteString(strings.Join(quoted, ", "))
		sb.WriteString(". Pick the most relevant one for each question.")
	}

	sb.WriteString("\n\nMix difficulties across the batch. Avoid overly obscure questions for \"easy\". Ensure answers are definitively correct.")

	if len(existing) > 0 {
		sb.WriteString("\n\nIMPORTANT: The following questions already exist in the database. Do NOT generate any questions that are the same or very similar to these (same topic/answer):")
		for _, q := range existing {
			fmt.Fprintf(&sb, "\n- Q: %q A: %q", q.QuestionText, q.Answer)
		}
	}
	return sb.String()
}

// checkTopic runs the free-text topic through moderation. A moderation
// outage lets the topic through; providers apply their own filters.
func (g *Gateway) checkTopic(ctx context.Context, topic string) error {
	result, err := g.ai.CheckPrompt(ctx, topic)
	if err != nil {
		slog.Warn("moderation check failed, allowing topic", "error", err)
		return nil
	}
	if result.Safe {
		return nil
	}
	slog.Warn("generation topic flagged by moderation", "categories", strings.Join(result.Categories, ", "))
	return &FlaggedError{Categories: result.Categories}
}

// --- Classification ---

// ClassifyInput is one question to place into a subcategory.
type ClassifyInput struct {
	ID           int64  `json:"id"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
}

// Classification is the model's subcategory label for one question.
type Classification struct {
	ID          int64  `json:"id"`
	Subcategory string `json:"subcategory"`
}

// ClassifySubcategories asks the model to pick one of subcategoryNames for
// each question. Results for IDs that were not in the input are dropped.
// Callers are expected to send at most ClassifyBatchSize questions.
func (g *Gateway) ClassifySubcategories(ctx context.Context, questions []ClassifyInput, categoryName string, subcategoryNames []string) ([]Classification, error) {
	if len(questions) == 0 {
		return nil, nil
	}
	if len(subcategoryNames) == 0 {
		return nil, fmt.Errorf("%w: no subcategories to choose from", ErrClassificationFailed)
	}

	quoted := make([]string, len(subcategoryNames))
	for i, n := range subcategoryNames {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	system := fmt.Sprintf(`You classify trivia questions of the category %q into subcategories. The available subcategories are: %s.

For each question pick exactly one subcategory from that list, spelled exactly as given. Return JSON of the form {"results": [{"id": <question id>, "subcategory": "<name>"}]} with one entry per question.`,
		categoryName, strings.Join(quoted, ", "))

	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("marshal classification input: %w", err)
	}

	text, err := g.ai.Complete(ctx, ai.Request{
		System:      system,
		User:        "Questions:\n" + string(payload),
		JSON:        true,
		Temperature: &precisionTemperature,
	})
	if err != nil {
		return nil, g.fail("classify", ErrClassificationFailed, err)
	}

	var parsed struct {
		Results []Classification `json:"results"`
	}
	if err := decodeJSON(text, &parsed); err != nil {
		return nil, g.fail("classify", ErrClassificationFailed, err)
	}

	known := make(map[int64]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	out := make([]Classification, 0, len(parsed.Results))
	for _, c := range parsed.Results {
		if !known[c.ID] {
			continue
		}
		c.Subcategory = strings.TrimSpace(c.Subcategory)
		out = append(out, c)
	}
	return out, nil
}

// --- Translation ---

// QuestionFields are the translatable fields of a question.
type QuestionFields struct {
	QuestionText string  `json:"questionText"`
	Answer       string  `json:"answer"`
	DidYouKnow   *string `json:"didYouKnow"`
}

// TranslateQuestion translates every field of a question into lang. A nil
// DidYouKnow stays nil.
func (g *Gateway) TranslateQuestion(ctx context.Context, fields QuestionFields, lang i18n.Lang) (*QuestionFields, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal translation input: %w", err)
	}

	text, err := g.ai.Complete(ctx, ai.Request{
		System:      translationPrompt(lang) + ` Return JSON with exactly the keys "questionText", "answer" and "didYouKnow". If "didYouKnow" is null, return null for it.`,
		User:        string(payload),
		JSON:        true,
		Temperature: &precisionTemperature,
	})
	if err != nil {
		return nil, g.fail("translate", ErrTranslationFailed, err)
	}

	var out QuestionFields
	if err := decodeJSON(text, &out); err != nil {
		return nil, g.fail("translate", ErrTranslationFailed, err)
	}
	out.QuestionText = strings.TrimSpace(out.QuestionText)
	out.Answer = strings.TrimSpace(out.Answer)
	if out.QuestionText == "" || out.Answer == "" {
		return nil, g.fail("translate", ErrTranslationFailed, errors.New("empty translated field"))
	}
	if fields.DidYouKnow == nil {
		out.DidYouKnow = nil
	}
	return &out, nil
}

// TranslateText translates a single short value, such as a category name.
func (g *Gateway) TranslateText(ctx context.Context, value string, lang i18n.Lang) (string, error) {
	text, err := g.ai.Complete(ctx, ai.Request{
		System:      translationPrompt(lang) + ` Return JSON of the form {"translation": "<text>"}.`,
		User:        value,
		JSON:        true,
		Temperature: &precisionTemperature,
	})
	if err != nil {
		return "", g.fail("translate", ErrTranslationFailed, err)
	}

	var parsed struct {
		Translation string `json:"translation"`
	}
	if err := decodeJSON(text, &parsed); err != nil {
		return "", g.fail("translate", ErrTranslationFailed, err)
	}
	out := strings.TrimSpace(parsed.Translation)
	if out == "" {
		return "", g.fail("translate", ErrTranslationFailed, errors.New("empty translation"))
	}
	return out, nil
}

func translationPrompt(lang i18n.Lang) string {
	return fmt.Sprintf("You are a professional translator for a trivia website. Translate the given text from English to %s. Preserve factual content, numbers and proper nouns; keep the tone natural for a quiz.", lang.Name())
}

// --- Helpers ---

func (g *Gateway) fail(op string, sentinel, err error) error {
	g.metrics.IncrementAIFailure(op)
	return fmt.Errorf("%w: %v", sentinel, err)
}

// decodeJSON unmarshals a model response, tolerating a surrounding
// markdown code fence.
func decodeJSON(text string, v any) error {
	text = stripCodeFence(text)
	if text == "" {
		return errors.New("empty response")
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.Index(s, "\n"); nl != -1 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
