package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/perguntaquedoi/api/models"
)

const generatorPrompt = `Gere uma pergunta de reflexão cristã profunda para o dia %s.
A pergunta deve ser minimalista, desconfortável, focar em honestidade emocional e vulnerabilidade.
Não use clichês evangélicos. Foque na psicologia da alma à luz das Escrituras.
Retorne JSON com os campos "text" (a pergunta) e "verse_reference" (Livro Capítulo:Versículo).`

// QuestionGenerator calls an OpenAI-compatible chat completions endpoint to
// produce the question of the day when none is scheduled. Generation is
// seeded from the date so repeated calls for the same day are reproducible
// where the backing model honors seeding.
type QuestionGenerator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewQuestionGenerator builds a generator client. An empty apiKey produces a
// client whose calls always fail, pushing the provider to its fallback tier.
func NewQuestionGenerator(baseURL, apiKey, model string, timeout time.Duration) *QuestionGenerator {
	return &QuestionGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// DateSeed derives the deterministic generation seed from a YYYY-MM-DD date.
func DateSeed(date string) int64 {
	digits := strings.ReplaceAll(date, "-", "")
	seed, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return seed
}

// GenerateQuestion asks the model for a question-and-verse pair for the given
// date. Any failure (transport, status, malformed output) is returned to the
// caller, which substitutes the hardcoded fallback question.
func (g *QuestionGenerator) GenerateQuestion(ctx context.Context, date string) (models.Question, error) {
	if g.apiKey == "" {
		return models.Question{}, errors.New("generator api key not configured")
	}

	payload := map[string]any{
		"model":       g.model,
		"temperature": 0.8,
		"seed":        DateSeed(date),
		"messages": []map[string]string{
			{"role": "user", "content": fmt.Sprintf(generatorPrompt, date)},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.Question{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return models.Question{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return models.Question{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return models.Question{}, fmt.Errorf("generator returned status %d: %s", resp.StatusCode, string(b))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cc); err != nil {
		return models.Question{}, err
	}
	if len(cc.Choices) == 0 {
		return models.Question{}, errors.New("generator returned no choices")
	}

	var out struct {
		Text           string `json:"text"`
		VerseReference string `json:"verse_reference"`
	}
	if err := json.Unmarshal([]byte(cc.Choices[0].Message.Content), &out); err != nil {
		return models.Question{}, fmt.Errorf("invalid JSON from model: %w", err)
	}

	if out.Text == "" {
		out.Text = "O que você está escondendo de si mesmo hoje?"
	}
	if out.VerseReference == "" {
		out.VerseReference = "Hebreus 4:13"
	}

	return models.Question{
		ID:             models.QuestionIDGeneratedPrefix + date,
		Text:           out.Text,
		ScheduledFor:   date,
		VerseReference: out.VerseReference,
	}, nil
}
