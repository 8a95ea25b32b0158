package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appconfig "recipebook/config"
	"recipebook/models"
)

// RecipeRanker orders search matches by relevance. Callers must treat it as
// best effort: on any error they fall back to the unranked match set.
type RecipeRanker interface {
	Rank(ctx context.Context, terms []string, recipes []models.Recipe) ([]uint, error)
}

// RankerService talks to an Ollama-compatible chat endpoint.
type RankerService struct {
	client  *http.Client
	baseURL string
	model   string
}

func NewRankerService(cfg *appconfig.Config) *RankerService {
	return &RankerService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(cfg.OllamaURL, "/"),
		model:   cfg.OllamaModel,
	}
}

type rankCandidate struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Category    string   `json:"category"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Rank asks the model to order the candidates and returns the id sequence
// from its reply. The reply must be a JSON array of ids; anything else is
// an error and the caller keeps the database order.
func (r *RankerService) Rank(ctx context.Context, terms []string, recipes []models.Recipe) ([]uint, error) {
	candidates := make([]rankCandidate, 0, len(recipes))
	for _, rec := range recipes {
		candidates = append(candidates, rankCandidate{
			ID:          rec.ID,
			Title:       rec.Title,
			Ingredients: rec.Ingredients,
			Category:    rec.Category,
		})
	}

	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`The user searched for: %q.
Here are possible recipes:
%s

Task:
- Rank the recipes from most relevant to least relevant.
- Return ONLY an array of recipe IDs in JSON.
Example: [3, 1, 2]`, strings.Join(terms, ", "), data)

	body, err := json.Marshal(chatRequest{
		Model:    r.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ranker request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ranker response error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ranker api error (%d): %s", resp.StatusCode, respBytes)
	}

	var out chatResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return nil, fmt.Errorf("decode ranker response error: %w", err)
	}

	return parseRankedIDs(out.Message.Content)
}

// parseRankedIDs reads the model reply as a JSON array of ids. Models wrap
// answers in code fences often enough that those get stripped first; ids
// may come back as numbers or strings.
func parseRankedIDs(content string) ([]uint, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw []json.Number
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		// retry with string elements
		var strIDs []string
		if err2 := json.Unmarshal([]byte(content), &strIDs); err2 != nil {
			return nil, fmt.Errorf("ranker reply is not a JSON id array: %w", err)
		}
		raw = raw[:0]
		for _, s := range strIDs {
			raw = append(raw, json.Number(s))
		}
	}

	ids := make([]uint, 0, len(raw))
	for _, n := range raw {
		v, err := n.Int64()
		if err != nil || v <= 0 {
			continue
		}
		ids = append(ids, uint(v))
	}
	return ids, nil
}
