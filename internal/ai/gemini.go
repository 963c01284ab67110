// Package ai wraps the Gemini REST API used to generate the snarky
// commentator replies attached to fan comments.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultModels is the static ordered fallback list. Each model is tried once
// in sequence; any failure (including quota errors) moves on to the next.
var DefaultModels = []string{
	"models/gemini-2.5-flash-lite-preview-09-2025",
	"models/gemini-2.5-flash-preview-09-2025",
	"models/gemini-2.0-flash-lite-001",
	"models/gemini-2.0-flash",
	"models/gemini-flash-latest",
}

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config holds everything the commentator client needs. It is injected at
// construction time instead of read from globals.
type Config struct {
	APIKey          string
	BaseURL         string
	Models          []string
	AttemptTimeout  time.Duration // per-model request timeout
	OverallTimeout  time.Duration // deadline across the whole fallback chain
	MaxOutputTokens int
	Temperature     float64
}

// LoadConfig builds a Config from environment variables
func LoadConfig() Config {
	cfg := Config{
		APIKey:          os.Getenv("GEMINI_API_KEY"),
		BaseURL:         defaultBaseURL,
		Models:          DefaultModels,
		AttemptTimeout:  15 * time.Second,
		OverallTimeout:  45 * time.Second,
		MaxOutputTokens: 90,
		Temperature:     0.7,
	}
	if models := os.Getenv("GEMINI_MODELS"); models != "" {
		cfg.Models = strings.Split(models, ",")
	}
	return cfg
}

// Client calls the Gemini generateContent endpoint
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a Gemini client from the given config
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if len(config.Models) == 0 {
		config.Models = DefaultModels
	}
	if config.AttemptTimeout <= 0 {
		config.AttemptTimeout = 15 * time.Second
	}
	if config.OverallTimeout <= 0 {
		config.OverallTimeout = 45 * time.Second
	}
	if config.MaxOutputTokens <= 0 {
		config.MaxOutputTokens = 90
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.AttemptTimeout},
	}
}

// generateContent request/response wire format

type generateRequest struct {
	Contents          []content       `json:"contents"`
	GenerationConfig  generationCfg   `json:"generationConfig"`
	SystemInstruction *systemContents `json:"system_instruction,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type systemContents struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationCfg struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

const systemInstruction = "Jesteś ironicznym, szyderczym administratorem strony o polskiej " +
	"Ekstraklasie \"Grill Ekstraklasa\". Odpowiadasz krótko (1-2 zdania) na komentarz kibica."

func buildPrompt(userComment, playerName, userName string) string {
	return fmt.Sprintf(`Twój cel to skomentowanie wpisu użytkownika pod profilem piłkarza.

Kontekst:
- Piłkarz: %s
- Użytkownik: %s
- Komentarz użytkownika: "%s"

Instrukcje:
1. Napisz krótką, błyskotliwą odpowiedź (max 2 zdania).
2. Styl: "szydera", ironia, polski humor piłkarski, ton eksperta z kanapy.
3. NIE obrażaj wulgarnie użytkownika ani piłkarza, ale bądź uszczypliwy.
4. Odnieś się do treści komentarza.

Twoja odpowiedź (sam tekst odpowiedzi):`, playerName, userName, userComment)
}

// GenerateCommentResponse produces a short snarky reply to a fan comment.
// It walks the configured model list until one succeeds, bounded by the
// overall timeout. An empty string means every attempt failed; callers must
// treat that as "no AI reply", never as an error.
func (c *Client) GenerateCommentResponse(ctx context.Context, userComment, playerName, userName string) string {
	if c.config.APIKey == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.OverallTimeout)
	defer cancel()

	prompt := buildPrompt(userComment, playerName, userName)
	for _, model := range c.config.Models {
		text, err := c.generate(ctx, model, prompt)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("AI fallback chain aborted: %v", ctx.Err())
				return ""
			}
			log.Printf("AI model %s failed: %v", model, err)
			continue
		}
		return cleanResponse(text)
	}
	return ""
}

// generate performs a single generateContent call against one model
func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationCfg{
			MaxOutputTokens: c.config.MaxOutputTokens,
			Temperature:     c.config.Temperature,
		},
		SystemInstruction: &systemContents{Parts: []part{{Text: systemInstruction}}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.config.BaseURL, model, c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("blank text from model")
	}
	return text, nil
}

// cleanResponse strips the prefixes some models like to prepend
func cleanResponse(text string) string {
	for _, prefix := range []string{"Komentarz AI:", "AI:"} {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(text, prefix))
		}
	}
	return text
}
