// Package translate converts English explanations to the learner's language.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxChunkRunes keeps each request URL well under the endpoint's limit.
const maxChunkRunes = 1800

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// GoogleTranslator uses the public Google Translate endpoint with automatic
// source language detection.
type GoogleTranslator struct {
	baseURL    string
	target     string
	httpClient *http.Client
}

func NewGoogleTranslator(baseURL, target string) *GoogleTranslator {
	return &GoogleTranslator{
		baseURL: baseURL,
		target:  target,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Translate translates text chunk by chunk, keeping line breaks intact.
func (t *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	var out strings.Builder
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		translated, err := t.translateChunk(ctx, chunk)
		if err != nil {
			return "", err
		}
		out.WriteString(translated)
	}
	return out.String(), nil
}

func (t *GoogleTranslator) translateChunk(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", t.target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("translate returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return joinSegments(payload)
}

// joinSegments reads the translated text out of the nested array response:
// [[["translated", "source", ...], ...], null, "en", ...].
func joinSegments(payload []any) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}
	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translate response shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

// splitChunks cuts text into pieces of at most limit runes, preferring line
// boundaries. Concatenating the chunks gives back text.
func splitChunks(text string, limit int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		if currentLen+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()

	return chunks
}
