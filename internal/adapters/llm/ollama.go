// Package llm provides the Ollama completion adapter.
// Clean Architecture: Adapter implementing ports.CompletionService.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/obrienkev/clara-go/internal/domain/ports"
)

// OllamaAdapter implements ports.CompletionService using the Ollama API.
type OllamaAdapter struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaAdapter creates a new Ollama completion adapter.
func NewOllamaAdapter(baseURL, model string) *OllamaAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "phi3:mini"
	}
	return &OllamaAdapter{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second, // Longer timeout for streaming
		},
	}
}

// Model returns the configured model identifier.
func (a *OllamaAdapter) Model() string { return a.model }

// ollamaGenerateRequest is the Ollama generate API request.
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// ollamaGenerateResponse is one chunk of the Ollama generate API response.
type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GenerateStream produces a streaming response via Ollama's NDJSON API.
//
// The returned channel always terminates normally: any transport or decode
// failure is surfaced as a single human-readable error fragment so the
// moderation pipeline downstream runs unchanged on that text.
func (a *OllamaAdapter) GenerateStream(ctx context.Context, prompt string) <-chan ports.StreamToken {
	ch := make(chan ports.StreamToken, 100)

	reqBody := ollamaGenerateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: true,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return errorStream(ch, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return errorStream(ch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return errorStream(ch, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return errorStream(ch, fmt.Errorf("Ollama returned status %d", resp.StatusCode))
	}

	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				ch <- errorToken(ctx.Err())
				return
			default:
			}

			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var chunk ollamaGenerateResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				continue // Skip malformed lines
			}

			ch <- ports.StreamToken{Content: chunk.Response, Done: chunk.Done}

			if chunk.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			ch <- errorToken(err)
		}
	}()

	return ch
}

// errorStream emits a single visible error fragment and closes the channel.
func errorStream(ch chan ports.StreamToken, err error) <-chan ports.StreamToken {
	ch <- errorToken(err)
	close(ch)
	return ch
}

func errorToken(err error) ports.StreamToken {
	return ports.StreamToken{
		Content: fmt.Sprintf("⚠️ Error connecting to model: %v", err),
		Done:    true,
	}
}
