package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/codeready-toolchain/tarsy/pkg/observability"
)

// HTTPAdapter implements Adapter over OpenRouter's chat-completions-style
// HTTP API (baseURL defaults to OPENROUTER_API_URL, spec §6).
type HTTPAdapter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	meter      observability.Meter
}

// NewHTTPAdapter creates an adapter against baseURL, authenticating with
// apiKey. httpClient may be nil, in which case a client with a generous
// top-level timeout is created — per-call deadlines are still enforced via
// context by Query/QueryParallel.
func NewHTTPAdapter(baseURL, apiKey string, httpClient *http.Client) *HTTPAdapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &HTTPAdapter{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient, meter: observability.NoopMeter{}}
}

// WithMeter attaches meter so every Query/QueryParallel call records a
// per-model outcome. Returns the adapter for chaining at construction time.
func (a *HTTPAdapter) WithMeter(meter observability.Meter) *HTTPAdapter {
	a.meter = meter
	return a
}

type chatCompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		OutputTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Query sends messages to model over HTTP and parses the first choice's
// content as the reply. A ctx without its own deadline gets one bounded by
// queryTimeout.
func (a *HTTPAdapter) Query(ctx context.Context, model string, messages []Message, maxTokens int) (*Response, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, queryTimeout)
		defer cancel()
	}

	start := time.Now()

	body, err := json.Marshal(chatCompletionRequest{Model: model, Messages: messages, MaxTokens: maxTokens})
	if err != nil {
		return nil, &UpstreamError{Model: model, Kind: ErrKindMalformed, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &UpstreamError{Model: model, Kind: ErrKindTransport, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			a.meter.ModelQuery(ctx, model, false)
			return nil, &UpstreamError{Model: model, Kind: ErrKindTimeout, Cause: ctx.Err()}
		}
		a.meter.ModelQuery(ctx, model, false)
		return nil, &UpstreamError{Model: model, Kind: ErrKindTransport, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		a.meter.ModelQuery(ctx, model, false)
		return nil, &UpstreamError{Model: model, Kind: ErrKindTransport, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		a.meter.ModelQuery(ctx, model, false)
		return nil, &UpstreamError{Model: model, Kind: ErrKindHTTP, StatusCode: resp.StatusCode, Cause: fmt.Errorf("%s", string(respBody))}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		a.meter.ModelQuery(ctx, model, false)
		return nil, &UpstreamError{Model: model, Kind: ErrKindMalformed, Cause: err}
	}
	if len(parsed.Choices) == 0 {
		a.meter.ModelQuery(ctx, model, false)
		return nil, &UpstreamError{Model: model, Kind: ErrKindMalformed, Cause: fmt.Errorf("response contained no choices")}
	}

	a.meter.ModelQuery(ctx, model, true)
	return &Response{
		Model:        model,
		Content:      parsed.Choices[0].Message.Content,
		LatencyMs:    time.Since(start).Milliseconds(),
		PromptTokens: parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.OutputTokens,
	}, nil
}

// QueryParallel dispatches one goroutine per model, grounded on
// pkg/agent/orchestrator/runner.go's SubAgentRunner: each goroutine
// delivers its outcome to a buffered channel sized to len(models) so no
// goroutine ever blocks on a slow consumer, and a per-model failure never
// prevents the other models' results from being collected (spec §4.2).
func (a *HTTPAdapter) QueryParallel(ctx context.Context, models []string, messages []Message, maxTokens int) (map[string]*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resultsCh := make(chan ModelResult, len(models))

	var wg sync.WaitGroup
	for _, model := range models {
		wg.Add(1)
		go func(model string) {
			defer wg.Done()
			resp, err := a.Query(ctx, model, messages, maxTokens)
			resultsCh <- ModelResult{Model: model, Response: resp, Err: err}
		}(model)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	out := make(map[string]*Response, len(models))
	for result := range resultsCh {
		if result.Err != nil {
			slog.Warn("model query failed", "model", result.Model, "error", result.Err)
			out[result.Model] = nil
			continue
		}
		out[result.Model] = result.Response
	}
	return out, nil
}
