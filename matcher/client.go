package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client клиент функции сверки курортов (reconcile endpoint)
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientConfig конфигурация клиента
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
}

// NewClient создает новый клиент сверки
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(200 * time.Millisecond)
	}

	return &Client{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
	}
}

// Preview сверяет одну партию кандидатов с базой.
// Размер партии ограничен MaxBatchSize.
func (c *Client) Preview(ctx context.Context, resorts []PreviewResort) (*PreviewResults, error) {
	if len(resorts) == 0 {
		return &PreviewResults{}, nil
	}
	if len(resorts) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(resorts), MaxBatchSize)
	}

	req := PreviewRequest{Action: "preview", Resorts: resorts}
	var resp PreviewResponse
	if err := c.post(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("preview request failed: %w", err)
	}

	return &resp.Results, nil
}

// Import записывает одну партию (новые курорты + обновления)
func (c *Client) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	req.Action = "import"
	var result ImportResult
	if err := c.post(ctx, req, &result); err != nil {
		return nil, fmt.Errorf("import request failed: %w", err)
	}
	return &result, nil
}

// ListPlaceholders получает список URL изображений-заглушек
func (c *Client) ListPlaceholders(ctx context.Context) ([]string, error) {
	req := map[string]string{"action": "list_placeholders"}
	var resp PlaceholdersResponse
	if err := c.post(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("list_placeholders request failed: %w", err)
	}
	return resp.URLs, nil
}

// post выполняет POST с JSON-телом и разбирает JSON-ответ
func (c *Client) post(ctx context.Context, body interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
