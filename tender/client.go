package tender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

const credentialHeader = "X-API-Key"

// APIError is a non-2xx response from the backend. Detail carries the
// "detail" string from the error body when the backend supplied one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Client talks to the document analysis backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger

	mu     sync.RWMutex
	apiKey string
}

// NewClient builds a client from configuration. The configured timeout
// is the only one in play; this layer adds no deadlines of its own.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		log:        log,
		apiKey:     cfg.APIKey,
	}
}

// SetAPIKey updates the credential attached to analyze and ask
// requests. An empty key means none is sent.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// Analyze uploads a document and returns the backend's analysis of it.
func (c *Client) Analyze(ctx context.Context, name string, file io.Reader) (*Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if key := c.credential(); key != "" {
		req.Header.Set(credentialHeader, key)
	}

	c.log.Info("analyzing document", zap.String("file", name))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analysis: %w", err)
	}
	return ParseResult(payload)
}

// Translate sends the entire current result for translation. A nil
// result with nil error means the backend replied without a translated
// payload; the caller keeps what it has.
func (c *Client) Translate(ctx context.Context, r *Result, targetLang string) (*Result, error) {
	reqBody := struct {
		Data       *Result `json:"data"`
		TargetLang string  `json:"target_lang"`
	}{Data: r, TargetLang: targetLang}

	c.log.Info("translating result", zap.String("target_lang", targetLang))
	resp, err := c.postJSON(ctx, "/translate", reqBody, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}
	var out struct {
		TranslatedData json.RawMessage `json:"translated_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode translation: %w", err)
	}
	if len(out.TranslatedData) == 0 || string(out.TranslatedData) == "null" {
		return nil, nil
	}
	return ParseResult(out.TranslatedData)
}

// GeneratePDF asks the backend to render the current result as a
// report and returns the document bytes.
func (c *Client) GeneratePDF(ctx context.Context, r *Result) ([]byte, error) {
	reqBody := struct {
		Data *Result `json:"data"`
	}{Data: r}

	c.log.Info("requesting report")
	resp, err := c.postJSON(ctx, "/generate-pdf", reqBody, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

// Ask sends a question with the entire current result serialized as
// context and returns the answer text. An absent or invalid body is a
// failure.
func (c *Client) Ask(ctx context.Context, question string, r *Result) (string, error) {
	serialized, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("serialize context: %w", err)
	}
	reqBody := struct {
		Question string `json:"question"`
		Context  string `json:"context"`
	}{Question: question, Context: string(serialized)}

	c.log.Info("asking question")
	resp, err := c.postJSON(ctx, "/ask", reqBody, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeAPIError(resp)
	}
	var out struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode answer: %w", err)
	}
	return out.Answer, nil
}

// Health probes the backend. Used at startup for a reachability log
// line, never as a gate.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

// postJSON issues a JSON POST. The credential header is attached only
// when withCredential is set: the backend expects it on analyze and
// ask, and not on translate or export.
func (c *Client) postJSON(ctx context.Context, path string, body any, withCredential bool) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if withCredential {
		if key := c.credential(); key != "" {
			req.Header.Set(credentialHeader, key)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", path, err)
	}
	return resp, nil
}

// decodeAPIError extracts the "detail" convention from an error body.
// Bodies that fail to parse yield an APIError with no detail.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		apiErr.Detail = detail.Detail
	}
	return apiErr
}
