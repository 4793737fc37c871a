// Package client - HTTP-клиент API подписок. Каждая операция возвращает
// явный Result, чтобы ошибки сети и сервера не терялись на стороне вызова.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/subsense/internal/models"
)

// CreateRequest - тело запроса на создание подписки. Стоимость передаётся числом.
type CreateRequest struct {
	Name         string  `json:"name"`
	Cost         float64 `json:"cost"`
	BillingCycle string  `json:"billingCycle"`
	NextPayment  string  `json:"nextPayment"`
	Category     string  `json:"category"`
	Description  string  `json:"description,omitempty"`
}

// Client обращается к HTTP API подписок от имени владельца токена.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New создаёт клиент. timeout ограничивает каждый запрос целиком.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListSubscriptions запрашивает подписки текущего пользователя.
func (c *Client) ListSubscriptions(ctx context.Context) Result[[]models.Subscription] {
	var subs []models.Subscription
	if err := c.do(ctx, http.MethodGet, "/api/subscriptions", nil, http.StatusOK, &subs); err != nil {
		return Fail[[]models.Subscription](err)
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return Ok(subs)
}

// CreateSubscription создаёт подписку.
func (c *Client) CreateSubscription(ctx context.Context, req CreateRequest) Result[models.Subscription] {
	var sub models.Subscription
	if err := c.do(ctx, http.MethodPost, "/api/subscriptions", req, http.StatusCreated, &sub); err != nil {
		return Fail[models.Subscription](err)
	}
	return Ok(sub)
}

// Summary запрашивает метрики дашборда, посчитанные сервером.
func (c *Client) Summary(ctx context.Context) Result[models.Summary] {
	var summary models.Summary
	if err := c.do(ctx, http.MethodGet, "/api/subscriptions/summary", nil, http.StatusOK, &summary); err != nil {
		return Fail[models.Summary](err)
	}
	return Ok(summary)
}

// Deactivate снимает признак активности с подписки.
func (c *Client) Deactivate(ctx context.Context, id string) Result[models.Subscription] {
	var sub models.Subscription
	path := "/api/subscriptions/" + url.PathEscape(id) + "/deactivate"
	if err := c.do(ctx, http.MethodPost, path, nil, http.StatusOK, &sub); err != nil {
		return Fail[models.Subscription](err)
	}
	return Ok(sub)
}

// Export скачивает XLSX-выгрузку подписок.
func (c *Client) Export(ctx context.Context) Result[[]byte] {
	resp, err := c.send(ctx, http.MethodGet, "/api/subscriptions/export", nil)
	if err != nil {
		return Fail[[]byte](err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Fail[[]byte](decodeAPIError(resp))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fail[[]byte](fmt.Errorf("client.Export: %w", err))
	}
	return Ok(data)
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("client: encode body: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}

// IsStatus сообщает, что err - ответ API с указанным статусом.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
