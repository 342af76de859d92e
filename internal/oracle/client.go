package oracle

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-discord-whitelist-bot/internal/metrics"
)

const namePath = "/api/query/name"

// Client проверяет, существует ли аккаунт с таким ником.
// Без ретраев и без кэша: каждая анкета проверяется заново.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
}

func NewClient(baseURL string, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		metrics: m,
	}
}

// IsValid возвращает true только на 2xx. Любая ошибка транспорта — false.
func (c *Client) IsValid(ctx context.Context, username string) bool {
	start := time.Now()
	ok := c.check(ctx, username)
	c.metrics.Oracle(ok, time.Since(start).Seconds())
	return ok
}

func (c *Client) check(ctx context.Context, username string) bool {
	u := c.baseURL + namePath + "?name=" + url.QueryEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		log.Printf("⚠️ Не удалось собрать запрос проверки ника %q: %v", username, err)
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("⚠️ Ошибка запроса проверки ника %q: %v", username, err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
