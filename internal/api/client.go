package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ssq-predictor/internal/config"
	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/lottery"
)

// Client 后端开奖数据API客户端
type Client struct {
	httpClient *http.Client
	baseURL    string
	retryCount int
	retryDelay time.Duration
}

// NewClient 创建新的API客户端
func NewClient(cfg *config.API) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.URL,
		retryCount: cfg.RetryCount,
		retryDelay: cfg.RetryDelay,
	}
}

// FetchHistory 获取最新的开奖历史（最新在前），带重试
func (c *Client) FetchHistory(count int) ([]lottery.Draw, error) {
	url := fmt.Sprintf("%s/lottery/draws/latest?count=%d", c.baseURL, count)

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			logger.Warnf("Draw history request retry attempt %d/%d", attempt, c.retryCount)
			time.Sleep(c.retryDelay * time.Duration(attempt))
		}

		draws, err := c.makeRequest(url)
		if err != nil {
			lastErr = err
			continue
		}

		logger.Debugf("Fetched %d historical draws", len(draws))
		return draws, nil
	}

	return nil, fmt.Errorf("failed to fetch draw history after %d attempts: %v", c.retryCount, lastErr)
}

// makeRequest 执行HTTP请求并解析响应体
func (c *Client) makeRequest(url string) ([]lottery.Draw, error) {
	logger.Debugf("Making API request to: %s", url)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	return decodeDraws(body)
}

// decodeDraws 解析响应体，兼容 {data:[...]}、{items:[...]} 与裸数组三种格式
func decodeDraws(body []byte) ([]lottery.Draw, error) {
	var draws []lottery.Draw
	if err := json.Unmarshal(body, &draws); err == nil {
		return draws, nil
	}

	var envelope struct {
		Data  []lottery.Draw `json:"data"`
		Items []lottery.Draw `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draw history response: %v", err)
	}

	if envelope.Data != nil {
		return envelope.Data, nil
	}
	if envelope.Items != nil {
		return envelope.Items, nil
	}

	return nil, fmt.Errorf("unexpected draw history response format")
}

// HealthCheck 检查数据源健康状态
func (c *Client) HealthCheck() error {
	if _, err := c.FetchHistory(1); err != nil {
		return fmt.Errorf("data source health check failed: %v", err)
	}

	logger.Debug("Data source health check passed")
	return nil
}
