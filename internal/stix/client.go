package stix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client 抽象 STIX 数据源。
type Client interface {
	FetchBundle(ctx context.Context) (Bundle, error)
}

// StaticClient 用于测试或离线运行，直接返回内存中的 bundle。
type StaticClient struct {
	Bundle Bundle
}

// FetchBundle 返回预设 bundle。
func (c *StaticClient) FetchBundle(context.Context) (Bundle, error) {
	return c.Bundle, nil
}

// HTTPConfig 配置 HTTP 数据源。
type HTTPConfig struct {
	URL string
	// Timeout 为 0 时沿用 http.Client 的默认行为（不设超时）。
	Timeout      time.Duration
	CustomClient *http.Client
}

// HTTPClient 通过一次 GET 请求下载整个 bundle。
type HTTPClient struct {
	url        string
	httpClient *http.Client
}

// NewHTTPClient 根据配置创建 STIX HTTP 客户端。
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil, errors.New("stix url 不能为空")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("解析 stix url 失败: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("stix url 必须是 http(s) 地址: %s", raw)
	}
	client := cfg.CustomClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPClient{url: raw, httpClient: client}, nil
}

// URL 返回数据源地址。
func (c *HTTPClient) URL() string {
	return c.url
}

// FetchBundle 下载并解析 bundle，非 200 状态码直接返回 *StatusError。
func (c *HTTPClient) FetchBundle(ctx context.Context) (Bundle, error) {
	if c == nil {
		return Bundle{}, errors.New("stix http client 未初始化")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Bundle{}, fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Bundle{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Bundle{}, &StatusError{URL: c.url, Code: resp.StatusCode}
	}
	return decodeBundle(resp)
}

func decodeBundle(resp *http.Response) (Bundle, error) {
	var payload struct {
		Type    string             `json:"type"`
		ID      string             `json:"id"`
		Objects *[]json.RawMessage `json:"objects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Bundle{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if payload.Objects == nil {
		return Bundle{}, fmt.Errorf("%w: 响应中缺少 objects 数组", ErrParse)
	}
	return Bundle{Type: payload.Type, ID: payload.ID, Objects: *payload.Objects}, nil
}
