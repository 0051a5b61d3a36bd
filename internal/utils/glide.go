package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GlideClient — клиент внешнего провайдера Magic Auth (Glide).
type GlideClient struct {
	BaseURL string
	ApiKey  string
	DryRun  bool // dry-run режим: без реальных HTTP-запросов
	HTTP    *http.Client
}

type StartAuthRequest struct {
	PhoneNumber     string `json:"phoneNumber"`
	State           string `json:"state"`
	RedirectURL     string `json:"redirectUrl"`
	FallbackChannel string `json:"fallbackChannel"`
	DeviceIPAddress string `json:"deviceIpAddress,omitempty"`
}

type StartAuthResponse struct {
	Type        string `json:"type"`
	AuthURL     string `json:"authUrl"`
	FlatAuthURL string `json:"flatAuthUrl"`
	OperatorID  string `json:"operatorId"`
}

type VerifyAuthRequest struct {
	PhoneNumber     string `json:"phoneNumber"`
	Token           string `json:"token"`
	DeviceIPAddress string `json:"deviceIpAddress,omitempty"`
}

type VerifyAuthResponse struct {
	Verified bool `json:"verified"`
}

// FallbackNone — канал подстраховки не используется, только magic auth.
const FallbackNone = "NO_FALLBACK"

func NewGlideClient(baseURL, apiKey string, dryRun bool) *GlideClient {
	return &GlideClient{
		BaseURL: baseURL,
		ApiKey:  apiKey,
		DryRun:  dryRun,
		HTTP:    http.DefaultClient,
	}
}

// StartAuth — запуск проверки номера у провайдера.
func (c *GlideClient) StartAuth(req *StartAuthRequest) (*StartAuthResponse, error) {
	// DRY-RUN: не делаем HTTP-запрос
	if c.DryRun || c.ApiKey == "" || c.ApiKey == "dry-run" {
		fmt.Printf("📩 [Glide][dry-run] startAuth phone=%s state=%s\n", req.PhoneNumber, req.State)
		return &StartAuthResponse{
			Type:        "MAGIC",
			AuthURL:     "https://oidc.gateway-x.io/magic-auth?state=" + req.State,
			FlatAuthURL: "https://oidc.gateway-x.io/magic-auth/flat?state=" + req.State,
			OperatorID:  "dry-run-operator",
		}, nil
	}

	var out StartAuthResponse
	if err := c.post("/magic-auth/verification/start-auth", req, &out); err != nil {
		return nil, fmt.Errorf("start auth: %w", err)
	}
	return &out, nil
}

// VerifyAuth — проверка токена, полученного клиентом из magic-ссылки.
func (c *GlideClient) VerifyAuth(req *VerifyAuthRequest) (*VerifyAuthResponse, error) {
	if c.DryRun || c.ApiKey == "" || c.ApiKey == "dry-run" {
		fmt.Printf("📩 [Glide][dry-run] verifyAuth phone=%s token=%s\n", req.PhoneNumber, req.Token)
		return &VerifyAuthResponse{Verified: true}, nil
	}

	var out VerifyAuthResponse
	if err := c.post("/magic-auth/verification/verify-auth", req, &out); err != nil {
		return nil, fmt.Errorf("verify auth: %w", err)
	}
	return &out, nil
}

func (c *GlideClient) post(path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.ApiKey)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// провайдер кладёт сообщение в {"error": "..."}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("glide returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("glide returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
