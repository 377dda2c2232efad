package monnify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Disbursement statuses reported by the Monnify single-transfer API.
const (
	StatusSuccess = "SUCCESS"
	StatusPending = "PENDING"
	StatusFailed  = "FAILED"
	StatusExpired = "EXPIRED"
)

const (
	tokenCacheKey = "monnify_access_token"
	banksCacheKey = "monnify_banks"
)

type Config struct {
	BaseURL             string
	APIKey              string
	SecretKey           string
	ContractCode        string
	SourceAccountNumber string
	Currency            string
}

// Client talks to the Monnify REST API. Bearer tokens and the bank list
// are cached in-process with their natural TTLs.
type Client struct {
	cfg   Config
	http  *http.Client
	cache *gocache.Cache
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: 30 * time.Second},
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

type DisbursementRequest struct {
	Amount        float64
	Reference     string
	Narration     string
	BankCode      string
	AccountNumber string
	AccountName   string
}

type DisbursementResult struct {
	Reference string
	Status    string
}

type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// envelope is the standard Monnify response wrapper.
type envelope struct {
	RequestSuccessful bool            `json:"requestSuccessful"`
	ResponseMessage   string          `json:"responseMessage"`
	ResponseCode      string          `json:"responseCode"`
	ResponseBody      json.RawMessage `json:"responseBody"`
}

type loginBody struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	if tok, found := c.cache.Get(tokenCacheKey); found {
		return tok.(string), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/v1/auth/login", nil)
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.APIKey + ":" + c.cfg.SecretKey))
	req.Header.Set("Authorization", "Basic "+basic)

	var body loginBody
	if err := c.do(req, &body); err != nil {
		return "", fmt.Errorf("monnify login: %w", err)
	}

	// Expire slightly early so an in-flight request never carries a dead token.
	ttl := time.Duration(body.ExpiresIn-60) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	c.cache.Set(tokenCacheKey, body.AccessToken, ttl)

	return body.AccessToken, nil
}

// Disburse initiates a single transfer to the destination account.
func (c *Client) Disburse(ctx context.Context, dr DisbursementRequest) (*DisbursementResult, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"amount":                   dr.Amount,
		"reference":                dr.Reference,
		"narration":                dr.Narration,
		"destinationBankCode":      dr.BankCode,
		"destinationAccountNumber": dr.AccountNumber,
		"destinationAccountName":   dr.AccountName,
		"currency":                 c.cfg.Currency,
		"sourceAccountNumber":      c.cfg.SourceAccountNumber,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/v2/disbursements/single", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	var body struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	}
	if err := c.do(req, &body); err != nil {
		return nil, fmt.Errorf("monnify disbursement: %w", err)
	}

	return &DisbursementResult{Reference: body.Reference, Status: body.Status}, nil
}

// DisbursementStatus fetches the current status of a previously initiated
// transfer. Used by the reconciliation sweep.
func (c *Client) DisbursementStatus(ctx context.Context, reference string) (string, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	u := c.cfg.BaseURL + "/api/v2/disbursements/single/summary?reference=" + url.QueryEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	var body struct {
		Status string `json:"status"`
	}
	if err := c.do(req, &body); err != nil {
		return "", fmt.Errorf("monnify disbursement status: %w", err)
	}

	return body.Status, nil
}

// Banks returns the Monnify bank directory, cached for an hour.
func (c *Client) Banks(ctx context.Context) ([]Bank, error) {
	if cached, found := c.cache.Get(banksCacheKey); found {
		return cached.([]Bank), nil
	}

	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/v1/banks", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	var banks []Bank
	if err := c.do(req, &banks); err != nil {
		return nil, fmt.Errorf("monnify banks: %w", err)
	}

	c.cache.Set(banksCacheKey, banks, time.Hour)
	return banks, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unexpected response (HTTP %d): %s", res.StatusCode, truncate(raw, 256))
	}

	if !env.RequestSuccessful {
		return fmt.Errorf("request rejected (%s): %s", env.ResponseCode, env.ResponseMessage)
	}

	if out != nil && len(env.ResponseBody) > 0 {
		if err := json.Unmarshal(env.ResponseBody, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
