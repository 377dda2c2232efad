package monnify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestServer(t *testing.T, loginCalls *int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(loginCalls, 1)
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"requestSuccessful": true,
			"responseCode":      "0",
			"responseBody": map[string]interface{}{
				"accessToken": "test-token",
				"expiresIn":   3600,
			},
		})
	})

	mux.HandleFunc("/api/v2/disbursements/single", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"requestSuccessful": true,
			"responseCode":      "0",
			"responseBody": map[string]interface{}{
				"reference": payload["reference"],
				"status":    StatusPending,
			},
		})
	})

	mux.HandleFunc("/api/v2/disbursements/single/summary", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"requestSuccessful": true,
			"responseCode":      "0",
			"responseBody":      map[string]interface{}{"status": StatusSuccess},
		})
	})

	mux.HandleFunc("/api/v1/banks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"requestSuccessful": true,
			"responseCode":      "0",
			"responseBody": []map[string]string{
				{"name": "GTBank", "code": "058"},
				{"name": "Access Bank", "code": "044"},
			},
		})
	})

	return httptest.NewServer(mux)
}

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:             baseURL,
		APIKey:              "key",
		SecretKey:           "secret",
		ContractCode:        "contract",
		SourceAccountNumber: "1234567890",
		Currency:            "NGN",
	})
}

func TestDisburse(t *testing.T) {
	var loginCalls int64
	srv := newTestServer(t, &loginCalls)
	defer srv.Close()

	client := testClient(srv.URL)

	result, err := client.Disburse(context.Background(), DisbursementRequest{
		Amount:        5000,
		Reference:     "TXP-WD-test",
		Narration:     "test",
		BankCode:      "058",
		AccountNumber: "0123456789",
		AccountName:   "Ada Obi",
	})
	if err != nil {
		t.Fatalf("Disburse() error: %v", err)
	}
	if result.Reference != "TXP-WD-test" {
		t.Errorf("Reference = %q, want %q", result.Reference, "TXP-WD-test")
	}
	if result.Status != StatusPending {
		t.Errorf("Status = %q, want %q", result.Status, StatusPending)
	}
}

func TestTokenCached(t *testing.T) {
	var loginCalls int64
	srv := newTestServer(t, &loginCalls)
	defer srv.Close()

	client := testClient(srv.URL)
	ctx := context.Background()

	if _, err := client.Disburse(ctx, DisbursementRequest{Reference: "r1"}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := client.DisbursementStatus(ctx, "r1"); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if got := atomic.LoadInt64(&loginCalls); got != 1 {
		t.Errorf("login calls = %d, want 1 (token should be cached)", got)
	}
}

func TestDisbursementStatus(t *testing.T) {
	var loginCalls int64
	srv := newTestServer(t, &loginCalls)
	defer srv.Close()

	client := testClient(srv.URL)

	status, err := client.DisbursementStatus(context.Background(), "TXP-WD-test")
	if err != nil {
		t.Fatalf("DisbursementStatus() error: %v", err)
	}
	if status != StatusSuccess {
		t.Errorf("status = %q, want %q", status, StatusSuccess)
	}
}

func TestBanksCached(t *testing.T) {
	var loginCalls int64
	srv := newTestServer(t, &loginCalls)
	defer srv.Close()

	client := testClient(srv.URL)
	ctx := context.Background()

	banks, err := client.Banks(ctx)
	if err != nil {
		t.Fatalf("Banks() error: %v", err)
	}
	if len(banks) != 2 {
		t.Fatalf("len(banks) = %d, want 2", len(banks))
	}
	if banks[0].Code != "058" {
		t.Errorf("banks[0].Code = %q, want %q", banks[0].Code, "058")
	}

	srv.Close() // second call must come from cache
	if _, err := client.Banks(ctx); err != nil {
		t.Errorf("cached Banks() error: %v", err)
	}
}

func TestRejectedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"requestSuccessful": false,
			"responseCode":      "99",
			"responseMessage":   "invalid credentials",
		})
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	if _, err := client.Banks(context.Background()); err == nil {
		t.Error("expected error for rejected envelope")
	}
}
