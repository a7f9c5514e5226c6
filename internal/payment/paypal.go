package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PayPalProvider implements Provider against the PayPal REST API. The capture
// ID is the capture the storefront's PayPal buttons produced.
type PayPalProvider struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalProvider creates a PayPal-backed payment provider. baseURL is
// https://api-m.paypal.com for live and https://api-m.sandbox.paypal.com for
// sandbox.
func NewPayPalProvider(baseURL, clientID, clientSecret string) *PayPalProvider {
	return &PayPalProvider{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalCapture struct {
	ID         string       `json:"id"`
	Status     string       `json:"status"`
	Amount     paypalAmount `json:"amount"`
	CreateTime time.Time    `json:"create_time"`
}

type paypalRefund struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Amount paypalAmount `json:"amount"`
}

// VerifyCapture fetches the capture and confirms it completed for at least
// the expected amount.
func (p *PayPalProvider) VerifyCapture(ctx context.Context, params VerifyParams) (*Capture, error) {
	var pc paypalCapture
	err := p.do(ctx, http.MethodGet, "/v2/payments/captures/"+url.PathEscape(params.CaptureID), nil, &pc)
	if err != nil {
		return nil, err
	}

	if pc.Status != "COMPLETED" {
		return nil, ErrNotCaptured
	}
	amountCents, err := parseDecimalCents(pc.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("paypal capture amount %q: %w", pc.Amount.Value, err)
	}
	if amountCents < params.ExpectedAmountCents {
		return nil, ErrAmountMismatch
	}
	if params.Currency != "" && !strings.EqualFold(pc.Amount.CurrencyCode, params.Currency) {
		return nil, ErrAmountMismatch
	}

	return &Capture{
		CaptureID:   pc.ID,
		Status:      pc.Status,
		AmountCents: amountCents,
		Currency:    pc.Amount.CurrencyCode,
		PaidAt:      pc.CreateTime.UTC(),
	}, nil
}

// Refund refunds the capture, in full or partially.
func (p *PayPalProvider) Refund(ctx context.Context, params RefundParams) (*Refund, error) {
	body := map[string]any{
		"note_to_payer": params.Reason,
	}
	if params.AmountCents > 0 {
		body["amount"] = paypalAmount{
			CurrencyCode: "USD",
			Value:        formatDecimalCents(params.AmountCents),
		}
	}

	var ref paypalRefund
	err := p.do(ctx, http.MethodPost, "/v2/payments/captures/"+url.PathEscape(params.CaptureID)+"/refund", body, &ref)
	if err != nil {
		return nil, err
	}

	amountCents, err := parseDecimalCents(ref.Amount.Value)
	if err != nil {
		amountCents = params.AmountCents
	}
	return &Refund{
		RefundID:    ref.ID,
		Status:      ref.Status,
		AmountCents: amountCents,
	}, nil
}

func (p *PayPalProvider) do(ctx context.Context, method, path string, body any, out any) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("paypal encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("paypal build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrCaptureNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("paypal %s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("paypal decode response: %w", err)
		}
	}
	return nil
}

// token returns a cached OAuth access token, refreshing when within a minute
// of expiry.
func (p *PayPalProvider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Until(p.tokenExpiry) > time.Minute {
		return p.accessToken, nil
	}

	form := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", form)
	if err != nil {
		return "", fmt.Errorf("paypal build token request: %w", err)
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token request: status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("paypal decode token: %w", err)
	}

	p.accessToken = tok.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return p.accessToken, nil
}

// parseDecimalCents converts a PayPal decimal string like "12.34" to cents.
func parseDecimalCents(s string) (int64, error) {
	whole, frac, found := strings.Cut(s, ".")
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	var cents int64
	if found {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
	}
	if dollars < 0 {
		return dollars*100 - cents, nil
	}
	return dollars*100 + cents, nil
}

// formatDecimalCents converts cents to a PayPal decimal string.
func formatDecimalCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
