package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// PlaceholderSecretKey is the well-known sample credential shipped in docs.
// A store configured with it has not set up a real gateway account, so the
// client behaves exactly as if no credential were configured.
const PlaceholderSecretKey = "YOUR_PLATFORM_SECRET_KEY_HERE"

// ErrorKind classifies gateway failures for the payment flow.
type ErrorKind string

const (
	// ErrorKindNetwork covers transport failures: the request never produced
	// a usable gateway response.
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindBusiness covers declared gateway rejections, e.g. amount out
	// of range or an invalid credential.
	ErrorKindBusiness ErrorKind = "business"
	// ErrorKindMalformed covers responses that parsed as neither accepted
	// shape.
	ErrorKindMalformed ErrorKind = "malformed"
)

// Error is a categorized gateway failure. Message is safe to show a cashier;
// Detail carries the raw diagnostic text.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// AsError converts any error into a gateway *Error, wrapping unknown errors
// as network failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if gerr, ok := err.(*Error); ok {
		return gerr
	}
	return &Error{Kind: ErrorKindNetwork, Message: "payment gateway error", Detail: err.Error()}
}

// QRCode is a generated payment code ready to be shown to the customer.
type QRCode struct {
	Payload        string `json:"payload"`
	PNG            []byte `json:"-"`
	TransactionRef string `json:"transaction_ref"`
	Demo           bool   `json:"demo"`
}

// GenerateRequest carries everything needed to request a payment code.
type GenerateRequest struct {
	Amount      int64
	Description string
	SecretKey   string
	Tag         string
}

// DemoMode reports whether the request should skip the gateway entirely.
func (r GenerateRequest) DemoMode() bool {
	return r.SecretKey == "" || r.SecretKey == PlaceholderSecretKey
}

// CodeGenerator produces payment QR codes.
type CodeGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (*QRCode, error)
	DemoCode(amount int64) (*QRCode, error)
}

// PhaJayClient calls the PhaJay BCEL OnePay code-generation endpoint.
type PhaJayClient struct {
	generateURL string
	httpClient  *http.Client
}

// NewPhaJayClient creates a gateway client. Pass nil to use a default
// http.Client with a 10 second timeout.
func NewPhaJayClient(generateURL string, httpClient *http.Client) *PhaJayClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &PhaJayClient{
		generateURL: generateURL,
		httpClient:  httpClient,
	}
}

type generatePayload struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Tag1        string `json:"tag1"`
	Tag2        string `json:"tag2"`
}

// generateResponse accepts both response shapes the gateway has been observed
// to return: the code at the top level, or nested under "data".
type generateResponse struct {
	QRCode        string `json:"qrCode"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
	Data          *struct {
		QRCode        string `json:"qrCode"`
		TransactionID string `json:"transactionId"`
	} `json:"data"`
}

// Generate requests a payment QR code from the gateway. In demo mode (no
// usable credential) it synthesizes a local code without any network call.
func (c *PhaJayClient) Generate(ctx context.Context, req GenerateRequest) (*QRCode, error) {
	if req.DemoMode() {
		log.Info().Int64("amount", req.Amount).Msg("no gateway credential configured, generating demo QR code")
		return c.DemoCode(req.Amount)
	}

	body, err := json.Marshal(generatePayload{
		Amount:      req.Amount,
		Description: req.Description,
		Tag1:        req.Tag,
		Tag2:        "POS_ORDER",
	})
	if err != nil {
		return nil, &Error{Kind: ErrorKindMalformed, Message: "could not encode gateway request", Detail: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: ErrorKindNetwork, Message: "could not build gateway request", Detail: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("secretKey", req.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Msg("phajay generate request failed")
		return nil, &Error{Kind: ErrorKindNetwork, Message: "payment gateway unreachable", Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &Error{Kind: ErrorKindNetwork, Message: "failed reading gateway response", Detail: err.Error()}
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &Error{Kind: ErrorKindMalformed, Message: "unexpected gateway response", Detail: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway rejected the request (HTTP %d)", resp.StatusCode)
		}
		log.Warn().Int("status", resp.StatusCode).Str("message", msg).Msg("phajay generate rejected")
		return nil, &Error{Kind: ErrorKindBusiness, Message: msg, Detail: string(raw)}
	}

	payload := parsed.QRCode
	ref := parsed.TransactionID
	if payload == "" && parsed.Data != nil {
		payload = parsed.Data.QRCode
		ref = parsed.Data.TransactionID
	}
	if payload == "" {
		return nil, &Error{Kind: ErrorKindMalformed, Message: "gateway response missing QR code", Detail: string(raw)}
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, &Error{Kind: ErrorKindMalformed, Message: "could not render QR image", Detail: err.Error()}
	}

	log.Info().Int64("amount", req.Amount).Str("ref", ref).Msg("phajay QR code generated")
	return &QRCode{
		Payload:        payload,
		PNG:            png,
		TransactionRef: ref,
	}, nil
}

// DemoCode synthesizes a scannable code derived from the amount. The payload
// mimics the BCEL OnePay format so the printed/displayed code looks real.
func (c *PhaJayClient) DemoCode(amount int64) (*QRCode, error) {
	payload := fmt.Sprintf("BCEL_OnePay_%d_DEMO", amount)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, &Error{Kind: ErrorKindMalformed, Message: "could not render demo QR image", Detail: err.Error()}
	}
	return &QRCode{
		Payload:        payload,
		PNG:            png,
		TransactionRef: "demo",
		Demo:           true,
	}, nil
}
