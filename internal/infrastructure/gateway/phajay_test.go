package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaJayClient_DemoModeSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewPhaJayClient(server.URL, nil)

	for _, secret := range []string{"", PlaceholderSecretKey} {
		code, err := client.Generate(context.Background(), GenerateRequest{
			Amount:    65000,
			SecretKey: secret,
		})
		require.NoError(t, err)
		assert.Equal(t, "BCEL_OnePay_65000_DEMO", code.Payload)
		assert.Equal(t, "demo", code.TransactionRef)
		assert.True(t, code.Demo)
		assert.NotEmpty(t, code.PNG)
	}
	assert.Equal(t, int32(0), calls.Load(), "demo mode must not call the gateway")
}

func TestPhaJayClient_GenerateTopLevelShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "sk_live_abc", r.Header.Get("secretKey"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(65000), body["amount"])
		assert.Equal(t, "POS Order Payment - Sabaidee POS", body["description"])
		assert.Equal(t, "POS_01", body["tag1"])
		assert.Equal(t, "POS_ORDER", body["tag2"])

		json.NewEncoder(w).Encode(map[string]string{
			"qrCode":        "00020101021238BCELPAYLOAD",
			"transactionId": "tx-123",
		})
	}))
	defer server.Close()

	client := NewPhaJayClient(server.URL, nil)
	code, err := client.Generate(context.Background(), GenerateRequest{
		Amount:      65000,
		Description: "POS Order Payment - Sabaidee POS",
		SecretKey:   "sk_live_abc",
		Tag:         "POS_01",
	})
	require.NoError(t, err)
	assert.Equal(t, "00020101021238BCELPAYLOAD", code.Payload)
	assert.Equal(t, "tx-123", code.TransactionRef)
	assert.False(t, code.Demo)
	assert.NotEmpty(t, code.PNG)
}

func TestPhaJayClient_GenerateDataNestedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{
				"qrCode":        "NESTEDPAYLOAD",
				"transactionId": "tx-456",
			},
		})
	}))
	defer server.Close()

	client := NewPhaJayClient(server.URL, nil)
	code, err := client.Generate(context.Background(), GenerateRequest{
		Amount:    10000,
		SecretKey: "sk_live_abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "NESTEDPAYLOAD", code.Payload)
	assert.Equal(t, "tx-456", code.TransactionRef)
}

func TestPhaJayClient_GenerateBusinessRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "amount below minimum",
		})
	}))
	defer server.Close()

	client := NewPhaJayClient(server.URL, nil)
	_, err := client.Generate(context.Background(), GenerateRequest{
		Amount:    1,
		SecretKey: "sk_live_abc",
	})
	require.Error(t, err)

	gerr := AsError(err)
	assert.Equal(t, ErrorKindBusiness, gerr.Kind)
	assert.Equal(t, "amount below minimum", gerr.Message)
}

func TestPhaJayClient_GenerateMissingQRCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"transactionId": "tx-789"})
	}))
	defer server.Close()

	client := NewPhaJayClient(server.URL, nil)
	_, err := client.Generate(context.Background(), GenerateRequest{
		Amount:    65000,
		SecretKey: "sk_live_abc",
	})
	require.Error(t, err)
	assert.Equal(t, ErrorKindMalformed, AsError(err).Kind)
}

func TestPhaJayClient_GenerateNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewPhaJayClient(server.URL, nil)
	_, err := client.Generate(context.Background(), GenerateRequest{
		Amount:    65000,
		SecretKey: "sk_live_abc",
	})
	require.Error(t, err)
	assert.Equal(t, ErrorKindNetwork, AsError(err).Kind)
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	original := &Error{Kind: ErrorKindBusiness, Message: "declined"}
	assert.Same(t, original, AsError(original))

	wrapped := AsError(assert.AnError)
	assert.Equal(t, ErrorKindNetwork, wrapped.Kind)
	assert.Contains(t, wrapped.Detail, assert.AnError.Error())
}
