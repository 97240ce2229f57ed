package jupiter

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligun0805/jupiterSwap/pkg/solana/jupswap"
)

func TestGetQuote(t *testing.T) {
	inputMint := generateAddress(t)
	outputMint := generateAddress(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, base58.Encode(inputMint), query.Get("inputMint"))
		assert.Equal(t, base58.Encode(outputMint), query.Get("outputMint"))
		assert.Equal(t, "587000", query.Get("amount"))
		assert.Equal(t, "50", query.Get("slippageBps"))

		fmt.Fprint(w, `{"inAmount": "587000", "outAmount": "1170000", "otherAmountThreshold": "1162260"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")

	quote, err := client.GetQuote(context.Background(), inputMint, outputMint, 587000, 50, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1162260, quote.GetEstimatedSwapAmount())
}

func TestGetQuote_HttpError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": "no route found"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")

	_, err := client.GetQuote(context.Background(), generateAddress(t), generateAddress(t), 587000, 50, true)
	assert.Error(t, err)
}

func TestGetRoutePayload(t *testing.T) {
	payload := []byte("opaque route data")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote":
			fmt.Fprint(w, `{"otherAmountThreshold": "1162260"}`)
		case "/swap-instructions":
			fmt.Fprintf(
				w,
				`{"swapInstruction": {"programId": "%s", "data": "%s"}}`,
				base58.Encode(jupswap.JUPITER_PROGRAM_ID),
				base64.StdEncoding.EncodeToString(payload),
			)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")

	quote, err := client.GetQuote(context.Background(), generateAddress(t), generateAddress(t), 587000, 50, true)
	require.NoError(t, err)

	actual, err := client.GetRoutePayload(context.Background(), quote, generateAddress(t), generateAddress(t))
	require.NoError(t, err)
	assert.Equal(t, payload, actual)
}

func TestGetRoutePayload_UntrustedProgram(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote":
			fmt.Fprint(w, `{"otherAmountThreshold": "1162260"}`)
		case "/swap-instructions":
			fmt.Fprintf(
				w,
				`{"swapInstruction": {"programId": "%s", "data": ""}}`,
				base58.Encode(generateAddress(t)),
			)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")

	quote, err := client.GetQuote(context.Background(), generateAddress(t), generateAddress(t), 587000, 50, true)
	require.NoError(t, err)

	_, err = client.GetRoutePayload(context.Background(), quote, generateAddress(t), generateAddress(t))
	assert.Error(t, err)
}

func TestGetRoutePayload_MissingSwapInstruction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote":
			fmt.Fprint(w, `{"otherAmountThreshold": "1162260"}`)
		case "/swap-instructions":
			fmt.Fprint(w, `{"setupInstructions": []}`)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")

	quote, err := client.GetQuote(context.Background(), generateAddress(t), generateAddress(t), 587000, 50, true)
	require.NoError(t, err)

	_, err = client.GetRoutePayload(context.Background(), quote, generateAddress(t), generateAddress(t))
	assert.Error(t, err)
}

func generateAddress(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}
