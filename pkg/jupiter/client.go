package jupiter

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/ligun0805/jupiterSwap/pkg/metrics"
	"github.com/ligun0805/jupiterSwap/pkg/solana/jupswap"
)

// Reference: https://station.jup.ag/docs/apis/swap-api

const (
	DefaultApiBaseUrl = "https://quote-api.jup.ag/v6/"

	quoteEndpointName            = "quote"
	swapInstructionsEndpointName = "swap-instructions"

	metricsStructName = "jupiter.client"
)

// Client fetches quotes and opaque route payloads from the Jupiter swap API.
// The payload bytes are never interpreted locally; they are forwarded verbatim
// to the router on execution.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

// NewClient returns a new Jupiter client
func NewClient(baseUrl string) *Client {
	return &Client{
		baseUrl:    baseUrl,
		httpClient: http.DefaultClient,
	}
}

type Quote struct {
	jsonString          string
	estimatedSwapAmount uint64
}

// GetEstimatedSwapAmount returns the minimum amount of the output asset the
// quoted route is expected to produce. Callers use it as min_output_amount.
func (q *Quote) GetEstimatedSwapAmount() uint64 {
	return q.estimatedSwapAmount
}

// GetQuote gets an optimal route for swapping an amount of the input asset
// into the output asset
func (c *Client) GetQuote(
	ctx context.Context,
	inputMint ed25519.PublicKey,
	outputMint ed25519.PublicKey,
	amount uint64,
	slippageBps uint32,
	forceDirectRoute bool,
) (*Quote, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetQuote")
	defer tracer.End()

	url := fmt.Sprintf(
		"%s%s?inputMint=%s&outputMint=%s&amount=%d&slippageBps=%d&onlyDirectRoutes=%v",
		c.baseUrl,
		quoteEndpointName,
		base58.Encode(inputMint),
		base58.Encode(outputMint),
		amount,
		slippageBps,
		forceDirectRoute,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating http request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error executing http request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("received http status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed jsonQuote
	err = json.Unmarshal(respBody, &parsed)
	if err != nil {
		return nil, errors.Wrap(err, "error unmarshalling json response")
	}

	estimatedSwapAmount, err := strconv.ParseUint(parsed.OtherAmountThreshold, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing estimated swap amount")
	}

	return &Quote{
		jsonString:          string(respBody),
		estimatedSwapAmount: estimatedSwapAmount,
	}, nil
}

// GetRoutePayload resolves a quote into the opaque routing instruction data
// for a swap executed under the given authority, crediting the destination
// token account. The swap instruction must target the trusted router program.
func (c *Client) GetRoutePayload(
	ctx context.Context,
	quote *Quote,
	authority ed25519.PublicKey,
	destinationTokenAccount ed25519.PublicKey,
) ([]byte, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetRoutePayload")
	defer tracer.End()

	// todo: struct this
	reqBody := fmt.Sprintf(
		`{"quoteResponse": %s, "userPublicKey": "%s", "destinationTokenAccount": "%s", "prioritizationFeeLamports": "auto", "useSharedAccounts": true}`,
		quote.jsonString,
		base58.Encode(authority),
		base58.Encode(destinationTokenAccount),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+swapInstructionsEndpointName, strings.NewReader(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "error creating http request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error executing http request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("received http status %d: %s", resp.StatusCode, string(respBody))
	}

	var jsonBody jsonSwapInstructions
	err = json.Unmarshal(respBody, &jsonBody)
	if err != nil {
		return nil, errors.Wrap(err, "error unmarshalling json response")
	}

	if jsonBody.SwapInstruction == nil {
		return nil, errors.New("swap instruction not provided")
	}

	decodedProgram, err := base58.Decode(jsonBody.SwapInstruction.ProgramId)
	if err != nil {
		return nil, errors.Wrap(err, "invalid program public key")
	}
	if !ed25519.PublicKey(decodedProgram).Equal(jupswap.JUPITER_PROGRAM_ID) {
		return nil, errors.New("swap instruction does not target the router program")
	}

	payload, err := base64.StdEncoding.DecodeString(jsonBody.SwapInstruction.Data)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding base64 instruction data")
	}

	return payload, nil
}

type jsonQuote struct {
	OtherAmountThreshold string `json:"otherAmountThreshold"`
}

type jsonInstruction struct {
	ProgramId string `json:"programId"`
	Data      string `json:"data"`
}

type jsonSwapInstructions struct {
	SwapInstruction *jsonInstruction `json:"swapInstruction"`
}
