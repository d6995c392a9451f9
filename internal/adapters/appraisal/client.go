// Package appraisal prices item bundles through a Janice-compatible JSON-RPC endpoint.
package appraisal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/corp_ledger/internal/apperrors"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// Pricing parameters sent with every appraisal.
const (
	designationAppraisal = 100
	pricingSplit         = 200
	pricingVariantImm    = 100
)

// Config holds the endpoint and pacing settings of a Client.
type Config struct {
	URL      string
	APIKey   string
	MarketID int
	// Interval is the minimum spacing between two calls. Zero disables pacing.
	Interval time.Duration
	Timeout  time.Duration
}

// Client implements portssvc.AppraisalProvider.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an appraisal client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

var _ portssvc.AppraisalProvider = (*Client)(nil)

type rpcParams struct {
	MarketID        int    `json:"marketId"`
	Designation     int    `json:"designation"`
	Pricing         int    `json:"pricing"`
	PricingVariant  int    `json:"pricingVariant"`
	PricePercentage int    `json:"pricePercentage"`
	Input           string `json:"input"`
	Comment         string `json:"comment"`
	Compactize      bool   `json:"compactize"`
}

type rpcRequest struct {
	ID     int64     `json:"id"`
	Method string    `json:"method"`
	Params rpcParams `json:"params"`
}

type rpcResponse struct {
	Result *struct {
		ImmediatePrices struct {
			TotalSplitPrice decimal.NullDecimal `json:"totalSplitPrice"`
		} `json:"immediatePrices"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Appraise returns the immediate split price of items. It returns no value,
// without error, when the provider is not configured or items is empty.
func (c *Client) Appraise(ctx context.Context, contractID int64, items []domain.AppraisalItem) (decimal.NullDecimal, error) {
	if c.cfg.URL == "" || c.cfg.APIKey == "" || len(items) == 0 {
		return decimal.NullDecimal{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("waiting for appraisal slot: %w", err)
	}

	payload, err := json.Marshal(rpcRequest{
		ID:     contractID,
		Method: "Appraisal.create",
		Params: rpcParams{
			MarketID:        c.cfg.MarketID,
			Designation:     designationAppraisal,
			Pricing:         pricingSplit,
			PricingVariant:  pricingVariantImm,
			PricePercentage: 1,
			Input:           itemList(items),
			Compactize:      true,
		},
	})
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("encoding appraisal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("creating appraisal request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-ApiKey", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: appraisal request: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.NullDecimal{}, fmt.Errorf("%w: appraisal status %d: %s",
			apperrors.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("decoding appraisal response: %w", err)
	}
	if out.Error != nil {
		return decimal.NullDecimal{}, fmt.Errorf("appraisal error %d: %s", out.Error.Code, out.Error.Message)
	}
	if out.Result == nil {
		return decimal.NullDecimal{}, nil
	}
	return out.Result.ImmediatePrices.TotalSplitPrice, nil
}

// itemList renders items as "QTY Name" lines.
func itemList(items []domain.AppraisalItem) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.FormatInt(it.Quantity, 10))
		b.WriteByte(' ')
		b.WriteString(it.Name)
	}
	return b.String()
}
