// Package esi reads organization activity from the game's public REST API.
package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/corp_ledger/internal/apperrors"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/corp_ledger/internal/core/ports/services"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "corp_ledger"
	// maxPages caps pagination in case the upstream reports a bogus X-Pages value.
	maxPages = 500
)

// Config holds the connection settings of a Client.
type Config struct {
	BaseURL       string
	TokenURL      string
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	CorporationID int64
	Timeout       time.Duration
}

// Client is an HTTP client for the organization endpoints of the API.
// Without a refresh token only the public name endpoints are usable.
type Client struct {
	baseURL       string
	corporationID int64
	httpClient    *http.Client
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom *http.Client, replacing the authenticated one.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client. When cfg carries a refresh token, requests are
// authorized with access tokens refreshed through cfg.TokenURL.
func NewClient(ctx context.Context, cfg Config, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := &http.Client{Timeout: timeout}
	hc := base
	if cfg.RefreshToken != "" {
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		}
		// Token refreshes reuse the timeout-bound client.
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, base)
		source := oauthCfg.TokenSource(tokenCtx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		hc = &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: source,
				Base:   http.DefaultTransport,
			},
		}
	}

	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		corporationID: cfg.CorporationID,
		httpClient:    hc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ portssvc.ActivitySource = (*Client)(nil)
	_ portssvc.NameSource     = (*Client)(nil)
)

// FetchJournal retrieves every journal entry of a treasury division.
func (c *Client) FetchJournal(ctx context.Context, division int) ([]domain.JournalEntry, error) {
	path := fmt.Sprintf("/corporations/%d/wallets/%d/journal/", c.corporationID, division)
	rows, err := getPaged[journalRow](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching journal of division %d: %w", division, err)
	}
	entries := make([]domain.JournalEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.toDomain(division)
	}
	return entries, nil
}

// FetchContracts retrieves every contract visible to the organization.
func (c *Client) FetchContracts(ctx context.Context) ([]domain.Contract, error) {
	path := fmt.Sprintf("/corporations/%d/contracts/", c.corporationID)
	rows, err := getPaged[contractRow](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching contracts: %w", err)
	}
	contracts := make([]domain.Contract, len(rows))
	for i, r := range rows {
		contracts[i] = r.toDomain()
	}
	return contracts, nil
}

// FetchContractItems retrieves the item bundle of one contract.
func (c *Client) FetchContractItems(ctx context.Context, contractID int64) ([]domain.ContractItem, error) {
	path := fmt.Sprintf("/corporations/%d/contracts/%d/items/", c.corporationID, contractID)
	var rows []contractItemRow
	if _, err := c.getJSON(ctx, path, nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching items of contract %d: %w", contractID, err)
	}
	items := make([]domain.ContractItem, len(rows))
	for i, r := range rows {
		items[i] = r.toDomain(contractID)
	}
	return items, nil
}

// FetchIndustryJobs retrieves running and completed industry jobs.
func (c *Client) FetchIndustryJobs(ctx context.Context) ([]domain.IndustryJob, error) {
	path := fmt.Sprintf("/corporations/%d/industry/jobs/", c.corporationID)
	rows, err := getPaged[industryJobRow](ctx, c, path, url.Values{"include_completed": {"true"}})
	if err != nil {
		return nil, fmt.Errorf("fetching industry jobs: %w", err)
	}
	jobs := make([]domain.IndustryJob, len(rows))
	for i, r := range rows {
		jobs[i] = r.toDomain()
	}
	return jobs, nil
}

// FetchMarketOrders retrieves open orders, or closed ones when history is set.
func (c *Client) FetchMarketOrders(ctx context.Context, history bool) ([]domain.MarketOrder, error) {
	path := fmt.Sprintf("/corporations/%d/orders/", c.corporationID)
	if history {
		path += "history/"
	}
	rows, err := getPaged[marketOrderRow](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching market orders (history=%t): %w", history, err)
	}
	orders := make([]domain.MarketOrder, len(rows))
	for i, r := range rows {
		orders[i] = r.toDomain(history)
	}
	return orders, nil
}

// LookupName resolves a type or character id through the public universe endpoints.
func (c *Client) LookupName(ctx context.Context, kind domain.NameKind, id int64) (string, error) {
	var path string
	switch kind {
	case domain.NameKindType:
		path = fmt.Sprintf("/universe/types/%d/", id)
	case domain.NameKindCharacter:
		path = fmt.Sprintf("/characters/%d/", id)
	default:
		return "", apperrors.NewValidationError("unknown name kind " + string(kind))
	}

	var entity namedEntity
	if _, err := c.getJSON(ctx, path, nil, &entity); err != nil {
		return "", fmt.Errorf("looking up %s %d: %w", kind, id, err)
	}
	return entity.Name, nil
}

// getPaged follows the X-Pages header until every page has been read.
func getPaged[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var all []T
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))

		var rows []T
		header, err := c.getJSON(ctx, path, q, &rows)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if len(rows) == 0 {
			break
		}
		all = append(all, rows...)

		pages, err := strconv.Atoi(header.Get("X-Pages"))
		if err != nil || page >= pages {
			break
		}
	}
	return all, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, statusError(path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return resp.Header, nil
}

func statusError(path string, code int, body string) error {
	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("GET %s: %w: %s", path, apperrors.ErrNotFound, body)
	case code == http.StatusForbidden || code == http.StatusUnauthorized:
		return fmt.Errorf("GET %s: %w: status %d: %s", path, apperrors.ErrForbidden, code, body)
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("GET %s: %w: status %d: %s", path, apperrors.ErrUnavailable, code, body)
	}
	return fmt.Errorf("GET %s: unexpected status %d: %s", path, code, body)
}
