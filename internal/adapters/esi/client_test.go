package esi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/corp_ledger/internal/apperrors"
	"github.com/SscSPs/corp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestFetchJournal_FollowsPages(t *testing.T) {
	pages := map[string]string{
		"1": `[{"id": 1, "date": "2025-03-01T10:00:00Z", "ref_type": "player_donation", "amount": 2500000.55, "first_party_id": 90, "reason": "for ships", "description": "Donation"}]`,
		"2": `[{"id": 2, "date": "2025-03-02T10:00:00Z", "ref_type": "bounty_prizes", "amount": 100, "description": "Bounty"}]`,
	}
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/corporations/98000001/wallets/3/journal/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("X-Pages", "2")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pages[r.URL.Query().Get("page")]))
	})

	client := NewClient(context.Background(), Config{BaseURL: server.URL, CorporationID: 98000001})
	entries, err := client.FetchJournal(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ExternalID)
	assert.Equal(t, domain.RefTypePlayerDonation, entries[0].RefType)
	assert.True(t, entries[0].Amount.Decimal.Equal(decimal.RequireFromString("2500000.55")))
	assert.Equal(t, "for ships", entries[0].Description)
	assert.Equal(t, int64(90), *entries[0].FirstPartyID)
	assert.Equal(t, 3, entries[0].Division)
	assert.Equal(t, "Bounty", entries[1].Description)
	assert.Nil(t, entries[1].FirstPartyID)
}

func TestFetchIndustryJobs_IncludesCompleted(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("include_completed") != "true" {
			t.Errorf("include_completed not set: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"job_id": 7, "installer_id": 5, "cost": 12000, "status": "delivered", "product_type_id": 587, "runs": 10}]`))
	})

	client := NewClient(context.Background(), Config{BaseURL: server.URL, CorporationID: 1})
	jobs, err := client.FetchIndustryJobs(context.Background())

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobDelivered, jobs[0].Status)
	assert.True(t, jobs[0].Cost.Valid)
	assert.Equal(t, int64(587), *jobs[0].ProductTypeID)
}

func TestFetchMarketOrders_History(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/corporations/1/orders/":
			_, _ = w.Write([]byte(`[{"order_id": 1, "price": 10, "volume_total": 5, "volume_remain": 5, "issued_by": 3}]`))
		case "/corporations/1/orders/history/":
			_, _ = w.Write([]byte(`[{"order_id": 2, "price": 10, "volume_total": 5, "volume_remain": 0, "issued_by": 3, "state": "expired"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := NewClient(context.Background(), Config{BaseURL: server.URL, CorporationID: 1})

	open, err := client.FetchMarketOrders(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.False(t, open[0].IsHistory)
	assert.Equal(t, "open", open[0].State)

	closed, err := client.FetchMarketOrders(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.True(t, closed[0].IsHistory)
	assert.Equal(t, "expired", closed[0].State)
}

func TestFetchContracts_MapsFields(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"contract_id": 55, "issuer_id": 1001, "assignee_id": 98000001, "acceptor_id": 0,
			"type": "item_exchange", "status": "finished", "for_corporation": true, "price": 0}]`))
	})
	client := NewClient(context.Background(), Config{BaseURL: server.URL, CorporationID: 98000001})

	contracts, err := client.FetchContracts(context.Background())

	require.NoError(t, err)
	require.Len(t, contracts, 1)
	c := contracts[0]
	assert.Equal(t, domain.ContractFinished, c.Status)
	assert.True(t, c.ForCorporation)
	assert.Nil(t, c.AcceptorID)
	assert.True(t, c.Price.Valid)
	assert.True(t, c.Price.Decimal.IsZero())
	assert.False(t, c.AppraisalValue.Valid)
}

func TestLookupName(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/universe/types/34/":
			_ = json.NewEncoder(w).Encode(namedEntity{Name: "Tritanium"})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}
	})
	client := NewClient(context.Background(), Config{BaseURL: server.URL})

	name, err := client.LookupName(context.Background(), domain.NameKindType, 34)
	require.NoError(t, err)
	assert.Equal(t, "Tritanium", name)

	_, err = client.LookupName(context.Background(), domain.NameKindCharacter, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_RefreshesAccessToken(t *testing.T) {
	tokenServer := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != "refresh-me" {
			t.Errorf("unexpected token request %v", r.PostForm)
		}
		user, _, ok := r.BasicAuth()
		if !ok || user != "client-id" {
			t.Errorf("missing client credentials")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "abc", "token_type": "Bearer", "expires_in": 1200}`))
	})
	api := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	client := NewClient(context.Background(), Config{
		BaseURL:       api.URL,
		TokenURL:      tokenServer.URL,
		ClientID:      "client-id",
		ClientSecret:  "secret",
		RefreshToken:  "refresh-me",
		CorporationID: 1,
	})

	contracts, err := client.FetchContracts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, contracts)
}

func TestStatusError(t *testing.T) {
	assert.ErrorIs(t, statusError("/x", http.StatusServiceUnavailable, ""), apperrors.ErrUnavailable)
	assert.ErrorIs(t, statusError("/x", http.StatusTooManyRequests, ""), apperrors.ErrUnavailable)
	assert.ErrorIs(t, statusError("/x", http.StatusForbidden, ""), apperrors.ErrForbidden)
	assert.ErrorIs(t, statusError("/x", http.StatusNotFound, ""), apperrors.ErrNotFound)
	assert.Error(t, statusError("/x", http.StatusTeapot, ""))
}
