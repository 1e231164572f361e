package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestClient_GetAuction_FlexibleReferences(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/leilao/7/", r.URL.Path)
		// Address as an array, auctioneer as a bare id, item embedded.
		fmt.Fprint(w, `{
			"id": 7,
			"title": "Estate sale",
			"description": "Antiques",
			"address": [2, 5],
			"start_date": "2025-06-01T12:00:00Z",
			"end_date": "2025-06-01T14:00:00Z",
			"auctioneer": 9,
			"item": {"id": 42, "name": "Clock"}
		}`)
	}))

	rec, err := c.GetAuction(ctx, 7)

	assert.Nil(t, err)
	check.Equal(t, int64(7), rec.ID)
	check.Equal(t, "Estate sale", rec.Title)
	check.Equal(t, []int64{2, 5}, rec.AddressIDs)
	check.Equal(t, int64(9), rec.AuctioneerID)
	assert.NotNil(t, rec.ItemID)
	check.Equal(t, int64(42), *rec.ItemID)
	check.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), rec.StartDate)
}

func TestClient_GetAuction_NullItem(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": 8,
			"title": "No item yet",
			"address": 3,
			"start_date": "2025-06-01T12:00:00Z",
			"end_date": "2025-06-01T14:00:00Z",
			"auctioneer": null,
			"item": null
		}`)
	}))

	rec, err := c.GetAuction(ctx, 8)

	assert.Nil(t, err)
	check.Nil(t, rec.ItemID)
	check.Equal(t, []int64{3}, rec.AddressIDs)
	check.False(t, rec.Window().HasItem())
}

func TestClient_GetAuction_NotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "not found"}`, http.StatusNotFound)
	}))

	_, err := c.GetAuction(ctx, 99)

	check.True(t, errors.Is(err, domain.ErrAuctionNotFound))
}

func TestClient_ListBids_FiltersAndEnrichesNames(t *testing.T) {
	ctx := context.Background()
	bidderLookups := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lance/":
			// Bidder 3 appears twice, bid 4 belongs to another auction,
			// bidder 6 does not resolve.
			fmt.Fprint(w, `[
				{"id": 1, "amount": "100", "date_time": "2025-06-01T12:01:00Z", "bidder": 3, "item": 42, "auction": 7},
				{"id": 2, "amount": "150", "date_time": "2025-06-01T12:02:00Z", "bidder": 3, "item": 42, "auction": 7},
				{"id": 3, "amount": "120", "date_time": "2025-06-01T12:03:00Z", "bidder": 6, "item": 42, "auction": 7},
				{"id": 4, "amount": "999", "date_time": "2025-06-01T12:04:00Z", "bidder": 3, "item": 50, "auction": 8}
			]`)
		case "/ofertante/3/":
			bidderLookups++
			fmt.Fprint(w, `{"id": 3, "name": "Alice", "email": "alice@example.com"}`)
		case "/ofertante/6/":
			http.Error(w, `{"detail": "not found"}`, http.StatusNotFound)
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	bids, err := c.ListBids(ctx, 7)

	assert.Nil(t, err)
	assert.Equal(t, 3, len(bids))
	check.Equal(t, "Alice", bids[0].BidderName)
	check.Equal(t, "Alice", bids[1].BidderName)
	check.Equal(t, "Ofertante 6", bids[2].BidderName)
	check.True(t, bids[1].Amount.Equal(decimal.NewFromInt(150)))
	// Bidder 3's name is resolved once and reused from the cache.
	check.Equal(t, 1, bidderLookups)
}

func TestClient_CreateBid(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, http.MethodPost, r.Method)
		check.Equal(t, "/lance/", r.URL.Path)

		var body struct {
			Amount  decimal.Decimal `json:"amount"`
			Bidder  int64           `json:"bidder"`
			Item    int64           `json:"item"`
			Auction int64           `json:"auction"`
		}
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&body))
		check.True(t, body.Amount.Equal(decimal.NewFromInt(250)))
		check.Equal(t, int64(3), body.Bidder)
		check.Equal(t, int64(42), body.Item)
		check.Equal(t, int64(7), body.Auction)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 11, "amount": "250", "date_time": "2025-06-01T12:05:00Z", "bidder": {"id": 3, "name": "Alice"}, "item": 42, "auction": 7}`)
	}))

	created, err := c.CreateBid(ctx, &domain.Bid{
		AuctionID:   7,
		ItemID:      42,
		BidderID:    3,
		Amount:      decimal.NewFromInt(250),
		SubmittedAt: time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
	})

	assert.Nil(t, err)
	check.Equal(t, int64(11), created.ID)
	check.Equal(t, "Alice", created.BidderName)
}

func TestClient_CreatePayment(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, http.MethodPost, r.Method)
		check.Equal(t, "/pagamento/", r.URL.Path)

		var body struct {
			AmountPaid decimal.Decimal `json:"amount_paid"`
			Bidder     int64           `json:"bidder"`
			Auction    int64           `json:"auction"`
			Item       int64           `json:"item"`
		}
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&body))
		check.True(t, body.AmountPaid.Equal(decimal.NewFromInt(200)))
		check.Equal(t, int64(3), body.Bidder)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1, "amount_paid": "200", "status": "PENDING", "bidder": 3, "auction": 7, "item": 42}`)
	}))

	created, err := c.CreatePayment(ctx, &domain.Payment{
		AmountPaid: decimal.NewFromInt(200),
		Status:     domain.PaymentPending,
		BidderID:   3,
		AuctionID:  7,
		ItemID:     42,
	})

	assert.Nil(t, err)
	check.Equal(t, int64(1), created.ID)
	check.Equal(t, domain.PaymentPending, created.Status)
}

func TestClient_UpdateFinalValue(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, http.MethodPatch, r.Method)
		check.Equal(t, "/item/42/", r.URL.Path)

		var body map[string]decimal.Decimal
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&body))
		check.True(t, body["final_value"].Equal(decimal.NewFromInt(150)))

		w.WriteHeader(http.StatusOK)
	}))

	check.Nil(t, c.UpdateFinalValue(ctx, 42, decimal.NewFromInt(150)))
}

func TestClient_GetItem_FinalValueFallsBackToStartingValue(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": 42,
			"name": "Clock",
			"starting_value": "30",
			"final_value": null,
			"category": {"id": 2, "name": "Antiques"}
		}`)
	}))

	item, err := c.GetItem(ctx, 42)

	assert.Nil(t, err)
	check.True(t, item.FinalValue.Equal(decimal.NewFromInt(30)))
	assert.NotNil(t, item.Category)
	check.Equal(t, "Antiques", item.Category.Name)
}

func TestClient_RejectedErrorCarriesStatusAndMessage(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail": "amount must be positive"}`)
	}))

	_, err := c.CreatePayment(ctx, &domain.Payment{})

	var rejected *domain.RejectedError
	assert.True(t, errors.As(err, &rejected))
	check.Equal(t, http.StatusBadRequest, rejected.Status)
	check.Equal(t, "amount must be positive", rejected.Message)
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(srv.URL, time.Second)
	srv.Close()

	_, err := c.GetAuction(ctx, 7)

	var netErr *domain.NetworkError
	check.True(t, errors.As(err, &netErr))
}
