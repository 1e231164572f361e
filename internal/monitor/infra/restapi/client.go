package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/anleaes/auctionMonitor/internal/shared/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Client talks to the remote auction-management REST API and implements
// every gateway the monitor needs. The API keeps its original resource
// routes (Portuguese names).
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ domain.AuctionGateway    = (*Client)(nil)
	_ domain.BidGateway        = (*Client)(nil)
	_ domain.BidderGateway     = (*Client)(nil)
	_ domain.ItemGateway       = (*Client)(nil)
	_ domain.PaymentGateway    = (*Client)(nil)
	_ domain.AddressGateway    = (*Client)(nil)
	_ domain.AuctioneerGateway = (*Client)(nil)
	_ domain.CategoryGateway   = (*Client)(nil)
)

// NewClient creates a client for the API at baseURL (no trailing slash
// required).
func NewClient(baseURL string, timeout time.Duration) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetAuction implements domain.AuctionGateway.
func (c *Client) GetAuction(ctx context.Context, id int64) (*domain.AuctionRecord, error) {
	var dto auctionJSON
	if err := c.get(ctx, "get auction", fmt.Sprintf("/leilao/%d/", id), &dto); err != nil {
		if rej, ok := err.(*domain.RejectedError); ok && rej.Status == http.StatusNotFound {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return dto.toDomain(), nil
}

// ListBids implements domain.BidGateway. The API only exposes the full bid
// collection, so the client filters by auction and resolves bidder names
// one by one; a failed lookup falls back to a placeholder name instead of
// failing the listing.
func (c *Client) ListBids(ctx context.Context, auctionID int64) ([]*domain.Bid, error) {
	var dtos []bidJSON
	if err := c.get(ctx, "list bids", "/lance/", &dtos); err != nil {
		return nil, err
	}

	names := make(map[int64]string)
	bids := make([]*domain.Bid, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Auction != auctionID {
			continue
		}
		bid := dto.toDomain()
		if bid.BidderName == "" {
			name, ok := names[bid.BidderID]
			if !ok {
				bidder, err := c.GetBidder(ctx, bid.BidderID)
				if err != nil {
					log.Warn("failed to resolve bidder name",
						zap.Int64("bidderID", bid.BidderID),
						zap.Error(err),
					)
					name = fmt.Sprintf("Ofertante %d", bid.BidderID)
				} else {
					name = bidder.Name
				}
				names[bid.BidderID] = name
			}
			bid.BidderName = name
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

// CreateBid implements domain.BidGateway.
func (c *Client) CreateBid(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	body := bidWriteJSON{
		Amount:   bid.Amount,
		DateTime: bid.SubmittedAt,
		Bidder:   bid.BidderID,
		Item:     bid.ItemID,
		Auction:  bid.AuctionID,
	}
	var created bidJSON
	if err := c.send(ctx, "create bid", http.MethodPost, "/lance/", body, &created); err != nil {
		return nil, err
	}
	out := created.toDomain()
	if out.BidderName == "" {
		out.BidderName = bid.BidderName
	}
	return out, nil
}

// UpdateBid implements domain.BidGateway.
func (c *Client) UpdateBid(ctx context.Context, bid *domain.Bid) error {
	body := bidWriteJSON{
		Amount:   bid.Amount,
		DateTime: bid.SubmittedAt,
		Bidder:   bid.BidderID,
		Item:     bid.ItemID,
		Auction:  bid.AuctionID,
	}
	return c.send(ctx, "update bid", http.MethodPut, fmt.Sprintf("/lance/%d/", bid.ID), body, nil)
}

// DeleteBid implements domain.BidGateway.
func (c *Client) DeleteBid(ctx context.Context, bidID int64) error {
	return c.send(ctx, "delete bid", http.MethodDelete, fmt.Sprintf("/lance/%d/", bidID), nil, nil)
}

// ListBidders implements domain.BidderGateway.
func (c *Client) ListBidders(ctx context.Context) ([]*domain.Bidder, error) {
	var bidders []*domain.Bidder
	if err := c.get(ctx, "list bidders", "/ofertante/", &bidders); err != nil {
		return nil, err
	}
	return bidders, nil
}

// GetBidder implements domain.BidderGateway.
func (c *Client) GetBidder(ctx context.Context, id int64) (*domain.Bidder, error) {
	bidder := &domain.Bidder{}
	if err := c.get(ctx, "get bidder", fmt.Sprintf("/ofertante/%d/", id), bidder); err != nil {
		return nil, err
	}
	return bidder, nil
}

// GetItem implements domain.ItemGateway.
func (c *Client) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var dto itemJSON
	if err := c.get(ctx, "get item", fmt.Sprintf("/item/%d/", id), &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

// UpdateFinalValue implements domain.ItemGateway.
func (c *Client) UpdateFinalValue(ctx context.Context, id int64, value decimal.Decimal) error {
	body := map[string]decimal.Decimal{"final_value": value}
	return c.send(ctx, "update item final value", http.MethodPatch, fmt.Sprintf("/item/%d/", id), body, nil)
}

// CreatePayment implements domain.PaymentGateway.
func (c *Client) CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	body := paymentWriteJSON{
		AmountPaid: p.AmountPaid,
		Bidder:     p.BidderID,
		Auction:    p.AuctionID,
		Item:       p.ItemID,
	}
	created := &domain.Payment{}
	if err := c.send(ctx, "create payment", http.MethodPost, "/pagamento/", body, created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetAddress implements domain.AddressGateway.
func (c *Client) GetAddress(ctx context.Context, id int64) (*domain.Address, error) {
	addr := &domain.Address{}
	if err := c.get(ctx, "get address", fmt.Sprintf("/endereco/%d/", id), addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// GetAuctioneer implements domain.AuctioneerGateway.
func (c *Client) GetAuctioneer(ctx context.Context, id int64) (*domain.Auctioneer, error) {
	auctioneer := &domain.Auctioneer{}
	if err := c.get(ctx, "get auctioneer", fmt.Sprintf("/leiloeiro/%d/", id), auctioneer); err != nil {
		return nil, err
	}
	return auctioneer, nil
}

// GetCategory implements domain.CategoryGateway.
func (c *Client) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category := &domain.Category{}
	if err := c.get(ctx, "get category", fmt.Sprintf("/categoria/%d/", id), category); err != nil {
		return nil, err
	}
	return category, nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return c.send(ctx, op, http.MethodGet, path, nil, out)
}

// send performs one request against the API. Transport failures come back
// as *domain.NetworkError, non-2xx statuses as *domain.RejectedError.
func (c *Client) send(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RejectedError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: rejectionMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

// rejectionMessage pulls a human-readable message out of an error body when
// the API provides one.
func rejectionMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return string(data)
}
