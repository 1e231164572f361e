package restapi

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/shopspring/decimal"
)

// The backend is loose about reference fields: depending on the endpoint a
// related resource arrives as a bare id, an embedded object, an array, or
// null. idList and idRef absorb those variations.

// idList accepts either a single id or an array of ids.
type idList []int64

func (l *idList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var ids []int64
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		*l = ids
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*l = idList{id}
	return nil
}

// idRef accepts null, a bare id, or an embedded object carrying id and
// optionally name.
type idRef struct {
	ID    int64
	Name  string
	Valid bool
}

func (r *idRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*r = idRef{}
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = idRef{ID: obj.ID, Name: obj.Name, Valid: true}
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = idRef{ID: id, Valid: true}
	return nil
}

type auctionJSON struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     idList    `json:"address"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Auctioneer  idRef     `json:"auctioneer"`
	Item        idRef     `json:"item"`
}

func (a *auctionJSON) toDomain() *domain.AuctionRecord {
	rec := &domain.AuctionRecord{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
		AddressIDs:   a.Address,
		AuctioneerID: a.Auctioneer.ID,
	}
	if a.Item.Valid {
		itemID := a.Item.ID
		rec.ItemID = &itemID
	}
	return rec
}

type bidJSON struct {
	ID       int64           `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	DateTime time.Time       `json:"date_time"`
	Bidder   idRef           `json:"bidder"`
	Item     int64           `json:"item"`
	Auction  int64           `json:"auction"`
}

func (b *bidJSON) toDomain() *domain.Bid {
	return &domain.Bid{
		ID:          b.ID,
		AuctionID:   b.Auction,
		ItemID:      b.Item,
		BidderID:    b.Bidder.ID,
		BidderName:  b.Bidder.Name,
		Amount:      b.Amount,
		SubmittedAt: b.DateTime,
	}
}

type bidWriteJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	DateTime time.Time       `json:"date_time"`
	Bidder   int64           `json:"bidder"`
	Item     int64           `json:"item"`
	Auction  int64           `json:"auction"`
}

type itemJSON struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	StartingValue decimal.Decimal     `json:"starting_value"`
	FinalValue    decimal.NullDecimal `json:"final_value"`
	Category      idRef               `json:"category"`
}

func (i *itemJSON) toDomain() *domain.Item {
	item := &domain.Item{
		ID:            i.ID,
		Name:          i.Name,
		Description:   i.Description,
		StartingValue: i.StartingValue,
		CategoryID:    i.Category.ID,
	}
	if i.FinalValue.Valid {
		item.FinalValue = i.FinalValue.Decimal
	} else {
		item.FinalValue = i.StartingValue
	}
	if i.Category.Valid && i.Category.Name != "" {
		item.Category = &domain.Category{ID: i.Category.ID, Name: i.Category.Name}
	}
	return item
}

type paymentWriteJSON struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Bidder     int64           `json:"bidder"`
	Auction    int64           `json:"auction"`
	Item       int64           `json:"item"`
}
