package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionRecord is an auction exactly as the remote API returns it, with
// related resources still as numeric references.
type AuctionRecord struct {
	ID           int64
	Title        string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	AddressIDs   []int64
	AuctioneerID int64
	ItemID       *int64
}

// Window derives the monitor window from the record.
func (a *AuctionRecord) Window() AuctionWindow {
	return AuctionWindow{
		AuctionID: a.ID,
		StartTime: a.StartDate,
		EndTime:   a.EndDate,
		ItemID:    a.ItemID,
	}
}

// AuctionDetail is the fully assembled view of an auction: the record with
// every numeric reference resolved against the API.
type AuctionDetail struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Addresses   []*Address  `json:"addresses"`
	Auctioneer  *Auctioneer `json:"auctioneer"`
	Item        *Item       `json:"item"`
}

type Address struct {
	ID     int64  `json:"id"`
	Street string `json:"street"`
	Number string `json:"number"`
	City   string `json:"city"`
	State  string `json:"state"`
}

type Auctioneer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Item struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	StartingValue decimal.Decimal `json:"starting_value"`
	FinalValue    decimal.Decimal `json:"final_value"`
	CategoryID    int64           `json:"-"`
	Category      *Category       `json:"category"`
}

type Bidder struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Payment statuses as the backend reports them.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
)

// Payment is the record created when an auction settles: the winning
// bidder's obligation for the item.
type Payment struct {
	ID         int64           `json:"id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Status     string          `json:"status"`
	BidderID   int64           `json:"bidder"`
	AuctionID  int64           `json:"auction"`
	ItemID     int64           `json:"item"`
}
