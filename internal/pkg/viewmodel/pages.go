package viewmodel

import (
	"fmt"

	"github.com/premiumgate/premiumgate/internal/pkg/config"
)

// Offer is the premium offer as shown on the checkout page.
type Offer struct {
	Title       string
	Description string
	Currency    string
	Price       string
}

func NewOffer(cfg config.OfferConfig) Offer {
	return Offer{
		Title:       cfg.Title,
		Description: cfg.Description,
		Currency:    cfg.CurrencyID,
		Price:       fmt.Sprintf("%.2f", cfg.UnitPrice),
	}
}

// Stats are the home page counters.
type Stats struct {
	TotalUsers  int64
	Subscribers int64
}
