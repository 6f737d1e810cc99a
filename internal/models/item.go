package models

// RawItemRow is one row of the upstream SteamWebAPI items feed, keyed by the
// market hash name. Nullable numeric columns are pointers; the upstream feed
// marks absent values either as null or as a literal 0, and the normalizer
// treats both the same way.
type RawItemRow struct {
	Name string `json:"name"`

	// Order-book / listing signals.
	BuyOrderPrice *float64 `json:"buy_order_price"`
	PriceMin      *float64 `json:"price_min"`
	PriceMedian   *float64 `json:"price_median"`
	PriceAvg      *float64 `json:"price_avg"`
	PriceMax      *float64 `json:"price_max"`

	// Cross-market "real" price signals at different time windows.
	PriceReal    *float64 `json:"price_real"`
	PriceReal24h *float64 `json:"price_real_24h"`
	PriceReal7d  *float64 `json:"price_real_7d"`
	PriceReal30d *float64 `json:"price_real_30d"`

	// Pass-through change percentages, not used by the normalizer.
	RealPriceChangePercent24h *float64 `json:"real_price_change_percent_24h"`
	RealPriceChangePercent7d  *float64 `json:"real_price_change_percent_7d"`
	RealPriceChangePercent30d *float64 `json:"real_price_change_percent_30d"`

	// Trade volume.
	Sold24h *int64 `json:"sold_24h"`
	Sold7d  *int64 `json:"sold_7d"`
	Sold30d *int64 `json:"sold_30d"`
}

// NormalizedItemRow is the full output row: every raw column plus the derived
// price estimates. Null derived columns mean the signal could not be computed
// for the row (missing inputs or an undefined batch ratio).
type NormalizedItemRow struct {
	Name string `json:"name"`

	BuyOrderPrice *float64 `json:"buy_order_price"`
	PriceMin      *float64 `json:"price_min"`
	PriceMedian   *float64 `json:"price_median"`
	PriceAvg      *float64 `json:"price_avg"`
	PriceMax      *float64 `json:"price_max"`

	PriceReal    *float64 `json:"price_real"`
	PriceReal24h *float64 `json:"price_real_24h"`
	PriceReal7d  *float64 `json:"price_real_7d"`
	PriceReal30d *float64 `json:"price_real_30d"`

	RealPriceChangePercent24h *float64 `json:"real_price_change_percent_24h"`
	RealPriceChangePercent7d  *float64 `json:"real_price_change_percent_7d"`
	RealPriceChangePercent30d *float64 `json:"real_price_change_percent_30d"`

	SteamPriceMin   *float64 `json:"steam_price_min"`
	SteamPriceMax   *float64 `json:"steam_price_max"`
	SteamPrice      *float64 `json:"steam_price"`
	SteamPriceTaxed *float64 `json:"steam_price_taxed"`

	RealPrice *float64 `json:"real_price"`

	EstimatedSteamPrice      *float64 `json:"estimated_steam_price"`
	EstimatedSteamPriceTaxed *float64 `json:"estimated_steam_price_taxed"`
	EstimatedRealPrice       *float64 `json:"estimated_real_price"`

	// Zero-filled once the row has a known steam price.
	SteamSold24h *int64 `json:"steam_sold_24h"`
	SteamSold7d  *int64 `json:"steam_sold_7d"`
	SteamSold30d *int64 `json:"steam_sold_30d"`
}

// MinimalItemRow is the fixed projection returned when the caller does not
// ask for the full table.
type MinimalItemRow struct {
	Name                     string   `json:"name"`
	SteamPrice               *float64 `json:"steam_price"`
	SteamPriceTaxed          *float64 `json:"steam_price_taxed"`
	EstimatedSteamPrice      *float64 `json:"estimated_steam_price"`
	EstimatedSteamPriceTaxed *float64 `json:"estimated_steam_price_taxed"`
	SteamSold24h             *int64   `json:"steam_sold_24h"`
	SteamSold7d              *int64   `json:"steam_sold_7d"`
	SteamSold30d             *int64   `json:"steam_sold_30d"`
	RealPrice                *float64 `json:"real_price"`
	EstimatedRealPrice       *float64 `json:"estimated_real_price"`
}

// Minimal projects the row onto the minimal column set.
func (r NormalizedItemRow) Minimal() MinimalItemRow {
	return MinimalItemRow{
		Name:                     r.Name,
		SteamPrice:               r.SteamPrice,
		SteamPriceTaxed:          r.SteamPriceTaxed,
		EstimatedSteamPrice:      r.EstimatedSteamPrice,
		EstimatedSteamPriceTaxed: r.EstimatedSteamPriceTaxed,
		SteamSold24h:             r.SteamSold24h,
		SteamSold7d:              r.SteamSold7d,
		SteamSold30d:             r.SteamSold30d,
		RealPrice:                r.RealPrice,
		EstimatedRealPrice:       r.EstimatedRealPrice,
	}
}
