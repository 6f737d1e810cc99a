// Package steamwebapi wraps the SteamWebAPI pricing feed and the public cs2
// marketplace-ids catalog. It decodes raw item rows and verifies the batch
// schema before anything downstream touches the data.
package steamwebapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"steamweb-prices/internal/models"
	"steamweb-prices/internal/normalizer"

	"github.com/go-resty/resty/v2"
)

const (
	defaultItemsURL   = "https://www.steamwebapi.com/steam/api/items"
	defaultCatalogURL = "https://raw.githubusercontent.com/ModestSerhat/cs2-marketplace-ids/refs/heads/main/cs2_marketplaceids.json"
)

// requiredColumns is the upstream schema contract: each key must appear in at
// least one row object of the batch.
var requiredColumns = []string{
	"markethashname",
	"buyorderprice", "pricemin", "pricemedian", "priceavg", "pricemax",
	"pricereal", "pricereal24h", "pricereal7d", "pricereal30d",
	"sold24h", "sold7d", "sold30d",
}

type Client struct {
	apiKey string
	client *resty.Client

	// Overridable for tests.
	ItemsURL   string
	CatalogURL string
}

func NewClient(apiKey string) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{
		apiKey:     apiKey,
		client:     client,
		ItemsURL:   defaultItemsURL,
		CatalogURL: defaultCatalogURL,
	}
}

// FetchItems retrieves the raw price listing for one game. The game code and
// currency are passed through to the upstream feed as-is.
func (c *Client) FetchItems(ctx context.Context, game, currency string) ([]models.RawItemRow, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":      c.apiKey,
			"game":     game,
			"currency": currency,
		}).
		Get(c.ItemsURL)
	if err != nil {
		return nil, fmt.Errorf("steamwebapi request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("steamwebapi request failed: %s", resp.Status())
	}

	return parseItems(resp.Body())
}

// FetchCS2Catalog retrieves the full set of known cs2 item names, used to pad
// the price feed with placeholder rows for items it does not carry.
func (c *Client) FetchCS2Catalog(ctx context.Context) (map[string]struct{}, error) {
	resp, err := c.client.R().SetContext(ctx).Get(c.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("cs2 catalog request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cs2 catalog request failed: %s", resp.Status())
	}

	return parseCatalog(resp.Body())
}

// parseItems decodes the upstream JSON array into raw rows. Decoding goes
// through raw key/value maps so the batch schema (the union of keys across
// rows) can be checked against the required column set.
func parseItems(body []byte) ([]models.RawItemRow, error) {
	var objs []map[string]json.RawMessage
	if err := json.Unmarshal(body, &objs); err != nil {
		return nil, fmt.Errorf("decode items payload: %w", err)
	}

	seen := make(map[string]bool)
	rows := make([]models.RawItemRow, 0, len(objs))
	for _, obj := range objs {
		for k := range obj {
			seen[k] = true
		}
		rows = append(rows, models.RawItemRow{
			Name:                      getString(obj, "markethashname"),
			BuyOrderPrice:             getFloat(obj, "buyorderprice"),
			PriceMin:                  getFloat(obj, "pricemin"),
			PriceMedian:               getFloat(obj, "pricemedian"),
			PriceAvg:                  getFloat(obj, "priceavg"),
			PriceMax:                  getFloat(obj, "pricemax"),
			PriceReal:                 getFloat(obj, "pricereal"),
			PriceReal24h:              getFloat(obj, "pricereal24h"),
			PriceReal7d:               getFloat(obj, "pricereal7d"),
			PriceReal30d:              getFloat(obj, "pricereal30d"),
			RealPriceChangePercent24h: getFloat(obj, "pricerealchangepercent24h"),
			RealPriceChangePercent7d:  getFloat(obj, "pricerealchangepercent7d"),
			RealPriceChangePercent30d: getFloat(obj, "pricerealchangepercent30d"),
			Sold24h:                   getInt(obj, "sold24h"),
			Sold7d:                    getInt(obj, "sold7d"),
			Sold30d:                   getInt(obj, "sold30d"),
		})
	}

	var missing []string
	for _, col := range requiredColumns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &normalizer.InputShapeError{Missing: missing}
	}

	return rows, nil
}

// parseCatalog accepts both catalog layouts seen in the wild: items as a
// name-keyed object or as a plain array of names.
func parseCatalog(body []byte) (map[string]struct{}, error) {
	var payload struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode catalog payload: %w", err)
	}

	names := make(map[string]struct{})

	var byName map[string]json.RawMessage
	if err := json.Unmarshal(payload.Items, &byName); err == nil {
		for name := range byName {
			names[name] = struct{}{}
		}
		return names, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(payload.Items, &list); err != nil {
		return nil, fmt.Errorf("decode catalog items: %w", err)
	}
	for _, raw := range list {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			names[name] = struct{}{}
		}
	}

	return names, nil
}

func getString(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// getFloat is lenient: null, absent, or non-numeric values all decode to nil.
func getFloat(obj map[string]json.RawMessage, key string) *float64 {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func getInt(obj map[string]json.RawMessage, key string) *int64 {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	var v *int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
