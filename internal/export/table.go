// Package export writes normalized price tables to CSV and XLSX files.
package export

import (
	"strconv"

	"steamweb-prices/internal/models"
)

var fullHeader = []string{
	"name",
	"buy_order_price", "price_min", "price_median", "price_avg", "price_max",
	"price_real", "price_real_24h", "price_real_7d", "price_real_30d",
	"real_price_change_percent_24h", "real_price_change_percent_7d", "real_price_change_percent_30d",
	"steam_price_min", "steam_price_max", "steam_price", "steam_price_taxed",
	"real_price",
	"estimated_steam_price", "estimated_steam_price_taxed", "estimated_real_price",
	"steam_sold_24h", "steam_sold_7d", "steam_sold_30d",
}

var minimalHeader = []string{
	"name",
	"steam_price", "steam_price_taxed",
	"estimated_steam_price", "estimated_steam_price_taxed",
	"steam_sold_24h", "steam_sold_7d", "steam_sold_30d",
	"real_price", "estimated_real_price",
}

func fullRecord(r models.NormalizedItemRow) []string {
	return []string{
		r.Name,
		cell(r.BuyOrderPrice), cell(r.PriceMin), cell(r.PriceMedian), cell(r.PriceAvg), cell(r.PriceMax),
		cell(r.PriceReal), cell(r.PriceReal24h), cell(r.PriceReal7d), cell(r.PriceReal30d),
		cell(r.RealPriceChangePercent24h), cell(r.RealPriceChangePercent7d), cell(r.RealPriceChangePercent30d),
		cell(r.SteamPriceMin), cell(r.SteamPriceMax), cell(r.SteamPrice), cell(r.SteamPriceTaxed),
		cell(r.RealPrice),
		cell(r.EstimatedSteamPrice), cell(r.EstimatedSteamPriceTaxed), cell(r.EstimatedRealPrice),
		intCell(r.SteamSold24h), intCell(r.SteamSold7d), intCell(r.SteamSold30d),
	}
}

func minimalRecord(r models.MinimalItemRow) []string {
	return []string{
		r.Name,
		cell(r.SteamPrice), cell(r.SteamPriceTaxed),
		cell(r.EstimatedSteamPrice), cell(r.EstimatedSteamPriceTaxed),
		intCell(r.SteamSold24h), intCell(r.SteamSold7d), intCell(r.SteamSold30d),
		cell(r.RealPrice), cell(r.EstimatedRealPrice),
	}
}

// Null columns export as empty cells.
func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
