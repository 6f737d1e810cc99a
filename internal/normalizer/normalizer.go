// Package normalizer derives normalized price estimates from a sparse batch
// of raw marketplace price rows. Gaps are filled with ratio-based imputation:
// batch-wide mean ratios between co-occurring price signals project a known
// signal onto the scale of a missing one.
//
// The whole table is computed in one synchronous pass. Batch ratios are means
// over float64 sums in input order, so reordering the input can move results
// by an ULP; identical input order reproduces identical output.
package normalizer

import (
	"math"

	"steamweb-prices/internal/models"
)

// Pricing policy. The taxed price models the marketplace percentage fee plus
// a fixed listing fee subtracted from the gross price.
const (
	SteamFee      = 1.15
	SteamFixedFee = 0.0119
	MinSteamPrice = 0.03
	MinRealPrice  = 0.01
)

// realPriceCandidate is one source column for the real price, with the ratio
// projecting it onto the instantaneous price scale. A unit candidate keeps
// ratio 1 exactly and never becomes undefined.
type realPriceCandidate struct {
	column string
	value  func(*models.NormalizedItemRow) *float64
	unit   bool
}

// realPricePriority is walked in order per row; the first non-null candidate
// wins and no further columns are tried. Longest window first, the
// instantaneous reading last.
var realPricePriority = []realPriceCandidate{
	{column: "price_real_30d", value: func(r *models.NormalizedItemRow) *float64 { return r.PriceReal30d }},
	{column: "price_real_7d", value: func(r *models.NormalizedItemRow) *float64 { return r.PriceReal7d }},
	{column: "price_real_24h", value: func(r *models.NormalizedItemRow) *float64 { return r.PriceReal24h }},
	{column: "price_real", value: func(r *models.NormalizedItemRow) *float64 { return r.PriceReal }, unit: true},
}

// Normalize consumes raw per-item rows and produces the full normalized
// table. Duplicate names keep the first occurrence; exact-zero numeric values
// are treated as missing. It never fails: undefined batch ratios degrade to
// null dependent columns.
func Normalize(raw []models.RawItemRow) []models.NormalizedItemRow {
	rows := sanitize(raw)

	computeSteamBounds(rows)
	computeSteamPrice(rows)
	computeSteamPriceTaxed(rows)
	computeRealPrice(rows)
	computeEstimates(rows)
	fillSoldVolumes(rows)

	return rows
}

// sanitize builds the working table: dedup by name keeping the first
// occurrence, copy the raw columns, and null out exact zeros.
func sanitize(raw []models.RawItemRow) []models.NormalizedItemRow {
	seen := make(map[string]bool, len(raw))
	rows := make([]models.NormalizedItemRow, 0, len(raw))

	for _, r := range raw {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true

		rows = append(rows, models.NormalizedItemRow{
			Name:                      r.Name,
			BuyOrderPrice:             nonZero(r.BuyOrderPrice),
			PriceMin:                  nonZero(r.PriceMin),
			PriceMedian:               nonZero(r.PriceMedian),
			PriceAvg:                  nonZero(r.PriceAvg),
			PriceMax:                  nonZero(r.PriceMax),
			PriceReal:                 nonZero(r.PriceReal),
			PriceReal24h:              nonZero(r.PriceReal24h),
			PriceReal7d:               nonZero(r.PriceReal7d),
			PriceReal30d:              nonZero(r.PriceReal30d),
			RealPriceChangePercent24h: r.RealPriceChangePercent24h,
			RealPriceChangePercent7d:  r.RealPriceChangePercent7d,
			RealPriceChangePercent30d: r.RealPriceChangePercent30d,
			SteamSold24h:              nonZeroInt(r.Sold24h),
			SteamSold7d:               nonZeroInt(r.Sold7d),
			SteamSold30d:              nonZeroInt(r.Sold30d),
		})
	}

	return rows
}

// computeSteamBounds bounds the tradable price from both sides: the order
// book bid and lowest listing form a floor, the median/average/max listing a
// ceiling.
func computeSteamBounds(rows []models.NormalizedItemRow) {
	for i := range rows {
		rows[i].SteamPriceMin = maxOf(rows[i].BuyOrderPrice, rows[i].PriceMin)
		rows[i].SteamPriceMax = minOf(rows[i].PriceMedian, rows[i].PriceAvg, rows[i].PriceMax)
	}
}

// computeSteamPrice takes the midpoint where both bounds exist, then imputes
// the rest from the batch-wide bias between each one-sided bound and the
// midpoint, and finally applies the marketplace minimum.
func computeSteamPrice(rows []models.NormalizedItemRow) {
	for i := range rows {
		if rows[i].SteamPriceMin != nil && rows[i].SteamPriceMax != nil {
			rows[i].SteamPrice = ptr(round2((*rows[i].SteamPriceMin + *rows[i].SteamPriceMax) / 2))
		}
	}

	var minRatio, maxRatio ratioAccum
	for i := range rows {
		if rows[i].SteamPrice == nil {
			continue
		}
		minRatio.add(rows[i].SteamPrice, rows[i].SteamPriceMin)
		maxRatio.add(rows[i].SteamPrice, rows[i].SteamPriceMax)
	}
	rMin, rMax := minRatio.mean(), maxRatio.mean()

	for i := range rows {
		if rows[i].SteamPrice != nil {
			continue
		}
		switch {
		case rows[i].SteamPriceMin != nil && rMin != nil:
			rows[i].SteamPrice = ptr(round2(*rows[i].SteamPriceMin * *rMin))
		case rows[i].SteamPriceMax != nil && rMax != nil:
			rows[i].SteamPrice = ptr(round2(*rows[i].SteamPriceMax * *rMax))
		}
	}

	for i := range rows {
		if rows[i].SteamPrice != nil && *rows[i].SteamPrice < MinSteamPrice {
			rows[i].SteamPrice = ptr(MinSteamPrice)
		}
	}
}

func computeSteamPriceTaxed(rows []models.NormalizedItemRow) {
	for i := range rows {
		if rows[i].SteamPrice != nil {
			rows[i].SteamPriceTaxed = ptr(taxed(*rows[i].SteamPrice))
		}
	}
}

// computeRealPrice projects the time-windowed cross-market signals onto the
// instantaneous price scale. Ratios are estimated only over rows where all
// three windowed columns co-occur, which keeps the estimate stable; each row
// then takes the first non-null candidate in priority order.
func computeRealPrice(rows []models.NormalizedItemRow) {
	ratios := make(map[string]*float64, len(realPricePriority))
	for _, cand := range realPricePriority {
		if cand.unit {
			ratios[cand.column] = ptr(1)
			continue
		}
		var acc ratioAccum
		for i := range rows {
			if rows[i].PriceReal24h == nil || rows[i].PriceReal7d == nil || rows[i].PriceReal30d == nil {
				continue
			}
			acc.add(rows[i].PriceReal, cand.value(&rows[i]))
		}
		ratios[cand.column] = acc.mean()
	}

	for i := range rows {
		for _, cand := range realPricePriority {
			v := cand.value(&rows[i])
			if v == nil {
				continue
			}
			if ratio := ratios[cand.column]; ratio != nil {
				rows[i].RealPrice = ptr(round2(*v * *ratio))
			}
			break
		}
		if rows[i].RealPrice != nil && *rows[i].RealPrice < MinRealPrice {
			rows[i].RealPrice = ptr(MinRealPrice)
		}
	}
}

// computeEstimates fits the cross-market ratio over rows carrying both
// prices, then projects each known price onto the other market's scale. An
// undefined ratio (no row has both) leaves every estimate null.
func computeEstimates(rows []models.NormalizedItemRow) {
	var acc ratioAccum
	for i := range rows {
		if rows[i].SteamPrice != nil && rows[i].RealPrice != nil {
			acc.add(rows[i].SteamPrice, rows[i].RealPrice)
		}
	}
	k := acc.mean()
	if k == nil || *k == 0 {
		return
	}

	for i := range rows {
		if rows[i].RealPrice != nil {
			rows[i].EstimatedSteamPrice = ptr(math.Max(MinSteamPrice, round2(*rows[i].RealPrice * *k)))
			rows[i].EstimatedSteamPriceTaxed = ptr(taxed(*rows[i].EstimatedSteamPrice))
		}
		if rows[i].SteamPrice != nil {
			rows[i].EstimatedRealPrice = ptr(math.Max(MinRealPrice, round2(*rows[i].SteamPrice / *k)))
		}
	}
}

// fillSoldVolumes zero-fills volume for rows with a confirmed price: a priced
// item with no recorded trade sold zero units, it is not unknown.
func fillSoldVolumes(rows []models.NormalizedItemRow) {
	for i := range rows {
		if rows[i].SteamPrice == nil {
			continue
		}
		if rows[i].SteamSold24h == nil {
			rows[i].SteamSold24h = ptrInt(0)
		}
		if rows[i].SteamSold7d == nil {
			rows[i].SteamSold7d = ptrInt(0)
		}
		if rows[i].SteamSold30d == nil {
			rows[i].SteamSold30d = ptrInt(0)
		}
	}
}

// ratioAccum accumulates mean(num/den) over rows where both sides are usable.
type ratioAccum struct {
	sum float64
	n   int
}

func (a *ratioAccum) add(num, den *float64) {
	if num == nil || den == nil || *den == 0 {
		return
	}
	a.sum += *num / *den
	a.n++
}

// mean is nil when no row qualified; callers treat that as an undefined
// ratio and leave dependent columns null.
func (a *ratioAccum) mean() *float64 {
	if a.n == 0 {
		return nil
	}
	return ptr(a.sum / float64(a.n))
}

func taxed(gross float64) float64 {
	return round2(gross/SteamFee - SteamFixedFee)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

func nonZeroInt(v *int64) *int64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

// maxOf returns the largest non-null value, or nil when all are null.
func maxOf(vals ...*float64) *float64 {
	var out *float64
	for _, v := range vals {
		if v == nil {
			continue
		}
		if out == nil || *v > *out {
			out = v
		}
	}
	return out
}

// minOf returns the smallest non-null value, or nil when all are null.
func minOf(vals ...*float64) *float64 {
	var out *float64
	for _, v := range vals {
		if v == nil {
			continue
		}
		if out == nil || *v < *out {
			out = v
		}
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func ptrInt(v int64) *int64 { return &v }
