package normalizer

import (
	"reflect"
	"testing"

	"steamweb-prices/internal/models"
)

func fp(v float64) *float64 { return &v }

func ip(v int64) *int64 { return &v }

func fval(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", name, want)
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func fnil(t *testing.T, name string, got *float64) {
	t.Helper()
	if got != nil {
		t.Errorf("%s = %v, want nil", name, *got)
	}
}

func TestSteamPriceBoundsAndMidpoint(t *testing.T) {
	rows := Normalize([]models.RawItemRow{{
		Name:          "AK-47 | Redline (Field-Tested)",
		BuyOrderPrice: fp(1.0),
		PriceMin:      fp(1.5),
		PriceMedian:   fp(2.0),
		PriceAvg:      fp(2.2),
		PriceMax:      fp(3.0),
	}})

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	fval(t, "steam_price_min", r.SteamPriceMin, 1.5)
	fval(t, "steam_price_max", r.SteamPriceMax, 2.0)
	fval(t, "steam_price", r.SteamPrice, 1.75)
	fval(t, "steam_price_taxed", r.SteamPriceTaxed, 1.51)
}

func TestSteamPriceRatioFallback(t *testing.T) {
	// A and B carry both bounds and define the ratios:
	// r_min = mean(2/1, 3/2) = 1.75, r_max = mean(2/3, 3/4) = 0.70833...
	rows := Normalize([]models.RawItemRow{
		{Name: "a", BuyOrderPrice: fp(1.0), PriceMin: fp(1.0), PriceMedian: fp(3.0), PriceAvg: fp(3.0), PriceMax: fp(3.0)},
		{Name: "b", BuyOrderPrice: fp(2.0), PriceMin: fp(2.0), PriceMedian: fp(4.0)},
		{Name: "c", BuyOrderPrice: fp(2.0)}, // floor bound only
		{Name: "d", PriceMedian: fp(2.0)},   // ceiling bound only
	})

	fval(t, "a steam_price", rows[0].SteamPrice, 2.0)
	fval(t, "b steam_price", rows[1].SteamPrice, 3.0)
	fval(t, "c steam_price", rows[2].SteamPrice, 3.5)  // 2.0 * 1.75
	fval(t, "d steam_price", rows[3].SteamPrice, 1.42) // 2.0 * 0.70833...
}

func TestSteamPriceFloor(t *testing.T) {
	rows := Normalize([]models.RawItemRow{{
		Name:          "cheap",
		BuyOrderPrice: fp(0.01),
		PriceMin:      fp(0.01),
		PriceMedian:   fp(0.01),
	}})

	fval(t, "steam_price", rows[0].SteamPrice, MinSteamPrice)
	fval(t, "steam_price_taxed", rows[0].SteamPriceTaxed, 0.01)
}

func TestSteamPriceNilWhenRatioUndefined(t *testing.T) {
	// No row carries both bounds, so neither fallback ratio is defined.
	rows := Normalize([]models.RawItemRow{
		{Name: "a", BuyOrderPrice: fp(2.0)},
		{Name: "b", PriceMedian: fp(4.0)},
	})

	for _, r := range rows {
		fnil(t, r.Name+" steam_price", r.SteamPrice)
		fnil(t, r.Name+" steam_price_taxed", r.SteamPriceTaxed)
		if r.SteamSold24h != nil {
			t.Errorf("%s steam_sold_24h = %v, want nil", r.Name, *r.SteamSold24h)
		}
	}
}

func TestZeroEquivalentToNull(t *testing.T) {
	zeros := []models.RawItemRow{{
		Name:          "zeroed",
		BuyOrderPrice: fp(0), PriceMin: fp(0), PriceMedian: fp(0), PriceAvg: fp(0), PriceMax: fp(0),
		PriceReal: fp(0), PriceReal24h: fp(0), PriceReal7d: fp(0), PriceReal30d: fp(0),
		Sold24h: ip(0), Sold7d: ip(0), Sold30d: ip(0),
	}}
	nulls := []models.RawItemRow{{Name: "zeroed"}}

	gotZeros := Normalize(zeros)
	gotNulls := Normalize(nulls)

	if !reflect.DeepEqual(gotZeros, gotNulls) {
		t.Errorf("zero-valued batch normalized differently from null batch:\n%+v\nvs\n%+v", gotZeros, gotNulls)
	}

	r := gotZeros[0]
	fnil(t, "steam_price", r.SteamPrice)
	fnil(t, "real_price", r.RealPrice)
	fnil(t, "estimated_steam_price", r.EstimatedSteamPrice)
}

func TestRealPricePriorityOrder(t *testing.T) {
	want := []string{"price_real_30d", "price_real_7d", "price_real_24h", "price_real"}
	if len(realPricePriority) != len(want) {
		t.Fatalf("priority list has %d candidates, want %d", len(realPricePriority), len(want))
	}
	for i, cand := range realPricePriority {
		if cand.column != want[i] {
			t.Errorf("priority[%d] = %s, want %s", i, cand.column, want[i])
		}
	}
	if !realPricePriority[len(realPricePriority)-1].unit {
		t.Error("instantaneous candidate must carry ratio 1 exactly")
	}
}

func TestRealPriceLongestWindowWins(t *testing.T) {
	// Ratio rows: r30 = mean(2/8, 3/12, 50/8) = 2.25.
	// The target row has every candidate set; only the 30d column may be
	// used: 8 * 2.25 = 18, not the instantaneous 50.
	rows := Normalize([]models.RawItemRow{
		{Name: "r1", PriceReal: fp(2.0), PriceReal24h: fp(2.0), PriceReal7d: fp(4.0), PriceReal30d: fp(8.0)},
		{Name: "r2", PriceReal: fp(3.0), PriceReal24h: fp(3.0), PriceReal7d: fp(6.0), PriceReal30d: fp(12.0)},
		{Name: "target", PriceReal: fp(50.0), PriceReal24h: fp(50.0), PriceReal7d: fp(50.0), PriceReal30d: fp(8.0)},
	})

	fval(t, "target real_price", rows[2].RealPrice, 18.0)
}

func TestRealPriceWindowFallback(t *testing.T) {
	// Complete rows pin the ratios: r30 = 0.25, r7 = 0.5, r24 = 1.0.
	rows := Normalize([]models.RawItemRow{
		{Name: "r1", PriceReal: fp(2.0), PriceReal24h: fp(2.0), PriceReal7d: fp(4.0), PriceReal30d: fp(8.0)},
		{Name: "r2", PriceReal: fp(3.0), PriceReal24h: fp(3.0), PriceReal7d: fp(6.0), PriceReal30d: fp(12.0)},
		{Name: "only7d", PriceReal7d: fp(10.0)},
		{Name: "onlyinstant", PriceReal: fp(7.0)},
		{Name: "nothing"},
	})

	fval(t, "r1 real_price", rows[0].RealPrice, 2.0) // 8 * 0.25
	fval(t, "only7d real_price", rows[2].RealPrice, 5.0)
	fval(t, "onlyinstant real_price", rows[3].RealPrice, 7.0)
	fnil(t, "nothing real_price", rows[4].RealPrice)
}

func TestRealPriceFloor(t *testing.T) {
	rows := Normalize([]models.RawItemRow{
		{Name: "dust", PriceReal: fp(0.002)},
	})

	fval(t, "real_price", rows[0].RealPrice, MinRealPrice)
}

func TestRealPriceNilWhenWindowRatioUndefined(t *testing.T) {
	// No complete row exists, so windowed ratios are undefined; a row whose
	// best candidate is a windowed column gets no real price.
	rows := Normalize([]models.RawItemRow{
		{Name: "a", PriceReal30d: fp(8.0)},
	})

	fnil(t, "real_price", rows[0].RealPrice)
}

func TestCrossMarketEstimates(t *testing.T) {
	// e1 and e2 carry both prices: k = mean(2/1, 4/2) = 2.
	rows := Normalize([]models.RawItemRow{
		{Name: "e1", BuyOrderPrice: fp(1.0), PriceMin: fp(1.0), PriceMedian: fp(3.0), PriceReal: fp(1.0)},
		{Name: "e2", BuyOrderPrice: fp(2.0), PriceMin: fp(2.0), PriceMedian: fp(6.0), PriceReal: fp(2.0)},
		{Name: "realonly", PriceReal: fp(3.0)},
		{Name: "steamonly", BuyOrderPrice: fp(5.0), PriceMedian: fp(5.0)},
	})

	fval(t, "e1 estimated_steam_price", rows[0].EstimatedSteamPrice, 2.0)
	fval(t, "e1 estimated_real_price", rows[0].EstimatedRealPrice, 1.0)

	fval(t, "realonly estimated_steam_price", rows[2].EstimatedSteamPrice, 6.0)
	fval(t, "realonly estimated_steam_price_taxed", rows[2].EstimatedSteamPriceTaxed, 5.21)
	fnil(t, "realonly estimated_real_price", rows[2].EstimatedRealPrice)

	fval(t, "steamonly estimated_real_price", rows[3].EstimatedRealPrice, 2.5)
	fnil(t, "steamonly estimated_steam_price", rows[3].EstimatedSteamPrice)
}

func TestEstimatesNilWhenCrossRatioUndefined(t *testing.T) {
	// No row carries both prices, so k is undefined and every estimate
	// stays null. This is a valid outcome, not an error.
	rows := Normalize([]models.RawItemRow{
		{Name: "steamonly", BuyOrderPrice: fp(1.0), PriceMin: fp(1.0), PriceMedian: fp(3.0)},
		{Name: "realonly", PriceReal: fp(3.0)},
	})

	for _, r := range rows {
		fnil(t, r.Name+" estimated_steam_price", r.EstimatedSteamPrice)
		fnil(t, r.Name+" estimated_steam_price_taxed", r.EstimatedSteamPriceTaxed)
		fnil(t, r.Name+" estimated_real_price", r.EstimatedRealPrice)
	}
}

func TestVolumeZeroFillRequiresSteamPrice(t *testing.T) {
	rows := Normalize([]models.RawItemRow{
		{Name: "priced", BuyOrderPrice: fp(1.0), PriceMin: fp(1.0), PriceMedian: fp(3.0), Sold7d: ip(12)},
		{Name: "unpriced"},
		{Name: "zerovolume", BuyOrderPrice: fp(1.0), PriceMin: fp(1.0), PriceMedian: fp(3.0), Sold24h: ip(0)},
	})

	priced := rows[0]
	if priced.SteamSold24h == nil || *priced.SteamSold24h != 0 {
		t.Errorf("priced steam_sold_24h = %v, want 0", priced.SteamSold24h)
	}
	if priced.SteamSold7d == nil || *priced.SteamSold7d != 12 {
		t.Errorf("priced steam_sold_7d = %v, want 12", priced.SteamSold7d)
	}

	if rows[1].SteamSold24h != nil {
		t.Errorf("unpriced steam_sold_24h = %v, want nil", *rows[1].SteamSold24h)
	}

	// An upstream zero is "missing", then refilled to zero because the row
	// has a confirmed price. Same output, different path.
	if rows[2].SteamSold24h == nil || *rows[2].SteamSold24h != 0 {
		t.Errorf("zerovolume steam_sold_24h = %v, want 0", rows[2].SteamSold24h)
	}
}

func TestDuplicateNamesKeepFirst(t *testing.T) {
	rows := Normalize([]models.RawItemRow{
		{Name: "dup", BuyOrderPrice: fp(1.0), PriceMin: fp(1.0), PriceMedian: fp(3.0)},
		{Name: "dup", BuyOrderPrice: fp(9.0), PriceMin: fp(9.0), PriceMedian: fp(9.0)},
		{Name: "other"},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	fval(t, "dup steam_price", rows[0].SteamPrice, 2.0)
}

func TestEmptyBatch(t *testing.T) {
	if rows := Normalize(nil); len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestMidpointProperty(t *testing.T) {
	rows := Normalize([]models.RawItemRow{
		{Name: "a", BuyOrderPrice: fp(1.23), PriceMin: fp(2.31), PriceMedian: fp(7.77), PriceAvg: fp(8.0), PriceMax: fp(9.5)},
		{Name: "b", BuyOrderPrice: fp(0.4), PriceMin: fp(0.2), PriceMedian: fp(0.9)},
	})

	for _, r := range rows {
		if r.SteamPriceMin == nil || r.SteamPriceMax == nil {
			t.Fatalf("%s: expected both bounds", r.Name)
		}
		want := round2((*r.SteamPriceMin + *r.SteamPriceMax) / 2)
		if want < MinSteamPrice {
			want = MinSteamPrice
		}
		fval(t, r.Name+" steam_price", r.SteamPrice, want)
	}
}
