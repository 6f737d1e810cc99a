// Package prices ties the upstream feed to the normalizer: option
// validation, the cs2 catalog enrichment, and the output shapes.
package prices

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"steamweb-prices/internal/models"
	"steamweb-prices/internal/normalizer"
)

// Boundary validation errors, raised before any fetch or normalization.
var (
	ErrEmptyAPIKey           = errors.New("api key cannot be empty")
	ErrUnsupportedGame       = errors.New("unsupported game")
	ErrUnsupportedReturnType = errors.New("unsupported return type")
)

// Output shapes.
const (
	ReturnTable = "table"
	ReturnMap   = "map"
)

// gameCodes maps the public game names onto the upstream catalog codes.
var gameCodes = map[string]string{
	"cs2":   "csgo",
	"dota2": "dota",
	"rust":  "rust",
	"tf2":   "tf2",
}

// Games lists the supported game names in stable order.
func Games() []string {
	games := make([]string, 0, len(gameCodes))
	for g := range gameCodes {
		games = append(games, g)
	}
	sort.Strings(games)
	return games
}

// Options selects the upstream catalog and the output shape. Currency is
// passed through to the upstream feed and never interpreted here.
type Options struct {
	Game             string
	Currency         string
	ReturnEverything bool
	ReturnType       string
}

func (o *Options) withDefaults() Options {
	out := *o
	out.Game = strings.ToLower(out.Game)
	out.Currency = strings.ToUpper(out.Currency)
	out.ReturnType = strings.ToLower(out.ReturnType)
	if out.Game == "" {
		out.Game = "cs2"
	}
	if out.Currency == "" {
		out.Currency = "EUR"
	}
	if out.ReturnType == "" {
		out.ReturnType = ReturnTable
	}
	return out
}

// Fetcher supplies raw rows and the cs2 catalog. Satisfied by
// *steamwebapi.Client.
type Fetcher interface {
	FetchItems(ctx context.Context, game, currency string) ([]models.RawItemRow, error)
	FetchCS2Catalog(ctx context.Context) (map[string]struct{}, error)
}

type Service struct {
	apiKey  string
	fetcher Fetcher
}

func NewService(apiKey string, fetcher Fetcher) *Service {
	return &Service{apiKey: apiKey, fetcher: fetcher}
}

// Result is the normalized table plus the shape the caller asked for.
type Result struct {
	Rows []models.NormalizedItemRow

	ReturnEverything bool
	ReturnType       string
}

// GetPrices fetches one game's raw listing, enriches cs2 batches with the
// full catalog, and runs the normalizer.
func (s *Service) GetPrices(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	code, err := s.validate(opts)
	if err != nil {
		return nil, err
	}

	raw, err := s.fetcher.FetchItems(ctx, code, opts.Currency)
	if err != nil {
		return nil, err
	}

	if opts.Game == "cs2" {
		catalog, err := s.fetcher.FetchCS2Catalog(ctx)
		if err != nil {
			return nil, err
		}
		raw = padWithCatalog(raw, catalog)
	}

	return &Result{
		Rows:             normalizer.Normalize(raw),
		ReturnEverything: opts.ReturnEverything,
		ReturnType:       opts.ReturnType,
	}, nil
}

func (s *Service) validate(opts Options) (string, error) {
	if s.apiKey == "" {
		return "", ErrEmptyAPIKey
	}
	code, ok := gameCodes[opts.Game]
	if !ok {
		return "", fmt.Errorf("%w: %q (choose from: %s)", ErrUnsupportedGame, opts.Game, strings.Join(Games(), ", "))
	}
	if opts.ReturnType != ReturnTable && opts.ReturnType != ReturnMap {
		return "", fmt.Errorf("%w: %q (use %q or %q)", ErrUnsupportedReturnType, opts.ReturnType, ReturnTable, ReturnMap)
	}
	return code, nil
}

// padWithCatalog restricts the batch to known catalog items and appends an
// all-null placeholder row for every catalog item the feed did not carry.
// Placeholders are appended in sorted order so identical inputs keep
// producing identical tables.
func padWithCatalog(raw []models.RawItemRow, catalog map[string]struct{}) []models.RawItemRow {
	out := make([]models.RawItemRow, 0, len(catalog))
	present := make(map[string]bool, len(raw))
	for _, r := range raw {
		if _, ok := catalog[r.Name]; !ok {
			continue
		}
		out = append(out, r)
		present[r.Name] = true
	}

	missing := make([]string, 0, len(catalog)-len(present))
	for name := range catalog {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	for _, name := range missing {
		out = append(out, models.RawItemRow{Name: name})
	}

	return out
}

// MinimalRows projects the result onto the fixed minimal column set.
func (r *Result) MinimalRows() []models.MinimalItemRow {
	out := make([]models.MinimalItemRow, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Minimal()
	}
	return out
}

// ByName reshapes the full table into a mapping keyed by item name.
func ByName(rows []models.NormalizedItemRow) map[string]models.NormalizedItemRow {
	out := make(map[string]models.NormalizedItemRow, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out
}

// MinimalByName reshapes the minimal projection into a name-keyed mapping.
func MinimalByName(rows []models.MinimalItemRow) map[string]models.MinimalItemRow {
	out := make(map[string]models.MinimalItemRow, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out
}
