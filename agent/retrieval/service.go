package retrieval

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
	"golang.org/x/text/language"
)

const (
	MsgAddressNotFound = "Address not found. Register an address in your profile to find promotions near you."
	MsgInvalidCoords   = "Coordinates are out of range."
)

// Source reads active offers matching a filter from the data store.
type Source interface {
	ActiveOffers(ctx context.Context, filter Filter) ([]Candidate, error)
}

type Config struct {
	DefaultRadiusKM   float64 `split_words:"true" default:"10"`
	DefaultMaxResults int     `split_words:"true" default:"10"`
	CandidateLimit    int     `split_words:"true" default:"1000"`
	CurrencyPrefix    string  `split_words:"true" default:"R$ "`
	Locale            string  `split_words:"true" default:"pt-BR"`
	QueryMaxRows      int     `split_words:"true" default:"200"`
}

func (c Config) withDefaults() Config {
	if c.DefaultRadiusKM <= 0 {
		c.DefaultRadiusKM = 10
	}
	if c.DefaultMaxResults <= 0 {
		c.DefaultMaxResults = 10
	}
	if c.CandidateLimit <= 0 {
		c.CandidateLimit = 1000
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = "pt-BR"
	}
	return c
}

type Service struct {
	source   Source
	resolver contractx.LocationResolver
	cfg      Config
	prices   PriceFormatter
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(source Source, resolver contractx.LocationResolver, cfg Config, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, errors.New("offer source is required")
	}
	if resolver == nil {
		return nil, errors.New("location resolver is required")
	}
	cfg = cfg.withDefaults()

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: locale %q: %v", contractx.ErrValidation, cfg.Locale, err)
	}

	s := &Service{
		source:   source,
		resolver: resolver,
		cfg:      cfg,
		prices:   NewPriceFormatter(tag, cfg.CurrencyPrefix),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Retrieve resolves the user location, selects active offers, prunes them
// by radius and ranks by price then distance. Failures are reported in the
// returned ToolResult.
func (s *Service) Retrieve(ctx context.Context, req Request) contractx.ToolResult {
	radius := s.cfg.DefaultRadiusKM
	if req.RadiusKM != nil {
		radius = *req.RadiusKM
	}
	if radius <= 0 {
		return contractx.Failure(http.StatusBadRequest, "radius_km must be greater than zero.")
	}
	maxResults := s.cfg.DefaultMaxResults
	if req.MaxResults != nil {
		maxResults = *req.MaxResults
	}
	if maxResults <= 0 {
		return contractx.Failure(http.StatusBadRequest, "max_results must be greater than zero.")
	}

	origin, result, ok := s.resolveLocation(ctx, req)
	if !ok {
		return result
	}

	filter := Filter{
		Today:      DateOf(s.now()),
		Category:   strings.TrimSpace(req.Category),
		NameFilter: strings.TrimSpace(req.NameFilter),
		Limit:      s.cfg.CandidateLimit,
	}
	if req.MaxPrice != nil {
		cents, ok := CentsFromAmount(*req.MaxPrice)
		if !ok {
			return contractx.Failure(http.StatusBadRequest, "max_price must be a finite number.")
		}
		filter.MaxPriceCents = &cents
	}

	rows, err := s.source.ActiveOffers(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("retrieval: load active offers")
		return contractx.Failure(http.StatusInternalServerError, fmt.Sprintf("Could not read promotions: %v", err))
	}

	ranked := rank(origin, rows, filter, radius)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	for i := range ranked {
		ranked[i].FormattedPrice = s.prices.Format(ranked[i].PriceCents)
	}

	log.Debug().
		Int("rows", len(rows)).
		Int("returned", len(ranked)).
		Float64("radius_km", radius).
		Msg("retrieval: ranked promotions")
	return contractx.Success(ranked)
}

func (s *Service) resolveLocation(ctx context.Context, req Request) (contractx.Location, contractx.ToolResult, bool) {
	if req.UserLat != nil && req.UserLng != nil {
		loc := contractx.Location{Lat: *req.UserLat, Lng: *req.UserLng}
		if !validCoordinates(loc) {
			return contractx.Location{}, contractx.Failure(http.StatusBadRequest, MsgInvalidCoords), false
		}
		return loc, contractx.ToolResult{}, true
	}
	if req.UserID != nil {
		if loc, ok := s.resolver.Lookup(ctx, *req.UserID); ok {
			return loc, contractx.ToolResult{}, true
		}
	}
	return contractx.Location{}, contractx.Failure(http.StatusBadRequest, MsgAddressNotFound), false
}

// rank keeps candidates with coordinates inside the radius and orders them
// by price, then distance. Ties keep source order.
func rank(origin contractx.Location, rows []Candidate, filter Filter, radiusKM float64) []Candidate {
	out := make([]Candidate, 0, len(rows))
	for _, c := range rows {
		if !c.HasCoordinates() || !filter.Match(c) {
			continue
		}
		d := RoundKM(HaversineKM(origin, contractx.Location{Lat: *c.Lat, Lng: *c.Lng}))
		if d > radiusKM {
			continue
		}
		c.DistanceKM = d
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriceCents != out[j].PriceCents {
			return out[i].PriceCents < out[j].PriceCents
		}
		return out[i].DistanceKM < out[j].DistanceKM
	})
	return out
}
