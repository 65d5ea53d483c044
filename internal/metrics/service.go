package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AngelCh415/influencer-metrics/internal/models"
	"github.com/AngelCh415/influencer-metrics/internal/store"
	"github.com/AngelCh415/influencer-metrics/internal/telemetry"
)

var (
	ErrNoDataset = errors.New("datasets not loaded")
	ErrBadFilter = errors.New("bad filter")
)

type DatasetLoader interface {
	Load(ctx context.Context) (models.Dataset, error)
}

// Service binds the engine to the memoized dataset and to query parameters.
type Service struct {
	st       *store.MemoryStore
	loader   DatasetLoader
	tel      *telemetry.Collectors
	log      *slog.Logger
	reloads  singleflight.Group
	pageSize int
}

func NewService(st *store.MemoryStore, loader DatasetLoader, tel *telemetry.Collectors, log *slog.Logger, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Service{st: st, loader: loader, tel: tel, log: log, pageSize: pageSize}
}

// ReloadTimeout bounds one shared load.
const ReloadTimeout = 2 * time.Minute

// Reload replaces the cached dataset. Concurrent callers share one load; on
// failure the previous snapshot stays in place. A caller whose ctx ends
// returns early; the shared load runs on for the others.
func (s *Service) Reload(ctx context.Context) error {
	ch := s.reloads.DoChan("reload", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ReloadTimeout)
		defer cancel()
		ds, err := s.loader.Load(lctx)
		if err != nil {
			s.tel.ObserveReload(nil, err)
			return nil, err
		}
		s.st.Replace(ds)
		s.tel.ObserveReload(s.st.Counts(), nil)
		return nil, nil
	})
	select {
	case <-ctx.Done():
		return fmt.Errorf("reload: %w", ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			s.log.Error("reload failed", slog.String("err", r.Err.Error()))
			return fmt.Errorf("reload: %w", r.Err)
		}
		s.log.Info("reload complete", slog.Int("version", s.st.Version()), slog.Bool("shared", r.Shared))
		return nil
	}
}

func (s *Service) Ready() bool {
	_, ok := s.st.Snapshot()
	return ok
}

// Options lists the selectable values of every filter, in first-seen order.
type Options struct {
	Campaigns  []string `json:"campaigns"`
	Products   []string `json:"products"`
	Platforms  []string `json:"platforms"`
	Tiers      []string `json:"tiers"`
	Genders    []string `json:"genders"`
	Categories []string `json:"categories"`
}

func OptionsOf(ds models.Dataset) Options {
	var o Options
	campaigns, products := newUniq(), newUniq()
	for _, t := range ds.Tracking {
		o.Campaigns = campaigns.add(o.Campaigns, t.Campaign)
		o.Products = products.add(o.Products, t.Product)
	}
	platforms, tiers, genders, categories := newUniq(), newUniq(), newUniq(), newUniq()
	for _, inf := range ds.Influencers {
		o.Platforms = platforms.add(o.Platforms, inf.Platform)
		o.Tiers = tiers.add(o.Tiers, string(inf.Tier()))
		o.Genders = genders.add(o.Genders, inf.Gender)
		o.Categories = categories.add(o.Categories, inf.Category)
	}
	return o
}

type uniq map[string]struct{}

func newUniq() uniq { return uniq{} }

func (u uniq) add(list []string, v string) []string {
	if _, ok := u[v]; ok {
		return list
	}
	u[v] = struct{}{}
	return append(list, v)
}

func (s *Service) Options() (Options, error) {
	ds, ok := s.st.Snapshot()
	if !ok {
		return Options{}, ErrNoDataset
	}
	return OptionsOf(ds), nil
}

// ParseFilter turns query parameters into a FilterSpec. An absent parameter
// selects every option; a present but empty one selects nothing.
func ParseFilter(v url.Values, opts Options) (FilterSpec, error) {
	spec := FilterSpec{
		Campaign:   strings.TrimSpace(v.Get("campaign")),
		Products:   csvList(v, "product", opts.Products),
		Platforms:  csvList(v, "platform", opts.Platforms),
		Tiers:      csvList(v, "tier", opts.Tiers),
		Genders:    csvList(v, "gender", opts.Genders),
		Categories: csvList(v, "category", opts.Categories),
	}
	for _, t := range spec.Tiers {
		switch models.Tier(t) {
		case models.TierMacro, models.TierMicro, models.TierNano:
		default:
			return FilterSpec{}, fmt.Errorf("%w: unknown tier %q", ErrBadFilter, t)
		}
	}
	return spec, nil
}

func csvList(v url.Values, key string, def []string) []string {
	if !v.Has(key) {
		return append([]string(nil), def...)
	}
	out := []string{}
	for _, raw := range v[key] {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Query computes the full result for the filter described by v.
func (s *Service) Query(v url.Values) (Result, error) {
	ds, ok := s.st.Snapshot()
	if !ok {
		return Result{}, ErrNoDataset
	}
	spec, err := ParseFilter(v, OptionsOf(ds))
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	res, err := Compute(ds, spec)
	s.tel.ObserveCompute(start, len(res.Records), err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

type Page struct {
	Total   int                        `json:"total"`
	Limit   int                        `json:"limit"`
	Offset  int                        `json:"offset"`
	Records []models.PerformanceRecord `json:"records"`
}

// Performance returns one page of the performance table.
func (s *Service) Performance(v url.Values) (Page, error) {
	res, err := s.Query(v)
	if err != nil {
		return Page{}, err
	}
	limit := atoiDef(v.Get("limit"), s.pageSize)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(res.Records))
	return Page{
		Total:   len(res.Records),
		Limit:   limit,
		Offset:  offset,
		Records: paginate(res.Records, limit, offset),
	}, nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}
