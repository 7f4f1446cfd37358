package aggregate

import (
	"context"
	"strconv"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"aptview/server/config"
	"aptview/server/internal/cache"
	"aptview/server/internal/database"
	"aptview/server/internal/geometry"
	"aptview/server/internal/models"
	"aptview/server/internal/query"
)

// Time windows of the summary and statistics views. The windows are computed
// from the wall clock when a cache entry is populated, so a cached response
// serves the originally computed window until its TTL expires.
const (
	recentPriceWindow  = 30 * 24 * time.Hour
	priceHistoryWindow = 180 * 24 * time.Hour
	trendMonths        = 12
)

// Service composes the per-complex read views from the store, behind the
// TTL-scoped cache facade. All operations are read-only.
type Service struct {
	store      *database.ComplexStore
	cache      *cache.Cache
	boundaries *geometry.BoundaryManager
	ttl        config.CacheTTL
	logger     *logrus.Logger
	now        func() time.Time
}

func NewService(store *database.ComplexStore, resultCache *cache.Cache, boundaries *geometry.BoundaryManager, ttl config.CacheTTL, logger *logrus.Logger) *Service {
	return &Service{
		store:      store,
		cache:      resultCache,
		boundaries: boundaries,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// Search runs the free-text and region autocomplete search. The total is the
// number of returned (truncated) rows.
func (s *Service) Search(ctx context.Context, req query.SearchRequest) (*models.SearchResult, error) {
	key := cache.Key("search", "q="+req.Q, "region="+req.Region, "limit="+strconv.Itoa(req.Limit))
	result := &models.SearchResult{}
	err := s.cache.Remember(ctx, key, s.ttl.Search, result, func() error {
		items, err := s.store.Search(ctx, req.Predicate(), req.Limit)
		if err != nil {
			return err
		}
		if items == nil {
			items = []models.SearchItem{}
		}
		result.Data = items
		result.Total = len(items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns one page of complexes with relation counts and pagination
// metadata.
func (s *Service) List(ctx context.Context, req query.ListRequest) (*models.ComplexPage, error) {
	page, err := req.Resolve()
	if err != nil {
		return nil, err
	}

	key := cache.Key("list",
		"page="+strconv.Itoa(req.Page),
		"limit="+strconv.Itoa(req.Limit),
		"sido="+req.Sido,
		"gugun="+req.Gugun,
		"dong="+req.Dong,
		"ymin="+intPtrString(req.BuildYearMin),
		"ymax="+intPtrString(req.BuildYearMax),
		"sort="+req.SortBy+"."+req.SortOrder,
	)
	result := &models.ComplexPage{}
	err = s.cache.Remember(ctx, key, s.ttl.List, result, func() error {
		rows, total, err := s.store.List(ctx, req.Predicate(), page)
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []models.ComplexWithCounts{}
		}
		for i := range rows {
			if rows[i].UnitTypes == nil {
				rows[i].UnitTypes = []models.UnitType{}
			}
		}
		result.Data = rows
		result.Pagination = models.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Detail returns the full complex view or ErrComplexNotFound.
func (s *Service) Detail(ctx context.Context, id string) (*models.ComplexDetail, error) {
	key := cache.Key("detail", "id="+id)
	result := &models.ComplexDetail{}
	err := s.cache.Remember(ctx, key, s.ttl.Detail, result, func() error {
		detail, err := s.store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if detail.UnitTypes == nil {
			detail.UnitTypes = []models.UnitType{}
		}
		*result = *detail
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Types returns the per-unit-type breakdown of a complex.
func (s *Service) Types(ctx context.Context, id string) (*models.ComplexTypes, error) {
	key := cache.Key("types", "id="+id)
	result := &models.ComplexTypes{}
	err := s.cache.Remember(ctx, key, s.ttl.Types, result, func() error {
		types, err := s.store.GetTypes(ctx, id)
		if err != nil {
			return err
		}
		if types.UnitTypes == nil {
			types.UnitTypes = []models.UnitTypeWithCounts{}
		}
		*result = *types
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summary combines a complex's static attributes with its trailing 30-day
// price snapshots and the live count of active listings.
func (s *Service) Summary(ctx context.Context, id string) (*models.ComplexSummary, error) {
	key := cache.Key("summary", "id="+id)
	result := &models.ComplexSummary{}
	err := s.cache.Remember(ctx, key, s.ttl.Summary, result, func() error {
		complex, err := s.store.GetWithUnitTypeAreas(ctx, id)
		if err != nil {
			return err
		}
		if complex.UnitTypes == nil {
			complex.UnitTypes = []models.UnitType{}
		}

		snapshots, err := s.store.RecentSnapshots(ctx, id, s.now().Add(-recentPriceWindow))
		if err != nil {
			return err
		}
		if snapshots == nil {
			snapshots = []models.PriceSnapshot{}
		}

		currentListings, err := s.store.CountActiveListings(ctx, id)
		if err != nil {
			return err
		}

		result.Complex = complex
		result.RecentPrices = snapshots
		result.CurrentListings = currentListings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Statistics existence-checks the complex, then runs the four independent
// aggregations concurrently. The first error cancels the rest; the response
// is assembled only after all four complete. If the complex does not exist
// no aggregation query is issued.
func (s *Service) Statistics(ctx context.Context, id string) (*models.ComplexStatistics, error) {
	key := cache.Key("statistics", "id="+id)
	result := &models.ComplexStatistics{}
	err := s.cache.Remember(ctx, key, s.ttl.Statistics, result, func() error {
		ref, err := s.store.Exists(ctx, id)
		if err != nil {
			return err
		}

		now := s.now()
		var (
			dealStats    []models.DealStat
			listingStats []models.ListingStat
			priceHistory []models.PriceSnapshot
			trendDeals   []models.Deal
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			dealStats, err = s.store.DealStats(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			listingStats, err = s.store.ListingStats(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			priceHistory, err = s.store.PriceHistory(gctx, id, now.Add(-priceHistoryWindow))
			return err
		})
		g.Go(func() error {
			var err error
			trendDeals, err = s.store.DealsSince(gctx, id, now.AddDate(0, -trendMonths, 0))
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if dealStats == nil {
			dealStats = []models.DealStat{}
		}
		if listingStats == nil {
			listingStats = []models.ListingStat{}
		}
		if priceHistory == nil {
			priceHistory = []models.PriceSnapshot{}
		}

		result.Complex = *ref
		result.DealStats = dealStats
		result.ListingStats = listingStats
		result.PriceHistory = priceHistory
		result.MonthlyTrend = bucketMonthlyTrend(trendDeals)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RegionBoundary returns the GeoJSON boundary of a district derived from its
// geocoded complexes.
func (s *Service) RegionBoundary(ctx context.Context, gugunCode string) (*geojson.Feature, error) {
	key := cache.Key("boundary", "gugun="+gugunCode)
	result := &geojson.Feature{}
	err := s.cache.Remember(ctx, key, s.ttl.Boundary, result, func() error {
		feature, err := s.boundaries.DistrictBoundary(ctx, gugunCode)
		if err != nil {
			return err
		}
		*result = *feature
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func intPtrString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
