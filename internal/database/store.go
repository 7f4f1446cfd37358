package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"aptview/server/internal/models"
	"aptview/server/internal/query"
)

// ErrComplexNotFound is returned when the requested complex does not exist.
var ErrComplexNotFound = errors.New("complex not found")

// ComplexStore runs all read queries of the aggregation layer. It never
// writes; every record is owned by the ingestion collaborators.
type ComplexStore struct {
	db *gorm.DB
}

func NewComplexStore(db *gorm.DB) *ComplexStore {
	return &ComplexStore{db: db}
}

var searchColumns = []string{
	"id", "name", "address", "road_address",
	"sido_name", "gugun_name", "dong_name", "build_year", "total_count",
}

const listSelect = `complexes.*,
	(SELECT COUNT(*) FROM unit_types WHERE unit_types.complex_id = complexes.id) AS unit_type_count,
	(SELECT COUNT(*) FROM deals WHERE deals.complex_id = complexes.id) AS deal_count,
	(SELECT COUNT(*) FROM listings WHERE listings.complex_id = complexes.id) AS listing_count`

const unitTypeSelect = `unit_types.*,
	(SELECT COUNT(*) FROM deals WHERE deals.unit_type_id = unit_types.id) AS deal_count,
	(SELECT COUNT(*) FROM listings WHERE listings.unit_type_id = unit_types.id) AS listing_count`

// Search returns a ranked, truncated list of complexes matching the
// predicate, ordered by name then address for reproducible results.
func (s *ComplexStore) Search(ctx context.Context, pred query.Predicate, limit int) ([]models.SearchItem, error) {
	var items []models.SearchItem
	err := s.db.WithContext(ctx).
		Model(&models.Complex{}).
		Select(searchColumns).
		Scopes(pred.Scope()).
		Order("name ASC, address ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search complexes: %w", err)
	}
	return items, nil
}

// List fetches one page of complexes with relation counts, plus the total
// row count under the same predicate. The two queries are independent and
// run concurrently.
func (s *ComplexStore) List(ctx context.Context, pred query.Predicate, page query.Page) ([]models.ComplexWithCounts, int64, error) {
	var (
		rows  []models.ComplexWithCounts
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Model(&models.Complex{}).
			Select(listSelect).
			Scopes(pred.Scope()).
			Order(page.Order).
			Offset(page.Offset).
			Limit(page.Limit).
			Find(&rows).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Model(&models.Complex{}).
			Scopes(pred.Scope()).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list complexes: %w", err)
	}

	return rows, total, nil
}

// GetByID returns the full complex view: unit types ordered by exclusive
// area ascending plus deal/listing/favorite counts.
func (s *ComplexStore) GetByID(ctx context.Context, id string) (*models.ComplexDetail, error) {
	var complex models.Complex
	err := s.db.WithContext(ctx).
		Preload("UnitTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("exclusive_area ASC")
		}).
		First(&complex, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complex: %w", err)
	}

	detail := models.ComplexDetail{Complex: complex}
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Deal{}, &detail.DealCount},
		{&models.Listing{}, &detail.ListingCount},
		{&models.Favorite{}, &detail.FavoriteCount},
	}
	for _, c := range counts {
		err := s.db.WithContext(ctx).Model(c.model).
			Where("complex_id = ?", id).
			Count(c.dest).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count complex relations: %w", err)
		}
	}

	return &detail, nil
}

// Exists fetches the id/name projection of a complex. It is the cheap
// existence probe shared by the types and statistics composers.
func (s *ComplexStore) Exists(ctx context.Context, id string) (*models.ComplexRef, error) {
	var ref models.ComplexRef
	err := s.db.WithContext(ctx).
		Model(&models.Complex{}).
		Select("id", "name").
		Where("id = ?", id).
		First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to probe complex: %w", err)
	}
	return &ref, nil
}

// GetTypes returns the unit types of a complex with per-type deal and
// listing counts, ordered by exclusive area ascending.
func (s *ComplexStore) GetTypes(ctx context.Context, complexID string) (*models.ComplexTypes, error) {
	ref, err := s.Exists(ctx, complexID)
	if err != nil {
		return nil, err
	}

	var types []models.UnitTypeWithCounts
	err = s.db.WithContext(ctx).
		Model(&models.UnitType{}).
		Select(unitTypeSelect).
		Where("complex_id = ?", complexID).
		Order("exclusive_area ASC").
		Find(&types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get unit types: %w", err)
	}

	return &models.ComplexTypes{Complex: *ref, UnitTypes: types}, nil
}

// GetWithUnitTypeAreas returns a complex with a narrow unit-type projection
// (area and display label) for the summary view.
func (s *ComplexStore) GetWithUnitTypeAreas(ctx context.Context, id string) (*models.Complex, error) {
	var complex models.Complex
	err := s.db.WithContext(ctx).
		Preload("UnitTypes", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "complex_id", "exclusive_area", "pyeong_display").
				Order("exclusive_area ASC")
		}).
		First(&complex, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrComplexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complex: %w", err)
	}
	return &complex, nil
}

// RecentSnapshots returns the price snapshots taken at or after since, most
// recent first, smallest unit types first within a date.
func (s *ComplexStore) RecentSnapshots(ctx context.Context, complexID string, since time.Time) ([]models.PriceSnapshot, error) {
	var snapshots []models.PriceSnapshot
	err := s.db.WithContext(ctx).
		Model(&models.PriceSnapshot{}).
		Select("price_snapshots.*").
		Joins("JOIN unit_types ON unit_types.id = price_snapshots.unit_type_id").
		Where("price_snapshots.complex_id = ? AND price_snapshots.snapshot_date >= ?", complexID, since).
		Order("price_snapshots.snapshot_date DESC, unit_types.exclusive_area ASC").
		Preload("UnitType", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "exclusive_area", "pyeong_display")
		}).
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent snapshots: %w", err)
	}
	return snapshots, nil
}

// CountActiveListings counts the listings of a complex whose status is
// exactly ACTIVE.
func (s *ComplexStore) CountActiveListings(ctx context.Context, complexID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("complex_id = ? AND status = ?", complexID, models.ListingActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active listings: %w", err)
	}
	return count, nil
}

// DealStats groups all historical deals of a complex by transaction kind,
// computing count, average, minimum and maximum amounts per group. Groups
// with zero members never appear.
func (s *ComplexStore) DealStats(ctx context.Context, complexID string) ([]models.DealStat, error) {
	var stats []models.DealStat
	err := s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Select("deal_type, COUNT(*) AS count, AVG(deal_amount) AS avg_amount, MIN(deal_amount) AS min_amount, MAX(deal_amount) AS max_amount").
		Where("complex_id = ?", complexID).
		Group("deal_type").
		Order("deal_type ASC").
		Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate deal stats: %w", err)
	}
	return stats, nil
}

// ListingStats groups all listings of a complex by (kind, status) pair,
// computing count and average price per group.
func (s *ComplexStore) ListingStats(ctx context.Context, complexID string) ([]models.ListingStat, error) {
	var stats []models.ListingStat
	err := s.db.WithContext(ctx).
		Model(&models.Listing{}).
		Select("listing_type, status, COUNT(*) AS count, AVG(price) AS avg_price").
		Where("complex_id = ?", complexID).
		Group("listing_type, status").
		Order("listing_type ASC, status ASC").
		Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate listing stats: %w", err)
	}
	return stats, nil
}

// PriceHistory returns the price snapshots taken at or after since in
// chronological order, for charting a series forward in time.
func (s *ComplexStore) PriceHistory(ctx context.Context, complexID string, since time.Time) ([]models.PriceSnapshot, error) {
	var snapshots []models.PriceSnapshot
	err := s.db.WithContext(ctx).
		Where("complex_id = ? AND snapshot_date >= ?", complexID, since).
		Order("snapshot_date ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	return snapshots, nil
}

// DealsSince returns the raw deals of a complex dated at or after since.
// The caller buckets them by calendar month.
func (s *ComplexStore) DealsSince(ctx context.Context, complexID string, since time.Time) ([]models.Deal, error) {
	var deals []models.Deal
	err := s.db.WithContext(ctx).
		Where("complex_id = ? AND deal_date >= ?", complexID, since).
		Order("deal_date DESC").
		Find(&deals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get deals: %w", err)
	}
	return deals, nil
}
