package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"aptview/server/internal/models"
	"aptview/server/internal/query"
)

const day = 24 * time.Hour

func setupStore(t *testing.T) (*ComplexStore, *gorm.DB) {
	db, err := NewTestDB()
	require.NoError(t, err)
	require.NoError(t, MigrateSchema(db))
	return NewComplexStore(db), db
}

func intPtr(v int) *int { return &v }

// seedComplexes creates three complexes; complex-1 carries two unit types,
// three deals (two SALE, one JEONSE), three listings, five snapshots and two
// favorites.
func seedComplexes(t *testing.T, db *gorm.DB) {
	t.Helper()
	base := time.Now()

	complexes := []models.Complex{
		{
			ID: "complex-1", ComplexCode: "11110-101",
			Name:        "래미안 강남 포레스트",
			Address:     "서울특별시 강남구 역삼동 123-45",
			RoadAddress: "서울특별시 강남구 테헤란로 123",
			SidoCode:    "11", SidoName: "서울특별시",
			GugunCode: "11110", GugunName: "강남구",
			DongCode: "1111010500", DongName: "역삼동",
			BuildYear: 2020, TotalCount: 800,
			FloorMin: intPtr(2), FloorMax: intPtr(25),
		},
		{
			ID:          "complex-2",
			Name:        "힐스테이트 서초",
			Address:     "서울특별시 서초구 서초동 456-78",
			RoadAddress: "서울특별시 서초구 서초대로 456",
			SidoCode:    "11", SidoName: "서울특별시",
			GugunCode: "11140", GugunName: "서초구",
			DongCode: "1114010500", DongName: "서초동",
			BuildYear: 2018, TotalCount: 600,
		},
		{
			ID:          "complex-3",
			Name:        "Hillstate Tower",
			Address:     "경기도 광명시 철산동 789-12",
			RoadAddress: "경기도 광명시 철산로 789",
			SidoCode:    "41", SidoName: "경기도",
			GugunCode: "41135", GugunName: "광명시",
			DongCode: "4113510100", DongName: "철산동",
			BuildYear: 2025, TotalCount: 2045,
		},
	}
	require.NoError(t, db.Create(&complexes).Error)

	unitTypes := []models.UnitType{
		{ID: "ut-1a", ComplexID: "complex-1", ExclusiveArea: 59.92, SupplyArea: 84.98, RoomCount: 3, BathCount: 2, Pyeong: 18.1, PyeongDisplay: "18평형"},
		{ID: "ut-1b", ComplexID: "complex-1", ExclusiveArea: 84.96, SupplyArea: 119.88, RoomCount: 3, BathCount: 2, Pyeong: 25.7, PyeongDisplay: "25평형"},
	}
	require.NoError(t, db.Create(&unitTypes).Error)

	deals := []models.Deal{
		{ID: "deal-1", ComplexID: "complex-1", UnitTypeID: "ut-1a", DealType: models.DealSale, DealDate: base.Add(-20 * day), DealAmount: 1_250_000_000, Dong: "101", Floor: 15},
		{ID: "deal-2", ComplexID: "complex-1", UnitTypeID: "ut-1b", DealType: models.DealSale, DealDate: base.Add(-40 * day), DealAmount: 1_680_000_000, Dong: "102", Floor: 8},
		{ID: "deal-3", ComplexID: "complex-1", UnitTypeID: "ut-1a", DealType: models.DealJeonse, DealDate: base.Add(-70 * day), DealAmount: 800_000_000, Dong: "101", Floor: 12},
	}
	require.NoError(t, db.Create(&deals).Error)

	listings := []models.Listing{
		{ID: "listing-1", ComplexID: "complex-1", UnitTypeID: "ut-1a", ListingType: models.ListingSale, Price: 1_280_000_000, Status: models.ListingActive, AgentName: "강남부동산"},
		{ID: "listing-2", ComplexID: "complex-1", UnitTypeID: "ut-1a", ListingType: models.ListingSale, Price: 1_200_000_000, Status: models.ListingInactive},
		{ID: "listing-3", ComplexID: "complex-1", UnitTypeID: "ut-1b", ListingType: models.ListingMonthly, Price: 50_000_000, Status: models.ListingActive},
	}
	require.NoError(t, db.Create(&listings).Error)

	snapshots := []models.PriceSnapshot{
		{ID: "snap-1", ComplexID: "complex-1", UnitTypeID: "ut-1a", SnapshotDate: base.Add(-2 * day), Price: 1_250_000_000},
		{ID: "snap-2", ComplexID: "complex-1", UnitTypeID: "ut-1b", SnapshotDate: base.Add(-2 * day), Price: 1_650_000_000},
		{ID: "snap-3", ComplexID: "complex-1", UnitTypeID: "ut-1a", SnapshotDate: base.Add(-10 * day), Price: 1_240_000_000},
		{ID: "snap-4", ComplexID: "complex-1", UnitTypeID: "ut-1a", SnapshotDate: base.Add(-45 * day), Price: 1_230_000_000},
		{ID: "snap-5", ComplexID: "complex-1", UnitTypeID: "ut-1a", SnapshotDate: base.Add(-200 * day), Price: 1_100_000_000},
	}
	require.NoError(t, db.Create(&snapshots).Error)

	favorites := []models.Favorite{
		{ID: "fav-1", UserID: "user-1", ComplexID: "complex-1"},
		{ID: "fav-2", UserID: "user-2", ComplexID: "complex-1"},
	}
	require.NoError(t, db.Create(&favorites).Error)
}

func searchIDs(items []models.SearchItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestSearch_FreeTextMatchesNameAddressOrRoad(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	// Matches name only
	items, err := store.Search(ctx, query.SearchRequest{Q: "래미안"}.Predicate(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"complex-1"}, searchIDs(items))

	// Matches address only
	items, err = store.Search(ctx, query.SearchRequest{Q: "서초동"}.Predicate(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"complex-2"}, searchIDs(items))

	// Matches road address only
	items, err = store.Search(ctx, query.SearchRequest{Q: "철산로"}.Predicate(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"complex-3"}, searchIDs(items))
}

func TestSearch_CaseInsensitive(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	for _, q := range []string{"hillstate", "HILLSTATE", "HillState"} {
		items, err := store.Search(ctx, query.SearchRequest{Q: q}.Predicate(), 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"complex-3"}, searchIDs(items), "query %q", q)
	}
}

func TestSearch_RegionMatchesSidoOrGugun(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	// Sido code
	items, err := store.Search(ctx, query.SearchRequest{Region: "11"}.Predicate(), 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"complex-1", "complex-2"}, searchIDs(items))

	// Gugun code
	items, err = store.Search(ctx, query.SearchRequest{Region: "41135"}.Predicate(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"complex-3"}, searchIDs(items))
}

func TestSearch_TermAndRegionAreAnded(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	// complex-3 matches the term but sits in sido 41
	items, err := store.Search(ctx, query.SearchRequest{Q: "Hillstate", Region: "11"}.Predicate(), 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearch_OrderedAndTruncated(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	items, err := store.Search(ctx, query.NewPredicate(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Name ascending: ASCII sorts before hangul
	assert.Equal(t, "complex-3", items[0].ID)
	assert.Equal(t, "complex-1", items[1].ID)
}

func TestList_ExactFiltersAreAnded(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	page := query.Page{Limit: 10, Order: "name ASC"}

	rows, total, err := store.List(ctx, query.ListRequest{Sido: "11", Gugun: "11110"}.Predicate(), page)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "complex-1", rows[0].ID)
	assert.Equal(t, int64(1), total)

	// Same sido, different gugun
	rows, total, err = store.List(ctx, query.ListRequest{Sido: "41", Gugun: "11110"}.Predicate(), page)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int64(0), total)
}

func TestList_BuildYearRangeOpenEnded(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	page := query.Page{Limit: 10, Order: "name ASC"}

	_, total, err := store.List(ctx, query.ListRequest{BuildYearMin: intPtr(2019)}.Predicate(), page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = store.List(ctx, query.ListRequest{BuildYearMax: intPtr(2019)}.Predicate(), page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = store.List(ctx, query.ListRequest{BuildYearMin: intPtr(2019), BuildYearMax: intPtr(2021)}.Predicate(), page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestList_RelationCounts(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	rows, total, err := store.List(ctx, query.NewPredicate(), query.Page{Limit: 10, Order: "name ASC"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 3)

	byID := make(map[string]models.ComplexWithCounts)
	for _, row := range rows {
		byID[row.ID] = row
	}
	assert.Equal(t, int64(2), byID["complex-1"].UnitTypeCount)
	assert.Equal(t, int64(3), byID["complex-1"].DealCount)
	assert.Equal(t, int64(3), byID["complex-1"].ListingCount)
	assert.Equal(t, int64(0), byID["complex-2"].UnitTypeCount)
}

func TestList_PaginationStableAndNonOverlapping(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, db.Create(&models.Complex{
			ID:       fmt.Sprintf("complex-%02d", i),
			Name:     fmt.Sprintf("Complex %02d", i%6), // duplicate names force tiebreak
			SidoCode: "11",
		}).Error)
	}

	resolve := func(page int) query.Page {
		p, err := query.ListRequest{Page: page, Limit: 3, SortBy: "name", SortOrder: "asc"}.Resolve()
		require.NoError(t, err)
		return p
	}

	var paged []string
	for page := 1; page <= 4; page++ {
		rows, total, err := store.List(ctx, query.NewPredicate(), resolve(page))
		require.NoError(t, err)
		assert.Equal(t, int64(12), total)
		for _, row := range rows {
			paged = append(paged, row.ID)
		}
	}

	single, _, err := store.List(ctx, query.NewPredicate(), query.Page{Limit: 12, Order: "name ASC, id ASC"})
	require.NoError(t, err)
	var all []string
	for _, row := range single {
		all = append(all, row.ID)
	}

	assert.Equal(t, all, paged)
}

func TestGetByID(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	detail, err := store.GetByID(ctx, "complex-1")
	require.NoError(t, err)
	assert.Equal(t, "래미안 강남 포레스트", detail.Name)
	assert.Equal(t, int64(3), detail.DealCount)
	assert.Equal(t, int64(3), detail.ListingCount)
	assert.Equal(t, int64(2), detail.FavoriteCount)

	// Unit types ordered by exclusive area ascending
	require.Len(t, detail.UnitTypes, 2)
	assert.Equal(t, "ut-1a", detail.UnitTypes[0].ID)
	assert.Equal(t, "ut-1b", detail.UnitTypes[1].ID)
}

func TestGetByID_NotFound(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrComplexNotFound)
}

func TestGetTypes(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	types, err := store.GetTypes(ctx, "complex-1")
	require.NoError(t, err)
	assert.Equal(t, models.ComplexRef{ID: "complex-1", Name: "래미안 강남 포레스트"}, types.Complex)

	require.Len(t, types.UnitTypes, 2)
	assert.Equal(t, "ut-1a", types.UnitTypes[0].ID)
	assert.Equal(t, int64(2), types.UnitTypes[0].DealCount)
	assert.Equal(t, int64(2), types.UnitTypes[0].ListingCount)
	assert.Equal(t, "ut-1b", types.UnitTypes[1].ID)
	assert.Equal(t, int64(1), types.UnitTypes[1].DealCount)
	assert.Equal(t, int64(1), types.UnitTypes[1].ListingCount)

	_, err = store.GetTypes(ctx, "missing")
	assert.ErrorIs(t, err, ErrComplexNotFound)
}

func TestGetWithUnitTypeAreas(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)

	complex, err := store.GetWithUnitTypeAreas(context.Background(), "complex-1")
	require.NoError(t, err)
	require.Len(t, complex.UnitTypes, 2)
	assert.Equal(t, 59.92, complex.UnitTypes[0].ExclusiveArea)
	assert.Equal(t, "18평형", complex.UnitTypes[0].PyeongDisplay)

	_, err = store.GetWithUnitTypeAreas(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrComplexNotFound)
}

func TestRecentSnapshots_WindowAndOrder(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)

	since := time.Now().Add(-30 * day)
	snapshots, err := store.RecentSnapshots(context.Background(), "complex-1", since)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	// Most recent date first; smaller unit type first within a date
	assert.Equal(t, "snap-1", snapshots[0].ID)
	assert.Equal(t, "snap-2", snapshots[1].ID)
	assert.Equal(t, "snap-3", snapshots[2].ID)

	for _, snap := range snapshots {
		assert.False(t, snap.SnapshotDate.Before(since), "snapshot %s outside window", snap.ID)
		require.NotNil(t, snap.UnitType)
		assert.NotEmpty(t, snap.UnitType.PyeongDisplay)
	}
}

func TestCountActiveListings(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)

	count, err := store.CountActiveListings(context.Background(), "complex-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDealStats_GroupsAndReconciliation(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	stats, err := store.DealStats(ctx, "complex-1")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	jeonse, sale := stats[0], stats[1]
	assert.Equal(t, models.DealJeonse, jeonse.DealType)
	assert.Equal(t, int64(1), jeonse.Count)
	assert.Equal(t, int64(800_000_000), jeonse.MinAmount)
	assert.Equal(t, int64(800_000_000), jeonse.MaxAmount)
	assert.InDelta(t, 800_000_000, jeonse.AvgAmount, 0.1)

	assert.Equal(t, models.DealSale, sale.DealType)
	assert.Equal(t, int64(2), sale.Count)
	assert.Equal(t, int64(1_250_000_000), sale.MinAmount)
	assert.Equal(t, int64(1_680_000_000), sale.MaxAmount)
	assert.InDelta(t, 1_465_000_000, sale.AvgAmount, 0.1)

	// Sum of per-group counts equals the ungrouped count
	var total int64
	require.NoError(t, db.Model(&models.Deal{}).Where("complex_id = ?", "complex-1").Count(&total).Error)
	var grouped int64
	for _, stat := range stats {
		grouped += stat.Count
	}
	assert.Equal(t, total, grouped)
}

func TestDealStats_EmptyGroupsNeverAppear(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)

	stats, err := store.DealStats(context.Background(), "complex-2")
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestListingStats_GroupsByKindAndStatus(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)

	stats, err := store.ListingStats(context.Background(), "complex-1")
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, models.ListingMonthly, stats[0].ListingType)
	assert.Equal(t, models.ListingActive, stats[0].Status)
	assert.Equal(t, int64(1), stats[0].Count)

	assert.Equal(t, models.ListingSale, stats[1].ListingType)
	assert.Equal(t, models.ListingActive, stats[1].Status)
	assert.InDelta(t, 1_280_000_000, stats[1].AvgPrice, 0.1)

	assert.Equal(t, models.ListingSale, stats[2].ListingType)
	assert.Equal(t, models.ListingInactive, stats[2].Status)

	var grouped int64
	for _, stat := range stats {
		grouped += stat.Count
	}
	assert.Equal(t, int64(3), grouped)
}

func TestPriceHistory_ChronologicalWithinWindow(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)

	since := time.Now().Add(-180 * day)
	history, err := store.PriceHistory(context.Background(), "complex-1", since)
	require.NoError(t, err)
	require.Len(t, history, 4) // snap-5 at -200d is excluded

	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].SnapshotDate.Before(history[i-1].SnapshotDate),
			"history must be chronological")
	}
	assert.Equal(t, "snap-4", history[0].ID)
}

func TestDealsSince_ExcludesOlderDeals(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Deal{
		ID: "deal-old", ComplexID: "complex-1", UnitTypeID: "ut-1a",
		DealType: models.DealSale, DealDate: time.Now().AddDate(-2, 0, 0), DealAmount: 900_000_000,
	}).Error)

	deals, err := store.DealsSince(ctx, "complex-1", time.Now().AddDate(0, -12, 0))
	require.NoError(t, err)
	assert.Len(t, deals, 3)

	// The old deal still counts toward the unbounded deal stats
	stats, err := store.DealStats(ctx, "complex-1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(3), stats[1].Count)
}

func TestExists(t *testing.T) {
	store, db := setupStore(t)
	seedComplexes(t, db)
	ctx := context.Background()

	ref, err := store.Exists(ctx, "complex-2")
	require.NoError(t, err)
	assert.Equal(t, &models.ComplexRef{ID: "complex-2", Name: "힐스테이트 서초"}, ref)

	_, err = store.Exists(ctx, "missing")
	assert.ErrorIs(t, err, ErrComplexNotFound)
}
