package models

// SearchItem is the narrow complex projection returned by the search endpoint.
type SearchItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	RoadAddress string `json:"roadAddress"`
	SidoName    string `json:"sidoName"`
	GugunName   string `json:"gugunName"`
	DongName    string `json:"dongName"`
	BuildYear   int    `json:"buildYear"`
	TotalCount  int    `json:"totalCount"`
}

type SearchResult struct {
	Data  []SearchItem `json:"data"`
	Total int          `json:"total"`
}

// ComplexWithCounts is a complex row annotated with its relation counts.
type ComplexWithCounts struct {
	Complex
	UnitTypeCount int64 `json:"unitTypeCount"`
	DealCount     int64 `json:"dealCount"`
	ListingCount  int64 `json:"listingCount"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ComplexPage struct {
	Data       []ComplexWithCounts `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// ComplexDetail is the full complex view with nested unit types and counts.
type ComplexDetail struct {
	Complex
	DealCount     int64 `json:"dealCount"`
	ListingCount  int64 `json:"listingCount"`
	FavoriteCount int64 `json:"favoriteCount"`
}

// ComplexRef is the id/name projection used for existence probes.
type ComplexRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UnitTypeWithCounts struct {
	UnitType
	DealCount    int64 `json:"dealCount"`
	ListingCount int64 `json:"listingCount"`
}

type ComplexTypes struct {
	Complex   ComplexRef           `json:"complex"`
	UnitTypes []UnitTypeWithCounts `json:"unitTypes"`
}

// ComplexSummary combines static attributes, the trailing 30-day price
// snapshots and the live count of active listings.
type ComplexSummary struct {
	Complex         *Complex        `json:"complex"`
	RecentPrices    []PriceSnapshot `json:"recentPrices"`
	CurrentListings int64           `json:"currentListings"`
}

// DealStat is one transaction-kind group of the deal aggregation.
type DealStat struct {
	DealType  string  `json:"dealType"`
	Count     int64   `json:"count"`
	AvgAmount float64 `json:"avgAmount"`
	MinAmount int64   `json:"minAmount"`
	MaxAmount int64   `json:"maxAmount"`
}

// ListingStat is one (kind, status) group of the listing aggregation.
type ListingStat struct {
	ListingType string  `json:"listingType"`
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	AvgPrice    float64 `json:"avgPrice"`
}

// TrendPoint is one (calendar month, transaction kind) bucket of the
// 12-month deal trend. Month is formatted as YYYY-MM.
type TrendPoint struct {
	Month     string  `json:"month"`
	DealType  string  `json:"dealType"`
	Count     int64   `json:"count"`
	AvgAmount float64 `json:"avgAmount"`
}

type ComplexStatistics struct {
	Complex      ComplexRef      `json:"complex"`
	DealStats    []DealStat      `json:"dealStats"`
	ListingStats []ListingStat   `json:"listingStats"`
	PriceHistory []PriceSnapshot `json:"priceHistory"`
	MonthlyTrend []TrendPoint    `json:"monthlyTrend"`
}
