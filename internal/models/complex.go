package models

import "time"

// Transaction kinds as reported by the ingestion sources.
const (
	DealSale    = "SALE"
	DealJeonse  = "JEONSE"
	DealMonthly = "MONTHLY"
)

// Listing kinds mirror the transaction kinds.
const (
	ListingSale    = "SALE"
	ListingJeonse  = "JEONSE"
	ListingMonthly = "MONTHLY"
)

// Listing statuses.
const (
	ListingActive   = "ACTIVE"
	ListingInactive = "INACTIVE"
)

// Complex is an apartment development, the root aggregate of the domain.
// All records are created by ingestion collaborators; this service only reads.
type Complex struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	ComplexCode string     `json:"complexCode"`
	Name        string     `gorm:"index" json:"name"`
	Address     string     `json:"address"`
	RoadAddress string     `json:"roadAddress"`
	SidoCode    string     `gorm:"index" json:"sidoCode"`
	SidoName    string     `json:"sidoName"`
	GugunCode   string     `gorm:"index" json:"gugunCode"`
	GugunName   string     `json:"gugunName"`
	DongCode    string     `json:"dongCode"`
	DongName    string     `json:"dongName"`
	BuildYear   int        `json:"buildYear"`
	TotalCount  int        `json:"totalCount"`
	FloorMin    *int       `json:"floorMin"`
	FloorMax    *int       `json:"floorMax"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	CreatedAt   time.Time  `json:"createdAt"`
	UnitTypes   []UnitType `json:"unitTypes"`
}

// UnitType is a floor-plan variant within a complex, identified by its
// exclusive area. Immutable once created.
type UnitType struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	ComplexID     string  `gorm:"index" json:"complexId"`
	ExclusiveArea float64 `json:"exclusiveArea"`
	SupplyArea    float64 `json:"supplyArea"`
	RoomCount     int     `json:"roomCount"`
	BathCount     int     `json:"bathCount"`
	Pyeong        float64 `json:"pyeong"`
	PyeongDisplay string  `json:"pyeongDisplay"`
}

// Deal is a completed, reported real-estate transaction.
type Deal struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	ComplexID     string    `gorm:"index" json:"complexId"`
	UnitTypeID    string    `gorm:"index" json:"unitTypeId"`
	DealType      string    `json:"dealType"`
	DealDate      time.Time `gorm:"index" json:"dealDate"`
	DealAmount    int64     `json:"dealAmount"`
	DepositAmount *int64    `json:"depositAmount"`
	Dong          string    `json:"dong"`
	Floor         int       `json:"floor"`
	SourceType    string    `json:"sourceType"`
}

// Listing is a currently or formerly advertised unit for sale or lease.
type Listing struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	ComplexID    string    `gorm:"index" json:"complexId"`
	UnitTypeID   string    `gorm:"index" json:"unitTypeId"`
	ListingType  string    `json:"listingType"`
	Price        int64     `json:"price"`
	MonthlyRent  *int64    `json:"monthlyRent"`
	Dong         string    `json:"dong"`
	Floor        int       `json:"floor"`
	Direction    string    `json:"direction"`
	Status       string    `gorm:"index" json:"status"`
	AgentName    string    `json:"agentName"`
	AgentPhone   string    `json:"agentPhone"`
	RegisteredAt time.Time `json:"registeredAt"`
	SourceType   string    `json:"sourceType"`
	SourceID     string    `json:"sourceId"`
}

// PriceSnapshot is a periodic recorded price figure for a (complex, unit type)
// pair, produced by ingestion.
type PriceSnapshot struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	ComplexID    string    `gorm:"index" json:"complexId"`
	UnitTypeID   string    `gorm:"index" json:"unitTypeId"`
	SnapshotDate time.Time `gorm:"index" json:"snapshotDate"`
	Price        int64     `json:"price"`
	UnitType     *UnitType `json:"unitType,omitempty"`
}

// Favorite links a user to a complex. Only counted here, never listed.
type Favorite struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `json:"userId"`
	ComplexID string    `gorm:"index" json:"complexId"`
	CreatedAt time.Time `json:"createdAt"`
}
