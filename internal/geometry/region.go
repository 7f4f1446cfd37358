package geometry

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"aptview/server/internal/models"
)

// ErrNoBoundary is returned when a district has too few geocoded complexes
// to form a boundary.
var ErrNoBoundary = errors.New("not enough geocoded complexes for a boundary")

// BoundaryManager derives district outlines from complex coordinates for the
// map view.
type BoundaryManager struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewBoundaryManager(db *gorm.DB, logger *logrus.Logger) *BoundaryManager {
	return &BoundaryManager{
		db:     db,
		logger: logger,
	}
}

// DistrictBoundary returns the convex hull of all geocoded complexes in the
// given district (gugun) as a GeoJSON feature. At least three distinct
// coordinates are required.
func (bm *BoundaryManager) DistrictBoundary(ctx context.Context, gugunCode string) (*geojson.Feature, error) {
	var complexes []models.Complex
	err := bm.db.WithContext(ctx).
		Select("id", "gugun_code", "gugun_name", "latitude", "longitude").
		Where("gugun_code = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", gugunCode).
		Find(&complexes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load district complexes: %w", err)
	}

	var gugunName string
	points := make([]orb.Point, 0, len(complexes))
	seen := make(map[orb.Point]bool)
	for _, cx := range complexes {
		gugunName = cx.GugunName
		p := orb.Point{*cx.Longitude, *cx.Latitude}
		if seen[p] {
			continue
		}
		seen[p] = true
		points = append(points, p)
	}

	if len(points) < 3 {
		bm.logger.WithField("gugun", gugunCode).Debugf(
			"Not enough points for district boundary (%d found, minimum 3 required)", len(points))
		return nil, ErrNoBoundary
	}

	hull := convexHull(points)
	if hull == nil {
		return nil, ErrNoBoundary
	}

	feature := geojson.NewFeature(hull)
	feature.Properties = geojson.Properties{
		"gugunCode":    gugunCode,
		"gugunName":    gugunName,
		"complexCount": len(complexes),
	}
	return feature, nil
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull computes the closed convex hull ring using Andrew's monotone
// chain. Returns nil when the points are collinear.
func convexHull(points []orb.Point) orb.Ring {
	if len(points) < 3 {
		return nil
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i][0] != points[j][0] {
			return points[i][0] < points[j][0]
		}
		return points[i][1] < points[j][1]
	})

	var lower []orb.Point
	for _, p := range points {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []orb.Point
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil
	}

	// Close the ring
	hull = append(hull, hull[0])
	return orb.Ring(hull)
}
