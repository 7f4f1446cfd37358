package aggregate

import (
	"sort"

	"aptview/server/internal/models"
)

// bucketMonthlyTrend groups deals by calendar month and transaction kind and
// computes count and average amount per bucket. The month boundary is the
// transaction date truncated to month granularity; buckets with no deals do
// not appear. Ordered by month descending, kind ascending within a month.
func bucketMonthlyTrend(deals []models.Deal) []models.TrendPoint {
	type bucketKey struct {
		month    string
		dealType string
	}
	type bucket struct {
		count int64
		sum   int64
	}

	buckets := make(map[bucketKey]*bucket)
	for _, deal := range deals {
		key := bucketKey{
			month:    deal.DealDate.Format("2006-01"),
			dealType: deal.DealType,
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.sum += deal.DealAmount
	}

	points := make([]models.TrendPoint, 0, len(buckets))
	for key, b := range buckets {
		points = append(points, models.TrendPoint{
			Month:     key.month,
			DealType:  key.dealType,
			Count:     b.count,
			AvgAmount: float64(b.sum) / float64(b.count),
		})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Month != points[j].Month {
			return points[i].Month > points[j].Month
		}
		return points[i].DealType < points[j].DealType
	})

	return points
}
