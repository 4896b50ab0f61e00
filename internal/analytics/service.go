// Package analytics aggregates the static project dataset for the dashboard.
package analytics

import (
	"sort"
	"strconv"

	"grantscope/internal/projects"
)

type DashboardStats struct {
	TotalProjects         int     `json:"total_projects"`
	TotalFunding          float64 `json:"total_funding"`
	AverageFunding        float64 `json:"average_funding"`
	MedianFunding         float64 `json:"median_funding"`
	SmartContractProjects int     `json:"smart_contract_projects"`
	SmartContractShare    float64 `json:"smart_contract_share"` // percent
}

type CategoryStats struct {
	Category          string  `json:"category"`
	ProjectCount      int     `json:"project_count"`
	TotalFunding      float64 `json:"total_funding"`
	AverageFunding    float64 `json:"average_funding"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

type Dashboard struct {
	Stats             DashboardStats  `json:"stats"`
	CategoryBreakdown []CategoryStats `json:"category_breakdown"`
	RecentProjects    []string        `json:"recent_projects"`
}

type TimelinePoint struct {
	Period       string  `json:"period"`
	ProjectCount int     `json:"project_count"`
	TotalFunding float64 `json:"total_funding"`
}

// Service computes aggregates over the project store.
type Service struct {
	store *projects.Store
}

// NewService creates a new analytics service.
func NewService(store *projects.Store) *Service {
	return &Service{store: store}
}

// Dashboard returns the headline numbers plus a category breakdown and the
// first few project titles.
func (s *Service) Dashboard() Dashboard {
	all := s.store.All()

	amounts := make([]float64, 0, len(all))
	smartContract := 0
	for _, p := range all {
		if p.FundingAmount > 0 {
			amounts = append(amounts, p.FundingAmount)
		}
		if p.UsesSmartContract {
			smartContract++
		}
	}

	var totalFunding float64
	for _, a := range amounts {
		totalFunding += a
	}
	averageFunding := 0.0
	if len(amounts) > 0 {
		averageFunding = totalFunding / float64(len(amounts))
	}
	share := 0.0
	if len(all) > 0 {
		share = float64(smartContract) / float64(len(all)) * 100
	}

	recent := make([]string, 0, 5)
	for _, p := range all {
		if len(recent) == 5 {
			break
		}
		recent = append(recent, p.Title)
	}

	return Dashboard{
		Stats: DashboardStats{
			TotalProjects:         len(all),
			TotalFunding:          totalFunding,
			AverageFunding:        averageFunding,
			MedianFunding:         median(amounts),
			SmartContractProjects: smartContract,
			SmartContractShare:    share,
		},
		CategoryBreakdown: s.CategoryBreakdown(),
		RecentProjects:    recent,
	}
}

// CategoryBreakdown groups projects by category, largest funding first.
// Projects without a category are grouped under "Other".
func (s *Service) CategoryBreakdown() []CategoryStats {
	all := s.store.All()

	var totalFunding float64
	for _, p := range all {
		totalFunding += p.FundingAmount
	}

	type bucket struct {
		count   int
		funding float64
	}
	buckets := make(map[string]*bucket)
	for _, p := range all {
		category := p.Category
		if category == "" {
			category = "Other"
		}
		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}
		b.count++
		b.funding += p.FundingAmount
	}

	stats := make([]CategoryStats, 0, len(buckets))
	for category, b := range buckets {
		percentage := 0.0
		if totalFunding > 0 {
			percentage = b.funding / totalFunding * 100
		}
		stats = append(stats, CategoryStats{
			Category:          category,
			ProjectCount:      b.count,
			TotalFunding:      b.funding,
			AverageFunding:    b.funding / float64(b.count),
			PercentageOfTotal: percentage,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalFunding != stats[j].TotalFunding {
			return stats[i].TotalFunding > stats[j].TotalFunding
		}
		return stats[i].Category < stats[j].Category
	})

	return stats
}

// Timeline groups projects by award year in ascending order. Projects
// without a year are omitted.
func (s *Service) Timeline() []TimelinePoint {
	type bucket struct {
		count   int
		funding float64
	}
	buckets := make(map[int]*bucket)
	for _, p := range s.store.All() {
		if p.AwardedYear == 0 {
			continue
		}
		b, ok := buckets[p.AwardedYear]
		if !ok {
			b = &bucket{}
			buckets[p.AwardedYear] = b
		}
		b.count++
		b.funding += p.FundingAmount
	}

	years := make([]int, 0, len(buckets))
	for year := range buckets {
		years = append(years, year)
	}
	sort.Ints(years)

	timeline := make([]TimelinePoint, 0, len(years))
	for _, year := range years {
		b := buckets[year]
		timeline = append(timeline, TimelinePoint{
			Period:       strconv.Itoa(year),
			ProjectCount: b.count,
			TotalFunding: b.funding,
		})
	}
	return timeline
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
