package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// OpportunityBubble is one project-type bucket on the opportunity heatmap.
// CompetitionLevel is simply the number of projects competing in the bucket.
type OpportunityBubble struct {
	ProjectType      string  `json:"project_type"`
	CompetitionLevel int     `json:"competition_level"`
	ProjectCount     int     `json:"project_count"`
	TotalFunding     float64 `json:"total_funding"`
	AvgFunding       float64 `json:"avg_funding"`
	MaxFunding       float64 `json:"max_funding"`
	OpportunityScore float64 `json:"opportunity_score"`
}

type HeatmapFilters struct {
	MinFunding   float64  `json:"min_funding"`
	MaxFunding   float64  `json:"max_funding"`
	ProjectTypes []string `json:"project_types"`
}

type Heatmap struct {
	Opportunities []OpportunityBubble `json:"opportunities"`
	Filters       HeatmapFilters      `json:"filters"`
}

// OpportunityHeatmap scores each project type by how much funding it attracts
// relative to how crowded it is. High average awards with few competitors
// score highest: score = avg / sqrt(count) / 1000.
func (s *Service) OpportunityHeatmap() Heatmap {
	type bucket struct {
		count   int
		funding float64
		max     float64
	}
	buckets := make(map[string]*bucket)
	for _, p := range s.store.All() {
		b, ok := buckets[typeOrOther(p.ProjectType)]
		if !ok {
			b = &bucket{}
			buckets[typeOrOther(p.ProjectType)] = b
		}
		b.count++
		b.funding += p.FundingAmount
		if p.FundingAmount > b.max {
			b.max = p.FundingAmount
		}
	}

	bubbles := make([]OpportunityBubble, 0, len(buckets))
	for projectType, b := range buckets {
		avg := b.funding / float64(b.count)
		bubbles = append(bubbles, OpportunityBubble{
			ProjectType:      projectType,
			CompetitionLevel: b.count,
			ProjectCount:     b.count,
			TotalFunding:     b.funding,
			AvgFunding:       avg,
			MaxFunding:       b.max,
			OpportunityScore: avg / math.Sqrt(float64(b.count)) / 1000,
		})
	}
	sort.Slice(bubbles, func(i, j int) bool {
		if bubbles[i].OpportunityScore != bubbles[j].OpportunityScore {
			return bubbles[i].OpportunityScore > bubbles[j].OpportunityScore
		}
		return bubbles[i].ProjectType < bubbles[j].ProjectType
	})

	filters := HeatmapFilters{ProjectTypes: make([]string, 0, len(bubbles))}
	for i, b := range bubbles {
		if i == 0 || b.AvgFunding < filters.MinFunding {
			filters.MinFunding = b.AvgFunding
		}
		if b.AvgFunding > filters.MaxFunding {
			filters.MaxFunding = b.AvgFunding
		}
		filters.ProjectTypes = append(filters.ProjectTypes, b.ProjectType)
	}
	sort.Strings(filters.ProjectTypes)

	return Heatmap{Opportunities: bubbles, Filters: filters}
}

type RecommendationRequest struct {
	Stage string `json:"stage"`
}

type Recommendation struct {
	Category         string   `json:"category"`
	MatchScore       float64  `json:"match_score"`
	CompetitionLevel string   `json:"competition_level"`
	AvgFunding       float64  `json:"avg_funding"`
	TimeToMarket     string   `json:"time_to_market"`
	Reasoning        []string `json:"reasoning"`
}

// Recommendations ranks categories for an applicant at the given stage. Less
// crowded categories score higher: score = 100 - min(count*2, 70). The top
// five are returned.
func (s *Service) Recommendations(req RecommendationRequest) []Recommendation {
	type bucket struct {
		count   int
		funding float64
		funded  int
	}
	buckets := make(map[string]*bucket)
	for _, p := range s.store.All() {
		category := categoryOrOther(p.Category)
		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}
		b.count++
		if p.FundingAmount > 0 {
			b.funding += p.FundingAmount
			b.funded++
		}
	}

	recs := make([]Recommendation, 0, len(buckets))
	for category, b := range buckets {
		avg := 0.0
		if b.funded > 0 {
			avg = b.funding / float64(b.funded)
		}
		recs = append(recs, Recommendation{
			Category:         category,
			MatchScore:       100 - math.Min(float64(b.count)*2, 70),
			CompetitionLevel: competitionLabel(b.count),
			AvgFunding:       avg,
			TimeToMarket:     timeToMarket(req.Stage),
			Reasoning: []string{
				fmt.Sprintf("%d competing projects in %s", b.count, category),
				fmt.Sprintf("Average award in %s is $%.0f", category, avg),
			},
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].MatchScore != recs[j].MatchScore {
			return recs[i].MatchScore > recs[j].MatchScore
		}
		return recs[i].Category < recs[j].Category
	})
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

func competitionLabel(count int) string {
	switch {
	case count < 5:
		return "Very Low"
	case count < 15:
		return "Low"
	case count < 30:
		return "Medium"
	default:
		return "High"
	}
}

func timeToMarket(stage string) string {
	switch strings.ToLower(stage) {
	case "idea":
		return "6-12 months"
	case "development":
		return "3-6 months"
	case "testnet":
		return "1-3 months"
	default:
		return "Immediate"
	}
}

type FundingEstimateRequest struct {
	Stage              string `json:"stage"`
	EcosystemExclusive bool   `json:"ecosystem_exclusive"`
	RoundNumber        int    `json:"round_number"`
	AuditReady         bool   `json:"audit_ready"`
}

type RoundPotential struct {
	Round  int     `json:"round"`
	Amount float64 `json:"amount"`
}

type FundingEstimate struct {
	EstimatedTotal   float64            `json:"estimated_total"`
	RangeMin         float64            `json:"range_min"`
	RangeMax         float64            `json:"range_max"`
	ProbabilityScore float64            `json:"probability_score"`
	Breakdown        map[string]float64 `json:"breakdown"`
	MultiRound       []RoundPotential   `json:"multi_round_potential"`
}

// EstimateFunding sizes a grant application from stage, round and commitment
// signals. Later rounds scale the base up, exclusivity and a mainnet launch
// each add 30% of the base, audit readiness adds 28% on top.
func (s *Service) EstimateFunding(req FundingEstimateRequest) FundingEstimate {
	var base float64
	switch strings.ToLower(req.Stage) {
	case "idea":
		base = 50000
	case "development":
		base = 75000
	case "testnet":
		base = 100000
	default:
		base = 150000
	}

	var stageBonus float64
	if strings.ToLower(req.Stage) == "mainnet" {
		stageBonus = base * 0.3
	}
	var exclusiveBonus float64
	if req.EcosystemExclusive {
		exclusiveBonus = base * 0.3
	}

	var multiplier float64
	switch req.RoundNumber {
	case 0, 1:
		multiplier = 1.0
	case 2:
		multiplier = 1.8
	case 3:
		multiplier = 3.4
	default:
		multiplier = 5.0
	}

	auditFactor := 1.0
	var auditBonus float64
	if req.AuditReady {
		auditFactor = 1.28
		auditBonus = (base + stageBonus + exclusiveBonus) * multiplier * 0.28
	}

	total := (base + stageBonus + exclusiveBonus) * multiplier * auditFactor

	multiRound := []RoundPotential{
		{Round: 1, Amount: total},
		{Round: 2, Amount: total * 1.5},
		{Round: 3, Amount: total * 2.5},
	}

	return FundingEstimate{
		EstimatedTotal:   total,
		RangeMin:         total * 0.7,
		RangeMax:         total * 1.3,
		ProbabilityScore: 75,
		Breakdown: map[string]float64{
			"base":             base,
			"stage_bonus":      stageBonus,
			"exclusive_bonus":  exclusiveBonus,
			"audit_bonus":      auditBonus,
			"round_multiplier": multiplier,
		},
		MultiRound: multiRound,
	}
}

type LandscapeRequest struct {
	Category          string `json:"category"`
	SmartContractOnly bool   `json:"smart_contract_only"`
}

type LandscapeProject struct {
	Title             string  `json:"title"`
	Category          string  `json:"category"`
	FundingAmount     float64 `json:"funding_amount"`
	UsesSmartContract bool    `json:"uses_smart_contract"`
}

type Landscape struct {
	Projects         []LandscapeProject `json:"projects"`
	TotalCompetitors int                `json:"total_competitors"`
	FilteredCount    int                `json:"filtered_count"`
	TotalFunding     float64            `json:"total_funding"`
	AvgFunding       float64            `json:"avg_funding"`
}

// CompetitiveLandscape lists funded projects matching the category filter.
// An empty category matches everything; matching is a case-insensitive
// substring test so "infra" finds "Infrastructure".
func (s *Service) CompetitiveLandscape(req LandscapeRequest) Landscape {
	all := s.store.All()

	landscape := Landscape{TotalCompetitors: len(all)}
	for _, p := range all {
		if !containsFold(p.Category, req.Category) {
			continue
		}
		if req.SmartContractOnly && !p.UsesSmartContract {
			continue
		}
		landscape.FilteredCount++
		if p.FundingAmount <= 0 {
			continue
		}
		landscape.Projects = append(landscape.Projects, LandscapeProject{
			Title:             p.Title,
			Category:          categoryOrOther(p.Category),
			FundingAmount:     p.FundingAmount,
			UsesSmartContract: p.UsesSmartContract,
		})
		landscape.TotalFunding += p.FundingAmount
	}
	if len(landscape.Projects) > 0 {
		landscape.AvgFunding = landscape.TotalFunding / float64(len(landscape.Projects))
	}
	return landscape
}

type TimelinePlanRequest struct {
	TargetFunding float64 `json:"target_funding"`
}

type PlannedRound struct {
	Round         int      `json:"round"`
	StartMonth    int      `json:"start_month"`
	FundingTarget float64  `json:"funding_target"`
	Milestones    []string `json:"milestones"`
}

type TimelinePlan struct {
	NumRounds       int            `json:"num_rounds"`
	FundingPerRound float64        `json:"funding_per_round"`
	TotalMonths     int            `json:"total_months"`
	Rounds          []PlannedRound `json:"rounds"`
}

// PlanFundingTimeline splits a funding target into application rounds six
// months apart. Targets under 100k fit one round, under 250k two, else three.
func (s *Service) PlanFundingTimeline(req TimelinePlanRequest) TimelinePlan {
	numRounds := 3
	switch {
	case req.TargetFunding < 100000:
		numRounds = 1
	case req.TargetFunding < 250000:
		numRounds = 2
	}
	perRound := req.TargetFunding / float64(numRounds)

	rounds := make([]PlannedRound, 0, numRounds)
	for r := 1; r <= numRounds; r++ {
		rounds = append(rounds, PlannedRound{
			Round:         r,
			StartMonth:    (r - 1) * 6,
			FundingTarget: perRound,
			Milestones: []string{
				"Submit application",
				"Technical review",
				"Award decision",
			},
		})
	}

	return TimelinePlan{
		NumRounds:       numRounds,
		FundingPerRound: perRound,
		TotalMonths:     numRounds * 6,
		Rounds:          rounds,
	}
}

type CategoryInsight struct {
	Category           string          `json:"category"`
	ProjectCount       int             `json:"project_count"`
	TotalFunding       float64         `json:"total_funding"`
	AvgFunding         float64         `json:"avg_funding"`
	MedianFunding      float64         `json:"median_funding"`
	SmartContractShare float64         `json:"smart_contract_share"` // percent
	TopProjects        []string        `json:"top_projects"`
	Timeline           []TimelinePoint `json:"timeline"`
}

// CategoryDeepDive aggregates every project whose category contains the
// given term (case-insensitive). Funding averages count funded projects only,
// mirroring the headline dashboard.
func (s *Service) CategoryDeepDive(category string) CategoryInsight {
	insight := CategoryInsight{Category: category}

	type titleFunding struct {
		title   string
		funding float64
	}
	var matched []titleFunding
	var amounts []float64
	smartContract := 0
	yearBuckets := make(map[int]*TimelinePoint)

	for _, p := range s.store.All() {
		if !containsFold(p.Category, category) {
			continue
		}
		insight.ProjectCount++
		insight.TotalFunding += p.FundingAmount
		matched = append(matched, titleFunding{p.Title, p.FundingAmount})
		if p.FundingAmount > 0 {
			amounts = append(amounts, p.FundingAmount)
		}
		if p.UsesSmartContract {
			smartContract++
		}
		if p.AwardedYear != 0 {
			b, ok := yearBuckets[p.AwardedYear]
			if !ok {
				b = &TimelinePoint{Period: strconv.Itoa(p.AwardedYear)}
				yearBuckets[p.AwardedYear] = b
			}
			b.ProjectCount++
			b.TotalFunding += p.FundingAmount
		}
	}

	if len(amounts) > 0 {
		var sum float64
		for _, a := range amounts {
			sum += a
		}
		insight.AvgFunding = sum / float64(len(amounts))
		insight.MedianFunding = median(amounts)
	}
	if insight.ProjectCount > 0 {
		insight.SmartContractShare = float64(smartContract) / float64(insight.ProjectCount) * 100
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].funding != matched[j].funding {
			return matched[i].funding > matched[j].funding
		}
		return matched[i].title < matched[j].title
	})
	for i, m := range matched {
		if i == 3 {
			break
		}
		insight.TopProjects = append(insight.TopProjects, m.title)
	}

	years := make([]int, 0, len(yearBuckets))
	for year := range yearBuckets {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		insight.Timeline = append(insight.Timeline, *yearBuckets[year])
	}

	return insight
}

type GapOpportunity struct {
	ProjectType      string  `json:"project_type"`
	CompetitionLevel int     `json:"competition_level"`
	OpportunityScore float64 `json:"opportunity_score"`
	AvgFunding       float64 `json:"avg_funding"`
	MaxFunding       float64 `json:"max_funding"`
}

type GapReport struct {
	Opportunities []GapOpportunity `json:"opportunities"`
	TotalGaps     int              `json:"total_gaps"`
}

// GapAnalysis surfaces project types with fewer than five competitors. Each
// gap is scored by how empty it is: score = 100 - count*10.
func (s *Service) GapAnalysis() GapReport {
	type bucket struct {
		count   int
		funding float64
		funded  int
		max     float64
	}
	buckets := make(map[string]*bucket)
	for _, p := range s.store.All() {
		projectType := typeOrOther(p.ProjectType)
		b, ok := buckets[projectType]
		if !ok {
			b = &bucket{}
			buckets[projectType] = b
		}
		b.count++
		if p.FundingAmount > 0 {
			b.funding += p.FundingAmount
			b.funded++
		}
		if p.FundingAmount > b.max {
			b.max = p.FundingAmount
		}
	}

	report := GapReport{}
	for projectType, b := range buckets {
		if b.count >= 5 {
			continue
		}
		avg := 0.0
		if b.funded > 0 {
			avg = b.funding / float64(b.funded)
		}
		report.Opportunities = append(report.Opportunities, GapOpportunity{
			ProjectType:      projectType,
			CompetitionLevel: b.count,
			OpportunityScore: 100 - float64(b.count)*10,
			AvgFunding:       avg,
			MaxFunding:       b.max,
		})
	}
	sort.Slice(report.Opportunities, func(i, j int) bool {
		if report.Opportunities[i].OpportunityScore != report.Opportunities[j].OpportunityScore {
			return report.Opportunities[i].OpportunityScore > report.Opportunities[j].OpportunityScore
		}
		return report.Opportunities[i].ProjectType < report.Opportunities[j].ProjectType
	})
	report.TotalGaps = len(report.Opportunities)
	return report
}

type SuccessPatternsRequest struct {
	Category string `json:"category"`
}

type SuccessPatterns struct {
	Category                 string   `json:"category"`
	SampleSize               int      `json:"sample_size"`
	SmartContractCorrelation float64  `json:"smart_contract_correlation"`
	FundingRangeMin          float64  `json:"funding_range_min"`
	FundingRangeMax          float64  `json:"funding_range_max"`
	Recommendations          []string `json:"recommendations"`
}

// AnalyzeSuccessPatterns reports what funded projects in a category have in
// common: the smart-contract share and the observed award range.
func (s *Service) AnalyzeSuccessPatterns(req SuccessPatternsRequest) SuccessPatterns {
	patterns := SuccessPatterns{Category: req.Category}

	smartContract := 0
	for _, p := range s.store.All() {
		if !containsFold(p.Category, req.Category) {
			continue
		}
		patterns.SampleSize++
		if p.UsesSmartContract {
			smartContract++
		}
		if p.FundingAmount <= 0 {
			continue
		}
		if patterns.FundingRangeMin == 0 || p.FundingAmount < patterns.FundingRangeMin {
			patterns.FundingRangeMin = p.FundingAmount
		}
		if p.FundingAmount > patterns.FundingRangeMax {
			patterns.FundingRangeMax = p.FundingAmount
		}
	}
	if patterns.SampleSize > 0 {
		patterns.SmartContractCorrelation = float64(smartContract) / float64(patterns.SampleSize)
	}
	patterns.Recommendations = []string{
		"Scope the first milestone to something demonstrable",
		"Budget within the observed award range for the category",
		"Ship public progress before applying for a follow-on round",
	}
	return patterns
}

type TrendingCategory struct {
	Category     string  `json:"category"`
	ProjectCount int     `json:"project_count"`
	TotalFunding float64 `json:"total_funding"`
	FundingShare float64 `json:"funding_share"` // percent
}

type ActivityItem struct {
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	FundingAmount float64 `json:"funding_amount"`
}

type LiveDashboard struct {
	Dashboard          Dashboard          `json:"dashboard"`
	TrendingCategories []TrendingCategory `json:"trending_categories"`
	RecentActivity     []ActivityItem     `json:"recent_activity"`
	HotOpportunities   []GapOpportunity   `json:"hot_opportunities"`
}

// LiveDashboard composes the headline dashboard with the five top-funded
// categories, the ten largest awards and the five widest gaps.
func (s *Service) LiveDashboard() LiveDashboard {
	live := LiveDashboard{Dashboard: s.Dashboard()}

	var totalFunding float64
	for _, c := range live.Dashboard.CategoryBreakdown {
		totalFunding += c.TotalFunding
	}
	for i, c := range live.Dashboard.CategoryBreakdown {
		if i == 5 {
			break
		}
		share := 0.0
		if totalFunding > 0 {
			share = c.TotalFunding / totalFunding * 100
		}
		live.TrendingCategories = append(live.TrendingCategories, TrendingCategory{
			Category:     c.Category,
			ProjectCount: c.ProjectCount,
			TotalFunding: c.TotalFunding,
			FundingShare: share,
		})
	}

	funded := make([]ActivityItem, 0)
	for _, p := range s.store.All() {
		if p.Category == "" || p.FundingAmount <= 0 {
			continue
		}
		funded = append(funded, ActivityItem{
			Title:         p.Title,
			Category:      p.Category,
			FundingAmount: p.FundingAmount,
		})
	}
	sort.Slice(funded, func(i, j int) bool {
		if funded[i].FundingAmount != funded[j].FundingAmount {
			return funded[i].FundingAmount > funded[j].FundingAmount
		}
		return funded[i].Title < funded[j].Title
	})
	if len(funded) > 10 {
		funded = funded[:10]
	}
	live.RecentActivity = funded

	gaps := s.GapAnalysis().Opportunities
	if len(gaps) > 5 {
		gaps = gaps[:5]
	}
	live.HotOpportunities = gaps

	return live
}

type ProposalTemplateRequest struct {
	Category string `json:"category"`
	Stage    string `json:"stage"`
}

type TemplateSection struct {
	Title   string   `json:"title"`
	Prompts []string `json:"prompts"`
}

type ProposalTemplate struct {
	Category            string            `json:"category"`
	Stage               string            `json:"stage"`
	SuggestedBudget     float64           `json:"suggested_budget"`
	BudgetJustification string            `json:"budget_justification"`
	Sections            []TemplateSection `json:"sections"`
	SuccessMetrics      []string          `json:"success_metrics"`
}

// BuildProposalTemplate returns a starting proposal outline with a suggested
// budget for the applicant's stage.
func (s *Service) BuildProposalTemplate(req ProposalTemplateRequest) ProposalTemplate {
	var budget float64
	switch strings.ToLower(req.Stage) {
	case "idea":
		budget = 50000
	case "development":
		budget = 100000
	case "testnet":
		budget = 150000
	default:
		budget = 75000
	}

	return ProposalTemplate{
		Category:            req.Category,
		Stage:               req.Stage,
		SuggestedBudget:     budget,
		BudgetJustification: "Break the budget into milestones with a deliverable and a cost for each",
		Sections: []TemplateSection{
			{
				Title: "Project Overview",
				Prompts: []string{
					"What problem does the project solve, and for whom?",
					"Why is " + categoryOrOther(req.Category) + " the right category?",
				},
			},
			{
				Title: "Technical Approach",
				Prompts: []string{
					"Outline the architecture and the pieces that already exist",
					"Name the riskiest technical assumption and how the first milestone tests it",
				},
			},
		},
		SuccessMetrics: []string{
			"Working deliverable at each milestone",
			"Usage or adoption measured after launch",
		},
	}
}

func categoryOrOther(category string) string {
	if category == "" {
		return "Other"
	}
	return category
}

func typeOrOther(projectType string) string {
	if projectType == "" {
		return "Other"
	}
	return projectType
}

// containsFold reports whether haystack contains needle ignoring case. An
// empty needle matches everything.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
