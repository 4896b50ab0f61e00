package analytics

import (
	"fmt"
	"sort"
)

type PredictionRequest struct {
	Category          string `json:"category"`
	Stage             string `json:"stage"`
	UsesSmartContract bool   `json:"uses_smart_contract"`
}

type Prediction struct {
	PredictedAmount float64  `json:"predicted_amount"`
	ConfidenceScore float64  `json:"confidence_score"`
	Category        string   `json:"category"`
	Stage           string   `json:"stage"`
	SimilarProjects []string `json:"similar_projects"`
	Recommendations []string `json:"recommendations"`
}

// defaultPrediction is the estimate when no comparable project exists.
const defaultPrediction = 50000.0

// PredictFunding estimates an award from comparable projects: same
// smart-contract profile, category matched by substring. The prediction is
// the average of the comparables' awards; confidence grows with the sample.
func (s *Service) PredictFunding(req PredictionRequest) Prediction {
	var similar []string
	var amounts []float64
	for _, p := range s.store.All() {
		if p.Category == "" || !containsFold(p.Category, req.Category) {
			continue
		}
		if p.UsesSmartContract != req.UsesSmartContract {
			continue
		}
		if len(similar) < 5 {
			similar = append(similar, p.Title)
		}
		if p.FundingAmount > 0 {
			amounts = append(amounts, p.FundingAmount)
		}
	}

	predicted := defaultPrediction
	if len(amounts) > 0 {
		var sum float64
		for _, a := range amounts {
			sum += a
		}
		predicted = sum / float64(len(amounts))
	}

	confidence := 0.4
	switch {
	case len(amounts) > 10:
		confidence = 0.8
	case len(amounts) > 5:
		confidence = 0.6
	}

	recommendations := []string{
		fmt.Sprintf("Average award in the %s category is $%.2f", req.Category, predicted),
	}
	if req.UsesSmartContract {
		recommendations = append(recommendations, "Smart contract integration tends to attract larger awards")
	} else {
		recommendations = append(recommendations, "Consider smart contract integration for a larger award")
	}
	recommendations = append(recommendations,
		fmt.Sprintf("Projects at the %s stage typically receive similar funding", req.Stage))

	return Prediction{
		PredictedAmount: predicted,
		ConfidenceScore: confidence,
		Category:        req.Category,
		Stage:           req.Stage,
		SimilarProjects: similar,
		Recommendations: recommendations,
	}
}

type CompetitorSearchRequest struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	Limit    int      `json:"limit"`
}

type Competitor struct {
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	FundingAmount float64  `json:"funding_amount"`
	Tags          []string `json:"tags"`
}

type CompetitorReport struct {
	Competitors      []Competitor `json:"competitors"`
	TotalCompetitors int          `json:"total_competitors"`
	AvgFunding       float64      `json:"avg_funding"`
}

// SearchCompetitors finds projects in the same space: category substring
// match, or any keyword appearing in the title or description. Results come
// back largest award first, capped at the requested limit (default 10).
func (s *Service) SearchCompetitors(req CompetitorSearchRequest) CompetitorReport {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	var competitors []Competitor
	for _, p := range s.store.All() {
		matches := p.Category != "" && req.Category != "" && containsFold(p.Category, req.Category)
		for _, keyword := range req.Keywords {
			if keyword == "" {
				continue
			}
			if containsFold(p.Title, keyword) || containsFold(p.Description, keyword) {
				matches = true
				break
			}
		}
		if !matches {
			continue
		}
		competitors = append(competitors, Competitor{
			Title:         p.Title,
			Category:      categoryOrOther(p.Category),
			FundingAmount: p.FundingAmount,
			Tags:          p.Tags,
		})
	}

	sort.Slice(competitors, func(i, j int) bool {
		if competitors[i].FundingAmount != competitors[j].FundingAmount {
			return competitors[i].FundingAmount > competitors[j].FundingAmount
		}
		return competitors[i].Title < competitors[j].Title
	})
	if len(competitors) > limit {
		competitors = competitors[:limit]
	}

	report := CompetitorReport{
		Competitors:      competitors,
		TotalCompetitors: len(competitors),
	}
	var total float64
	for _, c := range competitors {
		total += c.FundingAmount
	}
	if len(competitors) > 0 {
		report.AvgFunding = total / float64(len(competitors))
	}
	return report
}
