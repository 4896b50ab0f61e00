package analytics

import (
	"testing"

	"grantscope/internal/entities"
	"grantscope/internal/projects"
)

func TestService_PredictFunding(t *testing.T) {
	svc := testService()

	// Beta and Gamma are the comparables: Infrastructure, no smart contract.
	prediction := svc.PredictFunding(PredictionRequest{Category: "Infrastructure", Stage: "development"})
	if !almostEqual(prediction.PredictedAmount, 250000) {
		t.Errorf("PredictedAmount = %v, want 250000", prediction.PredictedAmount)
	}
	if !almostEqual(prediction.ConfidenceScore, 0.4) {
		t.Errorf("ConfidenceScore = %v, want 0.4", prediction.ConfidenceScore)
	}
	if len(prediction.SimilarProjects) != 2 || prediction.SimilarProjects[0] != "Beta" {
		t.Errorf("SimilarProjects = %v", prediction.SimilarProjects)
	}
	if len(prediction.Recommendations) == 0 {
		t.Error("expected recommendations")
	}

	// The smart-contract flag restricts the comparables.
	prediction = svc.PredictFunding(PredictionRequest{Category: "Wallets", UsesSmartContract: true})
	if !almostEqual(prediction.PredictedAmount, 100000) {
		t.Errorf("Wallets prediction = %v, want 100000", prediction.PredictedAmount)
	}
}

func TestService_PredictFunding_NoComparables(t *testing.T) {
	prediction := testService().PredictFunding(PredictionRequest{Category: "Gaming"})
	if !almostEqual(prediction.PredictedAmount, defaultPrediction) {
		t.Errorf("PredictedAmount = %v, want the default estimate", prediction.PredictedAmount)
	}
	if !almostEqual(prediction.ConfidenceScore, 0.4) {
		t.Errorf("ConfidenceScore = %v, want 0.4", prediction.ConfidenceScore)
	}
	if len(prediction.SimilarProjects) != 0 {
		t.Errorf("SimilarProjects = %v, want none", prediction.SimilarProjects)
	}
}

func TestService_PredictFunding_ConfidenceGrowsWithSample(t *testing.T) {
	var list []entities.Project
	for i := 0; i < 12; i++ {
		list = append(list, entities.Project{Title: "P", Category: "Wallets", FundingAmount: 10000})
	}
	prediction := NewService(projects.NewStore(list)).PredictFunding(PredictionRequest{Category: "Wallets"})
	if !almostEqual(prediction.ConfidenceScore, 0.8) {
		t.Errorf("ConfidenceScore = %v, want 0.8", prediction.ConfidenceScore)
	}
	if len(prediction.SimilarProjects) != 5 {
		t.Errorf("SimilarProjects capped at 5, got %d", len(prediction.SimilarProjects))
	}
}

func TestService_SearchCompetitors(t *testing.T) {
	svc := testService()

	// Category substring match, ordered by award size.
	report := svc.SearchCompetitors(CompetitorSearchRequest{Category: "infra"})
	if report.TotalCompetitors != 2 {
		t.Fatalf("TotalCompetitors = %d, want 2", report.TotalCompetitors)
	}
	if report.Competitors[0].Title != "Beta" || report.Competitors[1].Title != "Gamma" {
		t.Errorf("order = %v", report.Competitors)
	}
	if !almostEqual(report.AvgFunding, 250000) {
		t.Errorf("AvgFunding = %v, want 250000", report.AvgFunding)
	}

	// Keywords match against titles and descriptions.
	report = svc.SearchCompetitors(CompetitorSearchRequest{Keywords: []string{"alpha"}})
	if report.TotalCompetitors != 1 || report.Competitors[0].Title != "Alpha" {
		t.Errorf("keyword search = %+v", report)
	}

	// No criteria means no matches, not the whole dataset.
	report = svc.SearchCompetitors(CompetitorSearchRequest{})
	if report.TotalCompetitors != 0 {
		t.Errorf("empty request matched %d projects", report.TotalCompetitors)
	}
}

func TestService_SearchCompetitors_Limit(t *testing.T) {
	var list []entities.Project
	for i := 0; i < 15; i++ {
		list = append(list, entities.Project{Title: "P", Category: "Wallets", FundingAmount: float64(1000 * (i + 1))})
	}
	svc := NewService(projects.NewStore(list))

	report := svc.SearchCompetitors(CompetitorSearchRequest{Category: "Wallets"})
	if len(report.Competitors) != 10 {
		t.Errorf("default limit: len = %d, want 10", len(report.Competitors))
	}

	report = svc.SearchCompetitors(CompetitorSearchRequest{Category: "Wallets", Limit: 3})
	if len(report.Competitors) != 3 {
		t.Errorf("explicit limit: len = %d, want 3", len(report.Competitors))
	}
	if !almostEqual(report.Competitors[0].FundingAmount, 15000) {
		t.Errorf("largest award first, got %v", report.Competitors[0].FundingAmount)
	}
}
