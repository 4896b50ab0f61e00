package analytics

import (
	"math"
	"testing"

	"grantscope/internal/entities"
	"grantscope/internal/projects"
)

func testService() *Service {
	return NewService(projects.NewStore([]entities.Project{
		{Title: "Alpha", Category: "Wallets", FundingAmount: 100000, AwardedYear: 2022, UsesSmartContract: true},
		{Title: "Beta", Category: "Infrastructure", FundingAmount: 300000, AwardedYear: 2023},
		{Title: "Gamma", Category: "Infrastructure", FundingAmount: 200000, AwardedYear: 2023},
		{Title: "Delta", FundingAmount: 0, AwardedYear: 2024}, // unfunded, uncategorized
	}))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestService_Dashboard(t *testing.T) {
	d := testService().Dashboard()

	if d.Stats.TotalProjects != 4 {
		t.Errorf("TotalProjects = %d, want 4", d.Stats.TotalProjects)
	}
	if !almostEqual(d.Stats.TotalFunding, 600000) {
		t.Errorf("TotalFunding = %v, want 600000", d.Stats.TotalFunding)
	}
	// Averages and medians only count funded projects.
	if !almostEqual(d.Stats.AverageFunding, 200000) {
		t.Errorf("AverageFunding = %v, want 200000", d.Stats.AverageFunding)
	}
	if !almostEqual(d.Stats.MedianFunding, 200000) {
		t.Errorf("MedianFunding = %v, want 200000", d.Stats.MedianFunding)
	}
	if d.Stats.SmartContractProjects != 1 {
		t.Errorf("SmartContractProjects = %d, want 1", d.Stats.SmartContractProjects)
	}
	if !almostEqual(d.Stats.SmartContractShare, 25) {
		t.Errorf("SmartContractShare = %v, want 25", d.Stats.SmartContractShare)
	}
	if len(d.RecentProjects) != 4 || d.RecentProjects[0] != "Alpha" {
		t.Errorf("RecentProjects = %v", d.RecentProjects)
	}
}

func TestService_Dashboard_EmptyDataset(t *testing.T) {
	svc := NewService(projects.NewStore(nil))

	d := svc.Dashboard()
	if d.Stats.TotalProjects != 0 || d.Stats.AverageFunding != 0 || d.Stats.MedianFunding != 0 {
		t.Errorf("empty dataset should produce zeros, got %+v", d.Stats)
	}
}

func TestService_CategoryBreakdown(t *testing.T) {
	stats := testService().CategoryBreakdown()

	if len(stats) != 3 {
		t.Fatalf("len = %d, want 3", len(stats))
	}
	// Ordered by total funding, largest first.
	if stats[0].Category != "Infrastructure" {
		t.Errorf("top category = %q, want Infrastructure", stats[0].Category)
	}
	if stats[0].ProjectCount != 2 || !almostEqual(stats[0].TotalFunding, 500000) {
		t.Errorf("Infrastructure = %+v", stats[0])
	}
	if !almostEqual(stats[0].AverageFunding, 250000) {
		t.Errorf("Infrastructure average = %v, want 250000", stats[0].AverageFunding)
	}
	// Uncategorized projects land in "Other".
	found := false
	for _, s := range stats {
		if s.Category == "Other" {
			found = true
			if s.ProjectCount != 1 {
				t.Errorf("Other count = %d, want 1", s.ProjectCount)
			}
		}
	}
	if !found {
		t.Error("expected an Other bucket")
	}

	var percentSum float64
	for _, s := range stats {
		percentSum += s.PercentageOfTotal
	}
	if !almostEqual(percentSum, 100) {
		t.Errorf("percentages sum to %v, want 100", percentSum)
	}
}

func TestService_Timeline(t *testing.T) {
	timeline := testService().Timeline()

	if len(timeline) != 3 {
		t.Fatalf("len = %d, want 3", len(timeline))
	}
	// Ascending by year.
	wantPeriods := []string{"2022", "2023", "2024"}
	for i, p := range timeline {
		if p.Period != wantPeriods[i] {
			t.Errorf("period[%d] = %q, want %q", i, p.Period, wantPeriods[i])
		}
	}
	if timeline[1].ProjectCount != 2 || !almostEqual(timeline[1].TotalFunding, 500000) {
		t.Errorf("2023 = %+v", timeline[1])
	}
}
