package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grantscope/internal/analytics"
)

type AnalyticsController struct {
	service *analytics.Service
}

func NewAnalyticsController(service *analytics.Service) *AnalyticsController {
	return &AnalyticsController{
		service: service,
	}
}

// Dashboard returns the headline stats, category breakdown and recent projects.
func (controller *AnalyticsController) Dashboard(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, controller.service.Dashboard())
}

// Categories returns the per-category funding breakdown.
func (controller *AnalyticsController) Categories(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"categories": controller.service.CategoryBreakdown()})
}

// Timeline returns project counts and funding grouped by award year.
func (controller *AnalyticsController) Timeline(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{"timeline": controller.service.Timeline()})
}

// Heatmap returns opportunity scores per project type.
func (controller *AnalyticsController) Heatmap(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, controller.service.OpportunityHeatmap())
}

// Recommendations ranks categories for an applicant's stage.
func (controller *AnalyticsController) Recommendations(c *gin.Context) {
	var req analytics.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"recommendations": controller.service.Recommendations(req)})
}

// Calculator estimates a grant size from stage and round signals.
func (controller *AnalyticsController) Calculator(c *gin.Context) {
	var req analytics.FundingEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.IndentedJSON(http.StatusOK, controller.service.EstimateFunding(req))
}

// Landscape lists funded competitors in a category.
func (controller *AnalyticsController) Landscape(c *gin.Context) {
	var req analytics.LandscapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.IndentedJSON(http.StatusOK, controller.service.CompetitiveLandscape(req))
}

// TimelinePlanner splits a funding target into application rounds.
func (controller *AnalyticsController) TimelinePlanner(c *gin.Context) {
	var req analytics.TimelinePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.TargetFunding <= 0 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "target_funding must be positive"})
		return
	}
	c.IndentedJSON(http.StatusOK, controller.service.PlanFundingTimeline(req))
}

// CategoryInsight aggregates a single category in depth.
func (controller *AnalyticsController) CategoryInsight(c *gin.Context) {
	category := c.Param("category")
	c.IndentedJSON(http.StatusOK, controller.service.CategoryDeepDive(category))
}

// Gaps surfaces underserved project types.
func (controller *AnalyticsController) Gaps(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, controller.service.GapAnalysis())
}

// SuccessPatterns reports what funded projects in a category share.
func (controller *AnalyticsController) SuccessPatterns(c *gin.Context) {
	var req analytics.SuccessPatternsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.IndentedJSON(http.StatusOK, controller.service.AnalyzeSuccessPatterns(req))
}

// LiveDashboard composes the dashboard with trending categories, top awards
// and the widest gaps.
func (controller *AnalyticsController) LiveDashboard(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, controller.service.LiveDashboard())
}

// ProposalTemplate returns a proposal outline with a stage-sized budget.
func (controller *AnalyticsController) ProposalTemplate(c *gin.Context) {
	var req analytics.ProposalTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.IndentedJSON(http.StatusOK, controller.service.BuildProposalTemplate(req))
}

// PredictFunding estimates an award from comparable projects.
func (controller *AnalyticsController) PredictFunding(c *gin.Context) {
	var req analytics.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"prediction": controller.service.PredictFunding(req)})
}

// Competitors finds projects in the same space by category or keyword.
func (controller *AnalyticsController) Competitors(c *gin.Context) {
	var req analytics.CompetitorSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"analysis": controller.service.SearchCompetitors(req)})
}
