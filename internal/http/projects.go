package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"grantscope/internal/projects"
)

type ProjectsController struct {
	service *projects.Service
}

func NewProjectsController(service *projects.Service) *ProjectsController {
	return &ProjectsController{
		service: service,
	}
}

// ListProjects returns a filtered, sorted, paginated page of projects.
func (controller *ProjectsController) ListProjects(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := controller.service.List(filter)
	c.IndentedJSON(http.StatusOK, result)
}

// GetProject looks up a single project by its exact title.
func (controller *ProjectsController) GetProject(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}

	project, err := controller.service.Get(title)
	if err != nil {
		if errors.Is(err, projects.ErrProjectNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, project)
}

func parseFilter(c *gin.Context) (projects.Filter, error) {
	filter := projects.Filter{
		Category:    c.Query("category"),
		ProjectType: c.Query("type"),
		Search:      c.Query("search"),
		SortBy:      c.Query("sort"),
	}

	if v := c.Query("smart_contract"); v != "" {
		smartContract, err := strconv.ParseBool(v)
		if err != nil {
			return projects.Filter{}, errors.New("smart_contract must be a boolean")
		}
		filter.SmartContractOnly = smartContract
	}

	if v := c.Query("min_funding"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return projects.Filter{}, errors.New("min_funding must be a number")
		}
		filter.MinFunding = &min
	}
	if v := c.Query("max_funding"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return projects.Filter{}, errors.New("max_funding must be a number")
		}
		filter.MaxFunding = &max
	}

	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return projects.Filter{}, errors.New("page must be a positive integer")
		}
		filter.Page = page
	}
	if v := c.Query("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 {
			return projects.Filter{}, errors.New("per_page must be a positive integer")
		}
		filter.PerPage = perPage
	}

	return filter, nil
}
