package projects

import (
	"errors"
	"sort"
	"strings"

	"grantscope/internal/entities"
)

var ErrProjectNotFound = errors.New("project not found")

// Filter narrows and orders the project list. Zero values mean "no filter".
type Filter struct {
	Category          string
	ProjectType       string
	Search            string
	SmartContractOnly bool
	MinFunding        *float64
	MaxFunding        *float64
	SortBy            string // funding_desc, funding_asc, name_asc, name_desc
	Page              int
	PerPage           int
}

const defaultPerPage = 20

// ListResult is one page of filtered projects.
type ListResult struct {
	Projects   []entities.Project `json:"projects"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int                `json:"total_pages"`
}

// Service answers project queries over the static store.
type Service struct {
	store *Store
}

// NewService creates a new project service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// List applies the filter, sorts and paginates.
func (s *Service) List(filter Filter) ListResult {
	filtered := make([]entities.Project, 0, s.store.Len())
	for _, p := range s.store.All() {
		if matches(p, filter) {
			filtered = append(filtered, p)
		}
	}

	sortProjects(filtered, filter.SortBy)

	total := len(filtered)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return ListResult{
		Projects:   filtered[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

// Get returns the project with the given title.
func (s *Service) Get(title string) (*entities.Project, error) {
	for _, p := range s.store.All() {
		if p.Title == title {
			return &p, nil
		}
	}
	return nil, ErrProjectNotFound
}

func matches(p entities.Project, f Filter) bool {
	if f.Category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(f.Category)) {
		return false
	}
	if f.ProjectType != "" && !strings.Contains(strings.ToLower(p.ProjectType), strings.ToLower(f.ProjectType)) {
		return false
	}
	if f.SmartContractOnly && !p.UsesSmartContract {
		return false
	}
	if f.MinFunding != nil && p.FundingAmount < *f.MinFunding {
		return false
	}
	if f.MaxFunding != nil && p.FundingAmount > *f.MaxFunding {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

func sortProjects(projects []entities.Project, sortBy string) {
	switch sortBy {
	case "funding_desc":
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].FundingAmount > projects[j].FundingAmount
		})
	case "funding_asc":
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].FundingAmount < projects[j].FundingAmount
		})
	case "name_asc":
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].Title < projects[j].Title
		})
	case "name_desc":
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].Title > projects[j].Title
		})
	}
}
