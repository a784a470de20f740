package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realwork/site/internal/service"
)

type divisionRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	PageType    string `json:"pageType"`
	IsActive    *bool  `json:"isActive"`
	Order       *int   `json:"order"`
}

func (r divisionRequest) input() service.DivisionInput {
	return service.DivisionInput{
		Slug:        r.Slug,
		Name:        r.Name,
		Kind:        r.Kind,
		Summary:     r.Summary,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		PageType:    r.PageType,
		IsActive:    r.IsActive,
		Order:       r.Order,
	}
}

type jobRequest struct {
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	Description    string `json:"description"`
	IsOpen         *bool  `json:"isOpen"`
	Order          *int   `json:"order"`
}

func (r jobRequest) input() service.JobPostingInput {
	return service.JobPostingInput{
		Slug:           r.Slug,
		Title:          r.Title,
		Department:     r.Department,
		Location:       r.Location,
		EmploymentType: r.EmploymentType,
		Description:    r.Description,
		IsOpen:         r.IsOpen,
		Order:          r.Order,
	}
}

// ListDivisions 返回启用中的业务板块。
func (a *API) ListDivisions(c *gin.Context) {
	divisions, err := a.divisions.List(c.Request.Context(), true)
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, divisions)
}

// GetDivision returns an active division by slug.
func (a *API) GetDivision(c *gin.Context) {
	division, err := a.divisions.GetActiveBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "division not found")
		return
	}
	respondData(c, http.StatusOK, division)
}

// AdminListDivisions includes inactive divisions.
func (a *API) AdminListDivisions(c *gin.Context) {
	divisions, err := a.divisions.List(c.Request.Context(), false)
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, divisions)
}

func (a *API) CreateDivision(c *gin.Context) {
	var req divisionRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	division, err := a.divisions.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusCreated, division)
}

func (a *API) UpdateDivision(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req divisionRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	division, err := a.divisions.Update(c.Request.Context(), id, req.input())
	if err != nil {
		fail(c, err, "division not found")
		return
	}
	respondData(c, http.StatusOK, division)
}

func (a *API) DeleteDivision(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.divisions.Delete(c.Request.Context(), id); err != nil {
		fail(c, err, "division not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListJobs 返回开放中的职位。
func (a *API) ListJobs(c *gin.Context) {
	jobs, err := a.jobs.List(c.Request.Context(), true)
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, jobs)
}

// GetJob returns an open posting by slug.
func (a *API) GetJob(c *gin.Context) {
	job, err := a.jobs.GetOpenBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "job posting not found")
		return
	}
	respondData(c, http.StatusOK, job)
}

func (a *API) AdminListJobs(c *gin.Context) {
	jobs, err := a.jobs.List(c.Request.Context(), false)
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, jobs)
}

func (a *API) CreateJob(c *gin.Context) {
	var req jobRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	job, err := a.jobs.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusCreated, job)
}

func (a *API) UpdateJob(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req jobRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	job, err := a.jobs.Update(c.Request.Context(), id, req.input())
	if err != nil {
		fail(c, err, "job posting not found")
		return
	}
	respondData(c, http.StatusOK, job)
}

func (a *API) DeleteJob(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.jobs.Delete(c.Request.Context(), id); err != nil {
		fail(c, err, "job posting not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
