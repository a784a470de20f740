package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realwork/site/internal/service"
	"github.com/sirupsen/logrus"
)

type sectionRequest struct {
	PageName     string          `json:"pageName"`
	SectionKey   string          `json:"sectionKey"`
	Title        *string         `json:"title"`
	Subtitle     *string         `json:"subtitle"`
	Description  *string         `json:"description"`
	Content      json.RawMessage `json:"content"`
	VisionTitle  *string         `json:"visionTitle"`
	VisionDesc   *string         `json:"visionDesc"`
	MissionTitle *string         `json:"missionTitle"`
	MissionDesc  *string         `json:"missionDesc"`
	IsActive     *bool           `json:"isActive"`
	Order        *int            `json:"order"`
}

// GetSectionContent 返回指定页面区块，不存在时 data 为 null。
func (a *API) GetSectionContent(c *gin.Context) {
	section, err := a.sections.GetTyped(c.Request.Context(), c.Param("pageName"), c.Param("sectionKey"))
	if err != nil {
		fail(c, err, "")
		return
	}
	if section == nil {
		respondData(c, http.StatusOK, nil)
		return
	}
	respondData(c, http.StatusOK, section)
}

// ListPageContent returns the active sections of a page in display order.
func (a *API) ListPageContent(c *gin.Context) {
	sections, err := a.sections.ListTypedByPage(c.Request.Context(), c.Param("pageName"), true)
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, sections)
}

// UpsertSectionContent 创建或覆盖页面区块。
func (a *API) UpsertSectionContent(c *gin.Context) {
	var req sectionRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	section, err := a.sections.Upsert(c.Request.Context(), service.SectionInput{
		PageName:     req.PageName,
		SectionKey:   req.SectionKey,
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Description:  req.Description,
		Content:      req.Content,
		VisionTitle:  req.VisionTitle,
		VisionDesc:   req.VisionDesc,
		MissionTitle: req.MissionTitle,
		MissionDesc:  req.MissionDesc,
		IsActive:     req.IsActive,
		Order:        req.Order,
	})
	if err != nil {
		fail(c, err, "")
		return
	}

	a.logger.WithFields(logrus.Fields{
		"page_name":   section.PageName,
		"section_key": section.SectionKey,
	}).Info("section content saved")
	respondData(c, http.StatusOK, section)
}

// AdminListContent lists sections including inactive ones.
func (a *API) AdminListContent(c *gin.Context) {
	sections, err := a.sections.ListByPage(c.Request.Context(), c.Query("pageName"), false)
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, sections)
}

// DeleteSectionContent 删除页面区块。
func (a *API) DeleteSectionContent(c *gin.Context) {
	if err := a.sections.Delete(c.Request.Context(), c.Param("pageName"), c.Param("sectionKey")); err != nil {
		fail(c, err, "section not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
