package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realwork/site/internal/service"
	"github.com/sirupsen/logrus"
)

type leadRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
	Division string `json:"division"`
	Message  string `json:"message"`
}

// SubmitLead 保存联系表单，返回线索编号。
func (a *API) SubmitLead(c *gin.Context) {
	var req leadRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	lead, err := a.leads.Submit(c.Request.Context(), service.LeadInput{
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		Phone:    req.Phone,
		Division: req.Division,
		Message:  req.Message,
		SourceIP: c.ClientIP(),
	})
	if err != nil {
		fail(c, err, "")
		return
	}

	a.logger.WithFields(logrus.Fields{
		"reference": lead.Reference,
		"division":  lead.Division,
	}).Info("lead received")
	respondData(c, http.StatusCreated, gin.H{"reference": lead.Reference})
}
