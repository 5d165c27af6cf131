package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"docgen/internal/generate"

	"github.com/gin-gonic/gin"
)

type generateRequest struct {
	TemplateID uint   `json:"template_id" binding:"required"`
	ClientIDs  []uint `json:"client_ids"`
	OnMissing  string `json:"on_missing"`
	Format     string `json:"format"`
}

// Generate runs one batch and streams the artifact back. Failures are
// plain text naming the cause so callers can act on the key, client or
// template at fault.
func (h *Handlers) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}

	policy, err := generate.ParsePolicy(req.OnMissing)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	format, err := generate.ParseFormat(req.Format)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Engine.Generate(c.Request.Context(), generate.Request{
		TemplateID: req.TemplateID,
		ClientIDs:  req.ClientIDs,
		OnMissing:  policy,
		Format:     format,
	})
	if err != nil {
		c.String(statusFor(err), err.Error())
		return
	}

	if len(result.Warnings) > 0 {
		c.Header("X-Generation-Warning", strings.Join(result.Warnings, "; "))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func (h *Handlers) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, total, err := h.History.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"records": records,
	})
}
