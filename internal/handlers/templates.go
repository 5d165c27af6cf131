package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) UploadTemplate(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	defer file.Close()

	template, err := h.Templates.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.Templates.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *Handlers) GetPlaceholders(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	placeholders, err := h.Templates.Placeholders(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	if placeholders == nil {
		placeholders = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"placeholders": placeholders})
}
