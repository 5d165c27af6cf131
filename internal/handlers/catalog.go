package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// -------- Entities --------

type entityCreateRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

type entityUpdateRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

func (h *Handlers) CreateEntity(c *gin.Context) {
	var req entityCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code are required"})
		return
	}

	entity, err := h.Catalog.CreateEntity(c.Request.Context(), req.Name, req.Code)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}

func (h *Handlers) ListEntities(c *gin.Context) {
	entities, err := h.Catalog.ListEntities(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entities)
}

func (h *Handlers) UpdateEntity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req entityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	entity, err := h.Catalog.UpdateEntity(c.Request.Context(), id, req.Name, req.Code)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (h *Handlers) DeleteEntity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Catalog.DeleteEntity(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// -------- Clients --------

type clientCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

type clientUpdateRequest struct {
	Name *string `json:"name"`
}

func (h *Handlers) CreateClient(c *gin.Context) {
	var req clientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	client, err := h.Catalog.CreateClient(c.Request.Context(), req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handlers) ListClients(c *gin.Context) {
	clients, err := h.Catalog.ListClients(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handlers) UpdateClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req clientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	client, err := h.Catalog.UpdateClient(c.Request.Context(), id, req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handlers) DeleteClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Catalog.DeleteClient(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// -------- Values --------

type valueCreateRequest struct {
	EntityID  uint   `json:"entity_id" binding:"required"`
	ClientID  uint   `json:"client_id" binding:"required"`
	ValueText string `json:"value_text"`
}

type valueUpdateRequest struct {
	ValueText string `json:"value_text"`
}

func (h *Handlers) CreateValue(c *gin.Context) {
	var req valueCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_id and client_id are required"})
		return
	}

	value, err := h.Catalog.CreateValue(c.Request.Context(), req.EntityID, req.ClientID, req.ValueText)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, value)
}

func (h *Handlers) ListValues(c *gin.Context) {
	values, err := h.Catalog.ListValues(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

func (h *Handlers) UpdateValue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req valueUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}

	value, err := h.Catalog.UpdateValue(c.Request.Context(), id, req.ValueText)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}

func (h *Handlers) DeleteValue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Catalog.DeleteValue(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
