package api

import (
	"net/http"

	"NEF_Emulator/backend/go/internal/nef_service/service"

	"github.com/gin-gonic/gin"
)

// --- gNB Handlers ---

func (h *Handler) ListGNBs(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	gnbs, err := h.service.ListGNBs(c.Request.Context(), mustCaller(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gnbs)
}

func (h *Handler) CreateGNB(c *gin.Context) {
	var req service.GNBCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	gnb, err := h.service.CreateGNB(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gnb)
}

func (h *Handler) GetGNB(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gnb, err := h.service.GetGNB(c.Request.Context(), mustCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gnb)
}

func (h *Handler) UpdateGNB(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.GNBUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	gnb, err := h.service.UpdateGNB(c.Request.Context(), mustCaller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gnb)
}

func (h *Handler) DeleteGNB(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gnb, err := h.service.DeleteGNB(c.Request.Context(), mustCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gnb)
}

// --- Cell Handlers ---

func (h *Handler) ListCells(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	cells, err := h.service.ListCells(c.Request.Context(), mustCaller(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cells)
}

func (h *Handler) CreateCell(c *gin.Context) {
	var req service.CellCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	cell, err := h.service.CreateCell(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cell)
}

func (h *Handler) GetCell(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cell, err := h.service.GetCell(c.Request.Context(), mustCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cell)
}

func (h *Handler) UpdateCell(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.CellUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	cell, err := h.service.UpdateCell(c.Request.Context(), mustCaller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cell)
}

func (h *Handler) DeleteCell(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cell, err := h.service.DeleteCell(c.Request.Context(), mustCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cell)
}
