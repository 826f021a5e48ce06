package api

import (
	"fmt"
	"net/http"
	"strconv"

	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/internal/nef_service/service"
	"NEF_Emulator/backend/go/internal/nef_service/store"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// page 解析 skip/limit 查询参数。
func (h *Handler) page(c *gin.Context) (store.Page, bool) {
	skip, err := queryInt(c, "skip")
	if err != nil {
		respondInvalid(c, err)
		return store.Page{}, false
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondInvalid(c, err)
		return store.Page{}, false
	}
	return h.service.Page(skip, limit), true
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondInvalid(c, fmt.Errorf("%s must be a positive integer", name))
		return 0, false
	}
	return uint(id), true
}

// --- UE ---

func (h *Handler) ListUEs(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	ues, err := h.service.ListUEs(c.Request.Context(), mustCaller(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ues)
}

func (h *Handler) CreateUE(c *gin.Context) {
	var req service.UECreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	ue, err := h.service.CreateUE(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ue)
}

func (h *Handler) GetUE(c *gin.Context) {
	ue, err := h.service.GetUE(c.Request.Context(), mustCaller(c), c.Param("supi"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ue)
}

func (h *Handler) UpdateUE(c *gin.Context) {
	var req service.UEUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	ue, err := h.service.UpdateUE(c.Request.Context(), mustCaller(c), c.Param("supi"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ue)
}

func (h *Handler) DeleteUE(c *gin.Context) {
	ue, err := h.service.DeleteUE(c.Request.Context(), mustCaller(c), c.Param("supi"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ue)
}

// ListUEsByGNB 处理 GET /ue/by_gNB/:gNB_id。
func (h *Handler) ListUEsByGNB(c *gin.Context) {
	id, ok := paramID(c, "gNB_id")
	if !ok {
		return
	}
	ues, err := h.service.ListUEsByGNB(c.Request.Context(), mustCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ues)
}

// ListUEsByCell 处理 GET /ue/by_Cell/:Cell_id。
func (h *Handler) ListUEsByCell(c *gin.Context) {
	id, ok := paramID(c, "Cell_id")
	if !ok {
		return
	}
	ues, err := h.service.ListUEsByCell(c.Request.Context(), mustCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ues)
}

// ExportUEs 以 xlsx 附件的形式返回调用者可见的 UE。
func (h *Handler) ExportUEs(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="ues.xlsx"`)
	c.Status(http.StatusOK)
	if err := h.service.ExportUEs(c.Request.Context(), mustCaller(c), c.Writer); err != nil {
		if !c.Writer.Written() {
			c.Header("Content-Type", "application/json; charset=utf-8")
			c.Writer.Header().Del("Content-Disposition")
			respondError(c, err)
			return
		}
		requestLogger(c).Error("导出 UE 失败: " + err.Error())
	}
}

// --- Paths ---

func (h *Handler) ListPaths(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	paths, err := h.service.ListPaths(c.Request.Context(), mustCaller(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paths)
}

func (h *Handler) CreatePath(c *gin.Context) {
	var req service.PathCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	path, err := h.service.CreatePath(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

func (h *Handler) GetPath(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	path, err := h.service.GetPath(c.Request.Context(), mustCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

func (h *Handler) UpdatePath(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.PathUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	path, err := h.service.UpdatePath(c.Request.Context(), mustCaller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

func (h *Handler) DeletePath(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	path, err := h.service.DeletePath(c.Request.Context(), mustCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

// --- Audit ---

// AuditHistory 处理 GET /audit/:entity/:key。
func (h *Handler) AuditHistory(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondInvalid(c, err)
		return
	}
	events, err := h.service.AuditHistory(c.Request.Context(), mustCaller(c),
		models.EntityKind(c.Param("entity")), c.Param("key"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
