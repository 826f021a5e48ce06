package api

import (
	"errors"
	"net/http"

	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/internal/nef_service/service"

	"github.com/gin-gonic/gin"
)

// statusFor 把业务错误映射为 HTTP 状态码。
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError 写出 {"detail": "..."}。内部错误只记录日志，不把细节返回给调用方。
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		requestLogger(c).WithError(models.ErrorInfo{
			Message:    err.Error(),
			Type:       "internal",
			StatusCode: status,
		}).Error("请求处理失败")
		detail = "Internal Server Error"
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// respondInvalid 用于请求体或参数校验失败。
func respondInvalid(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
}
