package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"NEF_Emulator/backend/go/internal/models"
	"NEF_Emulator/backend/go/internal/nef_service/service"
	"NEF_Emulator/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	callerKey     = "caller"
	loggerKey     = "logger"
	requestIDHead = "X-Request-ID"
)

// RequestLogger 为每个请求分配 trace id（沿用请求头中的 X-Request-ID），
// 并在请求结束后记录方法、路径、状态码和耗时。
func RequestLogger(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traceID := c.GetHeader(requestIDHead)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Header(requestIDHead, traceID)
		c.Request = c.Request.WithContext(service.WithTraceID(c.Request.Context(), traceID))

		log := logger.New(serviceName, traceID, "")
		c.Set(loggerKey, log)

		c.Next()

		if caller, ok := callerFrom(c); ok {
			log = log.WithUser(strconv.FormatUint(uint64(caller.ID), 10))
		}
		entry := log.WithRequest(models.RequestInfo{
			Method:     c.Request.Method,
			Path:       c.FullPath(),
			RemoteAddr: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     c.Writer.Status(),
			LatencyMS:  time.Since(start).Milliseconds(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request completed")
		} else {
			entry.Info("request completed")
		}
	}
}

// AuthMiddleware 创建一个 Gin 中间件，用于验证 JWT 并把调用者身份存入上下文。
func AuthMiddleware(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		// 我们期望的格式是 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		caller, err := svc.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

func callerFrom(c *gin.Context) (service.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return service.Caller{}, false
	}
	caller, ok := v.(service.Caller)
	return caller, ok
}

// mustCaller 只在 AuthMiddleware 之后的处理函数中使用。
func mustCaller(c *gin.Context) service.Caller {
	caller, _ := callerFrom(c)
	return caller
}

func requestLogger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.New("nef_service", "", "")
}
