package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck 检查一个下游依赖是否可用。
type HealthCheck func(ctx context.Context) error

// SetupRouter 配置和返回一个 Gin 引擎实例。
// checks 的键是依赖名称，在 /health 中逐个检查。
func SetupRouter(h *Handler, serviceName string, checks map[string]HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(serviceName))

	r.GET("/health", healthHandler(checks))

	// 创建认证中间件实例
	auth := AuthMiddleware(h.service)

	// 使用 v1 版本对 API 进行分组
	apiV1 := r.Group("/api/v1")
	{
		login := apiV1.Group("/login")
		{
			login.POST("/access-token", h.Login)
			login.POST("/test-token", auth, h.TestToken)
		}

		users := apiV1.Group("/users", auth)
		{
			users.GET("", h.ListUsers)
			users.POST("", h.CreateUser)
			users.GET("/me", h.Me)
			users.PUT("/me", h.UpdateMe)
		}

		ue := apiV1.Group("/ue", auth)
		{
			ue.GET("", h.ListUEs)
			ue.POST("", h.CreateUE)
			ue.GET("/export", h.ExportUEs)
			ue.GET("/by_gNB/:gNB_id", h.ListUEsByGNB)
			ue.GET("/by_Cell/:Cell_id", h.ListUEsByCell)
			ue.GET("/:supi", h.GetUE)
			ue.PUT("/:supi", h.UpdateUE)
			ue.DELETE("/:supi", h.DeleteUE)
		}

		paths := apiV1.Group("/paths", auth)
		{
			paths.GET("", h.ListPaths)
			paths.POST("", h.CreatePath)
			paths.GET("/:id", h.GetPath)
			paths.PUT("/:id", h.UpdatePath)
			paths.DELETE("/:id", h.DeletePath)
		}

		gnbs := apiV1.Group("/gNBs", auth)
		{
			gnbs.GET("", h.ListGNBs)
			gnbs.POST("", h.CreateGNB)
			gnbs.GET("/:id", h.GetGNB)
			gnbs.PUT("/:id", h.UpdateGNB)
			gnbs.DELETE("/:id", h.DeleteGNB)
		}

		cells := apiV1.Group("/Cells", auth)
		{
			cells.GET("", h.ListCells)
			cells.POST("", h.CreateCell)
			cells.GET("/:id", h.GetCell)
			cells.PUT("/:id", h.UpdateCell)
			cells.DELETE("/:id", h.DeleteCell)
		}

		apiV1.GET("/audit/:entity/:key", auth, h.AuditHistory)
	}

	return r
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": result})
	}
}
