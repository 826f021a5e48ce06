package models

// RequestInfo 存储了关于 HTTP 请求的上下文信息，随请求日志一起输出。
type RequestInfo struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	RemoteAddr string `json:"remote_addr"`
	UserAgent  string `json:"user_agent"`
	Status     int    `json:"status,omitempty"`
	LatencyMS  int64  `json:"latency_ms,omitempty"`
}

// ErrorInfo 存储了关于错误的结构化信息。
type ErrorInfo struct {
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`        // 错误的类型，例如 "database_error", "cache_error"
	StatusCode int    `json:"status_code,omitempty"` // 相关的HTTP状态码
}
