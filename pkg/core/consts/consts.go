package consts

type ContextKey string

const (
	// TraceKey 请求跟踪ID在context中的键
	TraceKey ContextKey = "trace-id"
)
