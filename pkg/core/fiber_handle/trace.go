package fiber_handle

import (
	"context"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"

	"brandkit/pkg/core/consts"
)

// NewApiTracer 为每个请求生成跟踪ID并写入context
func NewApiTracer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := uuid.NewV4().String()

		ctx := context.WithValue(c.UserContext(), consts.TraceKey, traceID)
		c.SetUserContext(ctx)
		c.Locals(consts.TraceKey, traceID)
		return c.Next()
	}
}
