package middleware

import (
	"github.com/gofiber/fiber/v3"

	"blocknote/pkg/logger"
)

// NewRequestIDMiddleware кладет в контекст запроса идентификатор из
// X-Request-ID (или новый) и логгер с этим идентификатором.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get(fiber.HeaderXRequestID))
		requestID, _ := logger.GetRequestID(requestCtx)

		requestCtx = logger.NewContext(requestCtx, logger.Log(requestCtx).WithRequestID(requestCtx))
		ctx.SetContext(requestCtx)
		ctx.Set(fiber.HeaderXRequestID, requestID)

		return ctx.Next()
	}
}
