package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"blocknote/pkg/logger"
)

// NewRecoveryMiddleware создает промежуточное ПО для восстановления после паники.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		requestCtx := ctx.Context()

		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log := logger.Log(requestCtx)
			log.Error(requestCtx, "Server panic",
				zap.String("error", fmt.Sprintf("%v", r)),
				zap.String("stack", string(debug.Stack())),
			)

			if sendErr := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			}); sendErr != nil {
				log.Error(requestCtx, "Failed to send error response after panic", zap.Error(sendErr))
			}
			err = nil
		}()

		return ctx.Next()
	}
}
