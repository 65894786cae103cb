package router

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/logger"
)

// RequestLogger stores a request-scoped logger in the request context and logs
// one line per request once the handler returns.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			ctx := logger.WithRequestID(req.Context(), requestID)
			ctx = logger.NewContext(ctx, log)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			}
			if c.Response().Status >= http.StatusInternalServerError {
				log.Warn(ctx, "request", fields...)
			} else {
				log.Info(ctx, "request", fields...)
			}
			return nil
		}
	}
}

// ErrorHandler renders every error as {"message": ...}. Unexpected errors are
// reduced to the generic internal message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := http.StatusInternalServerError, apperrors.InternalErrorMessage

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch {
		case status == http.StatusNotFound && he.Internal == nil:
			message = "Not found"
		case status >= http.StatusInternalServerError:
			message = apperrors.InternalErrorMessage
		default:
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = fmt.Sprint(he.Message)
			}
		}
	} else {
		mapped := apperrors.MapErrorToHTTP(err)
		status, message = mapped.StatusCode, mapped.Message
		if status >= http.StatusInternalServerError {
			ctx := c.Request().Context()
			logger.Log(ctx).Error(ctx, "unhandled error", zap.Error(err))
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, apperrors.ErrorResponse{Message: message})
	}
	if writeErr != nil {
		ctx := c.Request().Context()
		logger.Log(ctx).Warn(ctx, "write error response", zap.Error(writeErr))
	}
}
