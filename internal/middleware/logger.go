package middleware

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/shobh123/pay-securely-and-carefree/pkg/configpkg"
)

// GetLogger builds the application logger. Development gets a console writer
// with caller info at trace level, everything else structured JSON at info.
func GetLogger(config configpkg.Config) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var output io.Writer = os.Stderr

	log := zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()

	if config.Environement == "development" {
		log = log.
			Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.TraceLevel).
			With().
			Caller().
			Logger()
	}

	return log
}

// RequestLogger attaches a request-scoped logger to the context and logs the
// request once handled. Requests without an X-Request-ID get one assigned.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now()

		requestID := gctx.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
			gctx.Request.Header.Set("X-Request-ID", requestID)
			gctx.Writer.Header().Set("X-Request-ID", requestID)
		}

		logger = logger.With().Str("request_id", requestID).Logger()

		gctx.Request = gctx.Request.WithContext(logger.WithContext(gctx.Request.Context()))

		defer func() {
			if panicVal := recover(); panicVal != nil {
				logger.Error().Msgf("panic message: %v", panicVal)
				gctx.Writer.WriteHeader(http.StatusInternalServerError)
			}

			status := gctx.Writer.Status()

			logEvent := logger.Info()
			if status >= http.StatusInternalServerError {
				logEvent = logger.Error()
			}

			logEvent.
				Str("client_ip", gctx.ClientIP()).
				Str("method", gctx.Request.Method).
				Int("status_code", status).
				Str("path", gctx.Request.URL.Path).
				Str("latency", time.Since(start).String()).
				Msg(gctx.Errors.ByType(gin.ErrorTypePrivate).String())
		}()

		gctx.Next()
	}
}
