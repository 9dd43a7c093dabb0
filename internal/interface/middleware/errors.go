package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/response"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Anything that is not an *apperror.Error becomes a logged 500.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		ae := apperror.From(c.Errors.Last().Err)
		status := ae.Kind.Status()
		if status >= http.StatusInternalServerError && logger != nil {
			logger.WithError(ae.Err).WithFields(logrus.Fields{
				"request_id": c.GetString(CtxRequestIDKey),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}).Error(ae.Message)
		}
		response.Error(c, status, ae.Message, ae.Details)
	}
}

// Recovery turns a panic into the standard 500 body.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(CtxRequestIDKey),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"panic":      recovered,
			}).Error("panic recovered")
		}
		response.Error(c, http.StatusInternalServerError, apperror.MsgServerError, nil)
	})
}

// NotFound answers unmatched routes and methods.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, apperror.MsgNotFound, nil)
	}
}
