package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/validation"
)

// badPayload attaches a BadRequest carrying per-field details and reports
// whether the handler should stop.
func badPayload(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(apperror.BadRequest(apperror.MsgBadRequest).WithDetails(validation.ToDetails(err)).Wrap(err))
	return true
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}
