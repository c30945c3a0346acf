package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tallyhq/tally/internal/apierror"
)

// validator is implemented by every request body in api/model.
type validator interface {
	Validate() error
}

// respondError writes err with the status its code maps to. Errors that
// are not APIErrors are reported without their internal details.
func respondError(c *gin.Context, err error) {
	var apiErr apierror.APIError
	if !errors.As(err, &apiErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": apierror.ErrInternalServer})
		return
	}
	c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": apiErr.Message, "code": apiErr.Code})
}

// bindBody decodes and validates the JSON body into req.
func bindBody(c *gin.Context, req validator) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apierror.Validation(err.Error()))
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(c, apierror.Validation(err.Error()))
		return false
	}
	return true
}

// paramID reads a positive numeric path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	raw, passed := c.Params.Get(name)
	if !passed {
		respondError(c, apierror.Validation(fmt.Sprintf("%s is required. pass it in the route /:%s", name, name)))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apierror.Validation(fmt.Sprintf("%s must be a positive integer", name)))
		return 0, false
	}
	return id, true
}
