package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apimodel "github.com/tallyhq/tally/api/model"
	"github.com/tallyhq/tally/api/middleware"
)

// GetCallerUserProfile returns the caller's own profile. A caller that never
// saved one gets 404.
func (a Api) GetCallerUserProfile(c *gin.Context) {
	profile, err := a.tally.GetCallerUserProfile(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveCallerUserProfile registers the caller or updates their profile.
func (a Api) SaveCallerUserProfile(c *gin.Context) {
	var req apimodel.UserProfileRequest
	if !bindBody(c, &req) {
		return
	}

	profile, err := a.tally.SaveCallerUserProfile(c.Request.Context(), middleware.Caller(c), req.ToUserProfile())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
