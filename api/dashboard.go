package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallyhq/tally/api/middleware"
)

// GetSummaryDashboard returns the caller's totals and per person balances.
func (a Api) GetSummaryDashboard(c *gin.Context) {
	dashboard, err := a.tally.GetSummaryDashboard(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// ResetDashboard wipes the caller's books.
func (a Api) ResetDashboard(c *gin.Context) {
	summary, err := a.tally.ResetDashboard(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
