package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tallyhq/tally"
	"github.com/tallyhq/tally/api/middleware"
	"github.com/tallyhq/tally/config"
)

type Api struct {
	tally  *tally.Tally
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	ledger := router.Group("/", middleware.CallerMiddleware())

	ledger.POST("/people", a.CreatePerson)
	ledger.GET("/people", a.GetAllPeople)
	ledger.GET("/people/:id", a.GetPerson)
	ledger.PUT("/people/:id", a.EditPerson)
	ledger.DELETE("/people/:id", a.DeletePerson)
	ledger.PUT("/people/:id/approval", a.SetApprovalStatus)
	ledger.GET("/people/:id/balance", a.GetProfileBalance)
	ledger.GET("/people/:id/totals", a.GetHistoryTotals)
	ledger.GET("/people/:id/entries", a.GetTransactionHistory)
	ledger.POST("/people/:id/entries", a.AddLedgerEntry)

	ledger.GET("/entries/pending", a.GetPendingEntries)
	ledger.POST("/entries/:id/approve", a.ApproveLedgerEntry)
	ledger.POST("/entries/:id/reject", a.RejectLedgerEntry)
	ledger.POST("/entries/:id/archive", a.ArchiveEntry)
	ledger.POST("/entries/:id/repaid", a.MarkAsRepaid)

	ledger.GET("/dashboard", a.GetSummaryDashboard)
	ledger.POST("/dashboard/reset", a.ResetDashboard)

	ledger.GET("/me", a.GetCallerUserProfile)
	ledger.PUT("/me", a.SaveCallerUserProfile)

	ledger.POST("/groups", a.CreateGroup)
	ledger.GET("/groups", a.GetGroups)
	ledger.GET("/groups/:id", a.GetGroup)
	ledger.DELETE("/groups/:id", a.DeleteGroup)
	ledger.GET("/groups/:id/balance", a.CalculateGroupBalance)
	ledger.POST("/groups/:id/members", a.AddMember)
	ledger.PUT("/groups/:id/members/:member_id", a.UpdateMember)
	ledger.DELETE("/groups/:id/members/:member_id", a.RemoveMember)
	ledger.POST("/groups/:id/expenses", a.AddExpense)
	ledger.PUT("/groups/:id/expenses/:expense_id", a.EditExpense)
	ledger.DELETE("/groups/:id/expenses/:expense_id", a.RemoveExpense)

	return a.router
}

func NewAPI(t *tally.Tally) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(otelgin.Middleware(conf.ProjectName))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Api{tally: t, router: r}
}
