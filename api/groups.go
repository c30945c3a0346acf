package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apimodel "github.com/tallyhq/tally/api/model"
	"github.com/tallyhq/tally/api/middleware"
)

func (a Api) CreateGroup(c *gin.Context) {
	var req apimodel.GroupRequest
	if !bindBody(c, &req) {
		return
	}

	group, err := a.tally.CreateGroup(c.Request.Context(), middleware.Caller(c), req.Name, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (a Api) GetGroups(c *gin.Context) {
	groups, err := a.tally.GetGroups(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup returns a group with its members and expenses.
func (a Api) GetGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	group, err := a.tally.GetGroup(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (a Api) DeleteGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := a.tally.DeleteGroup(c.Request.Context(), middleware.Caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CalculateGroupBalance returns each member's net position and the transfers
// that settle the group.
func (a Api) CalculateGroupBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	balance, err := a.tally.CalculateGroupBalance(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (a Api) AddMember(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apimodel.MemberRequest
	if !bindBody(c, &req) {
		return
	}

	member, err := a.tally.AddMember(c.Request.Context(), middleware.Caller(c), groupID, req.Name, req.Principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (a Api) UpdateMember(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "member_id")
	if !ok {
		return
	}
	var req apimodel.MemberRequest
	if !bindBody(c, &req) {
		return
	}

	member, err := a.tally.UpdateMember(c.Request.Context(), middleware.Caller(c), groupID, memberID, req.Name, req.Principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// RemoveMember replies 409 while the member still paid for an expense.
func (a Api) RemoveMember(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "member_id")
	if !ok {
		return
	}

	if err := a.tally.RemoveMember(c.Request.Context(), middleware.Caller(c), groupID, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a Api) AddExpense(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apimodel.ExpenseRequest
	if !bindBody(c, &req) {
		return
	}

	expense, err := a.tally.AddExpense(c.Request.Context(), middleware.Caller(c), groupID, req.ToGroupExpense())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (a Api) EditExpense(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	expenseID, ok := paramID(c, "expense_id")
	if !ok {
		return
	}
	var req apimodel.ExpenseRequest
	if !bindBody(c, &req) {
		return
	}

	expense, err := a.tally.EditExpense(c.Request.Context(), middleware.Caller(c), groupID, expenseID, req.ToGroupExpense())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (a Api) RemoveExpense(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	expenseID, ok := paramID(c, "expense_id")
	if !ok {
		return
	}

	if err := a.tally.RemoveExpense(c.Request.Context(), middleware.Caller(c), groupID, expenseID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
