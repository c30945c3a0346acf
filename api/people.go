/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apimodel "github.com/tallyhq/tally/api/model"
	"github.com/tallyhq/tally/api/middleware"
)

// CreatePerson adds a person profile to the caller's books.
//
// Responses:
// - 400 Bad Request: If the name is missing or too long.
// - 201 Created: With the new profile.
func (a Api) CreatePerson(c *gin.Context) {
	var req apimodel.PersonRequest
	if !bindBody(c, &req) {
		return
	}

	person, err := a.tally.CreatePerson(c.Request.Context(), middleware.Caller(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

// GetAllPeople lists the caller's profiles. The optional "search" query
// parameter filters them by a fuzzy name match.
func (a Api) GetAllPeople(c *gin.Context) {
	people, err := a.tally.GetPeople(c.Request.Context(), middleware.Caller(c), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, people)
}

// GetPerson returns one profile of the caller.
//
// Responses:
// - 400 Bad Request: If the ID is not a positive integer.
// - 404 Not Found: If the caller has no such profile.
// - 200 OK: With the profile.
func (a Api) GetPerson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	person, err := a.tally.GetPerson(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

// EditPerson renames a profile.
func (a Api) EditPerson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apimodel.PersonRequest
	if !bindBody(c, &req) {
		return
	}

	person, err := a.tally.EditPerson(c.Request.Context(), middleware.Caller(c), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

// DeletePerson hides a profile. Its entries are kept.
func (a Api) DeletePerson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := a.tally.DeletePerson(c.Request.Context(), middleware.Caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetApprovalStatus marks a profile as settled or clears the mark.
//
// Responses:
// - 400 Bad Request: If approval_status is missing.
// - 409 Conflict: If the profile still carries a balance.
// - 200 OK: With the updated profile.
func (a Api) SetApprovalStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apimodel.ApprovalRequest
	if !bindBody(c, &req) {
		return
	}

	person, err := a.tally.SetApprovalStatus(c.Request.Context(), middleware.Caller(c), id, *req.ApprovalStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

func (a Api) GetProfileBalance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	balance, err := a.tally.GetProfileBalance(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (a Api) GetHistoryTotals(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	totals, err := a.tally.GetHistoryTotals(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// GetTransactionHistory lists every entry on a profile, newest first.
func (a Api) GetTransactionHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	entries, err := a.tally.GetTransactionHistory(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
