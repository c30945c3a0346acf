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
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallyhq/tally"
	apimodel "github.com/tallyhq/tally/api/model"
	"github.com/tallyhq/tally/api/middleware"
	"github.com/tallyhq/tally/model"
)

// AddLedgerEntry records an entry on a profile. With a counterparty the
// entry is mirrored into the counterparty's books as pending.
//
// Responses:
// - 400 Bad Request: If the body fails validation.
// - 403 Forbidden: If the counterparty is not a registered user.
// - 404 Not Found: If the caller has no such profile.
// - 201 Created: With the ids of the entry and its counterpart.
func (a Api) AddLedgerEntry(c *gin.Context) {
	personID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apimodel.CreateEntry
	if !bindBody(c, &req) {
		return
	}

	entry, err := a.tally.AddLedgerEntry(c.Request.Context(), middleware.Caller(c), personID, tally.EntryInput{
		TransactionType: model.TransactionType(req.TransactionType),
		Amount:          req.Amount,
		Currency:        req.Currency,
		Date:            model.Timestamp(req.Date),
		Description:     req.Description,
		Counterparty:    req.Counterparty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, apimodel.EntryCreated{ID: entry.ID, CounterpartID: entry.CounterpartID})
}

func (a Api) GetPendingEntries(c *gin.Context) {
	entries, err := a.tally.GetPendingEntries(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (a Api) ApproveLedgerEntry(c *gin.Context) {
	a.entryAction(c, a.tally.ApproveLedgerEntry)
}

func (a Api) RejectLedgerEntry(c *gin.Context) {
	a.entryAction(c, a.tally.RejectLedgerEntry)
}

func (a Api) ArchiveEntry(c *gin.Context) {
	a.entryAction(c, a.tally.ArchiveEntry)
}

func (a Api) MarkAsRepaid(c *gin.Context) {
	a.entryAction(c, a.tally.MarkAsRepaid)
}

type entryActionFunc func(ctx context.Context, caller model.Principal, id int64) (model.LedgerEntry, error)

// entryAction runs a status change on the entry named by the route and
// replies with the entry as it is afterwards.
func (a Api) entryAction(c *gin.Context, action entryActionFunc) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	entry, err := action(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
