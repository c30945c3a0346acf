package model

import (
	"sort"
	"time"
)

type TravelGroup struct {
	ID        int64          `json:"id"`
	Owner     Principal      `json:"owner"`
	Name      string         `json:"name"`
	Currency  string         `json:"currency"`
	Members   []GroupMember  `json:"members"`
	Expenses  []GroupExpense `json:"expenses"`
	CreatedAt time.Time      `json:"created_at"`
}

type GroupMember struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	Name      string    `json:"name"`
	Principal Principal `json:"principal,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

type GroupExpense struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"group_id"`
	PaidBy      int64     `json:"paid_by"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Date        Timestamp `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

type MemberBalance struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	Paid     int64  `json:"paid"`
	Share    int64  `json:"share"`
	// Net is positive when the member is owed money.
	Net      int64  `json:"net"`
}

type Transfer struct {
	From   int64 `json:"from"`
	To     int64 `json:"to"`
	Amount int64 `json:"amount"`
}

type GroupBalance struct {
	GroupID       int64           `json:"group_id"`
	TotalExpenses int64           `json:"total_expenses"`
	Members       []MemberBalance `json:"members"`
	Transfers     []Transfer      `json:"transfers"`
}

// CalculateGroupBalance splits every expense equally across members. Shares
// are whole minor units; the remainder goes one unit at a time to the
// earliest members.
func CalculateGroupBalance(group TravelGroup) GroupBalance {
	members := make([]GroupMember, len(group.Members))
	copy(members, group.Members)
	sort.SliceStable(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	result := GroupBalance{GroupID: group.ID, Members: []MemberBalance{}, Transfers: []Transfer{}}
	for _, e := range group.Expenses {
		result.TotalExpenses += e.Amount
	}
	if len(members) == 0 {
		return result
	}

	paid := make(map[int64]int64, len(members))
	for _, e := range group.Expenses {
		paid[e.PaidBy] += e.Amount
	}

	n := int64(len(members))
	base, rem := result.TotalExpenses/n, result.TotalExpenses%n
	for i, m := range members {
		share := base
		if int64(i) < rem {
			share++
		}
		result.Members = append(result.Members, MemberBalance{
			MemberID: m.ID,
			Name:     m.Name,
			Paid:     paid[m.ID],
			Share:    share,
			Net:      paid[m.ID] - share,
		})
	}

	result.Transfers = settleUp(result.Members)
	return result
}

// settleUp pairs the largest debtor with the largest creditor until every
// net balance of a present member is zero.
func settleUp(balances []MemberBalance) []Transfer {
	type position struct {
		id     int64
		amount int64
	}
	var debtors, creditors []position
	for _, b := range balances {
		switch {
		case b.Net < 0:
			debtors = append(debtors, position{b.MemberID, -b.Net})
		case b.Net > 0:
			creditors = append(creditors, position{b.MemberID, b.Net})
		}
	}

	transfers := []Transfer{}
	byLargest := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if p[i].amount != p[j].amount {
				return p[i].amount > p[j].amount
			}
			return p[i].id < p[j].id
		}
	}
	for len(debtors) > 0 && len(creditors) > 0 {
		sort.Slice(debtors, byLargest(debtors))
		sort.Slice(creditors, byLargest(creditors))

		amount := debtors[0].amount
		if creditors[0].amount < amount {
			amount = creditors[0].amount
		}
		transfers = append(transfers, Transfer{From: debtors[0].id, To: creditors[0].id, Amount: amount})

		debtors[0].amount -= amount
		creditors[0].amount -= amount
		if debtors[0].amount == 0 {
			debtors = debtors[1:]
		}
		if creditors[0].amount == 0 {
			creditors = creditors[1:]
		}
	}
	return transfers
}
