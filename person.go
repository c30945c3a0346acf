package tally

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/tallyhq/tally/model"
)

// nameDrift is the share of a name, in percent, that may differ from a
// search term for the name to still match.
const nameDrift = 34

var nameOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// CreatePerson adds a profile to the caller's books.
func (l *Tally) CreatePerson(ctx context.Context, caller model.Principal, name string) (model.PersonProfile, error) {
	ctx, span := tracer.Start(ctx, "CreatePerson")
	defer span.End()

	if err := model.ValidateName(name); err != nil {
		return model.PersonProfile{}, err
	}
	person, err := l.datasource.CreatePerson(ctx, model.PersonProfile{Owner: caller, Name: strings.TrimSpace(name)})
	if err != nil {
		return model.PersonProfile{}, logAndRecordError(span, "failed to create person", err)
	}
	l.invalidate(ctx, caller)
	return person, nil
}

// GetPeople lists the caller's profiles. A non empty search keeps only the
// profiles whose name fuzzily matches it, closest first.
func (l *Tally) GetPeople(ctx context.Context, caller model.Principal, search string) ([]model.PersonProfile, error) {
	ctx, span := tracer.Start(ctx, "GetPeople")
	defer span.End()

	people, err := cached(ctx, l.queries, caller, "people", func(ctx context.Context) ([]model.PersonProfile, error) {
		return l.datasource.GetPeople(ctx, caller)
	})
	if err != nil {
		return nil, logAndRecordError(span, "failed to list people", err)
	}
	if strings.TrimSpace(search) == "" {
		return people, nil
	}
	return searchPeople(people, search), nil
}

func (l *Tally) GetPerson(ctx context.Context, caller model.Principal, id int64) (*model.PersonProfile, error) {
	ctx, span := tracer.Start(ctx, "GetPerson")
	defer span.End()

	return cached(ctx, l.queries, caller, fmt.Sprintf("person:%d", id), func(ctx context.Context) (*model.PersonProfile, error) {
		return l.datasource.GetPerson(ctx, caller, id)
	})
}

// EditPerson renames a profile.
func (l *Tally) EditPerson(ctx context.Context, caller model.Principal, id int64, name string) (*model.PersonProfile, error) {
	ctx, span := tracer.Start(ctx, "EditPerson")
	defer span.End()

	if err := model.ValidateName(name); err != nil {
		return nil, err
	}
	person, err := l.datasource.GetPerson(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	person.Name = strings.TrimSpace(name)
	if err := l.datasource.UpdatePerson(ctx, person); err != nil {
		return nil, logAndRecordError(span, "failed to update person", err)
	}
	l.invalidate(ctx, caller)
	return person, nil
}

// DeletePerson hides a profile from the caller's books. Its entries stay.
func (l *Tally) DeletePerson(ctx context.Context, caller model.Principal, id int64) error {
	ctx, span := tracer.Start(ctx, "DeletePerson")
	defer span.End()

	if err := l.datasource.DeletePerson(ctx, caller, id); err != nil {
		return logAndRecordError(span, "failed to delete person", err)
	}
	l.invalidate(ctx, caller)
	return nil
}

// GetTransactionHistory returns every entry on a profile, newest first.
func (l *Tally) GetTransactionHistory(ctx context.Context, caller model.Principal, id int64) ([]model.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "GetTransactionHistory")
	defer span.End()

	if _, err := l.GetPerson(ctx, caller, id); err != nil {
		return nil, err
	}
	return cached(ctx, l.queries, caller, fmt.Sprintf("person:%d:entries", id), func(ctx context.Context) ([]model.LedgerEntry, error) {
		return l.datasource.GetEntriesByPerson(ctx, caller, id)
	})
}

// GetProfileBalance is the live balance of a profile over approved entries.
func (l *Tally) GetProfileBalance(ctx context.Context, caller model.Principal, id int64) (model.BalanceSummary, error) {
	entries, err := l.GetTransactionHistory(ctx, caller, id)
	if err != nil {
		return model.BalanceSummary{}, err
	}
	return model.Summarize(entries), nil
}

// GetHistoryTotals is the balance of a profile over every entry that was
// ever approved, archived ones included.
func (l *Tally) GetHistoryTotals(ctx context.Context, caller model.Principal, id int64) (model.BalanceSummary, error) {
	entries, err := l.GetTransactionHistory(ctx, caller, id)
	if err != nil {
		return model.BalanceSummary{}, err
	}
	return model.HistoryTotals(entries), nil
}

func searchPeople(people []model.PersonProfile, search string) []model.PersonProfile {
	term := strings.ToLower(strings.TrimSpace(search))
	type match struct {
		person   model.PersonProfile
		distance int
	}

	var matches []match
	for _, p := range people {
		if d, ok := nameMatch(strings.ToLower(p.Name), term); ok {
			matches = append(matches, match{person: p, distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]model.PersonProfile, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.person)
	}
	return result
}

// nameMatch compares the term with the whole name and with each word of it
// and returns the best distance. Substrings match with distance zero.
func nameMatch(name, term string) (int, bool) {
	if strings.Contains(name, term) {
		return 0, true
	}

	best, found := 0, false
	for _, candidate := range append([]string{name}, strings.Fields(name)...) {
		distance := levenshtein.DistanceForStrings([]rune(candidate), []rune(term), nameOptions)
		maxLength := max(len([]rune(candidate)), len([]rune(term)))
		if distance > maxLength*nameDrift/100 {
			continue
		}
		if !found || distance < best {
			best, found = distance, true
		}
	}
	return best, found
}
