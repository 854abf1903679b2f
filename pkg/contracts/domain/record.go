package domain

import (
	"sort"
	"time"
)

// Record is a canonical financial line item: one row of a source table after
// schema normalization, period resolution and currency conversion.
type Record struct {
	Period    time.Time `json:"period"`
	Account   string    `json:"account,omitempty"`
	Entity    string    `json:"entity,omitempty"`
	Currency  string    `json:"currency"`
	Amount    float64   `json:"amount"`
	RateToUSD float64   `json:"rate_to_usd"`
	AmountUSD float64   `json:"amount_usd"`
}

// Label returns the text label classification runs against: the account if
// present, otherwise the entity, otherwise empty. The fallback is decided
// row by row, so a row with an empty account cell classifies by its entity
// name even when sibling rows carry accounts.
func (r Record) Label() string {
	if r.Account != "" {
		return r.Account
	}
	return r.Entity
}

// Dataset holds the converted record sets a query computes over. All
// monetary values are USD after conversion.
type Dataset struct {
	Actuals []Record
	Budget  []Record
	Cash    []Record
}

// LatestPeriod returns the most recent period present in the records, or the
// zero time when there are none.
func LatestPeriod(records []Record) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.Period.After(latest) {
			latest = r.Period
		}
	}
	return latest
}

// Periods returns the distinct periods present in the records, sorted
// chronologically.
func Periods(records []Record) []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, r := range records {
		if !seen[r.Period] {
			seen[r.Period] = true
			out = append(out, r.Period)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
