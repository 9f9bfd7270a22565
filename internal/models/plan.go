package models

import (
	"strings"
	"time"
)

// UntitledCard is the title given to a card whose plan names nothing to title it by
const UntitledCard = "Untitled"

// PlanFragment is one PDCA decomposition as produced by the generator: a titled set of
// must/should tasks with a risk, one adjustment and the assumptions behind it.
type PlanFragment struct {
	Title         string     `json:"title,omitempty"`
	Date          string     `json:"date"`
	Must          []Task     `json:"must"`
	Should        []Task     `json:"should"`
	RiskOfDay     Risk       `json:"riskOfDay"`
	OneAdjustment Adjustment `json:"oneAdjustment"`
	Assumptions   []string   `json:"assumptions"`
}

// CardTitle is the fragment's own title, else the text of its first must task.
func (f PlanFragment) CardTitle() string {
	if title := strings.TrimSpace(f.Title); title != "" {
		return title
	}
	if len(f.Must) > 0 && f.Must[0].Text != "" {
		return f.Must[0].Text
	}
	return UntitledCard
}

// IsEmpty reports whether the fragment carries no title and no tasks
func (f PlanFragment) IsEmpty() bool {
	return strings.TrimSpace(f.Title) == "" && len(f.Must) == 0 && len(f.Should) == 0
}

// IssueCard is an independently titled plan fragment. A day's working set is an ordered
// list of cards.
type IssueCard struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	CreatedAt time.Time    `json:"createdAt"`
	Plan      PlanFragment `json:"plan"`
}

// DayPlan is the document stored per calendar date. A day with a single plan is a list
// of exactly one card.
type DayPlan struct {
	Date  string      `json:"date"`
	Cards []IssueCard `json:"cards"`
}

// SetTaskDone sets the done flag of the first task matching taskID. Must lists of every
// card are scanned before any should list, so a must match always wins.
func (p *DayPlan) SetTaskDone(taskID string, done bool) bool {
	for i := range p.Cards {
		if setDone(p.Cards[i].Plan.Must, taskID, done) {
			return true
		}
	}
	for i := range p.Cards {
		if setDone(p.Cards[i].Plan.Should, taskID, done) {
			return true
		}
	}
	return false
}

// Card returns the index of the card with the given id, or -1.
func (p *DayPlan) Card(cardID string) int {
	for i := range p.Cards {
		if p.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// SetCardTaskDone is SetTaskDone restricted to a single card. It reports whether the card
// and the task were found.
func (p *DayPlan) SetCardTaskDone(cardID, taskID string, done bool) (cardFound, taskFound bool) {
	idx := p.Card(cardID)
	if idx < 0 {
		return false, false
	}
	plan := &p.Cards[idx].Plan
	if setDone(plan.Must, taskID, done) {
		return true, true
	}
	return true, setDone(plan.Should, taskID, done)
}

// AddCard appends a card, keeping the day's card order.
func (p *DayPlan) AddCard(card IssueCard) {
	p.Cards = append(p.Cards, card)
}

// Tasks returns the total and completed task count across all cards.
func (p *DayPlan) Tasks() (total, done int) {
	for _, card := range p.Cards {
		for _, list := range [][]Task{card.Plan.Must, card.Plan.Should} {
			for _, task := range list {
				total++
				if task.Done {
					done++
				}
			}
		}
	}
	return total, done
}
