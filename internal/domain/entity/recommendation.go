package entity

import (
	"strconv"
	"strings"
	"time"
)

type SetupRequest struct {
	Budget  string
	UseCase string
	UserID  string
}

// Validate reports ErrIncompleteRequest when any field is blank. A budget
// that parses to a numeric zero ("0", "0.0", "-0") counts as blank.
func (r SetupRequest) Validate() error {
	if zeroBudget(r.Budget) ||
		strings.TrimSpace(r.UseCase) == "" ||
		strings.TrimSpace(r.UserID) == "" {
		return ErrIncompleteRequest
	}
	return nil
}

func zeroBudget(budget string) bool {
	budget = strings.TrimSpace(budget)
	if budget == "" {
		return true
	}
	n, err := strconv.ParseFloat(budget, 64)
	return err == nil && n == 0
}

type Recommendation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Budget    string    `json:"budget"`
	UseCase   string    `json:"use"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"timestamp"`
}
