package group

import (
	"errors"
	"strings"
)

// AgeLevel is the age cohort of a group, derived from the group name.
type AgeLevel string

const (
	AgeJunior  AgeLevel = "junior"
	AgeMiddle  AgeLevel = "middle"
	AgeSenior  AgeLevel = "senior"
	AgeUnknown AgeLevel = ""
)

// Substrings the backend uses in group names to encode the age level.
// Matching is case-insensitive. A name matching none of the three is
// excluded from age-level buckets, not defaulted.
const (
	juniorMarker = "младш"
	middleMarker = "средн"
	seniorMarker = "старш"
)

// Domain errors
var (
	ErrEmptyName = errors.New("group name cannot be empty")
)

// Group is a cohort of children at one kindergarten with one trainer.
// Immutable from the front-end's perspective.
type Group struct {
	ID                 int64
	Name               string
	KindergartenNumber string
	TrainerID          int64
	TrainerName        string
	ChildrenCount      int
}

// Validate checks if the Group has valid data.
// PRE: Group struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// AgeLevelOf returns the age level encoded in the group name.
// POST: Returns AgeUnknown when no marker substring matches
func (g *Group) AgeLevelOf() AgeLevel {
	return MatchAgeLevel(g.Name)
}

// MatchAgeLevel maps a free-text group name to an age level by
// case-insensitive substring match.
// POST: Returns AgeUnknown for names with no recognized marker
func MatchAgeLevel(name string) AgeLevel {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, juniorMarker):
		return AgeJunior
	case strings.Contains(lower, middleMarker):
		return AgeMiddle
	case strings.Contains(lower, seniorMarker):
		return AgeSenior
	}
	return AgeUnknown
}

// Label returns the Russian display label for an age level.
func (l AgeLevel) Label() string {
	switch l {
	case AgeJunior:
		return "младшая"
	case AgeMiddle:
		return "средняя"
	case AgeSenior:
		return "старшая"
	}
	return ""
}
