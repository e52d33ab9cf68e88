package projections

import (
	"context"
	"sort"

	"academy/internal/adapters/backend"
	"academy/internal/domain/attendance"
	"academy/internal/domain/certificate"
	"academy/internal/domain/child"
	"academy/internal/domain/group"
)

// AttendanceTableGateway defines the backend calls needed by the
// month-table projection.
type AttendanceTableGateway interface {
	AttendanceTable(ctx context.Context, token, month string) (backend.AttendanceTableData, error)
	MedicalCertificates(ctx context.Context, token string) ([]certificate.Certificate, error)
}

// GetAttendanceTableQuery carries input for the month-table projection.
type GetAttendanceTableQuery struct {
	Token string
	Month string // YYYY-MM
}

// GetAttendanceTableDeps holds dependencies for the month-table projection.
type GetAttendanceTableDeps struct {
	Gateway AttendanceTableGateway
}

// ChildAttendanceRow is one child's row in the month table.
type ChildAttendanceRow struct {
	Child                 child.Child
	Symbols               map[string]string // date → "+", "С" or ""
	AttendedCount         int
	MissedCount           int
	ConfirmedAbsenceCount int // missed with an approved certificate covering the date
}

// AgeGroupBucket counts children per kindergarten and age level.
type AgeGroupBucket struct {
	KindergartenNumber string
	Level              group.AgeLevel
	ChildCount         int
}

// AttendanceTableResult carries the output of the month-table projection.
type AttendanceTableResult struct {
	Month  string
	Dates  []string // distinct training dates, ascending
	Rows   []ChildAttendanceRow
	Totals []int // attended per date, aligned with Dates

	Buckets []AgeGroupBucket
	// UnmatchedGroups lists group names with no recognized age marker.
	// Their children appear in rows but in no age bucket.
	UnmatchedGroups []string
}

// QueryAttendanceTable builds the admin month table: one row per
// child, one column per distinct training date, a totals row, and
// children bucketed by kindergarten and age level.
// POST: every cell symbol is "+", "С" or ""; dates are ascending
func QueryAttendanceTable(ctx context.Context, query GetAttendanceTableQuery, deps GetAttendanceTableDeps) (AttendanceTableResult, error) {
	data, err := deps.Gateway.AttendanceTable(ctx, query.Token, query.Month)
	if err != nil {
		return AttendanceTableResult{}, err
	}
	certs, err := deps.Gateway.MedicalCertificates(ctx, query.Token)
	if err != nil {
		return AttendanceTableResult{}, err
	}

	result := AttendanceTableResult{Month: query.Month}
	result.Dates = distinctSorted(data.Dates)

	// Index records by child, then certificates by child for coverage
	// lookups.
	recordsByChild := make(map[int64]map[string]attendance.Record)
	for _, r := range data.Records {
		if recordsByChild[r.ChildID] == nil {
			recordsByChild[r.ChildID] = make(map[string]attendance.Record)
		}
		recordsByChild[r.ChildID][r.Date] = r
	}
	approvedByChild := make(map[int64][]certificate.Certificate)
	for _, c := range certs {
		if c.IsApproved() {
			approvedByChild[c.ChildID] = append(approvedByChild[c.ChildID], c)
		}
	}

	totals := make([]int, len(result.Dates))
	for _, ch := range data.Children {
		row := ChildAttendanceRow{
			Child:   ch,
			Symbols: make(map[string]string, len(result.Dates)),
		}
		for i, date := range result.Dates {
			record, ok := recordsByChild[ch.ID][date]
			if !ok {
				row.Symbols[date] = attendance.SymbolNone
				continue
			}
			row.Symbols[date] = record.Symbol()
			if record.Attended {
				row.AttendedCount++
				totals[i]++
				continue
			}
			row.MissedCount++
			if coveredByApproved(approvedByChild[ch.ID], date) {
				row.ConfirmedAbsenceCount++
			}
		}
		result.Rows = append(result.Rows, row)
	}
	result.Totals = totals

	result.Buckets, result.UnmatchedGroups = bucketByAgeLevel(data.Children)
	return result, nil
}

func coveredByApproved(certs []certificate.Certificate, date string) bool {
	for _, c := range certs {
		if c.Covers(date) {
			return true
		}
	}
	return false
}

// bucketByAgeLevel groups children by kindergarten number and the age
// level encoded in their group name. Children in groups with no
// recognized marker go to no bucket; their group names are reported.
func bucketByAgeLevel(children []child.Child) ([]AgeGroupBucket, []string) {
	type key struct {
		kindergarten string
		level        group.AgeLevel
	}
	counts := make(map[key]int)
	unmatchedSet := make(map[string]bool)
	for _, ch := range children {
		level := group.MatchAgeLevel(ch.GroupName)
		if level == group.AgeUnknown {
			if ch.GroupName != "" {
				unmatchedSet[ch.GroupName] = true
			}
			continue
		}
		counts[key{ch.KindergartenNumber, level}]++
	}

	levelOrder := map[group.AgeLevel]int{group.AgeJunior: 0, group.AgeMiddle: 1, group.AgeSenior: 2}
	buckets := make([]AgeGroupBucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, AgeGroupBucket{
			KindergartenNumber: k.kindergarten,
			Level:              k.level,
			ChildCount:         n,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].KindergartenNumber != buckets[j].KindergartenNumber {
			return buckets[i].KindergartenNumber < buckets[j].KindergartenNumber
		}
		return levelOrder[buckets[i].Level] < levelOrder[buckets[j].Level]
	})

	unmatched := make([]string, 0, len(unmatchedSet))
	for name := range unmatchedSet {
		unmatched = append(unmatched, name)
	}
	sort.Strings(unmatched)
	return buckets, unmatched
}

// distinctSorted deduplicates and sorts ISO dates ascending.
func distinctSorted(dates []string) []string {
	seen := make(map[string]bool, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
