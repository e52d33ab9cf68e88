package projections

import (
	"context"
	"testing"

	"academy/internal/adapters/backend"
	"academy/internal/domain/attendance"
	"academy/internal/domain/certificate"
	"academy/internal/domain/child"
	"academy/internal/domain/group"
)

type mockAttendanceTableGateway struct {
	data  backend.AttendanceTableData
	certs []certificate.Certificate
}

func (m *mockAttendanceTableGateway) AttendanceTable(_ context.Context, _, _ string) (backend.AttendanceTableData, error) {
	return m.data, nil
}

func (m *mockAttendanceTableGateway) MedicalCertificates(_ context.Context, _ string) ([]certificate.Certificate, error) {
	return m.certs, nil
}

func monthTableFixture() *mockAttendanceTableGateway {
	return &mockAttendanceTableGateway{
		data: backend.AttendanceTableData{
			Children: []child.Child{
				{ID: 1, FullName: "Иванов Петр", GroupName: "Младшая группа №2", KindergartenNumber: "5"},
				{ID: 2, FullName: "Петрова Анна", GroupName: "Старшая группа", KindergartenNumber: "5"},
				{ID: 3, FullName: "Сидоров Олег", GroupName: "Группа А", KindergartenNumber: "7"},
			},
			// Unsorted with a duplicate; the projection must produce a
			// distinct ascending column set.
			Dates: []string{"2025-03-12", "2025-03-05", "2025-03-12", "2025-03-19"},
			Records: []attendance.Record{
				{ID: 1, ChildID: 1, Date: "2025-03-05", Attended: true},
				{ID: 2, ChildID: 1, Date: "2025-03-12", Attended: false, Reason: "болел, есть справка"},
				{ID: 3, ChildID: 2, Date: "2025-03-05", Attended: true},
				{ID: 4, ChildID: 2, Date: "2025-03-12", Attended: true},
				{ID: 5, ChildID: 3, Date: "2025-03-12", Attended: false, Reason: "семейные обстоятельства"},
			},
		},
		certs: []certificate.Certificate{
			{ID: 10, ChildID: 1, DateFrom: "2025-03-10", DateTo: "2025-03-14", Status: certificate.StatusApproved},
			{ID: 11, ChildID: 3, DateFrom: "2025-03-10", DateTo: "2025-03-14", Status: certificate.StatusPending},
		},
	}
}

func queryTable(t *testing.T, gw *mockAttendanceTableGateway) AttendanceTableResult {
	t.Helper()
	result, err := QueryAttendanceTable(context.Background(),
		GetAttendanceTableQuery{Token: "tok", Month: "2025-03"},
		GetAttendanceTableDeps{Gateway: gw})
	if err != nil {
		t.Fatalf("QueryAttendanceTable: %v", err)
	}
	return result
}

func TestQueryAttendanceTable_DatesDistinctAscending(t *testing.T) {
	result := queryTable(t, monthTableFixture())

	want := []string{"2025-03-05", "2025-03-12", "2025-03-19"}
	if len(result.Dates) != len(want) {
		t.Fatalf("dates = %v, want %v", result.Dates, want)
	}
	for i := range want {
		if result.Dates[i] != want[i] {
			t.Errorf("dates[%d] = %q, want %q", i, result.Dates[i], want[i])
		}
	}
}

func TestQueryAttendanceTable_Symbols(t *testing.T) {
	result := queryTable(t, monthTableFixture())

	row := result.Rows[0] // Иванов
	if got := row.Symbols["2025-03-05"]; got != attendance.SymbolAttended {
		t.Errorf("attended cell = %q, want %q", got, attendance.SymbolAttended)
	}
	if got := row.Symbols["2025-03-12"]; got != attendance.SymbolCertificate {
		t.Errorf("certificate-reason cell = %q, want %q", got, attendance.SymbolCertificate)
	}
	// No record for this date: empty cell, never an error.
	if got := row.Symbols["2025-03-19"]; got != attendance.SymbolNone {
		t.Errorf("missing-record cell = %q, want empty", got)
	}
	// Absence with a non-certificate reason stays empty.
	if got := result.Rows[2].Symbols["2025-03-12"]; got != attendance.SymbolNone {
		t.Errorf("plain absence cell = %q, want empty", got)
	}
}

func TestQueryAttendanceTable_TotalsMatchRowCounts(t *testing.T) {
	result := queryTable(t, monthTableFixture())

	var totalsSum, attendedSum int
	for _, n := range result.Totals {
		totalsSum += n
	}
	for _, row := range result.Rows {
		attendedSum += row.AttendedCount
	}
	if totalsSum != attendedSum {
		t.Errorf("totals row sums to %d, per-child attended counts sum to %d", totalsSum, attendedSum)
	}
	if totalsSum != 3 {
		t.Errorf("totalsSum = %d, want 3", totalsSum)
	}
}

func TestQueryAttendanceTable_ConfirmedAbsences(t *testing.T) {
	result := queryTable(t, monthTableFixture())

	// Child 1 missed 2025-03-12 inside an approved certificate range.
	if got := result.Rows[0].ConfirmedAbsenceCount; got != 1 {
		t.Errorf("child 1 confirmed absences = %d, want 1", got)
	}
	// Child 3's certificate is still pending, so the miss is unconfirmed.
	if got := result.Rows[2].ConfirmedAbsenceCount; got != 0 {
		t.Errorf("child 3 confirmed absences = %d, want 0 (certificate not approved)", got)
	}
	if got := result.Rows[2].MissedCount; got != 1 {
		t.Errorf("child 3 missed = %d, want 1", got)
	}
}

func TestQueryAttendanceTable_AgeBuckets(t *testing.T) {
	result := queryTable(t, monthTableFixture())

	if len(result.Buckets) != 2 {
		t.Fatalf("buckets = %+v, want 2", result.Buckets)
	}
	junior := result.Buckets[0]
	if junior.KindergartenNumber != "5" || junior.Level != group.AgeJunior || junior.ChildCount != 1 {
		t.Errorf("junior bucket = %+v, want kindergarten 5, junior, 1 child", junior)
	}
	senior := result.Buckets[1]
	if senior.Level != group.AgeSenior || senior.ChildCount != 1 {
		t.Errorf("senior bucket = %+v, want senior with 1 child", senior)
	}

	// "Группа А" matches no marker: excluded from buckets, surfaced by name.
	if len(result.UnmatchedGroups) != 1 || result.UnmatchedGroups[0] != "Группа А" {
		t.Errorf("unmatched groups = %v, want [Группа А]", result.UnmatchedGroups)
	}
}
