package attendance

import "testing"

// TestSymbol_CoversAllStates verifies the cell symbol for every record shape.
func TestSymbol_CoversAllStates(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want string
	}{
		{"attended", Record{ChildID: 1, Date: "2025-03-10", Attended: true}, SymbolAttended},
		{"absent with certificate reason", Record{ChildID: 1, Date: "2025-03-11", Reason: "болел, есть справка"}, SymbolCertificate},
		{"absent with uppercase reason", Record{ChildID: 1, Date: "2025-03-12", Reason: "СПРАВКА от врача"}, SymbolCertificate},
		{"absent without qualifying reason", Record{ChildID: 1, Date: "2025-03-13", Reason: "семейные обстоятельства"}, SymbolNone},
		{"absent with no reason", Record{ChildID: 1, Date: "2025-03-14"}, SymbolNone},
	}
	for _, tc := range cases {
		if got := tc.rec.Symbol(); got != tc.want {
			t.Fatalf("%s: Symbol()=%q want %q", tc.name, got, tc.want)
		}
	}
}

// TestValidate_RequiresChildAndDate verifies the required fields.
func TestValidate_RequiresChildAndDate(t *testing.T) {
	r := Record{Date: "2025-03-10"}
	if err := r.Validate(); err != ErrNoChild {
		t.Fatalf("err=%v want ErrNoChild", err)
	}
	r = Record{ChildID: 7}
	if err := r.Validate(); err != ErrNoDate {
		t.Fatalf("err=%v want ErrNoDate", err)
	}
	r = Record{ChildID: 7, Date: "2025-03-10", Attended: true}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
