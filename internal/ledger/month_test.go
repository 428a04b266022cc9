package ledger

import "testing"

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		year    int
		month   int
		wantErr bool
	}{
		{name: "valid", input: "2025-04", year: 2025, month: 4},
		{name: "december", input: "2024-12", year: 2024, month: 12},
		{name: "january", input: "2024-01", year: 2024, month: 1},
		{name: "month zero", input: "2024-00", wantErr: true},
		{name: "month thirteen", input: "2024-13", wantErr: true},
		{name: "no dash", input: "202404", wantErr: true},
		{name: "too short", input: "2024-4", wantErr: true},
		{name: "too long", input: "2024-04-01", wantErr: true},
		{name: "letters", input: "abcd-ef", wantErr: true},
		{name: "trailing letter", input: "2025-1x", wantErr: true},
		{name: "embedded space", input: "2025- 1", wantErr: true},
		{name: "leading space", input: " 025-01", wantErr: true},
		{name: "plus sign", input: "2025-+1", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, err := ParseMonth(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMonth(%q) expected error, got %d-%d", tt.input, year, month)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonth(%q) unexpected error: %v", tt.input, err)
			}
			if year != tt.year || month != tt.month {
				t.Errorf("ParseMonth(%q) = %d, %d, want %d, %d", tt.input, year, month, tt.year, tt.month)
			}
		})
	}
}

func TestPrevMonth(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-04", "2025-03"},
		{"2025-01", "2024-12"},
		{"2025-12", "2025-11"},
		{"2000-01", "1999-12"},
	}

	for _, tt := range tests {
		got, err := PrevMonth(tt.input)
		if err != nil {
			t.Fatalf("PrevMonth(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("PrevMonth(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := PrevMonth("garbage"); err == nil {
		t.Error("PrevMonth with invalid input should return an error")
	}
}
