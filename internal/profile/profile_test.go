package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseGrades(t *testing.T) {
	tests := []struct {
		input   string
		want    []Grade
		wantErr bool
	}{
		{"A,B,C", []Grade{GradeA, GradeB, GradeC}, false},
		{"a, b ,s", []Grade{GradeA, GradeB, GradeS}, false},
		{"A,B,-", []Grade{GradeA, GradeB, GradeNone}, false},
		{"A,,F", []Grade{GradeA, GradeNone, GradeF}, false},
		{"", nil, false},
		{"A,X,B", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseGrades(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGrades(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseGrades(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseGrades(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestMissingGrades(t *testing.T) {
	tests := []struct {
		name   string
		grades []Grade
		want   []int
		isFull bool
	}{
		{"complete", []Grade{GradeA, GradeA, GradeB}, nil, true},
		{"last missing", []Grade{GradeA, GradeB, GradeNone}, []int{3}, false},
		{"short list", []Grade{GradeA}, []int{2, 3}, false},
		{"invalid letter", []Grade{GradeA, Grade("Z"), GradeB}, []int{2}, false},
		{"none", nil, []int{1, 2, 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile{Grades: tt.grades}
			got := p.MissingGrades(3)
			if len(got) != len(tt.want) {
				t.Fatalf("MissingGrades() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("MissingGrades()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
			if p.GradesComplete(3) != tt.isFull {
				t.Errorf("GradesComplete() = %v, want %v", p.GradesComplete(3), tt.isFull)
			}
		})
	}
}

func TestWithGradeDoesNotMutate(t *testing.T) {
	p := Profile{Grades: []Grade{GradeC, GradeB, GradeB}}
	q := p.WithGrade(0, GradeA)

	if p.Grades[0] != GradeC {
		t.Errorf("original grade changed to %q", p.Grades[0])
	}
	if q.Grades[0] != GradeA {
		t.Errorf("WithGrade() grade = %q, want A", q.Grades[0])
	}
}

func TestLookupStream(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"physical", "physical", false},
		{"Physical Science", "physical", false},
		{"Bio Science", "bio", false},
		{"COMMERCE", "commerce", false},
		{"Technology", "tech", false},
		{"astrology", "", true},
	}

	for _, tt := range tests {
		s, err := LookupStream(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("LookupStream(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if s.ID != tt.want {
			t.Errorf("LookupStream(%q) = %q, want %q", tt.input, s.ID, tt.want)
		}
	}
}

func TestInterestField(t *testing.T) {
	tests := []struct {
		interest string
		expected string
	}{
		{"Technology", "IT"},
		{"health", "Medicine"},
		{"Law", "Law"},
		{"  Arts ", "Arts"},
	}

	for _, tt := range tests {
		if got := InterestField(tt.interest); got != tt.expected {
			t.Errorf("InterestField(%q) = %q, want %q", tt.interest, got, tt.expected)
		}
	}
}

func TestDecode(t *testing.T) {
	p, err := Decode([]byte(`{"grades":["A","A","B"],"stream":"physical","monthly_income":45000,"special_categories":{"rural":true}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(p.Grades) != 3 || p.Grades[2] != GradeB {
		t.Errorf("unexpected grades: %v", p.Grades)
	}
	if p.MonthlyIncome == nil || *p.MonthlyIncome != 45000 {
		t.Errorf("unexpected income: %v", p.MonthlyIncome)
	}
	if !p.Special.Rural {
		t.Error("expected rural flag")
	}

	if _, err := Decode([]byte(`{"grades":["A","Z",""]}`)); err == nil {
		t.Error("expected error for unknown grade")
	}
	if _, err := Decode([]byte(`{"grades":["A","",""]}`)); err != nil {
		t.Errorf("missing grades should decode: %v", err)
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(`{"academic_index":1.7,"district":"Galle"}`), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.AcademicIndex == nil || *p.AcademicIndex != 1.7 || p.District != "Galle" {
		t.Errorf("unexpected profile: %+v", p)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
