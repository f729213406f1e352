package export

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/amishk599/nepcollege/internal/model"
)

func TestWriteCSV_QuotesEveryField(t *testing.T) {
	var b strings.Builder
	err := WriteCSV(&b, []model.College{
		{Name: `A "One"`, Emails: []string{"x@y.com"}},
		{Name: "B, Two", Emails: []string{"b1@y.com", "b2@y.com"}},
		{Name: "C"},
	})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "Name,Email 1,Email 2\n" +
		`"A ""One""","x@y.com",""` + "\n" +
		`"B, Two","b1@y.com","b2@y.com"` + "\n" +
		`"C","",""`
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestWriteCSV_EmptyIsHeaderOnly(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if b.String() != "Name,Email 1,Email 2" {
		t.Errorf("got %q", b.String())
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		in   model.SearchCriteria
		want string
	}{
		{
			model.SearchCriteria{Province: "Bagmati", University: "Tribhuvan University"},
			"nepal-colleges-bagmati-tribhuvan-university.csv",
		},
		{
			model.SearchCriteria{Province: "Sudurpashchim", University: "Far  Western University", Faculty: "Humanities & Social Sciences"},
			"nepal-colleges-sudurpashchim-far-western-university-humanities---social-sciences.csv",
		},
		{
			model.SearchCriteria{Province: "Koshi", University: "Purbanchal University", Faculty: "  "},
			"nepal-colleges-koshi-purbanchal-university.csv",
		},
		{
			model.SearchCriteria{Province: "Koshi", University: "Pokhara/Gandaki University"},
			"nepal-colleges-koshi-pokhara-gandaki-university.csv",
		},
		{
			model.SearchCriteria{Province: `..\Gandaki`, University: "A:B*C?"},
			"nepal-colleges-..-gandaki-a-b-c-.csv",
		},
	}
	for _, tt := range tests {
		got := FileName(tt.in)
		if got != tt.want {
			t.Errorf("FileName(%+v) = %q, want %q", tt.in, got, tt.want)
		}
		if filepath.Base(got) != got {
			t.Errorf("FileName(%+v) = %q, not a single path element", tt.in, got)
		}
	}
}
