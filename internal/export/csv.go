// Package export writes harvested colleges as CSV and ships the file to its
// destinations.
package export

import (
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/amishk599/nepcollege/internal/model"
)

var header = []string{"Name", "Email 1", "Email 2"}

// WriteCSV writes colleges with the header Name,Email 1,Email 2. Every field
// is double-quoted with embedded quotes doubled, and rows end in "\n".
func WriteCSV(w io.Writer, colleges []model.College) error {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, c := range colleges {
		b.WriteByte('\n')
		b.WriteString(Row(c))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Row renders one college as a CSV line without the trailing newline.
func Row(c model.College) string {
	fields := []string{c.Name, emailAt(c.Emails, 0), emailAt(c.Emails, 1)}
	for i, f := range fields {
		fields[i] = quote(f)
	}
	return strings.Join(fields, ",")
}

func emailAt(emails []string, i int) string {
	if i < len(emails) {
		return emails[i]
	}
	return ""
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName derives the export file name from the search criteria.
func FileName(c model.SearchCriteria) string {
	name := "nepal-colleges-" + slugSpaces(c.Province) + "-" + slugSpaces(c.University)
	if f := strings.TrimSpace(c.Faculty); f != "" {
		name += "-" + slugPunct(f)
	}
	return name + ".csv"
}

// slugSpaces lower-cases s and turns whitespace runs into a single '-'.
// Path separators and other characters not allowed in file names also
// become '-', so the result is always a single path element.
func slugSpaces(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '-'
		}
		return r
	}, s))
}

// slugPunct lower-cases s and turns every non-alphanumeric rune into '-'.
func slugPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return '-'
	}, s)
}
