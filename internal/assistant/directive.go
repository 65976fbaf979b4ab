package assistant

import (
	"log"
	"regexp"
	"time"
)

// Directive is a structured command the assistant embedded in its reply.
// The only directive today is "create a reminder".
type Directive struct {
	Title      string
	DueAt      *time.Time
	AssignedTo *string
}

// directivePattern matches [REMINDER: title | due | person] with
// insignificant whitespace around the delimiters. This is a best-effort
// text protocol, not a strict grammar: anything that doesn't match the
// three-field bracket shape is plain prose and produces nothing.
var directivePattern = regexp.MustCompile(`\[REMINDER:\s*(.+?)\s*\|\s*(.+?)\s*\|\s*(.+?)\s*\]`)

// dueLayout is the timestamp format the system prompt instructs the
// model to use.
const dueLayout = "2006-01-02 15:04"

// ExtractDirectives scans an assistant reply for embedded reminder
// directives, in order of appearance. The literal "none" in the due or
// person field means the field is unset. A due value that is neither
// "none" nor a parseable timestamp keeps the directive but drops the
// date, so a garbled time never loses the reminder itself.
func ExtractDirectives(text string) []Directive {
	matches := directivePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	directives := make([]Directive, 0, len(matches))
	for _, match := range matches {
		d := Directive{Title: match[1]}

		if due := match[2]; due != "none" {
			parsed, err := time.ParseInLocation(dueLayout, due, time.Local)
			if err != nil {
				log.Printf("Ignoring unparseable reminder due %q: %v", due, err)
			} else {
				d.DueAt = &parsed
			}
		}

		if person := match[3]; person != "none" {
			d.AssignedTo = &person
		}

		directives = append(directives, d)
	}
	return directives
}
