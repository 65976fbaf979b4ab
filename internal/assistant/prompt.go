package assistant

import (
	"fmt"
	"strings"

	"familyhub/internal/models"
)

const promptPreamble = `You are Marvin, a helpful family assistant with a warm personality and subtle wit. You know this family well.`

const promptGuidelines = `Guidelines:
- Be helpful, warm, and concise. Families are busy.
- Reference family members by name when relevant.
- If asked to set a reminder, include it in this exact format at the end of your response:
  [REMINDER: title | YYYY-MM-DD HH:MM | person_name]
- If asked about meals, consider any dietary notes in the family context.
- Keep responses short unless asked for detail.`

// BuildSystemPrompt assembles the assistant's system instruction from the
// family's current state. It is a pure function of its inputs: callers pass
// members, notes and reminders in repository order and identical inputs
// produce byte-identical output. Empty sections render a placeholder so the
// prompt keeps the same shape on every turn.
//
// The reminder format line in the guidelines is the contract parsed by
// ExtractDirectives; the two must change together.
func BuildSystemPrompt(familyName string, members []models.Member, notes []models.ContextNote, reminders []models.Reminder) string {
	var b strings.Builder

	b.WriteString(promptPreamble)
	b.WriteString("\n\nFamily: ")
	b.WriteString(familyName)

	b.WriteString("\n\nFamily Members:\n")
	if len(members) == 0 {
		b.WriteString("(none yet)")
	} else {
		for i, m := range members {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(memberLine(m))
		}
	}

	b.WriteString("\n\nFamily Notes:\n")
	if len(notes) == 0 {
		b.WriteString("(none yet)")
	} else {
		for i, n := range notes {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- %s: %s", n.Key, n.Content)
		}
	}

	b.WriteString("\n\nActive Reminders:\n")
	if len(reminders) == 0 {
		b.WriteString("(none)")
	} else {
		for i, r := range reminders {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(reminderLine(r))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(promptGuidelines)

	return b.String()
}

// memberLine renders "- name (role), age N. school-or-work. notes."
// with empty fields collapsed.
func memberLine(m models.Member) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s (%s)", m.Name, m.Role)
	if m.Age != nil {
		fmt.Fprintf(&b, ", age %d", *m.Age)
	}
	b.WriteString(".")

	occupation := ""
	if m.School != nil && *m.School != "" {
		occupation = *m.School
	} else if m.Work != nil && *m.Work != "" {
		occupation = *m.Work
	}
	if occupation != "" {
		fmt.Fprintf(&b, " %s.", occupation)
	}
	if m.Notes != nil && *m.Notes != "" {
		fmt.Fprintf(&b, " %s.", *m.Notes)
	}
	return b.String()
}

// reminderLine renders "- title (due: <due or no date>, for: <name or anyone>)"
func reminderLine(r models.Reminder) string {
	due := "no date"
	if r.DueAt != nil {
		due = r.DueAt.Format("2006-01-02 15:04")
	}
	assignee := "anyone"
	if r.AssignedTo != nil && *r.AssignedTo != "" {
		assignee = *r.AssignedTo
	}
	return fmt.Sprintf("- %s (due: %s, for: %s)", r.Title, due, assignee)
}
