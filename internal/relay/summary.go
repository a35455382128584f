// internal/relay/summary.go
package relay

import (
	"fmt"
	"strings"

	"loan-intake/internal/models"
	"loan-intake/pkg/registry"
)

const summaryHeader = "NEW LOAN APPLICATION"

type summaryLine struct {
	label string
	field models.Field
}

var summaryBlocks = [][]summaryLine{
	{
		{"Full Name", models.FieldFullName},
		{"Mobile", models.FieldMobile},
		{"Email", models.FieldEmail},
		{"City", models.FieldCity},
		{"State", models.FieldState},
	},
	{
		{"Business Name", models.FieldBusinessName},
		{"Business Type", models.FieldBusinessType},
		{"Business Vintage", models.FieldBusinessVintage},
		{"Annual Turnover", models.FieldAnnualTurnover},
	},
	{
		{"Loan Type", models.FieldLoanType},
		{"Loan Amount", models.FieldLoanAmount},
		{"Loan Purpose", models.FieldLoanPurpose},
	},
}

// BuildSummary returns the trimmed free-text message when one was supplied,
// otherwise the fixed plain-text template.
func BuildSummary(app *models.Application, attachments []Attachment, docs *registry.DocumentRegistry) string {
	if msg := strings.TrimSpace(app.Message); msg != "" {
		return msg
	}
	if docs == nil {
		docs = registry.DefaultRegistry()
	}

	var b strings.Builder
	b.WriteString(summaryHeader + "\n")
	b.WriteString(strings.Repeat("-", len(summaryHeader)) + "\n")

	for i, block := range summaryBlocks {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, line := range block {
			fmt.Fprintf(&b, "%s: %s\n", line.label, app.Get(line.field))
		}
	}

	b.WriteString("\nDocuments Attached:\n")
	if len(attachments) == 0 {
		b.WriteString("- none\n")
	}
	for _, a := range attachments {
		fmt.Fprintf(&b, "- %s (%s)\n", docs.Label(a.Kind), a.Filename)
	}

	return strings.TrimSpace(b.String())
}

// BuildSubject renders "<prefix> - <name> (<mobile>)" with placeholders for blanks.
func BuildSubject(prefix string, app *models.Application) string {
	name := strings.TrimSpace(app.FullName)
	if name == "" {
		name = "Unknown"
	}
	mobile := strings.TrimSpace(app.Mobile)
	if mobile == "" {
		mobile = "No Mobile"
	}
	return fmt.Sprintf("%s - %s (%s)", prefix, name, mobile)
}
