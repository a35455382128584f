package form

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is the transient message shown to the applicant after an action.
type Notice struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

func errorNotice(title, description string) *Notice {
	return &Notice{Title: title, Description: description, Severity: SeverityError}
}
