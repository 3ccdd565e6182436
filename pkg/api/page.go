package api

import (
	"embed"
	"html/template"

	"github.com/zeroprint/waitlist/pkg/form"
	"github.com/zeroprint/waitlist/pkg/models"
)

const (
	pageTemplate = "waitlist.html"
	pageHeading  = "Ready to Take Real Climate Action?"
	pageIntro    = "Join ZeroPrint's waitlist and be part of verified carbon removal."

	invalidFormHint = "Please fill in all required fields with valid values."
)

//go:embed templates/*.html
var templatesFS embed.FS

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templatesFS, "templates/*.html")
}

type interestOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Heading         string
	Intro           string
	Action          string
	Labels          map[string]string
	Placeholder     string
	Interests       []interestOption
	Request         models.RegistrationRequest
	SubmitLabel     string
	SubmittingLabel string
	Success         string
	Error           string
	Hint            string
}

func newPageData(state form.State, hint string) pageData {
	labels := make(map[string]string, len(models.Fields))
	for _, f := range models.Fields {
		labels[string(f)] = f.Label()
	}

	options := make([]interestOption, 0, len(models.Interests))
	for _, i := range models.Interests {
		options = append(options, interestOption{
			Value:    string(i),
			Label:    i.Label(),
			Selected: state.Request.Interest == string(i),
		})
	}

	return pageData{
		Heading:         pageHeading,
		Intro:           pageIntro,
		Action:          waitlistPath,
		Labels:          labels,
		Placeholder:     models.InterestPlaceholder,
		Interests:       options,
		Request:         state.Request,
		SubmitLabel:     state.SubmitLabel(),
		SubmittingLabel: form.SubmittingLabel,
		Success:         state.Result.SuccessMessage(),
		Error:           state.Result.ErrorMessage(),
		Hint:            hint,
	}
}
