package submission

import (
	"fmt"
	"net/url"
	"strings"
)

// Form field names shared by the page, the CLI and the plan creator endpoint.
const (
	FieldGoal                = "goal"
	FieldProjectType         = "project_type"
	FieldReferencePreference = "reference_preference"
	FieldTimeframe           = "timeframe"
	FieldTimeConstraint      = "time_constraint"
	FieldIsPublic            = "is_public"
	FieldModel               = "model"
)

// Request is the set of form values captured when the trigger is activated.
type Request struct {
	Goal                string `json:"goal"`
	ProjectType         string `json:"project_type"`
	ReferencePreference string `json:"reference_preference"`
	Timeframe           string `json:"timeframe"`
	TimeConstraint      string `json:"time_constraint"`
	IsPublic            bool   `json:"is_public,omitempty"`
	Model               string `json:"model,omitempty"`
}

// FormRequest extracts a Request from submitted form values.
func FormRequest(v url.Values) Request {
	return Request{
		Goal:                v.Get(FieldGoal),
		ProjectType:         v.Get(FieldProjectType),
		ReferencePreference: v.Get(FieldReferencePreference),
		Timeframe:           v.Get(FieldTimeframe),
		TimeConstraint:      v.Get(FieldTimeConstraint),
		IsPublic:            v.Get(FieldIsPublic) == "on",
		Model:               strings.TrimSpace(v.Get(FieldModel)),
	}
}

type field struct {
	name  string
	value string
}

// fields returns the always-sent fields in form order.
func (r Request) fields() []field {
	return []field{
		{FieldGoal, r.Goal},
		{FieldProjectType, r.ProjectType},
		{FieldReferencePreference, r.ReferencePreference},
		{FieldTimeframe, r.Timeframe},
		{FieldTimeConstraint, r.TimeConstraint},
	}
}

// ValidationMode selects which fields must be non-empty before a request is sent.
type ValidationMode string

const (
	// ValidateGoal requires only the goal.
	ValidateGoal ValidationMode = "goal"
	// ValidateAll requires the goal and every dropdown selection.
	ValidateAll ValidationMode = "all"
)

func ParseValidationMode(s string) (ValidationMode, error) {
	switch ValidationMode(strings.ToLower(strings.TrimSpace(s))) {
	case ValidateGoal:
		return ValidateGoal, nil
	case ValidateAll, "":
		return ValidateAll, nil
	}
	return "", fmt.Errorf("unknown validation mode %q", s)
}

// Validate performs the presence checks for the given mode. Optional fields
// (is_public, model) are never required.
func Validate(r Request, mode ValidationMode) error {
	var missing []string
	for _, f := range r.fields() {
		if mode == ValidateGoal && f.name != FieldGoal {
			continue
		}
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
