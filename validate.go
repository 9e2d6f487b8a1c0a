package gridedit

import (
	"fmt"
	"strings"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // dataset cannot be loaded
	SeverityWarning                 // dataset loads but may behave unexpectedly
)

// ValidationIssue represents a single problem found in a dataset.
type ValidationIssue struct {
	Severity Severity
	Subject  string // "column x" or "row y"
	Message  string
}

// String formats the issue as "[ERROR] column x: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Subject, v.Message)
}

// ValidateDataset checks column metadata and row identities.
func ValidateDataset(ds *Dataset) []ValidationIssue {
	var issues []ValidationIssue
	issues = append(issues, validateColumns(ds.Columns)...)
	issues = append(issues, validateRows(ds.Rows)...)
	return issues
}

func validateColumns(cols []Column) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Subject:  fmt.Sprintf("column #%d", i+1),
				Message:  "column name is empty",
			})
			continue
		}
		subject := "column " + c.Name
		if seen[c.Name] {
			issues = append(issues, ValidationIssue{Severity: SeverityError, Subject: subject, Message: "duplicate column name"})
		}
		seen[c.Name] = true
		if c.TypeHint != "" && c.Type == TypeUnknown && !IsKnownHint(c.TypeHint) {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Subject:  subject,
				Message:  fmt.Sprintf("unknown type hint %q, values pass through unconverted", c.TypeHint),
			})
		}
	}
	for _, c := range cols {
		if c.ShadowOf != "" && !seen[c.ShadowOf] {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Subject:  "column " + c.Name,
				Message:  fmt.Sprintf("shadows missing reference column %q", c.ShadowOf),
			})
		}
	}
	return issues
}

func validateRows(rows []Row) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]bool, len(rows))
	for i, r := range rows {
		if r.ID == "" {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Subject:  fmt.Sprintf("row #%d", i+1),
				Message:  "row id is empty",
			})
			continue
		}
		if seen[r.ID] {
			issues = append(issues, ValidationIssue{Severity: SeverityError, Subject: "row " + r.ID, Message: "duplicate row id"})
		}
		seen[r.ID] = true
	}
	return issues
}

func firstError(issues []ValidationIssue) (ValidationIssue, bool) {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return is, true
		}
	}
	return ValidationIssue{}, false
}
