package tender

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Field names recognized at the top level of an analysis payload. The
// backend has emitted two shapes over time: the current one nests dates
// and eligibility under open sub-objects, the legacy one used the flat
// fields below. The two are reconciled by precedence, never merged.
const (
	FieldExecutiveSummary = "Executive_Summary"
	fieldImportantDates   = "Important_Dates"
	fieldEligibility      = "Eligibility"
	fieldRequiredDocs     = "Required_Documents"
)

type fieldRow struct {
	Label string
	Field string
}

var (
	basicInfoFields = []fieldRow{
		{"Tender Reference", "Tender_Reference"},
		{"Issuing Authority", "Issuing_Authority"},
		{"Project Name", "Project_Name"},
		{"Location", "Location"},
	}
	projectDetailFields = []fieldRow{
		{"Scope of Work", "Scope_of_Work"},
		{"Contract Period", "Contract_Period"},
		{"Technical Specifications", "Technical_Specifications"},
	}
	financialFields = []fieldRow{
		{"Estimated Value", "Estimated_Value"},
		{"EMD Amount", "EMD_Amount"},
		{"Tender Fee", "Tender_Fee"},
		{"Payment Terms", "Payment_Terms"},
	}
	legacyDateFields = []fieldRow{
		{"Bid Submission Deadline", "Bid_Submission_Deadline"},
		{"Bid Opening Date", "Bid_Opening_Date"},
		{"Pre-Bid Meeting", "Pre_Bid_Meeting_Date"},
	}
	eligibilitySubFields = []fieldRow{
		{"Min Turnover", "Min_Turnover"},
		{"Experience Required", "Experience_Required"},
		{"Other Criteria", "Other_Eligibility_Criteria"},
	}
	legacyEligibilityFields = []fieldRow{
		{"Min Turnover", "Min_Turnover"},
		{"Experience Required", "Experience_Required"},
	}
	submissionFields = []fieldRow{
		{"Submission Method", "Submission_Method"},
		{"Contact Details", "Contact_Details"},
	}
)

// placeholderTokens are values the backend emits when a field carries
// no real information. Matching is substring-based, so a legitimate
// value that merely contains a token (e.g. "None of the above") is
// hidden too. That looseness matches what the payloads were tuned
// against and is kept on purpose.
var placeholderTokens = []string{"not specified", "n/a", "null", "undefined", "none"}

// ShouldShow reports whether a row value carries real information and
// should be displayed.
func ShouldShow(value string) bool {
	s := strings.ToLower(strings.TrimSpace(norm.NFKC.String(value)))
	if s == "" {
		return false
	}
	for _, tok := range placeholderTokens {
		if strings.Contains(s, tok) {
			return false
		}
	}
	return true
}

// Normalize maps a raw analysis payload onto the six fixed display
// sections. It is pure and deterministic: it never touches session
// state, and identical input yields an identical section list,
// including the identity of sections left empty by filtering.
func Normalize(r *Result) []Section {
	return []Section{
		{Title: "Basic Information", Rows: fixedRows(r, basicInfoFields)},
		{Title: "Project Details", Rows: fixedRows(r, projectDetailFields)},
		{Title: "Key Financials", Rows: fixedRows(r, financialFields)},
		{Title: "Important Dates", Rows: dateRows(r)},
		{Title: "Eligibility Criteria", Rows: eligibilityRows(r)},
		{Title: "Submission Information", Rows: fixedRows(r, submissionFields)},
	}
}

func fixedRows(r *Result, fields []fieldRow) []Row {
	var rows []Row
	for _, f := range fields {
		if v := r.Field(f.Field); ShouldShow(v) {
			rows = append(rows, Row{Label: f.Label, Value: v})
		}
	}
	return rows
}

// dateRows prefers the current-era dated-events mapping, in payload
// order with the entry key as label. The legacy flat fields are used
// only when that mapping is absent or empty; presence decides, not the
// placeholder filter.
func dateRows(r *Result) []Row {
	entries := r.Entries(fieldImportantDates)
	if len(entries) == 0 {
		return fixedRows(r, legacyDateFields)
	}
	var rows []Row
	for _, e := range entries {
		if ShouldShow(e.Value) {
			rows = append(rows, e)
		}
	}
	return rows
}

// eligibilityRows applies the same precedence to the eligibility
// sub-object: its three recognized sub-fields win over the legacy flat
// fields, and the required-documents field is appended regardless of
// which era supplied the criteria.
func eligibilityRows(r *Result) []Row {
	var rows []Row
	elig := nestedFields(r, fieldEligibility)
	for _, f := range eligibilitySubFields {
		if v := elig[f.Field]; v != "" {
			rows = append(rows, Row{Label: f.Label, Value: v})
		}
	}
	if len(rows) == 0 {
		for _, f := range legacyEligibilityFields {
			if v := r.Field(f.Field); v != "" {
				rows = append(rows, Row{Label: f.Label, Value: v})
			}
		}
	}
	if docs, ok := docsValue(r); ok {
		rows = append(rows, Row{Label: "Required Documents", Value: docs})
	}
	var out []Row
	for _, row := range rows {
		if ShouldShow(row.Value) {
			out = append(out, row)
		}
	}
	return out
}

func nestedFields(r *Result, name string) map[string]string {
	out := make(map[string]string)
	for _, e := range r.Entries(name) {
		out[e.Label] = e.Value
	}
	return out
}

// docsValue renders Required_Documents as a comma-joined string when
// the backend sends a sequence, or as-is otherwise.
func docsValue(r *Result) (string, bool) {
	if !r.Has(fieldRequiredDocs) {
		return "", false
	}
	if items, ok := r.StringList(fieldRequiredDocs); ok {
		return strings.Join(items, ", "), true
	}
	return r.Field(fieldRequiredDocs), true
}
