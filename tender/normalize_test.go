package tender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, payload string) *Result {
	t.Helper()
	r, err := ParseResult([]byte(payload))
	require.NoError(t, err)
	return r
}

func sectionByTitle(t *testing.T, sections []Section, title string) Section {
	t.Helper()
	for _, s := range sections {
		if s.Title == title {
			return s
		}
	}
	t.Fatalf("section %q not found", title)
	return Section{}
}

func TestShouldShow(t *testing.T) {
	cases := []struct {
		value string
		show  bool
	}{
		{"", false},
		{"   ", false},
		{"N/A", false},
		{"n/a", false},
		{"Not Specified", false},
		{"null", false},
		{"undefined", false},
		{"None", false},
		// Known false positive of the substring heuristic, kept on purpose.
		{"None of the above", false},
		{"Response due 2024-01-01", true},
		{"INR 50,00,000", true},
		{"  Online via portal  ", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.show, ShouldShow(tc.value), "value %q", tc.value)
	}
}

func TestNormalizeSectionIdentity(t *testing.T) {
	r := mustParse(t, `{}`)
	sections := Normalize(r)
	require.Len(t, sections, 6)
	titles := []string{
		"Basic Information", "Project Details", "Key Financials",
		"Important Dates", "Eligibility Criteria", "Submission Information",
	}
	for i, title := range titles {
		assert.Equal(t, title, sections[i].Title)
		assert.Empty(t, sections[i].Rows)
	}
}

func TestNormalizeFixedSections(t *testing.T) {
	r := mustParse(t, `{
		"Tender_Reference": "TR-2024-001",
		"Issuing_Authority": "Not Specified",
		"Project_Name": "Ring Road Extension",
		"Location": "N/A",
		"Estimated_Value": 12500000,
		"EMD_Amount": "INR 2,50,000",
		"Submission_Method": "Online via e-procurement portal"
	}`)
	sections := Normalize(r)

	basic := sectionByTitle(t, sections, "Basic Information")
	require.Equal(t, []Row{
		{Label: "Tender Reference", Value: "TR-2024-001"},
		{Label: "Project Name", Value: "Ring Road Extension"},
	}, basic.Rows)

	financials := sectionByTitle(t, sections, "Key Financials")
	require.Equal(t, []Row{
		{Label: "Estimated Value", Value: "12500000"},
		{Label: "EMD Amount", Value: "INR 2,50,000"},
	}, financials.Rows)

	submission := sectionByTitle(t, sections, "Submission Information")
	require.Equal(t, []Row{
		{Label: "Submission Method", Value: "Online via e-procurement portal"},
	}, submission.Rows)
}

func TestImportantDatesCurrentEraWinsOverLegacy(t *testing.T) {
	// Both eras present: the nested mapping is used exclusively.
	r := mustParse(t, `{
		"Important_Dates": {"Document Download Start": "2024-01-05", "Deadline": "2024-03-01"},
		"Bid_Submission_Deadline": "2024-02-01",
		"Bid_Opening_Date": "2024-02-02"
	}`)
	dates := sectionByTitle(t, Normalize(r), "Important Dates")
	require.Equal(t, []Row{
		{Label: "Document Download Start", Value: "2024-01-05"},
		{Label: "Deadline", Value: "2024-03-01"},
	}, dates.Rows)
}

func TestImportantDatesPreserveSourceOrder(t *testing.T) {
	r := mustParse(t, `{"Important_Dates": {"Zulu": "1", "Alpha": "2", "Mike": "3"}}`)
	dates := sectionByTitle(t, Normalize(r), "Important Dates")
	require.Equal(t, []Row{
		{Label: "Zulu", Value: "1"},
		{Label: "Alpha", Value: "2"},
		{Label: "Mike", Value: "3"},
	}, dates.Rows)
}

func TestImportantDatesLegacyFallback(t *testing.T) {
	for _, payload := range []string{
		`{"Bid_Submission_Deadline": "2024-02-01", "Bid_Opening_Date": "2024-02-02", "Pre_Bid_Meeting_Date": "2024-01-15"}`,
		`{"Important_Dates": {}, "Bid_Submission_Deadline": "2024-02-01", "Bid_Opening_Date": "2024-02-02", "Pre_Bid_Meeting_Date": "2024-01-15"}`,
	} {
		r := mustParse(t, payload)
		dates := sectionByTitle(t, Normalize(r), "Important Dates")
		require.Equal(t, []Row{
			{Label: "Bid Submission Deadline", Value: "2024-02-01"},
			{Label: "Bid Opening Date", Value: "2024-02-02"},
			{Label: "Pre-Bid Meeting", Value: "2024-01-15"},
		}, dates.Rows, "payload %s", payload)
	}
}

func TestEligibilityNestedWinsOverLegacy(t *testing.T) {
	r := mustParse(t, `{
		"Eligibility": {
			"Min_Turnover": "INR 5 Cr",
			"Experience_Required": "5 years in road projects",
			"Other_Eligibility_Criteria": "Valid GST registration"
		},
		"Min_Turnover": "INR 1 Cr",
		"Experience_Required": "legacy value"
	}`)
	elig := sectionByTitle(t, Normalize(r), "Eligibility Criteria")
	require.Equal(t, []Row{
		{Label: "Min Turnover", Value: "INR 5 Cr"},
		{Label: "Experience Required", Value: "5 years in road projects"},
		{Label: "Other Criteria", Value: "Valid GST registration"},
	}, elig.Rows)
}

func TestEligibilityLegacyFallback(t *testing.T) {
	r := mustParse(t, `{"Min_Turnover": "INR 1 Cr", "Experience_Required": "3 years"}`)
	elig := sectionByTitle(t, Normalize(r), "Eligibility Criteria")
	require.Equal(t, []Row{
		{Label: "Min Turnover", Value: "INR 1 Cr"},
		{Label: "Experience Required", Value: "3 years"},
	}, elig.Rows)
}

func TestRequiredDocumentsAppendedInBothEras(t *testing.T) {
	list := mustParse(t, `{
		"Eligibility": {"Min_Turnover": "INR 5 Cr"},
		"Required_Documents": ["PAN card", "GST certificate", "EMD receipt"]
	}`)
	elig := sectionByTitle(t, Normalize(list), "Eligibility Criteria")
	require.Equal(t, []Row{
		{Label: "Min Turnover", Value: "INR 5 Cr"},
		{Label: "Required Documents", Value: "PAN card, GST certificate, EMD receipt"},
	}, elig.Rows)

	scalar := mustParse(t, `{
		"Min_Turnover": "INR 1 Cr",
		"Required_Documents": "PAN card and GST certificate"
	}`)
	elig = sectionByTitle(t, Normalize(scalar), "Eligibility Criteria")
	require.Equal(t, []Row{
		{Label: "Min Turnover", Value: "INR 1 Cr"},
		{Label: "Required Documents", Value: "PAN card and GST certificate"},
	}, elig.Rows)
}

func TestSectionsFilterIndependently(t *testing.T) {
	r := mustParse(t, `{
		"Eligibility": {"Min_Turnover": "Not Specified"},
		"Estimated_Value": "INR 2 Cr"
	}`)
	sections := Normalize(r)
	assert.Empty(t, sectionByTitle(t, sections, "Eligibility Criteria").Rows)
	require.Equal(t, []Row{
		{Label: "Estimated Value", Value: "INR 2 Cr"},
	}, sectionByTitle(t, sections, "Key Financials").Rows)
}

func TestNormalizeDeterministicAcrossReserialization(t *testing.T) {
	payload := `{
		"Executive_Summary": "A road tender.",
		"Tender_Reference": "TR-9",
		"Important_Dates": {"Deadline": "2024-03-01", "Opening": "2024-03-02"},
		"Eligibility": {"Min_Turnover": "INR 5 Cr"},
		"Required_Documents": ["PAN card"]
	}`
	r := mustParse(t, payload)
	first := Normalize(r)

	reserialized, err := r.MarshalJSON()
	require.NoError(t, err)
	r2, err := ParseResult(reserialized)
	require.NoError(t, err)

	assert.Equal(t, first, Normalize(r2))
	assert.Equal(t, first, Normalize(r))
}

func TestNormalizeEndToEndShape(t *testing.T) {
	r := mustParse(t, `{
		"Executive_Summary": "...",
		"Important_Dates": {"Deadline": "2024-03-01"}
	}`)
	dates := sectionByTitle(t, Normalize(r), "Important Dates")
	require.Equal(t, []Row{{Label: "Deadline", Value: "2024-03-01"}}, dates.Rows)
}
