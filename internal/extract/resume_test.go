package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleResume = `John Smith
john.smith@example.com
+44 7700 900123
https://linkedin.com/in/johnsmith

PERSONAL STATEMENT
A data engineer who enjoys building small reliable systems.

EDUCATION
2015 - 2018, University of Leeds, Leeds, BSc Computer Science
Modules: databases, machine learning, distributed systems.

EXPERIENCE
2019 - 2022, Acme Analytics, London, Data Engineer
Built ingestion pipelines and internal dashboards.
Owned the reporting warehouse.

KEY ACHIEVEMENTS
Winner of the 2021 internal hackathon.

SKILLS
Python, Go, SQL, Airflow.
`

func TestPreprocess(t *testing.T) {
	got := Preprocess("  Hello\n\tWorld  ")
	require.Equal(t, "hello world", got)
}

func TestPreprocess_EmptyInput(t *testing.T) {
	require.Equal(t, "", Preprocess(" \n\t "))
}

func TestContactExtraction(t *testing.T) {
	text := Preprocess(sampleResume)
	require.Equal(t, "john.smith@example.com", Email(text))
	require.Equal(t, "+44 7700 900123", Phone(text))
	require.Contains(t, PortfolioLink(text), "linkedin.com/in/johnsmith")
}

func TestSections_SplitsOnKeywords(t *testing.T) {
	parts := Sections(sampleResume)
	require.Contains(t, parts, "education")
	require.Contains(t, parts, "experience")
	require.Contains(t, parts, "skills")
	require.Contains(t, parts, "key_achievements")
	require.Contains(t, parts, "personal_statement")
	require.Contains(t, parts["education"], "university of leeds")
	require.Contains(t, parts["experience"], "acme analytics")
	require.NotContains(t, parts["experience"], "hackathon")
}

func TestParseExperience(t *testing.T) {
	parts := Sections(sampleResume)
	entries := ParseExperience(parts["experience"])
	require.Len(t, entries, 1)
	require.Equal(t, "2019 - 2022", entries[0].Date)
	require.Equal(t, "acme analytics", entries[0].OrgName)
	require.Equal(t, "london", entries[0].Place)
	require.Equal(t, "data engineer", entries[0].Role)
	require.Contains(t, entries[0].Description, "ingestion pipelines")
	require.Contains(t, entries[0].Description, "reporting warehouse")
}

func TestParseEducation(t *testing.T) {
	parts := Sections(sampleResume)
	entries := ParseEducation(parts["education"])
	require.Len(t, entries, 1)
	require.Equal(t, "2015 - 2018", entries[0].Date)
	require.Equal(t, "university of leeds", entries[0].Institution)
	require.Equal(t, "leeds", entries[0].Place)
	require.Equal(t, "bsc computer science", entries[0].Formation)
}

func TestParseExperience_MissingFieldsAreNA(t *testing.T) {
	entries := ParseExperience("experience\n2020, solo consulting")
	require.Len(t, entries, 1)
	require.Equal(t, "solo consulting", entries[0].OrgName)
	require.Equal(t, fieldNA, entries[0].Place)
	require.Equal(t, fieldNA, entries[0].Role)
}

func TestBuildProfile(t *testing.T) {
	profile, err := BuildProfile("cv.pdf", sampleResume)
	require.NoError(t, err)
	require.Equal(t, "cv.pdf", profile.SourceKey)
	require.NotEmpty(t, profile.Text)
	require.Equal(t, "john smith", profile.Contact.Name)
	require.Equal(t, "john.smith@example.com", profile.Contact.Email)
	require.Len(t, profile.Experience, 1)
	require.Len(t, profile.Education, 1)
	require.Contains(t, profile.Skills, "python")
}

func TestBuildProfile_EmptyText(t *testing.T) {
	_, err := BuildProfile("cv.pdf", "   \n ")
	require.Error(t, err)
}

func TestPDFText_EmptyData(t *testing.T) {
	_, err := PDFText(nil)
	require.Error(t, err)
}
