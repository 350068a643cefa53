package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/xxxsen/resumechat/internal/model"
)

const fieldNA = "N/A"

var (
	emailRe     = regexp.MustCompile(`[\w.-]+@[\w.-]+`)
	phoneRe     = regexp.MustCompile(`[+(]?[1-9][0-9 .\-()]{8,}[0-9]`)
	linkRe      = regexp.MustCompile(`(https?://\S+)|(linkedin\.com/\S+)`)
	spaceRe     = regexp.MustCompile(`\s+`)
	lineSpaceRe = regexp.MustCompile(`[ \t]+`)
	yearRe      = regexp.MustCompile(`(?:19|20)\d{2}`)
	dateRe      = regexp.MustCompile(`(?:(?:19|20)\d{2})(?:\s*(?:-|–|—|to)\s*(?:(?:19|20)\d{2}|present|now|current))?`)
)

// sections lists the resume categories in the order they are searched.
// Every keyword marks a possible section start; a section runs until the
// next later section keyword.
var sections = []struct {
	name     string
	keywords []string
}{
	{"education", []string{"education"}},
	{"experience", []string{"experience"}},
	{"skills", []string{"skills", "interests", "extracurricular activities"}},
	{"key_achievements", []string{"key achievements"}},
	{"personal_statement", []string{"personal statement"}},
}

// Preprocess lowercases the text and collapses all whitespace runs to a
// single space. The result is the QA context fed to the model.
func Preprocess(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(strings.ToLower(text), " "))
}

// normalizeLines lowercases and tidies spacing while keeping line breaks,
// which the entry parsers need to find block boundaries.
func normalizeLines(text string) string {
	text = strings.ToLower(strings.ReplaceAll(text, "\r\n", "\n"))
	text = lineSpaceRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.TrimSpace(line))
	}
	return strings.Join(out, "\n")
}

func Email(text string) string {
	return emailRe.FindString(text)
}

func Phone(text string) string {
	return phoneRe.FindString(text)
}

func PortfolioLink(text string) string {
	return linkRe.FindString(text)
}

// Sections splits the resume text into its categories. Keys are the
// canonical section names; categories that never appear are absent.
func Sections(text string) map[string]string {
	lowered := normalizeLines(text)
	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, section := range sections {
		pos := -1
		for _, keyword := range section.keywords {
			idx := strings.Index(lowered, keyword)
			if idx >= 0 && (pos < 0 || idx < pos) {
				pos = idx
			}
		}
		if pos >= 0 {
			hits = append(hits, hit{name: section.name, pos: pos})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	result := make(map[string]string, len(hits))
	for i, h := range hits {
		end := len(lowered)
		if i+1 < len(hits) {
			end = hits[i+1].pos
		}
		result[h.name] = strings.TrimSpace(lowered[h.pos:end])
	}
	return result
}

// parseBlocks groups section lines into entries. A line carrying a year
// starts a new entry; following lines accumulate into its description.
func parseBlocks(section string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if yearRe.MatchString(line) {
			if len(current) > 0 {
				blocks = append(blocks, current)
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// headerFields strips the date from an entry header line and splits the
// remainder on commas.
func headerFields(header string) (date string, fields []string) {
	date = dateRe.FindString(header)
	rest := strings.Replace(header, date, "", 1)
	for _, part := range strings.Split(rest, ",") {
		part = strings.Trim(part, " \t-–—|")
		if part == "" {
			continue
		}
		fields = append(fields, part)
	}
	if date == "" {
		date = fieldNA
	}
	return date, fields
}

func fieldAt(fields []string, idx int) string {
	if idx < len(fields) {
		return fields[idx]
	}
	return fieldNA
}

// ParseExperience extracts work experience entries from the experience
// section text.
func ParseExperience(section string) []model.ExperienceEntry {
	var entries []model.ExperienceEntry
	for _, block := range parseBlocks(section) {
		date, fields := headerFields(block[0])
		entry := model.ExperienceEntry{
			Date:        date,
			OrgName:     fieldAt(fields, 0),
			Place:       fieldAt(fields, 1),
			Role:        fieldAt(fields, 2),
			Description: strings.Join(block[1:], " "),
		}
		entries = append(entries, entry)
	}
	return entries
}

// ParseEducation extracts education entries from the education section
// text.
func ParseEducation(section string) []model.EducationEntry {
	var entries []model.EducationEntry
	for _, block := range parseBlocks(section) {
		date, fields := headerFields(block[0])
		entry := model.EducationEntry{
			Date:        date,
			Institution: fieldAt(fields, 0),
			Place:       fieldAt(fields, 1),
			Formation:   fieldAt(fields, 2),
			Description: strings.Join(block[1:], " "),
		}
		entries = append(entries, entry)
	}
	return entries
}

// BuildProfile turns raw extracted resume text into the structured profile
// consumed by the prepare stage.
func BuildProfile(sourceKey, rawText string) (*model.ResumeProfile, error) {
	text := Preprocess(rawText)
	if text == "" {
		return nil, fmt.Errorf("no data extracted from %s", sourceKey)
	}
	parts := Sections(rawText)
	profile := &model.ResumeProfile{
		SourceKey: sourceKey,
		Text:      text,
		Contact: model.ContactInfo{
			Name:  fieldNA,
			Email: orNA(Email(text)),
			Phone: orNA(Phone(text)),
			Link:  orNA(PortfolioLink(text)),
		},
		Education:         ParseEducation(parts["education"]),
		Experience:        ParseExperience(parts["experience"]),
		Skills:            orNA(parts["skills"]),
		KeyAchievements:   orNA(parts["key_achievements"]),
		PersonalStatement: orNA(parts["personal_statement"]),
		Ctime:             time.Now().UnixMilli(),
	}
	if name := guessName(rawText); name != "" {
		profile.Contact.Name = name
	}
	return profile, nil
}

// guessName takes the first short line of the document that carries no
// digits and no contact tokens. Resumes almost always lead with the name.
func guessName(rawText string) string {
	for _, line := range strings.Split(normalizeLines(rawText), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 60 || strings.ContainsAny(line, "0123456789@") {
			return ""
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			return ""
		}
		return line
	}
	return ""
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return fieldNA
	}
	return value
}
