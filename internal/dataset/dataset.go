package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/resumechat/internal/model"
	appErr "github.com/xxxsen/resumechat/internal/pkg/errors"
)

// RenderContext flattens the structured profile into the single context
// string every training example shares.
func RenderContext(profile *model.ResumeProfile) string {
	var sb strings.Builder
	sb.WriteString("Education:\n")
	for _, edu := range profile.Education {
		fmt.Fprintf(&sb, "Date: %s\nPlace: %s\nInstitution: %s\nFormation: %s\nDescription: %s\n",
			edu.Date, edu.Place, edu.Institution, edu.Formation, edu.Description)
	}
	sb.WriteString("\nExperience:\n")
	for _, exp := range profile.Experience {
		fmt.Fprintf(&sb, "Date: %s\nPlace: %s\nOrganization: %s\nRole: %s\nDescription: %s\n",
			exp.Date, exp.Place, exp.OrgName, exp.Role, exp.Description)
	}
	fmt.Fprintf(&sb, "\nSkills:\n%s\n", profile.Skills)
	fmt.Fprintf(&sb, "\nKey Achievements:\n%s\n", profile.KeyAchievements)
	fmt.Fprintf(&sb, "\nPersonal Statement:\n%s\n", profile.PersonalStatement)
	fmt.Fprintf(&sb, "\nContact Information:\nName: %s\nEmail: %s\nPhone Number: %s\nPortfolio/LinkedIn: %s\n",
		profile.Contact.Name, profile.Contact.Email, profile.Contact.Phone, profile.Contact.Link)
	return sb.String()
}

// Build pairs the rendered context with every authored QA pair. The answer
// span is located with a plain substring search; when the answer is not
// present verbatim both offsets stay zero.
func Build(profile *model.ResumeProfile, pairs []model.QAPair) ([]model.TrainingExample, error) {
	if profile == nil {
		return nil, fmt.Errorf("resume profile is required")
	}
	if len(pairs) == 0 {
		return nil, appErr.ErrEmptyDataset
	}
	context := RenderContext(profile)
	examples := make([]model.TrainingExample, 0, len(pairs))
	for i, pair := range pairs {
		question := strings.TrimSpace(pair.Question)
		answer := strings.TrimSpace(pair.Answer)
		if question == "" || answer == "" {
			return nil, fmt.Errorf("qa pair %d: question and answer are required", i)
		}
		start := strings.Index(context, answer)
		end := 0
		if start < 0 {
			start = 0
		} else {
			end = start + len(answer)
		}
		examples = append(examples, model.TrainingExample{
			Context:  context,
			Question: question,
			Answer:   answer,
			StartIdx: start,
			EndIdx:   end,
		})
	}
	return examples, nil
}

func LoadQAPairs(path string) ([]model.QAPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read qa file: %w", err)
	}
	var pairs []model.QAPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("decode qa file %s: %w", path, err)
	}
	return pairs, nil
}

func LoadProfile(path string) (*model.ResumeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var profile model.ResumeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return &profile, nil
}

func SaveProfile(path string, profile *model.ResumeProfile) error {
	return writeJSON(path, profile)
}

func LoadExamples(path string) ([]model.TrainingExample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var examples []model.TrainingExample
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	if len(examples) == 0 {
		return nil, appErr.ErrEmptyDataset
	}
	return examples, nil
}

func SaveExamples(path string, examples []model.TrainingExample) error {
	if len(examples) == 0 {
		return appErr.ErrEmptyDataset
	}
	return writeJSON(path, examples)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
