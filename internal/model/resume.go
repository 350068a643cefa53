package model

// ResumeProfile is the structured form of one extracted resume. It is
// written once by the extract stage and read by the prepare stage.
type ResumeProfile struct {
	SourceKey         string            `json:"source_key"`
	Text              string            `json:"text"`
	Contact           ContactInfo       `json:"contact_information"`
	Education         []EducationEntry  `json:"education"`
	Experience        []ExperienceEntry `json:"experience"`
	Skills            string            `json:"skills_interests_and_extracurricular_activities"`
	KeyAchievements   string            `json:"key_achievements"`
	PersonalStatement string            `json:"personal_statement"`
	Ctime             int64             `json:"ctime"`
}

type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Link  string `json:"portfolio_linkedin"`
}

type EducationEntry struct {
	Date        string `json:"date"`
	Place       string `json:"place"`
	Institution string `json:"institution"`
	Formation   string `json:"formation_name"`
	Description string `json:"description"`
}

type ExperienceEntry struct {
	Date        string `json:"date"`
	Place       string `json:"place"`
	OrgName     string `json:"org_name"`
	Role        string `json:"role"`
	Description string `json:"description"`
}
