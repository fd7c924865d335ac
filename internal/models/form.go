package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Form is the full résumé document for one user in one language. The FR
// and EN collections share this shape; positional correspondence between
// the two documents' arrays is relied on by the editing UI.
type Form struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID primitive.ObjectID `bson:"user_id,omitempty" json:"-"`

	FullName    string `bson:"full_name" json:"fullName"`
	DateOfBirth string `bson:"date_of_birth" json:"dateOfBirth"`
	JobTitle    string `bson:"job_title" json:"jobTitle"`
	Ville       string `bson:"ville" json:"ville"`

	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
	Linkedin string `bson:"linkedin" json:"linkedin"`
	Github   string `bson:"github" json:"github"`

	Summary   string `bson:"summary" json:"summary"`
	Objective string `bson:"objective" json:"objective"`

	Languages      []LanguageLevel `bson:"languages" json:"languages"`
	Skills         []Skill         `bson:"skills" json:"skills"`
	SoftSkills     []SoftSkill     `bson:"soft_skills" json:"softSkills"`
	Experiences    []Experience    `bson:"experiences" json:"experiences"`
	Certifications []Certification `bson:"certifications" json:"certifications"`
	References     []Reference     `bson:"references" json:"references"`
	Hobbies        []string        `bson:"hobbies" json:"hobbies"`
	CvPdfURL       string          `bson:"cv_pdf_url" json:"cvPdfUrl"`

	Projects []Project `bson:"projects" json:"projects"`

	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"-"`
}

// LanguageLevel is one spoken-language entry.
type LanguageLevel struct {
	Language string `bson:"language" json:"language"`
	Level    string `bson:"level" json:"level"`
}

// Skill is one technical skill entry. The name is code-like and never
// translated; the level is human language.
type Skill struct {
	Skill string `bson:"skill" json:"skill"`
	Level string `bson:"level" json:"level"`
}

type SoftSkill struct {
	Skill string `bson:"skill" json:"skill"`
}

type Experience struct {
	JobTitle         string `bson:"job_title" json:"jobTitle"`
	Company          string `bson:"company" json:"company"`
	Location         string `bson:"location" json:"location"`
	StartDate        string `bson:"start_date" json:"startDate"`
	EndDate          string `bson:"end_date" json:"endDate"`
	Responsibilities string `bson:"responsibilities" json:"responsibilities"`
}

type Certification struct {
	CertName string `bson:"cert_name" json:"certName"`
	CertOrg  string `bson:"cert_org" json:"certOrg"`
	CertDate string `bson:"cert_date" json:"certDate"`
	CertDesc string `bson:"cert_desc" json:"certDesc"`
	PdfURL   string `bson:"pdf_url" json:"pdfUrl"`
}

// Reference is a free-text reference entry. Older clients send plain
// strings, newer ones send {"text": ...}; both decode into Text.
type Reference struct {
	Text string `bson:"text" json:"text"`
}

func (r *Reference) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Text = s
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Text = obj.Text
	return nil
}

type Project struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
}
