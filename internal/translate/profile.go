package translate

import (
	"context"
	"strings"
	"sync"

	"github.com/tmoreau/cvfolio/internal/models"
)

// Profile translates the human-language-bearing fields of a French form
// into English. Code-like fields (skill names, company names, dates,
// URLs) pass through untouched, and every array keeps its length and
// order so the FR and EN documents stay positionally aligned. Empty
// entries stay empty rather than being skipped.
//
// Entries of each array are translated concurrently; each goroutine
// writes only its own index.
func Profile(ctx context.Context, tr Translator, form models.Form) models.Form {
	out := form

	var wg sync.WaitGroup

	translate := func(dst *string, text string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*dst = tr.Translate(ctx, text, "fr", "en")
		}()
	}

	out.Summary = ""
	if form.Summary != "" {
		translate(&out.Summary, form.Summary)
	}
	out.Objective = ""
	if form.Objective != "" {
		translate(&out.Objective, form.Objective)
	}

	out.References = make([]models.Reference, len(form.References))
	for i, ref := range form.References {
		if strings.TrimSpace(ref.Text) != "" {
			translate(&out.References[i].Text, ref.Text)
		}
	}

	out.Hobbies = make([]string, len(form.Hobbies))
	for i, hobby := range form.Hobbies {
		if strings.TrimSpace(hobby) != "" {
			translate(&out.Hobbies[i], hobby)
		}
	}

	out.Languages = make([]models.LanguageLevel, len(form.Languages))
	for i, lang := range form.Languages {
		switch {
		case lang.Language == "Français":
			// DeepL renders the bare word "Français" as "English";
			// hardcode the correct translation instead of asking.
			out.Languages[i].Language = "French"
		case lang.Language != "":
			translate(&out.Languages[i].Language, lang.Language)
		}
		if lang.Level != "" {
			translate(&out.Languages[i].Level, lang.Level)
		}
	}

	out.Skills = make([]models.Skill, len(form.Skills))
	for i, sk := range form.Skills {
		out.Skills[i].Skill = sk.Skill
		if sk.Level != "" {
			translate(&out.Skills[i].Level, sk.Level)
		}
	}

	out.SoftSkills = make([]models.SoftSkill, len(form.SoftSkills))
	for i, sk := range form.SoftSkills {
		if sk.Skill != "" {
			translate(&out.SoftSkills[i].Skill, sk.Skill)
		}
	}

	out.Experiences = make([]models.Experience, len(form.Experiences))
	for i, exp := range form.Experiences {
		out.Experiences[i] = models.Experience{
			JobTitle:  exp.JobTitle,
			Company:   exp.Company,
			Location:  exp.Location,
			StartDate: exp.StartDate,
			EndDate:   exp.EndDate,
		}
		if exp.Responsibilities != "" {
			translate(&out.Experiences[i].Responsibilities, exp.Responsibilities)
		}
	}

	out.Certifications = make([]models.Certification, len(form.Certifications))
	for i, cert := range form.Certifications {
		out.Certifications[i] = models.Certification{
			CertName: cert.CertName,
			CertOrg:  cert.CertOrg,
			CertDate: cert.CertDate,
			PdfURL:   cert.PdfURL,
		}
		if cert.CertDesc != "" {
			translate(&out.Certifications[i].CertDesc, cert.CertDesc)
		}
	}

	wg.Wait()
	return out
}
