// Package labels holds the user-visible strings of the outline, course model
// and exporters so hosts can swap the language without touching layout code.
package labels

import (
	"encoding/json"
	"fmt"
	"os"
)

// Labels is the full set of injectable strings.
type Labels struct {
	// Type names used in fallback titles ("Chapitre 1.2").
	Course    string `json:"course"`
	Section   string `json:"section"`
	Chapter   string `json:"chapter"`
	Paragraph string `json:"paragraph"`
	Notion    string `json:"notion"`
	Exercise  string `json:"exercise"`

	// Numbered heading prefixes in the table of contents and body.
	PartPrefix    string `json:"part_prefix"`
	ChapterPrefix string `json:"chapter_prefix"`

	TableOfContents    string `json:"table_of_contents"`
	Introduction       string `json:"introduction"`
	KeyNotions         string `json:"key_notions"`
	Questions          string `json:"questions"`
	Conclusion         string `json:"conclusion"`
	LearningObjectives string `json:"learning_objectives"`
	AuthorPrefix       string `json:"author_prefix"`
	CategoryPrefix     string `json:"category_prefix"`
	GeneratedOn        string `json:"generated_on"`
	PageOf             string `json:"page_of"` // fmt verbs: page, total
	DateLayout         string `json:"date_layout"`

	// Course Document defaults for missing metadata.
	UntitledCourse    string `json:"untitled_course"`
	DefaultCategory   string `json:"default_category"`
	UnknownAuthor     string `json:"unknown_author"`
	DefaultConclusion string `json:"default_conclusion"`
}

// French returns the default label set.
func French() Labels {
	return Labels{
		Course:    "Cours",
		Section:   "Section",
		Chapter:   "Chapitre",
		Paragraph: "Paragraphe",
		Notion:    "Notion",
		Exercise:  "Exercice",

		PartPrefix:    "Partie",
		ChapterPrefix: "Chapitre",

		TableOfContents:    "Table des matières",
		Introduction:       "Introduction",
		KeyNotions:         "Notions clés",
		Questions:          "Questions",
		Conclusion:         "Conclusion",
		LearningObjectives: "Objectifs d'apprentissage",
		AuthorPrefix:       "Par",
		CategoryPrefix:     "Catégorie",
		GeneratedOn:        "Généré le",
		PageOf:             "Page %d sur %d",
		DateLayout:         "02/01/2006",

		UntitledCourse:    "Titre non disponible",
		DefaultCategory:   "Formation",
		UnknownAuthor:     "Auteur inconnu",
		DefaultConclusion: "Ce cours vous a présenté les notions essentielles du sujet. Reprenez les notions clés de chaque partie pour consolider vos acquis.",
	}
}

// English is an alternative preset.
func English() Labels {
	return Labels{
		Course:    "Course",
		Section:   "Section",
		Chapter:   "Chapter",
		Paragraph: "Paragraph",
		Notion:    "Notion",
		Exercise:  "Exercise",

		PartPrefix:    "Part",
		ChapterPrefix: "Chapter",

		TableOfContents:    "Table of contents",
		Introduction:       "Introduction",
		KeyNotions:         "Key notions",
		Questions:          "Questions",
		Conclusion:         "Conclusion",
		LearningObjectives: "Learning objectives",
		AuthorPrefix:       "By",
		CategoryPrefix:     "Category",
		GeneratedOn:        "Generated on",
		PageOf:             "Page %d of %d",
		DateLayout:         "2006-01-02",

		UntitledCourse:    "Untitled course",
		DefaultCategory:   "Training",
		UnknownAuthor:     "Unknown author",
		DefaultConclusion: "This course covered the essential notions of the subject. Review the key notions of each part to consolidate what you learned.",
	}
}

// Default returns the label set used when the host injects nothing.
func Default() Labels {
	return French()
}

// ByName resolves a preset name ("fr", "en").
func ByName(name string) (Labels, error) {
	switch name {
	case "", "fr", "french":
		return French(), nil
	case "en", "english":
		return English(), nil
	}
	return Labels{}, fmt.Errorf("unknown label preset: %s", name)
}

// Load overlays a JSON file on the default set. Keys absent from the file
// keep their default value. An empty path returns the defaults.
func Load(path string) (Labels, error) {
	return Overlay(Default(), path)
}

// Overlay reads a JSON file over base.
func Overlay(base Labels, path string) (Labels, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read labels: %w", err)
	}
	l := base
	if err := json.Unmarshal(data, &l); err != nil {
		return base, fmt.Errorf("parse labels: %w", err)
	}
	return l, nil
}

// Page formats the running page counter.
func (l Labels) Page(i, n int) string {
	return fmt.Sprintf(l.PageOf, i, n)
}

// PartHeading formats a numbered section heading ("Partie 1 : Bases").
func (l Labels) PartHeading(number, title string) string {
	return fmt.Sprintf("%s %s : %s", l.PartPrefix, number, title)
}

// ChapterHeading formats a numbered chapter heading.
func (l Labels) ChapterHeading(number, title string) string {
	return fmt.Sprintf("%s %s : %s", l.ChapterPrefix, number, title)
}
