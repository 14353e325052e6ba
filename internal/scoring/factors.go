// Package scoring computes explainable multi-factor match scores for
// (student, scholarship) pairs.
package scoring

import (
	"math"
	"strings"

	"github.com/caleb/scholarmatch/internal/types"
)

// AlgorithmVersion tags every persisted scoring artifact so historical
// results can be compared across algorithm changes.
const AlgorithmVersion = "2.0.0-hybrid"

// Factor weights. The wired weights sum to 0.90.
const (
	gpaWeight              = 0.25
	majorWeight            = 0.20
	demographicsWeight     = 0.15
	geographyWeight        = 0.10
	extracurricularsWeight = 0.10
	aiAnalysisWeight       = 0.10
)

// Keyword buckets for coarse field-of-study alignment.
var (
	stemFields       = []string{"engineering", "computer", "mathematics", "physics", "chemistry", "biology", "science"}
	businessFields   = []string{"business", "economics", "finance", "accounting", "marketing", "management"}
	humanitiesFields = []string{"english", "history", "philosophy", "literature", "languages", "arts"}
)

// activityKeywords are generic activity categories matched between a
// student's extracurriculars and scholarship text.
var activityKeywords = []string{
	"leadership", "volunteer", "community", "service", "sports", "athletic",
	"music", "art", "drama", "debate", "robotics", "science", "research",
	"internship", "work", "employment", "club", "organization",
}

// scoreGPA rates a student's GPA against the scholarship's minimum, or
// against absolute bands when no minimum is declared. Missing GPA is neutral.
func scoreGPA(student *types.StudentProfile, scholarship *types.Scholarship) float64 {
	if student.GPA == nil {
		return 50
	}
	gpa := *student.GPA

	if min := scholarship.Eligibility.MinGPA; min != nil {
		switch {
		case gpa >= *min+0.5:
			return 100
		case gpa >= *min+0.2:
			return 85
		case gpa >= *min:
			return 70
		case gpa >= *min-0.2:
			return 40
		default:
			return 20
		}
	}

	switch {
	case gpa >= 3.8:
		return 90
	case gpa >= 3.5:
		return 80
	case gpa >= 3.2:
		return 70
	case gpa >= 2.8:
		return 60
	default:
		return 50
	}
}

// scoreMajor rates field-of-study alignment: exact or substring match against
// an allowed-majors list, then bucket-level field alignment, then keyword
// overlap with the scholarship text.
func scoreMajor(student *types.StudentProfile, scholarship *types.Scholarship) float64 {
	if student.Major == "" {
		return 50
	}
	major := strings.ToLower(student.Major)

	if allowed := scholarship.Eligibility.AllowedMajors; len(allowed) > 0 {
		for _, m := range allowed {
			m = strings.ToLower(m)
			if strings.Contains(m, major) || strings.Contains(major, m) {
				return 100
			}
		}
		if fieldsAlign(major, allowed) {
			return 75
		}
	}

	text := scholarshipText(scholarship)
	if strings.Contains(text, major) {
		return 85
	}
	for _, word := range strings.Fields(major) {
		if strings.Contains(text, word) {
			return 85
		}
	}

	return 60
}

// scoreDemographics scales 40-100 with the fraction of required demographic
// attributes the student satisfies, over the documented key registry.
// Neutral when the scholarship declares no demographic requirements.
func scoreDemographics(student *types.StudentProfile, scholarship *types.Scholarship) float64 {
	required := scholarship.Eligibility.Demographics
	if len(student.Demographics) == 0 || len(required) == 0 {
		return 60
	}

	requirements := 0
	matches := 0
	for _, key := range types.DemographicKeys {
		accepted, ok := required[key]
		if !ok || len(accepted) == 0 {
			continue
		}
		requirements++
		value := student.Demographics[key]
		for _, want := range accepted {
			if strings.EqualFold(value, want) {
				matches++
				break
			}
		}
	}

	if requirements == 0 {
		return 60
	}
	return math.Round(40 + float64(matches)/float64(requirements)*60)
}

// scoreGeography rates location fit: declared state or region lists first,
// then a textual mention of the student's location in the scholarship text.
func scoreGeography(student *types.StudentProfile, scholarship *types.Scholarship) float64 {
	if student.Location == "" {
		return 60
	}
	location := strings.ToLower(student.Location)

	for _, state := range scholarship.Eligibility.AllowedStates {
		if strings.Contains(location, strings.ToLower(state)) {
			return 100
		}
	}
	for _, region := range scholarship.Eligibility.AllowedRegions {
		if strings.Contains(location, strings.ToLower(region)) {
			return 90
		}
	}

	text := scholarshipText(scholarship)
	for _, part := range strings.Split(location, ",") {
		part = strings.TrimSpace(part)
		if part != "" && strings.Contains(text, part) {
			return 80
		}
	}

	return 70
}

// scoreExtracurriculars starts from a neutral base and rewards direct
// activity mentions (+10) and shared activity-keyword categories (+5),
// capped at 100.
func scoreExtracurriculars(student *types.StudentProfile, scholarship *types.Scholarship) float64 {
	if len(student.Extracurriculars) == 0 {
		return 50
	}

	text := scholarshipText(scholarship)
	if len(scholarship.Requirements) > 0 {
		text += " " + strings.ToLower(strings.Join(scholarship.Requirements, " "))
	}

	score := 50.0
	for _, activity := range student.Extracurriculars {
		activity = strings.ToLower(activity)
		if strings.Contains(text, activity) {
			score += 10
		}
		for _, keyword := range activityKeywords {
			if strings.Contains(activity, keyword) && strings.Contains(text, keyword) {
				score += 5
			}
		}
	}

	if score > 100 {
		return 100
	}
	return score
}

// fieldsAlign reports whether the student's major falls in the same keyword
// bucket as any allowed major. Majors outside every bucket never align.
func fieldsAlign(studentMajor string, allowedMajors []string) bool {
	category := fieldCategory(studentMajor)
	if category == "" {
		return false
	}
	for _, m := range allowedMajors {
		if fieldCategory(strings.ToLower(m)) == category {
			return true
		}
	}
	return false
}

func fieldCategory(major string) string {
	for _, f := range stemFields {
		if strings.Contains(major, f) {
			return "stem"
		}
	}
	for _, f := range businessFields {
		if strings.Contains(major, f) {
			return "business"
		}
	}
	for _, f := range humanitiesFields {
		if strings.Contains(major, f) {
			return "humanities"
		}
	}
	return ""
}

// scholarshipText returns the lowercased title and description used for
// keyword matching.
func scholarshipText(scholarship *types.Scholarship) string {
	return strings.ToLower(scholarship.Title + " " + scholarship.Description)
}
