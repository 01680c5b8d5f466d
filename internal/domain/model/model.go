// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"time"
)

// JobPosting is one row of the job catalog. It is never modified after load.
type JobPosting struct {
	Index          int      `json:"-"` // position in the catalog, 0-based
	Title          string   `json:"job_title"`
	Region         string   `json:"governorate"`
	SeniorityLevel string   `json:"professional_level"`
	RequiredSkills []string `json:"required_skills"`
}

// MatchResult is the outcome of scoring one résumé against one posting.
type MatchResult struct {
	Posting           JobPosting
	Similarity        float64 // 0..100, one decimal
	Matched           []string
	Missing           []string
	MatchedPercentage float64
	MissingPercentage float64
}

// PieChart is the matched/missing projection of a MatchResult.
type PieChart struct {
	Matched           int     `json:"matched"`
	Missing           int     `json:"missing"`
	MatchedPercentage float64 `json:"matched_percentage"`
	MissingPercentage float64 `json:"missing_percentage"`
}

type matchResultJSON struct {
	JobTitle             string   `json:"job_title"`
	Governorate          string   `json:"governorate"`
	ProfessionalLevel    string   `json:"professional_level"`
	SimilarityPercentage float64  `json:"similarity_percentage"`
	MatchedSkills        []string `json:"matched_skills"`
	MissingSkills        []string `json:"missing_skills"`
	PieChartData         PieChart `json:"pie_chart_data"`
}

// PieChart returns the chart projection of r.
func (r MatchResult) PieChart() PieChart {
	return PieChart{
		Matched:           len(r.Matched),
		Missing:           len(r.Missing),
		MatchedPercentage: r.MatchedPercentage,
		MissingPercentage: r.MissingPercentage,
	}
}

// MarshalJSON flattens the posting into the match entry.
func (r MatchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(matchResultJSON{
		JobTitle:             r.Posting.Title,
		Governorate:          r.Posting.Region,
		ProfessionalLevel:    r.Posting.SeniorityLevel,
		SimilarityPercentage: r.Similarity,
		MatchedSkills:        nonNil(r.Matched),
		MissingSkills:        nonNil(r.Missing),
		PieChartData:         r.PieChart(),
	})
}

// BarChart holds job titles and similarities aligned by index.
type BarChart struct {
	JobTitles    []string  `json:"job_titles"`
	Similarities []float64 `json:"similarities"`
}

// MatchReport is the catalog-wide result for one résumé.
type MatchReport struct {
	CVSkills   []string      `json:"cv_skills"`
	TopMatches []MatchResult `json:"top_matches"`
	BarChart   BarChart      `json:"bar_chart_data"`
}

// SkillCount is a counted list of skills.
type SkillCount struct {
	Count  int      `json:"count"`
	Skills []string `json:"skills"`
}

// TargetReport is the single-target result for one résumé.
type TargetReport struct {
	Summary               string     `json:"summary"`
	CVSkillsFound         []string   `json:"cv_skills_found"`
	Matched               SkillCount `json:"matched_skills"`
	Missing               SkillCount `json:"missing_skills"`
	TopMissingSuggestions []string   `json:"top_missing_suggestions"`
	Recommendation        string     `json:"recommendation"`
	Percent               float64    `json:"percent"`
	Job                   JobPosting `json:"job"`
	Fallback              bool       `json:"fallback"` // resolved by title only
}

// AnalysisStatus is the lifecycle state of an AnalysisRecord.
type AnalysisStatus string

// Analysis states.
const (
	AnalysisPending AnalysisStatus = "pending"
	AnalysisDone    AnalysisStatus = "done"
	AnalysisFailed  AnalysisStatus = "failed"
)

// AnalysisRecord tracks an asynchronous catalog-wide analysis.
type AnalysisRecord struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	CVFilename  string         `json:"cv_filename"`
	Status      AnalysisStatus `json:"status"`
	Report      *MatchReport   `json:"report,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
