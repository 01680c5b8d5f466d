package report_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/cvmatch/internal/domain/matching"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/report"
	"github.com/okian/cvmatch/internal/domain/skills"
	. "github.com/smartystreets/goconvey/convey"
)

func result(title string, similarity float64) model.MatchResult {
	return model.MatchResult{Posting: model.JobPosting{Title: title}, Similarity: similarity}
}

func TestBuild(t *testing.T) {
	Convey("Given results in catalog order", t, func() {
		results := []model.MatchResult{result("a", 40), result("b", 90), result("c", 90), result("d", 10)}
		user := skills.NewSet("python")

		Convey("When building the default report", func() {
			rep := report.Build(user, results, 0)

			Convey("Then the top three should be ranked with stable ties", func() {
				So(rep.TopMatches, ShouldHaveLength, 3)
				So(rep.BarChart.JobTitles, ShouldResemble, []string{"b", "c", "a"})
				So(rep.BarChart.Similarities, ShouldResemble, []float64{90, 90, 40})
				for i, m := range rep.TopMatches {
					So(m.Posting.Title, ShouldEqual, rep.BarChart.JobTitles[i])
				}
				So(rep.CVSkills, ShouldResemble, []string{"python"})
			})

			Convey("Then the input should not be reordered", func() {
				So(results[0].Posting.Title, ShouldEqual, "a")
			})
		})

		Convey("When asking for more results than exist", func() {
			rep := report.Build(user, results, 10)

			Convey("Then every result should be returned", func() {
				So(rep.TopMatches, ShouldHaveLength, 4)
				So(rep.BarChart.JobTitles, ShouldResemble, []string{"b", "c", "a", "d"})
			})
		})
	})

	Convey("Given a user without skills", t, func() {
		for _, user := range []*skills.Set{nil, skills.NewSet()} {
			rep := report.Build(user, []model.MatchResult{result("a", 50)}, 3)

			So(rep.CVSkills, ShouldBeEmpty)
			So(rep.TopMatches, ShouldBeEmpty)
			So(rep.BarChart.JobTitles, ShouldBeEmpty)
			So(rep.BarChart.Similarities, ShouldBeEmpty)
		}

		Convey("Then the empty report should encode empty arrays", func() {
			raw, err := json.Marshal(report.Build(skills.NewSet(), nil, 3))
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"cv_skills":[],"top_matches":[],"bar_chart_data":{"job_titles":[],"similarities":[]}}`)
		})
	})
}

func TestBuildTarget(t *testing.T) {
	Convey("Given a single-target result", t, func() {
		user := skills.NewSet("SQL", "Excel")
		job := model.JobPosting{Title: "Data Analyst", Region: "Giza", SeniorityLevel: "Junior", RequiredSkills: []string{"sql", "excel", "python"}}
		r := model.MatchResult{Posting: job, Matched: []string{"sql", "excel"}, Missing: []string{"python"}}
		q := report.Query{Title: "data analyst", Region: " CAIRO", Level: "Senior"}

		Convey("When building the report", func() {
			rep := report.BuildTarget(user, r, q, matching.Lookup{Posting: job, Fallback: true}, 0)

			Convey("Then the summary should describe the match with the query values", func() {
				So(rep.Summary, ShouldEqual, "You match 2 out of 3 required skills (66.7%) for the job 'Data Analyst' in Cairo (senior level).")
				So(rep.Percent, ShouldEqual, 66.67)
			})

			Convey("Then counts, suggestions and the recommendation should follow the missing list", func() {
				So(rep.CVSkillsFound, ShouldResemble, []string{"SQL", "Excel"})
				So(rep.Matched, ShouldResemble, model.SkillCount{Count: 2, Skills: []string{"sql", "excel"}})
				So(rep.Missing, ShouldResemble, model.SkillCount{Count: 1, Skills: []string{"python"}})
				So(rep.TopMissingSuggestions, ShouldResemble, []string{"python"})
				So(rep.Recommendation, ShouldEqual, "To improve your chances, consider learning or highlighting these skills in your CV: python.")
			})

			Convey("Then the resolved posting should be reported", func() {
				So(rep.Job.Region, ShouldEqual, "Giza")
				So(rep.Fallback, ShouldBeTrue)
			})
		})

		Convey("When many skills are missing", func() {
			r.Missing = []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"}
			rep := report.BuildTarget(user, r, q, matching.Lookup{Posting: job}, 5)

			Convey("Then suggestions should be cut to five in order", func() {
				So(rep.TopMissingSuggestions, ShouldResemble, []string{"a1", "a2", "a3", "a4", "a5"})
				So(rep.Missing.Count, ShouldEqual, 7)
			})
		})

		Convey("When nothing is missing", func() {
			r.Missing = nil
			rep := report.BuildTarget(user, r, q, matching.Lookup{Posting: job}, 5)

			Convey("Then the recommendation should congratulate", func() {
				So(rep.Percent, ShouldEqual, 100)
				So(rep.TopMissingSuggestions, ShouldNotBeNil)
				So(rep.TopMissingSuggestions, ShouldBeEmpty)
				So(rep.Recommendation, ShouldContainSubstring, "every skill")
			})
		})

		Convey("When the posting has no skills", func() {
			rep := report.BuildTarget(user, model.MatchResult{Posting: job}, q, matching.Lookup{Posting: job}, 5)

			Convey("Then the percentage should be zero", func() {
				So(rep.Percent, ShouldEqual, 0)
				So(rep.Summary, ShouldContainSubstring, "0 out of 0 required skills (0.0%)")
			})
		})
	})
}
