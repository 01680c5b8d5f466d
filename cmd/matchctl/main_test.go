package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/cvmatch/internal/domain/document"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMatchctl(t *testing.T) {
	convey.Convey("Given a catalog and two résumés", t, func() {
		dir := t.TempDir()
		catalogPath := writeFile(t, dir, "jobs.csv",
			"Job Title,skills,Governorate,professional level\n"+
				"Backend Engineer,\"Python, Docker, Kubernetes\",Cairo,Senior\n"+
				"Data Analyst,\"SQL, Excel, Python\",Giza,Junior\n"+
				"Designer,\"Figma, Photoshop\",Cairo,Junior\n")
		backend := writeFile(t, dir, "backend.txt", "Python and Docker every day.")
		analyst := writeFile(t, dir, "analyst.txt", "SQL dashboards in Excel.")

		convey.Convey("When matching both files", func() {
			out, _, err := run("match", "--catalog", catalogPath, "--top", "2", backend, analyst)

			convey.Convey("Then one report per file should be printed in argument order", func() {
				convey.So(err, convey.ShouldBeNil)
				var reports []struct {
					File   string `json:"file"`
					Report struct {
						CVSkills   []string          `json:"cv_skills"`
						TopMatches []json.RawMessage `json:"top_matches"`
					} `json:"report"`
				}
				convey.So(json.Unmarshal([]byte(out), &reports), convey.ShouldBeNil)
				convey.So(len(reports), convey.ShouldEqual, 2)
				convey.So(reports[0].File, convey.ShouldEqual, backend)
				convey.So(reports[0].Report.CVSkills, convey.ShouldResemble, []string{"Python", "Docker"})
				convey.So(len(reports[0].Report.TopMatches), convey.ShouldEqual, 2)
				convey.So(reports[1].Report.CVSkills, convey.ShouldResemble, []string{"SQL", "Excel"})
			})
		})

		convey.Convey("When targeting a posting", func() {
			out, _, err := run("target", "--catalog", catalogPath,
				"--title", "Backend Engineer", "--region", "Cairo", "--level", "Senior", backend)

			convey.Convey("Then the target report should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var rep model.TargetReport
				convey.So(json.Unmarshal([]byte(out), &rep), convey.ShouldBeNil)
				convey.So(rep.Matched.Skills, convey.ShouldResemble, []string{"Python", "Docker"})
				convey.So(rep.Missing.Skills, convey.ShouldResemble, []string{"Kubernetes"})
			})
		})

		convey.Convey("When a required target flag is missing", func() {
			_, _, err := run("target", "--catalog", catalogPath, "--title", "Backend Engineer", backend)

			convey.Convey("Then the command should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a résumé has an unsupported extension", func() {
			csv := writeFile(t, dir, "cv.csv", "Python")
			out, _, err := run("match", "--catalog", catalogPath, csv)

			convey.Convey("Then nothing should be printed and the error should name the format", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "csv")
				convey.So(out, convey.ShouldBeEmpty)
				var docErr *document.Error
				convey.So(errors.As(err, &docErr), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the catalog is missing", func() {
			_, _, err := run("match", "--catalog", filepath.Join(dir, "nope.csv"), backend)

			convey.Convey("Then the error should mention the catalog", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "load catalog")
			})
		})
	})
}
