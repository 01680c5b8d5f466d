package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/cvmatch/internal/adapters/http/api"
	service "github.com/okian/cvmatch/internal/app"
	"github.com/okian/cvmatch/internal/domain/catalog"
	"github.com/okian/cvmatch/internal/domain/document"
	"github.com/okian/cvmatch/internal/domain/matching"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/report"
	"github.com/okian/cvmatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// Mock implementations for testing
type mockDependencies struct {
	matchErr  error
	targetErr error
	submitErr error
	lookupErr error
	infoErr   error

	gotFilename string
	gotData     []byte
	gotQuery    report.Query
	gotUserID   string
}

func (m *mockDependencies) Match(ctx context.Context, filename string, data []byte) (model.MatchReport, error) {
	m.gotFilename, m.gotData = filename, data
	if m.matchErr != nil {
		return model.MatchReport{}, m.matchErr
	}
	return report.Empty(), nil
}

func (m *mockDependencies) Target(ctx context.Context, filename string, data []byte, q report.Query) (model.TargetReport, error) {
	m.gotFilename, m.gotData, m.gotQuery = filename, data, q
	if m.targetErr != nil {
		return model.TargetReport{}, m.targetErr
	}
	return model.TargetReport{Summary: "ok", Percent: 50}, nil
}

func (m *mockDependencies) SubmitAnalysis(ctx context.Context, userID, filename string, data []byte) (model.AnalysisRecord, error) {
	m.gotUserID, m.gotFilename, m.gotData = userID, filename, data
	if m.submitErr != nil {
		return model.AnalysisRecord{}, m.submitErr
	}
	return model.AnalysisRecord{ID: "analysis-1", UserID: userID, CVFilename: filename, Status: model.AnalysisPending}, nil
}

func (m *mockDependencies) LatestAnalysis(ctx context.Context, userID string) (model.AnalysisRecord, error) {
	m.gotUserID = userID
	if m.lookupErr != nil {
		return model.AnalysisRecord{}, m.lookupErr
	}
	return model.AnalysisRecord{ID: "latest", UserID: userID, Status: model.AnalysisDone}, nil
}

func (m *mockDependencies) Analysis(ctx context.Context, id string) (model.AnalysisRecord, error) {
	if m.lookupErr != nil {
		return model.AnalysisRecord{}, m.lookupErr
	}
	return model.AnalysisRecord{ID: id, Status: model.AnalysisPending}, nil
}

func (m *mockDependencies) CatalogInfo(ctx context.Context) (service.CatalogInfo, error) {
	if m.infoErr != nil {
		return service.CatalogInfo{}, m.infoErr
	}
	return service.CatalogInfo{Postings: 2, Vocabulary: 5, Fingerprint: "abc"}, nil
}

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

// multipartRequest builds a POST with the given form fields and, when
// filename is not empty, a "file" part.
func multipartRequest(path string, fields map[string]string, filename string, content []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if filename != "" {
		part, _ := mw.CreateFormFile("file", filename)
		_, _ = part.Write(content)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func newMux(deps api.Dependencies, opts ...api.ServerOption) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"started": true}}, opts...).Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then health should expose Prometheus metrics", func() {
			w := serve(mux, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "cvmatch_")
		})

		Convey("Then stats should be served as JSON", func() {
			w := serve(mux, httptest.NewRequest(http.MethodGet, "/stats", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then the catalog should be described", func() {
			w := serve(mux, httptest.NewRequest(http.MethodGet, "/catalog", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"postings":2`)
			So(w.Body.String(), ShouldContainSubstring, `"fingerprint":"abc"`)
		})

		Convey("Then wrong methods and unknown paths should be 404", func() {
			So(serve(mux, httptest.NewRequest(http.MethodGet, "/cv/inference", http.NoBody)).Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, httptest.NewRequest(http.MethodPost, "/catalog", http.NoBody)).Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, httptest.NewRequest(http.MethodGet, "/unknown", http.NoBody)).Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestCVHandler_Inference(t *testing.T) {
	Convey("Given the inference endpoint", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When a résumé is uploaded", func() {
			w := serve(mux, multipartRequest("/cv/inference", nil, "cv.pdf", []byte("%PDF")))

			Convey("Then the report should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotFilename, ShouldEqual, "cv.pdf")
				So(string(deps.gotData), ShouldEqual, "%PDF")
				So(w.Body.String(), ShouldContainSubstring, `"cv_skills":[]`)
				So(w.Body.String(), ShouldContainSubstring, `"bar_chart_data"`)
			})
		})

		Convey("When the file part is missing", func() {
			w := serve(mux, multipartRequest("/cv/inference", map[string]string{"x": "y"}, "", nil))

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
				So(decodeError(w)["message"], ShouldContainSubstring, "missing file")
			})
		})

		Convey("When the body is not multipart", func() {
			req := httptest.NewRequest(http.MethodPost, "/cv/inference", strings.NewReader("plain"))
			w := serve(mux, req)

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the upload exceeds the limit", func() {
			small := newMux(deps, api.WithMaxUploadBytes(1024))
			w := serve(small, multipartRequest("/cv/inference", nil, "cv.txt", bytes.Repeat([]byte("a"), 8192)))

			Convey("Then it should be rejected as too large", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(decodeError(w)["code"], ShouldEqual, "payload_too_large")
			})
		})

		Convey("When the pipeline fails", func() {
			cases := []struct {
				err    error
				status int
				code   string
			}{
				{&document.Error{Ext: "csv", Err: fmt.Errorf("%w: csv", document.ErrUnsupportedFormat)}, http.StatusBadRequest, "unsupported_format"},
				{fmt.Errorf("%w: broken", service.ErrExtractionFailed), http.StatusBadRequest, "extraction_failed"},
				{service.ErrNoCatalog, http.StatusServiceUnavailable, "unavailable"},
				{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
			}

			Convey("Then each error should map to its status and code", func() {
				for _, tc := range cases {
					deps.matchErr = tc.err
					w := serve(mux, multipartRequest("/cv/inference", nil, "cv.csv", []byte("x")))
					So(w.Code, ShouldEqual, tc.status)
					So(decodeError(w)["code"], ShouldEqual, tc.code)
				}
			})

			Convey("Then an unexpected cause should not leak to the client", func() {
				deps.matchErr = errors.New("open /var/lib/secret: permission denied")
				w := serve(mux, multipartRequest("/cv/inference", nil, "cv.txt", []byte("x")))
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["message"], ShouldContainSubstring, api.ErrInternal.Error())
				So(decodeError(w)["message"], ShouldNotContainSubstring, "secret")
			})
		})
	})
}

func TestCVHandler_Target(t *testing.T) {
	Convey("Given the target endpoint", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)
		fields := map[string]string{"job_title": " Backend Engineer ", "governorate": "Cairo", "level": "Senior"}

		Convey("When all fields are present", func() {
			w := serve(mux, multipartRequest("/cv/target", fields, "cv.txt", []byte("Python")))

			Convey("Then the query should be passed trimmed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotQuery, ShouldResemble, report.Query{Title: "Backend Engineer", Region: "Cairo", Level: "Senior"})
				So(w.Body.String(), ShouldContainSubstring, `"summary":"ok"`)
			})
		})

		Convey("When a form field is missing", func() {
			w := serve(mux, multipartRequest("/cv/target", map[string]string{"job_title": "x", "governorate": "  "}, "cv.txt", []byte("Python")))

			Convey("Then the first missing field should be named", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
				So(decodeError(w)["message"], ShouldContainSubstring, "missing governorate")
			})
		})

		Convey("When the résumé has no skills", func() {
			deps.targetErr = service.ErrNoSkillsFound
			w := serve(mux, multipartRequest("/cv/target", fields, "cv.txt", []byte("hello")))

			Convey("Then no_skills_found should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "no_skills_found")
			})
		})

		Convey("When the posting does not exist", func() {
			deps.targetErr = fmt.Errorf("%w for title %q", matching.ErrPostingNotFound, "chef")
			w := serve(mux, multipartRequest("/cv/target", fields, "cv.txt", []byte("Python")))

			Convey("Then posting_not_found should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "posting_not_found")
			})
		})
	})
}

func TestCVHandler_Analyze(t *testing.T) {
	Convey("Given the analyze endpoint", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When a résumé is submitted", func() {
			w := serve(mux, multipartRequest("/cv/analyze", map[string]string{"user_id": "u-1"}, "cv.docx", []byte("PK")))

			Convey("Then it should be accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var body map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["analysis_id"], ShouldEqual, "analysis-1")
				So(body["filename"], ShouldEqual, "cv.docx")
				So(body["message"], ShouldNotBeEmpty)
				So(deps.gotUserID, ShouldEqual, "u-1")
			})
		})

		Convey("When user_id is missing", func() {
			w := serve(mux, multipartRequest("/cv/analyze", nil, "cv.docx", []byte("PK")))

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "missing user_id")
			})
		})

		Convey("When the queue is full", func() {
			deps.submitErr = service.ErrBackpressure
			w := serve(mux, multipartRequest("/cv/analyze", map[string]string{"user_id": "u-1"}, "cv.docx", []byte("PK")))

			Convey("Then backpressure should be signalled", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(decodeError(w)["code"], ShouldEqual, "backpressure")
			})
		})
	})
}

func TestAnalysisHandler(t *testing.T) {
	Convey("Given the analysis read endpoints", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("When reading a user's latest analysis", func() {
			w := serve(mux, httptest.NewRequest(http.MethodGet, "/cv/by_user/u-7", http.NoBody))

			Convey("Then the record should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotUserID, ShouldEqual, "u-7")
				So(w.Body.String(), ShouldContainSubstring, `"status":"done"`)
			})
		})

		Convey("When reading an analysis by id", func() {
			w := serve(mux, httptest.NewRequest(http.MethodGet, "/cv/analysis/abc", http.NoBody))

			Convey("Then the record should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"id":"abc"`)
			})
		})

		Convey("When nothing is stored", func() {
			deps.lookupErr = service.ErrAnalysisNotFound
			byUser := serve(mux, httptest.NewRequest(http.MethodGet, "/cv/by_user/u-7", http.NoBody))
			byID := serve(mux, httptest.NewRequest(http.MethodGet, "/cv/analysis/abc", http.NoBody))

			Convey("Then both should be 404", func() {
				So(byUser.Code, ShouldEqual, http.StatusNotFound)
				So(byID.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(byID)["code"], ShouldEqual, "not_found")
			})
		})
	})
}

func TestServerWithService(t *testing.T) {
	Convey("Given the API backed by a real service", t, func() {
		c := catalog.New(
			model.JobPosting{Title: "Backend Engineer", Region: "Cairo", SeniorityLevel: "Senior", RequiredSkills: []string{"Python", "Docker", "Kubernetes"}},
			model.JobPosting{Title: "Data Analyst", Region: "Giza", SeniorityLevel: "Junior", RequiredSkills: []string{"SQL", "Excel"}},
		)
		svc := service.New(service.WithCatalog(c), service.WithWorkerCount(1))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)
		cv := []byte("Python developer who ships Docker images.")

		Convey("When targeting a posting", func() {
			w := serve(mux, multipartRequest("/cv/target",
				map[string]string{"job_title": "backend engineer", "governorate": "cairo", "level": "senior"}, "cv.txt", cv))

			Convey("Then the summary should describe the match", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body model.TargetReport
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Summary, ShouldEqual, "You match 2 out of 3 required skills (66.7%) for the job 'Backend Engineer' in Cairo (senior level).")
				So(body.TopMissingSuggestions, ShouldResemble, []string{"Kubernetes"})
			})
		})

		Convey("When uploading a spreadsheet as a résumé", func() {
			w := serve(mux, multipartRequest("/cv/inference", nil, "cv.csv", cv))

			Convey("Then the format should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "unsupported_format")
				So(decodeError(w)["message"], ShouldContainSubstring, "csv")
			})
		})

		Convey("When submitting an analysis and polling for it", func() {
			w := serve(mux, multipartRequest("/cv/analyze", map[string]string{"user_id": "u-1"}, "cv.txt", cv))
			So(w.Code, ShouldEqual, http.StatusAccepted)

			var status string
			deadline := time.Now().Add(3 * time.Second)
			for time.Now().Before(deadline) {
				r := serve(mux, httptest.NewRequest(http.MethodGet, "/cv/by_user/u-1", http.NoBody))
				var rec model.AnalysisRecord
				_ = json.Unmarshal(r.Body.Bytes(), &rec)
				status = string(rec.Status)
				if rec.Status == model.AnalysisDone {
					break
				}
				time.Sleep(5 * time.Millisecond)
			}

			Convey("Then the analysis should complete", func() {
				So(status, ShouldEqual, string(model.AnalysisDone))
			})
		})
	})
}
