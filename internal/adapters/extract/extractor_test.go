// internal/adapters/extract/extractor_test.go
package extract

import (
	"path/filepath"
	"strings"
	"testing"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/logx"
	"icpharvest/internal/platform/reqlog"
	"icpharvest/internal/testutil"
)

func newExtractor() *Extractor {
	return New(nil, logx.NewSilent())
}

func TestExtract_Values(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		resource domain.ResourceType
		want     []string
		stats    domain.ExtractionStats
	}{
		{
			name:     "web skips empty domain and keeps order",
			body:     testutil.BodyWebMixed,
			resource: domain.ResourceWeb,
			want:     []string{"a.example.com", "b.example.com"},
			stats:    domain.ExtractionStats{Total: 3, Valid: 2, Skipped: 1},
		},
		{
			name:     "app trims values and skips items without field",
			body:     testutil.BodyAppPadded,
			resource: domain.ResourceApp,
			want:     []string{"Alpha App", "Beta"},
			stats:    domain.ExtractionStats{Total: 3, Valid: 2, Skipped: 1},
		},
		{
			name:     "mapp uses serviceName",
			body:     `{"code":200,"params":{"list":[{"serviceName":"Mini","domain":"ignored.example.com"}]}}`,
			resource: domain.ResourceMApp,
			want:     []string{"Mini"},
			stats:    domain.ExtractionStats{Total: 1, Valid: 1},
		},
		{
			name:     "non-object items and non-string fields are skipped",
			body:     `{"code":200,"params":{"list":[1,"x",null,{"domain":42},{"domain":"ok.example.com"}]}}`,
			resource: domain.ResourceWeb,
			want:     []string{"ok.example.com"},
			stats:    domain.ExtractionStats{Total: 5, Valid: 1, Skipped: 4},
		},
		{
			name:     "surrounding whitespace in body",
			body:     "\n  " + testutil.BodyWebMixed + "  \n",
			resource: domain.ResourceWeb,
			want:     []string{"a.example.com", "b.example.com"},
			stats:    domain.ExtractionStats{Total: 3, Valid: 2, Skipped: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, stats := newExtractor().ExtractWithStats(tt.body, "example.com", tt.resource)

			testutil.AssertFalse(t, res.IsDiagnostic(), "should not be diagnostic")
			testutil.AssertEqual(t, res.Values, tt.want, "values")
			testutil.AssertEqual(t, stats, tt.stats, "stats")
		})
	}
}

func TestExtract_Diagnostics(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		failure domain.ExtractionFailure
		detail  string
	}{
		{"empty body", "", domain.FailureEmptyBody, ""},
		{"whitespace body", " \n\t ", domain.FailureEmptyBody, ""},
		{"html body", testutil.BodyNotJSON, domain.FailureParse, ""},
		{"truncated json", `{"code":200,"params":{"list":[`, domain.FailureParse, ""},
		{"top-level array", `[{"domain":"a"}]`, domain.FailureParse, ""},
		{"server error", testutil.BodyServerError, domain.FailureStatus, "code: 500"},
		{"missing code", `{"params":{"list":[]}}`, domain.FailureStatus, "code: missing"},
		{"string code", `{"code":"200","params":{"list":[]}}`, domain.FailureStatus, `code: "200"`},
		{"missing params", testutil.BodyMissingParams, domain.FailureMissingContainer, "params"},
		{"null params", `{"code":200,"params":null}`, domain.FailureMissingContainer, "params"},
		{"params not object", `{"code":200,"params":[1]}`, domain.FailureMalformedContainer, "params is an array"},
		{"missing list", testutil.BodyMissingList, domain.FailureMissingContainer, "params.list"},
		{"list not array", testutil.BodyListNotArray, domain.FailureMalformedContainer, "params.list is an object"},
		{"list is string", `{"code":200,"params":{"list":"a.example.com"}}`, domain.FailureMalformedContainer, "params.list is a string"},
		{"empty list", testutil.BodyEmptyList, domain.FailureNoValues, "domain"},
		{"no valid values", testutil.BodyNoValidValues, domain.FailureNoValues, "domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newExtractor().Extract(tt.body, "example.com", domain.ResourceWeb)

			testutil.AssertTrue(t, res.IsDiagnostic(), "should be diagnostic")
			testutil.AssertEqual(t, res.Failure, tt.failure, "failure kind")
			testutil.AssertLen(t, res.Values, 1, "exactly one placeholder")
			msg := res.Values[0]
			testutil.AssertContains(t, msg, "example.com", "names the target")
			testutil.AssertContains(t, msg, "web", "names the resource")
			testutil.AssertContains(t, msg, string(tt.failure), "names the failure")
			if tt.detail != "" {
				testutil.AssertContains(t, msg, tt.detail, "detail")
			}
		})
	}
}

func TestExtract_ParseFailureMessage(t *testing.T) {
	res := newExtractor().Extract("not json", "Example Tech Co Ltd", domain.ResourceApp)

	testutil.AssertTrue(t, strings.HasPrefix(res.Values[0], "[Example Tech Co Ltd] app: parse failure"), "placeholder format: "+res.Values[0])
}

func TestExtract_AuditLog(t *testing.T) {
	dir := t.TempDir()
	sink := reqlog.New(dir, logx.NewSilent()).WithClock(testutil.FixedTime)
	e := New(sink, logx.NewSilent())

	e.Extract(testutil.BodyWebMixed, "example.com", domain.ResourceWeb)
	e.Extract(testutil.BodyServerError, "example.com", domain.ResourceWeb)

	log := testutil.ReadFile(t, filepath.Join(dir, "web_20261019.log"))
	testutil.AssertContains(t, log, "raw response (first 500 chars): "+testutil.BodyWebMixed, "raw preview")
	testutil.AssertContains(t, log, "list length: 3", "list length")
	testutil.AssertContains(t, log, "extraction stats: 2 valid, 1 skipped", "stats")
	testutil.AssertContains(t, log, "server reported non-success status: code: 500", "failure reason")
}

func TestPreview(t *testing.T) {
	short := "abc"
	testutil.AssertEqual(t, preview(short), short, "short body unchanged")

	long := strings.Repeat("x", 600)
	got := preview(long)
	testutil.AssertEqual(t, got, strings.Repeat("x", 500)+"...", "long body truncated")
}

func TestExtract_FieldMappingIsStable(t *testing.T) {
	e := newExtractor()
	body := `{"code":200,"params":{"list":[{"domain":"d.example.com","serviceName":"svc"}]}}`

	for i := 0; i < 3; i++ {
		testutil.AssertEqual(t, e.Extract(body, "t", domain.ResourceWeb).Values, []string{"d.example.com"}, "web")
		testutil.AssertEqual(t, e.Extract(body, "t", domain.ResourceApp).Values, []string{"svc"}, "app")
		testutil.AssertEqual(t, e.Extract(body, "t", domain.ResourceMApp).Values, []string{"svc"}, "mapp")
	}
}
