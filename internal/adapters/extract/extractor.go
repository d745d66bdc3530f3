// internal/adapters/extract/extractor.go
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"icpharvest/internal/core/domain"
	"icpharvest/internal/platform/logx"
	"icpharvest/internal/platform/reqlog"
)

const (
	successCode = 200

	// auditPreview caracteres del cuerpo crudo copiados al log de peticiones
	auditPreview = 500
)

// Extractor validates an aggregation-service response and pulls the mapped field out of every
// list item. Validation problems become a single diagnostic value, never an error.
type Extractor struct {
	reqlog *reqlog.Sink
	logger logx.Logger
}

// New creates an Extractor. sink may be nil.
func New(sink *reqlog.Sink, logger logx.Logger) *Extractor {
	return &Extractor{
		reqlog: sink,
		logger: logger.With("component", "extractor"),
	}
}

// Extract implements ports.Extractor.
func (e *Extractor) Extract(body string, target domain.Target, resource domain.ResourceType) domain.ExtractionResult {
	res, _ := e.ExtractWithStats(body, target, resource)
	return res
}

// ExtractWithStats is Extract plus the valid/skipped audit counts (zero on failure).
// Checks run in order and stop at the first failure:
// empty body, parse, status code, params container, list container, values.
func (e *Extractor) ExtractWithStats(body string, target domain.Target, resource domain.ResourceType) (domain.ExtractionResult, domain.ExtractionStats) {
	var stats domain.ExtractionStats

	if strings.TrimSpace(body) == "" {
		return e.fail(target, resource, domain.FailureEmptyBody, ""), stats
	}

	e.reqlog.Logf(resource, target, "raw response (first %d chars): %s", auditPreview, preview(body))

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		return e.fail(target, resource, domain.FailureParse, err.Error()), stats
	}

	if code, ok := statusCode(top["code"]); !ok {
		return e.fail(target, resource, domain.FailureStatus, "code: "+code), stats
	}

	rawParams, ok := present(top, "params")
	if !ok {
		return e.fail(target, resource, domain.FailureMissingContainer, "params"), stats
	}
	var params map[string]json.RawMessage
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return e.fail(target, resource, domain.FailureMalformedContainer, "params is "+jsonKind(rawParams)), stats
	}

	rawList, ok := present(params, "list")
	if !ok {
		return e.fail(target, resource, domain.FailureMissingContainer, "params.list"), stats
	}
	var list []json.RawMessage
	if err := json.Unmarshal(rawList, &list); err != nil {
		return e.fail(target, resource, domain.FailureMalformedContainer, "params.list is "+jsonKind(rawList)), stats
	}
	e.reqlog.Logf(resource, target, "list length: %d", len(list))

	field := resource.FieldName()
	values := make([]string, 0, len(list))
	for _, item := range list {
		if v, ok := fieldValue(item, field); ok {
			values = append(values, v)
		}
	}

	stats = domain.ExtractionStats{
		Total:   len(list),
		Valid:   len(values),
		Skipped: len(list) - len(values),
	}
	e.reqlog.Logf(resource, target, "extraction stats: %d valid, %d skipped", stats.Valid, stats.Skipped)

	if len(values) == 0 {
		return e.fail(target, resource, domain.FailureNoValues, field), stats
	}

	e.logger.Debug("values extracted",
		"target", target,
		"resource", resource,
		"valid", stats.Valid,
		"skipped", stats.Skipped,
	)
	return domain.ValuesResult(values), stats
}

func (e *Extractor) fail(target domain.Target, resource domain.ResourceType, failure domain.ExtractionFailure, detail string) domain.ExtractionResult {
	msg := string(failure)
	if detail != "" {
		msg += ": " + detail
	}
	e.reqlog.Log(resource, target, msg)
	e.logger.Debug("extraction failed",
		"target", target,
		"resource", resource,
		"reason", msg,
	)
	return domain.DiagnosticResult(target, resource, failure, detail)
}

// statusCode reports whether raw holds the success code. The returned string describes the
// value actually found, for diagnostics.
func statusCode(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "missing", false
	}
	var code json.Number
	if raw[0] == '"' {
		return string(raw), false
	}
	if err := json.Unmarshal(raw, &code); err != nil {
		return string(raw), false
	}
	n, err := code.Int64()
	if err != nil || n != successCode {
		return code.String(), false
	}
	return code.String(), true
}

// present returns m[key] unless the key is absent or JSON null.
func present(m map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := m[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

// fieldValue reads item[field] as a trimmed, non-empty string.
// Non-object items and non-string values count as skipped.
func fieldValue(item json.RawMessage, field string) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil {
		return "", false
	}
	raw, ok := obj[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "empty"
	}
	switch trimmed[0] {
	case '{':
		return "an object"
	case '[':
		return "an array"
	case '"':
		return "a string"
	case 't', 'f':
		return "a boolean"
	default:
		return "a number"
	}
}

func preview(body string) string {
	r := []rune(body)
	if len(r) <= auditPreview {
		return body
	}
	return fmt.Sprintf("%s...", string(r[:auditPreview]))
}
