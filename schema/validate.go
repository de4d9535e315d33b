package schema

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed report.schema.json
var reportSchema []byte

// ReportSchema returns the JSON Schema that every written report conforms to.
func ReportSchema() []byte {
	return reportSchema
}

// ValidateReportJSON checks a serialized report against the embedded schema.
// It returns one message per violation; an empty slice means the report is valid.
// The error is non-nil only when the document could not be evaluated at all.
func ValidateReportJSON(data []byte) ([]string, error) {
	schemaLoader := gojsonschema.NewBytesLoader(reportSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate report against schema: %w", err)
	}
	if result.Valid() {
		return []string{}, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}
	return violations, nil
}
