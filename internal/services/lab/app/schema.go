package app

import (
	"bytes"
	_ "embed"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "github.com/sanjayfuloria/simulation-game/internal/platform/errors"
)

//go:embed decision_schema.json
var decisionSchemaJSON []byte

var decisionSchema = mustCompileDecisionSchema()

func mustCompileDecisionSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("decision_schema.json", bytes.NewReader(decisionSchemaJSON)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("decision_schema.json")
}

// validateDecisionPayload checks a raw submission against the decision schema
// before any of it is trusted.
func validateDecisionPayload(raw []byte) error {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return apperrors.Wrap(apperrors.CodeRequestMalformed, "request body is not valid JSON", err)
	}
	if err := decisionSchema.Validate(payload); err != nil {
		return apperrors.Wrap(apperrors.CodeDecisionInvalidPayload, "decision payload failed validation", err)
	}
	return nil
}
