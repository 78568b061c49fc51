package services

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"wisdomcard/internal/models/response_models"
	"wisdomcard/internal/prompts"
)

// PayloadDecoder turns the model's text into a Wisdom for one variant.
type PayloadDecoder struct {
	variant prompts.Variant
	schema  *gojsonschema.Schema
}

func NewPayloadDecoder(v prompts.Variant) (*PayloadDecoder, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(v.Schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema for variant %s: %w", v.Name, err)
	}
	return &PayloadDecoder{variant: v, schema: schema}, nil
}

func (d *PayloadDecoder) Decode(content string) (response_models.Wisdom, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return response_models.Wisdom{}, &PayloadError{Variant: d.variant.Name, Err: err}
	}

	result, err := d.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return response_models.Wisdom{}, &PayloadError{Variant: d.variant.Name, Err: err}
	}
	if !result.Valid() {
		violations := make([]FieldViolation, len(result.Errors()))
		for i, re := range result.Errors() {
			violations[i] = FieldViolation{Field: re.Field(), Message: re.Description()}
		}
		return response_models.Wisdom{}, &PayloadError{Variant: d.variant.Name, Violations: violations}
	}

	out := response_models.Wisdom{Layout: d.variant.Layout}
	switch d.variant.Layout {
	case response_models.LayoutSpread:
		var spread response_models.SpreadWisdom
		if err := json.Unmarshal([]byte(content), &spread); err != nil {
			return response_models.Wisdom{}, &PayloadError{Variant: d.variant.Name, Err: err}
		}
		out.Spread = &spread
	default:
		var card response_models.CardWisdom
		if err := json.Unmarshal([]byte(content), &card); err != nil {
			return response_models.Wisdom{}, &PayloadError{Variant: d.variant.Name, Err: err}
		}
		out.Card = &card
	}
	return out, nil
}
