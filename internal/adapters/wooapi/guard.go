package wooapi

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Conforms checks that payload structurally matches the schema value.
// schema must be a pointer to the expected type; strict rejects fields the
// schema does not declare. The check is pure and deterministic: the same
// schema/payload/strict triple always yields the same result.
func Conforms(schema interface{}, payload []byte, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(schema); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}

	if v, ok := schema.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return validate.Struct(schema)
}
