package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrInvalidDocument = errors.New("document does not match schema")

// Validator checks JSON documents against one compiled schema.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

func Compile(name string, schema []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", name, err)
	}

	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Validator{name: name, schema: compiled}, nil
}

func MustCompile(name string, schema []byte) *Validator {
	v, err := Compile(name, schema)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Validator) Validate(ctx context.Context, document []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	decoder := json.NewDecoder(bytes.NewReader(document))
	decoder.UseNumber()
	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return fmt.Errorf("decode %s document: %w", v.name, errors.Join(ErrInvalidDocument, err))
	}
	if err := v.schema.Validate(decoded); err != nil {
		return fmt.Errorf("validate %s: %w", v.name, errors.Join(ErrInvalidDocument, err))
	}
	return nil
}
