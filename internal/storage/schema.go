package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/utils"
)

//go:embed clients.schema.json
var clientsSchema []byte

const schemaURL = "clients.schema.json"

// SchemaError is one schema violation in a stored blob.
type SchemaError struct {
	Path string // dotted path to the offending value
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	Clients  int
	Tasks    int
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(clientsSchema)); err != nil {
			compileErr = fmt.Errorf("load schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks a stored blob against the embedded schema and reports
// dates that match the layout but are not real calendar dates. Load never
// calls it.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		result.Warnings = append(result.Warnings, "stored blob is empty")
		return result
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &SchemaError{Err: fmt.Errorf("not valid JSON: %w", err)})
		return result
	}

	s, err := schema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("schema validation unavailable: %v", err))
	} else if err := s.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	list, err := Decode(data)
	if err != nil {
		return result
	}
	result.Clients = len(list)
	seen := make(map[string]bool, len(list))
	for i, c := range list {
		if seen[c.Code] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("[%d].codigo: duplicate code %q", i, c.Code))
		}
		seen[c.Code] = true
		for j, t := range c.Tasks {
			result.Tasks++
			if len(t.DueDate) == len(clients.DateLayout) && !clients.ValidDate(t.DueDate) {
				result.Valid = false
				result.Errors = append(result.Errors, &SchemaError{
					Path: fmt.Sprintf("[%d].tarefas[%d].limite", i, j),
					Err:  fmt.Errorf("not a calendar date: %q", t.DueDate),
				})
			}
		}
	}
	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &SchemaError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
