// Package validation checks request bodies against the embedded JSON schemas.
package validation

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://daily-report-service.local/schemas/"

// Schema names an embedded request schema.
type Schema string

const (
	SchemaLogin             Schema = "login"
	SchemaRefresh           Schema = "refresh"
	SchemaPasswordChange    Schema = "password_change"
	SchemaSalesCreate       Schema = "sales_create"
	SchemaSalesUpdate       Schema = "sales_update"
	SchemaCustomerCreate    Schema = "customer_create"
	SchemaDailyReportCreate Schema = "daily_report_create"
	SchemaVisitRecordCreate Schema = "visit_record_create"
	SchemaCommentCreate     Schema = "comment_create"
)

// bodyField is the key used when the body itself cannot be parsed.
const bodyField = "body"

// ValidationError lists the violations per field. Field paths are slash
// separated, e.g. "visit_records/0/visit_time".
type ValidationError struct {
	Schema Schema
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: invalid fields %s", e.Schema, strings.Join(names, ", "))
}

// Details renders the violations for an error response.
func (e *ValidationError) Details() map[string]any {
	details := make(map[string]any, len(e.Fields))
	for field, msgs := range e.Fields {
		details[field] = msgs
	}
	return details
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Validator holds the compiled request schemas.
type Validator struct {
	schemas map[Schema]*jschema.Schema
	printer *message.Printer
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read embedded schemas: %w", err)
	}

	c := jschema.NewCompiler()
	c.AssertFormat()

	names := make([]Schema, 0, len(entries))
	for _, entry := range entries {
		data, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}
		doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", entry.Name(), err)
		}
		if err := c.AddResource(schemaBaseURL+entry.Name(), doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", entry.Name(), err)
		}
		names = append(names, Schema(strings.TrimSuffix(entry.Name(), ".json")))
	}

	v := &Validator{
		schemas: make(map[Schema]*jschema.Schema, len(names)),
		printer: message.NewPrinter(language.English),
	}
	for _, name := range names {
		sch, err := c.Compile(schemaBaseURL + string(name) + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = sch
	}
	return v, nil
}

// Validate checks a raw JSON body. Violations are returned as *ValidationError;
// any other error means the schema is unknown.
func (v *Validator) Validate(name Schema, body []byte) error {
	sch, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	inst, err := jschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		verr := &ValidationError{Schema: name}
		verr.add(bodyField, "request body must be valid JSON")
		return verr
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil
	}
	schemaErr, ok := err.(*jschema.ValidationError)
	if !ok {
		return fmt.Errorf("validate %s: %w", name, err)
	}

	verr := &ValidationError{Schema: name}
	v.collect(verr, schemaErr)
	return verr
}

// collect walks to the leaf causes, which carry the concrete violations.
func (v *Validator) collect(verr *ValidationError, e *jschema.ValidationError) {
	if len(e.Causes) > 0 {
		for _, cause := range e.Causes {
			v.collect(verr, cause)
		}
		return
	}

	location := strings.Join(e.InstanceLocation, "/")
	if required, ok := e.ErrorKind.(*kind.Required); ok {
		for _, missing := range required.Missing {
			verr.add(joinField(location, missing), "is required")
		}
		return
	}
	if location == "" {
		location = bodyField
	}
	verr.add(location, e.ErrorKind.LocalizedString(v.printer))
}

func joinField(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
