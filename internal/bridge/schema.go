package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const invocationSchemaID = "https://github.com/bnema/jsbridge/invocation.schema.json"

// invocationSchemaShape documents the wire shape for schema reflection.
// Arguments are left untyped here; string-ness is checked by the dispatcher.
type invocationSchemaShape struct {
	Name string `json:"name" jsonschema:"minLength=1,description=Name of the native method to call"`
	Len  int    `json:"len" jsonschema:"minimum=0,description=Number of arguments"`
	Args []any  `json:"args" jsonschema:"description=Positional arguments stringified by the proxy"`
}

var (
	schemaOnce     sync.Once
	schemaJSON     []byte
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadInvocationSchema() {
	r := &invopop.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	schema := r.Reflect(&invocationSchemaShape{})
	schema.ID = invopop.ID(invocationSchemaID)
	schema.Title = "jsbridge invocation message"
	schema.Description = "Message sent by the injected proxy for one native call"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		schemaErr = fmt.Errorf("marshal invocation schema: %w", err)
		return
	}
	schemaJSON = data

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(invocationSchemaID, bytes.NewReader(data)); err != nil {
		schemaErr = fmt.Errorf("add invocation schema: %w", err)
		return
	}
	compiledSchema, schemaErr = compiler.Compile(invocationSchemaID)
	if schemaErr != nil {
		schemaErr = fmt.Errorf("compile invocation schema: %w", schemaErr)
	}
}

// Schema returns the JSON schema of the invocation wire message.
func Schema() ([]byte, error) {
	schemaOnce.Do(loadInvocationSchema)
	if schemaErr != nil {
		return nil, schemaErr
	}
	return schemaJSON, nil
}

func validateInvocationPayload(payload []byte) error {
	schemaOnce.Do(loadInvocationSchema)
	if schemaErr != nil {
		return schemaErr
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("invalid JSON: trailing data after message")
	}

	if err := compiledSchema.Validate(instance); err != nil {
		return fmt.Errorf("payload does not match invocation schema: %s", strings.TrimSpace(err.Error()))
	}
	return nil
}
