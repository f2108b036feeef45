package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "years": {"type": "integer", "minimum": 0}
  }
}`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0644))
	return path
}

func TestValidateBytes_Valid(t *testing.T) {
	err := ValidateBytes(writeSchema(t), []byte(`{"name": "Ada", "years": 10}`))
	assert.NoError(t, err)
}

func TestValidateBytes_MissingField(t *testing.T) {
	err := ValidateBytes(writeSchema(t), []byte(`{"years": 3}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Errors[0].Message, "name")
}

func TestValidateBytes_WrongType(t *testing.T) {
	err := ValidateBytes(writeSchema(t), []byte(`{"name": "Ada", "years": "ten"}`))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "years", validationErr.Errors[0].Field)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateBytes_SchemaNotFound(t *testing.T) {
	err := ValidateBytes(filepath.Join(t.TempDir(), "missing.json"), []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateBytes_MalformedDocument(t *testing.T) {
	err := ValidateBytes(writeSchema(t), []byte(`{ invalid json }`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateBytes_BadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": 12}`), 0644))

	err := ValidateBytes(path, []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Path)
}

func TestResolveSchemaPath(t *testing.T) {
	path := writeSchema(t)
	assert.Equal(t, path, ResolveSchemaPath(path))
	assert.Empty(t, ResolveSchemaPath(filepath.Join(t.TempDir(), "nope.json")))
	assert.Empty(t, ResolveSchemaPath("schemas/definitely-missing.schema.json"))
}
