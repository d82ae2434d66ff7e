package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, name := range []string{Ontology, Overrides} {
		t.Run(name, func(t *testing.T) {
			data, err := Read(name)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", name)
			assert.Equal(t, "object", v["type"])
			assert.Contains(t, v, "required")
		})
	}
}

func TestRead_Unknown(t *testing.T) {
	_, err := Read("job_profile.schema.json")
	assert.Error(t, err)
}
