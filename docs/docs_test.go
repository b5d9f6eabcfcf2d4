package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocIsRegisteredAndTagged(t *testing.T) {
	var doc struct {
		Info  map[string]any                       `json:"info"`
		Paths map[string]map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "DeliveryFlow API", doc.Info["title"])

	want := map[string][]string{
		"/customers":      {"get", "post"},
		"/customers/{id}": {"get", "put", "delete"},
		"/orders":         {"get", "post"},
		"/orders/{id}":    {"get", "put", "delete"},
		"/health":         {"get"},
	}
	require.Len(t, doc.Paths, len(want))
	for path, methods := range want {
		ops, ok := doc.Paths[path]
		require.True(t, ok, path)
		assert.Len(t, ops, len(methods), path)
		for _, m := range methods {
			op, ok := ops[m]
			require.True(t, ok, "%s %s", m, path)
			assert.NotEmpty(t, op["tags"], "%s %s", m, path)
		}
	}
}
