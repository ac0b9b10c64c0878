package batch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeStatus(t *testing.T) {
	cases := []struct {
		name      string
		succeeded int
		failed    int
		want      Status
	}{
		{"all succeeded", 3, 0, StatusSuccess},
		{"empty batch", 0, 0, StatusSuccess},
		{"mixed", 2, 1, StatusPartialSuccess},
		{"all failed", 0, 2, StatusFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := NewEnvelope[int](tc.succeeded + tc.failed)
			for i := 0; i < tc.succeeded; i++ {
				env.Succeed(i)
			}
			for i := 0; i < tc.failed; i++ {
				env.Fail(-i, "boom")
			}
			env.Finish("test")

			assert.Equal(t, tc.want, env.Status)
			assert.Equal(t, tc.succeeded, env.SuccessCount)
			assert.Equal(t, tc.failed, env.FailureCount)
			assert.Len(t, env.Errors, tc.failed)
			assert.Len(t, env.Items, tc.succeeded+tc.failed)
		})
	}
}

func TestEnvelopePreservesOrder(t *testing.T) {
	env := NewEnvelope[string](3)
	env.Succeed("row 1")
	env.Fail("row 2", "row 2: subject code not found")
	env.Succeed("row 3")
	env.Finish("test")

	assert.Equal(t, []string{"row 1", "row 2", "row 3"}, env.Items)
	assert.Equal(t, []string{"row 2: subject code not found"}, env.Errors)
}

func TestEnvelopeJSONHasEmptySlices(t *testing.T) {
	env := NewEnvelope[int](0)
	env.Finish("test")

	encoded, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","success_count":0,"failure_count":0,"errors":[],"items":[]}`, string(encoded))
}
