package serve

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServer_AnalyzeBatch_BeforeEOF checks that a request decoded just
// before the input ends is still answered.
func TestServer_AnalyzeBatch_BeforeEOF(t *testing.T) {
	a := newTestAnalyzer(t)

	for i := range 10 {
		request := `{"type":"analyze_batch","payload":{"items":[{"path":"a.c","content":"int a;\n"},{"path":"b.py","content":"x = 1\n"}]}}` + "\n"
		in := strings.NewReader(request)
		out := &strings.Builder{}

		srv := NewServer(a, nil, in, out)
		require.NoError(t, srv.Run(context.Background()))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2, "iteration %d: expected ready and analyze_batch responses", i)

		var resp Response
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp), "iteration %d", i)
		assert.True(t, resp.Success, "iteration %d", i)
		assert.Equal(t, "analyze_batch", resp.Type, "iteration %d", i)
	}
}
