package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{"document symbols", `[{"name": "Server"}]`, "lsp", false},
		{"leading whitespace", "\n  [\n]", "lsp", false},
		{"ctags lines", `{"_type": "tag", "name": "Widget"}`, "ctags", false},
		{"call hierarchy", `{"item": {"name": "dispatch"}, "incoming": []}`, "calls", false},
		{"diagnostics", `{"uri": "file:///a.go", "diagnostics": []}`, "diagnostics", false},
		{"empty", "   ", "", true},
		{"unknown object", `{"foo": 1}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Detect([]byte(tt.payload), "a.go")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}
