package registry

import (
	"os"
	"path/filepath"
	"testing"

	"loan-intake/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_AllRequired(t *testing.T) {
	reg := DefaultRegistry()
	require.NoError(t, reg.Validate())

	got := reg.Requirements()
	want := map[models.DocumentKind]bool{
		models.DocumentPAN:              true,
		models.DocumentAadhaar:          true,
		models.DocumentGST:              true,
		models.DocumentUdyam:            true,
		models.DocumentGST3B12M:         true,
		models.DocumentBankStatement12M: true,
		models.DocumentITR3Y:            true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Requirements() mismatch (-want +got):\n%s", diff)
	}
}

func TestWithOptional_DoesNotMutateReceiver(t *testing.T) {
	base := DefaultRegistry()
	relaxed := base.WithOptional(models.DocumentGST, models.DocumentUdyam)

	assert.False(t, relaxed.Requirements()[models.DocumentGST])
	assert.False(t, relaxed.Requirements()[models.DocumentUdyam])
	assert.True(t, relaxed.Requirements()[models.DocumentPAN])
	assert.True(t, base.Requirements()[models.DocumentGST])
}

func TestLookupAndLabel(t *testing.T) {
	reg := DefaultRegistry()

	d, ok := reg.Lookup(models.DocumentITR3Y)
	require.True(t, ok)
	assert.Equal(t, "Last Three Years Complete ITR", d.Label)

	_, ok = reg.Lookup("passport")
	assert.False(t, ok)
	assert.Equal(t, "passport", reg.Label("passport"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid partial registry",
			body: `{"version":"1.1.0","documents":[{"kind":"gst","label":"GST Registration","required":false}]}`,
		},
		{
			name:    "unknown kind rejected by schema",
			body:    `{"version":"1.0.0","documents":[{"kind":"passport","label":"Passport","required":true}]}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "missing required flag",
			body:    `{"version":"1.0.0","documents":[{"kind":"pan","label":"PAN"}]}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "duplicate kind",
			body:    `{"version":"1.0.0","documents":[{"kind":"pan","label":"PAN","required":true},{"kind":"pan","label":"PAN again","required":false}]}`,
			wantErr: "duplicate document kind: pan",
		},
		{
			name:    "not json",
			body:    `version: 1`,
			wantErr: "schema validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Parse([]byte(tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			req := reg.Requirements()
			assert.False(t, req[models.DocumentGST])
			assert.True(t, req[models.DocumentPAN], "kinds absent from the file stay required")
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	body := `{"version":"1.0.0","documents":[{"kind":"udyam","label":"Udyam Registration","required":false,"tags":["business"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.False(t, reg.Requirements()[models.DocumentUdyam])

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}
