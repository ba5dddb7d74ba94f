package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValue_TopLevelScalar(t *testing.T) {
	cfg := &Config{Format: "json"}

	val, err := GetValue(cfg, "format")
	require.NoError(t, err)
	assert.Equal(t, "json", val)
}

func TestGetValue_NestedScalar(t *testing.T) {
	cfg := &Config{Scanners: map[string]ScannerConfig{
		"stub_marker": {Enabled: boolPtr(false)},
	}}

	val, err := GetValue(cfg, "scanners.stub_marker.enabled")
	require.NoError(t, err)
	assert.Equal(t, false, val)
}

func TestGetValue_IntermediateMap(t *testing.T) {
	cfg := &Config{Scanners: map[string]ScannerConfig{
		"stub_marker": {Enabled: boolPtr(true)},
	}}

	val, err := GetValue(cfg, "scanners.stub_marker")
	require.NoError(t, err)
	m, ok := val.(map[string]any)
	require.True(t, ok, "intermediate nodes should come back as maps")
	assert.Equal(t, true, m["enabled"])
}

func TestGetValue_NotFound(t *testing.T) {
	_, err := GetValue(&Config{}, "format")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSetValue_TopLevel(t *testing.T) {
	data := make(map[string]any)

	require.NoError(t, SetValue(data, "format", "json"))
	assert.Equal(t, "json", data["format"])
}

func TestSetValue_CreatesIntermediateMaps(t *testing.T) {
	data := make(map[string]any)

	require.NoError(t, SetValue(data, "scanners.stub_marker.enabled", "false"))

	scanners, ok := data["scanners"].(map[string]any)
	require.True(t, ok)
	stub, ok := scanners["stub_marker"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, stub["enabled"])
}

func TestSetValue_ParentNotAMap(t *testing.T) {
	data := map[string]any{"scanners": "oops"}

	err := SetValue(data, "scanners.stub_marker.enabled", "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a map")
}

func TestValidateKeyPath(t *testing.T) {
	tests := []struct {
		name    string
		keyPath string
		wantErr string
	}{
		{"top-level scalar", "format", ""},
		{"budget", "default_budget_ms", ""},
		{"fallbacks", "max_fallbacks", ""},
		{"exclude patterns blocked", "exclude_patterns", "edit .locus.yaml directly"},
		{"unknown top-level", "output_format", "unknown key"},
		{"scalar with sub-key", "format.pretty", "cannot use sub-keys"},
		{"scanners alone", "scanners", "requires a family name"},
		{"scanner block", "scanners.stub_marker", ""},
		{"unknown family", "scanners.fortune_teller", "unknown scanner family"},
		{"scanner field", "scanners.stub_marker.enabled", ""},
		{"scanner excludes", "scanners.test_layout.exclude_patterns", ""},
		{"unknown scanner field", "scanners.stub_marker.threshold", "unknown scanner field"},
		{"too deep", "scanners.stub_marker.enabled.really", "too deep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeyPath(tt.keyPath)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFlattenMap(t *testing.T) {
	m := map[string]any{
		"format": "json",
		"scanners": map[string]any{
			"stub_marker": map[string]any{"enabled": true},
		},
	}

	flat := FlattenMap(m, "")

	assert.Equal(t, "json", flat["format"])
	assert.Equal(t, true, flat["scanners.stub_marker.enabled"])
	assert.NotContains(t, flat, "scanners")
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"42", 42},
		{"-3", -3},
		{"0.8", 0.8},
		{"json", "json"},
		{"100ms", "100ms"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, coerceValue(tt.in), "input %q", tt.in)
	}
}
