package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultMarkerResource, cfg.MarkerResource)
	assert.Equal(t, DefaultManifestResource, cfg.ManifestResource)
	assert.Equal(t, "java.lang.Object", cfg.RootType)
	assert.True(t, cfg.DiscoverMarkers)
	assert.False(t, cfg.StrictResolution)
	assert.Empty(t, cfg.Classpath)
	assert.Nil(t, cfg.Log.Timestamps)
}

func TestDefaultConfigRoundTripsThroughYAML(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), "markerResource: META-INF/classidx.marker")
	assert.NotContains(t, string(data), "timestamps")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, DefaultConfig(), &back)
}

func TestWithDefaults(t *testing.T) {
	cfg := (&Config{MarkerResource: "META-INF/custom.marker"}).WithDefaults()

	assert.Equal(t, "META-INF/custom.marker", cfg.MarkerResource)
	assert.Equal(t, DefaultManifestResource, cfg.ManifestResource)
	assert.Equal(t, "java.lang.Object", cfg.RootType)
}

func TestIndexedMarkedDependencies(t *testing.T) {
	cfg := &Config{MarkedDependencies: []MarkedDependency{
		{Location: "/libs/a.jar", Index: true},
		{Location: "/libs/b.jar"},
		{Location: "/libs/c", Index: true},
	}}

	assert.Equal(t, []string{"/libs/a.jar", "/libs/c"}, cfg.IndexedMarkedDependencies())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		fields []string
	}{
		{
			name: "valid",
			cfg: Config{
				IndexDependencies: []string{"com.acme:lib-core", "com.acme:lib-core:tests"},
				Packages:          []string{"com.acme.web", "_internal.$gen"},
				MarkerResource:    "META-INF/classidx.marker",
				RootType:          "java.lang.Object",
			},
		},
		{
			name:   "bad coordinates",
			cfg:    Config{IndexDependencies: []string{"com.acme:lib-core", "foo", "a:b:c:d"}},
			fields: []string{"indexDependencies[1]", "indexDependencies[2]"},
		},
		{
			name:   "empty marked location",
			cfg:    Config{MarkedDependencies: []MarkedDependency{{Location: " ", Index: true}}},
			fields: []string{"markedDependencies[0].location"},
		},
		{
			name:   "bad package",
			cfg:    Config{Packages: []string{"com/acme", "com..acme"}},
			fields: []string{"packages[0]", "packages[1]"},
		},
		{
			name:   "absolute marker",
			cfg:    Config{MarkerResource: "/META-INF/classidx.marker"},
			fields: []string{"markerResource"},
		},
		{
			name:   "bad root type",
			cfg:    Config{RootType: "java/lang/Object"},
			fields: []string{"rootType"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			var fields []string
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "packages[0]", Message: "bad"},
		{Field: "rootType", Message: "worse"},
	}
	assert.Equal(t, "config validation failed:\n  packages[0]: bad\n  rootType: worse", errs.Error())
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
