package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/sapling/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadata = `
features:
  outlook: [Sunny, Overcast, Rain]
  temp: numeric
  humidity: continuous
  windy: categorical
`

func TestReadFeatures(t *testing.T) {
	features, err := ReadFeatures([]byte(metadata))
	require.NoError(t, err)
	require.Len(t, features, 4)
	names := []string{}
	for _, f := range features {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"outlook", "temp", "humidity", "windy"}, names)
	assert.Equal(t, map[string]string{
		"outlook":  feature.Categorical,
		"temp":     feature.Numeric,
		"humidity": feature.Numeric,
		"windy":    feature.Categorical,
	}, feature.TypeMap(features))
}

func TestReadFeaturesErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no features", "other: 1\n"},
		{"unknown kind", "features:\n  temp: ordinal\n"},
		{"invalid declaration", "features:\n  temp: 3\n"},
		{"malformed", "features: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFeatures([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestReadFeaturesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte(metadata), 0o600))
	features, err := ReadFeaturesFromFile(path)
	require.NoError(t, err)
	assert.Len(t, features, 4)

	_, err = ReadFeaturesFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
