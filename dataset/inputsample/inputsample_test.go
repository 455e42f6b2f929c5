package inputsample

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pbanos/sapling/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRequester struct {
	requested []string
	rejected  []string
}

func (rr *recordingRequester) RequestValueFor(f feature.Feature) error {
	rr.requested = append(rr.requested, f.Name())
	return nil
}

func (rr *recordingRequester) RejectValueFor(f feature.Feature, value string) error {
	rr.rejected = append(rr.rejected, fmt.Sprintf("%s=%s", f.Name(), value))
	return nil
}

func TestReadSample(t *testing.T) {
	features := []feature.Feature{feature.NewNumericFeature("temp"), feature.NewCategoricalFeature("outlook"), feature.NewNumericFeature("humidity")}
	rr := &recordingRequester{}
	s := New(strings.NewReader("hot\n 21.5 \nSunny\n?\n"), features, rr, "?")

	v, err := s.ValueFor("temp")
	require.NoError(t, err)
	assert.Equal(t, 21.5, v)
	v, err = s.ValueFor("outlook")
	require.NoError(t, err)
	assert.Equal(t, "Sunny", v)
	v, err = s.ValueFor("humidity")
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = s.ValueFor("temp")
	require.NoError(t, err)
	assert.Equal(t, 21.5, v)

	assert.Equal(t, []string{"temp", "outlook", "humidity"}, rr.requested)
	assert.Equal(t, []string{"temp=hot"}, rr.rejected)

	_, err = s.ValueFor("wind")
	assert.Error(t, err)
}

func TestReadSampleEOF(t *testing.T) {
	s := New(strings.NewReader(""), []feature.Feature{feature.NewCategoricalFeature("outlook")}, &recordingRequester{}, "?")
	_, err := s.ValueFor("outlook")
	assert.Error(t, err)
}
