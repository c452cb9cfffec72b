package coffee

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeNames(t *testing.T) {
	assert.Equal(t, "clean_cup", CleanCup.Name())
	assert.Equal(t, "Clean Cup", CleanCup.Label())
	a, err := ParseAttribute("Clean Cup")
	require.NoError(t, err)
	assert.Equal(t, CleanCup, a)
	_, err = ParseAttribute("crema")
	assert.Error(t, err)
	assert.Len(t, AllAttributes(), AttributeCount)
}

func TestNewSampleIsAbsent(t *testing.T) {
	s := NewSample()
	assert.False(t, s.HasScore())
	assert.False(t, s.HasCountry())
	_, ok := s.Attribute(Body)
	assert.False(t, ok)
	s.Sensory[Body] = 7.5
	v, ok := s.Attribute(Body)
	assert.True(t, ok)
	assert.Equal(t, 7.5, v)
	assert.True(t, math.IsNaN(s.Score))
}

func TestQualityOrder(t *testing.T) {
	assert.Less(t, int(Fair), int(Outstanding))
	assert.Equal(t, "Very Good", VeryGood.String())
	assert.Equal(t, Outstanding, Qualities()[0])
	assert.Equal(t, Excellent, Classify(89.999, DefaultLadder()))
	assert.Equal(t, Outstanding, Classify(90, DefaultLadder()))
	assert.Equal(t, Fair, Classify(95, nil))
}
