package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {

	cases := []struct {
		value float64
		mood  Mood
	}{
		{0, ExtremeFear},
		{29.999, ExtremeFear},
		{30, Fear},
		{49.999, Fear},
		{50, Greed},
		{69.999, Greed},
		{70, ExtremeGreed},
		{100, ExtremeGreed},
		{-5, ExtremeFear},
		{130, ExtremeGreed},
	}

	for _, c := range cases {
		assert.Equal(t, c.mood, Classify(c.value), "value %v", c.value)
	}

	t.Run("NaN", func(t *testing.T) {
		assert.Equal(t, ExtremeGreed, Classify(math.NaN()))
	})

	t.Run("Total", func(t *testing.T) {
		for v := -10.0; v <= 110; v += 0.25 {
			assert.True(t, Classify(v).IsValid())
		}
	})
}

func TestZones(t *testing.T) {

	z := Zones()
	assert.Len(t, z, 4)
	assert.Equal(t, 0.0, z[0].Lower)
	assert.Equal(t, 100.0, z[len(z)-1].Upper)

	for i, zone := range z {
		assert.Equal(t, zone.Mood, Classify(zone.Lower))
		if i > 0 {
			assert.Equal(t, z[i-1].Upper, zone.Lower)
		}
	}

	z[0].Mood = "changed"
	assert.Equal(t, ExtremeFear, Zones()[0].Mood)
}
