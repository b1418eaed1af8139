package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "near", a: []float32{0.9, 0.1}, b: []float32{1, 0}, want: 0.99388},
		{name: "zero left", a: []float32{0, 0}, b: []float32{1, 2}, want: 0},
		{name: "zero right", a: []float32{1, 2}, b: []float32{0, 0}, want: 0},
		{name: "both zero", a: []float32{0, 0}, b: []float32{0, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-4)
		})
	}
}

func TestDot(t *testing.T) {
	assert.InDelta(t, 11.0, Dot([]float32{1, 2, 3}, []float32{3, 1, 2}), 1e-6)
	assert.InDelta(t, 0.0, Dot([]float32{1, 0}, []float32{0, 1}), 1e-6)
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float32{3, 4}), 1e-6)
	assert.InDelta(t, 0.0, Norm([]float32{0, 0}), 1e-6)
	assert.InDelta(t, 0.0, Norm(nil), 1e-6)
}

func TestProvider(t *testing.T) {
	fn, err := Provider(MetricCosine)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fn([]float32{1, 0}, []float32{1, 0}), 1e-6)

	fn, err = Provider(MetricDot)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fn([]float32{1, 1}, []float32{1, 1}), 1e-6)

	_, err = Provider(Metric(99))
	assert.Error(t, err)
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "Cosine", MetricCosine.String())
	assert.Equal(t, "Dot", MetricDot.String())
	assert.Equal(t, "Unknown(99)", Metric(99).String())
}
