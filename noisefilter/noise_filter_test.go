package noisefilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/noisefilter"
)

func TestGetNoiseFilter_DefaultPassthrough(t *testing.T) {
	// 未注册的语言拿到不过滤的缺省实现
	f := noisefilter.GetNoiseFilter(model.Language("kotlin"))
	assert.False(t, f.IsNoise("Object"))
}

func TestApply(t *testing.T) {
	lang := model.Language("test-lang")
	noisefilter.RegisterNoiseFilter(lang, noisefilter.NewNameSetFilter("Exception", "Object"))

	edges := []*model.DependencyInfo{
		{From: "Car", To: "Engine", Type: model.Composition},
		{From: "Car", To: "Exception", Type: model.Dependency},
		{From: "Car", To: "Object", Type: model.Inheritance},
		{From: "Car", To: "Wheel", Type: model.Aggregation},
	}

	kept := noisefilter.Apply(lang, edges)
	assert.Len(t, kept, 2)
	assert.Equal(t, "Engine", kept[0].To)
	assert.Equal(t, "Wheel", kept[1].To)

	t.Run("No Noise Returns Same Slice", func(t *testing.T) {
		clean := []*model.DependencyInfo{
			{From: "Car", To: "Engine", Type: model.Composition},
		}
		kept := noisefilter.Apply(lang, clean)
		require.Len(t, kept, 1)
		assert.Same(t, clean[0], kept[0])
	})
}
