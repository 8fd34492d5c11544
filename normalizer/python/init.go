package python

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/noisefilter"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer"
)

func init() {
	model.RegisterLanguage(model.LangPython, sitter.NewLanguage(tree_sitter_python.Language()))
	normalizer.RegisterNormalizer(model.LangPython, NewPythonNormalizer())
	// 注册 NoiseFilter：内建异常体系与 object 基类
	noisefilter.RegisterNoiseFilter(model.LangPython, noisefilter.NewNameSetFilter(
		"object", "BaseException", "Exception", "ValueError", "TypeError",
		"KeyError", "IndexError", "RuntimeError", "StopIteration", "NotImplementedError",
	))
}
