package typescript

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/noisefilter"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer"
)

func init() {
	// TSX 语法是 TS 语法的超集，统一使用 TSX 以同时覆盖 .ts/.tsx/.js/.jsx
	model.RegisterLanguage(model.LangTypeScript, sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()))
	normalizer.RegisterNormalizer(model.LangTypeScript, NewTypeScriptNormalizer())
	// 注册 NoiseFilter：DOM 与运行时全局类型
	noisefilter.RegisterNoiseFilter(model.LangTypeScript, noisefilter.NewNameSetFilter(
		"Object", "Function", "Error", "Event", "EventTarget",
		"HTMLElement", "Element", "Node", "Document", "Window",
		"Request", "Response", "URL", "RegExp",
	))
}
