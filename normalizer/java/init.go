package java

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/noisefilter"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer"
)

func init() {
	// 注册 Tree-sitter Java 语言对象
	model.RegisterLanguage(model.LangJava, sitter.NewLanguage(tree_sitter_java.Language()))
	// 注册 Normalizer
	normalizer.RegisterNormalizer(model.LangJava, NewJavaNormalizer())
	// 注册 NoiseFilter：JDK 运行时基础类
	noisefilter.RegisterNoiseFilter(model.LangJava, noisefilter.NewNameSetFilter(
		"Object", "Throwable", "Exception", "RuntimeException", "Error",
		"IllegalArgumentException", "IllegalStateException", "Thread", "Runnable",
		"Class", "Comparable", "Serializable", "Cloneable", "AutoCloseable",
	))
}
