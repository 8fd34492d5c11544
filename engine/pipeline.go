package engine

import (
	"github.com/CodMac/go-treesitter-class-analyzer/analyzer"
	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer"
	"github.com/CodMac/go-treesitter-class-analyzer/parser"
)

// Pipeline 串联 解析 -> 规范化 -> 关系分析，并按语言复用解析器实例。
// 非并发安全；每个遍历持有自己的 Pipeline。
type Pipeline struct {
	parsers map[model.Language]*parser.TreeSitterParser
}

func NewPipeline() *Pipeline {
	return &Pipeline{parsers: make(map[model.Language]*parser.TreeSitterParser)}
}

// NormalizeFile 读取并完整分析一个文件，返回已填充 Relationships 的 Unified AST。
// 源码残缺（ERROR 节点）时整体失败，不产出部分 AST。
func (pl *Pipeline) NormalizeFile(provider FileProvider, filePath string) (*model.UnifiedAST, error) {
	lang, err := parser.LanguageForFile(filePath)
	if err != nil {
		return nil, err
	}

	source, err := provider.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	p, err := pl.parserFor(lang)
	if err != nil {
		return nil, err
	}

	tree, err := p.Parse(source, filePath)
	if err != nil {
		return nil, err
	}

	n, err := normalizer.GetNormalizer(lang)
	if err != nil {
		tree.Close()
		return nil, err
	}

	ast, err := n.Normalize(tree.RootNode(), source, filePath)
	if err != nil {
		tree.Close()
		return nil, err
	}
	ast.NativeTree = tree

	if err := analyzer.Attach(ast); err != nil {
		return nil, err
	}
	return ast, nil
}

func (pl *Pipeline) parserFor(lang model.Language) (*parser.TreeSitterParser, error) {
	if p, ok := pl.parsers[lang]; ok {
		return p, nil
	}
	p, err := parser.NewParser(lang)
	if err != nil {
		return nil, err
	}
	pl.parsers[lang] = p
	return p, nil
}

// Close 释放全部解析器资源
func (pl *Pipeline) Close() {
	for _, p := range pl.parsers {
		p.Close()
	}
	pl.parsers = make(map[model.Language]*parser.TreeSitterParser)
}
