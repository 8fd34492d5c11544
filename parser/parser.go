package parser

import (
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
)

// ErrMalformedSource 表示 Tree-sitter 解析结果包含 ERROR/MISSING 节点。
// 规范化必须整体失败，而不是静默产出残缺的 AST；由调用方决定跳过还是上抛。
var ErrMalformedSource = fmt.Errorf("source contains syntax errors")

// TreeSitterParser 将单一语言的 Tree-sitter 解析器封装为可复用实例。
// 非并发安全，同一实例不可被多个 goroutine 同时使用。
type TreeSitterParser struct {
	Language model.Language
	tsParser *sitter.Parser
}

// NewParser 创建指定语言的解析器实例
func NewParser(lang model.Language) (*TreeSitterParser, error) {
	tsLang, err := model.GetLanguage(lang)
	if err != nil {
		return nil, err
	}

	tsParser := sitter.NewParser()
	if err := tsParser.SetLanguage(tsLang); err != nil {
		tsParser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	return &TreeSitterParser{
		Language: lang,
		tsParser: tsParser,
	}, nil
}

// Parse 解析源码内容并返回语法树。
// 若树中存在 ERROR 节点则返回 ErrMalformedSource。
func (p *TreeSitterParser) Parse(source []byte, filePath string) (*sitter.Tree, error) {
	tree := p.tsParser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter failed to parse %s", filePath)
	}

	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w: %s", ErrMalformedSource, filePath)
	}

	return tree, nil
}

// ParseFile 读取并解析文件，返回语法树与源码内容
func (p *TreeSitterParser) ParseFile(filePath string) (*sitter.Tree, []byte, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	tree, err := p.Parse(source, filePath)
	if err != nil {
		return nil, nil, err
	}
	return tree, source, nil
}

// Close 释放 Tree-sitter 内部资源
func (p *TreeSitterParser) Close() {
	if p.tsParser != nil {
		p.tsParser.Close()
	}
}
