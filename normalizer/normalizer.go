package normalizer

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
)

// Normalizer 定义了将原生语法树转换为 Unified AST 的能力。
// 每种语言实现一次，通过注册表按语言分发；新增语言只需提供新实现，
// 不在共享代码里加分支。
type Normalizer interface {
	// Normalize 接收语法树根节点、源码内容和文件路径，返回该文件的 Unified AST。
	// 产出的 AST 中 Relationships 为空，由 analyzer 填充。
	Normalize(root *sitter.Node, source []byte, filePath string) (*model.UnifiedAST, error)
}

var normalizerMap = make(map[model.Language]Normalizer)

// RegisterNormalizer 注册一个语言与其对应的 Normalizer。
// 由各语言包的 init 函数调用。
func RegisterNormalizer(lang model.Language, n Normalizer) {
	normalizerMap[lang] = n
}

// GetNormalizer 根据语言类型获取对应的 Normalizer 实例。
func GetNormalizer(lang model.Language) (Normalizer, error) {
	n, ok := normalizerMap[lang]
	if !ok {
		return nil, fmt.Errorf("no normalizer registered for language: %s", lang)
	}

	return n, nil
}
