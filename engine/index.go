package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/CodMac/go-treesitter-class-analyzer/parser"
)

// ImportIndex 是 类名 -> 候选文件路径集合 的预计算映射，
// 供遍历做 O(1) 查找以替代全工程扫描。遍历期间只读；
// 工程变化后由外部重建，核心不含失效逻辑。
type ImportIndex struct {
	byName map[string][]string
}

// BuildImportIndex 对工程做一次全量扫描并建立索引。
// 解析失败的文件记一条诊断日志后跳过。
func BuildImportIndex(provider FileProvider, pipeline *Pipeline) (*ImportIndex, error) {
	idx := &ImportIndex{byName: make(map[string][]string)}

	for _, ext := range parser.SupportedExtensions() {
		files, err := provider.ListFiles("**/*" + ext)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			ast, err := pipeline.NormalizeFile(provider, file)
			if err != nil {
				logrus.Debugf("import index: skipping %s: %v", file, err)
				continue
			}
			for _, name := range ast.DeclaredNames() {
				idx.byName[name] = append(idx.byName[name], file)
			}
		}
	}

	return idx, nil
}

// Lookup 返回声明了该名称的候选文件，未命中返回 nil
func (ix *ImportIndex) Lookup(name string) []string {
	if ix == nil {
		return nil
	}
	return ix.byName[name]
}

// Size 返回已索引的名称数量
func (ix *ImportIndex) Size() int {
	if ix == nil {
		return 0
	}
	return len(ix.byName)
}
