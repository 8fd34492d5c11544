package engine

import (
	"path"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
)

// resolveClassToFile 将类名解析为文件路径，按序尝试四种策略，首个成功者胜出：
//  1. 同目录探测（含小写/蛇形变体，用于类型名与文件名大小写不对应的语言）
//  2. Import Index O(1) 查找
//  3. 命中该类名的导入语句经 provider 解析为路径
//  4. 全工程 glob 搜索，多候选时按 fixture 标记 > 源码根 > 扫描序 决胜
//
// 解析失败不是错误：返回空串，遍历不经由该名称扩展。
func (t *traversal) resolveClassToFile(name string, fromAST *model.UnifiedAST) string {
	if filePath := t.probeSameDir(name, fromAST.FilePath); filePath != "" {
		return filePath
	}

	if candidates := t.engine.index.Lookup(name); len(candidates) > 0 {
		return candidates[0]
	}

	if filePath := t.resolveViaImports(name, fromAST); filePath != "" {
		return filePath
	}

	return t.searchProject(name)
}

// probeSameDir 在引用文件所在目录内按各语言的文件名约定探测
func (t *traversal) probeSameDir(name, fromPath string) string {
	dir := path.Dir(fromPath)
	for _, fileName := range candidateFileNames(name) {
		candidate := path.Join(dir, fileName)
		if candidate == fromPath {
			continue
		}
		if t.engine.provider.Exists(candidate) {
			return candidate
		}
	}
	return ""
}

// resolveViaImports 找到命名该类的导入语句，交给外部路径解析协作者
func (t *traversal) resolveViaImports(name string, fromAST *model.UnifiedAST) string {
	for _, imp := range fromAST.Imports {
		matched := false
		for _, imported := range imp.ImportedName {
			if imported == name {
				matched = true
				break
			}
		}
		if !matched && imp.IsNamespace {
			// 通配/命名空间导入无符号级信息，仍值得尝试其来源
			matched = strings.HasSuffix(imp.Source, "."+name) || strings.HasSuffix(imp.Source, "/"+name)
		}
		if !matched {
			continue
		}

		if resolved := t.engine.provider.ResolveImport(fromAST.FilePath, imp.Source); resolved != "" {
			return resolved
		}
	}
	return ""
}

// searchProject 全工程按约定文件名模式搜索，结果数受配置上限约束
func (t *traversal) searchProject(name string) string {
	var candidates []string

	for _, fileName := range candidateFileNames(name) {
		matches, err := t.engine.provider.ListFiles("**/" + fileName)
		if err != nil {
			// 提供方故障视为该探测无结果，落入下一模式
			logrus.Debugf("project search for %s failed: %v", fileName, err)
			continue
		}
		candidates = append(candidates, matches...)
		if len(candidates) >= t.engine.cfg.MaxGlobResults {
			candidates = candidates[:t.engine.cfg.MaxGlobResults]
			break
		}
	}

	if len(candidates) == 0 {
		return ""
	}
	return t.pickCandidate(candidates)
}

// pickCandidate 多候选决胜：fixture 标记 > 源码根标记 > 扫描序首个
func (t *traversal) pickCandidate(candidates []string) string {
	for _, c := range candidates {
		for _, marker := range t.engine.cfg.FixtureMarkers {
			if pathContainsSegment(c, marker) {
				return c
			}
		}
	}
	for _, c := range candidates {
		for _, root := range t.engine.cfg.SourceRoots {
			if strings.HasPrefix(c, root+"/") || pathContainsSegment(c, root) {
				return c
			}
		}
	}
	return candidates[0]
}

// candidateFileNames 返回类名在各语言下的约定文件名（含变体声调）
func candidateFileNames(name string) []string {
	snake := toSnakeCase(name)
	lower := strings.ToLower(name)

	var names []string
	seen := make(map[string]bool)
	add := func(fileName string) {
		if !seen[fileName] {
			seen[fileName] = true
			names = append(names, fileName)
		}
	}

	for _, ext := range model.LangTypeScript.Extensions() {
		add(name + "." + ext)
	}
	add(name + ".java")
	// Python 文件名与类名无大小写对应关系
	add(snake + ".py")
	add(lower + ".py")
	add(name + ".py")
	for _, ext := range []string{"ts", "tsx"} {
		add(lower + "." + ext)
		add(snake + "." + ext)
	}

	return names
}

func toSnakeCase(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func pathContainsSegment(filePath, segment string) bool {
	for _, part := range strings.Split(path.Dir(filePath), "/") {
		if part == segment {
			return true
		}
	}
	return false
}
