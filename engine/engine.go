package engine

import (
	"fmt"
	"path"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/CodMac/go-treesitter-class-analyzer/analyzer"
	"github.com/CodMac/go-treesitter-class-analyzer/config"
	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/noisefilter"
	"github.com/CodMac/go-treesitter-class-analyzer/parser"
)

// Mode 标识遍历方向
type Mode string

const (
	ModeForward       Mode = "forward"
	ModeReverse       Mode = "reverse"
	ModeBidirectional Mode = "bidirectional"
)

// 前置条件错误：在任何 I/O 之前同步报告，不重试
var (
	ErrInvalidDepth = fmt.Errorf("depth out of allowed range")
	ErrFileNotFound = fmt.Errorf("start file does not exist")
)

// Engine 驱动跨文件依赖解析：逐文件规范化 + 关系分析，
// 沿关系图在深度界限内扩展。单线程、深度优先、按步同步；
// 不同入口的并发遍历各自持有独立的 visited 集，Import Index 只读共享。
type Engine struct {
	provider FileProvider
	index    *ImportIndex
	cfg      *config.Config
}

type Option func(*Engine)

// WithIndex 提供预计算的 Import Index 加速解析
func WithIndex(idx *ImportIndex) Option {
	return func(e *Engine) { e.index = idx }
}

// WithConfig 覆盖缺省解析策略
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

func New(provider FileProvider, opts ...Option) *Engine {
	e := &Engine{provider: provider, cfg: config.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// traversal 持有一次遍历的全部可变状态。
// 状态只属于本次调用，不跨调用、不跨 goroutine 泄漏。
type traversal struct {
	engine     *Engine
	pipeline   *Pipeline
	maxDepth   int
	visited    map[string]bool
	results    map[string]*model.FileAnalysisResult
	unresolved map[string]bool
}

func (e *Engine) newTraversal(maxDepth int) *traversal {
	return &traversal{
		engine:     e,
		pipeline:   NewPipeline(),
		maxDepth:   maxDepth,
		visited:    make(map[string]bool),
		results:    make(map[string]*model.FileAnalysisResult),
		unresolved: make(map[string]bool),
	}
}

func (e *Engine) checkPreconditions(startFile string, maxDepth int) error {
	if maxDepth < 1 || maxDepth > e.cfg.MaxDepthLimit {
		return fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidDepth, maxDepth, e.cfg.MaxDepthLimit)
	}
	if !e.provider.Exists(startFile) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, startFile)
	}
	return nil
}

// --- Forward mode ---

// AnalyzeForward 从 startFile 出发沿 "本文件依赖什么" 方向展开，
// 返回 文件路径 -> 分析结果 的映射。环路由 visited 集保证安全终止，
// 每个文件至多分析一次。
func (e *Engine) AnalyzeForward(startFile string, maxDepth int) (map[string]*model.FileAnalysisResult, error) {
	results, _, err := e.forward(startFile, maxDepth)
	return results, err
}

func (e *Engine) forward(startFile string, maxDepth int) (map[string]*model.FileAnalysisResult, map[string]bool, error) {
	if err := e.checkPreconditions(startFile, maxDepth); err != nil {
		return nil, nil, err
	}

	t := e.newTraversal(maxDepth)
	defer t.pipeline.Close()

	if err := t.visit(startFile, 0, maxDepth); err != nil {
		return nil, nil, err
	}
	return t.results, t.unresolved, nil
}

// visit 分析一个文件并在剩余预算内继续扩展。
// 起始文件（depth 0）的解析失败整体失败；传递发现的依赖解析失败
// 仅记日志并放弃该分支，不能拖垮图中其余部分的分析。
func (t *traversal) visit(filePath string, depth, remaining int) error {
	if t.visited[filePath] {
		return nil
	}
	if len(t.visited) >= t.engine.cfg.MaxFiles {
		logrus.Warnf("file cap %d reached, not expanding into %s", t.engine.cfg.MaxFiles, filePath)
		return nil
	}
	t.visited[filePath] = true

	ast, err := t.pipeline.NormalizeFile(t.engine.provider, filePath)
	if err != nil {
		if depth == 0 {
			return fmt.Errorf("failed to analyze start file: %w", err)
		}
		logrus.Warnf("skipping dependency %s: %v", filePath, err)
		return nil
	}

	t.results[filePath] = resultFromAST(ast, depth)
	releaseTree(ast)

	return t.expand(ast, depth, remaining)
}

// expand 收集 AST 引用的外部类名并递归进入新解析出的文件
func (t *traversal) expand(ast *model.UnifiedAST, depth, remaining int) error {
	if remaining <= 0 {
		return nil
	}

	for _, name := range referencedNames(ast) {
		target := t.resolveClassToFile(name, ast)
		if target == "" {
			t.unresolved[name] = true
			logrus.Debugf("unresolved class %s referenced from %s", name, ast.FilePath)
			continue
		}
		if err := t.visit(target, depth+1, remaining-1); err != nil {
			return err
		}
	}
	return nil
}

// referencedNames 返回该文件关系边指向的、且未在本文件内定义的类名，
// 含全部 extends/implements 目标，保持首次出现顺序。
// 噪音名不参与扩展，也不计入未解析集合。
func referencedNames(ast *model.UnifiedAST) []string {
	filter := noisefilter.GetNoiseFilter(ast.Language)

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] || ast.FindClass(name) != nil || filter.IsNoise(name) {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, rel := range ast.Relationships {
		add(rel.To)
	}
	return names
}

// --- Reverse mode ---

// AnalyzeReverse 发现依赖 targetFile 的文件链。目标文件自身先被分析
// （占位，深度最终归一为 最大导入者深度+1，使其在反向图中呈现为
// 被依赖最深的节点）；目标自己的前向边不进入反向结果。
func (e *Engine) AnalyzeReverse(targetFile string, maxDepth int) (map[string]*model.FileAnalysisResult, error) {
	results, _, err := e.reverse(targetFile, maxDepth)
	return results, err
}

func (e *Engine) reverse(targetFile string, maxDepth int) (map[string]*model.FileAnalysisResult, map[string]bool, error) {
	if err := e.checkPreconditions(targetFile, maxDepth); err != nil {
		return nil, nil, err
	}

	t := e.newTraversal(maxDepth)
	defer t.pipeline.Close()

	targetAST, err := t.pipeline.NormalizeFile(e.provider, targetFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to analyze target file: %w", err)
	}
	t.visited[targetFile] = true
	targetResult := resultFromAST(targetAST, 0)
	targetResult.Relationships = nil // 目标的前向边不得泄漏进反向链
	t.results[targetFile] = targetResult
	releaseTree(targetAST)

	// 逐层向外发现导入者：第 1 层直接导入目标，第 2 层导入第 1 层，依此类推
	type importerEntry struct {
		ast   *model.UnifiedAST
		level int
	}
	importers := make(map[string]*importerEntry)
	declared := map[string][]string{targetFile: targetAST.DeclaredNames()}

	frontier := []string{targetFile}
	for level := 1; level <= maxDepth && len(frontier) > 0; level++ {
		var next []string
		for _, wanted := range frontier {
			for _, candidate := range t.candidateImporters(wanted) {
				if candidate == targetFile {
					continue
				}
				if _, ok := importers[candidate]; ok {
					continue
				}
				ast, err := t.pipeline.NormalizeFile(e.provider, candidate)
				if err != nil {
					logrus.Debugf("reverse scan: skipping %s: %v", candidate, err)
					continue
				}
				if !importsAnyOf(ast, declared[wanted], wanted, e.provider) {
					releaseTree(ast)
					continue
				}
				releaseTree(ast)
				importers[candidate] = &importerEntry{ast: ast, level: level}
				declared[candidate] = ast.DeclaredNames()
				next = append(next, candidate)
			}
		}
		frontier = next
	}

	maxLevel := 0
	for _, entry := range importers {
		if entry.level > maxLevel {
			maxLevel = entry.level
		}
	}

	// 记录导入者结果：最远的导入者深度为 0
	for filePath, entry := range importers {
		depth := maxLevel - entry.level
		t.visited[filePath] = true
		t.results[filePath] = resultFromAST(entry.ast, depth)
	}

	// 每个导入者再做一次有界的前向扩展，补全其自身的前向依赖上下文
	budget := maxDepth - 1
	if budget < 1 {
		budget = 1
	}
	for filePath, entry := range importers {
		if err := t.expand(entry.ast, t.results[filePath].Depth, budget); err != nil {
			return nil, nil, err
		}
	}

	// 从导入者到目标导出类合成显式的类级依赖边
	for filePath, entry := range importers {
		t.synthesizeReverseEdges(t.results[filePath], entry.ast, targetAST, targetFile)
	}

	// 目标深度归一：最大导入者深度 + 1
	if maxLevel > 0 {
		targetResult.Depth = maxLevel
	}
	return t.results, t.unresolved, nil
}

// candidateImporters 先按性能考虑限定同目录与祖先目录，再全工程兜底，
// 候选总数受配置上限约束。
func (t *traversal) candidateImporters(ofFile string) []string {
	var candidates []string
	seen := map[string]bool{ofFile: true}
	add := func(files []string) {
		for _, f := range files {
			if !seen[f] && parser.IsSupportedFile(f) {
				seen[f] = true
				candidates = append(candidates, f)
			}
		}
	}

	dir := path.Dir(ofFile)
	for {
		for _, ext := range parser.SupportedExtensions() {
			files, err := t.engine.provider.ListFiles(path.Join(dir, "*"+ext))
			if err != nil {
				continue
			}
			add(files)
		}
		if dir == "." || dir == "/" {
			break
		}
		dir = path.Dir(dir)
	}

	if len(candidates) < t.engine.cfg.MaxReverseCandidates {
		for _, ext := range parser.SupportedExtensions() {
			files, err := t.engine.provider.ListFiles("**/*" + ext)
			if err != nil {
				continue
			}
			add(files)
		}
	}

	if len(candidates) > t.engine.cfg.MaxReverseCandidates {
		candidates = candidates[:t.engine.cfg.MaxReverseCandidates]
	}
	return candidates
}

// importsAnyOf 判断 ast 是否导入了 wanted 文件声明的任一类名，
// 或其某条导入经路径解析直接指向 wanted 文件。
func importsAnyOf(ast *model.UnifiedAST, names []string, wantedFile string, provider FileProvider) bool {
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}

	for _, imp := range ast.Imports {
		for _, imported := range imp.ImportedName {
			if nameSet[imported] {
				return true
			}
		}
		if resolved := provider.ResolveImport(ast.FilePath, imp.Source); resolved == wantedFile {
			return true
		}
	}
	return false
}

// synthesizeReverseEdges 检查导入者类的属性、方法参数与返回类型是否
// 指向目标文件的导出类，命中则补一条类级 DEPENDENCY 边（按边键去重）。
func (t *traversal) synthesizeReverseEdges(result *model.FileAnalysisResult, importerAST, targetAST *model.UnifiedAST, targetFile string) {
	exported := make(map[string]bool)
	for _, name := range targetAST.DeclaredNames() {
		exported[name] = true
	}

	existing := make(map[string]bool)
	for _, rel := range result.Relationships {
		existing[rel.DedupKey()] = true
	}

	addEdge := func(from, to, context string, line int) {
		edge := &model.DependencyInfo{
			From:         from,
			To:           to,
			Type:         model.Dependency,
			Context:      context,
			Line:         line,
			IsExternal:   true,
			SourceModule: targetFile,
		}
		if !existing[edge.DedupKey()] {
			existing[edge.DedupKey()] = true
			result.Relationships = append(result.Relationships, edge)
		}
	}

	allClasses := append([]*model.ClassInfo{}, importerAST.Classes...)
	allClasses = append(allClasses, importerAST.Interfaces...)
	for _, cls := range allClasses {
		for _, prop := range cls.Properties {
			if base := baseTypeName(prop.Type); exported[base] {
				addEdge(cls.Name, base, prop.Name, prop.Line)
			}
		}
		for _, method := range cls.Methods {
			for _, param := range method.Parameters {
				if base := baseTypeName(param.Type); exported[base] {
					addEdge(cls.Name, base, fmt.Sprintf("%s(%s)", method.Name, param.Name), method.Line)
				}
			}
			if base := baseTypeName(method.ReturnType); exported[base] {
				addEdge(cls.Name, base, fmt.Sprintf("%s() returns %s", method.Name, base), method.Line)
			}
		}
	}
}

// --- Bidirectional mode ---

// AnalyzeBidirectional 独立运行前向与反向分析，再按文件路径合并结果集，
// 关系列表按 from:to:type:context 去重，并重算聚合统计。
func (e *Engine) AnalyzeBidirectional(file string, maxDepth int) (*model.BidirectionalResult, error) {
	forward, fUnresolved, err := e.forward(file, maxDepth)
	if err != nil {
		return nil, err
	}
	reverse, rUnresolved, err := e.reverse(file, maxDepth)
	if err != nil {
		return nil, err
	}

	out := &model.BidirectionalResult{
		TargetFile:  file,
		ForwardDeps: forward,
		ReverseDeps: reverse,
	}

	// 合并：前向优先，反向补充未见过的文件
	merged := make(map[string]*model.FileAnalysisResult, len(forward))
	for p, r := range forward {
		merged[p] = r
	}
	for p, r := range reverse {
		if _, ok := merged[p]; !ok {
			merged[p] = r
		}
	}

	classSeen := make(map[string]bool)
	edgeSeen := make(map[string]bool)
	stats := &model.AnalysisStats{TotalFiles: len(merged)}

	paths := make([]string, 0, len(merged))
	for p := range merged {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		r := merged[p]
		if r.Depth > stats.MaxDepth {
			stats.MaxDepth = r.Depth
		}
		for _, cls := range append(append([]*model.ClassInfo{}, r.Classes...), r.Interfaces...) {
			key := p + ":" + cls.Name
			if !classSeen[key] {
				classSeen[key] = true
				out.AllClasses = append(out.AllClasses, &model.ClassRef{FilePath: p, Class: cls})
			}
		}
	}

	// 边去重需要同时覆盖前向与反向两份拷贝
	for _, results := range []map[string]*model.FileAnalysisResult{forward, reverse} {
		for _, p := range sortedKeys(results) {
			for _, rel := range results[p].Relationships {
				if key := rel.DedupKey(); !edgeSeen[key] {
					edgeSeen[key] = true
					out.Relationships = append(out.Relationships, rel)
				}
			}
		}
	}

	unresolved := make(map[string]bool, len(fUnresolved)+len(rUnresolved))
	for name := range fUnresolved {
		unresolved[name] = true
	}
	for name := range rUnresolved {
		unresolved[name] = true
	}
	for name := range unresolved {
		stats.UnresolvedNames = append(stats.UnresolvedNames, name)
	}
	sort.Strings(stats.UnresolvedNames)

	stats.TotalClasses = len(out.AllClasses)
	stats.TotalRelationships = len(out.Relationships)
	out.Stats = stats
	return out, nil
}

// --- helpers ---

func resultFromAST(ast *model.UnifiedAST, depth int) *model.FileAnalysisResult {
	return &model.FileAnalysisResult{
		FilePath:   ast.FilePath,
		Language:   ast.Language,
		Depth:      depth,
		Classes:    ast.Classes,
		Interfaces: ast.Interfaces,
		Imports:    ast.Imports,
		Exports:    ast.Exports,
		// 指向运行时基础类的边不进入结果
		Relationships: noisefilter.Apply(ast.Language, ast.Relationships),
	}
}

// releaseTree 结果构建完成后释放原生语法树
func releaseTree(ast *model.UnifiedAST) {
	if ast.NativeTree != nil {
		ast.NativeTree.Close()
		ast.NativeTree = nil
	}
}

func baseTypeName(raw string) string {
	return analyzer.ResolveType(raw, nil).BaseType
}

func sortedKeys(m map[string]*model.FileAnalysisResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
