package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/CodMac/go-treesitter-class-analyzer/config"
	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/parser"
)

// FileProvider 是宿主提供的文件系统能力。
// 引擎只通过该接口触碰文件；所有路径使用相对工程根的斜杠分隔形式。
type FileProvider interface {
	// ReadFile 读取文件内容，文件缺失或不可读时返回错误
	ReadFile(filePath string) ([]byte, error)
	// Exists 判断文件是否存在
	Exists(filePath string) bool
	// ListFiles 按 glob 模式列出文件
	ListFiles(pattern string) ([]string, error)
	// ResolveImport 将 fromPath 中书写的导入说明符解析为文件路径，
	// 无法解析时返回空串（不是错误）
	ResolveImport(fromPath, specifier string) string
}

// OSFileProvider 是基于本地文件系统的缺省实现
type OSFileProvider struct {
	Root string
	cfg  *config.Config
}

func NewOSFileProvider(root string, cfg *config.Config) *OSFileProvider {
	if cfg == nil {
		cfg = config.Default()
	}
	return &OSFileProvider{Root: root, cfg: cfg}
}

func (p *OSFileProvider) abs(filePath string) string {
	return filepath.Join(p.Root, filepath.FromSlash(filePath))
}

func (p *OSFileProvider) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(p.abs(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

func (p *OSFileProvider) Exists(filePath string) bool {
	info, err := os.Stat(p.abs(filePath))
	return err == nil && !info.IsDir()
}

func (p *OSFileProvider) ListFiles(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(p.Root), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s failed: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		info, err := fs.Stat(os.DirFS(p.Root), m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}

// ResolveImport 按 fromPath 的语言选择解析策略：
// 路径导入做相对解析加扩展名/index 推断；包导入在源码根候选下映射；
// 模块导入按相对导入的点数回溯目录。
func (p *OSFileProvider) ResolveImport(fromPath, specifier string) string {
	lang, err := parser.LanguageForFile(fromPath)
	if err != nil {
		return ""
	}

	switch lang {
	case model.LangTypeScript:
		return p.resolvePathImport(fromPath, specifier)
	case model.LangJava:
		return p.resolvePackageImport(specifier)
	case model.LangPython:
		return p.resolveModuleImport(fromPath, specifier)
	}
	return ""
}

// resolvePathImport 处理 "./foo" / "../bar/baz" 形式的相对路径导入
func (p *OSFileProvider) resolvePathImport(fromPath, specifier string) string {
	if !strings.HasPrefix(specifier, ".") {
		// 非相对导入指向 node_modules 等外部模块，不解析
		return ""
	}

	base := path.Join(path.Dir(fromPath), specifier)
	candidates := []string{base}
	for _, ext := range model.LangTypeScript.Extensions() {
		candidates = append(candidates, base+"."+ext)
	}
	for _, ext := range model.LangTypeScript.Extensions() {
		candidates = append(candidates, path.Join(base, "index."+ext))
	}

	for _, c := range candidates {
		if p.Exists(c) {
			return c
		}
	}
	return ""
}

// resolvePackageImport 处理 "com.example.Foo" 形式的包导入
func (p *OSFileProvider) resolvePackageImport(specifier string) string {
	for _, prefix := range p.cfg.FrameworkPrefixes {
		if strings.HasPrefix(specifier, prefix) {
			return ""
		}
	}

	rel := strings.ReplaceAll(strings.TrimSuffix(specifier, ".*"), ".", "/") + ".java"
	roots := append([]string{""}, p.cfg.SourceRoots...)
	for _, root := range roots {
		candidate := path.Join(root, rel)
		if p.Exists(candidate) {
			return candidate
		}
	}
	return ""
}

// resolveModuleImport 处理点号分隔的模块导入，显式统计相对导入的前导点数
func (p *OSFileProvider) resolveModuleImport(fromPath, specifier string) string {
	for _, prefix := range p.cfg.FrameworkPrefixes {
		if specifier == prefix || strings.HasPrefix(specifier, prefix+".") {
			return ""
		}
	}

	dots := 0
	for dots < len(specifier) && specifier[dots] == '.' {
		dots++
	}
	rest := specifier[dots:]

	var baseDirs []string
	if dots > 0 {
		// 一个点表示同目录，每多一个点上溯一级
		dir := path.Dir(fromPath)
		for i := 1; i < dots; i++ {
			dir = path.Dir(dir)
		}
		baseDirs = []string{dir}
	} else {
		baseDirs = append([]string{""}, p.cfg.SourceRoots...)
	}

	rel := strings.ReplaceAll(rest, ".", "/")
	for _, dir := range baseDirs {
		for _, candidate := range []string{
			path.Join(dir, rel+".py"),
			path.Join(dir, rel, "__init__.py"),
		} {
			if p.Exists(candidate) {
				return candidate
			}
		}
	}
	return ""
}
