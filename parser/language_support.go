package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
)

// ErrUnsupportedExtension 表示文件扩展名未映射到任何已注册语言。
// 与解析失败（ErrMalformedSource）必须可区分。
var ErrUnsupportedExtension = fmt.Errorf("unsupported file extension")

// extMap 文件扩展名到语言标识的映射
var extMap = map[string]model.Language{
	".ts":   model.LangTypeScript,
	".tsx":  model.LangTypeScript,
	".js":   model.LangTypeScript,
	".jsx":  model.LangTypeScript,
	".py":   model.LangPython,
	".java": model.LangJava,
}

// LanguageForFile 根据扩展名嗅探文件所属语言
func LanguageForFile(filePath string) (model.Language, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	lang, ok := extMap[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
	}
	return lang, nil
}

// IsSupportedFile 判断路径是否指向可分析的源码文件
func IsSupportedFile(filePath string) bool {
	_, err := LanguageForFile(filePath)
	return err == nil
}

// SupportedExtensions 返回全部已支持的扩展名（含点），顺序不保证
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extMap))
	for ext := range extMap {
		exts = append(exts, ext)
	}
	return exts
}
