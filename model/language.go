package model

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Language 标识支持的编程语言
type Language string

const (
	LangTypeScript Language = "typescript"
	LangPython     Language = "python"
	LangJava       Language = "java"
)

// langMap 存储语言标识到 Tree-sitter 语言对象的映射
var langMap = make(map[Language]*sitter.Language)

// RegisterLanguage 用于注册 Tree-sitter 语言库。
// 由各语言 normalizer 包的 init 函数调用。
func RegisterLanguage(lang Language, tsLang *sitter.Language) {
	langMap[lang] = tsLang
}

// GetLanguage 获取已注册的 Tree-sitter 语言对象
func GetLanguage(lang Language) (*sitter.Language, error) {
	tsLang, ok := langMap[lang]
	if !ok {
		return nil, fmt.Errorf("language %s not registered", lang)
	}

	return tsLang, nil
}

// Extensions 返回该语言约定的源码文件扩展名（不含点），
// 第一个为解析文件名时的首选扩展名。
func (l Language) Extensions() []string {
	switch l {
	case LangTypeScript:
		return []string{"ts", "tsx", "js", "jsx"}
	case LangPython:
		return []string{"py"}
	case LangJava:
		return []string{"java"}
	default:
		return nil
	}
}
