package main

import (
	"github.com/CodMac/go-treesitter-class-analyzer/cmd"

	// 导入所有语言的实现，以触发其 init() 函数注册 Normalizer 和 Language
	_ "github.com/CodMac/go-treesitter-class-analyzer/normalizer/java"
	_ "github.com/CodMac/go-treesitter-class-analyzer/normalizer/python"
	_ "github.com/CodMac/go-treesitter-class-analyzer/normalizer/typescript"
)

func main() {
	cmd.Execute()
}
