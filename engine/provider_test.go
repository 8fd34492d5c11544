package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-class-analyzer/engine"
)

// writeTree 在临时目录下铺设测试工程
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
}

func TestOSFileProvider_Basics(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Car.ts":   `export class Car {}`,
		"src/sub/B.ts": `export class B {}`,
		"README.md":    `notes`,
	})
	p := engine.NewOSFileProvider(root, nil)

	assert.True(t, p.Exists("src/Car.ts"))
	assert.False(t, p.Exists("src"))
	assert.False(t, p.Exists("src/Nope.ts"))

	data, err := p.ReadFile("src/Car.ts")
	require.NoError(t, err)
	assert.Contains(t, string(data), "class Car")

	files, err := p.ListFiles("**/*.ts")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/Car.ts", "src/sub/B.ts"}, files)
}

func TestOSFileProvider_ResolveImport(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Car.ts":          `export class Car {}`,
		"src/engine/index.ts": `export class Engine {}`,
		"src/util.ts":         `export class Util {}`,
		"app/models/user.py":  `class User: ...`,
		"app/models/order.py": `class Order: ...`,
		"app/pkg/__init__.py": ``,
		"src/main/java/com/example/Engine.java": `public class Engine {}`,
		"Main.java": `public class Main {}`,
	})
	p := engine.NewOSFileProvider(root, nil)

	t.Run("TypeScript Relative", func(t *testing.T) {
		// 扩展名推断
		assert.Equal(t, "src/util.ts", p.ResolveImport("src/Car.ts", "./util"))
		// 目录导入落到 index 文件
		assert.Equal(t, "src/engine/index.ts", p.ResolveImport("src/Car.ts", "./engine"))
		// 裸模块名指向外部依赖，不解析
		assert.Empty(t, p.ResolveImport("src/Car.ts", "lodash"))
	})

	t.Run("Python Relative And Absolute", func(t *testing.T) {
		// 一个前导点表示同目录
		assert.Equal(t, "app/models/order.py", p.ResolveImport("app/models/user.py", ".order"))
		// 包导入落到 __init__ 文件
		assert.Equal(t, "app/pkg/__init__.py", p.ResolveImport("app/models/user.py", "app.pkg"))
		// 标准库前缀被跳过
		assert.Empty(t, p.ResolveImport("app/models/user.py", "typing"))
	})

	t.Run("Java Package", func(t *testing.T) {
		// 包路径在源码根候选下映射
		assert.Equal(t, "src/main/java/com/example/Engine.java", p.ResolveImport("Main.java", "com.example.Engine"))
		// JDK 前缀被跳过
		assert.Empty(t, p.ResolveImport("Main.java", "java.util.List"))
	})
}
