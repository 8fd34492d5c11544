package output_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/output"
)

func TestJSONLWriter_WriteResults(t *testing.T) {
	results := map[string]*model.FileAnalysisResult{
		"src/b.ts": {FilePath: "src/b.ts", Language: model.LangTypeScript, Depth: 1},
		"src/a.ts": {FilePath: "src/a.ts", Language: model.LangTypeScript, Depth: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, output.NewJSONLWriter(&buf).WriteResults(results))

	// 每行一个 JSON 对象，按文件路径排序
	var lines []string
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var first model.FileAnalysisResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "src/a.ts", first.FilePath)
}

func TestExportBidirectional(t *testing.T) {
	result := &model.BidirectionalResult{
		TargetFile: "Car.ts",
		AllClasses: []*model.ClassRef{
			{FilePath: "Car.ts", Class: &model.ClassInfo{Name: "Car", Kind: model.KindClass}},
		},
		Relationships: []*model.DependencyInfo{
			{From: "Car", To: "Engine", Type: model.Composition, Cardinality: "1"},
		},
		Stats: &model.AnalysisStats{TotalFiles: 2, TotalClasses: 1, TotalRelationships: 1},
	}

	path := filepath.Join(t.TempDir(), "out.jsonl")
	n, err := output.ExportBidirectional(path, result)
	require.NoError(t, err)
	// 统计行 + 类行 + 关系行
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(data, []byte("\n")))
}
