package output

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
)

type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		encoder: json.NewEncoder(w),
	}
}

func (w *JSONLWriter) Write(v interface{}) error {
	return w.encoder.Encode(v)
}

// WriteResults 按文件路径顺序逐行导出分析结果
func (w *JSONLWriter) WriteResults(results map[string]*model.FileAnalysisResult) error {
	paths := make([]string, 0, len(results))
	for p := range results {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := w.Write(results[p]); err != nil {
			return err
		}
	}
	return nil
}

// WriteRelations 逐行导出关系边
func (w *JSONLWriter) WriteRelations(relations []*model.DependencyInfo) error {
	for _, rel := range relations {
		if err := w.Write(rel); err != nil {
			return err
		}
	}
	return nil
}

// ExportResults 封装了导出分析结果到文件的核心逻辑
func ExportResults(path string, results map[string]*model.FileAnalysisResult) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	writer := NewJSONLWriter(f)
	if err := writer.WriteResults(results); err != nil {
		return 0, err
	}
	return len(results), nil
}

// ExportBidirectional 导出双向分析的聚合结果：先统计行，再逐行输出去重后的边
func ExportBidirectional(path string, result *model.BidirectionalResult) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	writer := NewJSONLWriter(f)
	if err := writer.Write(result.Stats); err != nil {
		return 0, err
	}
	count := 1

	for _, ref := range result.AllClasses {
		if err := writer.Write(ref); err != nil {
			return count, err
		}
		count++
	}
	for _, rel := range result.Relationships {
		if err := writer.Write(rel); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
