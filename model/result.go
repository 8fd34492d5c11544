package model

// FileAnalysisResult 包装单个文件的分析产物及其在本次遍历中的发现深度。
// 每次遍历对每个文件创建一次，创建后不再修改；
// 除非外部提供显式索引，否则不跨遍历复用。
type FileAnalysisResult struct {
	FilePath      string            `json:"FilePath"`
	Language      Language          `json:"Language"`
	Depth         int               `json:"Depth"`
	Classes       []*ClassInfo      `json:"Classes,omitempty"`
	Interfaces    []*ClassInfo      `json:"Interfaces,omitempty"`
	Imports       []*ImportInfo     `json:"Imports,omitempty"`
	Exports       []string          `json:"Exports,omitempty"`
	Relationships []*DependencyInfo `json:"Relationships,omitempty"`
}

// AnalysisStats 汇总一次（双向）分析的聚合统计
type AnalysisStats struct {
	TotalFiles         int      `json:"TotalFiles"`
	TotalClasses       int      `json:"TotalClasses"` // 按 filePath:className 去重后的类数量
	TotalRelationships int      `json:"TotalRelationships"`
	MaxDepth           int      `json:"MaxDepth"`
	UnresolvedNames    []string `json:"UnresolvedNames,omitempty"` // 解析失败的类名，仅用于诊断
}

// ClassRef 标识某个文件中的一个类，用于双向结果的类去重
type ClassRef struct {
	FilePath string     `json:"FilePath"`
	Class    *ClassInfo `json:"Class"`
}

// BidirectionalResult 是双向分析的聚合输出
type BidirectionalResult struct {
	TargetFile    string                         `json:"TargetFile"`
	ForwardDeps   map[string]*FileAnalysisResult `json:"ForwardDeps"`
	ReverseDeps   map[string]*FileAnalysisResult `json:"ReverseDeps"`
	AllClasses    []*ClassRef                    `json:"AllClasses"`
	Relationships []*DependencyInfo              `json:"Relationships"` // 按 from:to:type:context 去重
	Stats         *AnalysisStats                 `json:"Stats"`
}
