package model

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Visibility 表示成员的可见性
type Visibility string

const (
	Public    Visibility = "public"
	Private   Visibility = "private"
	Protected Visibility = "protected"
)

// ClassKind 区分类与接口
type ClassKind string

const (
	KindClass     ClassKind = "class"
	KindInterface ClassKind = "interface"
)

// UnifiedAST 是单个源码文件的语言无关结构摘要。
// 除 Relationships 字段（由 analyzer 填充一次）外，产出后不可变。
type UnifiedAST struct {
	Language      Language          `json:"Language"`
	FilePath      string            `json:"FilePath"`
	Imports       []*ImportInfo     `json:"Imports,omitempty"`
	Exports       []string          `json:"Exports,omitempty"`
	Classes       []*ClassInfo      `json:"Classes,omitempty"`
	Interfaces    []*ClassInfo      `json:"Interfaces,omitempty"`
	Functions     []*FunctionInfo   `json:"Functions,omitempty"`
	Relationships []*DependencyInfo `json:"Relationships,omitempty"`

	// NativeTree 保留原生语法树句柄，供需要 source-span 级信息的消费者使用。
	NativeTree *sitter.Tree `json:"-"`
}

// ClassInfo 描述一个类或接口。名称在文件内唯一，不保证全局唯一。
type ClassInfo struct {
	Name              string           `json:"Name"`
	Kind              ClassKind        `json:"Kind"`
	Properties        []*PropertyInfo  `json:"Properties,omitempty"`
	Methods           []*MethodInfo    `json:"Methods,omitempty"`
	SuperClass        string           `json:"SuperClass,omitempty"`
	Interfaces        []string         `json:"Interfaces,omitempty"`
	ConstructorParams []*ParameterInfo `json:"ConstructorParams,omitempty"`
	IsAbstract        bool             `json:"IsAbstract,omitempty"`
	Line              int              `json:"Line,omitempty"`
}

// PropertyInfo 描述类属性。Type 为自由格式类型串（如 "Engine"、"Wheel[]"、"List<Order>"），
// 由 analyzer 的类型解析器理解。
type PropertyInfo struct {
	Name       string     `json:"Name"`
	Type       string     `json:"Type,omitempty"`
	Visibility Visibility `json:"Visibility"`
	IsStatic   bool       `json:"IsStatic,omitempty"`
	IsReadonly bool       `json:"IsReadonly,omitempty"`
	IsOptional bool       `json:"IsOptional,omitempty"`
	Line       int        `json:"Line,omitempty"`
}

// MethodInfo 描述类方法
type MethodInfo struct {
	Name       string           `json:"Name"`
	Parameters []*ParameterInfo `json:"Parameters,omitempty"`
	ReturnType string           `json:"ReturnType,omitempty"`
	Visibility Visibility       `json:"Visibility"`
	IsStatic   bool             `json:"IsStatic,omitempty"`
	IsAbstract bool             `json:"IsAbstract,omitempty"`
	IsAsync    bool             `json:"IsAsync,omitempty"`
	Line       int              `json:"Line,omitempty"`
}

// ParameterInfo 描述方法或构造函数的单个参数
type ParameterInfo struct {
	Name string `json:"Name"`
	Type string `json:"Type,omitempty"`
}

// FunctionInfo 描述自由函数（不属于任何类）
type FunctionInfo struct {
	Name       string           `json:"Name"`
	Parameters []*ParameterInfo `json:"Parameters,omitempty"`
	ReturnType string           `json:"ReturnType,omitempty"`
	IsAsync    bool             `json:"IsAsync,omitempty"`
	Line       int              `json:"Line,omitempty"`
}

// ImportInfo 描述一条导入语句。Source 保留书写原样
// （相对路径、点号分隔的包名或模块路径）。
type ImportInfo struct {
	Source       string   `json:"Source"`
	ImportedName []string `json:"ImportedName,omitempty"`
	IsDefault    bool     `json:"IsDefault,omitempty"`
	IsNamespace  bool     `json:"IsNamespace,omitempty"`
	IsDynamic    bool     `json:"IsDynamic,omitempty"`
	IsTypeOnly   bool     `json:"IsTypeOnly,omitempty"`
	Line         int      `json:"Line,omitempty"`
}

// FindClass 按名称查找文件内的类（含接口）
func (u *UnifiedAST) FindClass(name string) *ClassInfo {
	for _, c := range u.Classes {
		if c.Name == name {
			return c
		}
	}
	for _, i := range u.Interfaces {
		if i.Name == name {
			return i
		}
	}
	return nil
}

// DeclaredNames 返回文件内声明的所有类与接口名
func (u *UnifiedAST) DeclaredNames() []string {
	names := make([]string, 0, len(u.Classes)+len(u.Interfaces))
	for _, c := range u.Classes {
		names = append(names, c.Name)
	}
	for _, i := range u.Interfaces {
		names = append(names, i.Name)
	}
	return names
}
