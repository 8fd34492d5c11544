package analyzer

import (
	"fmt"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
)

// AnalyzeRelationships 从 Unified AST 推导类间结构关系。
// 纯函数：无 I/O，跨调用无状态；同一输入总是产出相同的边集。
// 规则（对每个类）：
//   - 声明了父类     -> INHERITANCE
//   - 声明了接口     -> REALIZATION
//   - 非数组类属性   -> COMPOSITION（私有或非静态，基数 1），公开属性额外产出 ASSOCIATION
//   - 集合类属性     -> AGGREGATION（基数 *，与可见性无关）
//   - 方法参数/返回  -> DEPENDENCY
//   - 构造函数参数   -> INJECTION
func AnalyzeRelationships(ast *model.UnifiedAST) []*model.DependencyInfo {
	var edges []*model.DependencyInfo

	all := make([]*model.ClassInfo, 0, len(ast.Classes)+len(ast.Interfaces))
	all = append(all, ast.Classes...)
	all = append(all, ast.Interfaces...)

	for _, cls := range all {
		edges = append(edges, structuralEdges(cls, ast.Imports)...)
		edges = append(edges, propertyEdges(cls, ast.Imports)...)
		edges = append(edges, methodEdges(cls, ast.Imports)...)
		edges = append(edges, injectionEdges(cls, ast.Imports)...)
	}

	return edges
}

// Attach 将推导出的关系写入 AST。每个 AST 只允许填充一次。
func Attach(ast *model.UnifiedAST) error {
	if ast.Relationships != nil {
		return fmt.Errorf("relationships already populated for %s", ast.FilePath)
	}
	edges := AnalyzeRelationships(ast)
	if edges == nil {
		edges = []*model.DependencyInfo{}
	}
	ast.Relationships = edges
	return nil
}

func structuralEdges(cls *model.ClassInfo, imports []*model.ImportInfo) []*model.DependencyInfo {
	var edges []*model.DependencyInfo

	if cls.SuperClass != "" {
		rt := ResolveType(cls.SuperClass, imports)
		edges = append(edges, &model.DependencyInfo{
			From:         cls.Name,
			To:           rt.BaseType,
			Type:         model.Inheritance,
			Line:         cls.Line,
			IsExternal:   rt.IsExternal,
			SourceModule: rt.SourceModule,
		})
	}

	for _, iface := range cls.Interfaces {
		rt := ResolveType(iface, imports)
		edges = append(edges, &model.DependencyInfo{
			From:         cls.Name,
			To:           rt.BaseType,
			Type:         model.Realization,
			Line:         cls.Line,
			IsExternal:   rt.IsExternal,
			SourceModule: rt.SourceModule,
		})
	}
	return edges
}

func propertyEdges(cls *model.ClassInfo, imports []*model.ImportInfo) []*model.DependencyInfo {
	var edges []*model.DependencyInfo

	for _, prop := range cls.Properties {
		rt := ResolveType(prop.Type, imports)
		if !rt.IsClassLike || rt.IsPrimitive {
			continue
		}

		if rt.IsArray {
			// 集合意味着元素可独立于容器存在，与可见性无关
			edges = append(edges, &model.DependencyInfo{
				From:         cls.Name,
				To:           rt.BaseType,
				Type:         model.Aggregation,
				Cardinality:  "*",
				Context:      prop.Name,
				Line:         prop.Line,
				IsExternal:   rt.IsExternal,
				SourceModule: rt.SourceModule,
			})
			continue
		}

		// 私有或非静态属性视为拥有被引用对象的生命周期
		if prop.Visibility != model.Public || !prop.IsStatic {
			edges = append(edges, &model.DependencyInfo{
				From:         cls.Name,
				To:           rt.BaseType,
				Type:         model.Composition,
				Cardinality:  "1",
				Context:      prop.Name,
				Line:         prop.Line,
				IsExternal:   rt.IsExternal,
				SourceModule: rt.SourceModule,
			})
		}

		// 公开引用额外产出无拥有语义的关联边
		if prop.Visibility == model.Public {
			edges = append(edges, &model.DependencyInfo{
				From:         cls.Name,
				To:           rt.BaseType,
				Type:         model.Association,
				Cardinality:  "1",
				Context:      prop.Name,
				Line:         prop.Line,
				IsExternal:   rt.IsExternal,
				SourceModule: rt.SourceModule,
			})
		}
	}
	return edges
}

func methodEdges(cls *model.ClassInfo, imports []*model.ImportInfo) []*model.DependencyInfo {
	var edges []*model.DependencyInfo

	for _, method := range cls.Methods {
		for _, param := range method.Parameters {
			rt := ResolveType(param.Type, imports)
			if !rt.IsClassLike || rt.IsPrimitive {
				continue
			}
			edges = append(edges, &model.DependencyInfo{
				From:         cls.Name,
				To:           rt.BaseType,
				Type:         model.Dependency,
				Context:      fmt.Sprintf("%s(%s)", method.Name, param.Name),
				Line:         method.Line,
				IsExternal:   rt.IsExternal,
				SourceModule: rt.SourceModule,
			})
		}

		if method.ReturnType != "" {
			rt := ResolveType(method.ReturnType, imports)
			if rt.IsClassLike && !rt.IsPrimitive {
				edges = append(edges, &model.DependencyInfo{
					From:         cls.Name,
					To:           rt.BaseType,
					Type:         model.Dependency,
					Context:      fmt.Sprintf("%s() returns %s", method.Name, rt.BaseType),
					Line:         method.Line,
					IsExternal:   rt.IsExternal,
					SourceModule: rt.SourceModule,
				})
			}
		}
	}
	return edges
}

func injectionEdges(cls *model.ClassInfo, imports []*model.ImportInfo) []*model.DependencyInfo {
	var edges []*model.DependencyInfo

	for _, param := range cls.ConstructorParams {
		rt := ResolveType(param.Type, imports)
		if !rt.IsClassLike || rt.IsPrimitive {
			continue
		}
		edges = append(edges, &model.DependencyInfo{
			From:         cls.Name,
			To:           rt.BaseType,
			Type:         model.Injection,
			Context:      fmt.Sprintf("constructor(%s)", param.Name),
			Line:         cls.Line,
			IsExternal:   rt.IsExternal,
			SourceModule: rt.SourceModule,
		})
	}
	return edges
}

// BuildInheritanceTree 在同一批边上构建 父类名 -> 直接子类名列表 的辅助索引
func BuildInheritanceTree(edges []*model.DependencyInfo) model.InheritanceTree {
	tree := make(model.InheritanceTree)
	for _, e := range edges {
		if e.Type != model.Inheritance {
			continue
		}
		tree[e.To] = append(tree[e.To], e.From)
	}
	return tree
}
