package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodMac/go-treesitter-class-analyzer/analyzer"
	"github.com/CodMac/go-treesitter-class-analyzer/model"
)

func findEdges(edges []*model.DependencyInfo, relType model.RelationType) []*model.DependencyInfo {
	var out []*model.DependencyInfo
	for _, e := range edges {
		if e.Type == relType {
			out = append(out, e)
		}
	}
	return out
}

// 验证关键边界策略：私有非数组类属性是组合，同一声明改为集合后是聚合，二者互斥
func TestAnalyzer_CompositionVsAggregation(t *testing.T) {
	t.Run("Private Class Property Is Composition", func(t *testing.T) {
		ast := &model.UnifiedAST{
			FilePath: "Car.ts",
			Classes: []*model.ClassInfo{{
				Name: "Car",
				Kind: model.KindClass,
				Properties: []*model.PropertyInfo{
					{Name: "engine", Type: "Engine", Visibility: model.Private},
				},
			}},
		}
		edges := analyzer.AnalyzeRelationships(ast)

		compositions := findEdges(edges, model.Composition)
		assert.Len(t, compositions, 1)
		assert.Equal(t, "Car", compositions[0].From)
		assert.Equal(t, "Engine", compositions[0].To)
		assert.Equal(t, "1", compositions[0].Cardinality)
		assert.Empty(t, findEdges(edges, model.Aggregation))
	})

	t.Run("Same Declaration As Collection Is Aggregation", func(t *testing.T) {
		ast := &model.UnifiedAST{
			FilePath: "Car.ts",
			Classes: []*model.ClassInfo{{
				Name: "Car",
				Kind: model.KindClass,
				Properties: []*model.PropertyInfo{
					{Name: "engine", Type: "Engine[]", Visibility: model.Private},
				},
			}},
		}
		edges := analyzer.AnalyzeRelationships(ast)

		aggregations := findEdges(edges, model.Aggregation)
		assert.Len(t, aggregations, 1)
		assert.Equal(t, "*", aggregations[0].Cardinality)
		// 同一声明绝不能同时产出组合边
		assert.Empty(t, findEdges(edges, model.Composition))
	})
}

func TestAnalyzer_PublicPropertyAssociation(t *testing.T) {
	ast := &model.UnifiedAST{
		FilePath: "Car.ts",
		Classes: []*model.ClassInfo{{
			Name: "Car",
			Kind: model.KindClass,
			Properties: []*model.PropertyInfo{
				{Name: "driver", Type: "Driver", Visibility: model.Public},
			},
		}},
	}
	edges := analyzer.AnalyzeRelationships(ast)

	// 公开非静态属性：组合（非静态）+ 关联（公开引用）
	assert.Len(t, findEdges(edges, model.Composition), 1)
	associations := findEdges(edges, model.Association)
	assert.Len(t, associations, 1)
	assert.Equal(t, "Driver", associations[0].To)
	assert.Equal(t, "1", associations[0].Cardinality)
}

func TestAnalyzer_PublicStaticProperty(t *testing.T) {
	ast := &model.UnifiedAST{
		FilePath: "Registry.ts",
		Classes: []*model.ClassInfo{{
			Name: "Registry",
			Kind: model.KindClass,
			Properties: []*model.PropertyInfo{
				{Name: "shared", Type: "Backend", Visibility: model.Public, IsStatic: true},
			},
		}},
	}
	edges := analyzer.AnalyzeRelationships(ast)

	// 公开且静态：仅关联，无组合
	assert.Empty(t, findEdges(edges, model.Composition))
	assert.Len(t, findEdges(edges, model.Association), 1)
}

func TestAnalyzer_InjectionDetection(t *testing.T) {
	ast := &model.UnifiedAST{
		FilePath: "Bar.ts",
		Classes: []*model.ClassInfo{{
			Name: "Bar",
			Kind: model.KindClass,
			ConstructorParams: []*model.ParameterInfo{
				{Name: "foo", Type: "Foo"},
				{Name: "count", Type: "number"},
			},
		}},
	}
	edges := analyzer.AnalyzeRelationships(ast)

	injections := findEdges(edges, model.Injection)
	assert.Len(t, injections, 1)
	assert.Equal(t, "Bar", injections[0].From)
	assert.Equal(t, "Foo", injections[0].To)
	assert.Contains(t, injections[0].Context, "foo")
}

func TestAnalyzer_MethodDependencies(t *testing.T) {
	ast := &model.UnifiedAST{
		FilePath: "Service.ts",
		Classes: []*model.ClassInfo{{
			Name: "Service",
			Kind: model.KindClass,
			Methods: []*model.MethodInfo{{
				Name:       "process",
				Visibility: model.Public,
				Parameters: []*model.ParameterInfo{{Name: "order", Type: "Order"}},
				ReturnType: "Receipt",
			}},
		}},
	}
	edges := analyzer.AnalyzeRelationships(ast)

	deps := findEdges(edges, model.Dependency)
	assert.Len(t, deps, 2)
	assert.Equal(t, "process(order)", deps[0].Context)
	assert.Equal(t, "Order", deps[0].To)
	assert.Equal(t, "process() returns Receipt", deps[1].Context)
	assert.Equal(t, "Receipt", deps[1].To)
}

func TestAnalyzer_InheritanceAndRealization(t *testing.T) {
	ast := &model.UnifiedAST{
		FilePath: "Truck.java",
		Classes: []*model.ClassInfo{{
			Name:       "Truck",
			Kind:       model.KindClass,
			SuperClass: "Vehicle",
			Interfaces: []string{"Loadable", "Drivable"},
		}},
	}
	edges := analyzer.AnalyzeRelationships(ast)

	inherits := findEdges(edges, model.Inheritance)
	assert.Len(t, inherits, 1)
	assert.Equal(t, "Vehicle", inherits[0].To)

	realizes := findEdges(edges, model.Realization)
	assert.Len(t, realizes, 2)

	tree := analyzer.BuildInheritanceTree(edges)
	assert.Equal(t, []string{"Truck"}, tree["Vehicle"])
}

func TestAnalyzer_PrimitivesExcluded(t *testing.T) {
	ast := &model.UnifiedAST{
		FilePath: "Plain.ts",
		Classes: []*model.ClassInfo{{
			Name: "Plain",
			Kind: model.KindClass,
			Properties: []*model.PropertyInfo{
				{Name: "name", Type: "string", Visibility: model.Private},
				{Name: "tags", Type: "string[]", Visibility: model.Private},
			},
			Methods: []*model.MethodInfo{{
				Name:       "size",
				Visibility: model.Public,
				ReturnType: "number",
			}},
		}},
	}
	assert.Empty(t, analyzer.AnalyzeRelationships(ast))
}

func TestAnalyzer_AttachOnce(t *testing.T) {
	ast := &model.UnifiedAST{FilePath: "Empty.ts"}
	assert.NoError(t, analyzer.Attach(ast))
	// Relationships 只允许填充一次
	assert.Error(t, analyzer.Attach(ast))
}
