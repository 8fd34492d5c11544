package typescript_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer/typescript"
	"github.com/CodMac/go-treesitter-class-analyzer/parser"
)

// 辅助函数：解析并规范化一段 TypeScript 源码
func normalizeTS(t *testing.T, source string) *model.UnifiedAST {
	t.Helper()

	p, err := parser.NewParser(model.LangTypeScript)
	require.NoError(t, err)
	defer p.Close()

	tree, err := p.Parse([]byte(source), "test.ts")
	require.NoError(t, err)
	defer tree.Close()

	ast, err := typescript.NewTypeScriptNormalizer().Normalize(tree.RootNode(), []byte(source), "test.ts")
	require.NoError(t, err)
	return ast
}

func TestTypeScriptNormalizer_ClassExtraction(t *testing.T) {
	source := `
import { Engine } from './engine';
import { Wheel } from './wheel';

export class Car extends Vehicle implements Drivable {
  private engine: Engine;
  public owner: string;
  protected wheels: Wheel[] = [];
  static count: number = 0;

  constructor(engine: Engine) {
    this.engine = engine;
  }

  drive(distance: number): Trip {
    return new Trip(distance);
  }
}
`
	ast := normalizeTS(t, source)

	require.Len(t, ast.Classes, 1)
	cls := ast.Classes[0]
	assert.Equal(t, "Car", cls.Name)
	assert.Equal(t, "Vehicle", cls.SuperClass)
	assert.Equal(t, []string{"Drivable"}, cls.Interfaces)
	assert.Contains(t, ast.Exports, "Car")

	t.Run("Verify Properties", func(t *testing.T) {
		require.Len(t, cls.Properties, 4)
		assert.Equal(t, "engine", cls.Properties[0].Name)
		assert.Equal(t, "Engine", cls.Properties[0].Type)
		assert.Equal(t, model.Private, cls.Properties[0].Visibility)

		assert.Equal(t, model.Public, cls.Properties[1].Visibility)

		// 集合类型统一表示为 元素类型[]
		assert.Equal(t, "Wheel[]", cls.Properties[2].Type)
		assert.Equal(t, model.Protected, cls.Properties[2].Visibility)

		assert.True(t, cls.Properties[3].IsStatic)
	})

	t.Run("Verify Constructor Params", func(t *testing.T) {
		require.Len(t, cls.ConstructorParams, 1)
		assert.Equal(t, "engine", cls.ConstructorParams[0].Name)
		assert.Equal(t, "Engine", cls.ConstructorParams[0].Type)
	})

	t.Run("Verify Methods", func(t *testing.T) {
		var drive *model.MethodInfo
		for _, m := range cls.Methods {
			if m.Name == "drive" {
				drive = m
			}
		}
		require.NotNil(t, drive)
		assert.Equal(t, "Trip", drive.ReturnType)
		require.Len(t, drive.Parameters, 1)
		assert.Equal(t, "number", drive.Parameters[0].Type)
	})
}

func TestTypeScriptNormalizer_GenericCollectionUnwrap(t *testing.T) {
	source := `
export class Store {
  private orders: Array<Order> = [];
  private index: Map<string, Order> = new Map();
}
`
	ast := normalizeTS(t, source)

	require.Len(t, ast.Classes, 1)
	props := ast.Classes[0].Properties
	require.Len(t, props, 2)
	// 单参数集合泛型展开为数组表示，多参数泛型原样保留
	assert.Equal(t, "Order[]", props[0].Type)
	assert.Equal(t, "Map<string, Order>", props[1].Type)
}

func TestTypeScriptNormalizer_InitializerInference(t *testing.T) {
	source := `
class Garage {
  spot = new ParkingSpot();
  cars = [new Car()];
  label = "west";
  capacity = 12;
  open = true;
}
`
	ast := normalizeTS(t, source)

	require.Len(t, ast.Classes, 1)
	props := ast.Classes[0].Properties
	require.Len(t, props, 5)
	assert.Equal(t, "ParkingSpot", props[0].Type) // 构造调用给出类型名
	assert.Equal(t, "Car[]", props[1].Type)       // 字面量集合取首元素
	assert.Equal(t, "string", props[2].Type)
	assert.Equal(t, "number", props[3].Type)
	assert.Equal(t, "boolean", props[4].Type)
}

func TestTypeScriptNormalizer_ParameterProperties(t *testing.T) {
	source := `
export class Service {
  constructor(private repo: Repository, logger: Logger) {}
}
`
	ast := normalizeTS(t, source)

	require.Len(t, ast.Classes, 1)
	cls := ast.Classes[0]

	// 带访问修饰符的构造参数同时是属性
	require.Len(t, cls.Properties, 1)
	assert.Equal(t, "repo", cls.Properties[0].Name)
	assert.Equal(t, model.Private, cls.Properties[0].Visibility)

	require.Len(t, cls.ConstructorParams, 2)
	assert.Equal(t, "Logger", cls.ConstructorParams[1].Type)
}

func TestTypeScriptNormalizer_Interface(t *testing.T) {
	source := `
export interface Drivable extends Movable {
  speed: number;
  drive(target: Waypoint): void;
}
`
	ast := normalizeTS(t, source)

	require.Len(t, ast.Interfaces, 1)
	iface := ast.Interfaces[0]
	assert.Equal(t, "Drivable", iface.Name)
	assert.Equal(t, model.KindInterface, iface.Kind)
	assert.Equal(t, []string{"Movable"}, iface.Interfaces)
	require.Len(t, iface.Properties, 1)
	require.Len(t, iface.Methods, 1)
	assert.Equal(t, "Waypoint", iface.Methods[0].Parameters[0].Type)
}

func TestTypeScriptNormalizer_Imports(t *testing.T) {
	source := `
import Default from './default';
import * as ns from './namespace';
import { One, Two as Alias } from './named';
import type { OnlyType } from './types';
`
	ast := normalizeTS(t, source)

	require.Len(t, ast.Imports, 4)

	assert.True(t, ast.Imports[0].IsDefault)
	assert.Equal(t, []string{"Default"}, ast.Imports[0].ImportedName)

	assert.True(t, ast.Imports[1].IsNamespace)

	// 别名导入记录的是源码中实际引用的名字
	assert.Equal(t, []string{"One", "Alias"}, ast.Imports[2].ImportedName)
	assert.Equal(t, "./named", ast.Imports[2].Source)

	assert.True(t, ast.Imports[3].IsTypeOnly)
}

func TestTypeScriptNormalizer_MalformedSourceFails(t *testing.T) {
	p, err := parser.NewParser(model.LangTypeScript)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Parse([]byte("class {{{{ nope"), "bad.ts")
	assert.ErrorIs(t, err, parser.ErrMalformedSource)
}
