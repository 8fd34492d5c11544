package java_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer/java"
	"github.com/CodMac/go-treesitter-class-analyzer/parser"
)

// 辅助函数：解析并规范化一段 Java 源码
func normalizeJava(t *testing.T, source string) *model.UnifiedAST {
	t.Helper()

	p, err := parser.NewParser(model.LangJava)
	require.NoError(t, err)
	defer p.Close()

	tree, err := p.Parse([]byte(source), "Test.java")
	require.NoError(t, err)
	defer tree.Close()

	ast, err := java.NewJavaNormalizer().Normalize(tree.RootNode(), []byte(source), "Test.java")
	require.NoError(t, err)
	return ast
}

func TestJavaNormalizer_ClassExtraction(t *testing.T) {
	source := `
package com.example.garage;

import com.example.parts.Engine;
import com.example.parts.*;

public class Car extends Vehicle implements Drivable, Insurable {
    private Engine engine;
    protected String plate;
    public static int count;
    private final List<Wheel> wheels = new ArrayList<>();

    public Car(Engine engine) {
        this.engine = engine;
    }

    public Trip drive(int distance) {
        return new Trip(distance);
    }
}
`
	ast := normalizeJava(t, source)

	require.Len(t, ast.Classes, 1)
	cls := ast.Classes[0]
	assert.Equal(t, "Car", cls.Name)
	assert.Equal(t, "Vehicle", cls.SuperClass)
	assert.Equal(t, []string{"Drivable", "Insurable"}, cls.Interfaces)
	assert.Contains(t, ast.Exports, "Car")

	t.Run("Verify Imports", func(t *testing.T) {
		require.Len(t, ast.Imports, 2)
		assert.Equal(t, "com.example.parts.Engine", ast.Imports[0].Source)
		assert.Equal(t, []string{"Engine"}, ast.Imports[0].ImportedName)

		// 通配符导入按命名空间记录，不登记具体名字
		assert.Equal(t, "com.example.parts", ast.Imports[1].Source)
		assert.True(t, ast.Imports[1].IsNamespace)
		assert.Empty(t, ast.Imports[1].ImportedName)
	})

	t.Run("Verify Properties", func(t *testing.T) {
		require.Len(t, cls.Properties, 4)
		assert.Equal(t, "engine", cls.Properties[0].Name)
		assert.Equal(t, "Engine", cls.Properties[0].Type)
		assert.Equal(t, model.Private, cls.Properties[0].Visibility)

		assert.Equal(t, model.Protected, cls.Properties[1].Visibility)

		assert.True(t, cls.Properties[2].IsStatic)
		assert.Equal(t, model.Public, cls.Properties[2].Visibility)

		// 单参数集合泛型展开为数组表示
		assert.Equal(t, "Wheel[]", cls.Properties[3].Type)
		assert.True(t, cls.Properties[3].IsReadonly)
	})

	t.Run("Verify Constructor", func(t *testing.T) {
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
		assert.Equal(t, "int", drive.Parameters[0].Type)
	})
}

func TestJavaNormalizer_PackagePrivateIsNotPublic(t *testing.T) {
	source := `
class Helper {
    String name;
}
`
	ast := normalizeJava(t, source)

	require.Len(t, ast.Classes, 1)
	// 包级可见的字段按非公开处理
	require.Len(t, ast.Classes[0].Properties, 1)
	assert.Equal(t, model.Private, ast.Classes[0].Properties[0].Visibility)
}

func TestJavaNormalizer_Interface(t *testing.T) {
	source := `
public interface Drivable extends Movable, Steerable {
    int MAX_SPEED = 200;
    Trip drive(Waypoint target);
}
`
	ast := normalizeJava(t, source)

	require.Len(t, ast.Interfaces, 1)
	iface := ast.Interfaces[0]
	assert.Equal(t, "Drivable", iface.Name)
	assert.Equal(t, model.KindInterface, iface.Kind)
	assert.Equal(t, []string{"Movable", "Steerable"}, iface.Interfaces)

	require.Len(t, iface.Methods, 1)
	assert.Equal(t, "drive", iface.Methods[0].Name)
	assert.Equal(t, "Waypoint", iface.Methods[0].Parameters[0].Type)
}

func TestJavaNormalizer_Record(t *testing.T) {
	source := `
public record Point(int x, Coordinate anchor) implements Locatable {
    public double distance(Point other) {
        return 0;
    }
}
`
	ast := normalizeJava(t, source)

	require.Len(t, ast.Classes, 1)
	cls := ast.Classes[0]
	assert.Equal(t, "Point", cls.Name)
	assert.Equal(t, []string{"Locatable"}, cls.Interfaces)

	// Record 组件既是公开只读属性也是构造参数
	require.Len(t, cls.Properties, 2)
	assert.Equal(t, "anchor", cls.Properties[1].Name)
	assert.Equal(t, "Coordinate", cls.Properties[1].Type)
	assert.True(t, cls.Properties[1].IsReadonly)
	assert.Equal(t, model.Public, cls.Properties[1].Visibility)

	require.Len(t, cls.ConstructorParams, 2)
	assert.Equal(t, "Coordinate", cls.ConstructorParams[1].Type)
}

func TestJavaNormalizer_Enum(t *testing.T) {
	source := `
public enum Status {
    ACTIVE, RETIRED;

    private final Policy policy = null;

    public Policy policy() {
        return policy;
    }
}
`
	ast := normalizeJava(t, source)

	require.Len(t, ast.Classes, 1)
	cls := ast.Classes[0]
	assert.Equal(t, "Status", cls.Name)

	// 枚举体内的字段与方法同样被提取
	require.Len(t, cls.Properties, 1)
	assert.Equal(t, "Policy", cls.Properties[0].Type)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "policy", cls.Methods[0].Name)
}

func TestJavaNormalizer_ArrayAndQualifiedTypes(t *testing.T) {
	source := `
public class Fleet {
    private Car[] cars;
    private java.util.List<Driver> drivers;
    private Map<String, Car> index;
}
`
	ast := normalizeJava(t, source)

	require.Len(t, ast.Classes, 1)
	props := ast.Classes[0].Properties
	require.Len(t, props, 3)
	assert.Equal(t, "Car[]", props[0].Type)
	// 限定名集合同样展开
	assert.Equal(t, "Driver[]", props[1].Type)
	// 多参数泛型原样保留
	assert.Equal(t, "Map<String, Car>", props[2].Type)
}
