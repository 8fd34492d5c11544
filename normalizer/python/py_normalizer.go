package python

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer"
)

// collectionTypes 单参数下标泛型会被展开为 "元素类型[]" 的集合类名
var collectionTypes = map[string]bool{
	"List": true, "list": true, "Set": true, "set": true,
	"Sequence": true, "Iterable": true, "FrozenSet": true, "frozenset": true,
	"Tuple": true, "tuple": true, "Deque": true,
}

// unwrapTypes 单参数下标会被解开为参数本身的包装类名（非集合）
var unwrapTypes = map[string]bool{
	"Optional": true, "Final": true, "ClassVar": true, "Annotated": true,
}

type Normalizer struct{}

func NewPythonNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize 实现了 normalizer.Normalizer 接口
func (pn *Normalizer) Normalize(root *sitter.Node, source []byte, filePath string) (*model.UnifiedAST, error) {
	ast := &model.UnifiedAST{
		Language: model.LangPython,
		FilePath: filePath,
	}

	var explicitAll []string

	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "import_statement", "import_from_statement":
			if imp := pn.extractImport(child, source); imp != nil {
				ast.Imports = append(ast.Imports, imp)
			}
		case "class_definition":
			if cls := pn.extractClass(child, source); cls != nil {
				ast.Classes = append(ast.Classes, cls)
			}
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Kind() == "class_definition" {
				if cls := pn.extractClass(def, source); cls != nil {
					ast.Classes = append(ast.Classes, cls)
				}
			} else if def != nil && def.Kind() == "function_definition" {
				ast.Functions = append(ast.Functions, pn.extractFunction(def, source))
			}
		case "function_definition":
			ast.Functions = append(ast.Functions, pn.extractFunction(child, source))
		case "expression_statement":
			if names := pn.extractDunderAll(child, source); names != nil {
				explicitAll = names
			}
		}
	}

	// __all__ 优先；否则按下划线约定导出全部顶层定义
	if explicitAll != nil {
		ast.Exports = explicitAll
	} else {
		for _, c := range ast.Classes {
			if !strings.HasPrefix(c.Name, "_") {
				ast.Exports = append(ast.Exports, c.Name)
			}
		}
		for _, f := range ast.Functions {
			if !strings.HasPrefix(f.Name, "_") {
				ast.Exports = append(ast.Exports, f.Name)
			}
		}
	}

	return ast, nil
}

func (pn *Normalizer) extractFunction(node *sitter.Node, source []byte) *model.FunctionInfo {
	return &model.FunctionInfo{
		Name:       normalizer.NodeText(node.ChildByFieldName("name"), source),
		Parameters: pn.extractParameters(node.ChildByFieldName("parameters"), source),
		ReturnType: pn.typeString(node.ChildByFieldName("return_type"), source),
		IsAsync:    normalizer.HasChildOfKind(node, "async"),
		Line:       normalizer.Line(node),
	}
}

func (pn *Normalizer) extractImport(node *sitter.Node, source []byte) *model.ImportInfo {
	imp := &model.ImportInfo{Line: normalizer.Line(node)}

	if node.Kind() == "import_statement" {
		// import a.b.c / import a.b as x
		name := node.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		if name.Kind() == "aliased_import" {
			imp.Source = normalizer.NodeText(name.ChildByFieldName("name"), source)
			imp.ImportedName = []string{normalizer.NodeText(name.ChildByFieldName("alias"), source)}
		} else {
			imp.Source = normalizer.NodeText(name, source)
			segs := strings.Split(imp.Source, ".")
			imp.ImportedName = []string{segs[len(segs)-1]}
		}
		imp.IsNamespace = true
		return imp
	}

	// from .models import User, Order as O / from x import *
	module := node.ChildByFieldName("module_name")
	if module == nil {
		return nil
	}
	imp.Source = normalizer.NodeText(module, source)

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.StartByte() <= module.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			imp.ImportedName = append(imp.ImportedName, normalizer.NodeText(child, source))
		case "aliased_import":
			imp.ImportedName = append(imp.ImportedName, normalizer.NodeText(child.ChildByFieldName("alias"), source))
		case "wildcard_import":
			imp.IsNamespace = true
		}
	}
	return imp
}

func (pn *Normalizer) extractDunderAll(stmt *sitter.Node, source []byte) []string {
	assign := normalizer.ChildOfKind(stmt, "assignment")
	if assign == nil {
		return nil
	}
	left := assign.ChildByFieldName("left")
	if left == nil || normalizer.NodeText(left, source) != "__all__" {
		return nil
	}
	right := assign.ChildByFieldName("right")
	if right == nil || right.Kind() != "list" {
		return nil
	}

	var names []string
	normalizer.EachNamedChild(right, func(elem *sitter.Node) {
		if elem.Kind() == "string" {
			names = append(names, strings.Trim(normalizer.NodeText(elem, source), "'\""))
		}
	})
	return names
}

func (pn *Normalizer) extractClass(node *sitter.Node, source []byte) *model.ClassInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	cls := &model.ClassInfo{
		Name: normalizer.NodeText(nameNode, source),
		Kind: model.KindClass,
		Line: normalizer.Line(node),
	}

	// 基类列表：首个基类视为父类，ABC/Protocol 基类标记抽象，
	// 其余基类按接口实现处理
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		normalizer.EachNamedChild(supers, func(s *sitter.Node) {
			switch s.Kind() {
			case "identifier", "attribute":
				name := normalizer.NodeText(s, source)
				base := name
				if idx := strings.LastIndex(base, "."); idx >= 0 {
					base = base[idx+1:]
				}
				if base == "ABC" || base == "Protocol" {
					cls.IsAbstract = true
					return
				}
				if cls.SuperClass == "" {
					cls.SuperClass = name
				} else {
					cls.Interfaces = append(cls.Interfaces, name)
				}
			}
		})
	}

	if body := node.ChildByFieldName("body"); body != nil {
		pn.extractMembers(body, source, cls)
	}
	return cls
}

func (pn *Normalizer) extractMembers(body *sitter.Node, source []byte, cls *model.ClassInfo) {
	normalizer.EachNamedChild(body, func(member *sitter.Node) {
		switch member.Kind() {
		case "function_definition":
			pn.extractMethod(member, source, cls)
		case "decorated_definition":
			if d := member.ChildByFieldName("definition"); d != nil && d.Kind() == "function_definition" {
				pn.extractMethod(d, source, cls)
			}
		case "expression_statement":
			// 类级属性：标注赋值或普通赋值
			if assign := normalizer.ChildOfKind(member, "assignment"); assign != nil {
				if prop := pn.extractClassAttribute(assign, source); prop != nil {
					cls.Properties = append(cls.Properties, prop)
				}
			}
		}
	})
}

func (pn *Normalizer) extractMethod(node *sitter.Node, source []byte, cls *model.ClassInfo) {
	name := normalizer.NodeText(node.ChildByFieldName("name"), source)
	params := pn.extractParameters(node.ChildByFieldName("parameters"), source)

	method := &model.MethodInfo{
		Name:       name,
		Parameters: params,
		ReturnType: pn.typeString(node.ChildByFieldName("return_type"), source),
		Visibility: pn.visibility(name),
		IsAsync:    normalizer.HasChildOfKind(node, "async"),
		Line:       normalizer.Line(node),
	}
	cls.Methods = append(cls.Methods, method)

	// __init__ 是专用初始化方法：登记构造参数并收集 self.x 属性
	if name == "__init__" {
		cls.ConstructorParams = params
		if body := node.ChildByFieldName("body"); body != nil {
			pn.extractSelfAssignments(body, source, cls)
		}
	}
}

// extractParameters 提取参数列表，丢弃 self/cls
func (pn *Normalizer) extractParameters(node *sitter.Node, source []byte) []*model.ParameterInfo {
	if node == nil {
		return nil
	}
	var params []*model.ParameterInfo
	normalizer.EachNamedChild(node, func(p *sitter.Node) {
		var name, typ string
		switch p.Kind() {
		case "identifier":
			name = normalizer.NodeText(p, source)
		case "typed_parameter":
			if id := p.NamedChild(0); id != nil {
				name = normalizer.NodeText(id, source)
			}
			typ = pn.typeString(p.ChildByFieldName("type"), source)
		case "default_parameter":
			name = normalizer.NodeText(p.ChildByFieldName("name"), source)
			typ = pn.inferType(p.ChildByFieldName("value"), source)
		case "typed_default_parameter":
			name = normalizer.NodeText(p.ChildByFieldName("name"), source)
			typ = pn.typeString(p.ChildByFieldName("type"), source)
		default:
			return
		}
		if name == "" || name == "self" || name == "cls" {
			return
		}
		params = append(params, &model.ParameterInfo{Name: name, Type: typ})
	})
	return params
}

func (pn *Normalizer) extractClassAttribute(assign *sitter.Node, source []byte) *model.PropertyInfo {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return nil
	}
	name := normalizer.NodeText(left, source)
	if name == "__all__" {
		return nil
	}

	typ := pn.typeString(assign.ChildByFieldName("type"), source)
	if typ == "" {
		typ = pn.inferType(assign.ChildByFieldName("right"), source)
	}

	return &model.PropertyInfo{
		Name:       name,
		Type:       typ,
		Visibility: pn.visibility(name),
		IsStatic:   true, // 类级赋值即类属性
		Line:       normalizer.Line(assign),
	}
}

// extractSelfAssignments 收集 __init__ 体内的 self.x 赋值作为实例属性
func (pn *Normalizer) extractSelfAssignments(body *sitter.Node, source []byte, cls *model.ClassInfo) {
	seen := make(map[string]bool)
	for _, p := range cls.Properties {
		seen[p.Name] = true
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Kind() == "assignment" {
			if prop := pn.selfAttribute(n, source); prop != nil && !seen[prop.Name] {
				seen[prop.Name] = true
				cls.Properties = append(cls.Properties, prop)
			}
		}
		cursor := n.Walk()
		defer cursor.Close()
		if cursor.GotoFirstChild() {
			for {
				walk(cursor.Node())
				if !cursor.GotoNextSibling() {
					break
				}
			}
		}
	}
	walk(body)
}

func (pn *Normalizer) selfAttribute(assign *sitter.Node, source []byte) *model.PropertyInfo {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "attribute" {
		return nil
	}
	obj := left.ChildByFieldName("object")
	if obj == nil || normalizer.NodeText(obj, source) != "self" {
		return nil
	}

	name := normalizer.NodeText(left.ChildByFieldName("attribute"), source)
	typ := pn.typeString(assign.ChildByFieldName("type"), source)
	if typ == "" {
		typ = pn.inferType(assign.ChildByFieldName("right"), source)
	}

	return &model.PropertyInfo{
		Name:       name,
		Type:       typ,
		Visibility: pn.visibility(name),
		Line:       normalizer.Line(assign),
	}
}

// typeString 将类型节点拍平为类型解析器可理解的字符串表示。
// 集合下标（List[X]）展开为 "X[]"，Optional[X] 解开为 X。
func (pn *Normalizer) typeString(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	switch node.Kind() {
	case "type":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			return pn.typeString(node.NamedChild(i), source)
		}
		return normalizer.NodeText(node, source)
	case "subscript":
		base := normalizer.NodeText(node.ChildByFieldName("value"), source)
		baseName := base
		if idx := strings.LastIndex(baseName, "."); idx >= 0 {
			baseName = baseName[idx+1:]
		}
		valueEnd := node.ChildByFieldName("value").EndByte()
		var args []*sitter.Node
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.StartByte() > valueEnd {
				args = append(args, child)
			}
		}
		if len(args) == 1 {
			if collectionTypes[baseName] {
				return pn.typeString(args[0], source) + "[]"
			}
			if unwrapTypes[baseName] {
				return pn.typeString(args[0], source)
			}
		}
		return normalizer.NodeText(node, source)
	case "string":
		// 前向引用："Engine" -> Engine
		return strings.Trim(normalizer.NodeText(node, source), "'\"")
	case "binary_operator":
		// X | None 形式的可空类型取左侧
		if left := node.ChildByFieldName("left"); left != nil {
			return pn.typeString(left, source)
		}
		return normalizer.NodeText(node, source)
	case "none":
		return "None"
	default:
		return normalizer.NodeText(node, source)
	}
}

// inferType 从初始化表达式推断类型
func (pn *Normalizer) inferType(value *sitter.Node, source []byte) string {
	if value == nil {
		return ""
	}

	switch value.Kind() {
	case "call":
		fn := normalizer.NodeText(value.ChildByFieldName("function"), source)
		base := fn
		if idx := strings.LastIndex(base, "."); idx >= 0 {
			base = base[idx+1:]
		}
		// 构造调用：首字母大写视为类型名
		if base != "" && base[0] >= 'A' && base[0] <= 'Z' {
			return fn
		}
		return ""
	case "list":
		if value.NamedChildCount() == 0 {
			return "list"
		}
		elem := pn.inferType(value.NamedChild(0), source)
		if elem == "" {
			return "list"
		}
		return elem + "[]"
	case "string":
		return "str"
	case "integer":
		return "int"
	case "float":
		return "float"
	case "true", "false":
		return "bool"
	case "none":
		return "None"
	case "dictionary":
		return "dict"
	case "set":
		return "set"
	case "tuple":
		return "tuple"
	default:
		return ""
	}
}

func (pn *Normalizer) visibility(name string) model.Visibility {
	// 下划线约定：单/双下划线前缀视为私有
	if strings.HasPrefix(name, "_") {
		return model.Private
	}
	return model.Public
}
