package typescript

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer"
)

// collectionTypes 单参数泛型会被展开为 "元素类型[]" 的集合类名
var collectionTypes = map[string]bool{
	"Array": true, "ReadonlyArray": true, "Set": true, "ReadonlySet": true,
}

type Normalizer struct{}

func NewTypeScriptNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize 实现了 normalizer.Normalizer 接口
func (tn *Normalizer) Normalize(root *sitter.Node, source []byte, filePath string) (*model.UnifiedAST, error) {
	ast := &model.UnifiedAST{
		Language: model.LangTypeScript,
		FilePath: filePath,
	}

	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		tn.extractTopLevel(child, source, ast, false)
	}

	return ast, nil
}

// extractTopLevel 处理顶层语句；exported 表示该语句位于 export_statement 内
func (tn *Normalizer) extractTopLevel(node *sitter.Node, source []byte, ast *model.UnifiedAST, exported bool) {
	switch node.Kind() {
	case "import_statement":
		if imp := tn.extractImport(node, source); imp != nil {
			ast.Imports = append(ast.Imports, imp)
		}

	case "export_statement":
		// export class Foo ... / export { Foo, Bar } / export default Foo
		handled := false
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "export_clause":
				normalizer.EachNamedChild(child, func(spec *sitter.Node) {
					if spec.Kind() == "export_specifier" {
						ast.Exports = append(ast.Exports, normalizer.NodeText(spec.ChildByFieldName("name"), source))
					}
				})
				handled = true
			case "identifier":
				ast.Exports = append(ast.Exports, normalizer.NodeText(child, source))
				handled = true
			default:
				tn.extractTopLevel(child, source, ast, true)
				handled = true
			}
		}
		_ = handled

	case "class_declaration", "abstract_class_declaration":
		if cls := tn.extractClass(node, source); cls != nil {
			ast.Classes = append(ast.Classes, cls)
			if exported {
				ast.Exports = append(ast.Exports, cls.Name)
			}
		}

	case "interface_declaration":
		if iface := tn.extractInterface(node, source); iface != nil {
			ast.Interfaces = append(ast.Interfaces, iface)
			if exported {
				ast.Exports = append(ast.Exports, iface.Name)
			}
		}

	case "function_declaration":
		fn := &model.FunctionInfo{
			Name:       normalizer.NodeText(node.ChildByFieldName("name"), source),
			Parameters: tn.extractParameters(node.ChildByFieldName("parameters"), source, nil),
			ReturnType: tn.annotationType(node.ChildByFieldName("return_type"), source),
			IsAsync:    normalizer.HasChildOfKind(node, "async"),
			Line:       normalizer.Line(node),
		}
		ast.Functions = append(ast.Functions, fn)
		if exported {
			ast.Exports = append(ast.Exports, fn.Name)
		}
	}
}

func (tn *Normalizer) extractImport(node *sitter.Node, source []byte) *model.ImportInfo {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return nil
	}

	imp := &model.ImportInfo{
		Source:     stripQuotes(normalizer.NodeText(sourceNode, source)),
		IsTypeOnly: normalizer.HasChildOfKind(node, "type"),
		Line:       normalizer.Line(node),
	}

	if clause := normalizer.ChildOfKind(node, "import_clause"); clause != nil {
		for i := uint(0); i < clause.NamedChildCount(); i++ {
			child := clause.NamedChild(i)
			switch child.Kind() {
			case "identifier": // 默认导入
				imp.IsDefault = true
				imp.ImportedName = append(imp.ImportedName, normalizer.NodeText(child, source))
			case "namespace_import": // import * as ns
				imp.IsNamespace = true
				if id := normalizer.ChildOfKind(child, "identifier"); id != nil {
					imp.ImportedName = append(imp.ImportedName, normalizer.NodeText(id, source))
				}
			case "named_imports":
				normalizer.EachNamedChild(child, func(spec *sitter.Node) {
					if spec.Kind() != "import_specifier" {
						return
					}
					// 有别名时以别名为准，源码中引用的是别名
					name := spec.ChildByFieldName("alias")
					if name == nil {
						name = spec.ChildByFieldName("name")
					}
					imp.ImportedName = append(imp.ImportedName, normalizer.NodeText(name, source))
				})
			}
		}
	}

	return imp
}

func (tn *Normalizer) extractClass(node *sitter.Node, source []byte) *model.ClassInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	cls := &model.ClassInfo{
		Name:       normalizer.NodeText(nameNode, source),
		Kind:       model.KindClass,
		IsAbstract: node.Kind() == "abstract_class_declaration",
		Line:       normalizer.Line(node),
	}

	if heritage := normalizer.ChildOfKind(node, "class_heritage"); heritage != nil {
		if ext := normalizer.ChildOfKind(heritage, "extends_clause"); ext != nil {
			if value := ext.ChildByFieldName("value"); value != nil {
				cls.SuperClass = tn.flattenName(normalizer.NodeText(value, source))
			}
		}
		if impl := normalizer.ChildOfKind(heritage, "implements_clause"); impl != nil {
			normalizer.EachNamedChild(impl, func(t *sitter.Node) {
				cls.Interfaces = append(cls.Interfaces, tn.typeString(t, source))
			})
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		tn.extractMembers(body, source, cls)
	}
	return cls
}

func (tn *Normalizer) extractInterface(node *sitter.Node, source []byte) *model.ClassInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	iface := &model.ClassInfo{
		Name: normalizer.NodeText(nameNode, source),
		Kind: model.KindInterface,
		Line: normalizer.Line(node),
	}

	if ext := normalizer.ChildOfKind(node, "extends_type_clause"); ext != nil {
		normalizer.EachNamedChild(ext, func(t *sitter.Node) {
			iface.Interfaces = append(iface.Interfaces, tn.typeString(t, source))
		})
	}

	if body := node.ChildByFieldName("body"); body != nil {
		normalizer.EachNamedChild(body, func(member *sitter.Node) {
			switch member.Kind() {
			case "property_signature":
				iface.Properties = append(iface.Properties, &model.PropertyInfo{
					Name:       normalizer.NodeText(member.ChildByFieldName("name"), source),
					Type:       tn.annotationType(member.ChildByFieldName("type"), source),
					Visibility: model.Public,
					IsOptional: normalizer.HasChildOfKind(member, "?"),
					Line:       normalizer.Line(member),
				})
			case "method_signature":
				iface.Methods = append(iface.Methods, &model.MethodInfo{
					Name:       normalizer.NodeText(member.ChildByFieldName("name"), source),
					Parameters: tn.extractParameters(member.ChildByFieldName("parameters"), source, nil),
					ReturnType: tn.annotationType(member.ChildByFieldName("return_type"), source),
					Visibility: model.Public,
					Line:       normalizer.Line(member),
				})
			}
		})
	}
	return iface
}

func (tn *Normalizer) extractMembers(body *sitter.Node, source []byte, cls *model.ClassInfo) {
	normalizer.EachNamedChild(body, func(member *sitter.Node) {
		switch member.Kind() {
		case "public_field_definition":
			typ := tn.annotationType(member.ChildByFieldName("type"), source)
			if typ == "" {
				// 无显式类型标注时从初始化表达式推断
				typ = tn.inferType(member.ChildByFieldName("value"), source)
			}
			cls.Properties = append(cls.Properties, &model.PropertyInfo{
				Name:       normalizer.NodeText(member.ChildByFieldName("name"), source),
				Type:       typ,
				Visibility: tn.visibility(member, source),
				IsStatic:   normalizer.HasChildOfKind(member, "static"),
				IsReadonly: normalizer.HasChildOfKind(member, "readonly"),
				IsOptional: normalizer.HasChildOfKind(member, "?"),
				Line:       normalizer.Line(member),
			})

		case "method_definition", "abstract_method_signature", "method_signature":
			name := normalizer.NodeText(member.ChildByFieldName("name"), source)
			if name == "constructor" {
				// 构造参数单独登记，参数属性（带访问修饰符）同时成为属性
				cls.ConstructorParams = tn.extractParameters(member.ChildByFieldName("parameters"), source, cls)
			}
			cls.Methods = append(cls.Methods, &model.MethodInfo{
				Name:       name,
				Parameters: tn.extractParameters(member.ChildByFieldName("parameters"), source, nil),
				ReturnType: tn.annotationType(member.ChildByFieldName("return_type"), source),
				Visibility: tn.visibility(member, source),
				IsStatic:   normalizer.HasChildOfKind(member, "static"),
				IsAbstract: member.Kind() == "abstract_method_signature",
				IsAsync:    normalizer.HasChildOfKind(member, "async"),
				Line:       normalizer.Line(member),
			})
		}
	})
}

// extractParameters 提取参数列表；cls 非空时将参数属性登记为 cls 的属性
func (tn *Normalizer) extractParameters(node *sitter.Node, source []byte, cls *model.ClassInfo) []*model.ParameterInfo {
	if node == nil {
		return nil
	}
	var params []*model.ParameterInfo
	normalizer.EachNamedChild(node, func(p *sitter.Node) {
		if p.Kind() != "required_parameter" && p.Kind() != "optional_parameter" {
			return
		}
		name := normalizer.NodeText(p.ChildByFieldName("pattern"), source)
		typ := tn.annotationType(p.ChildByFieldName("type"), source)
		params = append(params, &model.ParameterInfo{Name: name, Type: typ})

		if cls != nil {
			if mod := normalizer.ChildOfKind(p, "accessibility_modifier"); mod != nil {
				cls.Properties = append(cls.Properties, &model.PropertyInfo{
					Name:       name,
					Type:       typ,
					Visibility: model.Visibility(normalizer.NodeText(mod, source)),
					IsReadonly: normalizer.HasChildOfKind(p, "readonly"),
					Line:       normalizer.Line(p),
				})
			}
		}
	})
	return params
}

// annotationType 解开 type_annotation 包装并拍平类型
func (tn *Normalizer) annotationType(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		return tn.typeString(node.NamedChild(i), source)
	}
	return ""
}

// typeString 将类型节点拍平为类型解析器可理解的字符串表示
func (tn *Normalizer) typeString(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	switch node.Kind() {
	case "array_type":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			return tn.typeString(node.NamedChild(i), source) + "[]"
		}
		return normalizer.NodeText(node, source)
	case "generic_type":
		base := tn.flattenName(normalizer.NodeText(node.ChildByFieldName("name"), source))
		args := node.ChildByFieldName("type_arguments")
		if args == nil {
			args = normalizer.ChildOfKind(node, "type_arguments")
		}
		if args != nil && collectionTypes[base] && args.NamedChildCount() == 1 {
			return tn.typeString(args.NamedChild(0), source) + "[]"
		}
		return normalizer.NodeText(node, source)
	case "parenthesized_type":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			return tn.typeString(node.NamedChild(i), source)
		}
		return normalizer.NodeText(node, source)
	default:
		return normalizer.NodeText(node, source)
	}
}

// inferType 从初始化表达式推断属性类型
func (tn *Normalizer) inferType(value *sitter.Node, source []byte) string {
	if value == nil {
		return ""
	}

	switch value.Kind() {
	case "new_expression":
		ctor := value.ChildByFieldName("constructor")
		return tn.flattenName(normalizer.NodeText(ctor, source))
	case "array":
		// 字面量集合按第一个元素推断
		if value.NamedChildCount() == 0 {
			return "any[]"
		}
		elem := tn.inferType(value.NamedChild(0), source)
		if elem == "" {
			return "any[]"
		}
		return elem + "[]"
	case "string", "template_string":
		return "string"
	case "number":
		return "number"
	case "true", "false":
		return "boolean"
	case "null":
		return "null"
	case "arrow_function", "function_expression":
		return "Function"
	default:
		return ""
	}
}

// flattenName 保留限定名全文，仅去掉泛型实参部分（如 "ns.Repo<T>" -> "ns.Repo"）
func (tn *Normalizer) flattenName(name string) string {
	if idx := strings.Index(name, "<"); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

func (tn *Normalizer) visibility(member *sitter.Node, source []byte) model.Visibility {
	if mod := normalizer.ChildOfKind(member, "accessibility_modifier"); mod != nil {
		return model.Visibility(normalizer.NodeText(mod, source))
	}
	// TS 缺省可见性为 public
	return model.Public
}

func stripQuotes(s string) string {
	return strings.Trim(s, "'\"`")
}
