package java

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
	"github.com/CodMac/go-treesitter-class-analyzer/normalizer"
)

// collectionTypes 单参数泛型会被展开为 "元素类型[]" 的集合类名
var collectionTypes = map[string]bool{
	"List": true, "ArrayList": true, "LinkedList": true,
	"Set": true, "HashSet": true, "TreeSet": true, "LinkedHashSet": true,
	"Collection": true, "Iterable": true, "Queue": true, "Deque": true,
	"Stack": true, "Vector": true,
}

type Normalizer struct{}

func NewJavaNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize 实现了 normalizer.Normalizer 接口
func (jn *Normalizer) Normalize(root *sitter.Node, source []byte, filePath string) (*model.UnifiedAST, error) {
	ast := &model.UnifiedAST{
		Language: model.LangJava,
		FilePath: filePath,
	}

	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "import_declaration":
			if imp := jn.extractImport(child, source); imp != nil {
				ast.Imports = append(ast.Imports, imp)
			}
		case "class_declaration", "record_declaration", "enum_declaration":
			if cls := jn.extractClass(child, source); cls != nil {
				ast.Classes = append(ast.Classes, cls)
				if jn.isPublic(child) {
					ast.Exports = append(ast.Exports, cls.Name)
				}
			}
		case "interface_declaration":
			if iface := jn.extractInterface(child, source); iface != nil {
				ast.Interfaces = append(ast.Interfaces, iface)
				if jn.isPublic(child) {
					ast.Exports = append(ast.Exports, iface.Name)
				}
			}
		}
	}

	return ast, nil
}

func (jn *Normalizer) extractImport(node *sitter.Node, source []byte) *model.ImportInfo {
	var pathParts []string
	isWildcard := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "scoped_identifier", "identifier":
			pathParts = append(pathParts, normalizer.NodeText(child, source))
		case "asterisk":
			isWildcard = true
		}
	}
	if len(pathParts) == 0 {
		return nil
	}

	fullPath := strings.Join(pathParts, ".")
	imp := &model.ImportInfo{
		Source:      fullPath,
		IsNamespace: isWildcard,
		Line:        normalizer.Line(node),
	}
	if !isWildcard {
		segs := strings.Split(fullPath, ".")
		imp.ImportedName = []string{segs[len(segs)-1]}
	}
	return imp
}

func (jn *Normalizer) extractClass(node *sitter.Node, source []byte) *model.ClassInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	cls := &model.ClassInfo{
		Name:       normalizer.NodeText(nameNode, source),
		Kind:       model.KindClass,
		IsAbstract: jn.hasModifier(node, source, "abstract"),
		Line:       normalizer.Line(node),
	}

	// extends
	if superNode := normalizer.ChildOfKind(node, "superclass"); superNode != nil {
		for i := uint(0); i < superNode.NamedChildCount(); i++ {
			cls.SuperClass = jn.typeString(superNode.NamedChild(i), source)
		}
	}

	// implements
	if ifaceNode := normalizer.ChildOfKind(node, "super_interfaces"); ifaceNode != nil {
		if typeList := normalizer.ChildOfKind(ifaceNode, "type_list"); typeList != nil {
			normalizer.EachNamedChild(typeList, func(t *sitter.Node) {
				cls.Interfaces = append(cls.Interfaces, jn.typeString(t, source))
			})
		}
	}

	// Record 组件：既是公开只读属性也是构造参数
	if node.Kind() == "record_declaration" {
		if params := node.ChildByFieldName("parameters"); params != nil {
			for _, p := range normalizer.ChildrenOfKind(params, "formal_parameter") {
				name := normalizer.NodeText(p.ChildByFieldName("name"), source)
				typ := jn.typeString(p.ChildByFieldName("type"), source)
				cls.Properties = append(cls.Properties, &model.PropertyInfo{
					Name:       name,
					Type:       typ,
					Visibility: model.Public,
					IsReadonly: true,
					Line:       normalizer.Line(p),
				})
				cls.ConstructorParams = append(cls.ConstructorParams, &model.ParameterInfo{Name: name, Type: typ})
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		jn.extractMembers(body, source, cls)
	}
	return cls
}

func (jn *Normalizer) extractInterface(node *sitter.Node, source []byte) *model.ClassInfo {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	iface := &model.ClassInfo{
		Name: normalizer.NodeText(nameNode, source),
		Kind: model.KindInterface,
		Line: normalizer.Line(node),
	}

	// 接口继承也记录在 Interfaces 中，最终成为 REALIZATION 边
	if extNode := normalizer.ChildOfKind(node, "extends_interfaces"); extNode != nil {
		if typeList := normalizer.ChildOfKind(extNode, "type_list"); typeList != nil {
			normalizer.EachNamedChild(typeList, func(t *sitter.Node) {
				iface.Interfaces = append(iface.Interfaces, jn.typeString(t, source))
			})
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		jn.extractMembers(body, source, iface)
	}
	return iface
}

// extractMembers 遍历 class_body / interface_body，填充属性与方法
func (jn *Normalizer) extractMembers(body *sitter.Node, source []byte, cls *model.ClassInfo) {
	for i := uint(0); i < body.ChildCount(); i++ {
		member := body.Child(i)
		if member == nil {
			continue
		}

		switch member.Kind() {
		case "field_declaration", "constant_declaration":
			if prop := jn.extractField(member, source); prop != nil {
				cls.Properties = append(cls.Properties, prop)
			}
		case "method_declaration":
			cls.Methods = append(cls.Methods, jn.extractMethod(member, source))
		case "constructor_declaration", "compact_constructor_declaration":
			jn.extractConstructor(member, source, cls)
		case "enum_body_declarations":
			// 枚举的字段与方法挂在 enum_body_declarations 之下
			jn.extractMembers(member, source, cls)
		}
	}
}

func (jn *Normalizer) extractField(node *sitter.Node, source []byte) *model.PropertyInfo {
	declarator := normalizer.ChildOfKind(node, "variable_declarator")
	if declarator == nil {
		return nil
	}

	return &model.PropertyInfo{
		Name:       normalizer.NodeText(declarator.ChildByFieldName("name"), source),
		Type:       jn.typeString(node.ChildByFieldName("type"), source),
		Visibility: jn.visibility(node, source),
		IsStatic:   jn.hasModifier(node, source, "static"),
		IsReadonly: jn.hasModifier(node, source, "final"),
		Line:       normalizer.Line(node),
	}
}

func (jn *Normalizer) extractMethod(node *sitter.Node, source []byte) *model.MethodInfo {
	return &model.MethodInfo{
		Name:       normalizer.NodeText(node.ChildByFieldName("name"), source),
		Parameters: jn.extractParameters(node.ChildByFieldName("parameters"), source),
		ReturnType: jn.typeString(node.ChildByFieldName("type"), source),
		Visibility: jn.visibility(node, source),
		IsStatic:   jn.hasModifier(node, source, "static"),
		IsAbstract: jn.hasModifier(node, source, "abstract"),
		Line:       normalizer.Line(node),
	}
}

// extractConstructor 构造函数同时登记为方法（名称与类型名一致）与注入来源
func (jn *Normalizer) extractConstructor(node *sitter.Node, source []byte, cls *model.ClassInfo) {
	params := jn.extractParameters(node.ChildByFieldName("parameters"), source)

	cls.Methods = append(cls.Methods, &model.MethodInfo{
		Name:       cls.Name,
		Parameters: params,
		Visibility: jn.visibility(node, source),
		Line:       normalizer.Line(node),
	})
	if cls.ConstructorParams == nil {
		cls.ConstructorParams = params
	}
}

func (jn *Normalizer) extractParameters(node *sitter.Node, source []byte) []*model.ParameterInfo {
	if node == nil {
		return nil
	}
	var params []*model.ParameterInfo
	normalizer.EachNamedChild(node, func(p *sitter.Node) {
		if p.Kind() != "formal_parameter" && p.Kind() != "spread_parameter" {
			return
		}
		params = append(params, &model.ParameterInfo{
			Name: normalizer.NodeText(p.ChildByFieldName("name"), source),
			Type: jn.typeString(p.ChildByFieldName("type"), source),
		})
	})
	return params
}

// typeString 将类型节点拍平为类型解析器可理解的字符串表示。
// 数组与单参数集合泛型统一为 "元素类型[]"；限定名保留点号前缀供导入匹配。
func (jn *Normalizer) typeString(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	switch node.Kind() {
	case "array_type":
		return jn.typeString(node.ChildByFieldName("element"), source) + "[]"
	case "generic_type":
		base := ""
		var args *sitter.Node
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			switch child.Kind() {
			case "type_identifier", "scoped_type_identifier":
				base = normalizer.NodeText(child, source)
			case "type_arguments":
				args = child
			}
		}
		baseName := base
		if idx := strings.LastIndex(base, "."); idx >= 0 {
			baseName = base[idx+1:]
		}
		if args != nil && collectionTypes[baseName] && args.NamedChildCount() == 1 {
			return jn.typeString(args.NamedChild(0), source) + "[]"
		}
		return normalizer.NodeText(node, source)
	default:
		return normalizer.NodeText(node, source)
	}
}

func (jn *Normalizer) visibility(node *sitter.Node, source []byte) model.Visibility {
	switch {
	case jn.hasModifier(node, source, "public"):
		return model.Public
	case jn.hasModifier(node, source, "protected"):
		return model.Protected
	default:
		// 包级可见按非公开处理
		return model.Private
	}
}

func (jn *Normalizer) isPublic(node *sitter.Node) bool {
	modifiers := normalizer.ChildOfKind(node, "modifiers")
	if modifiers == nil {
		// 顶层无修饰符的类型仍可被同包引用，按导出处理
		return true
	}
	return normalizer.HasChildOfKind(modifiers, "public")
}

func (jn *Normalizer) hasModifier(node *sitter.Node, source []byte, want string) bool {
	modifiers := normalizer.ChildOfKind(node, "modifiers")
	if modifiers == nil {
		return false
	}
	for i := uint(0); i < modifiers.ChildCount(); i++ {
		if modifiers.Child(i).Kind() == want {
			return true
		}
	}
	return false
}
