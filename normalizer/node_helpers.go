package normalizer

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeText 返回节点覆盖的源码文本
func NodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}

// Line 返回节点的 1-based 起始行号
func Line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPosition().Row) + 1
}

// ChildOfKind 返回第一个指定 kind 的直接子节点
func ChildOfKind(n *sitter.Node, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// ChildrenOfKind 返回所有指定 kind 的直接子节点
func ChildrenOfKind(n *sitter.Node, kind string) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}

// HasChildOfKind 判断是否存在指定 kind 的直接子节点
func HasChildOfKind(n *sitter.Node, kind string) bool {
	return ChildOfKind(n, kind) != nil
}

// EachNamedChild 遍历所有 named 直接子节点
func EachNamedChild(n *sitter.Node, fn func(child *sitter.Node)) {
	if n == nil {
		return
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil {
			fn(child)
		}
	}
}
