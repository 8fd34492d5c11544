package analyzer

import (
	"strings"

	"github.com/CodMac/go-treesitter-class-analyzer/model"
)

// ResolvedTypeInfo 是对一个原始类型串的启发式解析结果（派生数据，不落盘）
type ResolvedTypeInfo struct {
	BaseType     string // 去掉数组/泛型/限定前缀后的基础类型名
	QualifiedAs  string // 限定名原文（供导入匹配），无限定时与 BaseType 相同
	IsArray      bool
	IsPrimitive  bool
	IsClassLike  bool // 启发式：非内置、首字母大写
	IsExternal   bool
	SourceModule string
}

// primitiveTypes 固定的原始类型词汇表，覆盖三种语言的拼写
var primitiveTypes = map[string]bool{
	// TypeScript
	"string": true, "number": true, "boolean": true, "any": true, "void": true,
	"null": true, "undefined": true, "never": true, "unknown": true, "object": true,
	"symbol": true, "bigint": true,
	// Python
	"str": true, "int": true, "float": true, "bool": true, "bytes": true,
	"None": true, "dict": true, "list": true, "set": true, "tuple": true,
	// Java
	"byte": true, "short": true, "long": true, "double": true, "char": true,
	"String": true, "Integer": true, "Long": true, "Double": true, "Float": true,
	"Boolean": true, "Character": true, "Byte": true, "Short": true, "Void": true,
	"Object": true, "Number": true,
}

// builtinTypes 众所周知的容器/包装类型排除词汇表。
// 判定 "用户类型" 的唯一正向信号是：非原始类型、不在本表中、基础名首字母大写。
var builtinTypes = map[string]bool{
	// TypeScript / JS
	"Array": true, "ReadonlyArray": true, "Map": true, "WeakMap": true,
	"WeakSet": true, "ReadonlySet": true, "Promise": true, "Date": true,
	"RegExp": true, "Error": true, "Function": true, "Record": true,
	"Partial": true, "Required": true, "Readonly": true, "Pick": true,
	"Omit": true, "Exclude": true, "Extract": true, "JSON": true, "Math": true,
	"Symbol": true, "Iterator": true, "Generator": true, "Uint8Array": true,
	// Python typing
	"List": true, "Set": true, "Dict": true, "Tuple": true, "Optional": true,
	"Union": true, "Callable": true, "Any": true, "Type": true, "Sequence": true,
	"Mapping": true, "MutableMapping": true, "Iterable": true, "Final": true,
	"ClassVar": true, "Annotated": true, "Generic": true, "TypeVar": true,
	"Deque": true, "FrozenSet": true, "Counter": true, "OrderedDict": true,
	"DefaultDict": true, "NamedTuple": true, "TypedDict": true,
	// Java collections & common JDK
	"ArrayList": true, "LinkedList": true, "HashMap": true, "HashSet": true,
	"TreeMap": true, "TreeSet": true, "LinkedHashMap": true, "LinkedHashSet": true,
	"Collection": true, "Queue": true, "Stack": true,
	"Vector": true, "StringBuilder": true, "StringBuffer": true, "Thread": true,
	"Runnable": true, "Exception": true, "RuntimeException": true,
	"Throwable": true, "Class": true, "Comparable": true, "Comparator": true,
	"BigDecimal": true, "BigInteger": true, "LocalDate": true, "LocalDateTime": true,
	"Instant": true, "Duration": true, "UUID": true, "Stream": true,
}

// ResolveType 将自由格式的类型串解析为 ResolvedTypeInfo。
// 纯函数：结果只取决于 (raw, imports)。
func ResolveType(raw string, imports []*model.ImportInfo) *ResolvedTypeInfo {
	info := &ResolvedTypeInfo{}

	base := strings.TrimSpace(raw)
	if base == "" {
		return info
	}

	// 数组标记
	for strings.HasSuffix(base, "[]") {
		info.IsArray = true
		base = strings.TrimSuffix(base, "[]")
	}

	// 残余泛型实参（normalizer 未展开的多参数泛型，如 Map<K,V>）
	if idx := strings.Index(base, "<"); idx >= 0 {
		base = base[:idx]
	}
	if idx := strings.Index(base, "["); idx >= 0 {
		base = base[:idx]
	}
	base = strings.TrimSpace(base)

	// 限定名 pkg.sub.Type 归约为 Type，限定前缀保留供导入匹配
	info.QualifiedAs = base
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[idx+1:]
	}
	info.BaseType = base

	if primitiveTypes[base] {
		info.IsPrimitive = true
		return info
	}

	info.IsClassLike = isClassLikeName(base)

	// 导入匹配：符号名或限定名前缀命中任一导入
	for _, imp := range imports {
		for _, name := range imp.ImportedName {
			if name == base || name == info.QualifiedAs ||
				strings.HasPrefix(info.QualifiedAs, name+".") {
				info.IsExternal = true
				info.SourceModule = imp.Source
				return info
			}
		}
		if imp.IsNamespace && imp.Source != "" &&
			(strings.HasPrefix(info.QualifiedAs, imp.Source+".") || strings.HasSuffix(imp.Source, "."+base)) {
			info.IsExternal = true
			info.SourceModule = imp.Source
			return info
		}
	}

	return info
}

// isClassLikeName 判定 "是否用户类型" 的启发式：
// 非原始类型、不在内置排除表里、首字母大写。
func isClassLikeName(base string) bool {
	if base == "" || builtinTypes[base] {
		return false
	}
	first := base[0]
	return first >= 'A' && first <= 'Z'
}
