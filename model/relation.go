package model

// --- 依赖关系类型 (Relationship Types) ---

// RelationType 是表示类间结构关系的字符串常量
type RelationType string

const (
	Inheritance RelationType = "INHERITANCE" // Inheritance: From 继承 To（extends）。
	Realization RelationType = "REALIZATION" // Realization: From 实现 To 接口（implements）。
	Composition RelationType = "COMPOSITION" // Composition: 强拥有，From 控制 To 实例的生命周期。
	Aggregation RelationType = "AGGREGATION" // Aggregation: 弱拥有，通常由集合属性产生，元素可独立存在。
	Association RelationType = "ASSOCIATION" // Association: 公开引用，无拥有语义。
	Dependency  RelationType = "DEPENDENCY"  // Dependency: 方法参数或返回值引用 To 类型。
	Injection   RelationType = "INJECTION"   // Injection: 构造函数参数注入 To 类型。
)

// DependencyInfo 是 analyzer 的核心输出结构，描述两个类名之间的一条有向关系边。
// From/To 均为裸类名而非文件路径；类名到文件的解析是跨文件引擎的职责。
type DependencyInfo struct {
	From         string       `json:"From"`
	To           string       `json:"To"`
	Type         RelationType `json:"Type"`
	Cardinality  string       `json:"Cardinality,omitempty"` // UML 基数："1" 或 "*"
	Context      string       `json:"Context,omitempty"`     // 产生该边的属性或方法，如 "render(props)"
	Line         int          `json:"Line,omitempty"`
	IsExternal   bool         `json:"IsExternal,omitempty"`
	SourceModule string       `json:"SourceModule,omitempty"`
}

// DedupKey 返回边级去重键
func (d *DependencyInfo) DedupKey() string {
	return d.From + ":" + d.To + ":" + string(d.Type) + ":" + d.Context
}

// InheritanceTree 是父类名到直接子类名列表的辅助索引
type InheritanceTree map[string][]string
