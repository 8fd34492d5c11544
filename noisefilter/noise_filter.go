package noisefilter

import "github.com/CodMac/go-treesitter-class-analyzer/model"

// NoiseFilter 定义了如何识别特定语言中的背景噪音类名。
// 指向噪音名（运行时基础类、框架基类等）的关系边对类图没有信息量。
type NoiseFilter interface {
	IsNoise(name string) bool
}

var noiseFilterMap = make(map[model.Language]NoiseFilter)

// RegisterNoiseFilter 注册一个语言与其对应的 NoiseFilter
func RegisterNoiseFilter(lang model.Language, noiseFilter NoiseFilter) {
	noiseFilterMap[lang] = noiseFilter
}

// GetNoiseFilter 根据语言类型获取对应的 NoiseFilter 实例。
func GetNoiseFilter(lang model.Language) NoiseFilter {
	noiseFilter, ok := noiseFilterMap[lang]
	if !ok {
		// 如果没注册，返回一个默认不进行过滤的过滤器
		return &DefaultNoiseFilter{}
	}

	return noiseFilter
}

// DefaultNoiseFilter 默认过滤器：不对任何名字进行噪音判定
type DefaultNoiseFilter struct{}

func (d *DefaultNoiseFilter) IsNoise(name string) bool { return false }

// NameSetFilter 基于固定名称集合的通用实现
type NameSetFilter struct {
	names map[string]bool
}

func NewNameSetFilter(names ...string) *NameSetFilter {
	f := &NameSetFilter{names: make(map[string]bool, len(names))}
	for _, n := range names {
		f.names[n] = true
	}
	return f
}

func (f *NameSetFilter) IsNoise(name string) bool { return f.names[name] }

// Apply 剔除指向噪音名的关系边。无噪音时原切片原样返回。
func Apply(lang model.Language, edges []*model.DependencyInfo) []*model.DependencyInfo {
	filter := GetNoiseFilter(lang)

	kept := edges
	dirty := false
	for i, e := range edges {
		if filter.IsNoise(e.To) {
			if !dirty {
				dirty = true
				kept = append([]*model.DependencyInfo{}, edges[:i]...)
			}
			continue
		}
		if dirty {
			kept = append(kept, e)
		}
	}
	return kept
}
