package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 汇总解析策略与资源上限。深度上限是内建的唯一 "超时等价物"，
// 文件数与 glob 结果上限用于约束病态工程（通配导入、超扁平目录）下的最坏工作量。
type Config struct {
	MaxDepthLimit        int      `yaml:"max_depth_limit"`        // 请求深度允许的最大值
	MaxFiles             int      `yaml:"max_files"`              // 单次遍历访问的文件数上限
	MaxGlobResults       int      `yaml:"max_glob_results"`       // 每个未解析名检查的 glob 结果上限
	MaxReverseCandidates int      `yaml:"max_reverse_candidates"` // 反向扫描的候选文件上限
	FixtureMarkers       []string `yaml:"fixture_markers"`        // 多候选解析时优先的路径标记
	SourceRoots          []string `yaml:"source_roots"`           // 包名到文件映射的源码根候选
	FrameworkPrefixes    []string `yaml:"framework_prefixes"`     // 不做文件解析的标准库/框架前缀
}

// Default 返回继承自原始策略的缺省配置
func Default() *Config {
	return &Config{
		MaxDepthLimit:        10,
		MaxFiles:             500,
		MaxGlobResults:       50,
		MaxReverseCandidates: 200,
		FixtureMarkers:       []string{"fixtures", "testdata", "__fixtures__"},
		SourceRoots:          []string{"src", "lib", "app", "source", "src/main/java", "main/java"},
		FrameworkPrefixes: []string{
			"java.", "javax.", "jakarta.", "sun.", "com.sun.", "org.springframework.",
			"lombok.", "org.slf4j.", "org.apache.",
			"typing", "collections", "abc", "os", "sys", "dataclasses", "enum",
			"react", "vue", "lodash", "rxjs", "axios",
		},
	}
}

// Load 读取 yaml 配置文件并在缺省配置上覆盖
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.MaxDepthLimit <= 0 {
		cfg.MaxDepthLimit = Default().MaxDepthLimit
	}
	return cfg, nil
}
