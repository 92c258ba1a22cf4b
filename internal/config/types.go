package config

// Settings 配置文件结构
//
// 空字段表示未设置，由环境变量或默认值补齐。
type Settings struct {
	Version   string `json:"version" yaml:"version" toml:"version"`
	Repo      string `json:"repo,omitempty" yaml:"repo,omitempty" toml:"repo,omitempty"`
	Remote    string `json:"remote,omitempty" yaml:"remote,omitempty" toml:"remote,omitempty"`
	Branch    string `json:"branch,omitempty" yaml:"branch,omitempty" toml:"branch,omitempty"`
	OnFailure string `json:"on_failure,omitempty" yaml:"on_failure,omitempty" toml:"on_failure,omitempty"`
	Timeout   int    `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"` // 秒，0 表示不限
	Quiet     bool   `json:"quiet,omitempty" yaml:"quiet,omitempty" toml:"quiet,omitempty"`
}

// Manager 配置管理器接口
type Manager interface {
	// Load 加载配置文件。文件不存在时返回的错误满足 errors.Is(err, fs.ErrNotExist)
	Load() (*Settings, error)

	// Save 保存配置文件（原子操作）
	Save(settings *Settings) error

	// CreateDefault 写入默认配置。文件已存在且 overwrite 为 false 时返回 ErrConfigExists
	CreateDefault(overwrite bool) error

	// Path 返回配置文件路径
	Path() string
}
