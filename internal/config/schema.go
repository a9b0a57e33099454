package config

// PipelineConfig is the top-level pipeline file structure.
type PipelineConfig struct {
	Version string      `yaml:"version" toml:"version"`
	Server  ServerConf  `yaml:"server" toml:"server"`
	Browser BrowserConf `yaml:"browser" toml:"browser"`
	Sources []Source    `yaml:"sources" toml:"sources"`
}

// ServerConf holds command queue settings.
type ServerConf struct {
	QueueDepth       int `yaml:"queue_depth" toml:"queue_depth"`
	CommandTimeoutMs int `yaml:"command_timeout_ms" toml:"command_timeout_ms"`
}

// BrowserConf holds presentation hints advertised to the tree widget.
type BrowserConf struct {
	DeleteIcon string `yaml:"delete_icon" toml:"delete_icon"`
}

// Source seeds one pipeline proxy. Inputs reference other sources by key.
type Source struct {
	Key     string   `yaml:"key" toml:"key"`
	Name    string   `yaml:"name" toml:"name"`
	Inputs  []string `yaml:"inputs" toml:"inputs"`
	Visible *bool    `yaml:"visible,omitempty" toml:"visible,omitempty"` // nil = visible
}

// IsVisible reports the initial visibility, defaulting to true.
func (s Source) IsVisible() bool {
	return s.Visible == nil || *s.Visible
}

// DisplayName falls back to the key when no name is set.
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}
