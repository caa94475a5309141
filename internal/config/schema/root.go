// Package schema defines configuration structure types
package schema

// Root is the top-level configuration structure
type Root struct {
	Log     LogConfig     `yaml:"log" json:"log"`
	Toolkit ToolkitConfig `yaml:"toolkit" json:"toolkit"`
}

// ToolkitConfig describes the deployment toolkit hosting the logger
type ToolkitConfig struct {
	Name       string `yaml:"name" json:"name"`
	Phase      string `yaml:"phase" json:"phase"`             // default section for log calls
	ScriptFile string `yaml:"script_file" json:"script_file"` // file="..." attribute; empty uses the executable name
	Relaunched bool   `yaml:"relaunched" json:"relaunched"`   // set by the toolkit when it re-invokes itself
}
