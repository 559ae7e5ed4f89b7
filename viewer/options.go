package viewer

import (
	"fmt"
	"os"

	"github.com/binzume/tbmscene/naming"
	"github.com/binzume/tbmscene/rig"
	"gopkg.in/yaml.v2"
)

const (
	DefaultRootName         = "ASM_TBM"
	DefaultNamingConvention = "ASM, CMP"
	DefaultFPS              = 60
)

// DefaultRotors are the parts spun by their rotation speed series.
var DefaultRotors = []string{"ASM_CUTTERHEAD"}

// Options is the configuration surface of the panel.
type Options struct {
	ModelPath        string     `yaml:"model"`
	RootName         string     `yaml:"root"`
	NamingConvention string     `yaml:"naming_convention"`
	Telemetry        string     `yaml:"telemetry,omitempty"`
	Rotors           []string   `yaml:"rotors,omitempty"`
	FPS              int        `yaml:"fps,omitempty"`
	Width            int        `yaml:"width,omitempty"`
	Height           int        `yaml:"height,omitempty"`
	Rig              rig.Config `yaml:"rig"`
}

func DefaultOptions() *Options {
	return &Options{
		RootName:         DefaultRootName,
		NamingConvention: DefaultNamingConvention,
		Rotors:           append([]string(nil), DefaultRotors...),
		FPS:              DefaultFPS,
		Width:            800,
		Height:           600,
		Rig:              rig.DefaultConfig(),
	}
}

// LoadOptions reads a YAML file over the defaults.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOptions(data)
}

func ParseOptions(data []byte) (*Options, error) {
	opts := DefaultOptions()
	if err := yaml.UnmarshalStrict(data, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return opts, nil
}

func (o *Options) Convention() naming.Convention {
	return naming.Parse(o.NamingConvention)
}

// Validate checks the values needed to load a model.
func (o *Options) Validate() error {
	return validate(o.ModelPath, o.RootName, o.Convention())
}

func validate(path, rootName string, conv naming.Convention) error {
	if path == "" {
		return fmt.Errorf("%w: model path is empty", ErrInvalidConfig)
	}
	if rootName == "" {
		return fmt.Errorf("%w: root name is empty", ErrInvalidConfig)
	}
	if err := conv.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
