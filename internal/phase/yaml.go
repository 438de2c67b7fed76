package phase

import (
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// MarshalYAML renders phases as their names, including as map keys.
func (p Phase) MarshalYAML() (interface{}, error) {
	if p < UAT || p > Hypercare {
		return nil, eris.Errorf("phase: cannot marshal invalid phase %d", int(p))
	}
	return p.String(), nil
}

// UnmarshalYAML accepts a phase name. yaml.v3 does not honor
// encoding.TextUnmarshaler, so this is implemented explicitly; it also
// applies when phases appear as map keys.
func (p *Phase) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
