package keytable

import (
	"bytes"
	"io"

	"github.com/juju/errors"
	"github.com/temoto/keyevt/helpers"
	"gopkg.in/yaml.v3"
)

type yamlConfig struct {
	Keys []yamlKey `yaml:"keys"`
}

type yamlKey struct {
	Code      *uint32 `yaml:"code"`
	RateLimit int     `yaml:"ratelimit"`
	OnPress   bool    `yaml:"on_press"`
	Exec      string  `yaml:"exec"`
}

// ParseYAML rejects unknown fields and blocks without code or exec.
func ParseYAML(b []byte) (*Table, error) {
	c, err := decodeYAML(b)
	if err != nil {
		return nil, err
	}
	return c.table()
}

func decodeYAML(b []byte) (*yamlConfig, error) {
	c := &yamlConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Annotate(err, "keytable yaml decode")
	}
	return c, nil
}

func (self *yamlConfig) table() (*Table, error) {
	t := NewTable()
	errs := make([]error, 0, 4)
	for i, k := range self.Keys {
		if k.Code == nil {
			errs = append(errs, errors.Errorf("keys[%d] code is required", i))
			continue
		}
		if k.RateLimit < 0 {
			errs = append(errs, errors.Errorf("keys[%d] code=%d ratelimit=%d must be >= 0", i, *k.Code, k.RateLimit))
			continue
		}
		if k.Exec == "" {
			errs = append(errs, errors.Errorf("keys[%d] code=%d exec is empty", i, *k.Code))
			continue
		}
		t.Set(Rule{
			Code:      *k.Code,
			RateLimit: secondsDuration(uint64(k.RateLimit)),
			OnPress:   k.OnPress,
			Command:   k.Exec,
		})
	}
	if err := helpers.FoldErrors(errs); err != nil {
		return nil, err
	}
	return t, nil
}
