package keytable

import (
	"strconv"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/keyevt/helpers"
)

// key "64" { ratelimit = 2 on_press = true exec = "echo hi" }
type hclConfig struct {
	Keys []hclKey `hcl:"key"`
}

type hclKey struct {
	Code      string `hcl:"code,key"`
	RateLimit int    `hcl:"ratelimit"`
	OnPress   bool   `hcl:"on_press"`
	Exec      string `hcl:"exec"`
}

// ParseHCL is strict, unlike Parse: every invalid block is reported.
func ParseHCL(b []byte) (*Table, error) {
	c, err := decodeHCL(b)
	if err != nil {
		return nil, err
	}
	return c.table()
}

func decodeHCL(b []byte) (*hclConfig, error) {
	c := &hclConfig{}
	if err := hcl.Unmarshal(b, c); err != nil {
		return nil, errors.Annotate(err, "keytable hcl unmarshal")
	}
	return c, nil
}

func (self *hclConfig) table() (*Table, error) {
	t := NewTable()
	errs := make([]error, 0, 4)
	for i, k := range self.Keys {
		code, err := strconv.ParseUint(k.Code, 10, 32)
		if err != nil {
			errs = append(errs, errors.Errorf("key[%d] invalid code=%q", i, k.Code))
			continue
		}
		if k.RateLimit < 0 {
			errs = append(errs, errors.Errorf("key[%d] code=%d ratelimit=%d must be >= 0", i, code, k.RateLimit))
			continue
		}
		if k.Exec == "" {
			errs = append(errs, errors.Errorf("key[%d] code=%d exec is empty", i, code))
			continue
		}
		t.Set(Rule{
			Code:      uint32(code),
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
