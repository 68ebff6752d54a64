// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// FeatureLevel is a tier of guaranteed hardware capabilities. Values
// match the D3D_FEATURE_LEVEL constants and order by capability.
type FeatureLevel uint32

const (
	FeatureLevel9_1  FeatureLevel = 0x9100
	FeatureLevel9_2  FeatureLevel = 0x9200
	FeatureLevel9_3  FeatureLevel = 0x9300
	FeatureLevel10_0 FeatureLevel = 0xa000
	FeatureLevel10_1 FeatureLevel = 0xa100
	FeatureLevel11_0 FeatureLevel = 0xb000
	FeatureLevel11_1 FeatureLevel = 0xb100
)

// DefaultFeatureLevels is the request list in descending preference.
var DefaultFeatureLevels = []FeatureLevel{
	FeatureLevel11_1,
	FeatureLevel11_0,
	FeatureLevel10_1,
	FeatureLevel10_0,
	FeatureLevel9_3,
	FeatureLevel9_2,
	FeatureLevel9_1,
}

func (l FeatureLevel) String() string {
	if l == 0 {
		return "none"
	}
	return fmt.Sprintf("%d_%d", l>>12, (l>>8)&0xf)
}

// ParseFeatureLevel parses names such as "11_0" or "9_3".
func ParseFeatureLevel(s string) (FeatureLevel, error) {
	name := strings.TrimSpace(s)
	name = strings.TrimPrefix(name, "D3D_FEATURE_LEVEL_")
	for _, l := range DefaultFeatureLevels {
		if l.String() == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("gpu: unknown feature level %q", s)
}

// FeatureLevelError is returned by a Backend that rejects a requested
// level list as invalid. Supported is the single level the backend
// reports it can create.
type FeatureLevelError struct {
	Requested []FeatureLevel
	Supported FeatureLevel
}

func (e *FeatureLevelError) Error() string {
	return fmt.Sprintf("gpu: feature levels %v rejected, %v supported", e.Requested, e.Supported)
}

var errNoFeatureLevels = errors.New("gpu: empty feature level list")

type negotiation uint8

const (
	negotiateList negotiation = iota
	negotiateFallback
	negotiateDone
)

type device struct {
	dev   Device
	ctx   DeviceContext
	sc    SwapChain
	level FeatureLevel
}

// createDevice requests levels from b. If the list is rejected it retries
// once with only the level the backend reported as supported.
func createDevice(b Backend, s Surface, desc SwapChainDesc, levels []FeatureLevel) (device, error) {
	if len(levels) == 0 {
		return device{}, errNoFeatureLevels
	}
	var (
		d     device
		err   error
		state = negotiateList
	)
	request := levels
	for state != negotiateDone {
		d.dev, d.ctx, d.sc, d.level, err = b.CreateDeviceAndSwapChain(s, desc, request)
		var flErr *FeatureLevelError
		switch {
		case err == nil:
			state = negotiateDone
		case state == negotiateList && errors.As(err, &flErr):
			Logger().Debug("feature level list rejected, retrying",
				"requested", levels, "supported", flErr.Supported)
			request = []FeatureLevel{flErr.Supported}
			state = negotiateFallback
		default:
			return device{}, err
		}
	}
	if !slices.Contains(request, d.level) {
		d.release()
		return device{}, fmt.Errorf("gpu: backend granted feature level %v, not in %v", d.level, request)
	}
	return d, nil
}

func (d *device) release() {
	if d.sc != nil {
		d.sc.Release()
	}
	if d.ctx != nil {
		d.ctx.Release()
	}
	if d.dev != nil {
		d.dev.Release()
	}
	*d = device{}
}
