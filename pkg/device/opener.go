package device

import (
	"fmt"
	"strings"

	"github.com/irctrakz/devchan/pkg/core"
)

// NewOpener returns the opener for the configured device kind.
func NewOpener(cfg core.ChannelConfig) (core.DeviceOpener, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", core.DeviceKindNode:
		return NodeOpener{}, nil
	case core.DeviceKindTUN:
		return TUNOpener{MTU: cfg.TUNMTU}, nil
	default:
		return nil, fmt.Errorf("unsupported device kind: %s", cfg.Kind)
	}
}
