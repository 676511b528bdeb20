package core

// Device kinds understood by the opener factory.
const (
	DeviceKindNode = "node"
	DeviceKindTUN  = "tun"
)

// ChannelConfig contains configuration for the device channel.
type ChannelConfig struct {
	// DevicePath names the endpoint to open. For TUN devices it is the
	// interface name.
	DevicePath string `json:"device_path" yaml:"devicePath"`

	// Kind selects how the endpoint is opened ("node" or "tun").
	Kind string `json:"kind" yaml:"kind"`

	// TUNMTU is the MTU applied when Kind is "tun".
	TUNMTU int `json:"tun_mtu" yaml:"tunMTU"`
}
