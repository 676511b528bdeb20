// Package device acquires handles to kernel-resident driver endpoints.
//
// NodeOpener opens character device nodes read/write. TUNOpener attaches to a
// kernel TUN interface through wireguard-go's tun package. MockOpener stands in
// for either in tests without privileges.
package device
