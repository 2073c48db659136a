//go:build amd64

package cpu

import "golang.org/x/sys/cpu"

func init() {
	hasAVX2 = cpu.X86.HasAVX2
	initCapabilities()
}
