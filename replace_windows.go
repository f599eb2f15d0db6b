//go:build windows

package proc

import (
	"os"
	"os/signal"
)

var platformReplace replaceStrategy = signalProxyReplacer{}

// signalProxyReplacer emulates process replacement, which Windows cannot do
// directly. The interrupt signal is ignored in the parent: Ctrl-C is
// delivered to every process attached to the console, so the child receives
// it and either terminates or handles it itself, and the parent simply
// outlives it until the normal wait completes. Mirroring the child's exit
// code is left to the caller.
type signalProxyReplacer struct{}

func (signalProxyReplacer) replace(p *ProcessBuilder) error {
	signal.Ignore(os.Interrupt)
	return p.Exec()
}
