package common

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// NotifyInterrupt returns a context canceled on the first interrupt or termination signal.
// A second signal, before stop is called, exits the process.
func NotifyInterrupt(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)
	interrupt := make(chan os.Signal, 2)
	stopped := make(chan struct{})
	signal.Notify(interrupt,
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGQUIT,
	)
	go func() {
		for i := 0; ; i++ {
			select {
			case <-stopped:
				return
			case sig := <-interrupt:
				slog.Warn("Received signal", "signal", sig, "i", i)
				if i > 0 {
					slog.Error("Force exit")
					os.Exit(1)
				}
				cancel()
			}
		}
	}()
	return ctx, func() {
		signal.Stop(interrupt)
		close(stopped)
		cancel()
	}
}
