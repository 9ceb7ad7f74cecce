package stream

import (
	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/mobility/common"
	"log/slog"
	"sync"
	"time"
)

// TickMeter counts classified windows and the bytes they were read from,
// logging rates every interval until stopped.
type TickMeter struct {
	label     string
	interval  time.Duration
	started   time.Time
	ticker    *time.Ticker
	done      chan struct{}
	stopOnce  sync.Once
	reg       metrics.Registry
	count     metrics.Counter
	countRate metrics.Meter
	sizeRate  metrics.Meter
}

// NewTickMeter starts a meter. An interval <= 0 disables periodic logging.
func NewTickMeter(label string, interval time.Duration) *TickMeter {
	// Enable metrics package.
	// Won't work without this global setting.
	metrics.Enabled = true

	tm := &TickMeter{
		label:     label,
		interval:  interval,
		started:   time.Now(),
		done:      make(chan struct{}),
		reg:       metrics.NewRegistry(),
		count:     metrics.NewCounter(),
		countRate: metrics.NewMeter(),
		sizeRate:  metrics.NewMeter(),
	}
	for name, m := range map[string]any{
		label + ".count":      tm.count,
		label + ".meter":      tm.countRate,
		label + ".size.meter": tm.sizeRate,
	} {
		if err := tm.reg.Register(name, m); err != nil {
			panic(err)
		}
	}
	if interval > 0 {
		tm.ticker = time.NewTicker(interval)
		go tm.run()
	}
	return tm
}

func (tm *TickMeter) Mark(size int) {
	tm.count.Inc(1)
	tm.countRate.Mark(1)
	tm.sizeRate.Mark(int64(size))
}

func (tm *TickMeter) Count() int64 {
	return tm.count.Snapshot().Count()
}

func (tm *TickMeter) run() {
	for {
		select {
		case <-tm.done:
			return
		case <-tm.ticker.C:
			tm.Log()
		}
	}
}

func (tm *TickMeter) Log() {
	countSnap := tm.countRate.Snapshot()
	sizeSnap := tm.sizeRate.Snapshot()
	slog.Info("Metered "+tm.label,
		"n", humanize.Comma(countSnap.Count()),
		"rate", common.DecimalToFixed(countSnap.RateMean(), 1),
		"bps", humanize.Bytes(uint64(sizeSnap.RateMean())),
		"total.bytes", humanize.Bytes(uint64(sizeSnap.Count())),
		"running", time.Since(tm.started).Round(time.Second))
}

func (tm *TickMeter) Stop() {
	if tm == nil {
		return
	}
	tm.stopOnce.Do(func() {
		close(tm.done)
		if tm.ticker != nil {
			tm.ticker.Stop()
		}
		tm.countRate.Stop()
		tm.sizeRate.Stop()
	})
}
