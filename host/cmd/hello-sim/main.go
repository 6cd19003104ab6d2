// Command hello-sim boots the firmware lifecycle on the host against
// simulated hardware, printing the console to stdout.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"

	"hellofw/host/sim"
)

var (
	configPath = flag.String("config", "", "YAML simulator config (defaults to a stock ESP32-S3)")
	boots      = flag.Int("boots", 1, "Number of boots to run; each restart starts the next")
	realtime   = flag.Bool("realtime", false, "Sleep for real on every delay")
	fault      = flag.String("fault", "none", "Storage fault before the first boot: none, no-free-pages, new-version, broken")
	allocFail  = flag.Bool("alloc-fail", false, "Make the allocation probe fail")
	pinFail    = flag.Bool("pin-fail", false, "Make every GPIO call fail")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg := sim.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = sim.LoadConfig(*configPath); err != nil {
			glog.Exitf("config: %v", err)
		}
	}
	if *realtime {
		cfg.Realtime = true
	}

	f, err := sim.ParseFault(*fault)
	if err != nil {
		glog.Exit(err)
	}

	m := sim.NewMachine(cfg)
	if err := m.InjectStorageFault(f); err != nil {
		glog.Exitf("inject %s: %v", f, err)
	}
	m.System().SetAllocFault(*allocFail)
	m.Pins().SetFault(*pinFail)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	for i := 0; i < *boots; i++ {
		if _, err := m.Boot(ctx, os.Stdout); err != nil {
			glog.Errorf("boot %d: %v", i+1, err)
			glog.Flush()
			os.Exit(1)
		}
	}
	glog.V(1).Infof("%d boot(s), %d restart(s)", *boots, m.Restarts())
}
