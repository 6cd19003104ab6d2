// Command hello-monitor captures a board's console, checks the boot
// transcript and reports the result.
//
//	hello-sim -boots 2 | hello-monitor -stdin -boots 2
//	hello-monitor -device /dev/ttyUSB0 -reset-cmd "esptool.py --port /dev/ttyUSB0 run"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"

	"hellofw/host/monitor"
	"hellofw/host/report"
	"hellofw/host/serial"
)

var (
	profilePath = flag.String("profile", "", "YAML board profile")
	device      = flag.String("device", "", "Serial device (overrides the profile)")
	baud        = flag.Int("baud", 0, "Baud rate (overrides the profile)")
	useStdin    = flag.Bool("stdin", false, "Read the console from stdin instead of a serial port")
	boots       = flag.Int("boots", 0, "Boots to wait for (overrides the profile)")
	timeout     = flag.Duration("timeout", 0, "Give up after this long (overrides the profile)")
	resetCmd    = flag.String("reset-cmd", "", "Command that resets the board once capture started")
	reportPath  = flag.String("report", "", "Write a YAML report to this file")
	mqttBroker  = flag.String("mqtt-broker", "", "Publish the report to this broker, e.g. tcp://localhost:1883")
	mqttTopic   = flag.String("mqtt-topic", "", "Topic prefix for published reports")
)

func loadProfile() monitor.Profile {
	p := monitor.DefaultProfile()
	if *profilePath != "" {
		var err error
		if p, err = monitor.LoadProfile(*profilePath); err != nil {
			glog.Exitf("profile: %v", err)
		}
	}
	if *device != "" {
		p.Serial.Device = *device
	}
	if *baud > 0 {
		p.Serial.Baud = *baud
	}
	if *boots > 0 {
		p.Boots = *boots
	}
	if *timeout > 0 {
		p.Timeout = *timeout
	}
	if *resetCmd != "" {
		p.ResetCmd = *resetCmd
	}
	if *mqttBroker != "" {
		p.MQTT.Broker = *mqttBroker
	}
	if *mqttTopic != "" {
		p.MQTT.Topic = *mqttTopic
	}
	return p
}

func openConsole(p monitor.Profile) (serial.Port, string) {
	if *useStdin {
		return serial.NewStreamPort(os.Stdin), "stdin"
	}
	cfg := serial.DefaultConfig(p.Serial.Device)
	cfg.Baud = p.Serial.Baud
	port, err := serial.Open(cfg)
	if err != nil {
		glog.Exit(err)
	}
	if err := port.Flush(); err != nil {
		glog.Warningf("flush %s: %v", p.Serial.Device, err)
	}
	return port, p.Serial.Device
}

func main() {
	flag.Parse()

	p := loadProfile()
	if err := p.Validate(); err != nil {
		glog.Exit(err)
	}
	if p.ResetCmd != "" {
		if _, err := monitor.SplitCommand(p.ResetCmd); err != nil {
			glog.Exitf("reset-cmd: %v", err)
		}
	}

	port, name := openConsole(p)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, p, port, name, os.Stdout)
	cancel()
	glog.Flush()
	os.Exit(code)
}

// run monitors port, reports the result and returns the exit code.
// port is closed before run returns.
func run(ctx context.Context, p monitor.Profile, port serial.Port, name string, out io.Writer) int {
	defer port.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if p.ResetCmd != "" {
		go func() {
			if err := monitor.RunResetCommand(ctx, p.ResetCmd); err != nil {
				glog.Errorf("reset: %v", err)
				cancel()
			}
		}()
	}

	glog.V(1).Infof("monitoring %s for %d boot(s), timeout %v", name, p.Boots, p.Timeout)
	capture, runErr := monitor.New(p).Run(ctx, port)
	if runErr != nil {
		glog.Errorf("monitor %s: %v", name, runErr)
	}

	r := report.New(name, report.HostID(), capture)
	for _, f := range r.Failures {
		glog.Errorf("check: %s", f)
	}
	fmt.Fprintln(out, r.Summary())

	if *reportPath != "" {
		if err := r.WriteFile(*reportPath); err != nil {
			glog.Errorf("report: %v", err)
		}
	}
	if p.MQTT.Broker != "" {
		publish(p, r)
	}

	if runErr != nil || !r.Passed {
		return 1
	}
	return 0
}

func publish(p monitor.Profile, r *report.Report) {
	clientID := fmt.Sprintf("hello-monitor-%d", time.Now().UnixNano()%100000)
	pub, err := report.NewPublisher(p.MQTT.Broker, clientID, p.MQTT.Topic)
	if err != nil {
		glog.Errorf("%v", err)
		return
	}
	defer pub.Close()
	if err := pub.Publish(r); err != nil {
		glog.Errorf("%v", err)
	}
}
