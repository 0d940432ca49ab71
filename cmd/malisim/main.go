// Package main provides the malisim command that brings up a simulated
// Mali device and reports what came up.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/mali/datarecording"
	"github.com/sarchlab/mali/device"
	"github.com/sarchlab/mali/monitoring"
	"github.com/sarchlab/mali/sched"
	"github.com/sarchlab/mali/simplatform"
	"github.com/sarchlab/mali/tracing"
)

var rootCmd = &cobra.Command{
	Use:   "malisim",
	Short: "Bring up a simulated Mali-400/450 device.",
	Long: `malisim builds a simulated board, runs the full device bring-up ` +
		`sequence against it, prints the assembled pipes, and tears the ` +
		`device back down. It can optionally record the lifecycle to a ` +
		`database and serve the device state over HTTP.`,
	Run: run,
}

func init() {
	rootCmd.Flags().String("generation", "",
		"hardware generation, mali400 or mali450")
	rootCmd.Flags().Int("num-pp", 1,
		"number of pixel processors on the board")
	rootCmd.Flags().Bool("monitor", false,
		"serve the device state over HTTP and wait for interrupt")
	rootCmd.Flags().Int("port", 0,
		"port for the monitoring server, random if 0")
	rootCmd.Flags().String("trace", "",
		"record the lifecycle to a database with the given name")
	rootCmd.Flags().Bool("open", false,
		"open the monitoring page in the default browser")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadEnv fills unset flags from the environment, including a .env file
// in the working directory if one exists.
func loadEnv(cmd *cobra.Command) {
	_ = godotenv.Load()

	if !cmd.Flags().Changed("generation") {
		if v := os.Getenv("MALI_GENERATION"); v != "" {
			_ = cmd.Flags().Set("generation", v)
		}
	}

	if !cmd.Flags().Changed("num-pp") {
		if v := os.Getenv("MALI_NUM_PP"); v != "" {
			_ = cmd.Flags().Set("num-pp", v)
		}
	}

	if !cmd.Flags().Changed("port") {
		if v := os.Getenv("MALI_MONITOR_PORT"); v != "" {
			_ = cmd.Flags().Set("port", v)
		}
	}

	if !cmd.Flags().Changed("trace") {
		if v := os.Getenv("MALI_TRACE_DB"); v != "" {
			_ = cmd.Flags().Set("trace", v)
		}
	}
}

func run(cmd *cobra.Command, _ []string) {
	loadEnv(cmd)

	genStr, _ := cmd.Flags().GetString("generation")
	if genStr == "" {
		genStr = "mali400"
	}

	gen, err := device.ParseGeneration(genStr)
	if err != nil {
		log.Fatal(err)
	}

	numPP, _ := cmd.Flags().GetInt("num-pp")

	platform := simplatform.MakeBuilder().
		WithGeneration(gen).
		WithNumPP(numPP).
		Build("Board")

	scheduler := sched.New()

	dev := device.MakeBuilder().
		WithGeneration(gen).
		WithPlatform(platform).
		WithScheduler(scheduler).
		Build("Mali")

	if traceDB, _ := cmd.Flags().GetString("trace"); traceDB != "" {
		recorder := datarecording.New(traceDB)
		tracing.CollectLifecycleTrace(dev, recorder)
	}

	if err := dev.Init(); err != nil {
		log.Fatalf("device init failed: %v", err)
	}

	printSummary(dev)

	if doMonitor, _ := cmd.Flags().GetBool("monitor"); doMonitor {
		port, _ := cmd.Flags().GetInt("port")
		monitor := monitoring.NewMonitor().WithPortNumber(port)
		monitor.RegisterDevice(dev)
		actualPort := monitor.StartServer()

		if open, _ := cmd.Flags().GetBool("open"); open {
			monitoring.OpenDashboard(actualPort)
		}

		waitForInterrupt()
	}

	dev.Fini()
}

func printSummary(dev *device.Device) {
	fmt.Printf("%s (%s) is up\n", dev.Name(), dev.Generation())

	for k := device.IPKind(0); k < device.NumIP; k++ {
		ip := dev.IP(k)
		if !ip.Present() {
			continue
		}

		fmt.Printf("  ip %-12s irq %d\n", ip.Name(), ip.IRQ())
	}

	for k := device.PipeKind(0); k < device.NumPipe; k++ {
		pipe := dev.Pipe(k)
		fmt.Printf("  pipe %s: %d processors, %d mmus, %d l2 caches\n",
			pipe.Name(),
			pipe.NumProcessors(), pipe.NumMMUs(), pipe.NumL2Caches())
	}

	vaStart, vaEnd := dev.VARange()
	fmt.Printf("  va range [%#x, %#x)\n", vaStart, vaEnd)

	if addr, ok := dev.DLBUDevAddr(); ok {
		fmt.Printf("  dlbu page at %#x, mapped at %#x\n",
			addr, device.VAReserveDLBU)
	}
}

func waitForInterrupt() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
