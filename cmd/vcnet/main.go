// Command vcnet runs credit-based flow-control traffic between two agents
// connected by a credit channel.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/vcnet/datarecording"
	"github.com/sarchlab/vcnet/monitoring"
	"github.com/sarchlab/vcnet/noc/acceptance"
	"github.com/sarchlab/vcnet/noc/creditchannel"
	"github.com/sarchlab/vcnet/sim"
)

var (
	numVC         int
	bufDepth      int
	flitLatency   int
	creditLatency int
	numFlits      uint64
	seed          int64
	spin          bool
	trace         bool
	traceDB       string
	monitor       bool
	monitorPort   int
	debug         bool
)

var rootCmd = &cobra.Command{
	Use:   "vcnet",
	Short: "Simulate credit-based flow control on a virtual-channel link",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.Flags().IntVar(&numVC, "num-vc", 4,
		"number of virtual channels on the link")
	rootCmd.Flags().IntVar(&bufDepth, "buffers-per-vc", 5,
		"buffer slots per virtual channel")
	rootCmd.Flags().IntVar(&flitLatency, "flit-latency", 1,
		"link latency of the flit lane, in cycles")
	rootCmd.Flags().IntVar(&creditLatency, "credit-latency", 1,
		"link latency of the credit lane, in cycles")
	rootCmd.Flags().Uint64Var(&numFlits, "num-flits", 10000,
		"number of flits to send")
	rootCmd.Flags().Int64Var(&seed, "seed", 1,
		"seed of the traffic generator")
	rootCmd.Flags().BoolVar(&spin, "spin", false,
		"return credits as move credits")
	rootCmd.Flags().BoolVar(&trace, "trace", false,
		"record delivered flits and credits into a SQLite database")
	rootCmd.Flags().StringVar(&traceDB, "trace-db", "",
		"path of the trace database, without the .sqlite3 suffix")
	rootCmd.Flags().BoolVar(&monitor, "monitor", false,
		"start the monitoring server")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"port of the monitoring server")
	rootCmd.Flags().BoolVar(&debug, "debug", false,
		"log every message that crosses an agent port")
}

// loadEnvDefaults reads a .env file, if present, and lets its values stand
// in for flags the user did not set.
func loadEnvDefaults() {
	_ = godotenv.Load()

	if v := os.Getenv("VCNET_TRACE_DB"); v != "" && traceDB == "" {
		traceDB = v
	}

	if v := os.Getenv("VCNET_MONITOR_PORT"); v != "" && monitorPort == 0 {
		port, err := strconv.Atoi(v)
		if err == nil {
			monitorPort = port
		}
	}
}

func run() {
	loadEnvDefaults()
	rand.Seed(seed)

	engine := sim.NewSerialEngine()
	test := acceptance.NewTest()

	agents := createAgents(engine, test)
	channel := createChannel(engine)
	channel.PlugIn(agents[0].AgentPort, 1)
	channel.PlugIn(agents[1].AgentPort, 1)

	if debug {
		logger := log.New(os.Stderr, "", 0)
		for _, agent := range agents {
			agent.AgentPort.AcceptHook(
				sim.NewPortMsgLogger(logger, engine))
		}
	}

	if trace {
		recorder := datarecording.New(traceDB)
		observer := datarecording.NewCreditObserver(recorder, engine)
		channel.AcceptHook(observer)
	}

	if monitor {
		m := monitoring.NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterComponent(channel)
		for _, agent := range agents {
			m.RegisterComponent(agent)
		}
		if monitorPort != 0 {
			m.WithPortNumber(monitorPort)
		}
		m.StartServer()
	}

	test.GenerateTraffic(numFlits)

	err := engine.Run()
	if err != nil {
		panic(err)
	}

	test.MustHaveReceivedAllFlits()
	test.ReportBandwidthAchieved(engine.CurrentTime())
}

func createAgents(
	engine *sim.SerialEngine,
	test *acceptance.Test,
) []*acceptance.Agent {
	var agents []*acceptance.Agent

	for i := 0; i < 2; i++ {
		b := acceptance.MakeAgentBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithTest(test).
			WithNumVC(numVC).
			WithBufDepth(bufDepth)
		if spin {
			b = b.WithSpin(i, 1-i)
		}

		agent := b.Build(sim.BuildNameWithIndex("", "Agent", i))
		agent.TickLater()

		test.RegisterAgent(agent)
		agents = append(agents, agent)
	}

	return agents
}

func createChannel(engine *sim.SerialEngine) *creditchannel.Comp {
	return creditchannel.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithFlitLatency(flitLatency).
		WithCreditLatency(creditLatency).
		Build("Channel")
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
