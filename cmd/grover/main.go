package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ltalirz/quantum"
)

var (
	qubits  int
	marked  int
	shots   int
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "grover",
	Short: "Run an amplitude-amplification search on the local simulator backend",
	Long: `grover plans the reflection rounds for a single marked state, submits
the search program to the in-process simulator backend, waits for the job to
finish and prints the outcome histogram.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	program, err := quantum.NewProgram(qubits, marked)
	if err != nil {
		return err
	}
	rounds, err := quantum.PlanIterations(qubits)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	sim := quantum.NewSimulator(ctx, nil)
	defer sim.Close()
	client := quantum.NewClient(sim, nil)

	result, err := client.RunSynchronous(ctx, program, shots)
	if err != nil {
		return err
	}

	fmt.Printf("searching %d states for index %d using %d rounds\n",
		program.States(), marked, rounds)
	fmt.Printf("register %q, %d shots, bit order %s\n",
		result.Register(), result.Shots(), result.BitOrder())

	freqs := result.Frequencies()
	outcomes := make([]string, 0, len(freqs))
	for outcome := range freqs {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)
	for _, outcome := range outcomes {
		fmt.Printf("  %s  %6.4f\n", outcome, freqs[outcome])
	}

	top, count := result.TopOutcome()
	fmt.Printf("top outcome %s (%d/%d shots)\n", top, count, result.Shots())

	stats := client.Metrics()
	fmt.Printf("polled %d times, waited %v\n", stats.PollCount, stats.TotalWaitTime)
	return nil
}

func main() {
	rootCmd.Flags().IntVarP(&qubits, "qubits", "q", 3, "register size in qubits")
	rootCmd.Flags().IntVarP(&marked, "marked", "m", 6, "basis-state index the oracle marks")
	rootCmd.Flags().IntVarP(&shots, "shots", "s", 1024, "number of shots")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "overall deadline")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
