package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "procity",
		Short: "Procedural city simulation with a browser viewer",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		addr    string
		cfgPath string
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation and stream the scene to browser viewers",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(addr, cfgPath, seed)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8642", "listen address")
	cmd.Flags().StringVar(&cfgPath, "config", "", "optional YAML config file")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "override layout seed (0 = config/clock)")
	return cmd
}

func statsCmd() *cobra.Command {
	var (
		cfgPath string
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Generate a city headlessly and print layout statistics",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runStats(cfgPath, seed)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "optional YAML config file")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "layout seed")
	return cmd
}
