package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atvfleet/maintsched/config"
	"github.com/atvfleet/maintsched/core/optimizer"
	"github.com/atvfleet/maintsched/infra/logger"
	"github.com/atvfleet/maintsched/simulator"
)

var (
	fleetCount int
	fleetSeed  int64
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a sample fleet",
	RunE:  runFleetSample,
}

var fleetClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Score and cluster a fleet",
	RunE:  runFleetClusters,
}

func init() {
	fleetSampleCmd.Flags().IntVar(&fleetCount, "count", 20, "number of vehicles")
	fleetSampleCmd.Flags().Int64Var(&fleetSeed, "seed", 42, "generator seed")
	fleetClustersCmd.Flags().StringVar(&vehiclesPath, "vehicles", "", "vehicle records JSON file (sample fleet when empty)")
	fleetCmd.AddCommand(fleetSampleCmd)
	fleetCmd.AddCommand(fleetClustersCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetSample(cmd *cobra.Command, args []string) error {
	fleet := simulator.SampleFleet(fleetCount, fleetSeed)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(fleet)
}

func runFleetClusters(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, err := loadVehicles(cfg.Optimizer.Seed)
	if err != nil {
		return err
	}
	opt, err := optimizer.New(cfg.Optimizer, logger.New("fleet-command"), nil, nil)
	if err != nil {
		return err
	}
	fleet, err = opt.Profile(fleet)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(fleet)
}
