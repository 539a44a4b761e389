package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/atvfleet/maintsched/config"
	"github.com/atvfleet/maintsched/core/model"
	"github.com/atvfleet/maintsched/core/optimizer"
	"github.com/atvfleet/maintsched/infra/logger"
	"github.com/atvfleet/maintsched/pkg/export"
	"github.com/atvfleet/maintsched/simulator"
)

var (
	vehiclesPath string
	slotsPath    string
	outFormat    string
	outPath      string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run a one-shot optimization and print the schedule",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVar(&vehiclesPath, "vehicles", "", "vehicle records JSON file (sample fleet when empty)")
	optimizeCmd.Flags().StringVar(&slotsPath, "slots", "", "time slots JSON file (default weekly plan when empty)")
	optimizeCmd.Flags().StringVar(&outFormat, "format", "json", "output format: json or csv")
	optimizeCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (stdout when empty)")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fleet, err := loadVehicles(cfg.Optimizer.Seed)
	if err != nil {
		return err
	}
	slots, err := loadSlots()
	if err != nil {
		return err
	}

	opt, err := optimizer.New(cfg.Optimizer, logger.New("optimize-command"), nil, nil)
	if err != nil {
		return err
	}
	s, err := opt.Run(fleet, slots)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "close output: %v\n", cerr)
			}
		}()
		w = f
	}
	switch outFormat {
	case "json":
		return export.WriteJSON(w, s)
	case "csv":
		return export.WriteCSV(w, s)
	default:
		return fmt.Errorf("unknown format %s", outFormat)
	}
}

func loadVehicles(seed int64) ([]model.Vehicle, error) {
	if vehiclesPath == "" {
		return simulator.SampleFleet(20, seed), nil
	}
	data, err := os.ReadFile(vehiclesPath)
	if err != nil {
		return nil, fmt.Errorf("read vehicles: %w", err)
	}
	var fleet []model.Vehicle
	if err := json.Unmarshal(data, &fleet); err != nil {
		return nil, fmt.Errorf("parse vehicles: %w", err)
	}
	return fleet, nil
}

func loadSlots() ([]model.TimeSlot, error) {
	if slotsPath == "" {
		return simulator.DefaultSlotPlan(time.Now(), 5, 2), nil
	}
	data, err := os.ReadFile(slotsPath)
	if err != nil {
		return nil, fmt.Errorf("read slots: %w", err)
	}
	var slots []model.TimeSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("parse slots: %w", err)
	}
	return slots, nil
}
