package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spindown/internal/analysis"
	"github.com/san-kum/spindown/internal/config"
	"github.com/san-kum/spindown/internal/storage"
	"github.com/san-kum/spindown/internal/trace"
	"github.com/san-kum/spindown/internal/viz"
)

var (
	dataDir    string
	velocity   float64
	label      string
	preset     string
	configFile string
	items      []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spindown",
		Short: "wheel inertia simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live wheel when no command given.
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one spin-down and store the trace",
		RunE:  runSpin,
	}
	runCmd.Flags().Float64VarP(&velocity, "velocity", "v", config.DefaultVelocity, "initial angular velocity")
	runCmd.Flags().StringVar(&label, "label", config.DefaultLabel, "run label")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset flick strength")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	predictCmd := &cobra.Command{
		Use:   "predict [velocity...]",
		Short: "closed-form settling predictions",
		RunE:  predictTable,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run ticks to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list flick presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVELOCITY\tTICKS\tSETTLE")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1f\t%d\t%v\n",
					name, cfg.Velocity,
					analysis.PredictTicks(cfg.Velocity),
					analysis.SettleTime(cfg.Velocity))
			}
			return w.Flush()
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive wheel with live decay",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64VarP(&velocity, "velocity", "v", config.DefaultVelocity, "flick strength")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset flick strength")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringSliceVar(&items, "items", nil, "wheel item labels")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, predictCmd, exportCSVCmd, exportJSONCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges defaults, config file, preset, and flags, with flags
// taking precedence over the file, and the file over the preset.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Velocity = p.Velocity
		cfg.Label = p.Label
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("velocity") {
		cfg.Velocity = velocity
	}
	if cmd.Flags().Changed("label") {
		cfg.Label = label
	}
	if cmd.Flags().Changed("items") {
		cfg.Items = items
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return cfg, nil
}

func runSpin(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("spinning down from v0=%.3f...\n", cfg.Velocity)
	start := time.Now()

	tr, err := trace.Collect(cfg.Velocity)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	metrics := analysis.Summary(cfg.Velocity)
	metrics["peak_delta"] = tr.PeakDelta()
	metrics["fitted_friction"] = analysis.FitFriction(tr.Deltas)

	runID, err := st.Save(cfg.Label, metrics, tr)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d (%.3fs simulated)\n", tr.Ticks, tr.Duration())
	fmt.Printf("rotation: %.4f rad\n", tr.Rotation)
	fmt.Println("\nmetrics:")
	for name, val := range metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tV0\tTICKS\tROTATION\tSETTLED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%.4f\t%v\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.InitialVelocity,
			run.Ticks,
			run.Rotation,
			run.Settled,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if tr.Ticks == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("v0: %.3f, ticks: %d\n\n", meta.InitialVelocity, tr.Ticks)

	graph := asciigraph.Plot(tr.Deltas,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("delta per tick"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(tr.Velocities,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("velocity"),
	)
	fmt.Println(graph)

	return nil
}

func predictTable(cmd *cobra.Command, args []string) error {
	velocities := []float64{0.5, 1.0, 5.0, 12.0, 40.0, 120.0}
	if len(args) > 0 {
		velocities = velocities[:0]
		for _, arg := range args {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid velocity %q: %w", arg, err)
			}
			velocities = append(velocities, v)
		}
	}

	fmt.Printf("half-life: %.2f ticks\n\n", analysis.HalfLifeTicks())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "V0\tTICKS\tSETTLE\tROTATION")
	for _, v := range velocities {
		fmt.Fprintf(w, "%.2f\t%d\t%v\t%.4f\n",
			v,
			analysis.PredictTicks(v),
			analysis.SettleTime(v),
			analysis.TotalRotation(v),
		)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "delta", "velocity"}); err != nil {
		return err
	}
	for i := range tr.Deltas {
		row := []string{
			strconv.FormatFloat(tr.Times[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Deltas[i], 'g', 17, 64),
			strconv.FormatFloat(tr.Velocities[i], 'g', 17, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, tr)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	wheelLabel := cfg.Label
	if wheelLabel == "" {
		wheelLabel = config.DefaultLabel
	}

	return viz.RunLive(cfg.Items, cfg.Velocity, wheelLabel)
}
