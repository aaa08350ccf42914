package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"godesign/app"
	"godesign/internal"
	"godesign/internal/config"
	"godesign/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "godesign",
		Short: "Constraint-driven design space exploration",
	}

	rootCmd.AddCommand(
		newSolveCmd(),
		newPluginsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// problemFile is the on-disk shape of a solve input
type problemFile struct {
	Constraints []app.ConstraintSpec `json:"constraints"`
	Shape       *ports.Shape         `json:"shape,omitempty"`
}

func newSolveCmd() *cobra.Command {
	var (
		strategy       string
		assignment     string
		scope          string
		preset         string
		maxIterations  int
		maxSolutions   int
		timeoutSeconds int
		seed           int64
		outputFormat   string
		outputFile     string
	)

	cmd := &cobra.Command{
		Use:   "solve [problem-file]",
		Short: "Explore the design space described by a problem file",
		Long: `Run one exploration over the constraints in a JSON problem file.

The file holds a "constraints" list and an optional "shape" boundary:

  {
    "constraints": [
      {"type": "min_components", "params": {"min": 3}},
      {"type": "required_component_types", "params": {"types": ["processor", "storage"]}},
      {"type": "connectivity"}
    ]
  }

Example: godesign solve problem.json --strategy best_first --solutions 5 --output json -o results.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], solveParams{
				strategy:       strategy,
				assignment:     assignment,
				scope:          scope,
				preset:         preset,
				maxIterations:  maxIterations,
				maxSolutions:   maxSolutions,
				timeoutSeconds: timeoutSeconds,
				seed:           seed,
				outputFormat:   outputFormat,
				outputFile:     outputFile,
			})
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Frontier strategy: breadth_first|depth_first|best_first|random")
	cmd.Flags().StringVar(&assignment, "assignment", "", "Assignment strategy: random|systematic|heuristic")
	cmd.Flags().StringVar(&scope, "scope", "", "Fingerprint scope: structure|structure_variables")
	cmd.Flags().StringVar(&preset, "preset", "", "Configuration preset: fast|balanced|thorough")
	cmd.Flags().IntVar(&maxIterations, "iterations", 0, "Maximum frontier pops before stopping")
	cmd.Flags().IntVar(&maxSolutions, "solutions", 0, "Stop after this many valid designs")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Wall clock limit in seconds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for deterministic runs")
	cmd.Flags().StringVar(&outputFormat, "output", "", "Export format: json|csv|xlsx|dot|report")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Write exported results to this file")

	return cmd
}

type solveParams struct {
	strategy       string
	assignment     string
	scope          string
	preset         string
	maxIterations  int
	maxSolutions   int
	timeoutSeconds int
	seed           int64
	outputFormat   string
	outputFile     string
}

func runSolve(cmd *cobra.Command, problemPath string, p solveParams) error {
	raw, err := os.ReadFile(problemPath)
	if err != nil {
		return fmt.Errorf("read problem file: %w", err)
	}
	var problem problemFile
	if err := json.Unmarshal(raw, &problem); err != nil {
		return fmt.Errorf("parse problem file: %w", err)
	}
	if len(problem.Constraints) == 0 {
		return fmt.Errorf("problem file declares no constraints")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if p.preset != "" {
		if err := cfg.ApplyPreset(p.preset); err != nil {
			return err
		}
	}

	service, err := app.NewExplorationService(cfg, internal.DefaultLogger)
	if err != nil {
		return err
	}

	req := app.SolveRequest{
		Strategy:           p.strategy,
		AssignmentStrategy: p.assignment,
		FingerprintScope:   p.scope,
		MaxIterations:      p.maxIterations,
		MaxSolutions:       p.maxSolutions,
		TimeoutSeconds:     p.timeoutSeconds,
		Seed:               p.seed,
		Constraints:        problem.Constraints,
		Shape:              problem.Shape,
	}

	started := time.Now()
	result, err := service.Solve(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Printf("Run:        %s\n", result.RunID)
	fmt.Printf("Status:     %s\n", result.Status)
	fmt.Printf("Solutions:  %d\n", len(result.Solutions))
	fmt.Printf("Iterations: %d\n", result.Iterations)
	fmt.Printf("Elapsed:    %s\n", time.Since(started).Round(time.Millisecond))

	for i, sol := range result.Solutions {
		fmt.Printf("\n%d. %s\n", i+1, sol.ID)
		fmt.Printf("   Components:    %d\n", sol.Structure.ComponentCount())
		fmt.Printf("   Relationships: %d\n", sol.Structure.RelationshipCount())
		if sol.Variables != nil {
			for _, name := range sol.Variables.VariableNames() {
				value, _ := sol.Variables.Value(name)
				fmt.Printf("   %s = %v\n", name, value)
			}
		}
	}

	if p.outputFormat == "" {
		return nil
	}
	format := ports.ExportFormat(strings.ToLower(p.outputFormat))
	data, _, err := service.Export(result.RunID, format)
	if err != nil {
		return err
	}
	if p.outputFile == "" {
		p.outputFile = fmt.Sprintf("solutions.%s", format)
	}
	if err := os.WriteFile(p.outputFile, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("\nResults written to %s\n", p.outputFile)
	return nil
}

func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the registered exploration plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			service, err := app.NewExplorationService(cfg, internal.DefaultLogger)
			if err != nil {
				return err
			}
			for _, meta := range service.Plugins() {
				fmt.Printf("%-22s %s v%s", meta.Role, meta.Name, meta.Version)
				if meta.Description != "" {
					fmt.Printf("  %s", meta.Description)
				}
				fmt.Println()
			}
			return nil
		},
	}
}
