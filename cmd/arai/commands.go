package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"arai/internal/ai"
	"arai/internal/config"
	"arai/internal/export"
	"arai/internal/logging"
	"arai/internal/model"
	"arai/internal/planner"
	"arai/internal/render"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	formatTerminal = "terminal"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatPDF      = "pdf"
	formatCSV      = "csv"
)

// inputFlags are shared by plan and generate
type inputFlags struct {
	brand    string
	category string
	market   string
	goal     string
	kpis     []string
	budget   float64
	format   string
	out      string
	width    int
	playbook string
}

type app struct {
	cfg    config.Config
	logger *logrus.Logger
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}
	var envFile string

	root := &cobra.Command{
		Use:   "arai",
		Short: "AR.AI marketing strategy generator",
		Long: `arai builds quarterly marketing strategies for a brand.

The plan command assembles the template strategy from static tables.
The generate command asks the configured LLM for a full strategy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "env file to load when present")

	root.AddCommand(a.planCmd(), a.generateCmd(), a.goalsCmd())
	return root
}

func addInputFlags(cmd *cobra.Command, f *inputFlags, formats []string) {
	cmd.Flags().StringVarP(&f.brand, "brand", "b", "", "brand name (required)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "product category")
	cmd.Flags().StringVarP(&f.market, "market", "m", "", "target market")
	cmd.Flags().StringVarP(&f.goal, "goal", "g", string(model.GoalSalesGrowth), "marketing goal")
	cmd.Flags().StringSliceVarP(&f.kpis, "kpi", "k", nil, "KPI to track, repeatable")
	cmd.Flags().Float64Var(&f.budget, "budget", 0, "quarterly budget")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTerminal, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file, pdf and csv default to a dated file name")
	cmd.Flags().IntVar(&f.width, "width", 100, "terminal word wrap width")
	cmd.Flags().StringVar(&f.playbook, "playbook", "", "YAML playbook overriding the built-in tables")
}

func (f inputFlags) input() (model.Input, error) {
	goal, err := model.ParseGoal(f.goal)
	if err != nil {
		return model.Input{}, err
	}
	in := model.Input{
		Brand:    f.brand,
		Category: f.category,
		Market:   f.market,
		Goal:     goal,
		KPIs:     f.kpis,
		Budget:   f.budget,
	}
	in.Normalize()
	return in, in.Validate()
}

func checkFormat(format string, allowed []string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return fmt.Errorf("unsupported format %q, expected one of %s", format, strings.Join(allowed, ", "))
}

func (a *app) planner(path string) (*planner.Planner, error) {
	if path == "" {
		path = a.cfg.PlaybookFile
	}
	if path == "" {
		return planner.New(planner.DefaultPlaybook()), nil
	}
	pb, err := planner.LoadPlaybook(path)
	if err != nil {
		return nil, err
	}
	return planner.New(pb), nil
}

func (a *app) planCmd() *cobra.Command {
	var f inputFlags
	formats := []string{formatTerminal, formatMarkdown, formatJSON, formatPDF, formatCSV}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build the template strategy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.format, formats); err != nil {
				return err
			}
			in, err := f.input()
			if err != nil {
				return err
			}
			p, err := a.planner(f.playbook)
			if err != nil {
				return err
			}
			plan, err := p.Build(in)
			if err != nil {
				return err
			}

			a.logger.WithFields(logrus.Fields{"brand": in.Brand, "goal": in.Goal}).Debug("Built template plan")

			return a.write(cmd, f, output{
				brand:       in.Brand,
				markdown:    plan.Markdown(),
				sections:    []model.Section{{Text: plan.Markdown()}},
				allocations: plan.Allocations,
				payload:     plan,
			})
		},
	}
	addInputFlags(cmd, &f, formats)
	return cmd
}

func (a *app) generateCmd() *cobra.Command {
	var (
		f      inputFlags
		refine []string
	)
	formats := []string{formatTerminal, formatMarkdown, formatJSON, formatPDF}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the strategy with the configured LLM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(f.format, formats); err != nil {
				return err
			}
			in, err := f.input()
			if err != nil {
				return err
			}
			if !a.cfg.LLM.Enabled() {
				return ai.ErrNotConfigured
			}
			p, err := a.planner(f.playbook)
			if err != nil {
				return err
			}

			llm := &ai.LLM{
				Logger:     a.logger,
				APIKey:     a.cfg.LLM.APIKey,
				Model:      a.cfg.LLM.Model,
				Endpoint:   a.cfg.LLM.Endpoint(),
				Timeout:    a.cfg.LLM.Timeout,
				MaxRetries: a.cfg.LLM.MaxRetries,
			}
			gen := ai.NewGenerator(llm, p, a.logger)

			sections, err := gen.Generate(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to generate strategy: %w", err)
			}

			for _, instruction := range refine {
				sec, err := gen.Refine(cmd.Context(), model.JoinSections(sections), instruction)
				if err != nil {
					return fmt.Errorf("failed to refine strategy: %w", err)
				}
				sections = append(sections, sec)
			}

			return a.write(cmd, f, output{
				brand:    in.Brand,
				markdown: model.JoinSections(sections),
				sections: sections,
				payload:  sections,
			})
		},
	}
	addInputFlags(cmd, &f, formats)
	cmd.Flags().StringArrayVarP(&refine, "refine", "r", nil, "follow-up instruction applied after generation, repeatable")
	return cmd
}

func (a *app) goalsCmd() *cobra.Command {
	var playbook string

	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List the marketing goals and their default KPIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.planner(playbook)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, g := range model.GetGoals() {
				fmt.Fprintf(w, "%s: %s\n", g, strings.Join(p.KPIsForGoal(g), ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&playbook, "playbook", "", "YAML playbook overriding the built-in tables")
	return cmd
}

type output struct {
	brand       string
	markdown    string
	sections    []model.Section
	allocations []model.Allocation
	payload     any
}

func (a *app) write(cmd *cobra.Command, f inputFlags, o output) error {
	if f.format == formatCSV && len(o.allocations) == 0 {
		return errors.New("no budget to export, pass --budget")
	}

	path := f.out
	if path == "" && (f.format == formatPDF || f.format == formatCSV) {
		path = export.Filename(o.brand, f.format, a.now())
	}

	var w io.Writer = cmd.OutOrStdout()
	if path != "" && path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer file.Close()
		w = file
	}

	var err error
	switch f.format {
	case formatMarkdown:
		_, err = fmt.Fprintln(w, o.markdown)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(o.payload)
	case formatPDF:
		err = export.PDF(w, "AR.AI Marketing Strategy for "+o.brand, o.sections)
	case formatCSV:
		err = export.AllocationCSV(w, o.allocations)
	default:
		var out string
		out, err = render.Terminal(o.markdown, f.width)
		if err == nil {
			_, err = fmt.Fprint(w, out)
		}
	}
	if err != nil {
		return err
	}

	if path != "" && path != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", path)
	}
	return nil
}
