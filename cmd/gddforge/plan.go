package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/gddforge"
	"github.com/hupe1980/gddforge/inputcheck"
	"github.com/hupe1980/gddforge/orchestrator"
	"github.com/hupe1980/gddforge/render"
	"github.com/hupe1980/gddforge/review"
	"github.com/hupe1980/gddforge/template"
)

var (
	outputFile   string
	outputFormat string
	templateFile string
	skipCheck    bool
)

var planCmd = &cobra.Command{
	Use:   "plan [concept]",
	Short: "Generate a game design document from a concept",
	Long: `Generate a game design document from a free-form game concept.

The concept may be given as an argument, piped on stdin, or seeded from a
quick template file (--template). Output formats: json, markdown, html.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concept, err := readConcept(args)
		if err != nil {
			return err
		}
		if !skipCheck {
			concept = askFollowUp(concept)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		m, err := newModel(cfg)
		if err != nil {
			return err
		}

		forge := gddforge.New(m, func(o *gddforge.Options) {
			o.Config = cfg.Refine
			o.Logger = newLogger(cfg)
			o.CheckInput = !skipCheck
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s\n", cyan("=== gddforge plan ==="))
		modelName := cfg.Model
		if modelName == "" {
			modelName = "(provider default)"
		}
		fmt.Fprintf(os.Stderr, "provider=%s model=%s iterations<=%d\n\n",
			cfg.Provider, modelName, cfg.Refine.MaxIterations)

		out, err := forge.Plan(ctx, concept)
		if err != nil {
			return err
		}

		printInputReport(out)
		printRunSummary(out.Result)

		return writeOutput(out.Result)
	},
}

func init() {
	planCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (stdout if empty)")
	planCmd.Flags().StringVarP(&outputFormat, "format", "f", "markdown", "output format: json, markdown or html")
	planCmd.Flags().StringVarP(&templateFile, "template", "t", "", "quick template YAML to seed the concept")
	planCmd.Flags().BoolVar(&skipCheck, "skip-input-check", false, "skip the input sufficiency check")
	rootCmd.AddCommand(planCmd)
}

// readConcept resolves the concept text from the argument, a quick template
// or stdin, in that order.
func readConcept(args []string) (string, error) {
	if templateFile != "" {
		tpl, err := template.Load(templateFile)
		if err != nil {
			return "", err
		}
		return tpl.Concept(), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if s := strings.TrimSpace(string(data)); s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("no concept given; pass it as an argument, pipe it on stdin or use --template")
}

// askFollowUp runs the pre-flight check and, when the concept is thin and
// stdin is a terminal, asks the follow-up questions interactively. Answers
// are folded back into the concept; empty answers are skipped.
func askFollowUp(concept string) string {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) == 0 {
		// Concept came from a pipe, nobody to ask.
		return concept
	}
	report := inputcheck.NewChecker().Check(concept)
	if report.Sufficient {
		return concept
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(os.Stderr, "%s\n", yellow("The concept is thin. Answer what you can (press enter to skip):"))

	scanner := bufio.NewScanner(os.Stdin)
	answers := make([]string, 0, len(report.Questions))
	for i, q := range report.Questions {
		fmt.Fprintf(os.Stderr, "%d. %s\n> ", i+1, q)
		if !scanner.Scan() {
			break
		}
		answers = append(answers, strings.TrimSpace(scanner.Text()))
	}
	return foldAnswers(concept, report.Questions, answers)
}

// foldAnswers pairs each question with its reply and folds the answered ones
// into the concept.
func foldAnswers(concept string, questions, answers []string) string {
	folded := make(map[string]string, len(answers))
	for i, q := range questions {
		if i < len(answers) {
			folded[q] = answers[i]
		}
	}
	return inputcheck.Enhance(concept, folded)
}

func printInputReport(out *gddforge.PlanOutput) {
	if out.Input == nil || out.Input.Sufficient {
		return
	}
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(os.Stderr, "%s\n", yellow("Concept is thin; the generator filled the gaps. Consider answering:"))
	fmt.Fprintf(os.Stderr, "%s\n\n", out.Input.FollowUp())
}

func printRunSummary(res *orchestrator.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	status := green("approved")
	if !res.Success {
		status = red(string(res.Reason))
	}
	fmt.Fprintf(os.Stderr, "run %s: %s after %d iteration(s) in %s\n",
		res.RunID, status, res.TotalIterations, res.TotalDuration.Round(time.Millisecond))
	if res.Degraded {
		fmt.Fprintf(os.Stderr, "%s\n", red("warning: result is degraded; manual review recommended"))
	}
	if fb := res.FinalFeedback(); fb != nil {
		fmt.Fprintf(os.Stderr, "%s\n", gray(fmt.Sprintf("final review score %.1f/10 (%s)", fb.OverallScore(), fb.Decision)))
		if fb.Decision == review.DecisionRevise {
			for _, issue := range fb.Issues {
				fmt.Fprintf(os.Stderr, "  - [%s] %s: %s\n", issue.Severity, issue.Section, issue.Description)
			}
		}
	}
	fmt.Fprintln(os.Stderr)
}

func writeOutput(res *orchestrator.Result) error {
	var rendered []byte
	switch strings.ToLower(outputFormat) {
	case "json":
		data, err := json.MarshalIndent(res.FinalDocument, "", "  ")
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		rendered = data
	case "markdown", "md":
		rendered = []byte(render.Markdown(res.FinalDocument))
	case "html":
		page, err := render.HTML(res.FinalDocument)
		if err != nil {
			return err
		}
		rendered = []byte(page)
	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}

	if outputFile == "" {
		_, err := os.Stdout.Write(append(rendered, '\n'))
		return err
	}
	if err := os.WriteFile(outputFile, rendered, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputFile, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outputFile)
	return nil
}
