package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Harshitk-cp/litsynth/internal/api"
	"github.com/Harshitk-cp/litsynth/internal/buildconfig"
	"github.com/Harshitk-cp/litsynth/internal/config"
	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// maxLineBytes bounds one JSONL document record.
const maxLineBytes = 8 << 20

type runOptions struct {
	input      string
	configPath string
	jsonOutput bool
}

// documentRecord is one line of the input stream.
type documentRecord struct {
	Document domain.DocumentInfo       `json:"document"`
	Findings []domain.ExtractedFinding `json:"findings"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "synthesize",
		Short:        "Incrementally synthesize themes, contradictions and gaps from analyzed documents",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildconfig.String())
		},
	}
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stream a JSONL file of documents through one synthesis engine",
		Long: `Each input line is {"document": {...}, "findings": [{"text": "..."}]}.
One update is reported per document, followed by the final synthesis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := config.NewLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			embedder, judge, err := api.NewClients(logger)
			if err != nil {
				return err
			}
			path := opts.configPath
			if path == "" {
				path = config.SynthesisConfigPath()
			}
			cfg, err := config.LoadEngineConfig(path)
			if err != nil {
				return err
			}
			engine, err := service.NewSynthesisEngine(cfg, embedder, judge, logger, nil)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if opts.input != "" && opts.input != "-" {
				f, err := os.Open(opts.input)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runSynthesis(cmd.Context(), engine, in, cmd.OutOrStdout(), opts.jsonOutput, logger)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "JSONL file of analyzed documents (- for stdin)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Engine tuning YAML (defaults to $SYNTHESIS_CONFIG)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Emit updates and the final synthesis as JSON lines")
	return cmd
}

func runSynthesis(ctx context.Context, engine *service.SynthesisEngine, in io.Reader, out io.Writer, jsonOutput bool, logger *zap.Logger) error {
	enc := json.NewEncoder(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var rec documentRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return fmt.Errorf("line %d: decode document: %w", line, err)
		}
		if rec.Document.ID == "" {
			rec.Document.ID = fmt.Sprintf("line-%d", line)
		}

		update, err := engine.ProcessDocument(ctx, rec.Findings, rec.Document)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if jsonOutput {
			if err := enc.Encode(map[string]any{"update": update}); err != nil {
				return err
			}
			continue
		}
		printUpdate(out, update)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	final := engine.Finalize()
	logger.Debug("input exhausted", zap.Int("lines", line))
	if jsonOutput {
		return enc.Encode(map[string]any{"synthesis": final})
	}
	printSynthesis(out, final)
	return nil
}

func printUpdate(w io.Writer, u *domain.SynthesisUpdate) {
	title := u.DocumentTitle
	if title == "" {
		title = u.DocumentID
	}
	fmt.Fprintf(w, "[%d] %s: %d finding(s), %d new theme(s), %d contradiction(s), %d gap(s), %d merge(s)\n",
		u.Sequence, title, len(u.NewFindings), len(u.NewThemes), len(u.NewContradictions), len(u.NewGaps), len(u.Merges))
	for _, t := range u.NewThemes {
		fmt.Fprintf(w, "    + theme %q\n", t.Name)
	}
	for _, c := range u.NewContradictions {
		fmt.Fprintf(w, "    ! %s: %q vs %q\n", c.Severity, c.TextA, c.TextB)
	}
	for _, m := range u.Merges {
		fmt.Fprintf(w, "    = merged %q into %q (%.2f)\n", m.AbsorbedName, m.KeptName, m.Similarity)
	}
}

func printSynthesis(w io.Writer, s *domain.Synthesis) {
	fmt.Fprintf(w, "\nThemes (%d):\n", len(s.Themes))
	for _, t := range s.Themes {
		fmt.Fprintf(w, "  - %s\n", t)
	}
	fmt.Fprintf(w, "Contradictions (%d):\n", len(s.Contradictions))
	for _, c := range s.Contradictions {
		fmt.Fprintf(w, "  - [%s] %s\n", c.Severity, c.Explanation)
	}
	fmt.Fprintf(w, "Research gaps (%d):\n", len(s.Gaps))
	for _, g := range s.Gaps {
		fmt.Fprintf(w, "  - %s\n", g.Description)
	}
	fmt.Fprintf(w, "Recommendations (%d):\n", len(s.Recommendations))
	for _, r := range s.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}
