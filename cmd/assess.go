package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/reqpilot/internal/progress"
	"github.com/ziadkadry99/reqpilot/internal/quality"
)

var assessJSON bool

var assessCmd = &cobra.Command{
	Use:   "assess <pattern>...",
	Short: "Score generated requirement documents for quality",
	Long: `Assesses structured requirement documents (JSON) against the quality
dimensions: completeness, clarity, specificity, feasibility, visual quality
and AI coding readiness. Patterns support ** globs, e.g. "docs/**/*.json".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandPatterns(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no documents match the given patterns")
		}

		reporter := progress.NewReporter()
		reporter.Start(len(paths))

		type assessed struct {
			Path   string         `json:"path"`
			Report quality.Report `json:"report"`
			Err    string         `json:"error,omitempty"`
		}
		results := make([]assessed, 0, len(paths))

		for i, path := range paths {
			reporter.Update(i+1, filepath.Base(path))

			report, err := assessFile(path)
			entry := assessed{Path: path, Report: report}
			if err != nil {
				entry.Err = err.Error()
			}
			results = append(results, entry)
		}
		reporter.Finish()

		if assessJSON {
			return json.NewEncoder(os.Stdout).Encode(results)
		}

		for _, res := range results {
			if res.Err != "" {
				fmt.Printf("%s: error: %s\n", res.Path, res.Err)
				continue
			}
			r := res.Report
			fmt.Printf("%s: overall %.2f\n", res.Path, r.OverallScore)
			fmt.Printf("  completeness %.2f  clarity %.2f  specificity %.2f\n",
				r.Completeness, r.Clarity, r.Specificity)
			fmt.Printf("  feasibility %.2f  visual %.2f  ai-readiness %.2f\n",
				r.Feasibility, r.VisualQuality, r.AICodingReadiness)
			for _, rec := range r.Recommendations {
				fmt.Printf("  - %s\n", rec)
			}
		}
		return nil
	},
}

// expandPatterns resolves doublestar globs into a sorted, de-duplicated file
// list. A pattern without glob characters is taken as a literal path.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matches == nil {
			// Literal path: let assessFile surface the read error.
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func assessFile(path string) (quality.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return quality.Report{}, err
	}
	var doc quality.StructuredDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return quality.Report{}, fmt.Errorf("not a structured document: %w", err)
	}
	return quality.Assess(doc), nil
}

func init() {
	assessCmd.Flags().BoolVar(&assessJSON, "json", false, "emit results as JSON")
	rootCmd.AddCommand(assessCmd)
}
