package db

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/chartbuddy/internal/common"
	"github.com/dtnitsch/chartbuddy/models"
	"github.com/dtnitsch/chartbuddy/pkg/presenter"
	"github.com/dtnitsch/chartbuddy/pkg/storage"
)

// lastResult is the recall output for the json and yaml formats.
type lastResult struct {
	Context  models.ChartContext   `json:"context" yaml:"context"`
	Analysis models.AnalysisResult `json:"analysis" yaml:"analysis"`
}

// RecallAction prints the persisted last context and analysis.
func RecallAction(c *cli.Context) error {
	format := c.String("format")
	switch format {
	case "text", "json", "yaml":
	default:
		return cli.Exit(fmt.Sprintf("Error: unknown format %q (use: text, json or yaml)", format), 1)
	}

	rt, err := common.Open(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	cc, res, ok, err := storage.LoadLast(c.Context, rt.Store)
	if err != nil {
		return fmt.Errorf("failed to load last analysis: %w", err)
	}
	if !ok {
		fmt.Println("No analysis yet. Drop the widget on a chart first.")
		return nil
	}

	return writeResult(os.Stdout, format, cc, res)
}

func writeResult(w io.Writer, format string, cc models.ChartContext, res models.AnalysisResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lastResult{Context: cc, Analysis: res})
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(lastResult{Context: cc, Analysis: res}); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, presenter.Render(presenter.View{ShowOverlay: true, Context: &cc, Analysis: &res}))
		return err
	}
}

// HistoryAction lists recent analyses, or shows one when an id is given.
func HistoryAction(c *cli.Context) error {
	rt, err := common.Open(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	if c.NArg() > 0 {
		id, err := ParseAnalysisID(c.Args().First())
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		a, err := rt.DB.GetAnalysis(c.Context, id)
		if err != nil {
			return err
		}
		return writeResult(os.Stdout, c.String("format"), a.Context, a.Result)
	}

	analyses, err := rt.DB.ListAnalyses(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}

	if len(analyses) == 0 {
		fmt.Println("No analyses found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-8s %-6s %-5s %-24s %-30s\n",
		"ID", "Created", "Type", "Labels", "Conf", "Domain", "Title")
	fmt.Println(strings.Repeat("-", 105))

	for _, a := range analyses {
		fmt.Printf("%-6d %-20s %-8s %-6d %-5s %-24s %-30s\n",
			a.AnalysisID,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
			a.ChartType,
			a.LabelCount,
			fmt.Sprintf("%.0f%%", a.Confidence*100),
			a.Domain,
			a.Title,
		)
	}

	fmt.Printf("\nTotal: %d analyses\n", len(analyses))
	fmt.Printf("\nTip: Use 'chartbuddy history <id>' to see one in full\n")

	return nil
}
