package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/output"
)

// Export command flags.
var (
	exportFlagOut string
	exportFlagCSV bool
)

// exportDocument is the full JSON export payload.
type exportDocument struct {
	ExportedAt string                      `json:"exported_at"`
	Stats      *output.StatsResponse       `json:"stats"`
	Patterns   []*output.PatternOutput     `json:"patterns"`
	Sessions   []*output.SessionOutput     `json:"sessions"`
	Unlocked   []*output.AchievementOutput `json:"achievements"`
}

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export practice data",
	Long: `Export sessions, stats, patterns, and achievements as JSON,
or the session history as CSV.

Examples:
  breathe export                      # JSON to stdout
  breathe export --out backup.json
  breathe export --csv --out sessions.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlagOut, "out", "o", "",
		"Write to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportFlagCSV, "csv", false,
		"Export session history as CSV")

	rootCmd.AddCommand(exportCmd)
}

// runExport handles the export command.
func runExport(cmd *cobra.Command, args []string) error {
	sessions, err := ctx.SessionRepo.List()
	if err != nil {
		return err
	}

	out := os.Stdout
	if exportFlagOut != "" {
		f, err := os.Create(exportFlagOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if exportFlagCSV {
		if err := writeSessionsCSV(out, sessions); err != nil {
			return err
		}
	} else {
		doc, err := buildExportDocument(sessions)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}

	if exportFlagOut != "" && !ctx.IsJSON() {
		ctx.Formatter.Printf("Exported %d sessions to %s\n", len(sessions), exportFlagOut)
	}
	return nil
}

// buildExportDocument gathers everything into one JSON payload.
func buildExportDocument(sessions []*model.SessionRecord) (*exportDocument, error) {
	ownerKey, err := ctx.UserKey()
	if err != nil {
		return nil, err
	}

	stats, err := ctx.StatsRepo.Get(ownerKey)
	if err != nil {
		return nil, err
	}

	custom, err := ctx.PatternRepo.List()
	if err != nil {
		return nil, err
	}

	unlocked, err := ctx.AchievementRepo.List()
	if err != nil {
		return nil, err
	}

	doc := &exportDocument{
		ExportedAt: time.Now().Format(time.RFC3339),
		Stats:      output.NewStatsResponse(stats),
	}
	for _, p := range model.Presets() {
		doc.Patterns = append(doc.Patterns, output.NewPatternOutput(p))
	}
	for _, p := range custom {
		doc.Patterns = append(doc.Patterns, output.NewPatternOutput(*p))
	}
	for _, s := range sessions {
		doc.Sessions = append(doc.Sessions, output.NewSessionOutput(s))
	}
	for _, a := range unlocked {
		doc.Unlocked = append(doc.Unlocked, output.NewAchievementOutput(a))
	}

	return doc, nil
}

// writeSessionsCSV writes session history in CSV form.
func writeSessionsCSV(out *os.File, sessions []*model.SessionRecord) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{"started_at", "pattern", "spec", "target_seconds", "elapsed_seconds", "completed"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range sessions {
		row := []string{
			s.StartedAt.Format(time.RFC3339),
			s.PatternName,
			s.PatternSpec,
			strconv.Itoa(s.TargetSeconds),
			strconv.Itoa(s.ElapsedSeconds),
			fmt.Sprintf("%t", s.Completed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
