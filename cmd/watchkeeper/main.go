// Command watchkeeper extracts hours-of-rest records from a scanned
// timesheet PDF and writes overtime, rest-violation and per-seafarer reports
// as Excel workbooks, CSV files and bar charts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/turanyusif9/watchkeeper/internal/domain/report"
	"github.com/turanyusif9/watchkeeper/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "watchkeeper:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := flag.String("out", cfg.Report.OutputDir, "directory report artifacts are written into")
	dpi := flag.Float64("dpi", cfg.Extract.DPI, "rasterization DPI, must match the layout calibration")
	month := flag.Int("month", cfg.Report.Month, "month (1-12) for the positional average report, 0 uses the first record's month")
	limit := flag.Float64("limit", cfg.Report.OvertimeLimit, "daily hours above which work counts as overtime")
	format := flag.String("format", cfg.Report.Format, "report format: excel, csv or both")
	charts := flag.Bool("charts", cfg.Report.Charts, "render bar charts alongside the tables")
	rescale := flag.Bool("rescale", cfg.Extract.AllowRescale, "rescale pages whose dimensions differ from the calibration")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg.Report.OutputDir = *out
	cfg.Extract.DPI = *dpi
	cfg.Report.Month = *month
	cfg.Report.OvertimeLimit = *limit
	cfg.Report.Format = *format
	cfg.Report.Charts = *charts
	cfg.Extract.AllowRescale = *rescale
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: watchkeeper [flags] <timesheet.pdf>")
	}
	path := flag.Arg(0)

	logger := newLogger(cfg.Logging)

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		return err
	}
	logger = logger.With(slog.String("run_id", deps.RunID.String()[:8]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("extracting records", slog.String("file", path), slog.Float64("dpi", cfg.Extract.DPI))

	text, err := deps.TextExtractor.ExtractText(path)
	if err != nil {
		return err
	}
	images, err := deps.Rasterizer.RenderPages(path, cfg.Extract.DPI)
	if err != nil {
		return err
	}

	records, err := deps.ExtractService.Extract(ctx, text, images)
	if err != nil {
		return err
	}

	rs := report.NewRecordSet(records)
	if err := writeReports(deps, rs); err != nil {
		return err
	}

	logger.Info("run complete",
		slog.Int("pages", rs.Len()),
		slog.String("vessel", rs.Vessel()),
		slog.String("output", deps.Artifacts.Dir()))
	return nil
}

// newLogger builds the slog logger from the logging configuration.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// writeReports computes every report off the record set and writes the
// configured artifact formats.
func writeReports(deps *Dependencies, rs *report.RecordSet) error {
	cfg := deps.Config.Report

	month := cfg.Month
	if month == 0 && rs.Len() > 0 {
		month = rs.Records()[0].Header.Period
	}

	averages := rs.AverageHoursByPosition(month)
	monthly := rs.MonthlyOvertime(cfg.OvertimeLimit)
	positional := rs.OvertimeByPosition(cfg.OvertimeLimit)
	matrix := rs.OvertimeByPositionMonthly(cfg.OvertimeLimit)
	violations := rs.ViolationsByMonth(cfg.RestLimit24h, cfg.RestLimit7d)
	seafarers := rs.SeafarerStatistics()

	vessel := rs.Vessel()
	if vessel == "" {
		vessel = "vessel"
	}

	if cfg.Format == config.FormatExcel || cfg.Format == config.FormatBoth {
		if err := writeWorkbooks(deps, rs, vessel, month, averages, monthly, positional, matrix, violations, seafarers); err != nil {
			return err
		}
	}
	if cfg.Format == config.FormatCSV || cfg.Format == config.FormatBoth {
		if err := writeCSVReports(deps, vessel, averages, monthly, positional, matrix, violations, seafarers); err != nil {
			return err
		}
	}
	if cfg.Charts {
		if err := writeCharts(deps, vessel, averages, monthly, positional, seafarers); err != nil {
			return err
		}
	}
	return nil
}

// writeWorkbooks writes the report workbook and the per-page grid workbook.
func writeWorkbooks(deps *Dependencies, rs *report.RecordSet, vessel string, month int,
	averages []report.PositionAverage, monthly []report.MonthOvertime,
	positional []report.PositionOvertime, matrix *report.PositionMonthlyOvertime,
	violations []report.MonthViolations, seafarers []report.SeafarerStats) error {

	exporter := report.NewExcelExporter()
	defer exporter.Close()

	avgSheet := report.SanitizeSheetName(fmt.Sprintf("Averages Month %d", month))
	if err := exporter.AddPositionAverages(avgSheet, averages); err != nil {
		return err
	}
	if err := exporter.AddMonthlyOvertime("Monthly Overtime", monthly); err != nil {
		return err
	}
	if err := exporter.AddPositionOvertime("Position Overtime", positional); err != nil {
		return err
	}
	if err := exporter.AddPositionMonthlyOvertime(matrix); err != nil {
		return err
	}
	if err := exporter.AddViolations("Rest Violations", violations); err != nil {
		return err
	}
	if err := exporter.AddSeafarerStats("Seafarers", seafarers); err != nil {
		return err
	}
	if err := writeArtifact(deps, vessel+" reports.xlsx", exporter.Write); err != nil {
		return err
	}

	gantt := report.NewExcelExporter()
	defer gantt.Close()
	for _, rec := range rs.Records() {
		if err := gantt.AddGantt(rec); err != nil {
			return err
		}
	}
	return writeArtifact(deps, vessel+" gantt.xlsx", gantt.Write)
}

// writeCSVReports writes one CSV file per report.
func writeCSVReports(deps *Dependencies, vessel string,
	averages []report.PositionAverage, monthly []report.MonthOvertime,
	positional []report.PositionOvertime, matrix *report.PositionMonthlyOvertime,
	violations []report.MonthViolations, seafarers []report.SeafarerStats) error {

	files := []struct {
		name string
		rows any
	}{
		{"position averages.csv", averages},
		{"monthly overtime.csv", monthly},
		{"position overtime.csv", positional},
		{"position monthly overtime.csv", matrix.Rows()},
		{"rest violations.csv", violations},
		{"seafarer statistics.csv", seafarers},
	}
	for _, f := range files {
		rows := f.rows
		err := writeArtifact(deps, vessel+" "+f.name, func(w io.Writer) error {
			return report.WriteCSV(w, rows)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// writeCharts renders one bar chart per report.
func writeCharts(deps *Dependencies, vessel string,
	averages []report.PositionAverage, monthly []report.MonthOvertime,
	positional []report.PositionOvertime, seafarers []report.SeafarerStats) error {

	monthLabels := make([]string, len(monthly))
	monthValues := make([]float64, len(monthly))
	for i, row := range monthly {
		monthLabels[i] = strconv.Itoa(row.Month)
		monthValues[i] = row.Overtime
	}
	if err := renderChart(deps, vessel+" monthly overtime.png", "Overtime by Month", monthLabels, monthValues); err != nil {
		return err
	}

	avgLabels := make([]string, len(averages))
	avgValues := make([]float64, len(averages))
	for i, row := range averages {
		avgLabels[i] = row.Position
		avgValues[i] = row.AverageHours
	}
	if len(avgLabels) > 0 {
		if err := renderChart(deps, vessel+" position averages.png", "Average Hours Worked by Position", avgLabels, avgValues); err != nil {
			return err
		}
	}

	posLabels := make([]string, len(positional))
	posValues := make([]float64, len(positional))
	for i, row := range positional {
		posLabels[i] = row.Position
		posValues[i] = row.Overtime
	}
	if len(posLabels) > 0 {
		if err := renderChart(deps, vessel+" position overtime.png", "Overtime by Position", posLabels, posValues); err != nil {
			return err
		}
	}

	seaLabels := make([]string, len(seafarers))
	seaValues := make([]float64, len(seafarers))
	for i, row := range seafarers {
		seaLabels[i] = row.Seafarer
		seaValues[i] = row.Mean
	}
	if len(seaLabels) > 0 {
		if err := renderChart(deps, vessel+" seafarer means.png", "Mean Hours Worked by Seafarer", seaLabels, seaValues); err != nil {
			return err
		}
	}
	return nil
}

func renderChart(deps *Dependencies, name, title string, labels []string, values []float64) error {
	return writeArtifact(deps, name, func(w io.Writer) error {
		return report.RenderBarChart(w, title, labels, values)
	})
}

// writeArtifact creates a named artifact and hands its writer to write,
// closing it afterwards.
func writeArtifact(deps *Dependencies, name string, write func(io.Writer) error) error {
	f, err := deps.Artifacts.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize artifact %q: %w", name, err)
	}
	deps.Logger.Debug("wrote artifact", slog.String("path", deps.Artifacts.Path(name)))
	return nil
}
