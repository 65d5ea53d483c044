package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/AngelCh415/influencer-metrics/internal/config"
	"github.com/AngelCh415/influencer-metrics/internal/export"
	"github.com/AngelCh415/influencer-metrics/internal/ingest"
	"github.com/AngelCh415/influencer-metrics/internal/metrics"
	"github.com/AngelCh415/influencer-metrics/internal/models"
)

func main() {
	cfg := config.FromEnv()
	dataDir := flag.String("data", cfg.DataDir, "Directory holding influencers.csv, posts.csv, tracking_data.csv, payouts.csv")
	campaign := flag.String("campaign", metrics.AllCampaigns, "Campaign to inspect, or 'all'")
	products := flag.String("product", "", "Comma-separated products (default: all)")
	platforms := flag.String("platform", "", "Comma-separated platforms (default: all)")
	tiers := flag.String("tier", "", "Comma-separated tiers: macro, micro, nano (default: all)")
	genders := flag.String("gender", "", "Comma-separated genders (default: all)")
	categories := flag.String("category", "", "Comma-separated categories (default: all)")
	format := flag.String("format", "text", "Output format: text, json, csv, tracking-csv")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if *dataDir != cfg.DataDir {
		cfg.Sources = config.Sources{
			Influencers: filepath.Join(*dataDir, "influencers.csv"),
			Posts:       filepath.Join(*dataDir, "posts.csv"),
			Tracking:    filepath.Join(*dataDir, "tracking_data.csv"),
			Payouts:     filepath.Join(*dataDir, "payouts.csv"),
		}
	}
	ds, err := ingest.NewLoader(ingest.NewHTTPClient(cfg.HTTPTimeout), logger, cfg).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := metrics.OptionsOf(ds)
	spec := metrics.FilterSpec{
		Campaign:   *campaign,
		Products:   orAll(*products, opts.Products),
		Platforms:  orAll(*platforms, opts.Platforms),
		Tiers:      orAll(*tiers, opts.Tiers),
		Genders:    orAll(*genders, opts.Genders),
		Categories: orAll(*categories, opts.Categories),
	}
	res, err := metrics.Compute(ds, spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := emit(*outFile, *format, res); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// emit writes the report to path, or to stdout when path is empty. The file
// is closed before returning so a failed flush is reported.
func emit(path, format string, res metrics.Result) error {
	if path == "" {
		return render(os.Stdout, format, res)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f, format, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func render(out io.Writer, format string, res metrics.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "csv":
		return export.WritePerformance(out, res.Records)
	case "tracking-csv":
		return export.WriteTracking(out, res.Filtered.Tracking)
	case "text":
		return writeText(out, res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func orAll(flagVal string, all []string) []string {
	if flagVal == "" {
		return all
	}
	var out []string
	for _, p := range strings.Split(flagVal, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeText(dst io.Writer, res metrics.Result) error {
	w := bufio.NewWriter(dst)
	s := res.Insights
	fmt.Fprintln(w, "Key Insights")
	for _, l := range s.Lines {
		fmt.Fprintf(w, "  - %s\n", l)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Key Metrics")
	fmt.Fprintf(w, "  Total Revenue:  %.0f\n", s.TotalRevenue)
	fmt.Fprintf(w, "  Total Spend:    %.0f\n", s.TotalSpend)
	fmt.Fprintf(w, "  Orders:         %d\n", s.TotalOrders)
	fmt.Fprintf(w, "  Campaigns:      %d\n", s.Campaigns)
	fmt.Fprintf(w, "  Avg ROAS:       %.2f\n", s.AvgROAS)
	fmt.Fprintf(w, "  Top Influencer: %s\n", s.TopInfluencerName)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-20s %-8s %10s %10s %8s %8s  %s\n", "Influencer", "Type", "Revenue", "Payout", "ROAS", "IncROAS", "Flag")
	for _, r := range res.Records {
		fmt.Fprintf(w, "%-20s %-8s %10s %10s %8s %8s  %s\n",
			r.Name, r.Tier, money(r.Revenue), money(r.TotalPayout), ratio(r.ROAS), ratio(r.IncrementalROAS), r.Performance)
	}
	return w.Flush()
}

func money(v models.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.0f", v.Value)
}

func ratio(v models.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", v.Value)
}
