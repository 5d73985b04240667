package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/flexprice/milkbill/internal/cache"
	"github.com/flexprice/milkbill/internal/config"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/flexprice/milkbill/internal/sentry"
	"github.com/flexprice/milkbill/internal/service"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	_ = godotenv.Load()

	// Load configuration, flags below override it
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	in := flag.String("in", "", "File with one customer record per line, stdin when empty")
	out := flag.String("out", "Customer_invoice.pdf", "Output file, stdout when -")
	format := flag.String("format", "pdf", "Output format: pdf or json")
	mode := flag.String("mode", string(cfg.Billing.Mode), "Aggregation mode: expansion or itemized")
	summary := flag.String("summary", string(cfg.Layout.Summary), "Summary page layout: split or overflow")
	policy := flag.String("policy", string(cfg.Billing.ErrorPolicy), "Malformed record policy: abort or skip")
	rows := flag.Int("rows", cfg.Layout.Rows, "Invoice rows per page")
	cols := flag.Int("cols", cfg.Layout.Cols, "Invoice columns per page")
	paper := flag.String("paper", cfg.Layout.PaperSize, "Paper size: A4 or Letter")
	company := flag.String("company", cfg.Billing.CompanyName, "Company name printed on every invoice")
	period := flag.String("period", cfg.Billing.BillingPeriod, "Billing period, e.g. \"August - 2024\"")
	price := flag.String("price", decimal.NewFromFloat(cfg.Billing.PricePerLiter).String(), "Milk price per liter")
	workers := flag.Int("workers", cfg.Billing.ParseWorkers, "Records parsed in parallel")
	flag.Parse()

	cfg.Billing.Mode = types.AggregationMode(*mode)
	cfg.Billing.ErrorPolicy = types.ErrorPolicy(*policy)
	cfg.Billing.ParseWorkers = *workers
	cfg.Layout.Summary = types.SummaryStrategy(*summary)
	cfg.Layout.Rows = *rows
	cfg.Layout.Cols = *cols
	cfg.Layout.PaperSize = *paper
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	pricePerLiter, err := decimal.NewFromString(*price)
	if err != nil {
		log.Fatalf("Invalid price %q: %v", *price, err)
	}

	// Initialize logger
	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	records, err := readRecords(*in)
	if err != nil {
		logger.Fatalw("Failed to read customer records", "input", *in, "error", err)
	}

	sentrySvc := sentry.NewSentryService(cfg, logger)
	if err := sentrySvc.Init(); err != nil {
		logger.Fatalw("Failed to initialize sentry", "error", err)
	}
	defer sentrySvc.Flush(2)

	billing := service.NewBillingService(service.NewServiceParams(
		logger, cfg, cache.NewInMemoryCache(cfg, logger), nil, sentrySvc,
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req := &service.BatchRequest{
		CustomerData:  records,
		CompanyName:   *company,
		BillingPeriod: *period,
		PricePerLiter: &pricePerLiter,
	}

	var (
		body     []byte
		rejected []service.RejectedRecord
	)
	switch *format {
	case "pdf":
		doc, err := billing.GenerateDocument(ctx, req)
		if err != nil {
			logger.Fatalw("Failed to generate invoices", "error", err)
		}
		body, rejected = doc.Data, doc.Rejected
		logger.Infow("Generated invoice document", "pages", doc.PageCount, "invoices", doc.InvoiceCount)
	case "json":
		result, err := billing.BuildInvoices(ctx, req)
		if err != nil {
			logger.Fatalw("Failed to build invoices", "error", err)
		}
		body, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Fatalw("Failed to encode invoices", "error", err)
		}
		rejected = result.Rejected
	default:
		logger.Fatalf("Unknown output format %q", *format)
	}

	for _, r := range rejected {
		logger.Warnw("Skipped malformed record", "index", r.Index, "record", r.Record, "code", r.Code, "hint", r.Hint)
	}

	if err := writeOutput(*out, body); err != nil {
		logger.Fatalw("Failed to write output", "output", *out, "error", err)
	}
}

func readRecords(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var records []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		records = append(records, scanner.Text())
	}
	return records, scanner.Err()
}

func writeOutput(path string, body []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
