package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/f-audit/faudit/internal/audit"
	"github.com/f-audit/faudit/internal/snapshot"
)

const (
	usageHeader              = "usage:"
	usageCompare             = "  diff -data <dir> -account <name> -from <YYYY-MM-DD> -to <YYYY-MM-DD>"
	usageListAccounts        = "  diff -data <dir> -list-accounts"
	usageListSnapshots       = "  diff -data <dir> -account <name> -list"
	dateFlagLayout           = "2006-01-02"
	errMessageParseDate      = "invalid date"
	errMessageListAccounts   = "list accounts"
	errMessageListSnapshots  = "list snapshots"
	errMessageCompare        = "compare snapshots"
	errMessageExport         = "export comparison"
	availableDatesFormat     = "available snapshot dates for %s: %s"
	noSnapshotsMessageFormat = "no snapshots found for account %q"
	exportedMessageFormat    = "Saved to %s"
)

type cliOptions struct {
	dataDir       string
	account       string
	fromDate      time.Time
	toDate        time.Time
	listAccounts  bool
	listSnapshots bool
	exportResult  bool
	jsonOutput    bool
}

func main() {
	options := parseArguments()

	applicationContext, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case options.listAccounts:
		runListAccounts(options)
	case options.listSnapshots:
		runListSnapshots(options)
	default:
		runCompare(applicationContext, options)
	}
}

func parseArguments() cliOptions {
	dataFlag := flag.String("data", "data", "directory holding dated export zips")
	accountFlag := flag.String("account", "", "account name as embedded in the archive file names")
	fromFlag := flag.String("from", "", "earlier snapshot date (YYYY-MM-DD)")
	toFlag := flag.String("to", "", "later snapshot date (YYYY-MM-DD)")
	listAccountsFlag := flag.Bool("list-accounts", false, "list accounts discovered in the data directory")
	listFlag := flag.Bool("list", false, "list snapshot dates for the account")
	exportFlag := flag.Bool("export", false, "also write the comparison to <data>/export")
	jsonFlag := flag.Bool("json", false, "output JSON instead of text")
	flag.Parse()

	options := cliOptions{
		dataDir:       *dataFlag,
		account:       strings.TrimSpace(*accountFlag),
		listAccounts:  *listAccountsFlag,
		listSnapshots: *listFlag,
		exportResult:  *exportFlag,
		jsonOutput:    *jsonFlag,
	}

	if options.listAccounts {
		return options
	}
	if options.account == "" {
		printUsage()
		os.Exit(2)
	}
	if options.listSnapshots {
		return options
	}
	if *fromFlag == "" || *toFlag == "" {
		printUsage()
		os.Exit(2)
	}
	options.fromDate = parseDateArgument(*fromFlag)
	options.toDate = parseDateArgument(*toFlag)
	return options
}

func parseDateArgument(value string) time.Time {
	parsed, parseErr := time.Parse(dateFlagLayout, strings.TrimSpace(value))
	if parseErr != nil {
		fmt.Fprintf(os.Stderr, "%s %q: expected %s\n", errMessageParseDate, value, dateFlagLayout)
		os.Exit(2)
	}
	return parsed
}

func runListAccounts(options cliOptions) {
	accounts, listErr := snapshot.ListAccounts(options.dataDir)
	if listErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errMessageListAccounts, listErr)
		os.Exit(1)
	}
	for _, account := range accounts {
		fmt.Println(account)
	}
}

func runListSnapshots(options cliOptions) {
	snapshots, listErr := snapshot.ListSnapshots(options.dataDir, options.account)
	if listErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errMessageListSnapshots, listErr)
		os.Exit(1)
	}
	if len(snapshots) == 0 {
		fmt.Fprintf(os.Stderr, noSnapshotsMessageFormat+"\n", options.account)
		os.Exit(1)
	}
	for _, entry := range snapshots {
		fmt.Println(entry.Date.Format(dateFlagLayout))
	}
}

func runCompare(applicationContext context.Context, options cliOptions) {
	comparison, compareErr := snapshot.Compare(
		applicationContext,
		options.dataDir,
		options.account,
		options.fromDate,
		options.toDate,
		audit.DefaultSchema(),
	)
	if compareErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errMessageCompare, compareErr)
		if errors.Is(compareErr, snapshot.ErrSnapshotNotFound) {
			printAvailableDates(options)
		}
		os.Exit(1)
	}

	if options.jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(comparison)
	} else {
		fmt.Print(snapshot.RenderText(comparison))
	}

	if options.exportResult {
		exportPath, exportErr := snapshot.ExportText(options.dataDir, comparison)
		if exportErr != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", errMessageExport, exportErr)
			os.Exit(1)
		}
		fmt.Printf(exportedMessageFormat+"\n", exportPath)
	}
}

func printAvailableDates(options cliOptions) {
	snapshots, listErr := snapshot.ListSnapshots(options.dataDir, options.account)
	if listErr != nil || len(snapshots) == 0 {
		return
	}
	dates := make([]string, 0, len(snapshots))
	for _, entry := range snapshots {
		dates = append(dates, entry.Date.Format(dateFlagLayout))
	}
	fmt.Fprintf(os.Stderr, availableDatesFormat+"\n", options.account, strings.Join(dates, ", "))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, usageHeader)
	fmt.Fprintln(os.Stderr, usageCompare)
	fmt.Fprintln(os.Stderr, usageListAccounts)
	fmt.Fprintln(os.Stderr, usageListSnapshots)
}
