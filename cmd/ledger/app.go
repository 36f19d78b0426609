package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"ledger/internal/core"
	"ledger/internal/export"
	"ledger/internal/format"
	"ledger/internal/ledger"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `usage: ledger <command> [flags]

commands:
  add         record an income or expense entry
  delete ID   remove an entry
  clear       remove every entry (requires -yes)
  list        show entries, most recent first
  summary     show totals and balance
  categories  show the category vocabulary
  export      write entries as csv or xlsx
`

// app is the command-line presentation layer over a ledger.Store.
type app struct {
	store   *ledger.Store
	catalog core.Catalog
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return exitUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		return a.add(ctx, rest)
	case "delete", "rm":
		return a.delete(ctx, rest)
	case "clear":
		return a.clear(ctx, rest)
	case "list", "ls":
		return a.list(rest)
	case "summary":
		return a.summary(rest)
	case "categories":
		return a.categories(rest)
	case "export":
		return a.export(rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) add(ctx context.Context, args []string) int {
	fs := a.flags("add")
	amount := fs.String("amount", "", "amount, a positive number")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "category value, see the categories command")
	date := fs.String("date", format.Today(a.now()), "date as YYYY-MM-DD")
	kind := fs.String("kind", core.Expense.String(), "income or expense")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	in := core.FormInput{
		Amount:      *amount,
		Description: *desc,
		Category:    *category,
		Date:        *date,
		Kind:        core.Kind(*kind),
	}
	errs := a.catalog.ValidateCategory(in, core.ValidateForm(in))
	if !errs.OK() {
		printFieldErrors(a.stderr, errs)
		return exitUsage
	}

	e, err := a.store.Add(ctx, in)
	if err != nil {
		fmt.Fprintf(a.stderr, "add: %v\n", err)
		return exitError
	}
	fmt.Fprintf(a.stdout, "added %s: %s %s (%s) on %s\n",
		e.ID, e.Kind, format.Amount(e.Amount), a.catalog.Label(e.Kind, e.Category), format.Date(e.Date))
	return exitOK
}

func (a *app) delete(ctx context.Context, args []string) int {
	fs := a.flags("delete")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: ledger delete ID")
		return exitUsage
	}

	id := fs.Arg(0)
	removed, err := a.store.Delete(ctx, id)
	if err != nil {
		fmt.Fprintf(a.stderr, "delete: %v\n", err)
		return exitError
	}
	if !removed {
		fmt.Fprintf(a.stdout, "no entry with id %s\n", id)
		return exitOK
	}
	fmt.Fprintf(a.stdout, "deleted %s\n", id)
	return exitOK
}

func (a *app) clear(ctx context.Context, args []string) int {
	fs := a.flags("clear")
	yes := fs.Bool("yes", false, "confirm removing every entry")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	n := a.store.View().Summary.Count
	if !*yes {
		fmt.Fprintf(a.stderr, "this removes all %d entries and cannot be undone; rerun with -yes\n", n)
		return exitUsage
	}
	if err := a.store.Clear(ctx); err != nil {
		fmt.Fprintf(a.stderr, "clear: %v\n", err)
		return exitError
	}
	fmt.Fprintf(a.stdout, "cleared %d entries\n", n)
	return exitOK
}

func (a *app) list(args []string) int {
	fs := a.flags("list")
	kind := fs.String("kind", "", "only show income or expense")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	filter, ok := parseFilter(*kind)
	if !ok {
		fmt.Fprintf(a.stderr, "invalid kind %q: must be income or expense\n", *kind)
		return exitUsage
	}

	v := a.store.View()
	counts := core.CountByKind(v.Entries)
	fmt.Fprintf(a.stdout, "all %d | income %d | expense %d\n", len(v.Entries), counts[core.Income], counts[core.Expense])

	entries := core.FilterByKind(v.Entries, filter)
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, "no entries")
		return exitOK
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tKIND\tCATEGORY\tDESCRIPTION\tAMOUNT\tID")
	for _, e := range entries {
		amount := format.Amount(e.Amount)
		if e.Kind == core.Expense {
			amount = "-" + amount
		} else {
			amount = "+" + amount
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			format.Date(e.Date), e.Kind, a.catalog.Label(e.Kind, e.Category), e.Description, amount, e.ID)
	}
	if err := tw.Flush(); err != nil {
		return exitError
	}
	return exitOK
}

func (a *app) summary(args []string) int {
	fs := a.flags("summary")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	s := a.store.View().Summary
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total income\t%s\n", format.Amount(s.TotalIncome))
	fmt.Fprintf(tw, "Total expense\t%s\n", format.Amount(s.TotalExpense))
	fmt.Fprintf(tw, "Balance\t%s\n", format.Amount(s.Balance))
	fmt.Fprintf(tw, "Entries\t%d\n", s.Count)
	if err := tw.Flush(); err != nil {
		return exitError
	}
	return exitOK
}

func (a *app) categories(args []string) int {
	fs := a.flags("categories")
	kind := fs.String("kind", "", "only show income or expense categories")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	filter, ok := parseFilter(*kind)
	if !ok {
		fmt.Fprintf(a.stderr, "invalid kind %q: must be income or expense\n", *kind)
		return exitUsage
	}

	for _, k := range core.Kinds() {
		if filter != "" && k != filter {
			continue
		}
		fmt.Fprintf(a.stdout, "%s:\n", k)
		for _, opt := range a.catalog.Options(k) {
			fmt.Fprintf(a.stdout, "  %-15s %s\n", opt.Value, opt.Label)
		}
	}
	return exitOK
}

func (a *app) export(args []string) int {
	fs := a.flags("export")
	formatName := fs.String("format", "csv", "csv or xlsx")
	out := fs.String("out", "-", "output file, - for stdout (csv only)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	var write func(io.Writer) error
	v := a.store.View()
	switch *formatName {
	case "csv":
		write = func(w io.Writer) error { return export.WriteCSV(w, v.Entries) }
	case "xlsx":
		if *out == "-" {
			fmt.Fprintln(a.stderr, "xlsx export needs -out")
			return exitUsage
		}
		write = func(w io.Writer) error { return export.WriteXLSX(w, v) }
	default:
		fmt.Fprintf(a.stderr, "invalid format %q: must be csv or xlsx\n", *formatName)
		return exitUsage
	}

	if *out == "-" {
		if err := write(a.stdout); err != nil {
			fmt.Fprintf(a.stderr, "export: %v\n", err)
			return exitError
		}
		return exitOK
	}

	if err := writeFile(*out, write); err != nil {
		fmt.Fprintf(a.stderr, "export: %v\n", err)
		return exitError
	}
	fmt.Fprintf(a.stdout, "exported %d entries to %s\n", len(v.Entries), *out)
	return exitOK
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// parseFilter accepts "", income or expense.
func parseFilter(s string) (core.Kind, bool) {
	if s == "" {
		return "", true
	}
	k, err := core.ParseKind(s)
	if errors.Is(err, core.ErrInvalidKind) {
		return "", false
	}
	return k, true
}

func printFieldErrors(w io.Writer, errs core.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	fmt.Fprintln(w, "invalid entry:")
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, errs[f])
	}
	fmt.Fprintln(w, "nothing was saved")
}
