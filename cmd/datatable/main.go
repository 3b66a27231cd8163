// Command datatable loads rows from a CSV, Excel or SQLite file,
// applies sort, edit, insert and delete operations through
// a datatable.Table and prints the resulting grid as CSV or HTML.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	fs "github.com/ungerik/go-fs"
	_ "modernc.org/sqlite"

	"github.com/powerhouse-inc/go-datatable"
	"github.com/powerhouse-inc/go-datatable/csvtable"
	"github.com/powerhouse-inc/go-datatable/eventlog"
	"github.com/powerhouse-inc/go-datatable/exceltable"
	"github.com/powerhouse-inc/go-datatable/htmltable"
	"github.com/powerhouse-inc/go-datatable/sqltable"
	"github.com/powerhouse-inc/go-datatable/tableconfig"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configFile  string
	dataFile    string
	sheet       string
	sqlTable    string
	sqlKey      string
	sort        string
	sets        []string
	adds        []string
	deletes     []int
	yes         bool
	journalFile string
	logLevel    string
	separator   string
	header      bool
	output      string
	columns     []string
	offset      int
	limit       int
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("datatable", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.configFile, "config", "", "table configuration file (.yaml, .yml, .json, .jsonc)")
	flagSet.StringVar(&opts.dataFile, "data", "", "data file (.csv, .xlsx, .db, .sqlite)")
	flagSet.StringVar(&opts.sheet, "sheet", "", "sheet of an Excel data file (default: first sheet)")
	flagSet.StringVar(&opts.sqlTable, "sql-table", "", "table of a SQLite data file, changes are written back to it")
	flagSet.StringVar(&opts.sqlKey, "sql-key", "id", "primary key column of --sql-table")
	flagSet.StringVar(&opts.sort, "sort", "", "sort by column field or index, optionally followed by :asc or :desc")
	flagSet.StringArrayVar(&opts.sets, "set", nil, "edit a cell as row:column=value (repeatable)")
	flagSet.StringArrayVar(&opts.adds, "add", nil, "add a row from column=value via the insertion row (repeatable)")
	flagSet.IntSliceVar(&opts.deletes, "delete", nil, "delete the displayed rows with these indices")
	flagSet.BoolVarP(&opts.yes, "yes", "y", false, "don't ask for confirmation before deleting")
	flagSet.StringVar(&opts.journalFile, "journal", "", "write a CBOR journal of all table events to this file")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flagSet.StringVar(&opts.separator, "separator", ",", "field separator of the printed CSV")
	flagSet.BoolVar(&opts.header, "header", true, "print the column titles as first row")
	flagSet.StringVarP(&opts.output, "output", "o", "csv", "output format: csv or html")
	flagSet.StringSliceVar(&opts.columns, "columns", nil, "print only the columns with these titles")
	flagSet.IntVar(&opts.offset, "offset", 0, "number of displayed rows to skip in the output")
	flagSet.IntVar(&opts.limit, "limit", 0, "maximum number of rows to print, 0 for all")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: datatable --data FILE [flags]\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if opts.dataFile == "" {
		return nil, errors.New("missing --data file")
	}
	if opts.output != "csv" && opts.output != "html" {
		return nil, fmt.Errorf("invalid --output format %q", opts.output)
	}
	return &opts, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		return err
	}

	var (
		rows  []tableconfig.Row
		store *sqltable.Store
	)
	if isSQLite(opts.dataFile) {
		if opts.sqlTable == "" {
			return errors.New("missing --sql-table for SQLite data file")
		}
		db, err := sql.Open("sqlite", opts.dataFile)
		if err != nil {
			return err
		}
		defer db.Close()
		store = sqltable.NewStore(db, opts.sqlTable, opts.sqlKey)
		rows, err = store.Records(ctx)
		if err != nil {
			return err
		}
	} else {
		rows, err = readData(ctx, fs.File(opts.dataFile), opts.sheet)
		if err != nil {
			return err
		}
	}
	logger.Info("Loaded data", slog.String("file", opts.dataFile), slog.Int("rows", len(rows)))

	var tableFile *tableconfig.File
	if opts.configFile != "" {
		tableFile, err = tableconfig.Load(ctx, fs.File(opts.configFile))
		if err != nil {
			return err
		}
	} else {
		tableFile = inferConfig(rows)
	}

	var table *datatable.Table[tableconfig.Row]
	config := datatable.Config[tableconfig.Row]{
		Data:   rows,
		Logger: logger,
		OnAdd: func(ctx context.Context, data map[string]any) error {
			rows = append(rows, data)
			table.SetData(rows)
			return nil
		},
		OnDelete: func(ctx context.Context, deleted []tableconfig.Row) error {
			rows = removeRows(rows, deleted)
			table.SetData(rows)
			return nil
		},
		Confirmer: &promptConfirmer{in: bufio.NewReader(stdin), out: stderr},
	}
	if opts.yes {
		config.Confirmer = datatable.AlwaysConfirm
	}
	tableFile.Apply(&config)
	if store != nil {
		store.Bind(&config, func(ctx context.Context) error {
			rows, err := store.Records(ctx)
			if err != nil {
				return err
			}
			table.SetData(rows)
			return nil
		})
	} else {
		for i := range config.Columns {
			if config.Columns[i].Editable {
				config.Columns[i].OnSave = saveCell
			}
		}
	}
	table = datatable.NewTable(config)

	if opts.journalFile != "" {
		journal, err := os.Create(opts.journalFile)
		if err != nil {
			return err
		}
		defer journal.Close()
		recorder := eventlog.NewRecorder(journal, logger)
		defer recorder.Attach(table.Events())()
		defer func() {
			logger.Info("Wrote event journal",
				slog.String("file", opts.journalFile),
				slog.Uint64("records", recorder.NumRecords()),
			)
		}()
	}

	if err = tableFile.ApplySort(ctx, table); err != nil {
		return err
	}
	if opts.sort != "" {
		col, direction, err := parseSort(tableFile, opts.sort)
		if err != nil {
			return err
		}
		if err = table.SortRows(ctx, col, direction); err != nil {
			return err
		}
	}
	for _, set := range opts.sets {
		if err = applySet(ctx, table, tableFile, set); err != nil {
			return err
		}
	}
	for _, add := range opts.adds {
		if err = applyAdd(ctx, table, tableFile, add); err != nil {
			return err
		}
	}
	if len(opts.deletes) > 0 {
		err = table.DeleteRows(ctx, opts.deletes, datatable.DeleteOptions{
			AskConfirmation: true,
			Title:           "Delete rows",
		})
		if err != nil {
			return err
		}
	}

	var view datatable.View = table
	if len(opts.columns) > 0 || opts.offset > 0 || opts.limit > 0 {
		filtered := &datatable.FilteredView{Source: table}
		if len(opts.columns) > 0 {
			filtered, err = datatable.NewColumnFilteredView(table, opts.columns...)
			if err != nil {
				return err
			}
		}
		filtered.RowOffset = opts.offset
		filtered.RowLimit = opts.limit
		view = filtered
	}

	if opts.output == "html" {
		return htmltable.NewWriter().WithHeaderRow(opts.header).WriteView(ctx, stdout, view)
	}
	return csvtable.WriteView(ctx, stdout, view, csvtable.NewFormat(opts.separator), opts.header)
}

func isSQLite(filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func readData(ctx context.Context, file fs.File, sheet string) ([]tableconfig.Row, error) {
	switch strings.ToLower(path.Ext(file.Name())) {
	case ".xlsx", ".xlsm":
		return exceltable.ReadFileRecords(file.LocalPath(), sheet)
	default:
		rows, _, err := csvtable.ReadFile(ctx, file, nil)
		if err != nil {
			return nil, err
		}
		return csvtable.Records(rows), nil
	}
}

// inferConfig returns an editable, sortable text column
// for every key of the first row in alphabetical order.
func inferConfig(rows []tableconfig.Row) *tableconfig.File {
	f := &tableconfig.File{AllowRowSelection: true}
	if len(rows) == 0 {
		return f
	}
	names := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f.Columns = append(f.Columns, tableconfig.Column{Field: name, Editable: true, Sortable: true})
	}
	return f
}

func saveCell(ctx context.Context, value any, cell *datatable.CellContext[tableconfig.Row]) (bool, error) {
	cell.Row[cell.Column.Field] = value
	return true, nil
}

func removeRows(rows, deleted []tableconfig.Row) []tableconfig.Row {
	return slices.DeleteFunc(rows, func(row tableconfig.Row) bool {
		for _, d := range deleted {
			// Rows are maps, compare identity
			if reflect.ValueOf(row).UnsafePointer() == reflect.ValueOf(d).UnsafePointer() {
				return true
			}
		}
		return false
	})
}

func columnIndex(f *tableconfig.File, ref string) (int, error) {
	if i := f.ColumnIndex(ref); i >= 0 {
		return i, nil
	}
	i, err := strconv.Atoi(ref)
	if err != nil || i < 0 || i >= len(f.Columns) {
		return -1, fmt.Errorf("unknown column %q", ref)
	}
	return i, nil
}

func parseSort(f *tableconfig.File, str string) (int, datatable.SortDirection, error) {
	ref, dir, _ := strings.Cut(str, ":")
	col, err := columnIndex(f, ref)
	if err != nil {
		return -1, "", err
	}
	direction := datatable.SortAscending
	if dir != "" {
		direction = datatable.SortDirection(strings.ToLower(dir))
		if direction == datatable.SortNone || !direction.Valid() {
			return -1, "", fmt.Errorf("invalid sort direction %q", dir)
		}
	}
	return col, direction, nil
}

// applySet edits a cell given as "row:column=value".
func applySet(ctx context.Context, table *datatable.Table[tableconfig.Row], f *tableconfig.File, set string) error {
	cellRef, value, ok := strings.Cut(set, "=")
	rowRef, colRef, ok2 := strings.Cut(cellRef, ":")
	if !ok || !ok2 {
		return fmt.Errorf("invalid --set %q, expected row:column=value", set)
	}
	row, err := strconv.Atoi(rowRef)
	if err != nil {
		return fmt.Errorf("invalid --set row %q", rowRef)
	}
	col, err := columnIndex(f, colRef)
	if err != nil {
		return err
	}
	return editCell(ctx, table, row, col, value)
}

// applyAdd adds a row given as "column=value" via the insertion row.
func applyAdd(ctx context.Context, table *datatable.Table[tableconfig.Row], f *tableconfig.File, add string) error {
	colRef, value, ok := strings.Cut(add, "=")
	if !ok {
		return fmt.Errorf("invalid --add %q, expected column=value", add)
	}
	col, err := columnIndex(f, colRef)
	if err != nil {
		return err
	}
	return editCell(ctx, table, table.TotalRowsCount()-1, col, value)
}

func editCell(ctx context.Context, table *datatable.Table[tableconfig.Row], row, col int, input string) error {
	if err := table.EnterCellEditMode(row, col); err != nil {
		return err
	}
	table.SetEditInput(input)
	_, err := table.ExitCellEditMode(ctx, true)
	if err != nil {
		return err
	}
	if errs := table.CellErrors(row, col); len(errs) > 0 {
		return fmt.Errorf("invalid value %q for cell [%d,%d]: %s", input, row, col, strings.Join(errs, ", "))
	}
	return nil
}

type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (c *promptConfirmer) Confirm(ctx context.Context, request datatable.ConfirmRequest) (bool, error) {
	if request.Informational {
		fmt.Fprintf(c.out, "%s: %s\n", request.Title, request.Description)
		return true, nil
	}
	fmt.Fprintf(c.out, "%s: %s [y/N] ", request.Title, request.Description)
	answer, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
