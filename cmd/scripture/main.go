// Command scripture reads and loads the verses store from the terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/sola-scriptura-reader-api/internal/importer"
	applog "github.com/sola-scriptura-reader-api/internal/log"
	"github.com/sola-scriptura-reader-api/internal/models"
	"github.com/sola-scriptura-reader-api/internal/repository"
	"github.com/sola-scriptura-reader-api/internal/repository/postgres"
	"github.com/sola-scriptura-reader-api/internal/repository/sqlite"
	"github.com/sola-scriptura-reader-api/internal/services"
	schemaconfig "github.com/sola-scriptura-reader-api/pkg/schema/config"
	"github.com/sola-scriptura-reader-api/pkg/schema/db"
)

// Globals are flags shared by every subcommand.
type Globals struct {
	JSON        bool   `name:"json" help:"Print results as JSON"`
	DB          string `name:"db" help:"SQLite database path (overrides SQLITE_PATH)" type:"path"`
	Backend     string `name:"backend" help:"Storage backend: sqlite or postgres (overrides STORE_BACKEND)"`
	PostgresURI string `name:"postgres-uri" help:"PostgreSQL connection URI (overrides POSTGRES_URI)"`

	Out io.Writer           `kong:"-"`
	Cfg schemaconfig.Config `kong:"-"`
}

// CLI defines the command-line interface for scripture.
type CLI struct {
	Globals

	Books    BooksCmd    `cmd:"" help:"List books"`
	Chapters ChaptersCmd `cmd:"" help:"List chapters of a book"`
	Verses   VersesCmd   `cmd:"" help:"List verses of a chapter"`
	Verse    VerseCmd    `cmd:"" help:"Print the text of one verse"`
	Book     BookCmd     `cmd:"" help:"Print a whole book grouped by chapter"`
	Search   SearchCmd   `cmd:"" help:"Search verse text for a keyword"`
	Import   ImportCmd   `cmd:"" help:"Replace the store with a nested JSON corpus (.json or .json.xz)"`
	Export   ExportCmd   `cmd:"" help:"Write the store as a nested JSON corpus (.json or .json.xz)"`
}

// config applies flag overrides on top of file and environment configuration.
func (g *Globals) config() schemaconfig.Config {
	cfg := g.Cfg
	if g.Backend != "" {
		cfg.StoreBackend = strings.ToLower(g.Backend)
	}
	if g.DB != "" {
		cfg.SQLitePath = g.DB
	}
	if g.PostgresURI != "" {
		cfg.PostgresURI = g.PostgresURI
	}
	return cfg
}

// open connects to the store. Only import may create a missing SQLite file.
func (g *Globals) open(ctx context.Context, create bool) (*sqlx.DB, string, error) {
	cfg := g.config()
	openFn := db.OpenExisting
	if create {
		openFn = db.Open
	}
	sqlDB, err := openFn(ctx, &cfg)
	if err != nil {
		return nil, "", err
	}
	return sqlDB, db.BackendName(cfg.StoreBackend), nil
}

func newRepository(backend string, sqlDB *sqlx.DB) repository.ScriptureRepository {
	if backend == db.BackendPostgres {
		return postgres.NewScriptureRepository(sqlDB)
	}
	return sqlite.NewScriptureRepository(sqlDB)
}

// withService opens the store for a single command and closes it afterwards.
func (g *Globals) withService(fn func(ctx context.Context, svc *services.ScriptureService) error) error {
	ctx := context.Background()
	sqlDB, backend, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return fn(ctx, services.NewScriptureService(newRepository(backend, sqlDB), applog.WithComponent("cli")))
}

func (g *Globals) printJSON(v any) error {
	enc := json.NewEncoder(g.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (g *Globals) printLines(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(g.Out, l)
	}
}

func itoaAll(ns []int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = fmt.Sprint(n)
	}
	return out
}

// BooksCmd lists every book.
type BooksCmd struct{}

func (c *BooksCmd) Run(g *Globals) error {
	return g.withService(func(ctx context.Context, svc *services.ScriptureService) error {
		books, err := svc.ListBooks(ctx)
		if err != nil {
			return err
		}
		if g.JSON {
			return g.printJSON(books)
		}
		g.printLines(books)
		return nil
	})
}

// ChaptersCmd lists the chapters of a book.
type ChaptersCmd struct {
	Book string `arg:"" help:"Book name, matched exactly"`
}

func (c *ChaptersCmd) Run(g *Globals) error {
	return g.withService(func(ctx context.Context, svc *services.ScriptureService) error {
		chapters, err := svc.ListChapters(ctx, c.Book)
		if err != nil {
			return err
		}
		if g.JSON {
			return g.printJSON(chapters)
		}
		g.printLines(itoaAll(chapters))
		return nil
	})
}

// VersesCmd lists the verses of a chapter.
type VersesCmd struct {
	Book    string `arg:"" help:"Book name, matched exactly"`
	Chapter int    `arg:"" help:"Chapter number"`
}

func (c *VersesCmd) Run(g *Globals) error {
	return g.withService(func(ctx context.Context, svc *services.ScriptureService) error {
		verses, err := svc.ListVerses(ctx, c.Book, c.Chapter)
		if err != nil {
			return err
		}
		if g.JSON {
			return g.printJSON(verses)
		}
		g.printLines(itoaAll(verses))
		return nil
	})
}

// VerseCmd prints one verse.
type VerseCmd struct {
	Book    string `arg:"" help:"Book name, matched exactly"`
	Chapter int    `arg:"" help:"Chapter number"`
	Verse   int    `arg:"" help:"Verse number"`
}

func (c *VerseCmd) Run(g *Globals) error {
	return g.withService(func(ctx context.Context, svc *services.ScriptureService) error {
		text, err := svc.GetVerseText(ctx, c.Book, c.Chapter, c.Verse)
		if err != nil {
			return err
		}
		if g.JSON {
			return g.printJSON(models.VerseTextResponse{Text: text})
		}
		fmt.Fprintln(g.Out, text)
		return nil
	})
}

// BookCmd prints a whole book.
type BookCmd struct {
	Book string `arg:"" help:"Book name, matched exactly"`
}

func (c *BookCmd) Run(g *Globals) error {
	return g.withService(func(ctx context.Context, svc *services.ScriptureService) error {
		groups, err := svc.GetFullBook(ctx, c.Book)
		if err != nil {
			return err
		}
		if g.JSON {
			return g.printJSON(groups)
		}
		if len(groups) == 0 {
			fmt.Fprintf(g.Out, "No such book: %s\n", c.Book)
			return nil
		}
		for i, group := range groups {
			if i > 0 {
				fmt.Fprintln(g.Out)
			}
			fmt.Fprintf(g.Out, "%s %d\n", c.Book, group.Chapter)
			for _, v := range group.Verses {
				fmt.Fprintf(g.Out, "%d %s\n", v.Verse, v.Text)
			}
		}
		return nil
	})
}

// SearchCmd searches verse text.
type SearchCmd struct {
	Keyword string `arg:"" help:"Case-insensitive substring to look for"`
}

func (c *SearchCmd) Run(g *Globals) error {
	return g.withService(func(ctx context.Context, svc *services.ScriptureService) error {
		results, err := svc.SearchVerses(ctx, c.Keyword)
		if err != nil {
			return err
		}
		if g.JSON {
			return g.printJSON(results)
		}
		if len(results) == 0 {
			fmt.Fprintln(g.Out, "No results found.")
			return nil
		}
		for _, v := range results {
			fmt.Fprintf(g.Out, "%s %d:%d — %s\n", v.Book, v.Chapter, v.Verse, v.Text)
		}
		return nil
	})
}

// ImportCmd replaces the store contents with a corpus file.
type ImportCmd struct {
	File string `arg:"" help:"Corpus file" type:"existingfile"`
}

func (c *ImportCmd) Run(g *Globals) error {
	rc, err := importer.OpenSource(c.File)
	if err != nil {
		return err
	}
	defer rc.Close()

	corpus, err := importer.Load(rc)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sqlDB, backend, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := db.EnsureSchema(ctx, sqlDB, backend); err != nil {
		return err
	}

	stats, err := importer.Replace(ctx, sqlDB, corpus, applog.WithComponent("importer"))
	if err != nil {
		return err
	}
	if g.JSON {
		return g.printJSON(stats)
	}
	fmt.Fprintf(g.Out, "Imported %d verses (%d books, %d chapters)\n", stats.Verses, stats.Books, stats.Chapters)
	return nil
}

// ExportCmd writes the store contents to a corpus file.
type ExportCmd struct {
	File string `arg:"" help:"Output file" type:"path"`
}

func (c *ExportCmd) Run(g *Globals) error {
	ctx := context.Background()
	sqlDB, backend, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	sink, err := importer.CreateSink(c.File)
	if err != nil {
		return err
	}
	stats, err := importer.Export(ctx, newRepository(backend, sqlDB), sink, applog.WithComponent("exporter"))
	if cerr := sink.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close export file: %w", cerr)
	}
	if err != nil {
		return err
	}
	if g.JSON {
		return g.printJSON(stats)
	}
	fmt.Fprintf(g.Out, "Exported %d verses (%d books, %d chapters) to %s\n", stats.Verses, stats.Books, stats.Chapters, c.File)
	return nil
}

// run parses args and executes the selected command, writing results to out.
func run(args []string, cfg schemaconfig.Config, out io.Writer) error {
	cli := CLI{Globals: Globals{Out: out, Cfg: cfg}}
	parser, err := kong.New(&cli,
		kong.Name("scripture"),
		kong.Description("Browse and search a scripture corpus"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Bind(&cli.Globals),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run()
}

func main() {
	_ = godotenv.Load()

	cfg := schemaconfig.GetConfig()
	applog.Init(applog.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})

	if err := run(os.Args[1:], *cfg, os.Stdout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "scripture: %v\n", err)
		os.Exit(1)
	}
}
