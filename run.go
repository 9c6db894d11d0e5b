package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/pipeline"
	"github.com/vyPal/Cafezinho/lib/project"
)

// smokeProgram runs when there is neither a file nor a project to run.
const smokeProgram = `principal() {
	inteiro !x = 10;
	inteiro !y = 20;
	escreva("Soma: ", !x + !y);
}
`

func init() {
	commands = append(commands, &cli.Command{
		Name:      "run",
		Usage:     "Run a Cafezinho file",
		Category:  "run",
		ArgsUsage: "[file]",
		Flags:     runFlags(),
		Action:    runAction(pipeline.All),
	}, &cli.Command{
		Name:      "check",
		Usage:     "Parse and type check a Cafezinho file without running it",
		Category:  "run",
		ArgsUsage: "[file]",
		Flags:     runFlags(),
		Action:    runAction(pipeline.Check),
	})
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "The path to the config file. ",
			Aliases: []string{"c"},
		},
		&cli.StringFlag{
			Name:    "input-str",
			Aliases: []string{"s"},
			Usage:   "Run a string instead of a file",
		},
		&cli.BoolFlag{
			Name:    "dump-ast",
			Aliases: []string{"d"},
			Usage:   "Dump the AST to ast_dump.json",
		},
		&cli.BoolFlag{
			Name:    "memory-report",
			Aliases: []string{"m"},
			Usage:   "Print allocator statistics after the run",
		},
		&cli.BoolFlag{
			Name:  "dump-symbols",
			Usage: "Print the global symbol table after analysis",
		},
		&cli.BoolFlag{
			Name:  "no-warnings",
			Usage: "Only print errors",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log every stage to stderr",
		},
	}
}

func newLogger(c *cli.Context) zerolog.Logger {
	if !c.Bool("verbose") {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: c.App.ErrWriter, NoColor: color.NoColor}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

// loadConfig returns the config named by --config, or the one in the
// working directory. found is false when there is none.
func loadConfig(c *cli.Context, log zerolog.Logger) (conf project.CfzConf, found bool, err error) {
	if p := c.String("config"); p != "" {
		conf, err = project.Load(p)
		if err != nil {
			return conf, false, err
		}
		found = true
	} else {
		conf, err = project.GetCfzConf(".")
		if errors.Is(err, project.ErrNotFound) {
			return project.CfzConf{}, false, nil
		}
		if err != nil {
			return conf, false, err
		}
		found = true
	}

	log.Debug().Str("project", conf.Name).Str("dir", conf.Dir).Msg("loaded config")
	return conf, found, conf.CheckRequires(Version)
}

// execute runs --input-str, then the file argument, then the project's
// main file, then the smoke program.
func execute(c *cli.Context, conf project.CfzConf, found bool, opts pipeline.Options) (*pipeline.Result, error) {
	if s := c.String("input-str"); s != "" {
		opts.Filename = "<input>"
		return pipeline.Run(s, opts), nil
	}

	path := c.Args().First()
	if path == "" && found {
		path = conf.MainPath()
	}
	if path == "" {
		opts.Filename = "<smoke>"
		return pipeline.Run(smokeProgram, opts), nil
	}
	return pipeline.RunFile(path, opts)
}

func runAction(step pipeline.Step) cli.ActionFunc {
	return func(c *cli.Context) error {
		log := newLogger(c)

		conf, found, err := loadConfig(c, log)
		if err != nil {
			return cli.Exit(color.RedString("Error loading config: %s", err), 1)
		}

		res, err := execute(c, conf, found, pipeline.Options{
			StopAfter:       step,
			MemoryLimit:     conf.MemoryLimit(),
			SymbolTableSize: conf.Runtime.SymbolTableSize,
			Stdin:           c.App.Reader,
			Stdout:          c.App.Writer,
			ReadPrompt:      conf.Runtime.ReadPrompt,
			Logger:          &log,
		})
		if err != nil {
			return cli.Exit(color.RedString("Error: %s", err), 1)
		}

		showWarnings := conf.ShowWarnings() && !c.Bool("no-warnings")
		res.Session.RenderWithSource(c.App.ErrWriter, res.Source, conf.UseColor() && !color.NoColor, showWarnings)

		if c.Bool("dump-symbols") {
			res.Table.Dump(c.App.Writer)
		}

		if c.Bool("dump-ast") && res.Program != nil {
			if err := dumpAST("ast_dump.json", res.Program); err != nil {
				return cli.Exit(color.RedString("Error writing AST dump: %s", err), 1)
			}
		}

		if c.Bool("memory-report") {
			res.Allocator.Report(c.App.Writer)
		}

		if !res.Success {
			return cli.Exit(color.RedString("%s stage failed with %d error(s)", res.FailedStage, res.Session.ErrorCount()), 1)
		}
		return nil
	}
}

func dumpAST(path string, prog *ast.Program) error {
	data, err := json.MarshalIndent(ast.Dump(prog), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
