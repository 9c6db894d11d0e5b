package main

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/Cafezinho/lib/ast"
	cfzlex "github.com/vyPal/Cafezinho/lib/lexer"
	"github.com/vyPal/Cafezinho/lib/pipeline"
	"github.com/vyPal/Cafezinho/lib/project"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "tokens",
		Usage:     "Print the token stream of a Cafezinho file",
		Category:  "inspect",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input-str",
				Aliases: []string{"s"},
				Usage:   "Lex a string instead of a file",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print tokens as JSON",
			},
		},
		Action: printTokens,
	}, &cli.Command{
		Name:      "ast",
		Usage:     "Print the syntax tree of a Cafezinho file as JSON",
		Category:  "inspect",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input-str",
				Aliases: []string{"s"},
				Usage:   "Parse a string instead of a file",
			},
		},
		Action: printAST,
	})
}

type tokenJSON struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// source is the text to lex: --input-str, then the file argument, then
// the smoke program.
func source(c *cli.Context) (name, src string, err error) {
	if s := c.String("input-str"); s != "" {
		return "<input>", s, nil
	}
	path := c.Args().First()
	if path == "" {
		return "<smoke>", smokeProgram, nil
	}
	src, err = pipeline.ReadSource(path)
	return filepath.Clean(path), src, err
}

func printTokens(c *cli.Context) error {
	name, src, err := source(c)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}

	lex, err := cfzlex.LexString(name, src)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}
	toks, err := lexer.ConsumeAll(lex)
	if err != nil {
		if perr, ok := err.(participle.Error); ok {
			pos := perr.Position()
			return cli.Exit(color.RedString("Lexical error — line %d, column %d: %s", pos.Line, pos.Column, perr.Message()), 1)
		}
		return cli.Exit(color.RedString("Lexical error: %s", err), 1)
	}

	if c.Bool("json") {
		out := make([]tokenJSON, 0, len(toks))
		for _, t := range toks {
			out = append(out, tokenJSON{
				Kind:   cfzlex.KindOf(t.Type).String(),
				Text:   t.Value,
				Line:   t.Pos.Line,
				Column: t.Pos.Column,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return cli.Exit(color.RedString("Error encoding tokens: %s", err), 1)
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	}

	for _, t := range toks {
		fmt.Fprintf(c.App.Writer, "%d:%d\t%s\t%q\n", t.Pos.Line, t.Pos.Column, cfzlex.KindOf(t.Type), t.Value)
	}
	return nil
}

func printAST(c *cli.Context) error {
	log := newLogger(c)
	res, err := execute(c, project.CfzConf{}, false, pipeline.Options{StopAfter: pipeline.Parse, Logger: &log})
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), 1)
	}
	if !res.Success {
		res.Session.RenderWithSource(c.App.ErrWriter, res.Source, !color.NoColor, false)
		return cli.Exit(color.RedString("%s stage failed", res.FailedStage), 1)
	}

	data, err := json.MarshalIndent(ast.Dump(res.Program), "", "  ")
	if err != nil {
		return cli.Exit(color.RedString("Error encoding AST: %s", err), 1)
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
