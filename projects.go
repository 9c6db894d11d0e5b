package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/Cafezinho/lib/project"
	"github.com/vyPal/Cafezinho/util"
)

const helloProgram = `// ponto de entrada
principal() {
	escreva("Ola, mundo!");
}
`

func init() {
	commands = append(commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new Cafezinho project",
		Category:  "project",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "The name of the project",
			},
			&cli.StringFlag{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "The version of the project",
			},
			&cli.StringFlag{
				Name:    "main",
				Aliases: []string{"m"},
				Usage:   "The main file of the project",
			},
			&cli.StringFlag{
				Name:    "author",
				Aliases: []string{"a"},
				Usage:   "The author of the project",
			},
			&cli.StringFlag{
				Name:    "license",
				Aliases: []string{"l"},
				Usage:   "The license of the project",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept every default without prompting",
			},
			&cli.BoolFlag{
				Name:  "toml",
				Usage: "Write cfzconf.toml instead of cfzconf.yaml",
			},
		},
		Action: initProject,
	})
}

func initProject(c *cli.Context) error {
	rootDir := c.Args().First()
	if rootDir == "" {
		rootDir = "."
	}
	yes := c.Bool("yes")
	prompt := util.NewPrompter(c.App.Reader, c.App.Writer)
	out := c.App.Writer

	if _, err := os.Stat(rootDir); !os.IsNotExist(err) {
		files, err := os.ReadDir(rootDir)
		if err != nil {
			return cli.Exit(color.RedString("Error reading %s: %s", rootDir, err), 1)
		}
		if len(files) > 0 && !yes && !prompt.YN("The directory is not empty, continue?", false) {
			return nil
		}
	} else {
		if err := os.MkdirAll(rootDir, 0755); err != nil {
			return cli.Exit(color.RedString("Error creating %s: %s", rootDir, err), 1)
		}
		fmt.Fprintln(out, "Created directory:", rootDir)
	}

	name := filepath.Base(rootDir)
	if abs, err := filepath.Abs(rootDir); err == nil {
		name = filepath.Base(abs)
	}

	conf := project.CfzConf{}
	conf.CreateDefault(name)
	if !yes && !prompt.YN("Use default configuration?", true) {
		conf.Name = prompt.String("Project name", conf.Name)
		conf.Description = prompt.String("Project description", conf.Description)
		conf.Version = prompt.String("Project version", conf.Version)
		conf.Main = prompt.String("Main file", conf.Main)
		conf.Author = prompt.String("Author", conf.Author)
		conf.License = prompt.String("License", conf.License)
	}
	for flag, field := range map[string]*string{
		"name":    &conf.Name,
		"version": &conf.Version,
		"main":    &conf.Main,
		"author":  &conf.Author,
		"license": &conf.License,
	} {
		if c.IsSet(flag) {
			*field = c.String(flag)
		}
	}
	conf.Requires = "^" + Version

	mainPath := filepath.Join(rootDir, conf.Main)
	if _, err := os.Stat(mainPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(mainPath), 0755); err != nil {
			return cli.Exit(color.RedString("Error creating %s: %s", filepath.Dir(mainPath), err), 1)
		}
		if err := os.WriteFile(mainPath, []byte(helloProgram), 0644); err != nil {
			return cli.Exit(color.RedString("Error creating %s: %s", mainPath, err), 1)
		}
		fmt.Fprintln(out, "Created file:", mainPath)
	}

	confName := project.FileNames[0]
	if c.Bool("toml") {
		confName = "cfzconf.toml"
	}
	confPath := filepath.Join(rootDir, confName)
	var confirm project.Confirm
	if !yes {
		confirm = prompt.YN
	}
	written, err := conf.Save(confPath, confirm)
	if err != nil {
		return cli.Exit(color.RedString("Error saving config: %s", err), 1)
	}
	if written {
		fmt.Fprintln(out, "Created file:", confPath)
	} else {
		fmt.Fprintln(out, "Kept existing file:", confPath)
	}
	return nil
}
