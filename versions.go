package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var completionScripts = map[string]string{
	"bash": `_cafezinho_complete() {
	local cur opts
	COMPREPLY=()
	cur="${COMP_WORDS[COMP_CWORD]}"
	opts=$("${COMP_WORDS[@]:0:$COMP_CWORD}" --generate-bash-completion 2>/dev/null)
	COMPREPLY=($(compgen -W "${opts}" -- "${cur}"))
	return 0
}
complete -o bashdefault -o default -F _cafezinho_complete cafezinho
`,
	"zsh": `#compdef cafezinho
_cafezinho() {
	local -a opts
	opts=("${(@f)$(${words[@]:0:#words[@]-1} --generate-bash-completion)}")
	_describe 'values' opts
}
compdef _cafezinho cafezinho
`,
}

func init() {
	commands = append(commands, &cli.Command{
		Name:      "autocomplete",
		Usage:     "Print or install shell completion for cafezinho",
		Category:  "version",
		ArgsUsage: "[bash|zsh]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "install",
				Usage: "Save the script and source it from the shell's rc file",
			},
		},
		Action: autocomplete,
	})
}

func autocomplete(c *cli.Context) error {
	shell := c.Args().First()
	if shell == "" {
		shell = filepath.Base(os.Getenv("SHELL"))
	}
	script, ok := completionScripts[shell]
	if !ok {
		return cli.Exit(color.RedString("Unsupported shell for autocomplete: %q", shell), 1)
	}

	if !c.Bool("install") {
		fmt.Fprint(c.App.Writer, script)
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cli.Exit(color.RedString("Error locating home directory: %s", err), 1)
	}
	installDir := filepath.Join(homeDir, ".local", "share", "cafezinho")
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return cli.Exit(color.RedString("Error creating %s: %s", installDir, err), 1)
	}
	scriptPath := filepath.Join(installDir, shell+"_autocomplete")
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return cli.Exit(color.RedString("Error writing %s: %s", scriptPath, err), 1)
	}

	rcFile := filepath.Join(homeDir, "."+shell+"rc")
	file, err := os.OpenFile(rcFile, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return cli.Exit(color.RedString("Error opening %s: %s", rcFile, err), 1)
	}
	defer file.Close()

	sourceLine := fmt.Sprintf("source %s", scriptPath)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), sourceLine) {
			fmt.Fprintln(c.App.Writer, "Autocomplete script already installed.")
			return nil
		}
	}

	if _, err := file.WriteString("\n" + sourceLine + "\n"); err != nil {
		return cli.Exit(color.RedString("Error updating %s: %s", rcFile, err), 1)
	}

	fmt.Fprintln(c.App.Writer, "Autocomplete script installed. It will be sourced automatically in new shell sessions.")
	fmt.Fprintln(c.App.Writer, "To source it in the current session, run:")
	fmt.Fprintf(c.App.Writer, "\tsource %s\n", strings.Replace(scriptPath, homeDir, "~", 1))
	return nil
}
