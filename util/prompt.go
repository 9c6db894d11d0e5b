package util

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks yes/no and free-text questions on a terminal-like pair of
// streams. When input runs out the default answer is used.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) String(prompt string, def string) string {
	fmt.Fprintf(p.out, "%s (%s): ", prompt, def)

	response := p.readLine()
	if response == "" {
		return def
	}
	return response
}

func (p *Prompter) YN(prompt string, def bool) bool {
	if def {
		fmt.Fprintf(p.out, "%s (Y/n): ", prompt)
	} else {
		fmt.Fprintf(p.out, "%s (y/N): ", prompt)
	}

	response := p.readLine()
	if response == "" {
		return def
	}

	response = strings.ToLower(response)
	return response == "y" || response == "yes" || response == "s" || response == "sim"
}

func (p *Prompter) readLine() string {
	response, err := p.in.ReadString('\n')
	if err != nil && response == "" {
		return ""
	}
	return strings.TrimSpace(response)
}
