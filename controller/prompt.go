package controller

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errNoInput = errors.New("no more input")

// prompter reads answers line by line from the terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) askOptional(label string) (string, error) {
	return p.ask(label + " (optional): ")
}

// askUntil repeats the question until check accepts the answer.
func (p *prompter) askUntil(label string, check func(string) error) (string, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return "", err
		}
		if err = check(answer); err != nil {
			fmt.Fprintln(p.out, userMessage(err))
			continue
		}
		return answer, nil
	}
}

// choose lists options and returns the zero based index of the selection.
func (p *prompter) choose(title string, options []string) (int, error) {
	fmt.Fprintln(p.out, title)
	for i, o := range options {
		fmt.Fprintf(p.out, "%d: %s\n", i+1, o)
	}
	for {
		answer, err := p.ask("Selection: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d\n", len(options))
			continue
		}
		return n - 1, nil
	}
}
