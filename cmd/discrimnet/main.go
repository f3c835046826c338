// Command discrimnet is a small demo driver for the discrimination net: it
// reads a file of patterns (one s-expression per line), builds a Net, then
// matches each subject line read from stdin against it.
//
// Pattern syntax: "(head a b c)" for a compound, a bare word for a ground
// symbol, and "_" / "__" / "___" for a single / plus / star wildcard, each
// optionally preceded by a binding name ("x_", "rest___").
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gitrfl/discrimnet/discrimnet"
)

func main() {
	var dotFile string
	var collect bool
	flag.StringVar(&dotFile, "dot", "", "write the net's DFA graph in Graphviz DOT format to this file")
	flag.BoolVar(&collect, "collect", false, "accumulate matches along the whole walk instead of only at the final state")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("usage: discrimnet [-dot FILE] [-collect] patterns.txt < subjects.txt")
	}

	patternsFile, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("discrimnet: %v", err)
	}
	defer patternsFile.Close()

	cfg := discrimnet.DefaultConfig()
	cfg.CollectMode = collect
	net := discrimnet.NewWithConfig(cfg)
	ops := newOpKinds()

	var labels []string
	scanner := bufio.NewScanner(patternsFile)
	for scanner.Scan() {
		line := scanner.Text()
		if isBlankOrComment(line) {
			continue
		}
		e, err := ParseExpression(line, ops)
		if err != nil {
			log.Fatalf("discrimnet: parsing pattern %q: %v", line, err)
		}
		label := fmt.Sprintf("p%d", len(labels))
		if _, err := net.Add(e, label); err != nil {
			log.Fatalf("discrimnet: adding pattern %q: %v", line, err)
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("discrimnet: reading patterns: %v", err)
	}

	if dotFile != "" {
		f, err := os.Create(dotFile)
		if err != nil {
			log.Fatalf("discrimnet: %v", err)
		}
		if err := net.DOT(f); err != nil {
			f.Close()
			log.Fatalf("discrimnet: writing dot graph: %v", err)
		}
		f.Close()
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	input := bufio.NewScanner(os.Stdin)
	for input.Scan() {
		line := input.Text()
		if isBlankOrComment(line) {
			continue
		}
		subject, err := ParseExpression(line, ops)
		if err != nil {
			fmt.Fprintf(out, "%s: parse error: %v\n", line, err)
			continue
		}
		n := 0
		for label, s := range net.Match(subject) {
			fmt.Fprintf(out, "%s: %v %v\n", line, label, s)
			n++
		}
		if n == 0 {
			fmt.Fprintf(out, "%s: no match\n", line)
		}
	}
	if err := input.Err(); err != nil {
		log.Fatalf("discrimnet: reading subjects: %v", err)
	}
}

func isBlankOrComment(line string) bool {
	for _, r := range line {
		if r == ' ' || r == '\t' {
			continue
		}
		return r == '#'
	}
	return true
}
