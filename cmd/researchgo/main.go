// Command researchgo runs the research pipeline from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "research":
		err = runResearch(os.Args[2:])
	case "search":
		err = runSearch(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `researchgo - autonomous research pipeline with a local vector store

Usage:
  researchgo research [flags] <topic>   research a topic, store findings, summarize
  researchgo search   [flags] <text>    retrieve stored snippets similar to text
  researchgo export   [flags]           dump all stored documents as JSON

Flags (all commands):
  -config PATH    YAML config file
  -store PATH     override the vector store path

Run 'researchgo <command> -h' for command-specific flags.
`)
}
