// Package main provides the ghcollect command line tool.
//
// ghcollect collects repositories, issues, pull requests, profiles and
// trending repositories from GitHub and writes them as JSON, CSV, XLSX or
// Markdown files.
//
// Usage:
//
//	ghcollect repos <username>
//	ghcollect issues <owner> <repo> --state open
//	ghcollect trending --language go --since weekly --format csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
