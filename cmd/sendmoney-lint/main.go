package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/goliatone/go-sendmoney"
	"github.com/goliatone/go-sendmoney/pkg/validation"
)

type violation struct {
	file     string
	location string
	message  string
}

type fileReport struct {
	File   string            `json:"file"`
	Report validation.Report `json:"report"`
}

func main() {
	asJSON := flag.Bool("json", false, "print the reports as JSON")
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-json] [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint send-money catalogs. Without paths the embedded catalog is checked.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{""}
	}

	reports, err := lintAll(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		if err := writeJSON(os.Stdout, reports); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	violations := collect(reports)
	if len(violations) > 0 {
		if !*asJSON {
			for _, v := range violations {
				fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
			}
		}
		os.Exit(1)
	}
}

func lintAll(ctx context.Context, paths []string) ([]fileReport, error) {
	reports := make([]fileReport, 0, len(paths))
	for _, path := range paths {
		_, report, err := sendmoney.LoadCatalog(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("lint %s: %w", displayName(path), err)
		}
		reports = append(reports, fileReport{File: displayName(path), Report: report})
	}
	return reports, nil
}

func collect(reports []fileReport) []violation {
	var result []violation
	for _, r := range reports {
		for _, issue := range r.Report.Issues {
			location := issue.Path
			if location == "" {
				location = "/"
			}
			result = append(result, violation{file: r.File, location: location, message: issue.Message})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].file < result[j].file
	})
	return result
}

func writeJSON(w io.Writer, reports []fileReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func displayName(path string) string {
	if path == "" {
		return "(embedded)"
	}
	return path
}
