// Command importcli runs the course import pipeline over local files and
// prints the resulting lessons, file analysis and failures.
//
//	go run ./cmd/importcli -policy per_section "Lecture 1.docx" "Lecture 2.docx"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"sigma-lms-be/internal/bootstrap"
	"sigma-lms-be/internal/config"
	"sigma-lms-be/internal/dto"
	"sigma-lms-be/internal/pkg/logger"
	"sigma-lms-be/internal/service"
	"sigma-lms-be/pkg/blocks"
	"sigma-lms-be/pkg/docimport"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := config.Load().Import

	flag.StringVar(&cfg.LessonPolicy, "policy", cfg.LessonPolicy, "lesson policy: per_file or per_section")
	flag.IntVar(&cfg.SectionMaxChars, "max-chars", cfg.SectionMaxChars, "section size in characters")
	flag.StringVar(&cfg.CollationLocale, "locale", cfg.CollationLocale, "locale used to order lesson titles")
	flag.StringVar(&cfg.StyleMapPath, "style-map", cfg.StyleMapPath, "YAML file mapping DOCX style names to heading levels")
	asJSON := flag.Bool("json", false, "print the import response as JSON")
	showBlocks := flag.Bool("blocks", false, "print the stored block form of each lesson")
	showMarkdown := flag.Bool("md", false, "print each lesson as Markdown")
	verbose := flag.Bool("v", false, "log pipeline warnings")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: importcli [flags] FILE...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := zapcore.ErrorLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	log := logger.NewConsoleLogger(level)
	defer log.Sync()

	uploads, err := readUploads(flag.Args())
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	reader, analyzer, err := bootstrap.NewPipeline(cfg, log)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	svc := service.NewImportService(cfg, reader, analyzer, nil, nil, nil, nil, nil, log)

	res, err := svc.Import(context.Background(), service.Caller{UserId: uuid.New()}, uploads)
	if err != nil {
		color.Red("Import failed: %v", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(res); err != nil {
			color.Red("%v", err)
			os.Exit(1)
		}
		return
	}

	printResult(res, *showBlocks, *showMarkdown)
}

func readUploads(paths []string) ([]docimport.RawUpload, error) {
	uploads := make([]docimport.RawUpload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		uploads = append(uploads, docimport.RawUpload{FileName: filepath.Base(p), Data: data})
	}
	return uploads, nil
}

func printResult(res *dto.ImportCourseResponse, showBlocks, showMarkdown bool) {
	color.Cyan("Course: %s", res.CourseTitle)
	fmt.Printf("Sections found: %d\n", res.SectionsCount)

	color.Yellow("\nLessons")
	for _, l := range res.Lessons {
		fmt.Printf("  %2d. %s (%d chars)\n", l.OrderIndex+1, l.Title, docimport.TextLength(l.Content))
		doc := blocks.FromHTML(l.Content)
		if showBlocks {
			fmt.Printf("      %s\n", blocks.Stringify(doc))
		}
		if showMarkdown {
			md, err := blocks.ToMarkdown(doc)
			if err != nil {
				color.Red("      markdown: %v", err)
				continue
			}
			fmt.Println(md)
		}
	}

	color.Yellow("\nAnalysis")
	for _, a := range res.Analysis {
		fmt.Printf("  %-40s %-10s %6d words\n", a.FileName, a.ContentType, a.WordCount)
	}

	if len(res.Failures) > 0 {
		color.Red("\nFailures")
		for _, f := range res.Failures {
			color.Red("  %s [%s]: %s", f.FileName, f.Reason, f.Error)
		}
	}
}
