package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"resume-studio/resume/contract"
	"resume-studio/resume/model"
	"resume-studio/resume/render"
	"resume-studio/resume/theme"
)

func main() {
	outDir := flag.String("out", "./out", "output directory for rendered pages")
	inPath := flag.String("in", "", "optional resume JSON to render instead of the seed")
	flag.Parse()

	data, err := loadData(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	for _, th := range theme.All() {
		page, err := render.Page(data, th)
		if err != nil {
			fmt.Fprintf(os.Stderr, "render %s failed: %v\n", th.ID, err)
			os.Exit(1)
		}
		if err := validatePage(page, data, th); err != nil {
			fmt.Fprintf(os.Stderr, "render validation failed for %s: %v\n", th.ID, err)
			os.Exit(1)
		}
		path := filepath.Join(*outDir, fmt.Sprintf("resume_%s.html", th.ID))
		if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK: wrote %s\n", path)
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(filepath.Join(*outDir, "resume_data.json"), payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}
}

func loadData(path string) (model.ResumeData, error) {
	if path == "" {
		return model.Seed(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.ResumeData{}, err
	}
	return contract.Decode(raw)
}

// validatePage checks that every titled section made it into the page and
// that the accent color was applied.
func validatePage(page string, data model.ResumeData, th theme.Theme) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return err
	}
	if got := strings.TrimSpace(doc.Find("h1.resume-name").Text()); got != strings.TrimSpace(data.Basics.Name) {
		return fmt.Errorf("name mismatch: %q", got)
	}

	const want = 5
	if got := doc.Find("section[data-section]").Length(); got != want {
		return fmt.Errorf("expected %d sections, got %d", want, got)
	}
	if !strings.Contains(page, th.PrimaryColor) {
		return fmt.Errorf("accent %s missing", th.PrimaryColor)
	}
	return nil
}
