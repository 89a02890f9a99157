package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Сборщик таблиц курортов с HTML-страниц в CSV для воркбенча импорта.
// Ожидает страницу с таблицей: первая строка с заголовками колонок.
func main() {
	pageURL := flag.String("url", "", "URL страницы с таблицей курортов")
	htmlFile := flag.String("html", "", "Локальный HTML файл (вместо URL)")
	selector := flag.String("selector", "table", "CSS селектор таблицы")
	output := flag.String("out", "resorts_scraped.csv", "Путь к выходному CSV")
	flag.Parse()

	if *pageURL == "" && *htmlFile == "" {
		fmt.Fprintln(os.Stderr, "Использование: scrape_resorts -url https://... [-selector table.resorts] [-out resorts.csv]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	doc, err := loadDocument(*pageURL, *htmlFile)
	if err != nil {
		log.Fatalf("✗ Ошибка загрузки страницы: %v", err)
	}

	headers, rows := extractTable(doc, *selector)
	if len(headers) == 0 {
		log.Fatalf("✗ Таблица не найдена по селектору %q", *selector)
	}

	if err := writeCSV(*output, headers, rows); err != nil {
		log.Fatalf("✗ Ошибка записи CSV: %v", err)
	}

	log.Printf("✓ Собрано %d строк (%d колонок) → %s", len(rows), len(headers), *output)
}

func loadDocument(pageURL, htmlFile string) (*goquery.Document, error) {
	if htmlFile != "" {
		f, err := os.Open(htmlFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", htmlFile, err)
		}
		defer f.Close()
		return goquery.NewDocumentFromReader(f)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// extractTable читает первую подходящую таблицу: заголовки из th
// (или первой строки td), данные из остальных строк
func extractTable(doc *goquery.Document, selector string) (headers []string, rows [][]string) {
	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, nil
	}

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}

		if headers == nil {
			headers = cells
			return
		}

		// Неполные строки дополняем пустыми значениями
		for len(cells) < len(headers) {
			cells = append(cells, "")
		}
		rows = append(rows, cells[:len(headers)])
	})

	return headers, rows
}

func writeCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
