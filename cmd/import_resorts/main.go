package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/time/rate"

	"resortadmin/committer"
	"resortadmin/importer"
	"resortadmin/matcher"
	"resortadmin/normalization"
	"resortadmin/workbench"
)

// Консольный импорт курортов: разбор файла, сверка с каталогом,
// автоматическое разрешение дубликатов и пакетная запись.
func main() {
	filePath := flag.String("file", "", "Путь к файлу импорта (csv, json, xlsx)")
	matcherURL := flag.String("url", "http://localhost:9999/api/resorts/reconcile", "URL эндпоинта сверки")
	duplicates := flag.String("duplicates", "skip", "Действие для найденных дубликатов: skip, merge, import")
	push := flag.Bool("push", false, "Записать результат в каталог (без флага только сверка)")
	timeout := flag.Duration("timeout", 10*time.Minute, "Общий таймаут операции")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Использование: import_resorts -file resorts.csv [-push] [-duplicates skip|merge|import]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var duplicateAction workbench.Action
	switch *duplicates {
	case "skip":
		duplicateAction = workbench.ActionSkip
	case "merge":
		duplicateAction = workbench.ActionMerge
	case "import":
		duplicateAction = workbench.ActionImport
	default:
		log.Fatalf("✗ Неизвестное действие для дубликатов: %q", *duplicates)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("🚀 Импорт курортов из %s", *filePath)

	// Разбор файла
	parsed, err := importer.ParseFile(*filePath)
	if err != nil {
		log.Fatalf("✗ Ошибка разбора файла: %v", err)
	}
	if len(parsed.Issues) > 0 {
		log.Printf("⚠ Пропущено строк при разборе: %d", len(parsed.Issues))
		for _, issue := range parsed.Issues {
			log.Printf("  строка %d: %s", issue.Row, issue.Reason)
		}
	}

	// Нормализация и валидация
	records := make([]normalization.ResortRecord, 0, len(parsed.Records))
	for _, raw := range parsed.Records {
		records = append(records, normalization.Normalize(raw))
	}

	wb := workbench.New(*filePath, records)
	counts := wb.Counts()
	log.Printf("✓ Разобрано строк: %d (ошибок: %d, готово: %d)",
		counts.Total, counts.Errors, counts.Ready)

	if counts.Errors > 0 {
		for _, row := range wb.Rows() {
			if row.Status != workbench.StatusError {
				continue
			}
			for _, issue := range row.Errors {
				log.Printf("  ✗ строка %d, поле %s: %s", row.Index, issue.Field, issue.Message)
			}
		}
		log.Fatalf("✗ Импорт остановлен: %d строк с ошибками, исправьте файл", counts.Errors)
	}

	// Сверка с каталогом
	client := matcher.NewClient(matcher.ClientConfig{
		BaseURL:   *matcherURL,
		Timeout:   60 * time.Second,
		RateLimit: rate.Every(200 * time.Millisecond),
	})

	log.Println("Сверка с каталогом...")
	if err := client.CheckRows(ctx, wb, func(done, total int) {
		log.Printf("  сверено %d/%d строк", done, total)
	}); err != nil {
		log.Fatalf("✗ Сверка прервана: %v", err)
	}

	// Автоматическое разрешение дубликатов
	duplicateCount := 0
	for _, row := range wb.Rows() {
		if row.MatchType == workbench.MatchExact || row.MatchType == workbench.MatchSimilar {
			if _, err := wb.Apply(row.Index, workbench.SetAction{Action: duplicateAction}); err != nil {
				log.Fatalf("✗ Не удалось применить действие к строке %d: %v", row.Index, err)
			}
			duplicateCount++
		}
	}

	counts = wb.Counts()
	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("✓ Сверка завершена: всего %d, дубликатов %d (-duplicates %s)",
		counts.Total, duplicateCount, *duplicates)
	log.Printf("  готово: %d, пропущено: %d, предупреждений: %d",
		counts.Ready, counts.Skipped, counts.Warnings)

	if !*push {
		log.Println("Запись не выполнялась: добавьте флаг -push")
		return
	}

	if !wb.PushEligible() {
		log.Fatalf("✗ Импорт заблокирован: %d ошибок, %d предупреждений, %d готовых строк",
			counts.Errors, counts.Warnings, counts.Ready)
	}

	// Пакетная запись
	cmt := committer.New(client, committer.NewPlaceholderCache(client), nil)
	result, err := cmt.Push(ctx, wb, func(done, total int) {
		log.Printf("  записано %d/%d строк", done, total)
	})
	if err != nil {
		if result != nil && result.Batches > 0 {
			log.Printf("⚠ Частично записано: вставлено %d, обновлено %d, партий %d",
				result.Inserted, result.Updated, result.Batches)
		}
		log.Fatalf("✗ Импорт прерван: %v", err)
	}

	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("✓ Импорт завершен: вставлено %d, обновлено %d, заглушек %d, партий %d",
		result.Inserted, result.Updated, result.Placeholders, result.Batches)
}
