package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"github.com/brianvoe/gofakeit/v6"
)

// Генератор тестовых CSV файлов для воркбенча импорта.
// Создает смесь валидных строк, строк с ошибками и почти-дубликатов.
func main() {
	count := flag.Int("count", 100, "Количество строк")
	output := flag.String("out", "test_resorts.csv", "Путь к выходному CSV")
	errorRate := flag.Float64("error-rate", 0.1, "Доля строк с ошибками валидации")
	dupRate := flag.Float64("dup-rate", 0.1, "Доля почти-дубликатов соседних строк")
	seed := flag.Int64("seed", 0, "Seed генератора (0 = случайный)")
	flag.Parse()

	if *seed != 0 {
		gofakeit.Seed(*seed)
		rand.Seed(*seed)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("✗ Не удалось создать файл: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"name", "country", "country_code", "lat", "lng", "region",
		"elevation_base_m", "elevation_top_m", "piste_km", "lifts_count",
		"beginner_pct", "intermediate_pct", "advanced_pct",
		"season_open", "season_close", "night_skiing", "website",
	}
	if err := w.Write(header); err != nil {
		log.Fatalf("✗ Ошибка записи заголовка: %v", err)
	}

	var prev []string
	errorRows, dupRows := 0, 0
	for i := 0; i < *count; i++ {
		var row []string

		switch {
		case prev != nil && rand.Float64() < *dupRate:
			// Почти-дубликат предыдущей строки: то же название с суффиксом
			row = append([]string{}, prev...)
			row[0] = row[0] + " Resort"
			dupRows++
		case rand.Float64() < *errorRate:
			row = brokenRow()
			errorRows++
		default:
			row = validRow()
		}

		if err := w.Write(row); err != nil {
			log.Fatalf("✗ Ошибка записи строки: %v", err)
		}
		prev = row
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("✗ Ошибка записи CSV: %v", err)
	}

	log.Printf("✓ Сгенерировано %d строк → %s (с ошибками: %d, дубликатов: %d)",
		*count, *output, errorRows, dupRows)
}

// validRow генерирует корректную строку курорта
func validRow() []string {
	base := 800 + rand.Intn(1500)
	top := base + 300 + rand.Intn(2000)

	// Распределение сложности в сумме дает 100
	beginner := 20 + rand.Intn(40)
	intermediate := 10 + rand.Intn(90-beginner)
	advanced := 100 - beginner - intermediate

	return []string{
		gofakeit.City() + " " + skiSuffixes[rand.Intn(len(skiSuffixes))],
		gofakeit.Country(),
		gofakeit.CountryAbr(),
		fmt.Sprintf("%.4f", gofakeit.Latitude()),
		fmt.Sprintf("%.4f", gofakeit.Longitude()),
		gofakeit.State(),
		strconv.Itoa(base),
		strconv.Itoa(top),
		strconv.Itoa(10 + rand.Intn(300)),
		strconv.Itoa(3 + rand.Intn(60)),
		strconv.Itoa(beginner),
		strconv.Itoa(intermediate),
		strconv.Itoa(advanced),
		seasonMonths[rand.Intn(3)],
		seasonMonths[3+rand.Intn(3)],
		strconv.FormatBool(gofakeit.Bool()),
		gofakeit.URL(),
	}
}

// brokenRow генерирует строку с типичной ошибкой валидации
func brokenRow() []string {
	row := validRow()
	switch rand.Intn(4) {
	case 0:
		row[0] = "" // пустое название
	case 1:
		row[2] = "XYZ" // код страны не из двух букв
	case 2:
		row[3] = "999" // широта вне диапазона
	case 3:
		row[4] = "not-a-number"
	}
	return row
}

var skiSuffixes = []string{"Peak", "Valley", "Heights", "Glacier", "Ridge", "Alpine"}

var seasonMonths = []string{"November", "December", "January", "March", "April", "May"}
