package database

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"resortadmin/normalization"
	"resortadmin/normalization/algorithms"
)

// nameNormalizer каноническая форма названий для точного сравнения.
// Без удаления стоп-слов: "Ski Arlberg" и "Arlberg" — разные курорты.
var nameNormalizer = algorithms.NewTextNormalizer(false)

// Resort строка таблицы resorts
type Resort struct {
	ID     string
	Record normalization.ResortRecord
}

// NormalizeName возвращает каноническую форму названия
func NormalizeName(name string) string {
	return nameNormalizer.Normalize(name)
}

// NormalizeCountry возвращает каноническую форму страны
func NormalizeCountry(country string) string {
	return nameNormalizer.Normalize(country)
}

// resortColumns колонки таблицы в порядке вставки и чтения
const resortColumns = `id, name, country, country_code, region, lat, lng,
	elevation_base_m, elevation_top_m, vertical_drop_m, piste_km, lifts_count,
	beginner_pct, intermediate_pct, advanced_pct,
	season_open, season_close, website, description, image_url,
	night_skiing, snowpark`

// InsertResortsBatch вставляет партию новых курортов одной транзакцией.
// Курортам без image_url по кругу назначаются переданные заглушки.
// Возвращает количество вставленных строк и назначенных заглушек.
func (db *ResortDB) InsertResortsBatch(records []normalization.ResortRecord, placeholderURLs []string) (inserted, placeholdersAssigned int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO resorts (` + resortColumns + `, name_norm, country_norm)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		imageURL := rec.ImageURL
		if imageURL == nil && len(placeholderURLs) > 0 {
			url := placeholderURLs[placeholdersAssigned%len(placeholderURLs)]
			imageURL = &url
			placeholdersAssigned++
		}

		_, err := stmt.Exec(
			uuid.New().String(),
			rec.Name,
			rec.Country,
			rec.CountryCode,
			rec.Region,
			nullableCoord(rec.Lat),
			nullableCoord(rec.Lng),
			rec.ElevationBaseM,
			rec.ElevationTopM,
			rec.VerticalDropM,
			rec.PisteKm,
			rec.LiftsCount,
			rec.BeginnerPct,
			rec.IntermediatePct,
			rec.AdvancedPct,
			rec.SeasonOpen,
			rec.SeasonClose,
			rec.Website,
			rec.Description,
			imageURL,
			rec.NightSkiing,
			rec.Snowpark,
			NormalizeName(rec.Name),
			NormalizeCountry(rec.Country),
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert resort %q: %w", rec.Name, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit insert batch: %w", err)
	}

	return inserted, placeholdersAssigned, nil
}

// updatableColumns колонки, доступные для обновления при слиянии
var updatableColumns = map[string]bool{
	"name": true, "country": true, "country_code": true, "region": true,
	"lat": true, "lng": true,
	"elevation_base_m": true, "elevation_top_m": true, "vertical_drop_m": true,
	"piste_km": true, "lifts_count": true,
	"beginner_pct": true, "intermediate_pct": true, "advanced_pct": true,
	"season_open": true, "season_close": true,
	"website": true, "description": true, "image_url": true,
	"night_skiing": true, "snowpark": true,
}

// UpdateResortFields обновляет поля существующего курорта.
// Неизвестные поля отбрасываются. Возвращает true, если строка найдена.
func (db *ResortDB) UpdateResortFields(resortID string, fields map[string]interface{}) (bool, error) {
	setClauses := make([]string, 0, len(fields)+3)
	args := make([]interface{}, 0, len(fields)+4)

	for column, value := range fields {
		if !updatableColumns[column] {
			continue
		}
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)

		switch column {
		case "name":
			setClauses = append(setClauses, "name_norm = ?")
			args = append(args, NormalizeName(fmt.Sprintf("%v", value)))
		case "country":
			setClauses = append(setClauses, "country_norm = ?")
			args = append(args, NormalizeCountry(fmt.Sprintf("%v", value)))
		}
	}

	if len(setClauses) == 0 {
		return false, fmt.Errorf("no updatable fields provided")
	}

	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, resortID)

	query := fmt.Sprintf(`UPDATE resorts SET %s WHERE id = ?`, strings.Join(setClauses, ", "))
	res, err := db.conn.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update resort %s: %w", resortID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// FindExact ищет курорт с тем же нормализованным названием и страной
func (db *ResortDB) FindExact(name, country string) (*Resort, error) {
	query := `SELECT ` + resortColumns + ` FROM resorts WHERE name_norm = ? AND country_norm = ? LIMIT 1`
	row := db.conn.QueryRow(query, NormalizeName(name), NormalizeCountry(country))

	resort, err := scanResort(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query exact match: %w", err)
	}
	return resort, nil
}

// CandidatesByCountry возвращает курорты страны для нечеткой сверки
func (db *ResortDB) CandidatesByCountry(country string) ([]Resort, error) {
	query := `SELECT ` + resortColumns + ` FROM resorts WHERE country_norm = ?`
	rows, err := db.conn.Query(query, NormalizeCountry(country))
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var resorts []Resort
	for rows.Next() {
		resort, err := scanResort(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resort: %w", err)
		}
		resorts = append(resorts, *resort)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resorts: %w", err)
	}

	return resorts, nil
}

// CountResorts возвращает общее количество курортов
func (db *ResortDB) CountResorts() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM resorts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count resorts: %w", err)
	}
	return count, nil
}

// ListPlaceholderURLs возвращает все URL изображений-заглушек
func (db *ResortDB) ListPlaceholderURLs() ([]string, error) {
	rows, err := db.conn.Query(`SELECT url FROM placeholder_images ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query placeholders: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan placeholder: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// scanner общий интерфейс sql.Row и sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanResort читает одну строку таблицы resorts
func scanResort(s scanner) (*Resort, error) {
	var r Resort
	var lat, lng sql.NullFloat64

	err := s.Scan(
		&r.ID,
		&r.Record.Name,
		&r.Record.Country,
		&r.Record.CountryCode,
		&r.Record.Region,
		&lat,
		&lng,
		&r.Record.ElevationBaseM,
		&r.Record.ElevationTopM,
		&r.Record.VerticalDropM,
		&r.Record.PisteKm,
		&r.Record.LiftsCount,
		&r.Record.BeginnerPct,
		&r.Record.IntermediatePct,
		&r.Record.AdvancedPct,
		&r.Record.SeasonOpen,
		&r.Record.SeasonClose,
		&r.Record.Website,
		&r.Record.Description,
		&r.Record.ImageURL,
		&r.Record.NightSkiing,
		&r.Record.Snowpark,
	)
	if err != nil {
		return nil, err
	}

	r.Record.Lat = coordOrNaN(lat)
	r.Record.Lng = coordOrNaN(lng)
	return &r, nil
}

// nullableCoord NaN-координата хранится как NULL
func nullableCoord(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func coordOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
