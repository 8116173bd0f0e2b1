package parser

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
)

type excelParser struct {
	log zerolog.Logger
}

// NewExcelParser creates a catalog parser for .xlsx uploads.
func NewExcelParser(log zerolog.Logger) repository.CatalogParser {
	return &excelParser{log: log}
}

// ParseVehicles reads vehicles from a file on disk.
func (e *excelParser) ParseVehicles(ctx context.Context, filePath string) ([]entity.Vehicle, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return e.parseWorkbook(f)
}

// ParseVehiclesFromBytes reads vehicles from an uploaded file body.
func (e *excelParser) ParseVehiclesFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Vehicle, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	return e.parseWorkbook(f)
}

func (e *excelParser) parseWorkbook(f *excelize.File) ([]entity.Vehicle, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	e.log.Debug().Int("rows", len(rows)).Strs("first_row", rows[0]).Msg("parsing catalog sheet")

	// A header row is assumed unless the price-ish column of the first row
	// already parses as a number.
	hasHeader := true
	startRow := 1
	if len(rows[0]) > 2 {
		if _, err := parsePrice(rows[0][2]); err == nil {
			hasHeader = false
			startRow = 0
		}
	}

	var columnMap map[string]int
	if hasHeader {
		columnMap = mapColumns(rows[0])
	} else {
		// No header: make | model | price is the minimal layout.
		columnMap = map[string]int{"make": 0, "model": 1, "price": 2}
	}

	makeCol := colOr(columnMap, "make", 0)
	modelCol := colOr(columnMap, "model", 1)
	priceCol, ok := columnMap["price"]
	if !ok {
		priceCol = detectPriceColumn(rows, startRow)
		if priceCol < 0 {
			return nil, fmt.Errorf("could not locate a price column")
		}
		e.log.Debug().Int("column", priceCol).Msg("guessed price column")
	}

	var vehicles []entity.Vehicle
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		if len(row) <= makeCol || len(row) <= modelCol || len(row) <= priceCol {
			continue
		}

		makeStr := strings.TrimSpace(row[makeCol])
		modelStr := strings.TrimSpace(row[modelCol])
		if makeStr == "" || modelStr == "" {
			continue
		}

		price, err := parsePrice(row[priceCol])
		if err != nil || price == 0 {
			e.log.Debug().Int("row", i).Str("raw", row[priceCol]).Msg("skipping row with invalid price")
			continue
		}

		v := entity.Vehicle{
			ID:    uuid.New().String(),
			Make:  makeStr,
			Model: modelStr,
			Price: price,
		}

		if idx, ok := columnMap["year"]; ok && idx < len(row) {
			if year, err := strconv.Atoi(strings.TrimSpace(row[idx])); err == nil {
				v.Year = year
			}
		}
		if idx, ok := columnMap["body_style"]; ok && idx < len(row) {
			v.BodyStyle = strings.ToLower(strings.TrimSpace(row[idx]))
		}
		if v.BodyStyle == "" {
			v.BodyStyle = inferBodyStyle(modelStr)
		}
		if idx, ok := columnMap["drivetrain"]; ok && idx < len(row) {
			v.Drivetrain = strings.ToLower(strings.TrimSpace(row[idx]))
		}
		if idx, ok := columnMap["seating_capacity"]; ok && idx < len(row) {
			if seats, err := strconv.Atoi(strings.TrimSpace(row[idx])); err == nil {
				v.SeatingCapacity = seats
			}
		}
		if idx, ok := columnMap["category"]; ok && idx < len(row) {
			v.Category = strings.ToLower(strings.TrimSpace(row[idx]))
		}
		if idx, ok := columnMap["fuel_consumption"]; ok && idx < len(row) {
			v.FuelConsumption = strings.TrimSpace(row[idx])
		}
		if idx, ok := columnMap["description"]; ok && idx < len(row) {
			v.Description = strings.TrimSpace(row[idx])
		}

		vehicles = append(vehicles, v)
	}

	if len(vehicles) == 0 {
		return nil, fmt.Errorf("no valid vehicles found in excel file (%d rows scanned)", len(rows)-startRow)
	}

	e.log.Info().Int("vehicles", len(vehicles)).Msg("catalog parsed")
	return vehicles, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func colOr(columnMap map[string]int, key string, fallback int) int {
	if idx, ok := columnMap[key]; ok {
		return idx
	}
	return fallback
}

// mapColumns matches header cells against known field synonyms.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		switch {
		case containsAny(name, "make", "brand", "manufacturer"):
			columnMap["make"] = i
		case containsAny(name, "model", "name", "title"):
			columnMap["model"] = i
		case containsAny(name, "price", "cost", "$", "usd", "birr", "etb"):
			columnMap["price"] = i
		case containsAny(name, "year"):
			columnMap["year"] = i
		case containsAny(name, "body", "style", "type"):
			columnMap["body_style"] = i
		case containsAny(name, "drivetrain", "drive", "awd", "4wd"):
			columnMap["drivetrain"] = i
		case containsAny(name, "seat", "capacity"):
			columnMap["seating_capacity"] = i
		case containsAny(name, "category", "class", "segment"):
			columnMap["category"] = i
		case containsAny(name, "fuel", "consumption", "mpg"):
			columnMap["fuel_consumption"] = i
		case containsAny(name, "description", "details", "info", "notes"):
			columnMap["description"] = i
		}
	}
	return columnMap
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// detectPriceColumn guesses the price column by counting which column parses
// as a number most often over the first rows.
func detectPriceColumn(rows [][]string, startRow int) int {
	maxCols := 0
	limit := startRow + 15
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := startRow; i < limit; i++ {
		if len(rows[i]) > maxCols {
			maxCols = len(rows[i])
		}
	}

	bestCol, bestCount := -1, 0
	for col := 0; col < maxCols; col++ {
		count := 0
		for i := startRow; i < limit; i++ {
			if col >= len(rows[i]) {
				continue
			}
			if val := strings.TrimSpace(rows[i][col]); val != "" {
				if _, err := parsePrice(val); err == nil {
					count++
				}
			}
		}
		if count > bestCount {
			bestCol, bestCount = col, count
		}
	}

	if bestCount >= 2 {
		return bestCol
	}
	return -1
}

// parsePrice accepts "12,500", "$12500", "12500 birr" and the like.
func parsePrice(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	for _, junk := range []string{",", " ", "$", "€", "£", "birr", "etb", "usd", "eur"} {
		s = strings.ReplaceAll(s, junk, "")
	}

	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format: %s", raw)
	}
	return price, nil
}

// inferBodyStyle guesses a body style from the model name when the sheet has
// no body column.
func inferBodyStyle(model string) string {
	m := strings.ToLower(model)
	switch {
	case containsAny(m, "land cruiser", "prado", "rav4", "cx-5", "cr-v", "x-trail", "patrol", "pajero", "tucson", "santa fe", "sportage"):
		return "suv"
	case containsAny(m, "hilux", "ranger", "l200", "navara", "pickup"):
		return "pickup"
	case containsAny(m, "vitz", "yaris", "fit", "march", "picanto", "i10", "i20", "swift", "polo", "golf"):
		return "hatchback"
	case containsAny(m, "hiace", "caravan", "van"):
		return "van"
	default:
		return "sedan"
	}
}
