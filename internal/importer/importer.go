// Package importer parses the CSV interchange formats. Parsing is
// pure: rows come out as values, customer resolution and storage
// happen in the service layer.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"
	"dairy-backend/pkg/utils"
)

var ErrUnknownHeader = errors.New("unrecognized CSV header")

// CustomerRow is one parsed line of a customer CSV.
type CustomerRow struct {
	Name               string
	Address            string
	Phone              string // already normalized to last 10 digits
	Email              string
	MilkPrice          float64
	DefaultQuantity    float64
	Status             models.CustomerStatus
	OpeningBalance     *float64
	OpeningBalanceAsOf *dateutil.Date
	LocationLat        *float64
	LocationLng        *float64
}

// DeliveryRow is one parsed line of a delivery CSV. Exactly one of
// CustomerName or CustomerPhone is set, depending on the file variant.
type DeliveryRow struct {
	CustomerName  string
	CustomerPhone string
	Date          dateutil.Date
	Quantity      float64
}

func normalizeHeader(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return out
}

func headerMatches(header, want []string) bool {
	if len(header) < len(want) {
		return false
	}
	for i, w := range want {
		if header[i] != strings.ToLower(w) {
			return false
		}
	}
	return true
}

var customerHeader = []string{"name", "address", "phone", "email", "milkprice", "defaultquantity", "status", "previousbalance", "balanceasofdate"}

// ParseCustomers reads a customer CSV. Rows with unusable required
// fields are skipped and reported, never fatal.
func ParseCustomers(r io.Reader) ([]CustomerRow, []models.SkippedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if !headerMatches(normalizeHeader(header), customerHeader) {
		return nil, nil, ErrUnknownHeader
	}
	hasLocation := len(header) >= 11

	var rows []CustomerRow
	var skipped []models.SkippedRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: err.Error()})
			continue
		}
		if len(record) < len(customerHeader) {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: "too few fields"})
			continue
		}

		row := CustomerRow{
			Name:    strings.TrimSpace(record[0]),
			Address: strings.TrimSpace(record[1]),
			Phone:   utils.NormalizePhone(record[2]),
			Email:   strings.TrimSpace(record[3]),
		}
		if row.Name == "" {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: "missing name"})
			continue
		}
		if row.Phone == "" {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: "missing phone"})
			continue
		}

		row.MilkPrice, err = strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if err != nil || row.MilkPrice <= 0 {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: "invalid milk price"})
			continue
		}
		if q := strings.TrimSpace(record[5]); q != "" {
			row.DefaultQuantity, err = strconv.ParseFloat(q, 64)
			if err != nil {
				skipped = append(skipped, models.SkippedRow{Line: line, Reason: "invalid default quantity"})
				continue
			}
		}

		// Invalid or absent status defaults to active, not an error
		row.Status = models.CustomerStatusActive
		if strings.TrimSpace(strings.ToLower(record[6])) == string(models.CustomerStatusInactive) {
			row.Status = models.CustomerStatusInactive
		}

		// previousBalance and balanceAsOfDate travel together
		balRaw := strings.TrimSpace(record[7])
		asOfRaw := strings.TrimSpace(record[8])
		if balRaw != "" || asOfRaw != "" {
			if balRaw == "" || asOfRaw == "" {
				skipped = append(skipped, models.SkippedRow{Line: line, Reason: "previousBalance and balanceAsOfDate must both be set"})
				continue
			}
			balance, err := strconv.ParseFloat(balRaw, 64)
			if err != nil {
				skipped = append(skipped, models.SkippedRow{Line: line, Reason: "invalid previous balance"})
				continue
			}
			asOf, err := dateutil.ParseDate(asOfRaw)
			if err != nil {
				skipped = append(skipped, models.SkippedRow{Line: line, Reason: "invalid balance as-of date"})
				continue
			}
			row.OpeningBalance = &balance
			row.OpeningBalanceAsOf = &asOf
		}

		if hasLocation && len(record) >= 11 {
			if lat, err := strconv.ParseFloat(strings.TrimSpace(record[9]), 64); err == nil {
				if lng, err := strconv.ParseFloat(strings.TrimSpace(record[10]), 64); err == nil {
					row.LocationLat = &lat
					row.LocationLng = &lng
				}
			}
		}

		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// ParseDeliveries reads a delivery CSV, detecting the variant from the
// header: "customerName,date,quantity" matches by name,
// "date,customerPhone,quantity" matches by phone. Quoted fields with
// embedded commas are handled by the CSV reader in both variants.
func ParseDeliveries(r io.Reader) ([]DeliveryRow, []models.SkippedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	h := normalizeHeader(header)
	byName := headerMatches(h, []string{"customername", "date", "quantity"})
	byPhone := headerMatches(h, []string{"date", "customerphone", "quantity"})
	if !byName && !byPhone {
		return nil, nil, ErrUnknownHeader
	}

	var rows []DeliveryRow
	var skipped []models.SkippedRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: err.Error()})
			continue
		}
		if len(record) < 3 {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: "too few fields"})
			continue
		}

		var row DeliveryRow
		var dateRaw, quantityRaw string
		if byName {
			row.CustomerName = strings.TrimSpace(record[0])
			dateRaw, quantityRaw = record[1], record[2]
			if row.CustomerName == "" {
				skipped = append(skipped, models.SkippedRow{Line: line, Reason: "missing customer name"})
				continue
			}
		} else {
			row.CustomerPhone = utils.NormalizePhone(record[1])
			dateRaw, quantityRaw = record[0], record[2]
			if row.CustomerPhone == "" {
				skipped = append(skipped, models.SkippedRow{Line: line, Reason: "missing customer phone"})
				continue
			}
		}

		row.Date, err = dateutil.ParseDate(strings.TrimSpace(dateRaw))
		if err != nil {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: "invalid date"})
			continue
		}
		row.Quantity, err = strconv.ParseFloat(strings.TrimSpace(quantityRaw), 64)
		if err != nil || row.Quantity < 0 {
			skipped = append(skipped, models.SkippedRow{Line: line, Reason: "invalid quantity"})
			continue
		}

		rows = append(rows, row)
	}

	return rows, skipped, nil
}
