package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/repositories"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService renders statements as PDF and the record collections
// as CSV. Export headers match the import formats so a round trip
// through export and import is lossless.
type ReportService struct {
	CustomerRepo *repositories.CustomerRepository
	DeliveryRepo *repositories.DeliveryRepository
	PaymentRepo  *repositories.PaymentRepository
	Billing      *BillingService
}

func NewReportService(customerRepo *repositories.CustomerRepository, deliveryRepo *repositories.DeliveryRepository, paymentRepo *repositories.PaymentRepository, billing *BillingService) *ReportService {
	return &ReportService{
		CustomerRepo: customerRepo,
		DeliveryRepo: deliveryRepo,
		PaymentRepo:  paymentRepo,
		Billing:      billing,
	}
}

// StatementPDF renders one customer's monthly statement.
func (s *ReportService) StatementPDF(ctx context.Context, customerID int, periodToken string) ([]byte, error) {
	statement, err := s.Billing.CustomerStatement(ctx, customerID, periodToken, true)
	if err != nil {
		return nil, err
	}
	customer := statement.Customer

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Dairy - Monthly Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Billing month: %s    Generated: %s",
		statement.Statement.Period.Token(), dateutil.Now().Format("02-Jan-2006")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Customer Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customer.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Address: %s", customer.Address), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Rate: %.2f/liter", customer.MilkPrice), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Deliveries table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Deliveries", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Quantity (L)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, d := range statement.Deliveries {
		pdf.CellFormat(60, 6, d.Date.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(65, 6, fmt.Sprintf("%.2f", d.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(65, 6, fmt.Sprintf("%.2f", d.Quantity*customer.MilkPrice), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Payments table
	if len(statement.Payments) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Payments", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(65, 7, "Amount", "1", 0, "C", true, 0, "")
		pdf.CellFormat(65, 7, "Note", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range statement.Payments {
			note := p.Note
			if len(note) > 30 {
				note = note[:27] + "..."
			}
			pdf.CellFormat(60, 6, p.Date.String(), "1", 0, "C", false, 0, "")
			pdf.CellFormat(65, 6, fmt.Sprintf("%.2f", p.Amount), "1", 0, "C", false, 0, "")
			pdf.CellFormat(65, 6, note, "1", 1, "L", false, 0, "")
		}
		pdf.Ln(5)
	}

	// Financial Summary
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	st := statement.Statement
	pdf.CellFormat(95, 7, "Carried balance", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("%.2f", st.CarriedBalance), "RB", 1, "R", false, 0, "")
	pdf.CellFormat(95, 7, "This month's milk", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("%.2f", st.PeriodCharge), "RB", 1, "R", false, 0, "")
	pdf.CellFormat(95, 7, "Paid this month", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("%.2f", st.PeriodPaid), "RB", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 8, "Outstanding", "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, fmt.Sprintf("%.2f", st.Outstanding), "RB", 1, "R", false, 0, "")
	if statement.Settled {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(190, 7, "Fully settled. Thank you!", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportCustomersCSV writes every customer in the import header format.
func (s *ReportService) ExportCustomersCSV(ctx context.Context) ([]byte, error) {
	customers, err := s.CustomerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"name", "address", "phone", "email", "milkPrice", "defaultQuantity",
		"status", "previousBalance", "balanceAsOfDate", "locationLat", "locationLng"})

	for _, c := range customers {
		balance, asOf := "", ""
		if c.OpeningBalance != nil && c.OpeningBalanceAsOf != nil {
			balance = strconv.FormatFloat(*c.OpeningBalance, 'f', 2, 64)
			asOf = c.OpeningBalanceAsOf.String()
		}
		lat, lng := "", ""
		if c.LocationLat != nil && c.LocationLng != nil {
			lat = strconv.FormatFloat(*c.LocationLat, 'f', -1, 64)
			lng = strconv.FormatFloat(*c.LocationLng, 'f', -1, 64)
		}
		w.Write([]string{
			c.Name, c.Address, c.Phone, c.Email,
			strconv.FormatFloat(c.MilkPrice, 'f', 2, 64),
			strconv.FormatFloat(c.DefaultQuantity, 'f', -1, 64),
			string(c.Status), balance, asOf, lat, lng,
		})
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportDeliveriesCSV writes all deliveries in the phone-keyed import
// variant so the file re-imports cleanly.
func (s *ReportService) ExportDeliveriesCSV(ctx context.Context) ([]byte, error) {
	deliveries, err := s.DeliveryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	phones, err := s.customerPhones(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"date", "customerPhone", "quantity"})
	for _, d := range deliveries {
		w.Write([]string{
			d.Date.String(),
			phones[d.CustomerID],
			strconv.FormatFloat(d.Quantity, 'f', -1, 64),
		})
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportPaymentsCSV writes all payments.
func (s *ReportService) ExportPaymentsCSV(ctx context.Context) ([]byte, error) {
	payments, err := s.PaymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	phones, err := s.customerPhones(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"date", "customerPhone", "amount", "source", "note"})
	for _, p := range payments {
		w.Write([]string{
			p.Date.String(),
			phones[p.CustomerID],
			strconv.FormatFloat(p.Amount, 'f', 2, 64),
			string(p.Source),
			p.Note,
		})
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s *ReportService) customerPhones(ctx context.Context) (map[int]string, error) {
	customers, err := s.CustomerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	phones := make(map[int]string, len(customers))
	for _, c := range customers {
		phones[c.ID] = c.Phone
	}
	return phones, nil
}
