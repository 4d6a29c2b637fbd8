package importer

import (
	"strings"
	"testing"

	"dairy-backend/internal/dateutil"
	"dairy-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomers(t *testing.T) {
	csv := strings.Join([]string{
		"name,address,phone,email,milkPrice,defaultQuantity,status,previousBalance,balanceAsOfDate",
		"Ramesh Kumar,12 Main Road,+91 98765 43210,ramesh@example.com,50,1.5,active,500,2024-06-01",
		"Sita Devi,,09812345678,,45,1,inactive,,",
		"No Price,addr,9000000001,,abc,1,active,,",
		"Half Pair,addr,9000000002,,50,1,active,250,",
	}, "\n")

	rows, skipped, err := ParseCustomers(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ramesh Kumar", rows[0].Name)
	assert.Equal(t, "9876543210", rows[0].Phone)
	assert.Equal(t, 50.0, rows[0].MilkPrice)
	require.NotNil(t, rows[0].OpeningBalance)
	assert.Equal(t, 500.0, *rows[0].OpeningBalance)
	require.NotNil(t, rows[0].OpeningBalanceAsOf)
	assert.Equal(t, dateutil.Date{Year: 2024, Month: 6, Day: 1}, *rows[0].OpeningBalanceAsOf)

	assert.Equal(t, "9812345678", rows[1].Phone)
	assert.Equal(t, models.CustomerStatusInactive, rows[1].Status)
	assert.Nil(t, rows[1].OpeningBalance)

	require.Len(t, skipped, 2)
	assert.Equal(t, 4, skipped[0].Line)
	assert.Equal(t, "invalid milk price", skipped[0].Reason)
	assert.Equal(t, 5, skipped[1].Line)
}

func TestParseCustomersInvalidStatusDefaultsActive(t *testing.T) {
	csv := "name,address,phone,email,milkPrice,defaultQuantity,status,previousBalance,balanceAsOfDate\n" +
		"X,addr,9000000003,,50,1,whatever,,"

	rows, skipped, err := ParseCustomers(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, skipped)
	assert.Equal(t, models.CustomerStatusActive, rows[0].Status)
}

func TestParseCustomersWithLocation(t *testing.T) {
	csv := "name,address,phone,email,milkPrice,defaultQuantity,status,previousBalance,balanceAsOfDate,locationLat,locationLng\n" +
		"X,addr,9000000004,,50,1,active,,,26.85,80.95"

	rows, _, err := ParseCustomers(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].LocationLat)
	assert.Equal(t, 26.85, *rows[0].LocationLat)
	require.NotNil(t, rows[0].LocationLng)
	assert.Equal(t, 80.95, *rows[0].LocationLng)
}

func TestParseCustomersBadHeader(t *testing.T) {
	_, _, err := ParseCustomers(strings.NewReader("foo,bar\na,b"))
	assert.ErrorIs(t, err, ErrUnknownHeader)
}

func TestParseDeliveriesByName(t *testing.T) {
	csv := strings.Join([]string{
		"customerName,date,quantity",
		"Ramesh Kumar,2024-07-01,1.5",
		"Sita Devi,2024-07-01,0",
		"Bad Date,07/01/2024,1",
		"Neg Qty,2024-07-02,-1",
	}, "\n")

	rows, skipped, err := ParseDeliveries(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ramesh Kumar", rows[0].CustomerName)
	assert.Empty(t, rows[0].CustomerPhone)
	assert.Equal(t, dateutil.Date{Year: 2024, Month: 7, Day: 1}, rows[0].Date)
	assert.Equal(t, 1.5, rows[0].Quantity)

	// Zero quantity rows parse fine; deletion happens at merge time
	assert.Equal(t, 0.0, rows[1].Quantity)

	require.Len(t, skipped, 2)
	assert.Equal(t, "invalid date", skipped[0].Reason)
	assert.Equal(t, "invalid quantity", skipped[1].Reason)
}

func TestParseDeliveriesByPhoneQuotedFields(t *testing.T) {
	csv := strings.Join([]string{
		`date,customerPhone,quantity`,
		`2024-07-01,"+91 98765 43210",2`,
		`"2024-07-02","9812345678","1.25"`,
	}, "\n")

	rows, skipped, err := ParseDeliveries(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, rows, 2)

	assert.Equal(t, "9876543210", rows[0].CustomerPhone)
	assert.Empty(t, rows[0].CustomerName)
	assert.Equal(t, 2.0, rows[0].Quantity)
	assert.Equal(t, "9812345678", rows[1].CustomerPhone)
	assert.Equal(t, 1.25, rows[1].Quantity)
}

func TestParseDeliveriesBadHeader(t *testing.T) {
	_, _, err := ParseDeliveries(strings.NewReader("a,b,c\n1,2,3"))
	assert.ErrorIs(t, err, ErrUnknownHeader)
}
