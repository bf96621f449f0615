// Package seed bulk-loads clients from a CSV export.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/balagrajendran/purchase-management-sub001/domain"
	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
	"github.com/balagrajendran/purchase-management-sub001/internal/store"
	"github.com/balagrajendran/purchase-management-sub001/internal/validation"
)

const ClientsCollection = "clients"

// LoadClients ingests a clients CSV into the store and returns the number of
// documents created. Columns are matched by header name; rows without a
// company name or failing client validation are skipped.
func LoadClients(ctx context.Context, st store.Store, csvPath string, now func() time.Time) (int, error) {
	log := logger.WithComponent("seed")
	validate := validation.New()
	if now == nil {
		now = time.Now
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open client catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read client header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["companyname"]; !ok {
		return 0, errors.New("client catalog has no companyName column")
	}

	rows := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("unable to read client row")
			continue
		}

		field := func(name string) string {
			i, ok := columns[strings.ToLower(name)]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		client := domain.Client{
			CompanyName:   field("companyName"),
			ContactPerson: field("contactPerson"),
			Email:         field("email"),
			Phone:         field("phone"),
			GSTNumber:     field("gstNumber"),
			PANNumber:     field("panNumber"),
			Status:        field("status"),
			Notes:         field("notes"),
			BillingAddress: domain.Address{
				Line1:      field("address"),
				City:       field("city"),
				State:      field("state"),
				PostalCode: field("postalCode"),
				Country:    field("country"),
			},
		}
		client.Normalize()
		if client.CompanyName == "" {
			continue
		}
		if client.Status != domain.ClientActive && client.Status != domain.ClientInactive {
			log.Warn().Int("line", line).Str("status", client.Status).Msg("unknown client status, using active")
			client.Status = domain.ClientActive
		}
		client.ShippingAddress = client.BillingAddress
		if err := validate.Struct(&client); err != nil {
			log.Warn().Err(err).Int("line", line).Str("company", client.CompanyName).Msg("skipping invalid client row")
			continue
		}

		ts := now().UTC().Format(store.TimeLayout)
		client.CreatedAt = ts
		client.UpdatedAt = ts

		doc, err := store.Encode(&client)
		if err != nil {
			return rows, err
		}
		if _, err := st.Create(ctx, ClientsCollection, doc); err != nil {
			return rows, fmt.Errorf("insert client %s: %w", client.CompanyName, err)
		}
		rows++
	}

	log.Info().Int("rows", rows).Str("path", csvPath).Msg("seeded clients")
	return rows, nil
}
