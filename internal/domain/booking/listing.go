package booking

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// sortColumns protege o ORDER BY: só colunas conhecidas chegam ao SQL.
var sortColumns = map[string]string{
	"createdAt":       "created_at",
	"appointmentDate": "appointment_date",
	"status":          "status",
	"totalAmount":     "total_amount",
}

type ListFilter struct {
	Page  int
	Limit int

	CustomerID string
	StylistID  string
	ServiceID  string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time

	SortBy   string
	SortDesc bool
}

// Normalize aplica defaults e valida os campos.
func (f *ListFilter) Normalize() error {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}
	if _, ok := sortColumns[f.SortBy]; !ok {
		return httperr.NewBadRequest("invalid_sort", "sortBy must be one of createdAt, appointmentDate, status, totalAmount")
	}
	if f.Status != "" {
		if _, err := ParseStatus(f.Status); err != nil {
			return err
		}
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return httperr.NewBadRequest("invalid_date_range", "dateTo must not be before dateFrom")
	}
	return nil
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// OrderClause devolve o ORDER BY já validado; id desempata.
func (f ListFilter) OrderClause() string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	return col + " " + dir + ", id " + dir
}

// ParseSortOrder aceita "asc"/"desc" (qualquer caixa).
func ParseSortOrder(s string) (desc bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	}
	return false, httperr.NewBadRequest("invalid_order", "order must be asc or desc")
}
