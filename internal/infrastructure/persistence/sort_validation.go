package persistence

import "strings"

// sortColumns whitelists the columns a list may be ordered by. Anything
// else, including SQL fragments, falls back to created_at.
type sortColumns map[string]struct{}

const defaultSortColumn = "created_at"

// newSortColumns always allows id, created_at and updated_at
func newSortColumns(columns ...string) sortColumns {
	s := sortColumns{"id": {}, "created_at": {}, "updated_at": {}}
	for _, c := range columns {
		s[c] = struct{}{}
	}
	return s
}

func (s sortColumns) resolve(field string) string {
	field = strings.TrimSpace(field)
	if _, ok := s[field]; ok {
		return field
	}
	return defaultSortColumn
}

// sortDirection accepts asc in any case; everything else sorts descending
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	partnerSort      = newSortColumns("name", "email")
	orderSort        = newSortColumns("order_number", "status", "price")
	invoiceSort      = newSortColumns("invoice_number", "amount", "issue_date")
	paymentOrderSort = newSortColumns("payment_order_number", "amount", "payment_date")
	deliveryNoteSort = newSortColumns("delivery_note_number", "status", "date")
	userSort         = newSortColumns("email", "name", "role")
)
