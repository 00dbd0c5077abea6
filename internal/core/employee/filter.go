package employee

import "strings"

// Filter は氏名または社員 ID に query を大文字小文字を区別せず含むレコードを返します。
// query が空の場合は全件を返します。順序は入力のまま保持されます。
func Filter(records []Record, query string) []Record {
	q := strings.ToLower(query)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if q == "" ||
			strings.Contains(strings.ToLower(rec.FullName), q) ||
			strings.Contains(strings.ToLower(rec.EmployeeID), q) {
			out = append(out, rec)
		}
	}
	return out
}
