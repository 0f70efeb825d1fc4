package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/outlierstats/internal/model"
)

// RequiredColumns lists the columns a file of each kind must carry.
// Every other mapped column may be absent and reads as null.
var RequiredColumns = map[model.FileKind][]string{
	model.KindClaims:       {"encounter_id", "year", "paid_amount"},
	model.KindMemberMonths: {"member_id", "year", "year_month"},
}

// ValidateSchema checks that the Parquet schema contains the required columns for kind.
func ValidateSchema(schema *parquet.Schema, kind model.FileKind) error {
	required, ok := RequiredColumns[kind]
	if !ok {
		return fmt.Errorf("unknown file kind %q", kind)
	}

	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range required {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}
