package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_load_file.sql
var RegisterLoadFile string

//go:embed queries/lookup_load_file.sql
var LookupLoadFile string

//go:embed queries/update_load_status.sql
var UpdateLoadStatus string

//go:embed queries/delete_superseded_claims.sql
var DeleteSupersededClaims string

//go:embed queries/delete_superseded_member_months.sql
var DeleteSupersededMemberMonths string

//go:embed queries/analyze_tables.sql
var AnalyzeTables string
