// mkfixture writes a synthetic, reproducible claims + member-months fixture
// pair for local runs of the outliers CLI.
// Usage: go run ./cmd/mkfixture --out testdata --members 200 --years 2019,2020,2021 --format both
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/outlierstats/internal/dataset"
	"github.com/gyeh/outlierstats/internal/metrics"
	"github.com/gyeh/outlierstats/internal/model"
)

var (
	races  = []string{"White", "Black", "Asian", "Hispanic", "Other"}
	states = []string{"CA", "NY", "TX", "FL", "WA", "IL"}
	groups = map[string][]string{
		"inpatient":  {"acute inpatient", "inpatient rehabilitation", "skilled nursing"},
		"outpatient": {"emergency department", "outpatient surgery", "office visit", "lab"},
		"other":      {"ambulance", "dme"},
	}
	diagnoses = map[string][]string{
		"CIR": {"Heart failure", "Acute myocardial infarction", "Cardiac dysrhythmias"},
		"RSP": {"Pneumonia", "COPD and bronchiectasis", "Asthma"},
		"END": {"Diabetes mellitus with complication", "Obesity"},
		"MUS": {"Osteoarthritis", "Spondylopathies"},
		"NEO": {"Breast cancer", "Lung cancer"},
	}
)

func main() {
	outDir := flag.String("out", "testdata", "output directory")
	members := flag.Int("members", 200, "distinct members")
	yearList := flag.String("years", "2019,2020,2021", "comma-separated years")
	format := flag.String("format", "both", "csv, parquet, or both")
	seed := flag.Uint64("seed", 1, "random seed")
	checkOnly := flag.Bool("check", false, "only print stats of existing fixtures, don't write")
	flag.Parse()

	if *checkOnly {
		if err := check(*outDir); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			os.Exit(1)
		}
		return
	}

	years, err := parseYears(*yearList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ds := generate(rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), *members, years)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}
	if *format == "csv" || *format == "both" {
		if err := writeCSV(*outDir, ds); err != nil {
			fmt.Fprintf(os.Stderr, "write csv: %v\n", err)
			os.Exit(1)
		}
	}
	if *format == "parquet" || *format == "both" {
		if err := writeParquet(*outDir, ds); err != nil {
			fmt.Fprintf(os.Stderr, "write parquet: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Wrote %d claim lines and %d member months to %s\n", len(ds.Claims), len(ds.MemberMonths), *outDir)
}

func parseYears(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad year %q: %w", part, err)
		}
		out = append(out, y)
	}
	return out, nil
}

func pick(r *rand.Rand, xs []string) string { return xs[r.IntN(len(xs))] }

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Map order is random; sort so the seed alone decides the output.
	slices.Sort(out)
	return out
}

// maybe returns a pointer to v, or nil about one time in ten.
func maybe(r *rand.Rand, v string) *string {
	if r.IntN(10) == 0 {
		return nil
	}
	return &v
}

func generate(r *rand.Rand, members int, years []int) *model.Dataset {
	ds := &model.Dataset{}
	groupNames := keys(groups)
	dxNames := keys(diagnoses)
	encounter := 0

	for i := 0; i < members; i++ {
		id := fmt.Sprintf("M%05d", i+1)
		sex := "male"
		if r.IntN(2) == 0 {
			sex = "female"
		}
		race := maybe(r, pick(r, races))
		state := maybe(r, pick(r, states))
		baseAge := 65 + r.IntN(30)

		for yi, year := range years {
			if r.IntN(5) == 0 {
				continue // not enrolled this year
			}
			// Age and risk score are per year; months within a year repeat them.
			age := baseAge + yi
			var risk *float64
			if r.IntN(8) != 0 {
				v := float64(int(r.ExpFloat64()*150)) / 100
				risk = &v
			}
			months := 1 + r.IntN(12)
			for m := 1; m <= months; m++ {
				ds.MemberMonths = append(ds.MemberMonths, model.MemberMonth{
					MemberID: id, Year: year, YearMonth: year*100 + m,
					Age: age, Sex: sex, Race: race, State: state, RiskScore: risk,
				})
			}

			for e := r.IntN(4); e > 0; e-- {
				encounter++
				eid := fmt.Sprintf("E%07d", encounter)
				group := pick(r, groupNames)
				etype := pick(r, groups[group])
				for l := 1 + r.IntN(3); l > 0; l-- {
					dx := pick(r, dxNames)
					ds.Claims = append(ds.Claims, model.ClaimLine{
						MemberID: id, EncounterID: eid, Year: year,
						EncounterGroup: maybe(r, group), EncounterType: maybe(r, etype),
						DiagnosisCategory: maybe(r, dx), DiagnosisDescription: maybe(r, pick(r, diagnoses[dx])),
						PaidAmount: float64(int(r.ExpFloat64()*250000)) / 100,
					})
				}
			}
		}
	}
	return ds
}

func cell(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeCSV(dir string, ds *model.Dataset) error {
	claims := [][]string{{"member_id", "encounter_id", "year", "encounter_group", "encounter_type", "diagnosis_category", "diagnosis_description", "paid_amount"}}
	for _, c := range ds.Claims {
		claims = append(claims, []string{
			c.MemberID, c.EncounterID, strconv.Itoa(c.Year),
			cell(c.EncounterGroup), cell(c.EncounterType), cell(c.DiagnosisCategory), cell(c.DiagnosisDescription),
			strconv.FormatFloat(c.PaidAmount, 'f', 2, 64),
		})
	}
	if err := writeRecords(filepath.Join(dir, "claims.csv"), claims); err != nil {
		return err
	}

	months := [][]string{{"member_id", "year", "year_month", "age", "sex", "race", "state", "risk_score"}}
	for _, m := range ds.MemberMonths {
		risk := ""
		if m.RiskScore != nil {
			risk = strconv.FormatFloat(*m.RiskScore, 'f', -1, 64)
		}
		months = append(months, []string{
			m.MemberID, strconv.Itoa(m.Year), strconv.Itoa(m.YearMonth), strconv.Itoa(m.Age),
			m.Sex, cell(m.Race), cell(m.State), risk,
		})
	}
	return writeRecords(filepath.Join(dir, "member_months.csv"), months)
}

func writeRecords(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeParquet(dir string, ds *model.Dataset) error {
	if err := goparquet.WriteFile(filepath.Join(dir, "claims.parquet"), ds.Claims); err != nil {
		return err
	}
	return goparquet.WriteFile(filepath.Join(dir, "member_months.parquet"), ds.MemberMonths)
}

func check(dir string) error {
	for _, pair := range [][2]string{
		{"claims.csv", "member_months.csv"},
		{"claims.parquet", "member_months.parquet"},
	} {
		src := dataset.Files{ClaimsPath: filepath.Join(dir, pair[0]), MemberMonthsPath: filepath.Join(dir, pair[1])}
		if _, err := os.Stat(src.ClaimsPath); err != nil {
			continue
		}
		ds, err := src.Load(context.Background())
		if err != nil {
			return err
		}
		agg := metrics.New(ds)
		fmt.Printf("%s + %s: %d claim lines, %d member months\n", pair[0], pair[1], len(ds.Claims), len(ds.MemberMonths))
		for _, y := range agg.Years() {
			s := agg.Summary(y)
			fmt.Printf("  %d: members=%d member_months=%d encounters=%d paid=%.2f pmpm=%.2f\n",
				y, s.MemberCount, s.MemberMonthCount, s.TotalEncounters, s.TotalPaid, s.Ratios().PaidPMPM)
		}
	}
	return nil
}
