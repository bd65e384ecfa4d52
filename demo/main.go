// Package main demonstrates a ratio study across synthetic jurisdictions.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sartorproj/goratio/config"
	"github.com/sartorproj/goratio/internal/synth"
	"github.com/sartorproj/goratio/ratiostudy"
	"github.com/sartorproj/goratio/sample"
)

// Jurisdiction defines a synthetic sales sample to study
type Jurisdiction struct {
	Name        string
	Description string
	Build       func() *sample.Sample
}

// JurisdictionResult holds study results for JSON export
type JurisdictionResult struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Error       string             `json:"error,omitempty"`
	Report      *ratiostudy.Report `json:"report,omitempty"`
}

// OutputData holds all results
type OutputData struct {
	Options       *ratiostudy.Options  `json:"options"`
	Jurisdictions []JurisdictionResult `json:"jurisdictions"`
}

func main() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("GoRatio Demonstration - Ratio Study Statistics and Sales Chasing")
	fmt.Println(strings.Repeat("=", 80))

	// RATIOSTUDY_CONFIG may point at a YAML file; RATIOSTUDY_* variables override it
	cfg, err := config.Load(os.Getenv("RATIOSTUDY_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	opts := cfg.Options(os.Stderr)
	opts.TrimBeforeCompute = true // studies report trimmed statistics

	jurisdictions := []Jurisdiction{
		{Name: "Uniform County", Description: "Ratios N(1.00, 0.10), no value bias", Build: func() *sample.Sample { return synth.Normal(1, 400, 1.0, 0.10) }},
		{Name: "Loose County", Description: "Ratios N(0.92, 0.25), poor uniformity", Build: func() *sample.Sample { return synth.Normal(2, 400, 0.92, 0.25) }},
		{Name: "Regressive City", Description: "Ratios fall 8 points per doubling of value", Build: func() *sample.Sample { return synth.Tiered(3, 500, -0.08, 0.10) }},
		{Name: "Progressive City", Description: "Ratios rise 6 points per doubling of value", Build: func() *sample.Sample { return synth.Tiered(4, 500, 0.06, 0.10) }},
		{Name: "Chased Township", Description: "60% of ratios forced into [0.98, 1.02]", Build: func() *sample.Sample { s, _ := synth.Chased(5, 300, 0.6, 0.98, 1.02, 0.15); return s }},
		{Name: "Copied Township", Description: "20% of assessed values copied from sale prices", Build: func() *sample.Sample { s, _ := synth.Copied(6, 300, 0.2, 1000, 0.10); return s }},
		{Name: "Small Village", Description: "Only 18 sales", Build: func() *sample.Sample { return synth.Normal(7, 18, 1.0, 0.12) }},
	}

	jobs := make([]ratiostudy.Job, len(jurisdictions))
	for i, j := range jurisdictions {
		jobs[i] = ratiostudy.Job{Name: j.Name, Sample: j.Build()}
	}

	results, err := ratiostudy.RunBatch(context.Background(), jobs, opts, 4)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batch: %v\n", err)
		os.Exit(1)
	}

	output := OutputData{Options: opts}
	for i, r := range results {
		j := jurisdictions[i]
		fmt.Printf("\n%s\n[%d/%d] %s - %s\n%s\n", strings.Repeat("=", 80), i+1, len(results), j.Name, j.Description, strings.Repeat("=", 80))

		jr := JurisdictionResult{Name: j.Name, Description: j.Description, Report: r.Report}
		if r.Err != nil {
			jr.Error = r.Err.Error()
			fmt.Printf("   Error: %v\n", r.Err)
		} else {
			printReport(r.Report)
		}
		output.Jurisdictions = append(output.Jurisdictions, jr)
	}

	fmt.Printf("\n%s\nEXPORTING RESULTS\n%s\n", strings.Repeat("=", 80), strings.Repeat("=", 80))

	if data, err := json.MarshalIndent(output, "", "  "); err == nil {
		os.WriteFile("ratio_study_results.json", data, 0644)
		fmt.Printf("Exported %d jurisdictions to ratio_study_results.json\n", len(output.Jurisdictions))
	}
	fmt.Println(strings.Repeat("=", 80))
}

// printReport prints one jurisdiction's statistics
func printReport(r *ratiostudy.Report) {
	if r.Trim != nil {
		fmt.Printf("   Sales: %d, trimmed %d with %s [%.3f, %.3f]\n", r.N, r.Trim.Excluded, r.Trim.Policy, r.Trim.Lower, r.Trim.Upper)
	} else {
		fmt.Printf("   Sales: %d\n", r.N)
	}

	for _, res := range []*ratiostudy.Result{r.COD, r.PRD, r.PRB, r.KI, r.MKI} {
		line := fmt.Sprintf("   %-4s %9.4f", strings.ToUpper(string(res.Stat)), res.Value)
		if lo, hi, ok := res.Bounds(); ok {
			line += fmt.Sprintf("  [%.4f, %.4f]", lo, hi)
		}
		if res.Met != nil {
			line += fmt.Sprintf("  meets standard: %v", *res.Met)
		}
		fmt.Println(line)
	}

	c := r.Chasing
	fmt.Printf("   Sales chasing: flagged=%v (rule %s, small sample %v)\n", c.Flagged, c.Rule, c.SmallSample)
	for _, f := range c.Flags {
		fmt.Printf("      %s\n", f)
	}
}
