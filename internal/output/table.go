package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/edupath-lk/pathfinder/internal/database"
	"github.com/edupath-lk/pathfinder/internal/eligibility"
	"github.com/edupath-lk/pathfinder/internal/matcher"
	"github.com/edupath-lk/pathfinder/internal/normalize"
	"github.com/edupath-lk/pathfinder/internal/profile"
	"github.com/edupath-lk/pathfinder/internal/ranker"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []ranker.Result:
		return resultsTable(w, v)
	case []ranker.Candidate:
		return candidatesTable(w, v)
	case map[string]int:
		return countsTable(w, v)
	case normalize.Signals:
		return signalsDetail(w, v)
	case eligibility.Result:
		return classificationDetail(w, v)
	case *matcher.Classification:
		if err := signalsDetail(w, v.Signals); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return classificationDetail(w, v.Result)
	case *matcher.Report:
		return reportDetail(w, v)
	case []database.MatchRun:
		return runsTable(w, v)
	case *database.MatchRun:
		return runDetail(w, v)
	case []profile.Stream:
		return streamsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func resultsTable(w io.Writer, results []ranker.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching candidates.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Name", "Score", "Pass", "Why")
	for _, r := range results {
		if err := table.Append([]string{
			fmt.Sprintf("%d", r.Rank),
			truncate(r.DisplayName, 40),
			fmt.Sprintf("%.1f", r.Score),
			string(r.Pass),
			truncate(strings.Join(r.Reasons, "; "), 60),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func candidatesTable(w io.Writer, candidates []ranker.Candidate) error {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No candidates found. Run 'pathfinder catalog seed' to load the built-in catalog.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Kind", "Name", "Category", "Tags", "Tier")
	for _, c := range candidates {
		tier := "-"
		if c.TierWeight != nil {
			tier = fmt.Sprintf("%.1f", *c.TierWeight)
		}
		if err := table.Append([]string{
			c.ID,
			string(c.Kind),
			truncate(c.DisplayName, 40),
			c.Category,
			truncate(strings.Join(c.CategoryTags, ", "), 30),
			tier,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func countsTable(w io.Writer, counts map[string]int) error {
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	table := tablewriter.NewWriter(w)
	table.Header("Kind", "Count")
	total := 0
	for _, k := range kinds {
		total += counts[k]
		if err := table.Append([]string{k, fmt.Sprintf("%d", counts[k])}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{"total", fmt.Sprintf("%d", total)}); err != nil {
		return err
	}
	return table.Render()
}

func signalsDetail(w io.Writer, s normalize.Signals) error {
	fmt.Fprintf(w, "Academic index:  %.3f (raw %.2f / 3)\n", s.AcademicIndex, s.RawIndex)
	fmt.Fprintf(w, "Income:          %.3f\n", s.Income)
	fmt.Fprintf(w, "Category boost:  %.2f\n", s.CategoryBoost)
	fmt.Fprintf(w, "Composite:       %.3f\n", s.Composite)
	if s.Stream != "" {
		fmt.Fprintf(w, "Stream:          %s\n", s.Stream)
	}
	if s.District != "" {
		fmt.Fprintf(w, "District:        %s\n", s.District)
	}
	return nil
}

func classificationDetail(w io.Writer, r eligibility.Result) error {
	fmt.Fprintf(w, "Eligible: %d  Conditional: %d  Blocked: %d  Likelihood: %s  Rural benefit: %s\n",
		len(r.Eligible), len(r.Conditional), len(r.Blocked),
		r.Summary.SuccessLikelihood, r.Summary.RuralBenefit)
	fmt.Fprintf(w, "Estimated value: %s  Monthly: %s\n", r.Summary.EstimatedValue, r.Summary.MonthlyEstimate)

	bucket(w, "ELIGIBLE", r.Eligible, func(e eligibility.Entry) {
		fmt.Fprintf(w, "    Probability: %s\n", e.Evidence.ProbabilityScore)
		if len(e.Evidence.DocChecklist) > 0 {
			fmt.Fprintf(w, "    Documents:   %s\n", strings.Join(e.Evidence.DocChecklist, "; "))
		}
	})
	bucket(w, "CONDITIONAL", r.Conditional, func(e eligibility.Entry) {
		fmt.Fprintf(w, "    Missing:     %s (gap %.3f)\n", e.Evidence.MissingRequirement, e.Evidence.Gap)
		if e.Evidence.RemediationSteps != "" {
			fmt.Fprintf(w, "    Next steps:  %s\n", e.Evidence.RemediationSteps)
		}
	})
	bucket(w, "BLOCKED", r.Blocked, func(e eligibility.Entry) {
		fmt.Fprintf(w, "    Violated:    %s\n", e.Evidence.ViolatedRule)
		if e.Evidence.Alternative != "" {
			fmt.Fprintf(w, "    Instead:     %s\n", e.Evidence.Alternative)
		}
	})
	return nil
}

func bucket(w io.Writer, title string, entries []eligibility.Entry, evidence func(eligibility.Entry)) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s", e.Name)
		if e.Provider != "" {
			fmt.Fprintf(w, " (%s)", e.Provider)
		}
		fmt.Fprintln(w)
		if e.Amount != "" || e.Deadline != "" {
			fmt.Fprintf(w, "    Amount: %s  Deadline: %s\n", e.Amount, e.Deadline)
		}
		evidence(e)
	}
}

func reportDetail(w io.Writer, r *matcher.Report) error {
	if r.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", r.RunID)
	}
	fmt.Fprintf(w, "Keywords: %s  Admission tier: %.1f+\n\n", strings.Join(r.Keywords, ", "), r.Tier)
	if err := signalsDetail(w, r.Signals); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nPrograms")
	if err := resultsTable(w, r.Programs); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nInstitutions")
	if err := resultsTable(w, r.Institutions); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nScholarships")
	return classificationDetail(w, r.Scholarships)
}

func runsTable(w io.Writer, runs []database.MatchRun) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No match runs recorded.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Command", "Keywords", "When")
	for _, r := range runs {
		if err := table.Append([]string{
			r.ID,
			r.Command,
			truncate(strings.Join(r.Keywords, ", "), 30),
			r.CreatedAt.Local().Format("Jan 02, 2006 15:04"),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func runDetail(w io.Writer, r *database.MatchRun) error {
	fmt.Fprintf(w, "ID:        %s\n", r.ID)
	fmt.Fprintf(w, "Command:   %s\n", r.Command)
	if len(r.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords:  %s\n", strings.Join(r.Keywords, ", "))
	}
	fmt.Fprintf(w, "Created:   %s\n", r.CreatedAt.Local().Format("Jan 02, 2006 15:04"))
	fmt.Fprintln(w, "Profile:")
	fmt.Fprintf(w, "  %s\n", r.Profile)
	fmt.Fprintln(w, "Results:")
	return JSONTo(w, r.Results)
}

func streamsTable(w io.Writer, streams []profile.Stream) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Stream", "Subjects", "Careers")
	for _, s := range streams {
		if err := table.Append([]string{
			s.ID,
			s.Name,
			strings.Join(s.Subjects, ", "),
			strings.Join(s.Careers, ", "),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
