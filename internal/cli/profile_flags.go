package cli

import (
	"github.com/spf13/cobra"

	"github.com/edupath-lk/pathfinder/internal/profile"
)

// profileFlags builds a profile from a JSON file and command-line overrides
type profileFlags struct {
	path       string
	grades     string
	stream     string
	income     float64
	index      float64
	district   string
	schoolType string
	medium     string
	goal       string
	interest   string
	rural      bool
	disability bool
	orphan     bool
	firstGen   bool
}

func (f *profileFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.path, "profile", "", "JSON profile file; other profile flags override its fields")
	fs.StringVar(&f.grades, "grades", "", "A/L grades per subject, e.g. A,A,B (use - for not chosen)")
	fs.StringVar(&f.stream, "stream", "", "A/L stream (physical, bio, commerce, arts, tech)")
	fs.Float64Var(&f.income, "income", 0, "Monthly household income in LKR")
	fs.Float64Var(&f.index, "index", 0, "Known academic index on the 0-3 scale (overrides grades)")
	fs.StringVar(&f.district, "district", "", "Home district")
	fs.StringVar(&f.schoolType, "school-type", "", "School type (national, provincial, private, international)")
	fs.StringVar(&f.medium, "medium", "", "Medium of study (sinhala, tamil, english)")
	fs.StringVar(&f.goal, "goal", "", "Career goal matched against names and descriptions")
	fs.StringVar(&f.interest, "interest", "", "Field of interest, e.g. technology or medicine")
	fs.BoolVar(&f.rural, "rural", false, "Rural background")
	fs.BoolVar(&f.disability, "disability", false, "Student with a disability")
	fs.BoolVar(&f.orphan, "orphan", false, "Orphaned student")
	fs.BoolVar(&f.firstGen, "first-gen", false, "First generation university student")
}

func (f *profileFlags) build(cmd *cobra.Command) (profile.Profile, error) {
	var p profile.Profile
	if f.path != "" {
		loaded, err := profile.Load(f.path)
		if err != nil {
			return profile.Profile{}, err
		}
		p = loaded
	}

	changed := cmd.Flags().Changed

	if changed("grades") {
		grades, err := profile.ParseGrades(f.grades)
		if err != nil {
			return profile.Profile{}, err
		}
		p.Grades = grades
	}
	if changed("stream") {
		p.Stream = f.stream
	}
	if p.Stream != "" {
		s, err := profile.LookupStream(p.Stream)
		if err != nil {
			return profile.Profile{}, err
		}
		p.Stream = s.ID
	}
	if changed("income") {
		p.MonthlyIncome = profile.Float(f.income)
	}
	if changed("index") {
		p.AcademicIndex = profile.Float(f.index)
	}
	if changed("district") {
		p.District = f.district
	}
	if changed("school-type") {
		p.SchoolType = f.schoolType
	}
	if changed("medium") {
		p.Medium = f.medium
	}
	if changed("goal") {
		p.Goal = f.goal
	}
	if changed("interest") {
		p.Interest = f.interest
	}
	if changed("rural") {
		p.Special.Rural = f.rural
	}
	if changed("disability") {
		p.Special.Disability = f.disability
	}
	if changed("orphan") {
		p.Special.Orphan = f.orphan
	}
	if changed("first-gen") {
		p.Special.FirstGeneration = f.firstGen
	}
	return p, nil
}
