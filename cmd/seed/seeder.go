package main

import (
	"fmt"
	"strings"
	"time"

	"arai/internal/model"
	"arai/internal/planner"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
)

type reportCreator interface {
	CreateReport(report *model.Report) error
}

type Seeder struct {
	db    reportCreator
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSeeder builds a seeder over the database. A zero seed picks a random one.
func NewSeeder(database reportCreator, seed int64) *Seeder {
	return &Seeder{
		db:    database,
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

func (s *Seeder) SeedReports(count int) error {
	endDate := s.now()
	startDate := endDate.AddDate(0, -4, 0)

	fmt.Printf("Generating reports from %s to %s\n",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))

	for i := 0; i < count; i++ {
		report, err := s.generateReport(startDate, endDate)
		if err != nil {
			return err
		}
		if err := s.db.CreateReport(&report); err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		if (i+1)%10 == 0 || i == count-1 {
			fmt.Printf("Progress: %d/%d reports inserted\n", i+1, count)
		}
	}

	return nil
}

var categories = []string{"chocolate", "coffee", "skincare", "sneakers", "tea", "jewellery", "wine", "candles"}

func (s *Seeder) generateReport(startDate, endDate time.Time) (model.Report, error) {
	goals := model.GetGoals()
	in := model.Input{
		Brand:    s.faker.Company(),
		Category: categories[s.faker.Number(0, len(categories)-1)],
		Market:   s.faker.Country(),
		Goal:     goals[s.faker.Number(0, len(goals)-1)],
	}

	// A quarter of the reports have no budget
	if s.faker.Number(1, 4) > 1 {
		in.Budget = float64(s.faker.Number(10, 500)) * 1000
	}

	kpis := model.GetKPIs()
	for _, k := range kpis {
		if s.faker.Bool() {
			in.KPIs = append(in.KPIs, k)
		}
	}

	mode := model.ModeTemplate
	var content string
	if s.faker.Bool() {
		plan, err := planner.Build(in)
		if err != nil {
			return model.Report{}, fmt.Errorf("failed to build plan: %w", err)
		}
		content = plan.Markdown()
	} else {
		mode = model.ModeAI
		content = s.generateAIContent()
	}

	return model.Report{
		ID:        s.faker.UUID(),
		Brand:     in.Brand,
		Category:  in.Category,
		Market:    in.Market,
		Goal:      in.Goal,
		KPIs:      pq.StringArray(append([]string{}, in.KPIs...)),
		Budget:    in.Budget,
		Mode:      mode,
		Content:   content,
		CreatedAt: s.faker.DateRange(startDate, endDate),
	}, nil
}

func (s *Seeder) generateAIContent() string {
	sections := []model.Section{
		{Title: "Marketing Strategy", Text: s.faker.Paragraph(2, 4, 12, "\n\n")},
		{Title: "Content Calendar", Text: s.calendar()},
	}
	return model.JoinSections(sections)
}

func (s *Seeder) calendar() string {
	lines := []string{"| Week | Platform | Post |", "|---|---|---|"}
	platforms := []string{"Instagram", "YouTube", "LinkedIn", "Email"}
	for week := 1; week <= 4; week++ {
		lines = append(lines, fmt.Sprintf("| %d | %s | %s |",
			week,
			platforms[s.faker.Number(0, len(platforms)-1)],
			strings.TrimSuffix(s.faker.Sentence(6), ".")))
	}
	return strings.Join(lines, "\n")
}
