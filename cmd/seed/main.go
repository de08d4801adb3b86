package main

import (
	"context"
	"log"
	"time"

	"dossier-be/internal/config"
	"dossier-be/internal/entity"
	"dossier-be/internal/repository/specification"
	"dossier-be/internal/repository/unitofwork"
	"dossier-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type seedFact struct {
	date        string
	eventType   string
	actors      string
	description string
}

type seedCaseFile struct {
	name     string
	category string
	facts    []seedFact
}

// Sample case files with hand-entered facts, so the timeline has something
// to show before any PDF is processed.
var samples = []seedCaseFile{
	{
		name:     "Acme Ltd v. City of Springfield",
		category: entity.CategoryPublicProcurement,
		facts: []seedFact{
			{"2023-03-01", "Publication", "City of Springfield", "Contract notice published for road maintenance works."},
			{"2023-04-14", "Submission", "Acme Ltd", "Acme Ltd submits its tender."},
			{"2023-05-30", "Award decision", "City of Springfield; Roadworks Inc", "Contract awarded to Roadworks Inc."},
			{"2023-06-09", "Complaint", "Acme Ltd", "Acme Ltd files a pre-contractual complaint."},
		},
	},
	{
		name:     "Doe employment dispute",
		category: entity.CategoryGeneral,
		facts: []seedFact{
			{"2022-01-10", "Contract signature", "J. Doe; Northwind SA", "Employment contract signed."},
			{"2024-02-02", "Dismissal", "Northwind SA", "Dismissal letter sent to J. Doe."},
			{"", "Correspondence", "J. Doe", "Undated letter contesting the dismissal."},
		},
	},
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)

	color.Cyan("Seeding sample case files...\n")

	for _, s := range samples {
		if err := seed(ctx, uowFactory, s); err != nil {
			color.Red("  %s: %v", s.name, err)
			continue
		}
	}

	color.Cyan("\nSeeding completed!")
}

func seed(ctx context.Context, uowFactory unitofwork.RepositoryFactory, s seedCaseFile) error {
	uow := uowFactory.NewUnitOfWork(ctx)

	count, err := uow.CaseFileRepository().Count(ctx, specification.Filter("name", s.name))
	if err != nil {
		return err
	}
	if count > 0 {
		color.Yellow("  %s already exists, skipping", s.name)
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	caseFile := &entity.CaseFile{
		Id:        uuid.New(),
		Name:      s.name,
		Category:  s.category,
		CreatedAt: time.Now(),
	}
	if err := uow.CaseFileRepository().Create(ctx, caseFile); err != nil {
		return err
	}

	facts := make([]*entity.Fact, 0, len(s.facts))
	for _, f := range s.facts {
		fact := &entity.Fact{
			Id:          uuid.New(),
			CaseFileId:  caseFile.Id,
			EventType:   strPtr(f.eventType),
			Actors:      strPtr(f.actors),
			Description: strPtr(f.description),
		}
		if f.date != "" {
			d, err := time.Parse("2006-01-02", f.date)
			if err != nil {
				return err
			}
			fact.EventDate = &d
		}
		facts = append(facts, fact)
	}
	if err := uow.FactRepository().CreateBulk(ctx, facts); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	color.Green("  Created %s (%d facts)", s.name, len(facts))
	return nil
}
