package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/bookshelf-api/config"
	"github.com/oksasatya/bookshelf-api/internal/application"
	"github.com/oksasatya/bookshelf-api/internal/container"
	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
	"github.com/oksasatya/bookshelf-api/pkg/helpers"
)

const (
	demoName     = "Demo Reader"
	demoEmail    = "demo@bookshelf.local"
	demoPassword = "password123"
)

var demoBook = entity.Book{
	ID:   "zyTCAlFPjgYC",
	Kind: entity.DefaultBookKind,
	VolumeInfo: entity.VolumeInfo{
		Title:         "The Google Story",
		Authors:       []string{"David A. Vise", "Mark Malseed"},
		PublishedDate: "2005-11-15",
		IndustryIdentifiers: []entity.IndustryIdentifier{
			{Type: "ISBN_13", Identifier: "9780553804577"},
		},
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	// the seeder never sends mail
	cfg.MailSendEnabled = false

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize store")
	}
	defer c.Close()

	u, err := c.Auth.Register(ctx, application.RegisterInput{
		Name:        demoName,
		YearOfBirth: 1990,
		Email:       demoEmail,
		Password:    demoPassword,
	})
	switch {
	case err == nil:
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, demoPassword)
	case apperror.Is(err, apperror.KindConflict):
		u, err = c.UserRepo.GetByEmail(ctx, demoEmail)
		if err != nil {
			logger.WithError(err).Fatal("failed to load existing demo user")
		}
		fmt.Printf("demo user already present: id=%s\n", u.ID)
	default:
		logger.WithError(err).Fatal("failed to seed user")
	}

	for _, kind := range []entity.ListKind{entity.ListFavorite, entity.ListRead} {
		if _, err := c.Lists.AddToList(ctx, u.ID, kind, demoBook); err != nil {
			logger.WithError(err).WithField("list", kind).Fatal("failed to seed list")
		}
	}
	if _, err := c.Users.SetGoal(ctx, u.ID, 12); err != nil {
		logger.WithError(err).Fatal("failed to seed goal")
	}
	fmt.Printf("seeded book %s in favorite and read lists\n", demoBook.ID)

	if cfg.StoreDriver == config.StoreDriverMemory {
		fmt.Fprintln(os.Stderr, "note: STORE_DRIVER=memory, seeded data is discarded on exit")
	}
}
