package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"
	"tutorhub-backend/internal/config"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/services"
	"tutorhub-backend/internal/store/postgres"

	"github.com/spf13/cobra"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Manage the subject catalog",
}

var subjectsAddCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Add one or more subjects",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTutorService(cmd.Context(), func(ctx context.Context, tutors *services.TutorService) error {
			for _, name := range args {
				subject, err := tutors.AddSubject(ctx, name)
				if err != nil {
					return fmt.Errorf("adding subject %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", subject.ID, subject.Name)
			}
			return nil
		})
	},
}

var subjectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the newest subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTutorService(cmd.Context(), func(ctx context.Context, tutors *services.TutorService) error {
			subjects, err := tutors.ListSubjects(ctx)
			if err != nil {
				return err
			}
			for _, s := range subjects {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", s.ID, s.Name)
			}
			return nil
		})
	},
}

var tutorsCmd = &cobra.Command{
	Use:   "tutors",
	Short: "Review tutor applications",
}

// statusCmd builds a subcommand that moves tutor entries to status.
func statusCmd(use, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ENTRY_ID...",
		Short: fmt.Sprintf("Mark tutor entries as %s", status),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTutorService(cmd.Context(), func(ctx context.Context, tutors *services.TutorService) error {
				for _, arg := range args {
					id, err := strconv.ParseInt(arg, 10, 64)
					if err != nil {
						return fmt.Errorf("invalid entry id %q", arg)
					}
					if _, err := tutors.SetStatus(ctx, id, status); err != nil {
						return fmt.Errorf("entry %d: %w", id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, status)
				}
				return nil
			})
		},
	}
}

func init() {
	subjectsCmd.AddCommand(subjectsAddCmd, subjectsListCmd)
	tutorsCmd.AddCommand(
		statusCmd("approve", models.TutorStatusApproved),
		statusCmd("reject", models.TutorStatusRejected),
	)
}

// withTutorService runs fn against the Postgres catalog. The in-memory store lives
// inside the server process, so these commands need STORE_DRIVER=postgres.
func withTutorService(parent context.Context, fn func(context.Context, *services.TutorService) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.StoreDriver != config.DriverPostgres {
		return fmt.Errorf("catalog commands require STORE_DRIVER=%s", config.DriverPostgres)
	}

	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	dbpool, err := connectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	log.Println("Catalog store ready.")
	return fn(ctx, services.NewTutorService(postgres.NewPostgresStore(dbpool)))
}
