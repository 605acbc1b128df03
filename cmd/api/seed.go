package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/practice-dashboard/internal/fixtures"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/internal/repository/postgres"
	"github.com/jwalitptl/practice-dashboard/pkg/security"
)

type seedOptions struct {
	count         int
	doctorID      string
	adminEmail    string
	adminPassword string
	adminName     string
}

func newSeedCommand() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample patients and appointments into the database",
		Long: `Seed inserts generated patients (and, with --doctor-id, their
appointments). With --admin-email it also creates the first admin account,
which sign-up never hands out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if opts.count <= 0 {
				opts.count = cfg.Seed.Count
			}

			ctx := cmd.Context()
			db, err := openDB(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if opts.adminEmail != "" {
				users := postgres.NewUserRepository(db)
				hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
				hash, err := hasher.Hash(opts.adminPassword)
				if err != nil {
					return fmt.Errorf("admin password: %w", err)
				}
				user := &model.AuthUser{Email: strings.ToLower(strings.TrimSpace(opts.adminEmail)), PasswordHash: hash}
				profile := &model.Profile{FullName: opts.adminName, Role: model.RoleAdmin}
				switch err := users.CreateWithProfile(ctx, user, profile); {
				case errors.Is(err, repository.ErrDuplicateEmail):
					log.Warn().Str("email", user.Email).Msg("admin account already exists")
				case err != nil:
					return err
				default:
					log.Info().Str("email", user.Email).Str("user_id", user.ID).Msg("admin account created")
				}
			}

			gen := fixtures.New(cfg.Seed.Seed, time.Now())
			patients := postgres.NewPatientRepository(db)
			created := make([]model.Patient, 0, opts.count)
			for _, p := range gen.Patients(opts.count) {
				saved, err := patients.Create(ctx, p)
				if err != nil {
					return err
				}
				created = append(created, saved)
			}
			log.Info().Int("count", len(created)).Msg("patients seeded")

			if opts.doctorID == "" {
				return nil
			}
			doctor, err := postgres.NewProfileRepository(db).GetByID(ctx, opts.doctorID)
			if err != nil {
				return fmt.Errorf("doctor %s: %w", opts.doctorID, err)
			}
			if doctor.Role != model.RoleDoctor {
				return fmt.Errorf("profile %s is a %s, not a doctor", doctor.ID, doctor.Role)
			}

			appointments := postgres.NewAppointmentRepository(db)
			for _, a := range gen.Appointments(created, doctor.ID, doctor.FullName) {
				if _, err := appointments.Create(ctx, a); err != nil {
					return err
				}
			}
			log.Info().Int("count", len(created)).Str("doctor_id", doctor.ID).Msg("appointments seeded")
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.count, "count", 0, "number of patients (defaults to seed.count)")
	cmd.Flags().StringVar(&opts.doctorID, "doctor-id", "", "profile id of the doctor who gets the appointments")
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", "", "create an admin account with this email")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", "", "password of the admin account")
	cmd.Flags().StringVar(&opts.adminName, "admin-name", "Practice Admin", "full name of the admin account")
	cmd.MarkFlagsRequiredTogether("admin-email", "admin-password")

	return cmd
}
