package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Trazabilidad-api/internal/application/auth"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Trazabilidad-api/internal/infrastructure/postgres"
)

var (
	adminUsername string
	adminPassword string
	adminFullName string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Crea un administrador aprobado (o promueve y cambia la contraseña si ya existe)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(adminUsername)
		if username == "" {
			return fmt.Errorf("--username es obligatorio")
		}
		if err := auth.ValidatePassword("password", adminPassword); err != nil {
			return err
		}
		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("hash contraseña: %w", err)
		}

		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		users := postgres.NewUserRepository(pool)
		existing, err := users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := users.UpdatePassword(ctx, existing.ID, hash); err != nil {
				return err
			}
			if err := users.UpdateApproval(ctx, existing.ID, true, entity.RoleAdmin); err != nil {
				return err
			}
			log.Info().Str("user_id", existing.ID).Str("username", username).Msg("usuario promovido a admin")
			return nil
		}

		user := &entity.User{
			ID:           uuid.New().String(),
			Username:     username,
			PasswordHash: hash,
			FullName:     strings.TrimSpace(adminFullName),
			Role:         entity.RoleAdmin,
			Approved:     true,
			CreatedAt:    time.Now(),
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		log.Info().Str("user_id", user.ID).Str("username", username).Msg("admin creado")
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "nombre de usuario")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "contraseña")
	createAdminCmd.Flags().StringVar(&adminFullName, "full-name", "", "nombre completo")
}
