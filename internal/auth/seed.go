package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/organconnect/organconnect/backend/internal/models"
	"github.com/organconnect/organconnect/backend/internal/repositories"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	email, password, name, mobile string
	role                          models.Role
	age                           *int
}

var demoUsers = []demoUser{
	{"donor@organconnect.com", "donor123", "Demo Donor", "9876543210", models.RoleDonor, lo.ToPtr(30)},
	{"hospital@organconnect.com", "hospital123", "Demo Hospital", "9876543211", models.RoleHospital, nil},
	{"admin@organconnect.com", "admin123", "Admin User", "9876543212", models.RoleAdmin, nil},
}

// SeedDemoUsers creates the donor, hospital and admin demo accounts that do
// not exist yet.
func (s *Service) SeedDemoUsers(ctx context.Context) error {
	for _, d := range demoUsers {
		_, err := s.users.GetUserByEmail(ctx, d.email)
		if err == nil {
			s.log.Debug("Demo user exists, skipping", "email", d.email)
			continue
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &models.User{
			Email:          d.email,
			Password:       string(hashed),
			Role:           d.role,
			Name:           d.name,
			Mobile:         lo.ToPtr(d.mobile),
			Age:            d.age,
			MobileVerified: true,
			IsActive:       true,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed %s: %w", d.email, err)
		}
		s.log.Info("Seeded demo user", "email", d.email, "role", d.role)
	}
	return nil
}
