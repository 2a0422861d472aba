package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

func dob(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DemoUsers 是演示环境的初始用户
func DemoUsers() []domain.User {
	return []domain.User{
		{Forename: "Peter", Surname: "Loew", Email: "ploew@example.com", DateOfBirth: dob(1997, time.April, 14), IsActive: true},
		{Forename: "Benjamin Franklin", Surname: "Gates", Email: "bfgates@example.com", DateOfBirth: dob(1980, time.June, 21), IsActive: true},
		{Forename: "Castor", Surname: "Troy", Email: "ctroy@example.com", DateOfBirth: dob(1974, time.August, 20), IsActive: false},
		{Forename: "Memphis", Surname: "Raines", Email: "mraines@example.com", DateOfBirth: dob(1985, time.November, 3), IsActive: true},
		{Forename: "Stanley", Surname: "Goodspeed", Email: "sgodspeed@example.com", DateOfBirth: dob(1992, time.February, 15), IsActive: true},
		{Forename: "H.I.", Surname: "McDunnough", Email: "himcdunnough@example.com", DateOfBirth: dob(1978, time.September, 12), IsActive: true},
		{Forename: "Cameron", Surname: "Poe", Email: "cpoe@example.com", DateOfBirth: dob(1987, time.July, 8), IsActive: false},
		{Forename: "Edward", Surname: "Malus", Email: "emalus@example.com", DateOfBirth: dob(1983, time.December, 25), IsActive: false},
		{Forename: "Damon", Surname: "Macready", Email: "dmacready@example.com", DateOfBirth: dob(1976, time.May, 30), IsActive: false},
		{Forename: "Johnny", Surname: "Blaze", Email: "jblaze@example.com", DateOfBirth: dob(1989, time.October, 17), IsActive: true},
		{Forename: "Robin", Surname: "Feld", Email: "rfeld@example.com", DateOfBirth: dob(1991, time.January, 22), IsActive: true},
	}
}

// SeedDemoUsers 在用户表为空时写入演示用户，不产生审计日志。
// 返回写入的用户数量。
func SeedDemoUsers(ctx context.Context, userRepo repository.UserRepository) (int, error) {
	existing, err := userRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		logrus.WithField("count", len(existing)).Info("Users table not empty, skipping demo seed")
		return 0, nil
	}

	users := DemoUsers()
	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			return i, fmt.Errorf("failed to seed user %s: %w", users[i].Email, err)
		}
	}
	logrus.WithField("count", len(users)).Info("Demo users seeded")
	return len(users), nil
}
