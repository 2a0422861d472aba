package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

// AuditLogger 是 UserService 写审计日志所需的最小接口，由 UserLogService 实现。
type AuditLogger interface {
	LogAction(ctx context.Context, userID uint, action, description, details string) error
}

// UserService 负责用户管理的业务规则：邮箱唯一、记录存在性检查以及审计日志。
// 每个成功的写操作和单条读取都会写且只写一条日志；批量读取不写日志。
type UserService struct {
	userRepo repository.UserRepository
	audit    AuditLogger
}

// NewUserService 创建 UserService 实例。
func NewUserService(userRepo repository.UserRepository, audit AuditLogger) *UserService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for UserService")
	}
	if audit == nil {
		panic("AuditLogger cannot be nil for UserService")
	}
	return &UserService{userRepo: userRepo, audit: audit}
}

// GetAll 返回全部用户
func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("GetAll: Repository error")
		return nil, storageError("Error retrieving users", err)
	}
	return users, nil
}

// FilterByActive 返回 active 标志等于 isActive 的用户
func (s *UserService) FilterByActive(ctx context.Context, isActive bool) ([]domain.User, error) {
	users, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.IsActive == isActive {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// GetByID 返回单个用户，并记录一条 "Viewed" 日志。
func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", id)

	user, err := s.findUser(ctx, id, "Error retrieving user")
	if err != nil {
		logCtx.WithError(err).Warn("GetByID: Lookup failed")
		return nil, err
	}

	s.logAction(ctx, user.ID, domain.UserActionViewed,
		fmt.Sprintf("User profile viewed for %s", user.FullName()),
		fmt.Sprintf("Email: %s, Status: %s", user.Email, user.StatusLabel()),
	)
	return user, nil
}

// Create 创建用户。邮箱 (不区分大小写) 已被使用时返回 ErrEmailInUse，且不写入任何数据。
func (s *UserService) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	logCtx := logrus.WithField("email", user.Email)

	// 1. 检查邮箱是否已被使用
	taken, err := s.emailTaken(ctx, user.Email, 0)
	if err != nil {
		logCtx.WithError(err).Error("Create: Failed to check email uniqueness")
		return nil, storageError("Error creating user", err)
	}
	if taken {
		logCtx.Warn("Create: Email address is already in use")
		return nil, emailInUse()
	}

	// 2. 保存用户 (存储分配 ID)
	user.ID = 0
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 检查与写入之间的并发冲突由存储层唯一约束兜底
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Create: Duplicate email rejected by store")
			return nil, emailInUse()
		}
		logCtx.WithError(err).Error("Create: Repository error")
		return nil, storageError("Error creating user", err)
	}
	logCtx = logCtx.WithField("user_id", user.ID)

	// 3. 记录日志
	s.logAction(ctx, user.ID, domain.UserActionCreated,
		fmt.Sprintf("New user created: %s", user.FullName()),
		fmt.Sprintf("Email: %s, DateOfBirth: %s, Active: %s",
			user.Email, user.DateOfBirth.Format(domain.DateLayout), strconv.FormatBool(user.IsActive)),
	)

	logCtx.Info("User created successfully")
	return user, nil
}

// Update 用 user 的全部字段覆盖同 ID 的已有用户。
// 邮箱可以保持不变，但不能与其他用户 (不区分大小写) 重复。
func (s *UserService) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", user.ID)

	// 1. 查找原始记录
	existing, err := s.findUser(ctx, user.ID, "Error updating user")
	if err != nil {
		logCtx.WithError(err).Warn("Update: Lookup failed")
		return nil, err
	}

	// 2. 检查邮箱是否被其他用户使用
	taken, err := s.emailTaken(ctx, user.Email, user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Update: Failed to check email uniqueness")
		return nil, storageError("Error updating user", err)
	}
	if taken {
		logCtx.WithField("email", user.Email).Warn("Update: Email address is already in use")
		return nil, emailInUse()
	}

	// 3. 在覆盖前计算字段差异
	details := describeChanges(existing, user)

	existing.Forename = user.Forename
	existing.Surname = user.Surname
	existing.Email = user.Email
	existing.DateOfBirth = user.DateOfBirth
	existing.IsActive = user.IsActive

	if err := s.userRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Update: Duplicate email rejected by store")
			return nil, emailInUse()
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, userNotFound(user.ID)
		}
		logCtx.WithError(err).Error("Update: Repository error")
		return nil, storageError("Error updating user", err)
	}

	// 4. 记录日志
	s.logAction(ctx, existing.ID, domain.UserActionUpdated,
		fmt.Sprintf("User updated: %s", existing.FullName()),
		details,
	)

	logCtx.Info("User updated successfully")
	return existing, nil
}

// Delete 物理删除用户。日志在删除之前写入，删除失败时不会回滚日志。
// 该用户已有的日志会被保留。
func (s *UserService) Delete(ctx context.Context, id uint) error {
	logCtx := logrus.WithField("user_id", id)

	user, err := s.findUser(ctx, id, "Error deleting user")
	if err != nil {
		logCtx.WithError(err).Warn("Delete: Lookup failed")
		return err
	}

	s.logAction(ctx, user.ID, domain.UserActionDeleted,
		fmt.Sprintf("User deleted: %s", user.FullName()),
		fmt.Sprintf("Email: %s, DateOfBirth: %s, Status: %s",
			user.Email, user.DateOfBirth.Format(domain.DateLayout), user.StatusLabel()),
	)

	if err := s.userRepo.Delete(ctx, user); err != nil {
		logCtx.WithError(err).Error("Delete: Repository error")
		return storageError("Error deleting user", err)
	}

	logCtx.Info("User deleted successfully")
	return nil
}

// --- 私有辅助函数 ---

// findUser 查找用户，把仓库错误映射为服务层错误
func (s *UserService) findUser(ctx context.Context, id uint, storagePrefix string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, userNotFound(id)
		}
		return nil, storageError(storagePrefix, err)
	}
	if user == nil { // 防御
		return nil, userNotFound(id)
	}
	return user, nil
}

// emailTaken 检查除 excludeID 以外是否有用户使用该邮箱 (不区分大小写)。
// excludeID 为 0 时检查所有用户。
func (s *UserService) emailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return false, err
	}
	key := domain.NormalizeEmail(email)
	for _, u := range users {
		if u.ID != excludeID && domain.NormalizeEmail(u.Email) == key {
			return true, nil
		}
	}
	return false, nil
}

// logAction 写审计日志；失败只记录警告，不影响用户操作的结果
func (s *UserService) logAction(ctx context.Context, userID uint, action, description, details string) {
	if err := s.audit.LogAction(ctx, userID, action, description, details); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "action": action}).
			WithError(err).Warn("Failed to record user log")
	}
}

// describeChanges 生成 "Field: 'old' -> 'new'" 形式的差异描述
func describeChanges(before, after *domain.User) string {
	var changes []string
	if before.Forename != after.Forename {
		changes = append(changes, fmt.Sprintf("Forename: '%s' -> '%s'", before.Forename, after.Forename))
	}
	if before.Surname != after.Surname {
		changes = append(changes, fmt.Sprintf("Surname: '%s' -> '%s'", before.Surname, after.Surname))
	}
	if before.Email != after.Email {
		changes = append(changes, fmt.Sprintf("Email: '%s' -> '%s'", before.Email, after.Email))
	}
	oldDOB, newDOB := before.DateOfBirth.Format(domain.DateLayout), after.DateOfBirth.Format(domain.DateLayout)
	if oldDOB != newDOB {
		changes = append(changes, fmt.Sprintf("DateOfBirth: '%s' -> '%s'", oldDOB, newDOB))
	}
	if before.IsActive != after.IsActive {
		changes = append(changes, fmt.Sprintf("Status: '%s' -> '%s'",
			domain.StatusLabel(before.IsActive), domain.StatusLabel(after.IsActive)))
	}
	if len(changes) == 0 {
		return "No specific changes detected"
	}
	return strings.Join(changes, ", ")
}
