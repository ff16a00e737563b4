package service

import (
	"errors"
	"testing"

	"go-store-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users     map[uuid.UUID]*model.User // by ID
	updateErr error
	updated   int
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error { return nil }

func (r *fakeUserRepo) UpdatePrivileges(userID uuid.UUID, privileges []model.Privilege) error {
	if u, ok := r.users[userID]; ok {
		u.Privileges = privileges
	}
	return nil
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateTokenVersion(userID uuid.UUID, version string) error { return nil }
func (r *fakeUserRepo) UpdateLastSeen(userID uuid.UUID) error                     { return nil }

type fakePrivilegeRepo struct{}

func (r *fakePrivilegeRepo) FindByCode(code string) (*model.Privilege, error) {
	return &model.Privilege{Code: code}, nil
}

func (r *fakePrivilegeRepo) FindByCodes(codes []string) ([]model.Privilege, error) {
	out := make([]model.Privilege, len(codes))
	for i, code := range codes {
		out[i] = model.Privilege{Code: code}
	}
	return out, nil
}

func (r *fakePrivilegeRepo) FindAll() ([]model.Privilege, error)     { return model.DefaultPrivileges, nil }
func (r *fakePrivilegeRepo) Create(privilege *model.Privilege) error { return nil }
func (r *fakePrivilegeRepo) SeedDefaults() error                     { return nil }

type fakeRoleRepo struct {
	roles map[uint]*model.Role
}

func (r *fakeRoleRepo) FindAll() ([]model.Role, error) { return nil, nil }

func (r *fakeRoleRepo) FindByID(id uint) (*model.Role, error) {
	if role, ok := r.roles[id]; ok {
		return role, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) FindByCode(code string) (*model.Role, error) {
	for _, role := range r.roles {
		if role.Code == code {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) Create(role *model.Role) error { return nil }
func (r *fakeRoleRepo) SeedDefaults() error           { return nil }

func staffUser(email string) *model.User {
	roleID := uint(2)
	u := &model.User{
		Email:    email,
		FullName: "Staff Member",
		RoleID:   &roleID,
		IsActive: true,
	}
	u.ID = uuid.New()
	return u
}

func newTestUserService(users *fakeUserRepo) UserService {
	roles := &fakeRoleRepo{roles: map[uint]*model.Role{
		1: {ID: 1, Code: model.RoleAdmin},
		2: {ID: 2, Code: model.RoleStaff},
	}}
	return NewUserService(users, &fakePrivilegeRepo{}, roles)
}

func TestUpdateUserPrivilegesFailedAuditWriteIsSurfaced(t *testing.T) {
	target := staffUser("staff@store.local")
	users := newFakeUserRepo(target)
	svc := newTestUserService(users)

	users.updateErr = errors.New("disk full")

	_, err := svc.UpdateUserPrivileges(Caller{ID: "admin-1"}, target.ID, []string{"product:view"})

	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
}

func TestUpdateUserPrivilegesRecordsAuditAndReplacesSet(t *testing.T) {
	target := staffUser("staff@store.local")
	users := newFakeUserRepo(target)
	svc := newTestUserService(users)

	updated, err := svc.UpdateUserPrivileges(Caller{ID: "admin-1"}, target.ID, []string{"product:view", "checkout:create"})
	require.NoError(t, err)

	assert.Equal(t, "admin-1", updated.UpdatedBy)
	assert.ElementsMatch(t, []string{"product:view", "checkout:create"}, updated.GetPrivilegeCodes())
	assert.Equal(t, 1, users.updated)
}

func TestUpdateUserSelfDemotionBlocked(t *testing.T) {
	adminID := uint(1)
	admin := staffUser("admin@store.local")
	admin.RoleID = &adminID
	users := newFakeUserRepo(admin)
	svc := newTestUserService(users)

	_, err := svc.UpdateUser(Caller{ID: admin.ID.String(), Role: model.RoleAdmin}, admin.ID, &UpdateUserRequest{
		Email:    admin.Email,
		FullName: admin.FullName,
		RoleID:   2, // STAFF
	})

	assert.ErrorIs(t, err, ErrSelfDemotion)
}

func TestDeleteUserSelfDeleteBlocked(t *testing.T) {
	admin := staffUser("admin@store.local")
	users := newFakeUserRepo(admin)
	svc := newTestUserService(users)

	err := svc.DeleteUser(Caller{ID: admin.ID.String()}, admin.ID)

	assert.ErrorIs(t, err, ErrSelfDelete)
	_, findErr := users.FindByID(admin.ID)
	assert.NoError(t, findErr, "user must still exist")
}
