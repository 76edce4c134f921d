package tests

import (
	"testing"
	"time"

	"github.com/pitabwire/frame/data"
	"github.com/pitabwire/frame/frametests/definition"
	"github.com/pitabwire/util"
	"github.com/stretchr/testify/suite"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
	"github.com/antinvestor/service-accounts/apps/default/service/repository"
)

type ProfileRepositoryTestSuite struct {
	BaseTestSuite
}

func TestProfileRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileRepositoryTestSuite))
}

func (s *ProfileRepositoryTestSuite) TestCreateIfAbsentIsIdempotent() {
	s.WithTestDependencies(s.T(), func(t *testing.T, dep *definition.DependencyOption) {
		ctx, svc := s.CreateService(t, dep)
		workMan, dbPool := s.GetRepoDeps(ctx, svc)
		repo := repository.NewProfileRepository(ctx, dbPool, workMan)

		accountID := util.IDString()

		created, err := repo.CreateIfAbsent(ctx, accountID, "one@example.com")
		s.Require().NoError(err)
		s.Equal(models.RoleUser, created.Role)

		// A second create for the same id keeps the original row untouched.
		again, err := repo.CreateIfAbsent(ctx, accountID, "two@example.com")
		s.Require().NoError(err)
		s.Equal("one@example.com", again.Email)

		all, err := repo.ListAll(ctx)
		s.Require().NoError(err)
		s.Len(all, 1)
	})
}

func (s *ProfileRepositoryTestSuite) TestUpdateRoleBumpsModifiedAt() {
	s.WithTestDependencies(s.T(), func(t *testing.T, dep *definition.DependencyOption) {
		ctx, svc := s.CreateService(t, dep)
		workMan, dbPool := s.GetRepoDeps(ctx, svc)
		repo := repository.NewProfileRepository(ctx, dbPool, workMan)

		accountID := util.IDString()
		created, err := repo.CreateIfAbsent(ctx, accountID, "user@example.com")
		s.Require().NoError(err)

		updated, err := repo.UpdateRole(ctx, accountID, models.RoleAdmin)
		s.Require().NoError(err)
		s.Equal(models.RoleAdmin, updated.Role)
		s.True(updated.ModifiedAt.After(created.ModifiedAt))
	})
}

func (s *ProfileRepositoryTestSuite) TestUpdateRoleUnknownIDIsNoRows() {
	s.WithTestDependencies(s.T(), func(t *testing.T, dep *definition.DependencyOption) {
		ctx, svc := s.CreateService(t, dep)
		workMan, dbPool := s.GetRepoDeps(ctx, svc)
		repo := repository.NewProfileRepository(ctx, dbPool, workMan)

		_, err := repo.UpdateRole(ctx, util.IDString(), models.RoleAdmin)
		s.Require().Error(err)
		s.True(data.ErrorIsNoRows(err))
	})
}

func (s *ProfileRepositoryTestSuite) TestTouchSignIn() {
	s.WithTestDependencies(s.T(), func(t *testing.T, dep *definition.DependencyOption) {
		ctx, svc := s.CreateService(t, dep)
		workMan, dbPool := s.GetRepoDeps(ctx, svc)
		repo := repository.NewProfileRepository(ctx, dbPool, workMan)

		accountID := util.IDString()
		_, err := repo.CreateIfAbsent(ctx, accountID, "user@example.com")
		s.Require().NoError(err)

		at := time.Now().UTC().Truncate(time.Millisecond)
		s.Require().NoError(repo.TouchSignIn(ctx, accountID, at))

		got, err := repo.GetByID(ctx, accountID)
		s.Require().NoError(err)
		s.Require().NotNil(got.LastSignInAt)
		s.WithinDuration(at, *got.LastSignInAt, time.Second)
	})
}

func (s *ProfileRepositoryTestSuite) TestListAllNewestFirst() {
	s.WithTestDependencies(s.T(), func(t *testing.T, dep *definition.DependencyOption) {
		ctx, svc := s.CreateService(t, dep)
		workMan, dbPool := s.GetRepoDeps(ctx, svc)
		repo := repository.NewProfileRepository(ctx, dbPool, workMan)

		first, err := repo.CreateIfAbsent(ctx, util.IDString(), "first@example.com")
		s.Require().NoError(err)
		time.Sleep(10 * time.Millisecond)
		second, err := repo.CreateIfAbsent(ctx, util.IDString(), "second@example.com")
		s.Require().NoError(err)

		all, err := repo.ListAll(ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 2)
		s.Equal(second.GetID(), all[0].GetID())
		s.Equal(first.GetID(), all[1].GetID())
	})
}

func (s *ProfileRepositoryTestSuite) TestDeleteCascadesPreferences() {
	s.WithTestDependencies(s.T(), func(t *testing.T, dep *definition.DependencyOption) {
		ctx, svc := s.CreateService(t, dep)
		workMan, dbPool := s.GetRepoDeps(ctx, svc)
		profileRepo := repository.NewProfileRepository(ctx, dbPool, workMan)
		prefRepo := repository.NewPreferenceRepository(ctx, dbPool, workMan)

		accountID := util.IDString()
		_, err := profileRepo.CreateIfAbsent(ctx, accountID, "user@example.com")
		s.Require().NoError(err)

		_, err = prefRepo.Upsert(ctx, accountID, "tr")
		s.Require().NoError(err)

		s.Require().NoError(profileRepo.Delete(ctx, accountID))

		_, err = profileRepo.GetByID(ctx, accountID)
		s.Require().Error(err)
		s.True(data.ErrorIsNoRows(err))

		_, err = prefRepo.GetByProfileID(ctx, accountID)
		s.Require().Error(err)
		s.True(data.ErrorIsNoRows(err))
	})
}
