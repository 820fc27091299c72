package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/core/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
	"github.com/tillworks/pos_ledger_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	ctx          context.Context

	operator domain.User
	admin    domain.User
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
	suite.ctx = context.Background()

	hash, err := utils.HashPassword("correct horse battery")
	suite.Require().NoError(err)
	suite.operator = domain.User{
		UserID:       "user-op-1",
		Username:     "cashier1",
		PasswordHash: hash,
		Name:         "Front register",
	}
	suite.admin = domain.User{
		UserID:   "user-admin-1",
		Username: "manager",
		Name:     "Store manager",
		IsAdmin:  true,
	}
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	var saved domain.User
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	user, err := suite.service.CreateUser(suite.ctx, dto.RegisterUserRequest{
		Username: "  Cashier2 ",
		Password: "hunter2hunter2",
		Name:     "Second register",
	})

	suite.Require().NoError(err)
	suite.Equal("cashier2", user.Username, "username is normalized to lowercase")
	suite.NotEmpty(user.UserID)
	suite.NotEqual("hunter2hunter2", saved.PasswordHash, "password must never be stored in clear")
	suite.True(utils.CheckPasswordHash("hunter2hunter2", saved.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_UsernameTaken() {
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateUser(suite.ctx, dto.RegisterUserRequest{
		Username: "cashier1",
		Password: "hunter2hunter2",
		Name:     "dup",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "cashier1").Return(&suite.operator, nil).Once()

	user, err := suite.service.Authenticate(suite.ctx, " Cashier1 ", "correct horse battery")

	suite.Require().NoError(err)
	suite.Equal(suite.operator.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "cashier1").Return(&suite.operator, nil).Once()

	_, err := suite.service.Authenticate(suite.ctx, "cashier1", "wrong")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUserSameError() {
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "cashier1").Return(&suite.operator, nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", suite.ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, wrongPassErr := suite.service.Authenticate(suite.ctx, "cashier1", "wrong")
	_, unknownUserErr := suite.service.Authenticate(suite.ctx, "ghost", "whatever")

	suite.Require().Error(wrongPassErr)
	suite.Require().Error(unknownUserErr)
	suite.Equal(wrongPassErr.Error(), unknownUserErr.Error(), "responses must not reveal whether the username exists")
}

func (suite *UserServiceTestSuite) TestRequireAdmin_Success() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.admin.UserID).Return(&suite.admin, nil).Once()

	suite.NoError(suite.service.RequireAdmin(suite.ctx, suite.admin.UserID))
}

func (suite *UserServiceTestSuite) TestRequireAdmin_Forbidden() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.operator.UserID).Return(&suite.operator, nil).Once()

	err := suite.service.RequireAdmin(suite.ctx, suite.operator.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetUserByID(suite.ctx, "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
