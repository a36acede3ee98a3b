package services

import (
	"context"
	"testing"
	"time"

	"hrhub/internal/common"
	"hrhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	otpSvc   *MockOtpService
	cacheSvc *MockCacheService
	service  AuthService
	tenantID uuid.UUID
	userID   uuid.UUID
	hash     string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = &MockUserRepository{}
	suite.otpSvc = &MockOtpService{}
	suite.cacheSvc = &MockCacheService{}
	suite.service = NewAuthService(suite.userRepo, NewTokenService("test-secret", time.Hour), suite.otpSvc, suite.cacheSvc)
	suite.tenantID = uuid.New()
	suite.userID = uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	assert.NoError(suite.T(), err)
	suite.hash = string(hash)

	suite.userRepo.Test(suite.T())
	suite.otpSvc.Test(suite.T())
	suite.cacheSvc.Test(suite.T())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.userRepo.AssertExpectations(suite.T())
	suite.otpSvc.AssertExpectations(suite.T())
	suite.cacheSvc.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) verifiedUser() *models.User {
	return &models.User{
		ID:            suite.userID,
		TenantID:      suite.tenantID,
		LoginID:       "AR-JD-2024-0001",
		Email:         "jane@acme.example",
		PasswordHash:  suite.hash,
		Role:          models.RoleEmployee,
		EmailVerified: true,
		Active:        true,
		FirstLogin:    true,
	}
}

func (suite *AuthServiceTestSuite) allowLoginAttempts() {
	suite.cacheSvc.On("IsRateLimited", mock.Anything, mock.AnythingOfType("string"), loginAttemptLimit, loginAttemptWindow).Return(false, nil)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	user := suite.verifiedUser()
	suite.allowLoginAttempts()
	suite.userRepo.On("GetByTenantAndLoginID", mock.Anything, suite.tenantID, "AR-JD-2024-0001").Return(user, nil)
	suite.userRepo.On("UpdateLastLogin", mock.Anything, suite.userID).Return(nil)

	result, err := suite.service.Login(context.Background(), &LoginRequest{
		TenantID: suite.tenantID,
		LoginID:  "AR-JD-2024-0001",
		Password: "correct-password",
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Success)
	assert.False(suite.T(), result.VerificationPending)
	assert.NotEmpty(suite.T(), result.Token)
	assert.Equal(suite.T(), models.RoleEmployee, result.Role)
	assert.Equal(suite.T(), suite.tenantID, result.TenantID)
	assert.True(suite.T(), result.FirstLogin)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownLoginID() {
	suite.allowLoginAttempts()
	suite.userRepo.On("GetByTenantAndLoginID", mock.Anything, suite.tenantID, "NOPE-001").Return(nil, pgx.ErrNoRows)

	result, err := suite.service.Login(context.Background(), &LoginRequest{
		TenantID: suite.tenantID,
		LoginID:  "NOPE-001",
		Password: "whatever",
	})
	assert.ErrorIs(suite.T(), err, common.ErrInvalidCredentials)
	assert.Nil(suite.T(), result)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPasswordSameError() {
	user := suite.verifiedUser()
	suite.allowLoginAttempts()
	suite.userRepo.On("GetByTenantAndLoginID", mock.Anything, suite.tenantID, "AR-JD-2024-0001").Return(user, nil)

	result, err := suite.service.Login(context.Background(), &LoginRequest{
		TenantID: suite.tenantID,
		LoginID:  "AR-JD-2024-0001",
		Password: "wrong-password",
	})
	// Indistinguishable from the unknown-login rejection.
	assert.ErrorIs(suite.T(), err, common.ErrInvalidCredentials)
	assert.Nil(suite.T(), result)
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveAccountSameError() {
	user := suite.verifiedUser()
	user.Active = false
	suite.allowLoginAttempts()
	suite.userRepo.On("GetByTenantAndLoginID", mock.Anything, suite.tenantID, "AR-JD-2024-0001").Return(user, nil)

	result, err := suite.service.Login(context.Background(), &LoginRequest{
		TenantID: suite.tenantID,
		LoginID:  "AR-JD-2024-0001",
		Password: "correct-password",
	})
	assert.ErrorIs(suite.T(), err, common.ErrInvalidCredentials)
	assert.Nil(suite.T(), result)
}

func (suite *AuthServiceTestSuite) TestLogin_UnverifiedGetsOtpAndNoToken() {
	user := suite.verifiedUser()
	user.EmailVerified = false
	suite.allowLoginAttempts()
	suite.userRepo.On("GetByTenantAndLoginID", mock.Anything, suite.tenantID, "AR-JD-2024-0001").Return(user, nil)
	suite.otpSvc.On("Generate", mock.Anything, "jane@acme.example").Return(nil)

	result, err := suite.service.Login(context.Background(), &LoginRequest{
		TenantID: suite.tenantID,
		LoginID:  "AR-JD-2024-0001",
		Password: "correct-password",
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.VerificationPending)
	assert.Empty(suite.T(), result.Token)
}

func (suite *AuthServiceTestSuite) TestLogin_RateLimited() {
	suite.cacheSvc.On("IsRateLimited", mock.Anything, mock.AnythingOfType("string"), loginAttemptLimit, loginAttemptWindow).Return(true, nil)

	result, err := suite.service.Login(context.Background(), &LoginRequest{
		TenantID: suite.tenantID,
		LoginID:  "AR-JD-2024-0001",
		Password: "correct-password",
	})
	assert.ErrorIs(suite.T(), err, common.ErrTooManyRequests)
	assert.Nil(suite.T(), result)
}

func (suite *AuthServiceTestSuite) TestLogin_LastLoginFailureDoesNotBlock() {
	user := suite.verifiedUser()
	suite.allowLoginAttempts()
	suite.userRepo.On("GetByTenantAndLoginID", mock.Anything, suite.tenantID, "AR-JD-2024-0001").Return(user, nil)
	suite.userRepo.On("UpdateLastLogin", mock.Anything, suite.userID).Return(assert.AnError)

	result, err := suite.service.Login(context.Background(), &LoginRequest{
		TenantID: suite.tenantID,
		LoginID:  "AR-JD-2024-0001",
		Password: "correct-password",
	})
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), result.Token)
}

func (suite *AuthServiceTestSuite) TestVerifyOtp_Success() {
	user := suite.verifiedUser()
	user.EmailVerified = false
	suite.otpSvc.On("Validate", mock.Anything, "jane@acme.example", "123456").Return(nil)
	suite.userRepo.On("GetByEmail", mock.Anything, "jane@acme.example").Return(user, nil)
	suite.userRepo.On("MarkEmailVerified", mock.Anything, "jane@acme.example").Return(nil)

	err := suite.service.VerifyOtp(context.Background(), "jane@acme.example", "123456")
	assert.NoError(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestVerifyOtp_InvalidCode() {
	suite.otpSvc.On("Validate", mock.Anything, "jane@acme.example", "000000").Return(common.ErrInvalidOtp)

	err := suite.service.VerifyOtp(context.Background(), "jane@acme.example", "000000")
	assert.ErrorIs(suite.T(), err, common.ErrInvalidOtp)
}

func (suite *AuthServiceTestSuite) TestVerifyOtp_UnknownEmail() {
	suite.otpSvc.On("Validate", mock.Anything, "ghost@acme.example", "123456").Return(nil)
	suite.userRepo.On("GetByEmail", mock.Anything, "ghost@acme.example").Return(nil, nil)

	err := suite.service.VerifyOtp(context.Background(), "ghost@acme.example", "123456")
	assert.ErrorIs(suite.T(), err, common.ErrUserNotFound)
}

func (suite *AuthServiceTestSuite) TestResendOtp_Success() {
	user := suite.verifiedUser()
	user.EmailVerified = false
	suite.userRepo.On("GetByEmail", mock.Anything, "jane@acme.example").Return(user, nil)
	suite.otpSvc.On("Generate", mock.Anything, "jane@acme.example").Return(nil)

	err := suite.service.ResendOtp(context.Background(), "jane@acme.example")
	assert.NoError(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestResendOtp_AlreadyVerified() {
	user := suite.verifiedUser()
	suite.userRepo.On("GetByEmail", mock.Anything, "jane@acme.example").Return(user, nil)

	err := suite.service.ResendOtp(context.Background(), "jane@acme.example")
	assert.ErrorIs(suite.T(), err, common.ErrEmailAlreadyVerified)
}

func (suite *AuthServiceTestSuite) TestResendOtp_UnknownEmail() {
	suite.userRepo.On("GetByEmail", mock.Anything, "ghost@acme.example").Return(nil, nil)

	err := suite.service.ResendOtp(context.Background(), "ghost@acme.example")
	assert.ErrorIs(suite.T(), err, common.ErrUserNotFound)
}
