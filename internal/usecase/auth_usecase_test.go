package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type okAuthValidator struct{}

func (okAuthValidator) ValidateRegister(in usecase.RegisterInput) map[string]string { return nil }
func (okAuthValidator) ValidateLogin(in usecase.LoginInput) map[string]string       { return nil }

type failAuthValidator struct{}

func (failAuthValidator) ValidateRegister(in usecase.RegisterInput) map[string]string {
	return map[string]string{"password": "password must be at least 8 characters"}
}
func (failAuthValidator) ValidateLogin(in usecase.LoginInput) map[string]string {
	return map[string]string{"email": "email is required"}
}

var authNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newAuthUsecase(users *UserRepoMock, profiles *UserProfileRepoMock, v usecase.AuthValidator) *usecase.AuthUsecase {
	cfg := config.Config{JWTSecret: "test_secret"}
	return usecase.NewAuthUsecase(cfg, users, profiles, v, fixedClock{t: authNow})
}

func TestAuthUsecase_Register_ValidationError(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users, new(UserProfileRepoMock), failAuthValidator{})

	_, err := uc.Register(context.Background(), usecase.RegisterInput{Email: "a@example.com", Password: "short"})

	ve, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, ve.Fields, "password")

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users, new(UserProfileRepoMock), okAuthValidator{})

	users.On("FindByEmail", mock.Anything, "client@example.com").Return(&model.User{ID: 3}, nil)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{Email: "client@example.com", Password: "clientpass"})

	ve, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, ve.Fields, "email")

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	users := new(UserRepoMock)
	profiles := new(UserProfileRepoMock)
	uc := newAuthUsecase(users, profiles, okAuthValidator{})

	users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 平文は保存されない
		return u.Email == "new@example.com" && u.Role == model.RoleUser && u.IsActive &&
			u.PasswordHash != "newuserpass" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newuserpass")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 5
	}).Return(nil)
	profiles.On("GetOrCreateByUserID", mock.Anything, int64(5)).Return(model.UserProfile{UserID: 5}, nil)

	out, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "new@example.com",
		Password: "newuserpass",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.User.ID)
	assert.NotEmpty(t, out.Token.AccessToken)

	users.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users, new(UserProfileRepoMock), okAuthValidator{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("clientpass"), bcrypt.MinCost)
	users.On("FindByEmail", mock.Anything, "client@example.com").Return(&model.User{
		ID: 3, Email: "client@example.com", PasswordHash: string(hash), IsActive: true,
	}, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "client@example.com", Password: "wrong"})
	assertErrContains(t, err, "invalid email or password")

	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_DisabledUser(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users, new(UserProfileRepoMock), okAuthValidator{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("clientpass"), bcrypt.MinCost)
	users.On("FindByEmail", mock.Anything, "client@example.com").Return(&model.User{
		ID: 3, PasswordHash: string(hash), IsActive: false,
	}, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "client@example.com", Password: "clientpass"})
	assertErrContains(t, err, "disabled")
}

func TestAuthUsecase_Login_Success_IssuesJWT(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users, new(UserProfileRepoMock), okAuthValidator{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("clientpass"), bcrypt.MinCost)
	users.On("FindByEmail", mock.Anything, "client@example.com").Return(&model.User{
		ID: 3, Email: "client@example.com", PasswordHash: string(hash), Role: model.RoleUser, IsActive: true,
	}, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil && u.LastLoginAt.Equal(authNow)
	})).Return(nil)

	out, err := uc.Login(context.Background(), usecase.LoginInput{Email: "client@example.com", Password: "clientpass"})
	assert.NoError(t, err)

	//発行されたtokenのclaimsを確認
	token, perr := jwt.Parse(out.Token.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test_secret"), nil
	})
	assert.NoError(t, perr)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(3), claims["sub"])
	assert.Equal(t, "USER", claims["role"])
	assert.Equal(t, float64(authNow.Add(24*time.Hour).Unix()), claims["exp"])

	users.AssertExpectations(t)
}

func TestAuthUsecase_GetProfile(t *testing.T) {
	users := new(UserRepoMock)
	profiles := new(UserProfileRepoMock)
	uc := newAuthUsecase(users, profiles, okAuthValidator{})

	users.On("FindByID", mock.Anything, int64(3)).Return(&model.User{ID: 3, Email: "client@example.com", FirstName: "Client"}, nil)
	profiles.On("GetOrCreateByUserID", mock.Anything, int64(3)).Return(model.UserProfile{UserID: 3, Phone: "123456789"}, nil)

	out, err := uc.GetProfile(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, "client@example.com", out.User.Email)
	assert.Equal(t, "123456789", out.Phone)
}

// delete_photoが最優先。新しい写真より強い
func TestAuthUsecase_UpdateProfile_DeletePhoto(t *testing.T) {
	users := new(UserRepoMock)
	profiles := new(UserProfileRepoMock)
	uc := newAuthUsecase(users, profiles, okAuthValidator{})

	users.On("FindByID", mock.Anything, int64(3)).Return(&model.User{ID: 3}, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	profiles.On("GetOrCreateByUserID", mock.Anything, int64(3)).Return(model.UserProfile{UserID: 3, Photo: "user_photos/old.jpg"}, nil)
	profiles.On("Save", mock.Anything, mock.MatchedBy(func(p model.UserProfile) bool {
		return p.Photo == ""
	})).Return(nil)

	out, err := uc.UpdateProfile(context.Background(), 3, usecase.UpdateProfileInput{
		FirstName:   "Client",
		Phone:       "987654321",
		Photo:       "user_photos/new.jpg",
		DeletePhoto: true,
	})
	assert.NoError(t, err)
	assert.Empty(t, out.Photo)
	assert.Equal(t, "987654321", out.Phone)

	profiles.AssertExpectations(t)
}
