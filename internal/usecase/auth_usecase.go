package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

const bcryptCost = 12

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(in RegisterInput) map[string]string
	ValidateLogin(in LoginInput) map[string]string
}

type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

type ProfileDTO struct {
	User  UserDTO `json:"user"`
	Phone string  `json:"phone"`
	Photo string  `json:"photo"`
}

type JwtAccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Photo       string `json:"photo"`
	DeletePhoto bool   `json:"delete_photo"`
}

type AuthResult struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repo.UserRepository
	profiles  repo.UserProfileRepository
	validator AuthValidator
	clock     Clock
}

func NewAuthUsecase(
	cfg config.Config,
	users repo.UserRepository,
	profiles repo.UserProfileRepository,
	validator AuthValidator,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		profiles:  profiles,
		validator: validator,
		clock:     clock,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	//入力検証（validatorに寄せる）
	if fields := u.validator.ValidateRegister(in); len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	//email重複は先に弾く
	existing, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return nil, NewValidationError(map[string]string{"email": "email is already registered"})
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(pwHash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := u.users.Create(ctx, user); err != nil {
		// unique違反は同時登録の競合
		return nil, NewHTTPError(http.StatusConflict, "email is already registered")
	}

	//空のプロフィールも一緒に用意しておく
	if _, err := u.profiles.GetOrCreateByUserID(ctx, user.ID); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthResult{
		User:  toUserDTO(user),
		Token: JwtAccessTokenDTO{AccessToken: token, ExpiresIn: expiresIn},
	}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if fields := u.validator.ValidateLogin(in); len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "account is disabled")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	//last_login更新
	now := u.clock.Now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	token, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthResult{
		User:  toUserDTO(user),
		Token: JwtAccessTokenDTO{AccessToken: token, ExpiresIn: expiresIn},
	}, nil
}

func (u *AuthUsecase) GetProfile(ctx context.Context, userID int64) (*ProfileDTO, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	profile, err := u.profiles.GetOrCreateByUserID(ctx, user.ID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &ProfileDTO{
		User:  toUserDTO(user),
		Phone: profile.Phone,
		Photo: profile.Photo,
	}, nil
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*ProfileDTO, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if err := u.users.Update(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	profile, err := u.profiles.GetOrCreateByUserID(ctx, user.ID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	profile.Phone = in.Phone
	//削除指定が最優先。新しい写真が来ていれば差し替え
	if in.DeletePhoto {
		profile.Photo = ""
	} else if in.Photo != "" {
		profile.Photo = in.Photo
	}

	if err := u.profiles.Save(ctx, profile); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &ProfileDTO{
		User:  toUserDTO(user),
		Phone: profile.Phone,
		Photo: profile.Photo,
	}, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := u.clock.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
	}
}
