package handler

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/urbannest/urbannest/dao/model"
	"github.com/urbannest/urbannest/internal/resputil"
	"github.com/urbannest/urbannest/internal/util"
	"github.com/urbannest/urbannest/pkg/config"
	"github.com/urbannest/urbannest/pkg/logutils"
	"github.com/urbannest/urbannest/pkg/mailer"
	"github.com/urbannest/urbannest/pkg/sms"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

const (
	otpTTL        = 5 * time.Minute
	resetTokenTTL = time.Hour
)

type AuthMgr struct {
	name     string
	db       *gorm.DB
	tokenMgr *util.TokenManager
	mailer   mailer.Interface
	sms      sms.Interface
	google   *req.Client
}

func NewAuthMgr(conf *RegisterConfig) Manager {
	return &AuthMgr{
		name:     "auth",
		db:       conf.DB,
		tokenMgr: util.GetTokenMgr(),
		mailer:   conf.Mailer,
		sms:      conf.SMS,
		google: req.C().
			SetBaseURL("https://oauth2.googleapis.com").
			SetTimeout(10 * time.Second),
	}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("signup/builder", mgr.SignupBuilder)
	g.POST("signup/customer", mgr.SignupCustomer)
	g.POST("login", mgr.Login)
	g.POST("refresh", mgr.RefreshToken)
	g.POST("auth/google", mgr.GoogleLogin)
	g.POST("otp/send", mgr.SendOTP)
	g.POST("otp/verify", mgr.VerifyOTP)
	g.POST("password/reset", mgr.ResetPassword)
}

func (mgr *AuthMgr) RegisterProtected(g *gin.RouterGroup) {
	g.PUT("password", mgr.UpdatePassword)
}

func (mgr *AuthMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	SignupBuilderReq struct {
		Name         string `json:"name" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=8"`
		Phone        string `json:"phone"`
		BusinessName string `json:"businessName"`
		Address      string `json:"address"`
		City         string `json:"city"`
	}

	SignupCustomerReq struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Phone    string `json:"phone"`
		Message  string `json:"message"` // What the customer is looking for.
	}

	LoginReq struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	LoginResp struct {
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
		Context      UserContext `json:"context"`
	}

	UserContext struct {
		UserID uint       `json:"userID"`
		Name   string     `json:"name"`
		Email  string     `json:"email"`
		Role   model.Role `json:"role"`
	}
)

// SignupBuilder godoc
// @Summary Register a builder account
// @Description Create a builder with hashed password and business metadata, then log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body SignupBuilderReq true "Builder signup"
// @Success 200 {object} resputil.Response[LoginResp] "Tokens for the new account"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/signup/builder [post]
func (mgr *AuthMgr) SignupBuilder(c *gin.Context) {
	var req SignupBuilderReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	user, err := mgr.createUser(c, createUserArgs{
		name:     req.Name,
		email:    req.Email,
		password: req.Password,
		phone:    req.Phone,
		role:     model.RoleBuilder,
		attributes: model.UserAttribute{
			BusinessName: req.BusinessName,
			Address:      req.Address,
			City:         req.City,
		},
	})
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	mgr.loginResponse(c, user)
}

// SignupCustomer godoc
// @Summary Register a customer account
// @Description Create a customer login and record a sales lead
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body SignupCustomerReq true "Customer signup"
// @Success 200 {object} resputil.Response[LoginResp] "Tokens for the new account"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/signup/customer [post]
func (mgr *AuthMgr) SignupCustomer(c *gin.Context) {
	var req SignupCustomerReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	user, err := mgr.createUser(c, createUserArgs{
		name:     req.Name,
		email:    req.Email,
		password: req.Password,
		phone:    req.Phone,
		role:     model.RoleCustomer,
	})
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	lead := model.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   user.Phone,
		Message: req.Message,
	}
	if err := mgr.db.WithContext(c).Create(&lead).Error; err != nil {
		logutils.Log.Error("record lead: ", err)
	} else {
		// Mail delivery must not block or fail the signup.
		go func() {
			phone := ""
			if lead.Phone != nil {
				phone = *lead.Phone
			}
			if err := mgr.mailer.SendLeadNotification(lead.Name, lead.Email, phone, lead.Message); err != nil {
				logutils.Log.Error("lead notification: ", err)
			}
		}()
	}

	mgr.loginResponse(c, user)
}

type createUserArgs struct {
	name       string
	email      string
	password   string
	phone      string
	role       model.Role
	attributes model.UserAttribute
}

func (mgr *AuthMgr) createUser(c *gin.Context, args createUserArgs) (*model.User, error) {
	var count int64
	if err := mgr.db.WithContext(c).Model(&model.User{}).
		Where("email = ?", args.email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("email %s is already registered", args.email)
	}

	user := model.User{
		Name:       args.name,
		Email:      args.email,
		Role:       args.role,
		Status:     model.StatusActive,
		Attributes: datatypes.NewJSONType(args.attributes),
	}
	if args.password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(args.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hashed)
		user.Password = &h
	}
	if args.phone != "" {
		user.Phone = &args.phone
	}
	if err := mgr.db.WithContext(c).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (mgr *AuthMgr) loginResponse(c *gin.Context, user *model.User) {
	jwtMessage := util.JWTMessage{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}
	accessToken, refreshToken, err := mgr.tokenMgr.CreateTokens(&jwtMessage)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, LoginResp{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Context: UserContext{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
		},
	})
}

// Login godoc
// @Summary Email and password login
// @Description Verify credentials and issue access and refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body LoginReq true "Credentials"
// @Success 200 {object} resputil.Response[LoginResp] "JWT tokens and user context"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Failure 401 {object} resputil.Response[any] "Wrong email or password"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/login [post]
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	l := logutils.Log.WithFields(logutils.Fields{"email": req.Email})

	var user model.User
	if err := mgr.db.WithContext(c).
		Where("email = ?", req.Email).First(&user).Error; err != nil {
		l.Error("login: ", err)
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
		return
	}
	if user.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)) != nil {
		l.Error("login: password mismatch")
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
		return
	}
	if user.Status != model.StatusActive {
		l.Error("login: user is not active")
		resputil.HTTPError(c, http.StatusUnauthorized, "User is not active", resputil.InvalidCredentials)
		return
	}

	mgr.loginResponse(c, &user)
}

type RefreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken godoc
// @Summary Refresh JWT tokens
// @Description Exchange a valid refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body RefreshReq true "Refresh token"
// @Success 200 {object} resputil.Response[LoginResp] "New token pair"
// @Failure 401 {object} resputil.Response[any] "Expired or malformed token"
// @Router /v1/refresh [post]
func (mgr *AuthMgr) RefreshToken(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	msg, err := mgr.tokenMgr.CheckToken(req.RefreshToken)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, err.Error(), resputil.TokenExpired)
		return
	}

	// Re-read the user so a role change invalidates old refresh tokens.
	var user model.User
	if err := mgr.db.WithContext(c).First(&user, msg.UserID).Error; err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "User not found", resputil.TokenInvalid)
		return
	}
	mgr.loginResponse(c, &user)
}

type GoogleLoginReq struct {
	IDToken string `json:"idToken" binding:"required"`
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleLogin godoc
// @Summary Google ID-token sign-in
// @Description Verify a Google ID token against the tokeninfo endpoint and log the user in, creating the account on first sign-in
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body GoogleLoginReq true "Google ID token"
// @Success 200 {object} resputil.Response[LoginResp] "JWT tokens and user context"
// @Failure 401 {object} resputil.Response[any] "Token rejected by Google or audience mismatch"
// @Router /v1/auth/google [post]
func (mgr *AuthMgr) GoogleLogin(c *gin.Context) {
	var req GoogleLoginReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	var info googleTokenInfo
	resp, err := mgr.google.R().
		SetContext(c).
		SetQueryParam("id_token", req.IDToken).
		SetSuccessResult(&info).
		Get("/tokeninfo")
	if err != nil || resp.IsErrorState() {
		resputil.HTTPError(c, http.StatusUnauthorized, "Google token verification failed", resputil.TokenInvalid)
		return
	}
	if info.Aud != config.GetConfig().GoogleOAuth.ClientID {
		resputil.HTTPError(c, http.StatusUnauthorized, "Token audience mismatch", resputil.TokenInvalid)
		return
	}
	if info.EmailVerified != "true" {
		resputil.HTTPError(c, http.StatusUnauthorized, "Google email not verified", resputil.TokenInvalid)
		return
	}

	var user model.User
	err = mgr.db.WithContext(c).Where("email = ?", info.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, createErr := mgr.createUser(c, createUserArgs{
			name:  info.Name,
			email: info.Email,
			role:  model.RoleCustomer,
		})
		if createErr != nil {
			resputil.Error(c, createErr.Error(), resputil.NotSpecified)
			return
		}
		user = *created
	} else if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	mgr.loginResponse(c, &user)
}

type (
	SendOTPReq struct {
		Phone string `json:"phone" binding:"required"`
	}
	VerifyOTPReq struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
)

// SendOTP godoc
// @Summary Send a phone login code
// @Description Generate a 6-digit code, store its hash with a 5-minute expiry and deliver it by SMS
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body SendOTPReq true "Phone number"
// @Success 200 {object} resputil.Response[any] "Code sent"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/otp/send [post]
func (mgr *AuthMgr) SendOTP(c *gin.Context) {
	var req SendOTPReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	code, err := randomCode()
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	row := model.OTPCode{
		Phone:     req.Phone,
		CodeHash:  string(hashed),
		ExpiresAt: time.Now().Add(otpTTL).Unix(),
	}
	if err := mgr.db.WithContext(c).Create(&row).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	if err := mgr.sms.SendOTP(c, req.Phone, code); err != nil {
		logutils.Log.Error("send otp: ", err)
		// Fall back to mail for known users when the gateway is down.
		var user model.User
		if dbErr := mgr.db.WithContext(c).
			Where("phone = ?", req.Phone).First(&user).Error; dbErr != nil {
			resputil.Error(c, "Could not deliver the code", resputil.NotSpecified)
			return
		}
		if mailErr := mgr.mailer.SendLoginCode(user.Email, code); mailErr != nil {
			logutils.Log.Error("otp mail fallback: ", mailErr)
			resputil.Error(c, "Could not deliver the code", resputil.NotSpecified)
			return
		}
	}
	resputil.Success(c, "code sent")
}

// VerifyOTP godoc
// @Summary Verify a phone login code
// @Description Check the code against the stored hash, consume it and log the user in, creating the account on first login
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body VerifyOTPReq true "Phone and code"
// @Success 200 {object} resputil.Response[LoginResp] "JWT tokens and user context"
// @Failure 401 {object} resputil.Response[any] "Wrong, expired or consumed code"
// @Router /v1/otp/verify [post]
func (mgr *AuthMgr) VerifyOTP(c *gin.Context) {
	var req VerifyOTPReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	var row model.OTPCode
	err := mgr.db.WithContext(c).
		Where("phone = ? AND consumed = false AND expires_at > ?", req.Phone, time.Now().Unix()).
		Order("created_at DESC").
		First(&row).Error
	if err != nil ||
		bcrypt.CompareHashAndPassword([]byte(row.CodeHash), []byte(req.Code)) != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid or expired code", resputil.OTPInvalid)
		return
	}

	if err := mgr.db.WithContext(c).Model(&row).Update("consumed", true).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	var user model.User
	err = mgr.db.WithContext(c).Where("phone = ?", req.Phone).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, createErr := mgr.createUser(c, createUserArgs{
			name:  req.Phone,
			email: fmt.Sprintf("%s@phone.urbannest.local", uuid.New().String()[:8]),
			phone: req.Phone,
			role:  model.RoleCustomer,
		})
		if createErr != nil {
			resputil.Error(c, createErr.Error(), resputil.NotSpecified)
			return
		}
		user = *created
	} else if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	mgr.loginResponse(c, &user)
}

// ResetPasswordReq drives both phases of the reset flow: with only Email set
// it mails a reset link, with Token and NewPassword set it consumes the token
// and stores the new password.
type ResetPasswordReq struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword godoc
// @Summary Request or complete a password reset
// @Description With an email, send a reset link; with a token and new password, consume the token and update the password
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body ResetPasswordReq true "Email, or token plus new password"
// @Success 200 {object} resputil.Response[any] "Reset handled"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Failure 401 {object} resputil.Response[any] "Token invalid, expired or consumed"
// @Router /v1/password/reset [post]
func (mgr *AuthMgr) ResetPassword(c *gin.Context) {
	var req ResetPasswordReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	switch {
	case req.Token != "" && req.NewPassword != "":
		mgr.confirmReset(c, req.Token, req.NewPassword)
	case req.Email != "":
		mgr.requestReset(c, req.Email)
	default:
		resputil.BadRequestError(c, "either email or token with newPassword is required")
	}
}

func (mgr *AuthMgr) requestReset(c *gin.Context, email string) {
	var user model.User
	if err := mgr.db.WithContext(c).Where("email = ?", email).First(&user).Error; err != nil {
		// Do not leak whether the address is registered.
		resputil.Success(c, "reset requested")
		return
	}

	token := uuid.New().String()
	row := model.ResetToken{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(resetTokenTTL).Unix(),
	}
	if err := mgr.db.WithContext(c).Create(&row).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", config.GetConfig().Host, token)
	go func() {
		if err := mgr.mailer.SendPasswordReset(user.Email, link); err != nil {
			logutils.Log.Error("password reset mail: ", err)
		}
	}()
	resputil.Success(c, "reset requested")
}

func (mgr *AuthMgr) confirmReset(c *gin.Context, token, newPassword string) {
	if len(newPassword) < 8 {
		resputil.BadRequestError(c, "password must be at least 8 characters")
		return
	}

	var row model.ResetToken
	err := mgr.db.WithContext(c).
		Where("token_hash = ? AND consumed = false AND expires_at > ?", hashToken(token), time.Now().Unix()).
		First(&row).Error
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid or expired reset token", resputil.TokenInvalid)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	err = mgr.db.WithContext(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", row.UserID).
			Update("password", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Model(&row).Update("consumed", true).Error
	})
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "password updated")
}

type UpdatePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdatePassword godoc
// @Summary Change the caller's password
// @Description Verify the old password and store a hash of the new one
// @Tags Auth
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body UpdatePasswordReq true "Old and new password"
// @Success 200 {object} resputil.Response[any] "Password updated"
// @Failure 401 {object} resputil.Response[any] "Old password mismatch"
// @Router /v1/password [put]
func (mgr *AuthMgr) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordReq
	if err := c.ShouldBind(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	token := util.GetToken(c)
	var user model.User
	if err := mgr.db.WithContext(c).First(&user, token.UserID).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	if user.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.OldPassword)) != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Old password mismatch", resputil.InvalidCredentials)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	if err := mgr.db.WithContext(c).Model(&user).
		Update("password", string(hashed)).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, "password updated")
}

// randomCode returns a 6-digit one-time code.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// hashToken stores reset tokens hashed so a database leak does not expose
// usable links.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
