//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/handler/dto/request"
	resdto "mcdee-marketplace/internal/handler/dto/response"
	"mcdee-marketplace/tests/common/authtest"
	"mcdee-marketplace/tests/common/builder"
	"mcdee-marketplace/tests/common/dbtest"
	"mcdee-marketplace/tests/common/httptest"
	"mcdee-marketplace/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	logoutURL   = "/api/auth/logout"
	refreshURL  = "/api/auth/refresh"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	// テスト用ユーザーを作成
	dbtest.CreateTestUser(s.T(), s.DB, "test@example.com", string(user.RoleUser))
	dbtest.CreateTestUser(s.T(), s.DB, "vendor@example.com", string(user.RoleVendor))
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com", string(user.RoleUser))

	// 非アクティブユーザーを作成
	ctx := s.T().Context()
	_, err := s.DB.Exec(ctx, "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestRegister() {
	tests := []struct {
		name           string
		build          func() request.RegisterRequest
		expectedStatus int
		description    string
	}{
		{
			name: "一般ユーザー登録",
			build: func() request.RegisterRequest {
				return builder.NewAuthBuilder().WithEmail("new@example.com").BuildRegisterDTO()
			},
			expectedStatus: http.StatusCreated,
			description:    "一般ユーザーが登録できること",
		},
		{
			name: "vendor with category",
			build: func() request.RegisterRequest {
				return builder.NewAuthBuilder().WithEmail("shop@example.com").AsVendor("ecommerce").BuildRegisterDTO()
			},
			expectedStatus: http.StatusCreated,
			description:    "カテゴリ付きでベンダー登録できること",
		},
		{
			name: "vendor without category",
			build: func() request.RegisterRequest {
				req := builder.NewAuthBuilder().WithEmail("nocat@example.com").BuildRegisterDTO()
				req.Role = string(user.RoleVendor)
				return req
			},
			expectedStatus: http.StatusUnprocessableEntity,
			description:    "カテゴリなしのベンダーは拒否されること",
		},
		{
			name: "登録済みメールアドレス",
			build: func() request.RegisterRequest {
				return builder.NewAuthBuilder().WithEmail("test@example.com").BuildRegisterDTO()
			},
			expectedStatus: http.StatusConflict,
			description:    "重複メールアドレスは拒否されること",
		},
		{
			name: "admin role cannot self-register",
			build: func() request.RegisterRequest {
				req := builder.NewAuthBuilder().WithEmail("root@example.com").BuildRegisterDTO()
				req.Role = string(user.RoleAdmin)
				return req
			},
			expectedStatus: http.StatusBadRequest,
			description:    "管理者ロールでの登録は拒否されること",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			req := tt.build()
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, req, "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description+": "+w.Body.String())

			if tt.expectedStatus == http.StatusCreated {
				var res resdto.UserResponse
				require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
				require.Equal(t, req.Email, res.Email)
				require.Equal(t, req.Role, res.Role)
				require.False(t, res.KYCVerified, "登録直後はKYC未承認")

				// 登録したパスワードでログインできること
				authtest.LoginUser(t, s.Router, req.Email, req.Password)
			}
		})
	}
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		description    string
	}{
		{
			name:           "正常なログイン",
			email:          "test@example.com",
			password:       dbtest.DefaultPassword,
			expectedStatus: http.StatusOK,
			description:    "有効な認証情報でログインできること",
		},
		{
			name:           "存在しないユーザー",
			email:          "nonexistent@example.com",
			password:       dbtest.DefaultPassword,
			expectedStatus: http.StatusUnauthorized,
			description:    "存在しないユーザーでログインできないこと",
		},
		{
			name:           "間違ったパスワード",
			email:          "test@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
			description:    "間違ったパスワードでログインできないこと",
		},
		{
			name:           "非アクティブユーザー",
			email:          "inactive@example.com",
			password:       dbtest.DefaultPassword,
			expectedStatus: http.StatusForbidden,
			description:    "非アクティブユーザーはログインできないこと",
		},
		{
			name:           "空のメールアドレス",
			email:          "",
			password:       dbtest.DefaultPassword,
			expectedStatus: http.StatusBadRequest,
			description:    "空のメールアドレスは拒否されること",
		},
		{
			name:           "空のパスワード",
			email:          "test@example.com",
			password:       "",
			expectedStatus: http.StatusBadRequest,
			description:    "空のパスワードは拒否されること",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			}

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusOK {
				var loginRes resdto.LoginResponse
				err := httptest.DecodeResponseBody(t, w.Body, &loginRes)
				require.NoError(t, err)
				require.NotEmpty(t, loginRes.AccessToken, "アクセストークンが空")
				require.Greater(t, loginRes.ExpiresIn, int64(0), "有効期限が無効")
				require.NotNil(t, httptest.ExtractCookie(w, "refresh_token"), "リフレッシュトークンのCookieがない")

				// last_loginが更新されることを確認
				var lastLogin any
				err = s.DB.QueryRow(t.Context(), "SELECT last_login FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_loginが更新されていない")
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	tests := []struct {
		name           string
		setupCookies   func() []*http.Cookie
		body           any
		expectedStatus int
		description    string
	}{
		{
			name: "正常なリフレッシュ (cookie)",
			setupCookies: func() []*http.Cookie {
				w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL,
					request.LoginRequest{Email: "test@example.com", Password: dbtest.DefaultPassword}, "")
				require.Equal(s.T(), http.StatusOK, w.Code)
				return []*http.Cookie{httptest.ExtractCookie(w, "refresh_token")}
			},
			expectedStatus: http.StatusOK,
			description:    "有効なリフレッシュトークンでトークンが更新されること",
		},
		{
			name:           "無効なリフレッシュトークン",
			setupCookies:   func() []*http.Cookie { return nil },
			body:           request.RefreshRequest{RefreshToken: "invalid-refresh-token"},
			expectedStatus: http.StatusUnauthorized,
			description:    "無効なリフレッシュトークンは拒否されること",
		},
		{
			name:           "リフレッシュトークンなし",
			setupCookies:   func() []*http.Cookie { return nil },
			expectedStatus: http.StatusUnauthorized,
			description:    "トークンなしは拒否されること",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, tt.body, tt.setupCookies(), "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusOK {
				var refreshRes resdto.RefreshResponse
				err := httptest.DecodeResponseBody(t, w.Body, &refreshRes)
				require.NoError(t, err)
				require.NotEmpty(t, refreshRes.AccessToken, "新しいアクセストークンが空")
			}
		})
	}
}

func (s *authSuite) TestLogout() {
	tests := []struct {
		name           string
		setupToken     func() string
		expectedStatus int
		description    string
	}{
		{
			name: "正常なログアウト",
			setupToken: func() string {
				return authtest.LoginUser(s.T(), s.Router, "test@example.com", dbtest.DefaultPassword)
			},
			expectedStatus: http.StatusNoContent,
			description:    "有効なトークンでログアウトできること",
		},
		{
			name:           "無効なトークン",
			setupToken:     func() string { return "invalid-token" },
			expectedStatus: http.StatusUnauthorized,
			description:    "無効なトークンでログアウトできないこと",
		},
		{
			name:           "トークンなし",
			setupToken:     func() string { return "" },
			expectedStatus: http.StatusUnauthorized,
			description:    "トークンなしでログアウトできないこと",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, tt.setupToken())
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)
		})
	}
}

func (s *authSuite) TestMe() {
	tests := []struct {
		name           string
		setupUser      func() (string, string, string) // email, role, token
		expectedStatus int
		description    string
	}{
		{
			name: "管理者ユーザーの情報取得",
			setupUser: func() (string, string, string) {
				email := "admin@example.com"
				role := string(user.RoleAdmin)
				_, token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, email, role)
				return email, role, token
			},
			expectedStatus: http.StatusOK,
			description:    "管理者ユーザーの情報が取得できること",
		},
		{
			name: "ベンダーの情報取得",
			setupUser: func() (string, string, string) {
				email := "vendor2@example.com"
				role := string(user.RoleVendor)
				_, token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, email, role)
				return email, role, token
			},
			expectedStatus: http.StatusOK,
			description:    "ベンダーの情報が取得できること",
		},
		{
			name:           "無効なトークン",
			setupUser:      func() (string, string, string) { return "", "", "invalid-token" },
			expectedStatus: http.StatusUnauthorized,
			description:    "無効なトークンでは情報取得できないこと",
		},
		{
			name:           "トークンなし",
			setupUser:      func() (string, string, string) { return "", "", "" },
			expectedStatus: http.StatusUnauthorized,
			description:    "トークンなしでは情報取得できないこと",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			email, role, token := tt.setupUser()
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusOK {
				responseBody := w.Body.String()
				require.Contains(t, responseBody, email, "レスポンスにメールアドレスが含まれていない")
				require.Contains(t, responseBody, role, "レスポンスにロールが含まれていない")
				require.NotContains(t, responseBody, "password", "レスポンスにパスワード情報が含まれている")
			}
		})
	}
}

func (s *authSuite) TestTokenExpiry() {
	s.Run("期限切れトークンの拒否", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "expiry@example.com", string(user.RoleUser))
		expiredToken := s.jwtHelper.CreateExpiredToken(t, userID, user.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, expiredToken)
		require.Equal(t, http.StatusUnauthorized, w.Code, "期限切れトークンは拒否されるべき")
	})

	s.Run("リフレッシュトークンはアクセストークンとして使えない", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "refresh-as-access@example.com", string(user.RoleUser))
		refreshToken := s.jwtHelper.GenerateRefreshToken(t, userID, user.RoleUser)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, refreshToken)
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})
}

func (s *authSuite) TestRoleGates() {
	s.Run("ロールによるアクセス制御", func() {
		t := s.T()

		_, userToken := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleUser))
		_, vendorToken := authtest.CreateAndLogin(t, s.DB, s.Router, "seller@example.com", string(user.RoleVendor))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/vendor/listings", nil, userToken)
		require.Equal(t, http.StatusForbidden, w.Code, "一般ユーザーはベンダーAPIを使えない")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/vendor/listings", nil, vendorToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/admin/dashboard", nil, vendorToken)
		require.Equal(t, http.StatusForbidden, w.Code, "ベンダーは管理APIを使えない")

		adminID := dbtest.CreateTestUser(t, s.DB, "root@example.com", string(user.RoleAdmin))
		adminToken := s.jwtHelper.GenerateToken(t, adminID, user.RoleAdmin)
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/admin/dashboard", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}
