package server

import (
	"net/url"
	"testing"

	"github.com/mandeell/Mandel-Blog-Complete/internal/config"
	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/testutil"
	"github.com/mandeell/Mandel-Blog-Complete/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration(email string) url.Values {
	return url.Values{
		"name":             {"Ada Lovelace"},
		"email":            {email},
		"phone":            {"08012345678"},
		"password":         {testPassword},
		"confirm_password": {testPassword},
	}
}

func TestRegister_AnonymousIsSignedIn(t *testing.T) {
	env := newTestEnv(t)
	tc := env.client(t)

	form := registration("ada@example.com")
	form.Set("agent", "y")
	form.Set("admin", "y")
	resp := tc.postForm("/register", form)
	assertRedirect(t, resp, "/")

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "ada@example.com").First(&user).Error)
	assert.False(t, user.Agent, "role flags are ignored for anonymous registrants")
	assert.False(t, user.Admin)
	assert.NotEqual(t, testPassword, user.Password)

	body := readBody(t, tc.get("/"))
	assert.Contains(t, body, "Log Out")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "ada@example.com", testPassword, false, false)
	tc := env.client(t)

	resp := tc.postForm("/register", registration("ada@example.com"))
	assertRedirect(t, resp, "/login")

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "ada@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	body := readBody(t, tc.get("/login"))
	assert.Contains(t, body, "Email already registered. Login instead.")

	// Flashes are shown once.
	body = readBody(t, tc.get("/login"))
	assert.NotContains(t, body, "Email already registered. Login instead.")
}

func TestRegister_AdminGrantsRolesAndStaysSignedIn(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "root@example.com", testPassword, false, true)
	tc := env.client(t)
	tc.login("root@example.com", testPassword)

	body := readBody(t, tc.get("/register"))
	assert.Contains(t, body, `name="agent"`)

	form := registration("writer@example.com")
	form.Set("agent", "y")
	resp := tc.postForm("/register", form)
	assertRedirect(t, resp, "/")

	var created models.User
	require.NoError(t, env.db.Where("email = ?", "writer@example.com").First(&created).Error)
	assert.True(t, created.Agent)
	assert.False(t, created.Admin)

	body = readBody(t, tc.get("/"))
	assert.Contains(t, body, "Account created for writer@example.com.")
	assert.Contains(t, body, "Add User", "the admin is still signed in")
}

func TestRegister_InvalidFormIsRedisplayed(t *testing.T) {
	env := newTestEnv(t)
	tc := env.client(t)

	form := registration("ada@example.com")
	form.Set("password", "short")
	form.Set("confirm_password", "different")
	form.Set("phone", "12")
	resp := tc.postForm("/register", form)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, validation.MsgPasswordLength)
	assert.Contains(t, body, validation.MsgPasswordsMatch)
	assert.Contains(t, body, validation.MsgPhone)
	assert.Contains(t, body, `value="ada@example.com"`)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegister_AdminOnlyFlag(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.FeatureFlags = "admin_only_registration=on"
	})
	testutil.CreateUser(t, env.db, "root@example.com", testPassword, false, true)

	anon := env.client(t)
	assert.Equal(t, fiber.StatusForbidden, anon.get("/register").StatusCode)
	assert.Equal(t, fiber.StatusForbidden, anon.postForm("/register", registration("ada@example.com")).StatusCode)

	admin := env.client(t)
	admin.login("root@example.com", testPassword)
	assert.Equal(t, fiber.StatusOK, admin.get("/register").StatusCode)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "ada@example.com", testPassword, false, false)

	tests := []struct {
		name     string
		email    string
		password string
		flash    string
	}{
		{"unknown email", "nobody@example.com", testPassword, "User not found."},
		{"wrong password", "ada@example.com", "Wr0ng$pass", "Incorrect Password. Please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := env.client(t)
			resp := tc.postForm("/login", url.Values{"email": {tt.email}, "password": {tt.password}})
			assertRedirect(t, resp, "/login")

			body := readBody(t, tc.get("/login"))
			assert.Contains(t, body, tt.flash)
			assert.NotContains(t, body, "Log Out")
		})
	}
}

func TestLogin_InvalidForm(t *testing.T) {
	env := newTestEnv(t)
	resp := env.client(t).postForm("/login", url.Values{"email": {"not-an-email"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, validation.MsgEmail)
	assert.Contains(t, body, validation.MsgRequired)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "ada@example.com", testPassword, false, false)
	tc := env.client(t)
	tc.login("ada@example.com", testPassword)

	stale := tc.cookies[sessionCookieName]
	require.NotNil(t, stale)

	resp := tc.get("/logout")
	assertRedirect(t, resp, "/")
	assert.NotContains(t, readBody(t, tc.get("/")), "Log Out")

	// Replaying the old cookie does not restore the session.
	replay := env.client(t)
	replay.cookies[sessionCookieName] = stale
	assert.NotContains(t, readBody(t, replay.get("/")), "Log Out")
}
