package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPhone(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"Nigerian local mobile", "08012345678", true},
		{"Nigerian international mobile", "+2348031234567", true},
		{"Nigerian without prefix", "9012345678", true},
		{"International number", "+447400123456", true},
		{"Too short", "123", false},
		{"Letters", "not-a-phone", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPhone(tt.phone))
		})
	}
}

func TestIsStrongPassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"Missing symbol", "Abc12345", false},
		{"All classes", "Abc12345!", true},
		{"Exactly eight", "Abcd12$x", true},
		{"Too short", "Ab1!", false},
		{"No upper", "abc12345!", false},
		{"No lower", "ABC12345!", false},
		{"No digit", "Abcdefgh!", false},
		{"Symbol outside the set", "Abc12345#", false},
		{"Allowed symbol plus disallowed char", "Abc12345! ", false},
		{"Unicode letter", "Ångstr0m!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func validRegisterForm() RegisterForm {
	return RegisterForm{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Phone:           "08012345678",
		Password:        "Abc12345!",
		ConfirmPassword: "Abc12345!",
	}
}

func TestStruct_RegisterForm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(f *RegisterForm)
		want   map[string]string
	}{
		{"Valid", func(*RegisterForm) {}, nil},
		{"Password without symbol", func(f *RegisterForm) {
			f.Password, f.ConfirmPassword = "Abc12345", "Abc12345"
		}, map[string]string{"password": MsgPasswordStrength}},
		{"Short password", func(f *RegisterForm) {
			f.Password, f.ConfirmPassword = "Ab1!", "Ab1!"
		}, map[string]string{"password": MsgPasswordLength}},
		{"Mismatched confirmation", func(f *RegisterForm) {
			f.ConfirmPassword = "Abc12345?"
		}, map[string]string{"confirm_password": MsgPasswordsMatch}},
		{"Bad phone", func(f *RegisterForm) { f.Phone = "123" }, map[string]string{"phone": MsgPhone}},
		{"Every field failing at once", func(f *RegisterForm) {
			*f = RegisterForm{Email: "nope"}
		}, map[string]string{
			"name":             MsgRequired,
			"email":            MsgEmail,
			"phone":            MsgRequired,
			"password":         MsgRequired,
			"confirm_password": MsgRequired,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegisterForm()
			tt.mutate(&form)

			errs := Struct(&form)
			if tt.want == nil {
				assert.Nil(t, errs)
				return
			}
			require.NotNil(t, errs)
			assert.Len(t, errs, len(tt.want))
			for field, msg := range tt.want {
				assert.Equal(t, msg, errs.First(field), field)
			}
		})
	}
}

func TestStruct_PostForm(t *testing.T) {
	t.Parallel()

	form := PostForm{Title: "T", Subtitle: "S", Author: "A", ImageURL: "not a url", Body: "B"}
	errs := Struct(&form)
	require.NotNil(t, errs)
	assert.Equal(t, MsgURL, errs.First("img_url"))

	for _, bad := range []string{"foo:bar", "javascript:alert(1)", "ftp://example.com/cover.jpg", "/static/cover.jpg"} {
		form.ImageURL = bad
		errs = Struct(&form)
		require.NotNil(t, errs, bad)
		assert.Equal(t, MsgURL, errs.First("img_url"), bad)
	}

	form.ImageURL = "http://images.example.com/cover.jpg"
	assert.Nil(t, Struct(&form))

	form.ImageURL = "https://example.com/cover.jpg"
	assert.Nil(t, Struct(&form))
}

func TestStruct_LoginAndCommentForms(t *testing.T) {
	t.Parallel()

	// No strength rule on login.
	assert.Nil(t, Struct(&LoginForm{Email: "ada@example.com", Password: "weak"}))

	errs := Struct(&CommentForm{})
	require.NotNil(t, errs)
	assert.Equal(t, MsgRequired, errs.First("comment_text"))
}

func TestContactForm_NormalizeThenValidate(t *testing.T) {
	t.Parallel()

	form := ContactForm{Name: "  ", Email: " ada@example.com ", Phone: " 08012345678 ", Message: "hello"}
	form.Normalize()
	errs := Struct(&form)
	require.NotNil(t, errs)
	assert.Equal(t, MsgRequired, errs.First("name"))
	assert.Empty(t, errs.First("email"))
	assert.Contains(t, errs.Error(), "name: "+MsgRequired)
}
