package services

import (
	"strings"
	"testing"

	"pfm-api/internal/config"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type PasswordServiceTestSuite struct {
	suite.Suite
	service PasswordServiceInterface
}

func (s *PasswordServiceTestSuite) SetupTest() {
	s.service = NewPasswordService(&config.SecurityConfig{BCryptCost: bcrypt.MinCost})
}

func TestPasswordServiceSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) TestValidatePassword() {
	cases := []struct {
		name     string
		password string
		err      error
	}{
		{"valid", "SecurePass123!@#", nil},
		{"with spaces", "Secure Pass123!", nil},
		{"minimum valid", "Aa1!Aa1!Aa1!", nil},
		{"empty", "", ErrPasswordEmpty},
		{"too short", "Short1!", ErrPasswordTooShort},
		{"too long", strings.Repeat("Aa1!", 19), ErrPasswordTooLong},
		{"missing uppercase", "securepass123!@#", ErrPasswordNoUppercase},
		{"missing lowercase", "SECUREPASS123!@#", ErrPasswordNoLowercase},
		{"missing number", "SecurePass!@#$", ErrPasswordNoNumber},
		{"missing special", "SecurePass1234", ErrPasswordNoSpecial},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := s.service.ValidatePassword(tc.password)
			if tc.err == nil {
				s.NoError(err)
				return
			}
			s.ErrorIs(err, tc.err)
		})
	}
}

func (s *PasswordServiceTestSuite) TestValidatePassword_ConfiguredMinimum() {
	service := NewPasswordService(&config.SecurityConfig{PasswordMinLength: 16})

	s.ErrorIs(service.ValidatePassword("Aa1!Aa1!Aa1!"), ErrPasswordTooShort)
	s.NoError(service.ValidatePassword("Aa1!Aa1!Aa1!Aa1!"))
}

func (s *PasswordServiceTestSuite) TestNewPasswordService_IgnoresInvalidCost() {
	service := NewPasswordService(&config.SecurityConfig{BCryptCost: 99}).(*PasswordService)
	s.Equal(DefaultBCryptCost, service.cost)

	service = NewPasswordService(nil).(*PasswordService)
	s.Equal(DefaultBCryptCost, service.cost)
	s.Equal(MinPasswordLength, service.minLength)
}

func (s *PasswordServiceTestSuite) TestHashPassword() {
	hash, err := s.service.HashPassword("SecurePass123!@#")

	s.NoError(err)
	s.NotEqual("SecurePass123!@#", hash)
	s.True(strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$"))
}

func (s *PasswordServiceTestSuite) TestHashPassword_InvalidPassword() {
	hash, err := s.service.HashPassword("short")

	s.ErrorIs(err, ErrPasswordTooShort)
	s.Empty(hash)
}

func (s *PasswordServiceTestSuite) TestHashPassword_SaltsEachHash() {
	first, err := s.service.HashPassword("SecurePass123!@#")
	s.Require().NoError(err)
	second, err := s.service.HashPassword("SecurePass123!@#")
	s.Require().NoError(err)

	s.NotEqual(first, second)
}

func (s *PasswordServiceTestSuite) TestComparePassword() {
	hash, err := s.service.HashPassword("SecurePass123!@#")
	s.Require().NoError(err)

	s.True(s.service.ComparePassword("SecurePass123!@#", hash))
	s.False(s.service.ComparePassword("SecurePass123!@", hash))
	s.False(s.service.ComparePassword("", hash))
	s.False(s.service.ComparePassword("SecurePass123!@#", "not-a-hash"))
}

func (s *PasswordServiceTestSuite) TestPasswordStrength() {
	s.Equal(0, s.service.PasswordStrength(""))
	s.Less(s.service.PasswordStrength("abc"), 50)
	s.GreaterOrEqual(s.service.PasswordStrength("Aa1!Aa1!Aa1!"), 80)
	s.Equal(100, s.service.PasswordStrength("SecurePass123!@#"))
}
