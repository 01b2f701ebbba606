package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"musfit/sentinel"
	"musfit/services/user"
	"musfit/store"
)

type UserServiceSuite struct {
	suite.Suite
	svc user.Service
	ctx context.Context
}

func (s *UserServiceSuite) SetupTest() {
	s.svc = user.NewService(store.NewMemory())
	s.ctx = context.Background()
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) TestCreateProfile() {
	u, err := s.svc.CreateProfile(s.ctx, "Abdelrahman", "Alkhawas", "abdelrahman@example.com", "04-10-2001", "male", "Standard")
	s.Require().NoError(err)
	s.Equal("Abd11Alk8", u.ID)
	s.Equal("Male", u.Gender)
	s.Equal([]string{"Standard"}, u.Memberships)
	s.False(u.FreePassUsed)
	s.Empty(u.Scheduled)

	got, err := s.svc.GetUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.Email, got.Email)
	s.Equal(2001, got.Birthdate.Year())
}

func (s *UserServiceSuite) TestCreateProfileDuplicateName() {
	_, err := s.svc.CreateProfile(s.ctx, "Abdelrahman", "Alkhawas", "first@example.com", "04-10-2001", "Male", "")
	s.Require().NoError(err)

	_, err = s.svc.CreateProfile(s.ctx, "Abdelrahman", "Alkhawas", "second@example.com", "05-11-2002", "Male", "")
	s.Require().ErrorIs(err, sentinel.ErrAlreadyExists)
}

func (s *UserServiceSuite) TestCreateProfileValidation() {
	cases := []struct {
		name  string
		email string
		birth string
		sex   string
	}{
		{"bad email", "not-an-email", "04-10-2001", "Male"},
		{"email missing tld", "omar@host", "04-10-2001", "Male"},
		{"wrong date layout", "omar@example.com", "2001-10-04", "Male"},
		{"impossible date", "omar@example.com", "31-02-2001", "Male"},
		{"unknown gender", "omar@example.com", "04-10-2001", "other"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.CreateProfile(s.ctx, "Omar", "Zeid", tc.email, tc.birth, tc.sex, "")
			s.Require().ErrorIs(err, sentinel.ErrInvalidInput)

			// Validation failures must not leave a document behind.
			_, err = s.svc.GetUser(s.ctx, "Oma4Zei4")
			s.Require().ErrorIs(err, sentinel.ErrNotFound)
		})
	}
}

func (s *UserServiceSuite) TestEditUser() {
	u, err := s.svc.CreateProfile(s.ctx, "Omar", "Zeid", "omar@example.com", "04-10-2001", "Male", "")
	s.Require().NoError(err)

	s.Run("identity fields are immutable", func() {
		err := s.svc.EditUser(s.ctx, u.ID, "first_name", "Someone")
		s.Require().ErrorIs(err, sentinel.ErrFieldNotEditable)
	})

	s.Run("email is validated on edit", func() {
		err := s.svc.EditUser(s.ctx, u.ID, "email", "broken@")
		s.Require().ErrorIs(err, sentinel.ErrInvalidInput)
	})

	s.Run("json-decoded slices are coerced", func() {
		err := s.svc.EditUser(s.ctx, u.ID, "scheduled", []any{"M1a2b3foo"})
		s.Require().NoError(err)

		got, err := s.svc.GetUser(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal([]string{"M1a2b3foo"}, got.Scheduled)
	})

	s.Run("free pass flag", func() {
		s.Require().NoError(s.svc.EditUser(s.ctx, u.ID, "free_pass_used", true))
		got, err := s.svc.GetUser(s.ctx, u.ID)
		s.Require().NoError(err)
		s.True(got.FreePassUsed)
	})

	s.Run("unknown user", func() {
		err := s.svc.EditUser(s.ctx, "Nob4Ody4", "email", "nobody@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *UserServiceSuite) TestDeleteUser() {
	u, err := s.svc.CreateProfile(s.ctx, "Omar", "Zeid", "omar@example.com", "04-10-2001", "Male", "")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteUser(s.ctx, u.ID))
	_, err = s.svc.GetUser(s.ctx, u.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.svc.DeleteUser(s.ctx, u.ID), sentinel.ErrNotFound)
}
