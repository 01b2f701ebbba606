package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"musfit/sentinel"
	"musfit/services/event"
	"musfit/store"
)

type EventServiceSuite struct {
	suite.Suite
	svc event.Service
	ctx context.Context
}

func (s *EventServiceSuite) SetupTest() {
	s.svc = event.NewService(store.NewMemory())
	s.ctx = context.Background()
}

func TestEventServiceSuite(t *testing.T) {
	suite.Run(t, new(EventServiceSuite))
}

func (s *EventServiceSuite) TestCreateSingularEvent() {
	ev, err := s.svc.CreateSingularEvent(s.ctx, "mens football", "male", "Football", "2024-04-05-21-00", 55, 12, []string{"indoor", "football"})
	s.Require().NoError(err)

	s.Equal("Male", ev.Gender)
	s.Equal("football", ev.Sport)
	s.Equal(12, ev.Capacity)
	s.Empty(ev.Enrolled)
	// Sport, gender and the non-recurring marker join the caller's tags,
	// each at most once.
	s.ElementsMatch([]string{"indoor", "football", "Male", event.TagNonRecurring}, ev.Tags)

	got, err := s.svc.GetEvent(s.ctx, ev.ID)
	s.Require().NoError(err)
	s.Equal(ev.ID, got.ID)
	s.Equal(2024, got.StartTime.Year())
}

func (s *EventServiceSuite) TestCreateDuplicateInstance() {
	_, err := s.svc.CreateSingularEvent(s.ctx, "mens football", "Male", "football", "2024-04-05-21-00", 55, 12, nil)
	s.Require().NoError(err)

	// Same sport, gender and start derive the same id.
	_, err = s.svc.CreateSingularEvent(s.ctx, "another name", "Male", "football", "2024-04-05-21-00", 90, 8, nil)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyExists)
}

func (s *EventServiceSuite) TestCreateValidation() {
	cases := []struct {
		name     string
		evName   string
		gender   string
		start    string
		duration int
		capacity int
	}{
		{"missing name", "", "Male", "2024-04-05-21-00", 55, 12},
		{"unknown gender", "mens football", "mixed", "2024-04-05-21-00", 55, 12},
		{"bad start layout", "mens football", "Male", "2024-04-05 21:00", 55, 12},
		{"zero duration", "mens football", "Male", "2024-04-05-21-00", 0, 12},
		{"negative capacity", "mens football", "Male", "2024-04-05-21-00", 55, -1},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.CreateSingularEvent(s.ctx, tc.evName, tc.gender, "football", tc.start, tc.duration, tc.capacity, nil)
			s.Require().ErrorIs(err, sentinel.ErrInvalidInput)
		})
	}
}

func (s *EventServiceSuite) TestListByTag() {
	_, err := s.svc.CreateSingularEvent(s.ctx, "mens football", "Male", "football", "2024-04-05-21-00", 55, 12, nil)
	s.Require().NoError(err)
	_, err = s.svc.CreateSingularEvent(s.ctx, "womens basketball", "Female", "basketball", "2024-04-06-19-00", 60, 10, nil)
	s.Require().NoError(err)

	events, err := s.svc.ListByTag(s.ctx, "football")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("mens football", events[0].Name)

	events, err = s.svc.ListByTag(s.ctx, "pilates")
	s.Require().NoError(err)
	s.Empty(events)

	_, err = s.svc.ListByTag(s.ctx, "")
	s.Require().ErrorIs(err, sentinel.ErrInvalidInput)
}

func (s *EventServiceSuite) TestDeleteEvent() {
	ev, err := s.svc.CreateSingularEvent(s.ctx, "mens football", "Male", "football", "2024-04-05-21-00", 55, 12, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteEvent(s.ctx, ev.ID))
	_, err = s.svc.GetEvent(s.ctx, ev.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.svc.DeleteEvent(s.ctx, ev.ID), sentinel.ErrNotFound)
}
