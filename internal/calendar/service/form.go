package service

import (
	"context"
	"errors"
	"strconv"

	"ms-calendar/internal/models"
	"ms-calendar/internal/session"
)

type FormService struct {
	Events *EventRepository
}

func NewFormService(events *EventRepository) *FormService {
	return &FormService{Events: events}
}

// PrepareForm builds the create form when rawID is nil and the edit form
// otherwise. An id that is malformed or unknown yields ErrNoForm; storage
// failures are returned as is.
func (s *FormService) PrepareForm(ctx context.Context, rawID *string) (*models.EventForm, error) {
	form := &models.EventForm{
		Submit: models.SubmitCreate,
		Token:  session.Token(ctx),
		Action: models.ActionEventEdit,
	}
	if rawID == nil {
		return form, nil
	}

	event, err := s.Events.FindByID(ctx, *rawID)
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) {
		return nil, ErrNoForm
	}
	if err != nil {
		return nil, err
	}

	form.ID = strconv.FormatInt(event.ID, 10)
	form.Title = event.Title
	form.Description = event.Description
	form.Start = event.Start.In(s.Events.Location).Format(models.FormTimeLayout)
	form.End = event.End.In(s.Events.Location).Format(models.FormTimeLayout)
	form.Submit = models.SubmitEdit
	form.Editing = true
	return form, nil
}
