package dto

import (
	"photoevent/domain/models"
	"photoevent/domain/services"
)

func UserToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

// EventToEventResponse maps an event for its owner, including the user id.
func EventToEventResponse(event *models.Event) EventResponse {
	return EventResponse{
		ID:          event.ID.String(),
		Name:        event.Name,
		Description: event.Description,
		Date:        event.Date,
		UserID:      event.UserID.String(),
		PhotoCount:  event.PhotoCount,
		QRURL:       event.QRURL,
		CreatedAt:   event.CreatedAt,
	}
}

// EventToPublicEventResponse maps an event for attendees; the owning user
// is never exposed on the public surface.
func EventToPublicEventResponse(event *models.Event) EventResponse {
	resp := EventToEventResponse(event)
	resp.UserID = ""
	return resp
}

func PhotoToPhotoResponse(photo *models.Photo) PhotoResponse {
	return PhotoResponse{
		ID:                photo.ID.String(),
		EventID:           photo.EventID.String(),
		URL:               photo.URL,
		FileName:          photo.FileName,
		FingerprintStatus: string(photo.FingerprintStatus),
		CreatedAt:         photo.CreatedAt,
	}
}

func PhotosToPhotoResponses(photos []models.Photo) []PhotoResponse {
	out := make([]PhotoResponse, len(photos))
	for i := range photos {
		out[i] = PhotoToPhotoResponse(&photos[i])
	}
	return out
}

func MatchResultToResponse(m services.MatchResult) MatchedPhotoResponse {
	return MatchedPhotoResponse{
		ID:         m.PhotoID.String(),
		EventID:    m.EventID.String(),
		URL:        m.URL,
		FileName:   m.FileName,
		Similarity: m.Similarity,
		CreatedAt:  m.CreatedAt,
	}
}

func MatchResultsToResponses(results []services.MatchResult) []MatchedPhotoResponse {
	out := make([]MatchedPhotoResponse, len(results))
	for i, m := range results {
		out[i] = MatchResultToResponse(m)
	}
	return out
}
