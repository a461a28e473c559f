package service

import (
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func participantToAPI(p models.Participant) api.Participant {
	return api.Participant{ID: p.ID, Name: p.Name, ImageURL: p.ImageURL}
}

func userToAPI(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		ImageURL:    u.ImageURL,
		CreatedAt:   u.CreatedAt,
	}
}

func splitsToAPI(splits []models.Split) []api.Split {
	out := make([]api.Split, len(splits))
	for i, s := range splits {
		out[i] = api.Split{ParticipantID: s.ParticipantID, Amount: s.Amount, Paid: s.Paid}
	}
	return out
}

func splitsFromAPI(splits []api.Split) []models.Split {
	out := make([]models.Split, len(splits))
	for i, s := range splits {
		out[i] = models.Split{ParticipantID: s.ParticipantID, Amount: s.Amount, Paid: s.Paid}
	}
	return out
}

func expenseToAPI(e *models.Expense) api.Expense {
	return api.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
		PayerID:     e.PayerID,
		SplitType:   string(e.SplitType),
		Splits:      splitsToAPI(e.Splits),
		GroupID:     e.GroupID,
		CreatedBy:   e.CreatedBy,
	}
}

func settlementToAPI(s *models.Settlement) api.Settlement {
	return api.Settlement{
		ID:                s.ID,
		Amount:            s.Amount,
		Note:              s.Note,
		Date:              s.Date,
		PayerID:           s.PayerID,
		ReceiverID:        s.ReceiverID,
		GroupID:           s.GroupID,
		RelatedExpenseIDs: s.RelatedExpenseIDs,
		CreatedBy:         s.CreatedBy,
	}
}

func groupToAPI(g *models.Group) api.Group {
	return api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Members:     g.Members,
		CreatedAt:   g.CreatedAt,
	}
}
